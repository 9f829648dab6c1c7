package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// InitResult is the structured output of the init command.
type InitResult struct {
	Database string `json:"database" yaml:"database"`
	Seeded   int    `json:"seeded" yaml:"seeded"`
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the database and seed the default categories",
		Long: `Create the category, unsorted and sorted tables if they do not exist.

The default categories are seeded only into an empty category table, so
running init again is harmless.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.runWithEnv(cmd, func(ctx context.Context, env *appEnv) error {
				seeded, err := env.engine.Initialize(ctx)
				if err != nil {
					return err
				}
				res := InitResult{Database: env.cfg.Database.Path, Seeded: seeded}
				return env.out.Success(res, func() string {
					if seeded == 0 {
						return fmt.Sprintf("Database %s is ready.", res.Database)
					}
					return fmt.Sprintf("Database %s is ready. Seeded %d categories.", res.Database, seeded)
				})
			})
		},
	}
}

// NewTeardownCommand creates the teardown command.
func NewTeardownCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "teardown",
		Short: "Drop every table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.runWithEnv(cmd, func(ctx context.Context, env *appEnv) error {
				ok, err := confirm("Drop every table?", "All notifications and categories will be lost.", yes)
				if err != nil {
					return err
				}
				if !ok {
					return env.out.Success(map[string]bool{"dropped": false}, func() string { return "Aborted." })
				}
				if err := env.engine.Teardown(ctx); err != nil {
					return err
				}
				return env.out.Success(map[string]bool{"dropped": true}, func() string { return "All tables dropped." })
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

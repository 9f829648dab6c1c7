package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/notify/internal/model"
)

// DeleteResult is the structured output of the delete commands.
type DeleteResult struct {
	Table   string `json:"table" yaml:"table"`
	ID      int64  `json:"id,omitempty" yaml:"id,omitempty"`
	Removed int64  `json:"removed" yaml:"removed"`
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete unsorted|sorted <id>",
		Short: "Delete one notification",
		Long:  "Delete one notification. Later notifications move down to close the gap.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.runWithEnv(cmd, func(ctx context.Context, env *appEnv) error {
				table, err := parseNotificationTable(args[0])
				if err != nil {
					return err
				}
				id, err := parseID(args[1])
				if err != nil {
					return err
				}
				if err := env.engine.Delete(ctx, table, id); err != nil {
					return err
				}
				res := DeleteResult{Table: string(table), ID: id, Removed: 1}
				return env.out.Success(res, func() string {
					return fmt.Sprintf("Deleted %s notification #%d.", table, id)
				})
			})
		},
	}
}

// NewDeleteAllCommand creates the delete-all command.
func NewDeleteAllCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete-all unsorted|sorted",
		Short: "Delete every notification in a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.runWithEnv(cmd, func(ctx context.Context, env *appEnv) error {
				table, err := parseNotificationTable(args[0])
				if err != nil {
					return err
				}

				counts, err := env.engine.Counts(ctx)
				if err != nil {
					return err
				}
				n := counts.Unsorted
				if table == model.TableSorted {
					n = counts.Sorted
				}

				ok, err := confirm(
					fmt.Sprintf("Delete all %s notifications?", table),
					fmt.Sprintf("%d notifications will be removed.", n),
					yes,
				)
				if err != nil {
					return err
				}
				if !ok {
					return env.out.Success(DeleteResult{Table: string(table)}, func() string { return "Aborted." })
				}

				removed, err := env.engine.DeleteAll(ctx, table)
				if err != nil {
					return err
				}
				res := DeleteResult{Table: string(table), Removed: removed}
				return env.out.Success(res, func() string {
					return fmt.Sprintf("Deleted %d %s notifications.", removed, table)
				})
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

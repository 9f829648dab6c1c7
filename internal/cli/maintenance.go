package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nhle/notify/internal/lifecycle"
	"github.com/nhle/notify/internal/model"
	"github.com/nhle/notify/internal/render"
)

// ImportanceLevel is one entry of the importance scale.
type ImportanceLevel struct {
	Level int    `json:"level" yaml:"level"`
	Label string `json:"label" yaml:"label"`
}

// NewImportanceCommand creates the importance command.
func NewImportanceCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "importance",
		Short: "Show the importance scale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)
			cfg, err := rootOpts.loadConfig()
			if err != nil {
				return fail(out, WrapExitError(ExitCommandError, "loading config", err))
			}
			levels := cfg.ImportanceLevels
			scale := make([]ImportanceLevel, 0, len(levels))
			for _, l := range levels.Levels() {
				scale = append(scale, ImportanceLevel{Level: l, Label: levels.Label(l)})
			}
			return out.Success(scale, func() string { return render.ImportanceTable(levels) })
		},
	}
}

// NewResequenceCommand creates the resequence command.
func NewResequenceCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resequence",
		Short: "Renumber every table to 1..n",
		Long: `Renumber the category, unsorted and sorted tables so ids run from 1
without gaps. Every write already does this; the command repairs a
database edited by other tools.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.runWithEnv(cmd, func(ctx context.Context, env *appEnv) error {
				if err := env.engine.Resequence(ctx); err != nil {
					return err
				}
				counts, err := env.engine.Counts(ctx)
				if err != nil {
					return err
				}
				return env.out.Success(counts, func() string {
					return fmt.Sprintf("Resequenced %d categories, %d unsorted and %d sorted notifications.",
						counts.Categories, counts.Unsorted, counts.Sorted)
				})
			})
		},
	}
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every category and notification as YAML or JSON",
		Long: `Write the categories, unsorted and sorted notifications as YAML.
Use --format json for JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.runWithEnv(cmd, func(ctx context.Context, env *appEnv) error {
				snap, err := env.engine.Snapshot(ctx)
				if err != nil {
					return err
				}

				w := cmd.OutOrStdout()
				if outPath != "" {
					f, err := os.Create(outPath)
					if err != nil {
						return fmt.Errorf("creating %s: %w", outPath, err)
					}
					defer f.Close()
					w = f
				}

				if err := writeSnapshot(w, snap, rootOpts.Format); err != nil {
					return fmt.Errorf("writing export: %w", err)
				}
				if outPath != "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d categories, %d unsorted and %d sorted notifications to %s\n",
						len(snap.Categories), len(snap.Unsorted), len(snap.Sorted), outPath)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write to this file instead of stdout")
	return cmd
}

func writeSnapshot(w io.Writer, snap lifecycle.Snapshot, format string) error {
	if snap.Categories == nil {
		snap.Categories = []model.CategoryCount{}
	}
	if snap.Unsorted == nil {
		snap.Unsorted = []model.UnsortedNotification{}
	}
	if snap.Sorted == nil {
		snap.Sorted = []model.SortedView{}
	}

	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(snap); err != nil {
		return err
	}
	return enc.Close()
}

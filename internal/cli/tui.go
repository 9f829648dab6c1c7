package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/notify/internal/app"
	"github.com/nhle/notify/internal/logging"
)

// NewTUICommand creates the tui command.
func NewTUICommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the terminal UI",
		Long: `Open the interactive terminal UI. Configured sources are fetched in
the background on their poll interval. Log lines go to log.file so they
never paint over the screen.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.loadConfig()
			if err != nil {
				return fail(rootOpts.formatter(cmd), WrapExitError(ExitCommandError, "loading config", err))
			}

			level := cfg.Log.Level
			if rootOpts.LogLevel != "" {
				level = rootOpts.LogLevel
			}
			logger, f, err := logging.NewFile(level, cfg.Log.File)
			if err != nil {
				return fail(rootOpts.formatter(cmd), WrapExitError(ExitCommandError, "opening log file", err))
			}
			defer f.Close()

			env, err := rootOpts.openEnv(cmd, logger)
			if err != nil {
				return fail(rootOpts.formatter(cmd), err)
			}
			defer env.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if _, err := env.engine.Initialize(ctx); err != nil {
				return fail(env.out, err)
			}

			logger.Info("terminal ui starting", "database", env.cfg.Database.Path, "sources", len(env.cfg.Sources))
			if err := app.Run(ctx, env.engine, env.cfg, rootOpts.ConfigPath, logger); err != nil {
				return fail(env.out, fmt.Errorf("running terminal ui: %w", err))
			}
			return nil
		},
	}
}

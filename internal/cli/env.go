package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nhle/notify/internal/lifecycle"
	"github.com/nhle/notify/internal/logging"
	"github.com/nhle/notify/internal/model"
	"github.com/nhle/notify/internal/store"
)

// appEnv bundles what a command needs once configuration is loaded and
// the database is open.
type appEnv struct {
	cfg    *model.AppConfig
	store  *store.SQLiteStore
	engine *lifecycle.Engine
	log    *slog.Logger
	out    *OutputFormatter
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// logLevel picks the CLI log level: the flag wins, -v means debug, and
// otherwise only warnings reach stderr.
func (o *RootOptions) logLevel() string {
	switch {
	case o.LogLevel != "":
		return o.LogLevel
	case o.Verbose:
		return "debug"
	default:
		return "warn"
	}
}

// loadConfig reads the config file and applies flag overrides.
func (o *RootOptions) loadConfig() (*model.AppConfig, error) {
	cfg, err := model.LoadConfig(o.ConfigPath)
	if err != nil {
		return nil, err
	}
	if o.DBPath != "" {
		cfg.Database.Path = o.DBPath
	}
	return cfg, nil
}

// openEnv loads configuration, opens the database and builds the engine.
func (o *RootOptions) openEnv(cmd *cobra.Command, logger *slog.Logger) (*appEnv, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "loading config", err)
	}

	if logger == nil {
		logger = logging.New(o.logLevel(), cmd.ErrOrStderr())
	}

	if path := cfg.Database.Path; path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, WrapExitError(ExitCommandError, "creating database directory", err)
		}
	}

	s, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("opening database %s", cfg.Database.Path), err)
	}

	engine := lifecycle.New(s, lifecycle.Config{
		ImportanceLevels:  cfg.ImportanceLevels,
		DefaultCategories: cfg.DefaultCategories,
	}, logger)

	return &appEnv{
		cfg:    cfg,
		store:  s,
		engine: engine,
		log:    logger,
		out:    o.formatter(cmd),
	}, nil
}

func (e *appEnv) Close() {
	if err := e.store.Close(); err != nil {
		e.log.Warn("closing database", "error", err)
	}
}

// runWithEnv opens the environment, runs fn and reports any error through
// the formatter.
func (o *RootOptions) runWithEnv(cmd *cobra.Command, fn func(ctx context.Context, env *appEnv) error) error {
	env, err := o.openEnv(cmd, nil)
	if err != nil {
		return fail(o.formatter(cmd), err)
	}
	defer env.Close()

	if err := fn(cmd.Context(), env); err != nil {
		return fail(env.out, err)
	}
	return nil
}

// Package commands implements the leapdb subcommands.
package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapdb/internal/cli/config"
	"github.com/leapstack-labs/leapdb/internal/cli/output"
	"github.com/leapstack-labs/leapdb/pkg/db"
	"github.com/leapstack-labs/leapdb/pkg/schema"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Db       *db.Db
	Manager  *schema.Manager
	Renderer *output.Renderer
}

// NewCommandContext opens the configured target and builds a schema manager
// over the migrations directory. With loadMigrations false the manager has no
// migrations, which is enough for status and unlock.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command, loadMigrations bool) (*CommandContext, func(), error) {
	cmdCtx, err := NewCommandContextWithoutDb(cmd)
	if err != nil {
		return nil, nil, err
	}
	cfg := cmdCtx.Cfg

	var migrations []schema.Migration
	if loadMigrations {
		if err := cfg.ValidateDirectories(); err != nil {
			return nil, nil, err
		}
		migrations, err = schema.LoadDir(os.DirFS(cfg.MigrationsDir), ".")
		if err != nil {
			return nil, nil, err
		}
		cmdCtx.Logger.Debug("loaded migrations",
			slog.String("dir", cfg.MigrationsDir),
			slog.Int("count", len(migrations)))
	}

	database, err := db.Open(cmd.Context(), cfg.Target.AdapterConfig(), db.WithLogger(cmdCtx.Logger))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s target: %w", cfg.Target.Type, err)
	}

	opts := []schema.Option{
		schema.WithLogger(cmdCtx.Logger),
		schema.WithBackoff(cfg.LockBackoff),
	}
	if cfg.Process != "" {
		opts = append(opts, schema.WithProcess(cfg.Process))
	}
	manager, err := schema.NewManager(database, migrations, opts...)
	if err != nil {
		_ = database.Close()
		return nil, nil, err
	}

	cmdCtx.Db = database
	cmdCtx.Manager = manager

	cleanup := func() {
		if err := database.Close(); err != nil {
			cmdCtx.Logger.Warn("failed to close database", slog.Any("error", err))
		}
	}
	return cmdCtx, cleanup, nil
}

// NewCommandContextWithoutDb creates a CommandContext without a database.
// Useful for commands that don't need database access.
func NewCommandContextWithoutDb(cmd *cobra.Command) (*CommandContext, error) {
	cfg := config.GetConfig(cmd.Context())
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	mode := output.Mode(cfg.OutputFormat)
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode),
	}, nil
}

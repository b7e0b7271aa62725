// Package cli provides the command-line interface for leapdb.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapdb/internal/cli/commands"
	"github.com/leapstack-labs/leapdb/internal/cli/config"

	// Register adapters and dialects.
	_ "github.com/leapstack-labs/leapdb/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/leapdb/pkg/adapters/mysql"
	_ "github.com/leapstack-labs/leapdb/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/leapdb/pkg/adapters/sqlite"
	_ "github.com/leapstack-labs/leapdb/pkg/dialects/ansi"
)

// Set with -ldflags "-X github.com/leapstack-labs/leapdb/internal/cli.Version=...".
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// skipConfig lists commands that run without loading configuration.
var skipConfig = map[string]bool{
	"help":       true,
	"completion": true,
	"__complete": true,
	"version":    true,
	"render":     true,
	"dialects":   true,
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "leapdb",
		Short: "leapdb - coordinated schema migrations",
		Long: `leapdb applies numbered SQL migrations to a database and records them
in a schemaHistory table. Processes migrating the same database at once
coordinate through a lock row so every migration runs exactly once.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if skipConfig[cmd.Name()] {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			logger := NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
			if cfg.ConfigFile != "" {
				logger.Debug("using config file", slog.String("path", cfg.ConfigFile))
			}

			ctx := config.WithConfig(cmd.Context(), cfg)
			ctx = config.WithLogger(ctx, logger)
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./leapdb.yaml)")
	rootCmd.PersistentFlags().String("type", "", "Target database type (sqlite|duckdb|postgres|mysql)")
	rootCmd.PersistentFlags().String("database", "", "Target database file or name")
	rootCmd.PersistentFlags().String("migrations-dir", "", "Path to migrations directory")
	rootCmd.PersistentFlags().String("process", "", "Process identifier recorded in the history table")
	rootCmd.PersistentFlags().Duration("lock-backoff", 0, "Wait between lock attempts while another process migrates")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (auto|table|text|json|yaml)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return config.OutputFormats, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(commands.BuildInfo{Version: Version, Commit: GitCommit, Date: BuildDate}))
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewCreateSchemaCommand())
	rootCmd.AddCommand(commands.NewStatusCommand())
	rootCmd.AddCommand(commands.NewUnlockCommand())
	rootCmd.AddCommand(commands.NewRenderCommand())
	rootCmd.AddCommand(commands.NewDialectsCommand())

	return rootCmd
}

// NewLogger builds the text logger on w, at debug level when verbose.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

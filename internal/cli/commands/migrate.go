package commands

import (
	"github.com/spf13/cobra"
)

// migrateResult is the structured output of migrate and create-schema.
type migrateResult struct {
	Process string `json:"process" yaml:"process"`
	Applied int    `json:"applied" yaml:"applied"`
	Total   int    `json:"total" yaml:"total"`
}

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Bring the database schema up to date",
		Long: `Apply every migration of the migrations directory that the target
database has not seen yet.

Processes started together coordinate through the lock row of the
schemaHistory table: one applies the pending migrations while the others
wait and then find nothing left to do. Running migrate again is a no-op.`,
		Example: `  # Apply pending migrations from ./migrations
  leapdb migrate

  # Use another directory and database
  leapdb migrate --migrations-dir db/sql --type sqlite --database app.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd, true)
			if err != nil {
				return err
			}
			defer cleanup()

			applied, err := cmdCtx.Manager.EnsureCurrentSchema(cmd.Context())
			if err != nil {
				return err
			}
			return renderMigrateResult(cmdCtx, migrateResult{
				Process: cmdCtx.Manager.Process(),
				Applied: applied,
				Total:   len(cmdCtx.Manager.Migrations()),
			})
		},
	}
}

// NewCreateSchemaCommand creates the create-schema command.
func NewCreateSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create-schema",
		Short: "Create the history table and apply all migrations without locking",
		Long: `Create the schemaHistory table and apply every migration in order
without taking the lock.

Only use this on a fresh database that no other process is migrating.
It fails if the history table already exists.`,
		Example: `  leapdb create-schema --database fresh.db`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd, true)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := cmdCtx.Manager.CreateSchema(cmd.Context()); err != nil {
				return err
			}
			n := len(cmdCtx.Manager.Migrations())
			return renderMigrateResult(cmdCtx, migrateResult{
				Process: cmdCtx.Manager.Process(),
				Applied: n,
				Total:   n,
			})
		},
	}
}

func renderMigrateResult(cmdCtx *CommandContext, res migrateResult) error {
	if handled, err := cmdCtx.Renderer.Data(res); handled {
		return err
	}
	if res.Applied == 0 {
		cmdCtx.Renderer.Printf("Schema is up to date (%d migrations)\n", res.Total)
		return nil
	}
	cmdCtx.Renderer.Printf("Applied %d of %d migrations\n", res.Applied, res.Total)
	return nil
}

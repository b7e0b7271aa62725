package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapdb/pkg/dialect"
	"github.com/leapstack-labs/leapdb/pkg/schema"
)

// NewRenderCommand creates the render command.
func NewRenderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "render <dialect>",
		Short: "Print the CREATE TABLE statement of the history table",
		Long: `Render the CREATE TABLE statement of the schemaHistory table in the
given dialect. Use it to create the table by hand or to review the column
types a dialect produces.`,
		Example: `  leapdb render postgres
  leapdb render sqlite > history.sql`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return dialect.List(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := dialect.Lookup(args[0])
			if err != nil {
				return err
			}
			sql, err := d.RenderCreateTable(schema.SchemaHistory.Table)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), sql)
			return nil
		},
	}
}

// NewDialectsCommand creates the dialects command.
func NewDialectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List registered SQL dialects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range dialect.List() {
				d, _ := dialect.Get(name)
				placeholder := d.FormatPlaceholder(1)
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-10s placeholder %s\n", name, placeholder)
			}
			return nil
		},
	}
}

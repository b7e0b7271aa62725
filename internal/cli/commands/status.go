package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapdb/internal/cli/output"
	"github.com/leapstack-labs/leapdb/pkg/schema"
)

// statusResult is the structured output of status.
type statusResult struct {
	Initialized bool            `json:"initialized" yaml:"initialized"`
	Lock        *schema.Lock    `json:"lock,omitempty" yaml:"lock,omitempty"`
	History     []schema.Record `json:"history" yaml:"history"`
}

// NewStatusCommand creates the status command.
func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show applied migrations and the schema lock",
		Long: `Show the rows of the schemaHistory table: every applied migration
with its version, applying process and time, followed by the state of the
lock row.`,
		Example: `  leapdb status
  leapdb status --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd, false)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()
			exists, err := cmdCtx.Manager.SchemaHistoryExists(ctx)
			if err != nil {
				return err
			}

			res := statusResult{Initialized: exists, History: []schema.Record{}}
			if exists {
				if res.History, err = cmdCtx.Manager.History(ctx); err != nil {
					return err
				}
				lock, err := cmdCtx.Manager.LockHolder(ctx)
				if err != nil {
					return err
				}
				res.Lock = &lock
			}
			return renderStatus(cmdCtx.Renderer, res)
		},
	}
}

func renderStatus(r *output.Renderer, res statusResult) error {
	if handled, err := r.Data(res); handled {
		return err
	}
	if !res.Initialized {
		r.Println("Schema history table does not exist; run leapdb migrate")
		return nil
	}

	h := schema.SchemaHistory
	rows := make([][]any, len(res.History))
	for i, rec := range res.History {
		rows[i] = []any{rec.Version, rec.ID, rec.Description, rec.Process, rec.Time.Format(time.RFC3339)}
	}
	r.Table(output.ColumnsOf(h.Version, h.ID, h.Description, h.Process, h.Time), rows)

	if res.Lock.Held {
		r.KeyValue("lock", fmt.Sprintf("held by %s since %s (%s)",
			res.Lock.Process, res.Lock.Since.Format(time.RFC3339), res.Lock.Description))
	} else {
		r.KeyValue("lock", "free")
	}
	return nil
}

package db

import (
	"context"

	"github.com/leapstack-labs/leapdb/pkg/core"
)

// Delete builds a DELETE statement.
type Delete struct {
	statement
}

// As aliases the table rows are deleted from.
func (d *Delete) As(alias string) *Delete {
	if d.stmt.Table != nil {
		d.stmt.SetAlias(d.stmt.Table, alias)
	}
	return d
}

// Where conjoins cond with the existing condition.
func (d *Delete) Where(cond core.Condition) *Delete {
	d.stmt.AddWhere(cond)
	return d
}

// Execute runs the delete and returns the number of deleted rows.
func (d *Delete) Execute(ctx context.Context) (int64, error) {
	return d.update(ctx)
}

package db

import (
	"context"

	"github.com/leapstack-labs/leapdb/pkg/core"
)

// Insert builds an INSERT statement.
type Insert struct {
	statement
}

// Set assigns value to column c. A nil value or nil pointer omits the
// column, so the database default applies; use SetNull to insert NULL.
func (i *Insert) Set(c *core.Column, value any) *Insert {
	if core.IsNil(value) {
		i.stmt.RequireColumn(c)
		return i
	}
	i.stmt.AddValue(c, value)
	return i
}

// SetNull inserts SQL NULL into column c.
func (i *Insert) SetNull(c *core.Column) *Insert {
	i.stmt.AddValue(c, nil)
	return i
}

// Execute runs the insert and returns the number of inserted rows.
func (i *Insert) Execute(ctx context.Context) (int64, error) {
	return i.update(ctx)
}

package db

import (
	"context"

	"github.com/leapstack-labs/leapdb/pkg/core"
)

// Update builds an UPDATE statement.
type Update struct {
	statement
}

// As aliases the updated table.
func (u *Update) As(alias string) *Update {
	if u.stmt.Table != nil {
		u.stmt.SetAlias(u.stmt.Table, alias)
	}
	return u
}

// Set assigns value to column c. A nil value sets the column to NULL.
func (u *Update) Set(c *core.Column, value any) *Update {
	u.stmt.AddValue(c, value)
	return u
}

// Where conjoins cond with the existing condition.
func (u *Update) Where(cond core.Condition) *Update {
	u.stmt.AddWhere(cond)
	return u
}

// Execute runs the update and returns the number of updated rows.
func (u *Update) Execute(ctx context.Context) (int64, error) {
	return u.update(ctx)
}

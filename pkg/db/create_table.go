package db

import "context"

// CreateTable builds a CREATE TABLE statement from a table definition.
type CreateTable struct {
	statement
}

// Execute creates the table.
func (c *CreateTable) Execute(ctx context.Context) error {
	_, err := c.update(ctx)
	return err
}

package core

import (
	"fmt"
	"sync/atomic"
)

// TableID is a process-unique handle for a Table. Aliases and column identity
// are keyed on it instead of on pointer equality.
type TableID uint32

var lastTableID atomic.Uint32

// Table is a static description of a relational table.
//
// A Table is built once with NewTable and explicit Column calls, typically in a
// package-level var block, and is treated as immutable afterwards. Tables are
// shared by pointer across all statements.
type Table struct {
	id      TableID
	name    string
	columns []*Column
}

// NewTable creates an empty table with a fresh TableID.
func NewTable(name string) *Table {
	return &Table{
		id:   TableID(lastTableID.Add(1)),
		name: name,
	}
}

// Column attaches a column to the table and returns the table for chaining.
// The column's position is its attach order. Attaching a column that already
// belongs to a table, or a duplicate column name, is a schema definition bug and panics.
func (t *Table) Column(c *Column) *Table {
	if c == nil {
		panic(fmt.Sprintf("table %s: nil column", t.name))
	}
	if c.table != nil {
		panic(fmt.Sprintf("table %s: column %s already belongs to table %s", t.name, c.name, c.table.name))
	}
	if _, exists := t.ColumnByName(c.name); exists {
		panic(fmt.Sprintf("table %s: duplicate column %s", t.name, c.name))
	}
	c.table = t
	c.index = len(t.columns)
	t.columns = append(t.columns, c)
	return t
}

// ID returns the table handle.
func (t *Table) ID() TableID { return t.id }

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Columns returns the columns in attach order.
func (t *Table) Columns() []*Column {
	out := make([]*Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// ColumnByName looks up a column by name.
func (t *Table) ColumnByName(name string) (*Column, bool) {
	for _, c := range t.columns {
		if c.name == name {
			return c, true
		}
	}
	return nil, false
}

// PrimaryKey returns the first primary key column, or nil.
func (t *Table) PrimaryKey() *Column {
	for _, c := range t.columns {
		if c.IsPrimaryKey() {
			return c
		}
	}
	return nil
}

func (t *Table) String() string {
	return "Table(" + t.name + ")"
}

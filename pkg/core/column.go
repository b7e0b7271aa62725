package core

// ColumnID identifies a column by its owning table handle and position.
type ColumnID struct {
	Table TableID
	Index int
}

// Column is a typed column. It gets its owning table and position when
// attached with Table.Column, and never moves to another table.
type Column struct {
	table       *Table
	name        string
	typ         DataType
	constraints []Constraint
	index       int
}

// NewColumn creates an unattached column.
func NewColumn(name string, typ DataType) *Column {
	return &Column{name: name, typ: typ, index: -1}
}

// PrimaryKey adds a PRIMARY KEY constraint.
func (c *Column) PrimaryKey() *Column {
	c.constraints = append(c.constraints, Constraint{Kind: ConstraintPrimaryKey})
	return c
}

// NotNull adds a NOT NULL constraint.
func (c *Column) NotNull() *Column {
	c.constraints = append(c.constraints, Constraint{Kind: ConstraintNotNull})
	return c
}

// References adds a foreign key constraint from this column to the given column.
func (c *Column) References(to *Column) *Column {
	c.constraints = append(c.constraints, Constraint{Kind: ConstraintForeignKey, From: c, To: to})
	return c
}

// Table returns the owning table, nil before attach.
func (c *Column) Table() *Table { return c.table }

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Type returns the column data type.
func (c *Column) Type() DataType { return c.typ }

// Index returns the 0-based position in the owning table, -1 before attach.
func (c *Column) Index() int { return c.index }

// Constraints returns the column constraints in declaration order.
func (c *Column) Constraints() []Constraint {
	out := make([]Constraint, len(c.constraints))
	copy(out, c.constraints)
	return out
}

// ID returns the column identity. Unattached columns have a zero table handle.
func (c *Column) ID() ColumnID {
	if c.table == nil {
		return ColumnID{Index: -1}
	}
	return ColumnID{Table: c.table.id, Index: c.index}
}

// BelongsTo reports whether the column is attached to t.
func (c *Column) BelongsTo(t *Table) bool {
	return c.table != nil && t != nil && c.table.id == t.id
}

// IsPrimaryKey reports whether the column carries a PRIMARY KEY constraint.
func (c *Column) IsPrimaryKey() bool {
	for _, con := range c.constraints {
		if con.Kind == ConstraintPrimaryKey {
			return true
		}
	}
	return false
}

// IsForeignKeyTo reports whether the column is a foreign key to the primary key of dest.
func (c *Column) IsForeignKeyTo(dest *Table) bool {
	if dest == nil {
		return false
	}
	pk := dest.PrimaryKey()
	if pk == nil {
		return false
	}
	for _, con := range c.constraints {
		if con.Kind == ConstraintForeignKey && con.To != nil && con.To.ID() == pk.ID() {
			return true
		}
	}
	return false
}

// SelectSQL renders the column through the statement's alias resolver.
func (c *Column) SelectSQL(r AliasResolver) string {
	return r.QualifiedColumnName(c)
}

// FieldName returns the column name.
func (c *Column) FieldName() string { return c.name }

// FieldType returns the column data type.
func (c *Column) FieldType() DataType { return c.typ }

func (c *Column) String() string {
	return "Column(" + c.name + ")"
}

package core

// ConstraintKind identifies one of the supported column constraints.
type ConstraintKind int

const (
	// ConstraintPrimaryKey marks the primary key column.
	ConstraintPrimaryKey ConstraintKind = iota
	// ConstraintNotNull forbids NULL values.
	ConstraintNotNull
	// ConstraintForeignKey references a column of another table.
	ConstraintForeignKey
)

// String returns the string representation of ConstraintKind.
func (k ConstraintKind) String() string {
	switch k {
	case ConstraintPrimaryKey:
		return "primary_key"
	case ConstraintNotNull:
		return "not_null"
	case ConstraintForeignKey:
		return "foreign_key"
	default:
		return "unknown"
	}
}

// Constraint is a column constraint. From and To are only set for foreign keys;
// the edge is one-directional, child column to parent column.
type Constraint struct {
	Kind ConstraintKind
	From *Column
	To   *Column
}

// DefaultSQL returns the column-constraint fragment used in CREATE TABLE.
func (c Constraint) DefaultSQL() string {
	switch c.Kind {
	case ConstraintPrimaryKey:
		return "PRIMARY KEY"
	case ConstraintNotNull:
		return "NOT NULL"
	case ConstraintForeignKey:
		if c.To == nil || c.To.Table() == nil {
			return ""
		}
		return "REFERENCES " + c.To.Table().Name() + "(" + c.To.Name() + ")"
	default:
		return ""
	}
}

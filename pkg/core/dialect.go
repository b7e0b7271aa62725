package core

// PlaceholderStyle defines how query parameters are formatted.
type PlaceholderStyle int

const (
	// PlaceholderQuestion uses ? for all parameters (DuckDB, MySQL, SQLite).
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar uses $1, $2, etc. for parameters (PostgreSQL).
	PlaceholderDollar
)

// String returns the string representation of PlaceholderStyle.
func (p PlaceholderStyle) String() string {
	switch p {
	case PlaceholderQuestion:
		return "question"
	case PlaceholderDollar:
		return "dollar"
	default:
		return "unknown"
	}
}

// DialectConfig is the pure data part of a dialect definition.
// This is shared by dialect packages and adapters that need dialect facts
// without importing the renderer.
type DialectConfig struct {
	Name          string
	DefaultSchema string // Default schema name ("main" for DuckDB, "public" for Postgres)
	Placeholder   PlaceholderStyle

	// TypeNames overrides DataType.DefaultSQL per kind. A TypeVarchar override
	// may contain a %d verb that receives the length.
	TypeNames map[TypeKind]string

	// TableNamesQuery returns one row per table visible in the current schema,
	// with the table name in the first column.
	TableNamesQuery string
}

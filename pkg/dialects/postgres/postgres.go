// Package postgres defines the PostgreSQL dialect. It has no driver dependency.
package postgres

import (
	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/dialect"
)

// Config holds the PostgreSQL dialect facts.
var Config = &core.DialectConfig{
	Name:          "postgres",
	DefaultSchema: "public",
	Placeholder:   core.PlaceholderDollar,
	TypeNames: map[core.TypeKind]string{
		core.TypeDouble: "DOUBLE PRECISION",
		core.TypeFloat:  "REAL",
		core.TypeJSON:   "JSON",
	},
	// Unquoted names come back lowercased.
	TableNamesQuery: "SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema()",
}

// Postgres renders statements with $n placeholders.
var Postgres = dialect.New(Config).Build()

func init() { dialect.Register(Postgres) }

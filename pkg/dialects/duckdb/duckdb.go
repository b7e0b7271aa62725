// Package duckdb defines the DuckDB dialect. It has no driver dependency.
package duckdb

import (
	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/dialect"
)

// Config holds the DuckDB dialect facts.
var Config = &core.DialectConfig{
	Name:          "duckdb",
	DefaultSchema: "main",
	Placeholder:   core.PlaceholderQuestion,
	TypeNames: map[core.TypeKind]string{
		core.TypeJSON: "JSON",
	},
	TableNamesQuery: "SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema()",
}

// DuckDB renders statements for DuckDB.
var DuckDB = dialect.New(Config).Build()

func init() { dialect.Register(DuckDB) }

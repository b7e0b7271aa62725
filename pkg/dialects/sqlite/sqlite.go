// Package sqlite defines the SQLite dialect. It has no driver dependency.
package sqlite

import (
	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/dialect"
)

// Config holds the SQLite dialect facts. Floating point types collapse to
// REAL and JSON is stored as TEXT.
var Config = &core.DialectConfig{
	Name:          "sqlite",
	DefaultSchema: "main",
	Placeholder:   core.PlaceholderQuestion,
	TypeNames: map[core.TypeKind]string{
		core.TypeDouble: "REAL",
		core.TypeFloat:  "REAL",
		core.TypeJSON:   "TEXT",
	},
	TableNamesQuery: "SELECT name FROM sqlite_master WHERE type = 'table'",
}

// SQLite renders statements for SQLite.
var SQLite = dialect.New(Config).Build()

func init() { dialect.Register(SQLite) }

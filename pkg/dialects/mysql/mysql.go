// Package mysql defines the MySQL dialect. It has no driver dependency.
package mysql

import (
	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/dialect"
)

// Config holds the MySQL dialect facts. The database doubles as the schema,
// so there is no default schema name.
var Config = &core.DialectConfig{
	Name:        "mysql",
	Placeholder: core.PlaceholderQuestion,
	TypeNames: map[core.TypeKind]string{
		// TIMESTAMP columns get implicit defaults and stop at 2038.
		core.TypeTimestamp: "DATETIME(6)",
		core.TypeJSON:      "JSON",
	},
	TableNamesQuery: "SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE()",
}

// MySQL renders statements for MySQL.
var MySQL = dialect.New(Config).Build()

func init() { dialect.Register(MySQL) }

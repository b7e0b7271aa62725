// Package adapter connects leapdb to a relational engine.
//
// Engines live in pkg/adapters/* and register a Factory from init. A
// binary picks the engines it supports with blank imports:
//
//	import _ "github.com/leapstack-labs/leapdb/pkg/adapters/sqlite"
package adapter

import (
	"context"
	"database/sql"

	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/dialect"
)

// Config is the connection config adapters consume.
type Config = core.AdapterConfig

// Adapter owns the connection pool of one engine.
type Adapter interface {
	// Connect opens and pings the pool.
	Connect(ctx context.Context, cfg Config) error
	Close() error
	// Handle returns the pool, nil before Connect.
	Handle() *sql.DB
	// Dialect is the dialect statements for this engine render in.
	Dialect() *dialect.Dialect
}

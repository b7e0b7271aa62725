// Package duckdb connects leapdb to an embedded DuckDB database.
package duckdb

import (
	"context"
	"fmt"
	"log/slog"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver

	"github.com/leapstack-labs/leapdb/pkg/adapter"
	"github.com/leapstack-labs/leapdb/pkg/dialect"
	duckdialect "github.com/leapstack-labs/leapdb/pkg/dialects/duckdb"
)

// Adapter is the DuckDB adapter.
type Adapter struct {
	adapter.Conn
}

// New returns an unconnected adapter. A nil logger discards.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{Conn: adapter.NewConn("duckdb", logger)}
}

// Dialect returns the DuckDB dialect.
func (a *Adapter) Dialect() *dialect.Dialect {
	return duckdialect.DuckDB
}

// Connect opens the database file at cfg.Path, in memory when empty or
// ":memory:", then loads extensions and applies settings.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	params, err := ParseParams(cfg.Params)
	if err != nil {
		return err
	}
	stmts := params.Statements()

	path := cfg.Path
	if path == ":memory:" {
		path = ""
	}
	a.Logger.Debug("connecting", slog.String("path", cfg.Path), slog.Int("setup", len(stmts)))

	if err := a.Open(ctx, "duckdb", path); err != nil {
		return err
	}
	if err := a.Setup(ctx, stmts...); err != nil {
		return fmt.Errorf("duckdb session setup: %w", err)
	}
	a.Cfg = cfg
	return nil
}

var _ adapter.Adapter = (*Adapter)(nil)

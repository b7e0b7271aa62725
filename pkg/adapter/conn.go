package adapter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapdb/pkg/core"
)

// ErrNotConnected is returned when an adapter is used before Connect.
var ErrNotConnected = errors.New("database connection not established")

// Conn is the pool state shared by the database/sql adapters. Embed it to
// get Close and Handle.
type Conn struct {
	DB     *sql.DB
	Cfg    core.AdapterConfig
	Logger *slog.Logger

	engine string
}

// NewConn returns an unconnected Conn for engine. A nil logger discards.
func NewConn(engine string, logger *slog.Logger) Conn {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return Conn{Logger: logger.With(slog.String("engine", engine)), engine: engine}
}

// Open opens a pool on driverName and attaches it.
func (c *Conn) Open(ctx context.Context, driverName, dsn string) error {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return fmt.Errorf("open %s driver: %w", driverName, err)
	}
	return c.Attach(ctx, db)
}

// Attach pings db and keeps it. A pool that does not answer is closed.
func (c *Conn) Attach(ctx context.Context, db *sql.DB) error {
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping %s: %w", c.engine, err)
	}
	c.DB = db
	return nil
}

// Setup runs session statements in order. The pool is closed on the first
// failure so a half configured connection is never handed out.
func (c *Conn) Setup(ctx context.Context, stmts ...string) error {
	if c.DB == nil {
		return ErrNotConnected
	}
	for _, stmt := range stmts {
		c.Logger.Debug("session setup", slog.String("sql", stmt))
		if _, err := c.DB.ExecContext(ctx, stmt); err != nil {
			_ = c.Close()
			return fmt.Errorf("%s: %w", stmt, err)
		}
	}
	return nil
}

// Close releases the pool. Closing twice is a no-op.
func (c *Conn) Close() error {
	if c.DB == nil {
		return nil
	}
	c.Logger.Debug("closing connection pool")
	err := c.DB.Close()
	c.DB = nil
	return err
}

// Handle returns the pool, nil before Connect.
func (c *Conn) Handle() *sql.DB {
	return c.DB
}

// Connected reports whether a pool is attached.
func (c *Conn) Connected() bool {
	return c.DB != nil
}

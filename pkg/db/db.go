// Package db executes statements built on pkg/core through database/sql.
//
// All work happens inside a unit of work passed to Db.Tx. The Tx it receives
// is the only way to build statements; there is no ambient transaction.
//
//	users, _ := db.InTx(ctx, database, func(tx *db.Tx) (int64, error) {
//		return tx.NewInsert(Users).Set(UserID, "u1").Set(Email, "a@x.com").Execute(ctx)
//	})
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapdb/pkg/adapter"
	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/dialect"
)

// Db drives units of work against one connection pool in one dialect.
type Db struct {
	pool    *sql.DB
	dialect *dialect.Dialect
	logger  *slog.Logger
	closer  func() error
}

// Option configures a Db.
type Option func(*Db)

// WithLogger sets the logger used for transaction and statement logs.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Db) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// New wraps an opened pool. The caller keeps ownership of pool unless Close is called.
func New(pool *sql.DB, d *dialect.Dialect, opts ...Option) *Db {
	database := &Db{
		pool:    pool,
		dialect: d,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(database)
	}
	if database.dialect == nil {
		database.dialect = dialect.NewDialect("ansi").Build()
	}
	return database
}

// Open connects the adapter registered for cfg.Type and wraps its pool.
func Open(ctx context.Context, cfg core.AdapterConfig, opts ...Option) (*Db, error) {
	database := New(nil, nil, opts...)

	a, err := adapter.Open(ctx, cfg, database.logger)
	if err != nil {
		return nil, err
	}
	database.pool = a.Handle()
	database.dialect = a.Dialect()
	database.closer = a.Close
	return database, nil
}

// Dialect returns the dialect statements are rendered in.
func (d *Db) Dialect() *dialect.Dialect {
	return d.dialect
}

// Pool returns the underlying connection pool.
func (d *Db) Pool() *sql.DB {
	return d.pool
}

// Logger returns the configured logger.
func (d *Db) Logger() *slog.Logger {
	return d.logger
}

// Close closes the adapter or pool.
func (d *Db) Close() error {
	if d.closer != nil {
		return d.closer()
	}
	if d.pool != nil {
		return d.pool.Close()
	}
	return nil
}

// Tx runs fn inside a transaction on a dedicated connection.
//
// The transaction commits when fn returns nil and nothing marked it rollback
// only. A returned error or a panic marks it rollback only; the rollback is
// best effort and its failure is only logged. The connection is always
// released. On success the value stored with Tx.SetResult is returned.
// A panic is re-raised after cleanup.
func (d *Db) Tx(ctx context.Context, fn func(*Tx) error) (any, error) {
	if d.pool == nil {
		return nil, adapter.ErrNotConnected
	}

	conn, err := d.pool.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			d.logger.Error("failed to release connection", slog.Any("error", err))
		}
	}()

	sqlTx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	tx := newTx(d, sqlTx)
	d.logger.Debug("starting transaction", slog.String("tx", tx.String()))

	defer func() {
		if p := recover(); p != nil {
			tx.SetRollbackOnly(fmt.Errorf("panic: %v", p))
			_ = tx.end()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.SetRollbackOnly(err)
		_ = tx.end()
		return nil, err
	}
	if err := tx.end(); err != nil {
		return nil, err
	}
	return tx.result, nil
}

// InTx runs fn in a transaction and returns its typed result.
func InTx[T any](ctx context.Context, d *Db, fn func(*Tx) (T, error)) (T, error) {
	var zero T
	res, err := d.Tx(ctx, func(tx *Tx) error {
		v, err := fn(tx)
		if err != nil {
			return err
		}
		tx.SetResult(v)
		return nil
	})
	if err != nil {
		return zero, err
	}
	v, ok := res.(T)
	if !ok {
		return zero, nil
	}
	return v, nil
}

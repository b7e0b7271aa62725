package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/dialect"
)

var txCounter atomic.Uint64

// Tx is one transaction. It is owned by a single unit of work and must not be
// shared between goroutines.
type Tx struct {
	id     uint64
	db     *Db
	sqlTx  *sql.Tx
	logger *slog.Logger

	rollbackOnly   bool
	rollbackReason error
	result         any
}

func newTx(d *Db, sqlTx *sql.Tx) *Tx {
	id := txCounter.Add(1)
	return &Tx{
		id:     id,
		db:     d,
		sqlTx:  sqlTx,
		logger: d.logger.With(slog.String("tx", "Tx"+strconv.FormatUint(id, 10))),
	}
}

// ID returns the process local transaction number used in logs.
func (tx *Tx) ID() uint64 { return tx.id }

func (tx *Tx) String() string { return "Tx" + strconv.FormatUint(tx.id, 10) }

// Dialect returns the dialect of the owning Db.
func (tx *Tx) Dialect() *dialect.Dialect { return tx.db.dialect }

// SetResult stores the value Db.Tx returns after a commit.
func (tx *Tx) SetResult(result any) { tx.result = result }

// Result returns the stored result.
func (tx *Tx) Result() any { return tx.result }

// SetRollbackOnly marks the transaction to be rolled back when the unit of
// work ends. The mark can't be cleared; the first reason is kept.
func (tx *Tx) SetRollbackOnly(reason error) {
	if !tx.rollbackOnly {
		tx.rollbackReason = reason
	}
	tx.rollbackOnly = true
}

// IsRollbackOnly reports whether the transaction will be rolled back.
func (tx *Tx) IsRollbackOnly() bool { return tx.rollbackOnly }

func (tx *Tx) end() error {
	if tx.rollbackOnly {
		attrs := []any{}
		if tx.rollbackReason != nil {
			attrs = append(attrs, slog.String("reason", tx.rollbackReason.Error()))
		}
		tx.logger.Warn("rolling back transaction", attrs...)
		if err := tx.sqlTx.Rollback(); err != nil {
			tx.logger.Error("transaction rollback failed", slog.Any("error", err))
		}
		return nil
	}

	tx.logger.Debug("committing transaction")
	if err := tx.sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", tx, err)
	}
	return nil
}

func (tx *Tx) exec(ctx context.Context, op string, r dialect.Rendered) (int64, error) {
	args, err := r.Params.Bind()
	if err != nil {
		return 0, &StatementError{Op: op, SQL: r.SQL, Err: err}
	}

	tx.logger.Debug("executing statement", slog.String("sql", r.SQL), slog.String("params", r.Params.String()))
	res, err := tx.sqlTx.ExecContext(ctx, r.SQL, args...)
	if err != nil {
		return 0, &StatementError{Op: op, SQL: r.SQL, Err: err}
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, &StatementError{Op: op, SQL: r.SQL, Err: err}
	}
	tx.logger.Debug("statement executed", slog.String("op", op), slog.Int64("rows", rows))
	return rows, nil
}

func (tx *Tx) query(ctx context.Context, r dialect.Rendered) (*sql.Rows, error) {
	args, err := r.Params.Bind()
	if err != nil {
		return nil, &StatementError{Op: "select", SQL: r.SQL, Err: err}
	}

	tx.logger.Debug("executing query", slog.String("sql", r.SQL), slog.String("params", r.Params.String()))
	rows, err := tx.sqlTx.QueryContext(ctx, r.SQL, args...)
	if err != nil {
		return nil, &StatementError{Op: "select", SQL: r.SQL, Err: err}
	}
	return rows, nil
}

// Exec runs raw SQL with positional arguments and returns the affected row count.
func (tx *Tx) Exec(ctx context.Context, sqlText string, args ...any) (int64, error) {
	tx.logger.Debug("executing statement", slog.String("sql", sqlText), slog.Any("args", args))

	res, err := tx.sqlTx.ExecContext(ctx, sqlText, args...)
	if err != nil {
		return 0, &StatementError{Op: "execute", SQL: sqlText, Err: err}
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, &StatementError{Op: "execute", SQL: sqlText, Err: err}
	}
	return rows, nil
}

// ExecScript splits script on ';' and executes every non-empty statement in
// order. Semicolons inside string literals are not supported.
func (tx *Tx) ExecScript(ctx context.Context, script string) error {
	for _, part := range strings.Split(script, ";") {
		stmt := strings.TrimSpace(part)
		if stmt == "" {
			continue
		}
		tx.logger.Debug("executing script statement", slog.String("sql", stmt))
		if _, err := tx.sqlTx.ExecContext(ctx, stmt); err != nil {
			return &StatementError{Op: "execute script statement", SQL: stmt, Err: err}
		}
	}
	return nil
}

// TableNames returns the tables of the current schema as reported by the
// dialect's catalog query.
func (tx *Tx) TableNames(ctx context.Context) ([]string, error) {
	q := tx.db.dialect.TableNamesQuery()
	rows, err := tx.sqlTx.QueryContext(ctx, q)
	if err != nil {
		return nil, &StatementError{Op: "list tables", SQL: q, Err: err}
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, &StatementError{Op: "list tables", SQL: q, Err: err}
	}
	return names, nil
}

// NewSelect starts a select of the given fields.
func (tx *Tx) NewSelect(fields ...core.SelectField) *Select {
	s := &Select{statement: newStatement(tx, core.KindSelect, nil)}
	return s.Fields(fields...)
}

// NewInsert starts an insert into t.
func (tx *Tx) NewInsert(t *core.Table) *Insert {
	return &Insert{statement: newStatement(tx, core.KindInsert, t)}
}

// NewUpdate starts an update of t.
func (tx *Tx) NewUpdate(t *core.Table) *Update {
	return &Update{statement: newStatement(tx, core.KindUpdate, t)}
}

// NewDelete starts a delete from t.
func (tx *Tx) NewDelete(t *core.Table) *Delete {
	return &Delete{statement: newStatement(tx, core.KindDelete, t)}
}

// NewCreateTable starts a CREATE TABLE of t.
func (tx *Tx) NewCreateTable(t *core.Table) *CreateTable {
	return &CreateTable{statement: newStatement(tx, core.KindCreateTable, t)}
}

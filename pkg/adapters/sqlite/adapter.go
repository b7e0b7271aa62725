// Package sqlite provides a SQLite database adapter for leapdb.
//
// Two drivers are supported: the pure Go modernc.org/sqlite driver (default)
// and the cgo github.com/mattn/go-sqlite3 driver.
package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	_ "modernc.org/sqlite"          // sqlite driver

	"github.com/leapstack-labs/leapdb/pkg/adapter"
	"github.com/leapstack-labs/leapdb/pkg/dialect"
	sqlitedialect "github.com/leapstack-labs/leapdb/pkg/dialects/sqlite"
)

// Adapter is the SQLite adapter.
type Adapter struct {
	adapter.Conn
}

// New returns an unconnected adapter. A nil logger discards.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{Conn: adapter.NewConn("sqlite", logger)}
}

// Dialect returns the SQLite dialect.
func (a *Adapter) Dialect() *dialect.Dialect {
	return sqlitedialect.SQLite
}

// Connect opens the database file at cfg.Path, ":memory:" when empty.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	params, err := ParseParams(cfg.Params)
	if err != nil {
		return err
	}

	dsn := BuildDSN(cfg.Path, params)
	a.Logger.Debug("connecting", slog.String("path", cfg.Path), slog.String("driver", params.Driver))

	if err := a.Open(ctx, params.Driver, dsn); err != nil {
		return err
	}
	if cfg.Path == "" || cfg.Path == ":memory:" {
		// Every pooled connection to :memory: would see its own database.
		a.DB.SetMaxOpenConns(1)
	}
	a.Cfg = cfg
	return nil
}

// BuildDSN constructs the driver specific connection string.
func BuildDSN(path string, params *Params) string {
	if path == "" {
		path = ":memory:"
	}

	q := url.Values{}
	switch params.Driver {
	case DriverMattn:
		q.Set("_busy_timeout", strconv.Itoa(params.BusyTimeout))
		if params.JournalMode != "" {
			q.Set("_journal_mode", params.JournalMode)
		}
	default:
		q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", params.BusyTimeout))
		if params.JournalMode != "" {
			q.Add("_pragma", fmt.Sprintf("journal_mode(%s)", params.JournalMode))
		}
		q.Set("_time_format", "sqlite")
	}
	if params.TxLock != "" {
		q.Set("_txlock", params.TxLock)
	}
	return "file:" + path + "?" + q.Encode()
}

var _ adapter.Adapter = (*Adapter)(nil)

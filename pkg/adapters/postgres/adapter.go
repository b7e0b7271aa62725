// Package postgres connects leapdb to PostgreSQL through the pgx stdlib driver.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/leapstack-labs/leapdb/pkg/adapter"
	"github.com/leapstack-labs/leapdb/pkg/dialect"
	pgdialect "github.com/leapstack-labs/leapdb/pkg/dialects/postgres"
)

const (
	defaultHost    = "localhost"
	defaultPort    = 5432
	defaultSSLMode = "disable"
)

// Adapter is the PostgreSQL adapter.
type Adapter struct {
	adapter.Conn
}

// New returns an unconnected adapter. A nil logger discards.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{Conn: adapter.NewConn("postgres", logger)}
}

// Dialect returns the PostgreSQL dialect.
func (a *Adapter) Dialect() *dialect.Dialect {
	return pgdialect.Postgres
}

// Connect parses the target into a pgx config and opens a pool on it.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	connConfig, err := pgx.ParseConfig(connString(cfg))
	if err != nil {
		return fmt.Errorf("parse postgres config: %w", err)
	}
	a.Logger.Debug("connecting",
		slog.String("host", connConfig.Host),
		slog.Int("port", int(connConfig.Port)),
		slog.String("database", connConfig.Database))

	if err := a.Attach(ctx, stdlib.OpenDB(*connConfig)); err != nil {
		return err
	}
	a.Cfg = cfg
	return nil
}

// connString renders cfg in keyword/value form. Options are appended in key
// order; pgx treats the ones it does not know as runtime parameters.
func connString(cfg adapter.Config) string {
	host := cfg.Host
	if host == "" {
		host = defaultHost
	}
	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}

	kv := map[string]string{
		"host":    host,
		"port":    strconv.Itoa(port),
		"dbname":  cfg.Database,
		"sslmode": defaultSSLMode,
	}
	if cfg.Username != "" {
		kv["user"] = cfg.Username
	}
	if cfg.Password != "" {
		kv["password"] = cfg.Password
	}
	if cfg.Schema != "" {
		kv["search_path"] = cfg.Schema
	}
	for k, v := range cfg.Options {
		kv[k] = v
	}

	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + quote(kv[k])
	}
	return strings.Join(parts, " ")
}

// quote single-quotes a value when libpq would otherwise split it.
func quote(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}

var _ adapter.Adapter = (*Adapter)(nil)

// Package mysql connects leapdb to MySQL over TCP.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/leapstack-labs/leapdb/pkg/adapter"
	"github.com/leapstack-labs/leapdb/pkg/dialect"
	mysqldialect "github.com/leapstack-labs/leapdb/pkg/dialects/mysql"
)

const (
	defaultHost = "localhost"
	defaultPort = 3306
)

// Adapter is the MySQL adapter.
type Adapter struct {
	adapter.Conn
}

// New returns an unconnected adapter. A nil logger discards.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{Conn: adapter.NewConn("mysql", logger)}
}

// Dialect returns the MySQL dialect.
func (a *Adapter) Dialect() *dialect.Dialect {
	return mysqldialect.MySQL
}

// Connect opens a pool through a driver connector.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	driverCfg, err := driverConfig(cfg)
	if err != nil {
		return err
	}
	a.Logger.Debug("connecting", slog.String("addr", driverCfg.Addr), slog.String("database", driverCfg.DBName))

	connector, err := mysql.NewConnector(driverCfg)
	if err != nil {
		return fmt.Errorf("mysql connector: %w", err)
	}
	if err := a.Attach(ctx, sql.OpenDB(connector)); err != nil {
		return err
	}
	a.Cfg = cfg
	return nil
}

// driverConfig maps the target onto a driver config. Options go through
// the driver's DSN parser, so known keys such as timeout or tls are
// validated and the rest become session variables.
func driverConfig(cfg adapter.Config) (*mysql.Config, error) {
	host := cfg.Host
	if host == "" {
		host = defaultHost
	}
	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}

	c := mysql.NewConfig()
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	c.User = cfg.Username
	c.Passwd = cfg.Password
	c.DBName = cfg.Database
	c.ParseTime = true
	if len(cfg.Options) == 0 {
		return c, nil
	}

	q := url.Values{}
	for k, v := range cfg.Options {
		q.Set(k, v)
	}
	dsn := c.FormatDSN()
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	parsed, err := mysql.ParseDSN(dsn + sep + q.Encode())
	if err != nil {
		return nil, fmt.Errorf("invalid mysql options: %w", err)
	}
	return parsed, nil
}

var _ adapter.Adapter = (*Adapter)(nil)

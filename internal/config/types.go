// Package config holds the database target configuration shared by the CLI
// commands. It is decoupled from cobra and koanf so that library users can
// build targets in code.
package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapdb/pkg/adapter"
	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/dialect"
)

// TargetConfig is the target block of leapdb.yaml.
type TargetConfig struct {
	// Type names a registered adapter: sqlite, duckdb, postgres or mysql.
	Type string `koanf:"type"`
	// Database is the file path for sqlite and duckdb, the database name otherwise.
	Database string `koanf:"database"`

	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Schema   string `koanf:"schema"`

	// Options become DSN parameters of server engines.
	Options map[string]string `koanf:"options"`
	// Params are decoded by the adapter, e.g. the sqlite driver or duckdb settings.
	Params map[string]any `koanf:"params"`
}

// DefaultSchemaForType returns the default schema for a database type.
// It looks up the dialect in the registry; if not found, returns "main" as fallback.
func DefaultSchemaForType(dbType string) string {
	if d, ok := dialect.Get(dbType); ok && d.DefaultSchema != "" {
		return d.DefaultSchema
	}
	return "main"
}

// Validate checks the target against the adapter registry.
func (t *TargetConfig) Validate() error {
	if t.Type == "" {
		return fmt.Errorf("target type is required")
	}

	if _, err := adapter.Lookup(t.Type); err != nil {
		return err
	}

	if t.Port < 0 || t.Port > 65535 {
		return fmt.Errorf("target port %d out of range", t.Port)
	}
	return nil
}

// AdapterConfig converts the target into the connection settings of an adapter.
// File based targets use Database as the path.
func (t *TargetConfig) AdapterConfig() core.AdapterConfig {
	cfg := core.AdapterConfig{
		Type:     strings.ToLower(t.Type),
		Host:     t.Host,
		Port:     t.Port,
		Database: t.Database,
		Username: t.User,
		Password: t.Password,
		Schema:   t.Schema,
		Options:  t.Options,
		Params:   t.Params,
	}
	switch cfg.Type {
	case "sqlite", "duckdb":
		cfg.Path = t.Database
	}
	return cfg
}

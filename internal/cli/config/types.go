// Package config provides configuration management for the leapdb CLI.
//
// The shared target type lives in internal/config and is re-exported here
// via a type alias for convenience.
package config

import (
	"time"

	sharedcfg "github.com/leapstack-labs/leapdb/internal/config"
	"github.com/leapstack-labs/leapdb/pkg/schema"
)

// TargetConfig is an alias for the shared target configuration.
type TargetConfig = sharedcfg.TargetConfig

// Config holds all CLI configuration options.
type Config struct {
	MigrationsDir string        `koanf:"migrations_dir"`
	Process       string        `koanf:"process"`
	LockBackoff   time.Duration `koanf:"lock_backoff"`
	Verbose       bool          `koanf:"verbose"`
	OutputFormat  string        `koanf:"output"`
	Target        *TargetConfig `koanf:"target"`

	// Set by the loader, never read from a source.
	ProjectRoot string `koanf:"-"`
	ConfigFile  string `koanf:"-"`
}

// Default configuration values - uses shared defaults from internal/config
const (
	DefaultMigrationsDir = sharedcfg.DefaultMigrationsDir
	DefaultLockBackoff   = schema.DefaultBackoff
	DefaultOutput        = "auto" // Auto-detect: TTY=table, non-TTY=text
)

// OutputFormats lists the accepted values of the output key.
var OutputFormats = []string{"auto", "table", "text", "json", "yaml"}

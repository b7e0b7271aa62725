package config

import (
	"fmt"
	"os"
	"slices"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.MigrationsDir == "" {
		return fmt.Errorf("migrations_dir is required")
	}
	if c.LockBackoff <= 0 {
		return fmt.Errorf("lock_backoff must be positive, got %s", c.LockBackoff)
	}
	if !slices.Contains(OutputFormats, c.OutputFormat) {
		return fmt.Errorf("unknown output format %q, expected one of %v", c.OutputFormat, OutputFormats)
	}
	if c.Target == nil {
		return fmt.Errorf("target is required")
	}
	if err := c.Target.Validate(); err != nil {
		return fmt.Errorf("invalid target configuration: %w", err)
	}
	return nil
}

// ValidateDirectories checks if required directories exist.
// Commands that do not read migrations skip this check.
func (c *Config) ValidateDirectories() error {
	info, err := os.Stat(c.MigrationsDir)
	if os.IsNotExist(err) {
		return fmt.Errorf("migrations directory does not exist: %s\nHint: Create the directory or use --migrations-dir to specify a different path", c.MigrationsDir)
	}
	if err != nil {
		return fmt.Errorf("failed to stat migrations directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("migrations path is not a directory: %s", c.MigrationsDir)
	}
	return nil
}

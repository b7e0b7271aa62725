package config

import (
	"os"
	"regexp"
)

// Default configuration values.
const (
	DefaultType          = "sqlite"
	DefaultMigrationsDir = "migrations"
	DefaultPostgresPort  = 5432
	DefaultMySQLPort     = 3306
)

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// ApplyTargetDefaults applies default values to a TargetConfig based on the target type.
func ApplyTargetDefaults(t *TargetConfig) {
	if t == nil {
		return
	}

	if t.Type == "" {
		t.Type = DefaultType
	}

	if t.Schema == "" {
		t.Schema = DefaultSchemaForType(t.Type)
	}

	switch t.Type {
	case "postgres":
		if t.Port == 0 {
			t.Port = DefaultPostgresPort
		}
	case "mysql":
		if t.Port == 0 {
			t.Port = DefaultMySQLPort
		}
	}
}

// ExpandEnvVars expands ${VAR} patterns with environment variable values.
// Unset variables are left as written.
func ExpandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if val, ok := os.LookupEnv(match[2 : len(match)-1]); ok {
			return val
		}
		return match
	})
}

// ExpandTargetEnvVars expands environment variables in the connection fields of a target.
func ExpandTargetEnvVars(t *TargetConfig) {
	if t == nil {
		return
	}
	t.Database = ExpandEnvVars(t.Database)
	t.Host = ExpandEnvVars(t.Host)
	t.User = ExpandEnvVars(t.User)
	t.Password = ExpandEnvVars(t.Password)
	for k, v := range t.Options {
		t.Options[k] = ExpandEnvVars(v)
	}
}

// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/leapdb/internal/cli/output"
)

// Migrations used by SetupTestProject, in file name order.
var Migrations = map[string]string{
	"001_create_users.sql": `CREATE TABLE users (id VARCHAR(255) PRIMARY KEY, email VARCHAR(255) NOT NULL)`,
	"002_create_orders.sql": `CREATE TABLE orders (id VARCHAR(255) PRIMARY KEY, userId VARCHAR(255) NOT NULL);
CREATE INDEX orders_user ON orders (userId)`,
}

// SetupTestProject creates a temporary project with a sqlite target and the
// test migrations. It returns the project root.
func SetupTestProject(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	migrationsDir := filepath.Join(tmpDir, "migrations")
	if err := os.MkdirAll(migrationsDir, 0o755); err != nil {
		t.Fatalf("failed to create directory %s: %v", migrationsDir, err)
	}

	for name, content := range Migrations {
		if err := os.WriteFile(filepath.Join(migrationsDir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
	}

	config := `target:
  type: sqlite
  database: app.db
  params:
    busy_timeout: 2000
    txlock: immediate
lock_backoff: 50ms
`
	if err := os.WriteFile(filepath.Join(tmpDir, "leapdb.yaml"), []byte(config), 0o644); err != nil {
		t.Fatalf("failed to create leapdb.yaml: %v", err)
	}

	return tmpDir
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.OutputMode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// AssertContains checks that the string contains the expected substring.
func AssertContains(t *testing.T, s, expected string) {
	t.Helper()
	if !strings.Contains(s, expected) {
		t.Errorf("string %q does not contain expected %q", s, expected)
	}
}

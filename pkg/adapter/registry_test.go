package adapter

import (
	"context"
	"database/sql"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/dialect"
)

// stubAdapter records the config it was connected with.
type stubAdapter struct {
	connectErr error
	cfg        core.AdapterConfig
}

func (s *stubAdapter) Connect(_ context.Context, cfg core.AdapterConfig) error {
	s.cfg = cfg
	return s.connectErr
}
func (s *stubAdapter) Close() error              { return nil }
func (s *stubAdapter) Handle() *sql.DB           { return nil }
func (s *stubAdapter) Dialect() *dialect.Dialect { return dialect.NewDialect("stub").Build() }

// openStub is returned by the registry_open factory.
var openStub = &stubAdapter{}

func init() {
	Register("Registry_Stub", func(*slog.Logger) Adapter { return &stubAdapter{} })
	Register("registry_open", func(*slog.Logger) Adapter { return openStub })
	Register("registry_fail", func(*slog.Logger) Adapter { return &stubAdapter{connectErr: assert.AnError} })
}

func TestUnknownAdapterError(t *testing.T) {
	err := &UnknownAdapterError{Type: "fake_db", Available: []string{"duckdb", "postgres"}}

	assert.Equal(t,
		"unknown adapter type \"fake_db\"\nAvailable adapters: duckdb, postgres\nHint: set target.type in leapdb.yaml",
		err.Error())
}

func TestRegister(t *testing.T) {
	assert.True(t, IsRegistered("registry_stub"))
	assert.True(t, IsRegistered("REGISTRY_STUB"))
	assert.Contains(t, Names(), "registry_stub")

	f, err := Lookup("registry_stub")
	require.NoError(t, err)
	assert.NotNil(t, f)
}

func TestRegister_Panics(t *testing.T) {
	assert.Panics(t, func() { Register("REGISTRY_STUB", func(*slog.Logger) Adapter { return nil }) })
	assert.Panics(t, func() { Register("", func(*slog.Logger) Adapter { return nil }) })
	assert.Panics(t, func() { Register("registry_nil", nil) })
}

func TestLookup(t *testing.T) {
	_, err := Lookup("")
	assert.ErrorIs(t, err, ErrTypeRequired)

	_, err = Lookup("fake_db")
	var unknown *UnknownAdapterError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "fake_db", unknown.Type)
	assert.Equal(t, Names(), unknown.Available)
}

func TestOpen(t *testing.T) {
	cfg := core.AdapterConfig{Type: "registry_open", Host: "db", Port: 1, Password: "secret"}
	a, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Same(t, openStub, a)
	assert.Equal(t, cfg, openStub.cfg)
}

func TestOpen_ConnectFailureHidesPassword(t *testing.T) {
	cfg := core.AdapterConfig{Type: "registry_fail", Host: "db", Port: 5432, Database: "app", Username: "u", Password: "secret"}
	_, err := Open(context.Background(), cfg, nil)
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "connect registry_fail:u@db:5432/app")
	assert.NotContains(t, err.Error(), "secret")
}

func TestOpen_Unknown(t *testing.T) {
	_, err := Open(context.Background(), core.AdapterConfig{Type: "fake_db"}, nil)
	var unknown *UnknownAdapterError
	assert.ErrorAs(t, err, &unknown)
}

package duckdb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapdb/pkg/adapter"
	"github.com/leapstack-labs/leapdb/pkg/core"
)

func TestConnect(t *testing.T) {
	ctx := context.Background()

	t.Run("in memory", func(t *testing.T) {
		adp := New(nil)
		require.NoError(t, adp.Connect(ctx, core.AdapterConfig{Path: ":memory:"}))
		assert.True(t, adp.Connected())
		assert.NoError(t, adp.Close())
		assert.False(t, adp.Connected())
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.duckdb")
		adp := New(nil)
		require.NoError(t, adp.Connect(ctx, core.AdapterConfig{Path: path}))
		defer func() { _ = adp.Close() }()

		_, err := os.Stat(path)
		assert.NoError(t, err)
	})
}

func TestConnect_AppliesSettings(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)
	require.NoError(t, adp.Connect(ctx, core.AdapterConfig{
		Path:   ":memory:",
		Params: map[string]any{"settings": map[string]any{"threads": 2}},
	}))
	defer func() { _ = adp.Close() }()

	var threads string
	require.NoError(t, adp.Handle().QueryRowContext(ctx, "SELECT current_setting('threads')").Scan(&threads))
	assert.Equal(t, "2", threads)
}

func TestConnect_FailedSettingClosesPool(t *testing.T) {
	adp := New(nil)
	err := adp.Connect(context.Background(), core.AdapterConfig{
		Path:   ":memory:",
		Params: map[string]any{"settings": map[string]any{"no_such_setting": "1"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duckdb session setup")
	assert.False(t, adp.Connected())
}

func TestConnect_InvalidParams(t *testing.T) {
	adp := New(nil)
	err := adp.Connect(context.Background(), core.AdapterConfig{
		Path:   ":memory:",
		Params: map[string]any{"nope": true},
	})
	require.Error(t, err)
	assert.False(t, adp.Connected())
}

func TestRegistered(t *testing.T) {
	factory, err := adapter.Lookup("duckdb")
	require.NoError(t, err)

	duck, ok := factory(nil).(*Adapter)
	require.True(t, ok)
	assert.Equal(t, "duckdb", duck.Dialect().Name)
}

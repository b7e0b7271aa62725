package schema

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leapdb/internal/testutil"
	_ "github.com/leapstack-labs/leapdb/pkg/adapters/sqlite"
	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/db"
)

func openSQLite(t *testing.T, path string, opts ...db.Option) *db.Db {
	t.Helper()
	database, err := db.Open(context.Background(), core.AdapterConfig{
		Type:   "sqlite",
		Path:   path,
		Params: map[string]any{"txlock": "immediate"},
	}, append([]db.Option{db.WithLogger(testutil.NewTestLogger(t))}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func accountMigrations(counts *[2]atomic.Int32) []Migration {
	return []Migration{
		NewMigration("m1", func(ctx context.Context, tx *db.Tx) error {
			counts[0].Add(1)
			return tx.ExecScript(ctx, "CREATE TABLE accounts (id VARCHAR(64) PRIMARY KEY)")
		}),
		NewMigration("m2", func(ctx context.Context, tx *db.Tx) error {
			counts[1].Add(1)
			return tx.ExecScript(ctx, "ALTER TABLE accounts ADD COLUMN name VARCHAR(255)")
		}),
	}
}

func TestSQLite_FreshSchemaThenSecondManager(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "app.db")
	var counts [2]atomic.Int32

	first, err := NewManager(openSQLite(t, path), accountMigrations(&counts))
	require.NoError(t, err)
	n, err := first.EnsureCurrentSchema(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	second, err := NewManager(openSQLite(t, path), accountMigrations(&counts))
	require.NoError(t, err)
	n, err = second.EnsureCurrentSchema(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	applied, err := second.AppliedUpdates(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "m2"}, applied)
	assert.Equal(t, int32(1), counts[0].Load())
	assert.Equal(t, int32(1), counts[1].Load())

	n, err = second.EnsureCurrentSchema(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSQLite_ConcurrentManagersApplyOnce(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "shared.db")

	// The history table is created up front; concurrent creation is unguarded.
	setup, err := NewManager(openSQLite(t, path), nil)
	require.NoError(t, err)
	_, err = setup.EnsureCurrentSchema(ctx)
	require.NoError(t, err)

	var counts [2]atomic.Int32
	var applied [2]int
	g, gctx := errgroup.WithContext(ctx)
	for i := range applied {
		m, err := NewManager(openSQLite(t, path), accountMigrations(&counts), WithBackoff(10*time.Millisecond))
		require.NoError(t, err)
		g.Go(func() error {
			n, err := m.EnsureCurrentSchema(gctx)
			applied[i] = n
			return err
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, 2, applied[0]+applied[1])
	assert.Equal(t, int32(1), counts[0].Load())
	assert.Equal(t, int32(1), counts[1].Load())

	lock, err := setup.LockHolder(ctx)
	require.NoError(t, err)
	assert.False(t, lock.Held)
}

func TestSQLite_CreateSchemaAndHistory(t *testing.T) {
	ctx := context.Background()
	var counts [2]atomic.Int32
	m, err := NewManager(openSQLite(t, filepath.Join(t.TempDir(), "fresh.db")), accountMigrations(&counts), WithProcess("node-a"))
	require.NoError(t, err)

	require.NoError(t, m.CreateSchema(ctx))

	exists, err := m.SchemaHistoryExists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)

	records, err := m.History(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	for i, r := range records {
		assert.Equal(t, []string{"m1", "m2"}[i], r.ID)
		assert.Equal(t, int64(i+1), r.Version)
		assert.Equal(t, TypeUpdate, r.Type)
		assert.Equal(t, "node-a", r.Process)
		assert.False(t, r.Time.IsZero())
	}
}

func TestSQLite_ForceReleaseLock(t *testing.T) {
	ctx := context.Background()
	m, err := NewManager(openSQLite(t, filepath.Join(t.TempDir(), "lock.db")), nil, WithProcess("crashed"))
	require.NoError(t, err)
	_, err = m.EnsureCurrentSchema(ctx)
	require.NoError(t, err)

	held, err := m.acquireLock(ctx)
	require.NoError(t, err)
	require.True(t, held)

	held, err = m.acquireLock(ctx)
	require.NoError(t, err)
	assert.False(t, held, "the lock row is taken")

	lock, err := m.LockHolder(ctx)
	require.NoError(t, err)
	assert.True(t, lock.Held)
	assert.Equal(t, "crashed", lock.Process)
	assert.Equal(t, "crashed is upgrading schema to version 0", lock.Description)

	require.NoError(t, m.ForceReleaseLock(ctx))
	lock, err = m.LockHolder(ctx)
	require.NoError(t, err)
	assert.False(t, lock.Held)
	assert.Empty(t, lock.Process)
}

func TestSQLite_EmptyDescriptionLockIsFree(t *testing.T) {
	ctx := context.Background()
	database := openSQLite(t, filepath.Join(t.TempDir(), "cleared.db"))
	m, err := NewManager(database, nil, WithProcess("node-a"))
	require.NoError(t, err)
	_, err = m.EnsureCurrentSchema(ctx)
	require.NoError(t, err)

	h := SchemaHistory
	_, err = db.InTx(ctx, database, func(tx *db.Tx) (int64, error) {
		return tx.NewUpdate(h.Table).
			Set(h.Description, "").
			Set(h.Process, "").
			Where(core.Equal(h.Type, TypeLock)).
			Execute(ctx)
	})
	require.NoError(t, err)

	lock, err := m.LockHolder(ctx)
	require.NoError(t, err)
	assert.False(t, lock.Held)

	held, err := m.acquireLock(ctx)
	require.NoError(t, err)
	assert.True(t, held)
	require.NoError(t, m.releaseLock(ctx))
}

func TestSQLite_UnknownAppliedMigrationIsLogged(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "newer.db")
	var counts [2]atomic.Int32

	newer, err := NewManager(openSQLite(t, path), accountMigrations(&counts))
	require.NoError(t, err)
	_, err = newer.EnsureCurrentSchema(ctx)
	require.NoError(t, err)

	logger, logs := testutil.NewBufferLogger()
	older, err := NewManager(openSQLite(t, path), accountMigrations(&counts)[:1], WithLogger(logger))
	require.NoError(t, err)

	n, err := older.EnsureCurrentSchema(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Contains(t, logs.String(), "id=m2")
}

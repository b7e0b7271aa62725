package schema

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapdb/pkg/db"
	"github.com/leapstack-labs/leapdb/pkg/dialect"
	"github.com/leapstack-labs/leapdb/pkg/dialects/ansi"
)

const (
	appliedSQL = "SELECT id FROM schemaHistory WHERE type = ? ORDER BY version ASC"
	acquireSQL = "UPDATE schemaHistory SET description = ?, process = ?, time = ? WHERE (description IS NULL OR description = ?) AND type = ?"
	releaseSQL = "UPDATE schemaHistory SET description = ?, process = ? WHERE type = ?"
	lockSQL    = "SELECT process, description, time FROM schemaHistory WHERE type = ?"
)

func newMockManager(t *testing.T, migrations []Migration, opts ...Option) (*Manager, sqlmock.Sqlmock) {
	t.Helper()
	pool, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Close() })

	opts = append([]Option{WithProcess("p1"), WithBackoff(time.Millisecond)}, opts...)
	m, err := NewManager(db.New(pool, ansi.ANSI), migrations, opts...)
	require.NoError(t, err)
	return m, mock
}

func expectExists(mock sqlmock.Sqlmock, exists bool) {
	rows := sqlmock.NewRows([]string{"table_name"}).AddRow("users")
	if exists {
		rows.AddRow("schemahistory")
	}
	mock.ExpectBegin()
	mock.ExpectQuery(dialect.DefaultTableNamesQuery).WillReturnRows(rows)
	mock.ExpectCommit()
}

func expectApplied(mock sqlmock.Sqlmock, ids ...string) {
	rows := sqlmock.NewRows([]string{"id"})
	for _, id := range ids {
		rows.AddRow(id)
	}
	mock.ExpectBegin()
	mock.ExpectQuery(appliedSQL).WithArgs(TypeUpdate).WillReturnRows(rows)
	mock.ExpectCommit()
}

func expectAcquire(mock sqlmock.Sqlmock, rows int64) {
	mock.ExpectBegin()
	mock.ExpectExec(acquireSQL).
		WithArgs("p1 is upgrading schema to version 1", "p1", sqlmock.AnyArg(), "", TypeLock).
		WillReturnResult(sqlmock.NewResult(0, rows))
	mock.ExpectCommit()
}

func expectLockHeldBy(mock sqlmock.Sqlmock, process string) {
	mock.ExpectBegin()
	mock.ExpectQuery(lockSQL).WithArgs(TypeLock).WillReturnRows(
		sqlmock.NewRows([]string{"process", "description", "time"}).
			AddRow(process, process+" is upgrading schema to version 1", time.Now()))
	mock.ExpectCommit()
}

func failingMigration(id string, err error, calls *int) Migration {
	return NewMigration(id, func(context.Context, *db.Tx) error {
		*calls++
		return err
	})
}

func TestEnsureCurrentSchema_WaitsWhileLockedElsewhere(t *testing.T) {
	calls := 0
	m, mock := newMockManager(t, []Migration{failingMigration("m1", nil, &calls)})

	expectExists(mock, true)
	expectApplied(mock)
	expectAcquire(mock, 0)
	expectLockHeldBy(mock, "p2")
	expectApplied(mock, "m1")

	n, err := m.EnsureCurrentSchema(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, calls)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureCurrentSchema_LockCorrupt(t *testing.T) {
	calls := 0
	m, mock := newMockManager(t, []Migration{failingMigration("m1", nil, &calls)})

	expectExists(mock, true)
	expectApplied(mock)
	mock.ExpectBegin()
	mock.ExpectExec(acquireSQL).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectRollback()

	_, err := m.EnsureCurrentSchema(context.Background())
	require.ErrorIs(t, err, ErrLockCorrupt)
	assert.Zero(t, calls)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureCurrentSchema_FailedMigrationReleasesLock(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	m, mock := newMockManager(t, []Migration{failingMigration("m1", boom, &calls)})

	expectExists(mock, true)
	expectApplied(mock)
	expectAcquire(mock, 1)
	expectApplied(mock)
	mock.ExpectBegin()
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectExec(releaseSQL).WithArgs(nil, nil, TypeLock).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := m.EnsureCurrentSchema(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failed to apply migration m1 (version 1)")
	assert.Zero(t, n)
	assert.Equal(t, 1, calls)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureCurrentSchema_CancelledWhileWaiting(t *testing.T) {
	calls := 0
	m, mock := newMockManager(t, []Migration{failingMigration("m1", nil, &calls)}, WithBackoff(time.Hour))

	expectExists(mock, true)
	expectApplied(mock)
	expectAcquire(mock, 0)
	expectLockHeldBy(mock, "p2")

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := m.EnsureCurrentSchema(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "held by p2")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureCurrentSchema_HistoryCreatedConcurrently(t *testing.T) {
	calls := 0
	m, mock := newMockManager(t, []Migration{failingMigration("m1", nil, &calls)})

	createSQL, err := ansi.ANSI.RenderCreateTable(SchemaHistory.Table)
	require.NoError(t, err)

	expectExists(mock, false)
	mock.ExpectBegin()
	mock.ExpectExec(createSQL).WillReturnError(errors.New("table schemaHistory already exists"))
	mock.ExpectRollback()
	expectExists(mock, true)
	expectApplied(mock, "m1")

	n, err := m.EnsureCurrentSchema(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureCurrentSchema_HistoryCreationFails(t *testing.T) {
	m, mock := newMockManager(t, nil)

	createSQL, err := ansi.ANSI.RenderCreateTable(SchemaHistory.Table)
	require.NoError(t, err)

	expectExists(mock, false)
	mock.ExpectBegin()
	mock.ExpectExec(createSQL).WillReturnError(errors.New("permission denied"))
	mock.ExpectRollback()
	expectExists(mock, false)

	_, err = m.EnsureCurrentSchema(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestLockHolder_MissingLockRow(t *testing.T) {
	m, mock := newMockManager(t, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(lockSQL).WillReturnRows(sqlmock.NewRows([]string{"process", "description", "time"}))
	mock.ExpectRollback()

	_, err := m.LockHolder(context.Background())
	assert.ErrorIs(t, err, ErrLockCorrupt)
}

func TestLockHolder_EmptyDescriptionIsFree(t *testing.T) {
	m, mock := newMockManager(t, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(lockSQL).WithArgs(TypeLock).WillReturnRows(
		sqlmock.NewRows([]string{"process", "description", "time"}).AddRow("", "", nil))
	mock.ExpectCommit()

	lock, err := m.LockHolder(context.Background())
	require.NoError(t, err)
	assert.False(t, lock.Held)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewManager_InvalidMigrations(t *testing.T) {
	database := db.New(nil, ansi.ANSI)
	noop := func(context.Context, *db.Tx) error { return nil }

	tests := []struct {
		name       string
		migrations []Migration
		want       error
	}{
		{"duplicate id", []Migration{NewMigration("m1", noop), NewMigration("m2", noop), NewMigration("m1", noop)}, ErrDuplicateMigration},
		{"empty id", []Migration{NewMigration("", noop)}, ErrInvalidMigration},
		{"nil apply", []Migration{{ID: "m1"}}, ErrInvalidMigration},
		{"lock row id", []Migration{NewMigration(LockID, noop)}, ErrInvalidMigration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewManager(database, tt.migrations)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestProcessID(t *testing.T) {
	a, b := ProcessID(), ProcessID()
	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^.+-\d+-[0-9a-f]{8}$`, a)
}

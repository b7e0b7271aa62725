// Package schema converges a database to an ordered list of migrations.
//
// Every process runs the same list. Progress is recorded in the schemaHistory
// table, whose lock row serialises upgrades: a process takes the lock with a
// conditional update, applies the missing migrations and releases it, while
// the others poll until the history is complete.
//
// A holder that crashes keeps the lock; ForceReleaseLock clears it. Creating
// the history table itself is not guarded, so the first start against an
// empty database should happen from a single process.
package schema

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/db"
)

// DefaultBackoff is the wait between lock attempts.
const DefaultBackoff = 5 * time.Second

// ErrLockCorrupt is returned when the history table does not hold exactly one lock row.
var ErrLockCorrupt = errors.New("schema history lock is corrupt")

// Manager applies migrations and coordinates with other processes through
// the history table.
type Manager struct {
	db         *db.Db
	migrations []Migration
	process    string
	backoff    time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithBackoff sets the wait between lock attempts.
func WithBackoff(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.backoff = d
		}
	}
}

// WithProcess sets the process identifier recorded in the history table.
func WithProcess(id string) Option {
	return func(m *Manager) {
		if id != "" {
			m.process = id
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a manager for the given migrations, in application order.
func NewManager(database *db.Db, migrations []Migration, opts ...Option) (*Manager, error) {
	if err := validateMigrations(migrations); err != nil {
		return nil, err
	}
	m := &Manager{
		db:         database,
		migrations: append([]Migration(nil), migrations...),
		process:    ProcessID(),
		backoff:    DefaultBackoff,
		logger:     database.Logger(),
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// ProcessID returns host-pid-random, unique per manager.
func ProcessID() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "unknown"
	}
	return fmt.Sprintf("%s-%d-%s", host, os.Getpid(), uuid.NewString()[:8])
}

// Process returns the identifier this manager records.
func (m *Manager) Process() string { return m.process }

// Migrations returns the application's migrations in order.
func (m *Manager) Migrations() []Migration {
	return append([]Migration(nil), m.migrations...)
}

// EnsureCurrentSchema blocks until every migration is recorded in the
// history table, applying missing ones when this process gets the lock.
// It returns the number of migrations this process applied.
func (m *Manager) EnsureCurrentSchema(ctx context.Context) (int, error) {
	if err := m.ensureHistory(ctx); err != nil {
		return 0, err
	}

	total := 0
	for {
		applied, err := m.AppliedUpdates(ctx)
		if err != nil {
			return total, err
		}
		pending := m.pending(applied)
		if len(pending) == 0 {
			m.warnUnknown(applied)
			m.logger.Debug("schema is up to date", slog.Int("migrations", len(m.migrations)))
			return total, nil
		}

		held, err := m.acquireLock(ctx)
		if err != nil {
			return total, err
		}
		if held {
			n, err := m.upgradeLocked(ctx)
			total += n
			if err != nil {
				return total, err
			}
			continue
		}

		lock, err := m.LockHolder(ctx)
		if err != nil {
			return total, err
		}
		if !lock.Held {
			continue
		}
		m.logger.Debug("waiting for schema lock",
			slog.String("holder", lock.Process),
			slog.Duration("backoff", m.backoff))
		if err := sleep(ctx, m.backoff); err != nil {
			return total, fmt.Errorf("failed waiting for schema lock held by %s: %w", lock.Process, err)
		}
	}
}

// CreateSchema creates the history table and applies every migration without
// taking the lock. Only for databases no other process uses yet.
func (m *Manager) CreateSchema(ctx context.Context) error {
	if err := m.createHistory(ctx); err != nil {
		return err
	}
	for i := range m.migrations {
		if err := m.apply(ctx, i); err != nil {
			return err
		}
	}
	return nil
}

// SchemaHistoryExists reports whether the history table exists.
func (m *Manager) SchemaHistoryExists(ctx context.Context) (bool, error) {
	names, err := db.InTx(ctx, m.db, func(tx *db.Tx) ([]string, error) {
		return tx.TableNames(ctx)
	})
	if err != nil {
		return false, fmt.Errorf("failed to check for %s: %w", TableName, err)
	}
	for _, name := range names {
		if strings.EqualFold(name, TableName) {
			return true, nil
		}
	}
	return false, nil
}

// AppliedUpdates returns the ids of the applied migrations in version order.
func (m *Manager) AppliedUpdates(ctx context.Context) ([]string, error) {
	h := SchemaHistory
	return db.InTx(ctx, m.db, func(tx *db.Tx) ([]string, error) {
		results, err := tx.NewSelect(h.ID).
			Where(core.Equal(h.Type, TypeUpdate)).
			OrderAsc(h.Version).
			Execute(ctx)
		if err != nil {
			return nil, err
		}
		defer func() { _ = results.Close() }()

		var ids []string
		for results.Next() {
			ids = append(ids, results.String(h.ID))
		}
		return ids, results.Err()
	})
}

// History returns the applied migration records in version order.
func (m *Manager) History(ctx context.Context) ([]Record, error) {
	h := SchemaHistory
	return db.InTx(ctx, m.db, func(tx *db.Tx) ([]Record, error) {
		results, err := tx.NewSelect().
			AllColumns(h.Table).
			Where(core.Equal(h.Type, TypeUpdate)).
			OrderAsc(h.Version).
			Execute(ctx)
		if err != nil {
			return nil, err
		}
		defer func() { _ = results.Close() }()

		var records []Record
		for results.Next() {
			records = append(records, Record{
				ID:          results.String(h.ID),
				Time:        results.Time(h.Time),
				Process:     results.String(h.Process),
				Type:        results.String(h.Type),
				Description: results.String(h.Description),
				Version:     results.Int64(h.Version),
			})
		}
		return records, results.Err()
	})
}

// LockHolder returns the state of the lock row.
func (m *Manager) LockHolder(ctx context.Context) (Lock, error) {
	h := SchemaHistory
	return db.InTx(ctx, m.db, func(tx *db.Tx) (Lock, error) {
		results, err := tx.NewSelect(h.Process, h.Description, h.Time).
			Where(core.Equal(h.Type, TypeLock)).
			Execute(ctx)
		if err != nil {
			return Lock{}, err
		}
		defer func() { _ = results.Close() }()

		var locks []Lock
		for results.Next() {
			if _, err := results.Get(h.Description); err != nil {
				return Lock{}, err
			}
			description := results.String(h.Description)
			locks = append(locks, Lock{
				Held:        description != "",
				Process:     results.String(h.Process),
				Description: description,
				Since:       results.Time(h.Time),
			})
		}
		if err := results.Err(); err != nil {
			return Lock{}, err
		}
		if len(locks) != 1 {
			return Lock{}, fmt.Errorf("%w: found %d lock rows", ErrLockCorrupt, len(locks))
		}
		return locks[0], nil
	})
}

// ForceReleaseLock clears the lock row regardless of its holder. It is the
// operator remedy for a holder that died without releasing.
func (m *Manager) ForceReleaseLock(ctx context.Context) error {
	m.logger.Warn("force releasing schema lock", slog.String("process", m.process))
	return m.releaseLock(ctx)
}

func (m *Manager) ensureHistory(ctx context.Context) error {
	exists, err := m.SchemaHistoryExists(ctx)
	if err != nil || exists {
		return err
	}

	createErr := m.createHistory(ctx)
	if createErr == nil {
		return nil
	}
	// Another process may have created it first.
	exists, err = m.SchemaHistoryExists(ctx)
	if err == nil && exists {
		m.logger.Info("schema history was created concurrently", slog.Any("error", createErr))
		return nil
	}
	return createErr
}

func (m *Manager) createHistory(ctx context.Context) error {
	h := SchemaHistory
	_, err := m.db.Tx(ctx, func(tx *db.Tx) error {
		if err := tx.NewCreateTable(h.Table).Execute(ctx); err != nil {
			return err
		}
		_, err := tx.NewInsert(h.Table).
			Set(h.ID, LockID).
			Set(h.Type, TypeLock).
			Execute(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", TableName, err)
	}
	m.logger.Info("created schema history", slog.String("table", TableName))
	return nil
}

func (m *Manager) pending(applied []string) []Migration {
	done := make(map[string]bool, len(applied))
	for _, id := range applied {
		done[id] = true
	}
	var pending []Migration
	for _, mig := range m.migrations {
		if !done[mig.ID] {
			pending = append(pending, mig)
		}
	}
	return pending
}

func (m *Manager) warnUnknown(applied []string) {
	known := make(map[string]bool, len(m.migrations))
	for _, mig := range m.migrations {
		known[mig.ID] = true
	}
	for _, id := range applied {
		if !known[id] {
			m.logger.Warn("database has a migration this application does not know", slog.String("id", id))
		}
	}
}

func (m *Manager) acquireLock(ctx context.Context) (bool, error) {
	h := SchemaHistory
	description := fmt.Sprintf("%s is upgrading schema to version %d", m.process, len(m.migrations))
	held, err := db.InTx(ctx, m.db, func(tx *db.Tx) (bool, error) {
		n, err := tx.NewUpdate(h.Table).
			Set(h.Description, description).
			Set(h.Process, m.process).
			Set(h.Time, m.now()).
			Where(lockFree(h.Description)).
			Where(core.Equal(h.Type, TypeLock)).
			Execute(ctx)
		if err != nil {
			return false, err
		}
		if n > 1 {
			return false, fmt.Errorf("%w: %d lock rows matched", ErrLockCorrupt, n)
		}
		return n == 1, nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to acquire schema lock: %w", err)
	}
	if held {
		m.logger.Info("acquired schema lock", slog.String("process", m.process))
	}
	return held, nil
}

// lockFreeCondition matches a lock row whose description is NULL or empty.
type lockFreeCondition struct {
	description *core.Column
}

func lockFree(description *core.Column) core.Condition {
	return lockFreeCondition{description: description}
}

func (c lockFreeCondition) SQL(ctx core.RenderContext) string {
	name := ctx.QualifiedColumnName(c.description)
	return "(" + name + " IS NULL OR " + name + " = " + ctx.Placeholder() + ")"
}

func (c lockFreeCondition) CollectParameters(p *core.Parameters) {
	p.Add("", c.description.Type())
}

func (m *Manager) releaseLock(ctx context.Context) error {
	h := SchemaHistory
	_, err := db.InTx(ctx, m.db, func(tx *db.Tx) (int64, error) {
		return tx.NewUpdate(h.Table).
			Set(h.Description, nil).
			Set(h.Process, nil).
			Where(core.Equal(h.Type, TypeLock)).
			Execute(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to release schema lock: %w", err)
	}
	m.logger.Info("released schema lock", slog.String("process", m.process))
	return nil
}

// upgradeLocked applies the migrations still missing while this process
// holds the lock, then releases it.
func (m *Manager) upgradeLocked(ctx context.Context) (n int, err error) {
	defer func() {
		if releaseErr := m.releaseLock(context.WithoutCancel(ctx)); releaseErr != nil {
			if err == nil {
				err = releaseErr
			} else {
				m.logger.Error("schema lock not released", slog.Any("error", releaseErr))
			}
		}
	}()

	applied, err := m.AppliedUpdates(ctx)
	if err != nil {
		return 0, err
	}
	done := make(map[string]bool, len(applied))
	for _, id := range applied {
		done[id] = true
	}

	for i, mig := range m.migrations {
		if done[mig.ID] {
			continue
		}
		if err := m.apply(ctx, i); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// apply runs migration i and records it in one transaction.
func (m *Manager) apply(ctx context.Context, i int) error {
	h := SchemaHistory
	mig := m.migrations[i]
	version := i + 1

	var description any
	if mig.Description != "" {
		description = mig.Description
	}

	start := time.Now()
	_, err := m.db.Tx(ctx, func(tx *db.Tx) error {
		if err := mig.Apply(ctx, tx); err != nil {
			return err
		}
		_, err := tx.NewInsert(h.Table).
			Set(h.ID, mig.ID).
			Set(h.Time, m.now()).
			Set(h.Process, m.process).
			Set(h.Type, TypeUpdate).
			Set(h.Description, description).
			Set(h.Version, version).
			Execute(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to apply migration %s (version %d): %w", mig.ID, version, err)
	}
	m.logger.Info("applied migration",
		slog.String("id", mig.ID),
		slog.Int("version", version),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

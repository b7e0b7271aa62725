package schema

import (
	"context"
	"errors"
	"fmt"

	"github.com/leapstack-labs/leapdb/pkg/db"
)

var (
	// ErrDuplicateMigration is returned when two migrations share an id.
	ErrDuplicateMigration = errors.New("duplicate migration id")

	// ErrInvalidMigration is returned for a migration without id or body.
	ErrInvalidMigration = errors.New("invalid migration")
)

// Migration is one named schema change. Released migrations must keep their
// id, position and logical effect; new migrations are appended.
type Migration struct {
	ID          string
	Description string
	Apply       func(ctx context.Context, tx *db.Tx) error
}

// NewMigration creates a migration running apply.
func NewMigration(id string, apply func(ctx context.Context, tx *db.Tx) error) Migration {
	return Migration{ID: id, Apply: apply}
}

// SQLMigration creates a migration executing a ';' separated script.
func SQLMigration(id, script string) Migration {
	return Migration{
		ID: id,
		Apply: func(ctx context.Context, tx *db.Tx) error {
			return tx.ExecScript(ctx, script)
		},
	}
}

func validateMigrations(migrations []Migration) error {
	seen := make(map[string]int, len(migrations))
	for i, m := range migrations {
		if m.ID == "" {
			return fmt.Errorf("%w: migration %d has no id", ErrInvalidMigration, i+1)
		}
		if m.ID == LockID {
			return fmt.Errorf("%w: id %q is reserved for the lock row", ErrInvalidMigration, LockID)
		}
		if m.Apply == nil {
			return fmt.Errorf("%w: migration %s has nothing to apply", ErrInvalidMigration, m.ID)
		}
		if prev, ok := seen[m.ID]; ok {
			return fmt.Errorf("%w: %s at positions %d and %d", ErrDuplicateMigration, m.ID, prev+1, i+1)
		}
		seen[m.ID] = i
	}
	return nil
}

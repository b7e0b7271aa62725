package db

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/dialect"
)

// statement is the state shared by all builders: the statement data, the
// owning transaction and the executed mark.
type statement struct {
	tx       *Tx
	stmt     *core.Statement
	executed bool
}

func newStatement(tx *Tx, kind core.StatementKind, t *core.Table) statement {
	return statement{tx: tx, stmt: core.NewStatement(kind, t)}
}

// Err returns the first build error recorded so far.
func (s *statement) Err() error {
	return s.stmt.Err()
}

// Rendered returns the SQL and parameters the statement executes with.
func (s *statement) Rendered() (dialect.Rendered, error) {
	return s.tx.db.dialect.Render(s.stmt)
}

// SQL returns the rendered SQL text.
func (s *statement) SQL() (string, error) {
	r, err := s.Rendered()
	if err != nil {
		return "", err
	}
	return r.SQL, nil
}

func (s *statement) markExecuted() error {
	if s.executed {
		return fmt.Errorf("%s: %w", s.stmt.Kind, core.ErrStatementExecuted)
	}
	s.executed = true
	return nil
}

func (s *statement) update(ctx context.Context) (int64, error) {
	if err := s.markExecuted(); err != nil {
		return 0, err
	}
	r, err := s.Rendered()
	if err != nil {
		return 0, err
	}
	return s.tx.exec(ctx, s.stmt.Kind.String(), r)
}

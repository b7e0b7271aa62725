package core

import (
	"errors"
	"fmt"
)

// Build-time errors. A statement that fails with one of these is malformed;
// it is reported from Execute and must never be retried.
var (
	// ErrNoFields is returned when a select has nothing to select.
	ErrNoFields = errors.New("select has no fields")

	// ErrNoFrom is returned when a select has no from table and none can be inferred.
	ErrNoFrom = errors.New("select has no from table")

	// ErrNoTable is returned when a statement that targets a table has none.
	ErrNoTable = errors.New("statement has no table")

	// ErrNoColumns is returned when a table without columns is created or inserted into.
	ErrNoColumns = errors.New("no columns")

	// ErrColumnNotInTable is returned when a column of another table is used in an insert or update.
	ErrColumnNotInTable = errors.New("column does not belong to the statement table")

	// ErrNoForeignKey is returned by a join when no from table references the joined table.
	ErrNoForeignKey = errors.New("no foreign key found")

	// ErrNoPrimaryKey is returned when a join target has no primary key column.
	ErrNoPrimaryKey = errors.New("no primary key found")

	// ErrStatementExecuted is returned when a statement is executed a second time.
	ErrStatementExecuted = errors.New("statement already executed")

	// ErrParameterMismatch is returned when rendered placeholders and collected parameters disagree.
	ErrParameterMismatch = errors.New("parameter count does not match placeholders")

	// ErrUnsupportedValue is returned when a value can't be bound to a column's data type.
	ErrUnsupportedValue = errors.New("unsupported value for data type")

	// ErrUnknownField is returned when a result value is requested for a field that was not selected.
	ErrUnknownField = errors.New("field is not part of the select")
)

// BuildError wraps a build-time error with the statement kind and detail.
type BuildError struct {
	Kind   StatementKind
	Detail string
	Err    error
}

func (e *BuildError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("build %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("build %s: %v: %s", e.Kind, e.Err, e.Detail)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

func buildErr(kind StatementKind, err error, format string, args ...any) error {
	return &BuildError{Kind: kind, Detail: fmt.Sprintf(format, args...), Err: err}
}

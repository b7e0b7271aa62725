package db

import "fmt"

// StatementError is an engine failure of one SQL statement.
type StatementError struct {
	Op  string
	SQL string
	Err error
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("failed to %s %q: %v", e.Op, e.SQL, e.Err)
}

func (e *StatementError) Unwrap() error {
	return e.Err
}

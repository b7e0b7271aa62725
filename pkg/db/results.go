package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/leapstack-labs/leapdb/pkg/core"
)

// SelectResults is a cursor over the rows of an executed select.
// Values are read by the field that selected them.
type SelectResults struct {
	stmt    *core.Statement
	rows    *sql.Rows
	sql     string
	targets []any
	err     error
}

func newSelectResults(stmt *core.Statement, rows *sql.Rows, sqlText string) *SelectResults {
	return &SelectResults{stmt: stmt, rows: rows, sql: sqlText}
}

// Next advances to the next row and scans it. It returns false at the end or
// on error; check Err afterwards.
func (r *SelectResults) Next() bool {
	if r.err != nil || !r.rows.Next() {
		return false
	}
	targets := make([]any, len(r.stmt.Fields))
	for i, f := range r.stmt.Fields {
		targets[i] = f.FieldType().ScanTarget()
	}
	if err := r.rows.Scan(targets...); err != nil {
		r.err = &StatementError{Op: "scan row of", SQL: r.sql, Err: err}
		return false
	}
	r.targets = targets
	return true
}

// Get returns the value of f in the current row, nil for SQL NULL.
func (r *SelectResults) Get(f core.SelectField) (any, error) {
	i := r.stmt.FieldIndex(f)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownField, f.FieldName())
	}
	if r.targets == nil {
		return nil, fmt.Errorf("no current row for %s", f.FieldName())
	}
	return f.FieldType().Extract(r.targets[i]), nil
}

// String returns the value of f as a string, "" when NULL or not a string.
func (r *SelectResults) String(f core.SelectField) string {
	v, _ := r.Get(f)
	s, _ := v.(string)
	return s
}

// Int64 returns the value of f as an int64, 0 when NULL or not an integer.
func (r *SelectResults) Int64(f core.SelectField) int64 {
	v, _ := r.Get(f)
	n, _ := v.(int64)
	return n
}

// Float64 returns the value of f as a float64, 0 when NULL or not a float.
func (r *SelectResults) Float64(f core.SelectField) float64 {
	v, _ := r.Get(f)
	n, _ := v.(float64)
	return n
}

// Bool returns the value of f as a bool, false when NULL.
func (r *SelectResults) Bool(f core.SelectField) bool {
	v, _ := r.Get(f)
	b, _ := v.(bool)
	return b
}

// Time returns the value of f as a time, the zero time when NULL.
func (r *SelectResults) Time(f core.SelectField) time.Time {
	v, _ := r.Get(f)
	t, _ := v.(time.Time)
	return t
}

// Err returns the scan or iteration error, if any.
func (r *SelectResults) Err() error {
	if r.err != nil {
		return r.err
	}
	if err := r.rows.Err(); err != nil {
		return &StatementError{Op: "iterate", SQL: r.sql, Err: err}
	}
	return nil
}

// Close releases the cursor.
func (r *SelectResults) Close() error {
	return r.rows.Close()
}

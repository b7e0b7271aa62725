package db

import (
	"context"

	"github.com/leapstack-labs/leapdb/pkg/core"
)

// Select builds a SELECT statement.
type Select struct {
	statement
}

// Field adds one select field. Column fields register their table as a from.
func (s *Select) Field(f core.SelectField) *Select {
	s.stmt.AddField(f)
	return s
}

// Fields adds select fields in order.
func (s *Select) Fields(fields ...core.SelectField) *Select {
	for _, f := range fields {
		s.Field(f)
	}
	return s
}

// AllColumns selects every column of t in table order.
func (s *Select) AllColumns(t *core.Table) *Select {
	if t == nil {
		s.stmt.AddFrom(nil, "")
		return s
	}
	for _, c := range t.Columns() {
		s.Field(c)
	}
	return s
}

// From adds a from table.
func (s *Select) From(t *core.Table) *Select {
	s.stmt.AddFrom(t, "")
	return s
}

// FromAs adds a from table with an explicit alias.
func (s *Select) FromAs(t *core.Table, alias string) *Select {
	s.stmt.AddFrom(t, alias)
	return s
}

// Join adds t and the equality between the from column referencing t's
// primary key and that key. It fails with core.ErrNoForeignKey when no from
// table references t.
func (s *Select) Join(t *core.Table) *Select {
	s.stmt.Join(t)
	return s
}

// Where conjoins cond with the existing condition.
func (s *Select) Where(cond core.Condition) *Select {
	s.stmt.AddWhere(cond)
	return s
}

// OrderAsc appends an ascending order entry.
func (s *Select) OrderAsc(f core.SelectField) *Select {
	s.stmt.OrderBy = append(s.stmt.OrderBy, core.OrderBy{Field: f})
	return s
}

// OrderDesc appends a descending order entry.
func (s *Select) OrderDesc(f core.SelectField) *Select {
	s.stmt.OrderBy = append(s.stmt.OrderBy, core.OrderBy{Field: f, Descending: true})
	return s
}

// Execute runs the query. The caller must Close the results.
func (s *Select) Execute(ctx context.Context) (*SelectResults, error) {
	if err := s.markExecuted(); err != nil {
		return nil, err
	}
	r, err := s.Rendered()
	if err != nil {
		return nil, err
	}
	rows, err := s.tx.query(ctx, r)
	if err != nil {
		return nil, err
	}
	return newSelectResults(s.stmt, rows, r.SQL), nil
}

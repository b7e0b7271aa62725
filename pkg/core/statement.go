package core

import "strconv"

// StatementKind tags the variant held by a Statement.
type StatementKind int

const (
	KindSelect StatementKind = iota
	KindInsert
	KindUpdate
	KindDelete
	KindCreateTable
)

// String returns the string representation of StatementKind.
func (k StatementKind) String() string {
	switch k {
	case KindSelect:
		return "select"
	case KindInsert:
		return "insert"
	case KindUpdate:
		return "update"
	case KindDelete:
		return "delete"
	case KindCreateTable:
		return "create table"
	default:
		return "unknown"
	}
}

// Statement is the data of one SQL operation, independent of any connection.
//
// Fields, Froms and OrderBy are only used by selects, Values only by inserts and
// updates. Table is the target of insert, update, delete and create table.
// Builders mutate a Statement through its methods; dialects only read it.
type Statement struct {
	Kind    StatementKind
	Table   *Table
	Fields  []SelectField
	Froms   []*Table
	Where   Condition
	OrderBy []OrderBy
	Values  []ColumnValue

	aliases map[TableID]string
	err     error
}

// NewStatement creates a statement of the given kind. table may be nil for selects.
func NewStatement(kind StatementKind, table *Table) *Statement {
	return &Statement{Kind: kind, Table: table}
}

// Err returns the first build error recorded on the statement.
func (s *Statement) Err() error { return s.err }

// SetErr records err unless an earlier error was already recorded.
func (s *Statement) SetErr(err error) {
	if s.err == nil && err != nil {
		s.err = err
	}
}

// SetAlias assigns an alias to a table. An empty alias removes it.
func (s *Statement) SetAlias(t *Table, alias string) {
	if alias == "" {
		delete(s.aliases, t.ID())
		return
	}
	if s.aliases == nil {
		s.aliases = make(map[TableID]string)
	}
	s.aliases[t.ID()] = alias
}

// Alias returns the alias of a table, or "" when it has none.
func (s *Statement) Alias(t *Table) string {
	if t == nil {
		return ""
	}
	return s.aliases[t.ID()]
}

// QualifiedColumnName implements AliasResolver.
func (s *Statement) QualifiedColumnName(c *Column) string {
	if alias := s.Alias(c.Table()); alias != "" {
		return alias + "." + c.Name()
	}
	return c.Name()
}

// AddWhere conjoins cond with the existing where condition.
func (s *Statement) AddWhere(cond Condition) {
	s.Where = Conjoin(s.Where, cond)
}

// AddField appends a select field. A column field also registers its table as
// a from table.
func (s *Statement) AddField(f SelectField) {
	if f == nil {
		return
	}
	s.Fields = append(s.Fields, f)
	if c, ok := f.(*Column); ok && c.Table() != nil {
		s.AddFrom(c.Table(), "")
	}
}

// AddFrom registers a from table. Tables are unique in the from list; adding a
// known table again only updates its alias when one is given.
func (s *Statement) AddFrom(t *Table, alias string) {
	if t == nil {
		s.SetErr(buildErr(s.Kind, ErrNoFrom, "nil from table"))
		return
	}
	if !s.HasFrom(t) {
		s.Froms = append(s.Froms, t)
	}
	if alias != "" {
		s.SetAlias(t, alias)
	}
}

// HasFrom reports whether t is one of the from tables.
func (s *Statement) HasFrom(t *Table) bool {
	for _, from := range s.Froms {
		if from.ID() == t.ID() {
			return true
		}
	}
	return false
}

// Join adds t to the froms and conjoins the foreign key equality between the
// first from column referencing t's primary key and that primary key.
func (s *Statement) Join(t *Table) {
	if t == nil {
		s.SetErr(buildErr(s.Kind, ErrNoFrom, "nil join table"))
		return
	}
	pk := t.PrimaryKey()
	if pk == nil {
		s.SetErr(buildErr(s.Kind, ErrNoPrimaryKey, "in %s", t.Name()))
		return
	}
	var fk *Column
	for _, from := range s.Froms {
		for _, candidate := range from.columns {
			if candidate.IsForeignKeyTo(t) {
				fk = candidate
				break
			}
		}
		if fk != nil {
			break
		}
	}
	if fk == nil {
		s.SetErr(buildErr(s.Kind, ErrNoForeignKey, "to %s in the froms of this select", t.Name()))
		return
	}
	s.AddFrom(t, "")
	s.AddWhere(Equal(fk, pk))
}

// RequireColumn records ErrColumnNotInTable and returns false unless c is a
// column of the statement table.
func (s *Statement) RequireColumn(c *Column) bool {
	if c != nil && c.BelongsTo(s.Table) {
		return true
	}
	name := "<nil>"
	if c != nil {
		name = c.Name()
	}
	table := "<nil>"
	if s.Table != nil {
		table = s.Table.Name()
	}
	s.SetErr(buildErr(s.Kind, ErrColumnNotInTable, "column %s is not a column of %s", name, table))
	return false
}

// AddValue appends a column assignment. The column must belong to the statement table.
func (s *Statement) AddValue(c *Column, value any) {
	if !s.RequireColumn(c) {
		return
	}
	s.Values = append(s.Values, ColumnValue{Column: c, Value: value})
}

// AssignAliases gives every unaliased from table an alias T<n> when the select
// joins more than one table and only selects plain columns. n starts at the
// number of aliases in use plus one and skips names already taken.
func (s *Statement) AssignAliases() {
	if len(s.Froms) < 2 {
		return
	}
	for _, f := range s.Fields {
		if _, ok := f.(*Column); !ok {
			return
		}
	}
	used := make(map[string]bool, len(s.Froms))
	for _, from := range s.Froms {
		if alias := s.Alias(from); alias != "" {
			used[alias] = true
		}
	}
	for _, from := range s.Froms {
		if s.Alias(from) != "" {
			continue
		}
		n := len(used) + 1
		for used["T"+strconv.Itoa(n)] {
			n++
		}
		alias := "T" + strconv.Itoa(n)
		s.SetAlias(from, alias)
		used[alias] = true
	}
}

// FieldIndex returns the position of f in the select list, or -1.
func (s *Statement) FieldIndex(f SelectField) int {
	for i, field := range s.Fields {
		if field == f {
			return i
		}
	}
	return -1
}

// CollectParameters adds the statement parameters in placeholder order:
// assigned values first, then the where condition.
func (s *Statement) CollectParameters(p *Parameters) {
	if s.Kind == KindInsert || s.Kind == KindUpdate {
		for _, v := range s.Values {
			p.Add(v.Value, v.Column.Type())
		}
	}
	if s.Where != nil && s.Kind != KindInsert && s.Kind != KindCreateTable {
		s.Where.CollectParameters(p)
	}
}

// Validate returns the first recorded build error, or the structural error of
// an incomplete statement.
func (s *Statement) Validate() error {
	if s.err != nil {
		return s.err
	}
	switch s.Kind {
	case KindSelect:
		if len(s.Fields) == 0 {
			return buildErr(s.Kind, ErrNoFields, "")
		}
		if len(s.Froms) == 0 {
			return buildErr(s.Kind, ErrNoFrom, "")
		}
	case KindInsert, KindUpdate:
		if s.Table == nil {
			return buildErr(s.Kind, ErrNoTable, "")
		}
		if len(s.Values) == 0 {
			return buildErr(s.Kind, ErrNoColumns, "nothing to set in %s", s.Table.Name())
		}
	case KindDelete:
		if s.Table == nil {
			return buildErr(s.Kind, ErrNoTable, "")
		}
	case KindCreateTable:
		if s.Table == nil {
			return buildErr(s.Kind, ErrNoTable, "")
		}
		if len(s.Table.columns) == 0 {
			return buildErr(s.Kind, ErrNoColumns, "table %s", s.Table.Name())
		}
	}
	return nil
}

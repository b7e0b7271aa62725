package dialect

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapdb/pkg/core"
)

// Rendered is the SQL text of a statement and its parameters in placeholder order.
type Rendered struct {
	SQL    string
	Params *core.Parameters
}

// renderContext numbers placeholders in the dialect's style while a
// statement's conditions render.
type renderContext struct {
	core.AliasResolver
	dialect *Dialect
	count   int
}

func (c *renderContext) Placeholder() string {
	c.count++
	return c.dialect.FormatPlaceholder(c.count)
}

func (d *Dialect) newContext(s *core.Statement) *renderContext {
	return &renderContext{AliasResolver: s, dialect: d}
}

// finish collects the statement parameters and checks them against the
// number of placeholders that were emitted.
func (d *Dialect) finish(s *core.Statement, ctx *renderContext, sql string) (Rendered, error) {
	params := &core.Parameters{}
	s.CollectParameters(params)
	if params.Len() != ctx.count {
		return Rendered{}, fmt.Errorf("%w: %d placeholders, %d parameters in %s",
			core.ErrParameterMismatch, ctx.count, params.Len(), sql)
	}
	return Rendered{SQL: sql, Params: params}, nil
}

// Render dispatches on the statement kind.
func (d *Dialect) Render(s *core.Statement) (Rendered, error) {
	switch s.Kind {
	case core.KindSelect:
		return d.RenderSelect(s)
	case core.KindInsert:
		return d.RenderInsert(s)
	case core.KindUpdate:
		return d.RenderUpdate(s)
	case core.KindDelete:
		return d.RenderDelete(s)
	case core.KindCreateTable:
		if err := s.Validate(); err != nil {
			return Rendered{}, err
		}
		sql, err := d.RenderCreateTable(s.Table)
		if err != nil {
			return Rendered{}, err
		}
		return Rendered{SQL: sql, Params: &core.Parameters{}}, nil
	default:
		return Rendered{}, fmt.Errorf("unsupported statement kind %d", s.Kind)
	}
}

// RenderCreateTable renders a CREATE TABLE statement with one column per line.
func (d *Dialect) RenderCreateTable(t *core.Table) (string, error) {
	if t == nil {
		return "", fmt.Errorf("build create table: %w", core.ErrNoTable)
	}
	columns := t.Columns()
	if len(columns) == 0 {
		return "", fmt.Errorf("build create table: %w: table %s", core.ErrNoColumns, t.Name())
	}

	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = d.columnDefinition(c)
	}
	return "CREATE TABLE " + t.Name() + " (\n  " + strings.Join(defs, ",\n  ") + "\n)", nil
}

func (d *Dialect) columnDefinition(c *core.Column) string {
	def := c.Name() + " " + d.TypeSQL(c.Type())
	for _, con := range c.Constraints() {
		if sql := con.DefaultSQL(); sql != "" {
			def += " " + sql
		}
	}
	return def
}

// RenderSelect renders SELECT fields FROM froms [WHERE] [ORDER BY].
// Missing aliases of a multi-table select are assigned first.
func (d *Dialect) RenderSelect(s *core.Statement) (Rendered, error) {
	if err := s.Validate(); err != nil {
		return Rendered{}, err
	}
	s.AssignAliases()
	ctx := d.newContext(s)

	var b strings.Builder
	b.WriteString("SELECT ")
	for i, f := range s.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.SelectSQL(s))
	}

	b.WriteString(" FROM ")
	for i, from := range s.Froms {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(tableRef(s, from))
	}

	d.writeWhere(&b, s, ctx)

	if len(s.OrderBy) > 0 {
		b.WriteString(" ORDER BY ")
		for i, o := range s.OrderBy {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(o.Field.SelectSQL(s))
			if o.Descending {
				b.WriteString(" DESC")
			} else {
				b.WriteString(" ASC")
			}
		}
	}

	return d.finish(s, ctx, b.String())
}

// RenderInsert renders INSERT INTO t (columns) VALUES (placeholders).
func (d *Dialect) RenderInsert(s *core.Statement) (Rendered, error) {
	if err := s.Validate(); err != nil {
		return Rendered{}, err
	}
	ctx := d.newContext(s)

	names := make([]string, len(s.Values))
	placeholders := make([]string, len(s.Values))
	for i, v := range s.Values {
		names[i] = v.Column.Name()
		placeholders[i] = ctx.Placeholder()
	}

	sql := "INSERT INTO " + s.Table.Name() +
		" (" + strings.Join(names, ", ") + ") VALUES (" + strings.Join(placeholders, ", ") + ")"
	return d.finish(s, ctx, sql)
}

// RenderUpdate renders UPDATE t [AS a] SET c = ?, ... [WHERE].
func (d *Dialect) RenderUpdate(s *core.Statement) (Rendered, error) {
	if err := s.Validate(); err != nil {
		return Rendered{}, err
	}
	ctx := d.newContext(s)

	var b strings.Builder
	b.WriteString("UPDATE ")
	b.WriteString(tableRef(s, s.Table))
	b.WriteString(" SET ")
	for i, v := range s.Values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(v.Column.Name())
		b.WriteString(" = ")
		b.WriteString(ctx.Placeholder())
	}
	d.writeWhere(&b, s, ctx)

	return d.finish(s, ctx, b.String())
}

// RenderDelete renders DELETE FROM t [AS a] [WHERE].
func (d *Dialect) RenderDelete(s *core.Statement) (Rendered, error) {
	if err := s.Validate(); err != nil {
		return Rendered{}, err
	}
	ctx := d.newContext(s)

	var b strings.Builder
	b.WriteString("DELETE FROM ")
	b.WriteString(tableRef(s, s.Table))
	d.writeWhere(&b, s, ctx)

	return d.finish(s, ctx, b.String())
}

func (d *Dialect) writeWhere(b *strings.Builder, s *core.Statement, ctx *renderContext) {
	if s.Where == nil {
		return
	}
	b.WriteString(" WHERE ")
	b.WriteString(s.Where.SQL(ctx))
}

func tableRef(s *core.Statement, t *core.Table) string {
	if alias := s.Alias(t); alias != "" {
		return t.Name() + " AS " + alias
	}
	return t.Name()
}

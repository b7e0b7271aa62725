// Package dialect turns pkg/core statements into SQL text.
//
// Rendering is ANSI throughout. A Dialect only changes the text of column
// types, how placeholders are numbered and which catalog query lists
// tables; the packages under pkg/dialects register one per engine.
package dialect

import (
	"fmt"
	"maps"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapdb/pkg/core"
)

// DefaultTableNamesQuery lists tables through information_schema.
const DefaultTableNamesQuery = "SELECT table_name FROM information_schema.tables"

// Dialect renders statements for one engine. Build it with NewDialect or New.
type Dialect struct {
	Name          string
	DefaultSchema string
	Placeholder   core.PlaceholderStyle

	typeNames       map[core.TypeKind]string
	tableNamesQuery string
}

// Config returns a copy of the facts d was built from.
func (d *Dialect) Config() *core.DialectConfig {
	return &core.DialectConfig{
		Name:            d.Name,
		DefaultSchema:   d.DefaultSchema,
		Placeholder:     d.Placeholder,
		TypeNames:       maps.Clone(d.typeNames),
		TableNamesQuery: d.tableNamesQuery,
	}
}

// GetName returns d.Name.
func (d *Dialect) GetName() string {
	return d.Name
}

// FormatPlaceholder returns the placeholder of the index-th parameter,
// counting from 1.
func (d *Dialect) FormatPlaceholder(index int) string {
	if d.Placeholder == core.PlaceholderDollar {
		return "$" + strconv.Itoa(index)
	}
	return "?"
}

// TypeSQL returns the column type text of t. A varchar override with a %d
// verb receives the length.
func (d *Dialect) TypeSQL(t core.DataType) string {
	name, ok := d.typeNames[t.Kind]
	switch {
	case !ok:
		return t.DefaultSQL()
	case t.Kind == core.TypeVarchar && strings.Contains(name, "%d"):
		return fmt.Sprintf(name, t.Length)
	default:
		return name
	}
}

// TableNamesQuery returns the query whose first column names every table
// of the current schema.
func (d *Dialect) TableNamesQuery() string {
	if d.tableNamesQuery != "" {
		return d.tableNamesQuery
	}
	return DefaultTableNamesQuery
}

// Builder assembles a Dialect.
type Builder struct {
	d *Dialect
}

// NewDialect starts a dialect with ANSI defaults.
func NewDialect(name string) *Builder {
	return &Builder{d: &Dialect{Name: name, typeNames: map[core.TypeKind]string{}}}
}

// New starts a dialect from the facts a dialect package publishes.
func New(cfg *core.DialectConfig) *Builder {
	b := NewDialect(cfg.Name).
		DefaultSchema(cfg.DefaultSchema).
		PlaceholderStyle(cfg.Placeholder).
		TableNamesQuery(cfg.TableNamesQuery)
	maps.Copy(b.d.typeNames, cfg.TypeNames)
	return b
}

// DefaultSchema names the schema unqualified tables live in.
func (b *Builder) DefaultSchema(schema string) *Builder {
	b.d.DefaultSchema = schema
	return b
}

// PlaceholderStyle picks ? or $n placeholders.
func (b *Builder) PlaceholderStyle(style core.PlaceholderStyle) *Builder {
	b.d.Placeholder = style
	return b
}

// TypeName overrides the type text of one kind.
func (b *Builder) TypeName(kind core.TypeKind, sql string) *Builder {
	b.d.typeNames[kind] = sql
	return b
}

// TableNamesQuery replaces DefaultTableNamesQuery.
func (b *Builder) TableNamesQuery(sql string) *Builder {
	b.d.tableNamesQuery = sql
	return b
}

// Build returns the dialect. The builder must not be used afterwards.
func (b *Builder) Build() *Dialect {
	return b.d
}

package core

import "strings"

// AliasResolver qualifies column references for one statement.
type AliasResolver interface {
	// QualifiedColumnName returns "alias.name" when the column's table has an
	// alias in the statement, the bare column name otherwise.
	QualifiedColumnName(c *Column) string
}

// RenderContext is handed to conditions while SQL is rendered.
type RenderContext interface {
	AliasResolver
	// Placeholder returns the next positional placeholder in the dialect's style.
	Placeholder() string
}

// Condition is an immutable boolean expression used in WHERE clauses.
//
// SQL and CollectParameters are always called in that order, and
// CollectParameters must add exactly one parameter per Placeholder call made by
// SQL, in the same order.
type Condition interface {
	SQL(ctx RenderContext) string
	CollectParameters(p *Parameters)
}

// EqualCondition compares a column against a literal or another column.
type EqualCondition struct {
	column *Column
	value  any
}

// Equal builds "column = value". When value is a *Column the comparison is
// column-to-column and contributes no parameter.
func Equal(column *Column, value any) Condition {
	return &EqualCondition{column: column, value: value}
}

// Column returns the left hand column.
func (c *EqualCondition) Column() *Column { return c.column }

// Value returns the right hand literal or *Column.
func (c *EqualCondition) Value() any { return c.value }

func (c *EqualCondition) SQL(ctx RenderContext) string {
	if other, ok := c.value.(*Column); ok {
		return ctx.QualifiedColumnName(c.column) + " = " + ctx.QualifiedColumnName(other)
	}
	return ctx.QualifiedColumnName(c.column) + " = " + ctx.Placeholder()
}

func (c *EqualCondition) CollectParameters(p *Parameters) {
	if _, ok := c.value.(*Column); ok {
		return
	}
	p.Add(c.value, c.column.Type())
}

// IsNullCondition tests a column for SQL NULL.
type IsNullCondition struct {
	column *Column
}

// IsNull builds "column IS NULL".
func IsNull(column *Column) Condition {
	return &IsNullCondition{column: column}
}

func (c *IsNullCondition) SQL(ctx RenderContext) string {
	return ctx.QualifiedColumnName(c.column) + " IS NULL"
}

func (c *IsNullCondition) CollectParameters(*Parameters) {}

// LikeCondition matches a column against a pattern.
type LikeCondition struct {
	column  *Column
	pattern any
}

// likePatternType binds patterns of non-varchar columns; the column type
// would reject text.
var likePatternType = Varchar(1024)

// Like builds "column LIKE ?". A nil pattern matches everything ("%").
// The pattern binds as text whatever the column type.
func Like(column *Column, pattern any) Condition {
	if pattern == nil {
		pattern = "%"
	}
	return &LikeCondition{column: column, pattern: pattern}
}

// Pattern returns the bound pattern.
func (c *LikeCondition) Pattern() any { return c.pattern }

func (c *LikeCondition) SQL(ctx RenderContext) string {
	return ctx.QualifiedColumnName(c.column) + " LIKE " + ctx.Placeholder()
}

func (c *LikeCondition) CollectParameters(p *Parameters) {
	typ := c.column.Type()
	if typ.Kind != TypeVarchar {
		typ = likePatternType
	}
	p.Add(c.pattern, typ)
}

// AndCondition is the conjunction of its children.
type AndCondition struct {
	children []Condition
}

// And conjoins conditions. Nested And children are flattened and nil
// conditions are dropped; a single remaining condition is returned as is.
func And(conditions ...Condition) Condition {
	var children []Condition
	for _, c := range conditions {
		children = appendFlat(children, c)
	}
	switch len(children) {
	case 0:
		return nil
	case 1:
		return children[0]
	default:
		return &AndCondition{children: children}
	}
}

// Conjoin returns existing AND added, flattened. Either side may be nil.
// Neither argument is modified.
func Conjoin(existing, added Condition) Condition {
	return And(existing, added)
}

func appendFlat(dst []Condition, c Condition) []Condition {
	switch v := c.(type) {
	case nil:
		return dst
	case *AndCondition:
		return append(dst, v.children...)
	default:
		return append(dst, c)
	}
}

// Conditions returns the conjoined children.
func (c *AndCondition) Conditions() []Condition {
	out := make([]Condition, len(c.children))
	copy(out, c.children)
	return out
}

func (c *AndCondition) SQL(ctx RenderContext) string {
	parts := make([]string, len(c.children))
	for i, child := range c.children {
		parts[i] = child.SQL(ctx)
	}
	return strings.Join(parts, " AND ")
}

func (c *AndCondition) CollectParameters(p *Parameters) {
	for _, child := range c.children {
		child.CollectParameters(p)
	}
}

package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapdb/pkg/core"
)

// questionContext renders "?" placeholders and counts them.
type questionContext struct {
	core.AliasResolver
	placeholders int
}

func (c *questionContext) Placeholder() string {
	c.placeholders++
	return "?"
}

func render(t *testing.T, stmt *core.Statement, cond core.Condition) (string, []any) {
	t.Helper()
	ctx := &questionContext{AliasResolver: stmt}
	sql := cond.SQL(ctx)
	var params core.Parameters
	cond.CollectParameters(&params)
	require.Equal(t, ctx.placeholders, params.Len(), "placeholders and parameters must agree")
	return sql, params.Values()
}

func newUsers() *core.Table {
	return core.NewTable("users").
		Column(core.NewColumn("id", core.Varchar(255)).PrimaryKey()).
		Column(core.NewColumn("firstName", core.Varchar(255))).
		Column(core.NewColumn("email", core.Varchar(255)))
}

func col(t *testing.T, table *core.Table, name string) *core.Column {
	t.Helper()
	c, ok := table.ColumnByName(name)
	require.True(t, ok, "column %s", name)
	return c
}

func TestConditionSQL(t *testing.T) {
	users := newUsers()
	id, email := col(t, users, "id"), col(t, users, "email")
	stmt := core.NewStatement(core.KindSelect, nil)

	tests := []struct {
		name       string
		cond       core.Condition
		wantSQL    string
		wantParams []any
	}{
		{
			name:       "equal literal",
			cond:       core.Equal(id, "u1"),
			wantSQL:    "id = ?",
			wantParams: []any{"u1"},
		},
		{
			name:       "equal column",
			cond:       core.Equal(id, email),
			wantSQL:    "id = email",
			wantParams: []any{},
		},
		{
			name:       "is null",
			cond:       core.IsNull(email),
			wantSQL:    "email IS NULL",
			wantParams: []any{},
		},
		{
			name:       "like",
			cond:       core.Like(email, "%@x.com"),
			wantSQL:    "email LIKE ?",
			wantParams: []any{"%@x.com"},
		},
		{
			name:       "like defaults to match all",
			cond:       core.Like(email, nil),
			wantSQL:    "email LIKE ?",
			wantParams: []any{"%"},
		},
		{
			name:       "and keeps parameter order",
			cond:       core.And(core.Equal(id, "u1"), core.IsNull(email), core.Like(email, "a%")),
			wantSQL:    "id = ? AND email IS NULL AND email LIKE ?",
			wantParams: []any{"u1", "a%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, params := render(t, stmt, tt.cond)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantParams, params)
		})
	}
}

func TestLikeBindsPatternAsText(t *testing.T) {
	visits := core.NewColumn("visits", core.Integer())
	core.NewTable("counters").Column(visits)

	for _, pattern := range []any{nil, "1%"} {
		var params core.Parameters
		core.Like(visits, pattern).CollectParameters(&params)

		args, err := params.Bind()
		require.NoError(t, err)
		require.Len(t, args, 1)
		assert.IsType(t, "", args[0])
		assert.Equal(t, core.TypeVarchar, params.List()[0].Type.Kind)
	}
}

func TestConditionUsesAliasResolver(t *testing.T) {
	users := newUsers()
	stmt := core.NewStatement(core.KindSelect, nil)
	stmt.SetAlias(users, "u")

	sql, params := render(t, stmt, core.Equal(col(t, users, "id"), "u1"))
	assert.Equal(t, "u.id = ?", sql)
	assert.Equal(t, []any{"u1"}, params)
}

func TestAndFlattens(t *testing.T) {
	users := newUsers()
	id, email := col(t, users, "id"), col(t, users, "email")
	a := core.Equal(id, "u1")
	b := core.Equal(email, "a@x.com")
	c := core.IsNull(email)

	t.Run("nested and is merged", func(t *testing.T) {
		cond := core.And(core.And(a, b), c)
		and, ok := cond.(*core.AndCondition)
		require.True(t, ok)
		assert.Equal(t, []core.Condition{a, b, c}, and.Conditions())
	})

	t.Run("conjoin does not modify its inputs", func(t *testing.T) {
		ab := core.And(a, b)
		_ = core.Conjoin(ab, c)
		assert.Len(t, ab.(*core.AndCondition).Conditions(), 2)
	})

	t.Run("nil sides", func(t *testing.T) {
		assert.Nil(t, core.Conjoin(nil, nil))
		assert.Same(t, a, core.Conjoin(nil, a))
		assert.Same(t, a, core.Conjoin(a, nil))
	})

	t.Run("chained where equals explicit and", func(t *testing.T) {
		chained := core.NewStatement(core.KindSelect, nil)
		chained.AddWhere(a)
		chained.AddWhere(b)

		explicit := core.NewStatement(core.KindSelect, nil)
		explicit.AddWhere(core.And(a, b))

		chainedSQL, chainedParams := render(t, chained, chained.Where)
		explicitSQL, explicitParams := render(t, explicit, explicit.Where)
		assert.Equal(t, explicitSQL, chainedSQL)
		assert.Equal(t, explicitParams, chainedParams)
	})
}

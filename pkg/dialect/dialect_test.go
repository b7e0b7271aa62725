package dialect

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapdb/pkg/core"
)

func TestFormatPlaceholder(t *testing.T) {
	tests := []struct {
		style core.PlaceholderStyle
		index int
		want  string
	}{
		{core.PlaceholderQuestion, 1, "?"},
		{core.PlaceholderQuestion, 7, "?"},
		{core.PlaceholderDollar, 1, "$1"},
		{core.PlaceholderDollar, 12, "$12"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			d := NewDialect("test").PlaceholderStyle(tt.style).Build()
			assert.Equal(t, tt.want, d.FormatPlaceholder(tt.index))
		})
	}
}

func TestTypeSQL(t *testing.T) {
	d := NewDialect("test").
		TypeName(core.TypeDouble, "DOUBLE PRECISION").
		TypeName(core.TypeVarchar, "NVARCHAR(%d)").
		Build()

	assert.Equal(t, "DOUBLE PRECISION", d.TypeSQL(core.Double()))
	assert.Equal(t, "NVARCHAR(12)", d.TypeSQL(core.Varchar(12)))
	assert.Equal(t, "INTEGER", d.TypeSQL(core.Integer()))
}

func TestTableNamesQueryDefault(t *testing.T) {
	d := NewDialect("test").Build()
	assert.Equal(t, DefaultTableNamesQuery, d.TableNamesQuery())

	d = NewDialect("test").TableNamesQuery("SELECT name FROM catalog").Build()
	assert.Equal(t, "SELECT name FROM catalog", d.TableNamesQuery())
}

func TestNewFromConfig(t *testing.T) {
	cfg := &core.DialectConfig{
		Name:            "cfg",
		DefaultSchema:   "main",
		Placeholder:     core.PlaceholderDollar,
		TypeNames:       map[core.TypeKind]string{core.TypeJSON: "JSONB"},
		TableNamesQuery: "SELECT 1",
	}
	d := New(cfg).Build()

	assert.Equal(t, "cfg", d.GetName())
	assert.Equal(t, "main", d.DefaultSchema)
	assert.Equal(t, "JSONB", d.TypeSQL(core.JSON()))
	assert.Equal(t, cfg, d.Config())
}

func init() {
	Register(NewDialect("Registry_Test").Build())
	Register(NewDialect("lookup_test").Build())
}

func TestRegistry(t *testing.T) {
	d, ok := Get("registry_test")
	require.True(t, ok)
	assert.Equal(t, "Registry_Test", d.Name)

	_, ok = Get("missing")
	assert.False(t, ok)

	names := List()
	assert.True(t, sort.StringsAreSorted(names))
	assert.Contains(t, names, "registry_test")

	assert.Panics(t, func() { Register(NewDialect("REGISTRY_TEST").Build()) })
	assert.Panics(t, func() { Register(NewDialect("").Build()) })
}

func TestLookup(t *testing.T) {
	d, err := Lookup("Lookup_Test")
	require.NoError(t, err)
	assert.Equal(t, "lookup_test", d.Name)

	_, err = Lookup("missing")
	var unknown *UnknownDialectError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "missing", unknown.Name)
	assert.Contains(t, unknown.Available, "lookup_test")
	assert.Contains(t, err.Error(), `unknown dialect "missing"`)
}

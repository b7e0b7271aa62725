package core

// SelectField is anything that can appear in a select list: a *Column or a
// derived field such as Count.
type SelectField interface {
	SelectSQL(r AliasResolver) string
	FieldName() string
	FieldType() DataType
}

type countField struct {
	column *Column
}

// Count returns a COUNT(column) field, or COUNT(*) when column is nil.
// Counts are read as Long.
func Count(column *Column) SelectField {
	return &countField{column: column}
}

func (f *countField) SelectSQL(r AliasResolver) string {
	if f.column == nil {
		return "COUNT(*)"
	}
	return "COUNT(" + r.QualifiedColumnName(f.column) + ")"
}

func (f *countField) FieldName() string {
	if f.column == nil {
		return "count"
	}
	return "count_" + f.column.Name()
}

func (f *countField) FieldType() DataType { return Long() }

// OrderBy is one ORDER BY entry.
type OrderBy struct {
	Field      SelectField
	Descending bool
}

// ColumnValue is one column assignment of an insert or update.
type ColumnValue struct {
	Column *Column
	Value  any
}

package core

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"
)

// TypeKind identifies one of the closed set of column data types.
type TypeKind int

const (
	// TypeVarchar is a bounded string column.
	TypeVarchar TypeKind = iota
	// TypeInteger is a 32-bit range integer column.
	TypeInteger
	// TypeLong is a 64-bit integer column.
	TypeLong
	// TypeDouble is a double precision floating point column.
	TypeDouble
	// TypeFloat is a floating point column.
	TypeFloat
	// TypeTimestamp is a date-time column.
	TypeTimestamp
	// TypeBoolean is a true/false column.
	TypeBoolean
	// TypeJSON is a JSON document column, bound and read as text.
	TypeJSON
)

// String returns the string representation of TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeVarchar:
		return "varchar"
	case TypeInteger:
		return "integer"
	case TypeLong:
		return "long"
	case TypeDouble:
		return "double"
	case TypeFloat:
		return "float"
	case TypeTimestamp:
		return "timestamp"
	case TypeBoolean:
		return "boolean"
	case TypeJSON:
		return "json"
	default:
		return "unknown"
	}
}

// DataType describes the type of a column. Length only applies to TypeVarchar.
// DataType is a comparable value; two columns with the same kind and length share a type.
type DataType struct {
	Kind   TypeKind
	Length int
}

// Varchar returns a VARCHAR(n) data type.
func Varchar(n int) DataType { return DataType{Kind: TypeVarchar, Length: n} }

// Integer returns an INTEGER data type.
func Integer() DataType { return DataType{Kind: TypeInteger} }

// Long returns a 64-bit integer data type.
func Long() DataType { return DataType{Kind: TypeLong} }

// Double returns a double precision data type.
func Double() DataType { return DataType{Kind: TypeDouble} }

// Float returns a floating point data type.
func Float() DataType { return DataType{Kind: TypeFloat} }

// Timestamp returns a timestamp data type.
func Timestamp() DataType { return DataType{Kind: TypeTimestamp} }

// Boolean returns a boolean data type.
func Boolean() DataType { return DataType{Kind: TypeBoolean} }

// JSON returns a JSON text data type.
func JSON() DataType { return DataType{Kind: TypeJSON} }

func (t DataType) String() string {
	if t.Kind == TypeVarchar {
		return fmt.Sprintf("varchar(%d)", t.Length)
	}
	return t.Kind.String()
}

// DefaultSQL returns the ANSI type text. Dialects may override it per kind.
func (t DataType) DefaultSQL() string {
	switch t.Kind {
	case TypeVarchar:
		return "VARCHAR(" + strconv.Itoa(t.Length) + ")"
	case TypeInteger:
		return "INTEGER"
	case TypeLong:
		return "BIGINT"
	case TypeDouble:
		return "DOUBLE"
	case TypeFloat:
		return "FLOAT"
	case TypeTimestamp:
		return "TIMESTAMP"
	case TypeBoolean:
		return "BOOLEAN"
	case TypeJSON:
		return "CLOB"
	default:
		return "UNKNOWN"
	}
}

// RightAligned reports whether values of this type are right aligned in tabular output.
func (t DataType) RightAligned() bool {
	switch t.Kind {
	case TypeInteger, TypeLong, TypeDouble, TypeFloat:
		return true
	default:
		return false
	}
}

// Bind converts a Go value into the driver value bound to a parameter of this type.
// A nil value, a nil pointer or an invalid driver.Valuer binds SQL NULL.
// Pointers are dereferenced and driver.Valuer values are resolved first.
func (t DataType) Bind(value any) (any, error) {
	value, err := Underlying(value)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, nil
	}

	switch t.Kind {
	case TypeVarchar:
		switch v := value.(type) {
		case string:
			return v, nil
		case []byte:
			return string(v), nil
		case fmt.Stringer:
			return v.String(), nil
		}
		if rv := reflect.ValueOf(value); rv.Kind() == reflect.String {
			return rv.String(), nil
		}
		return nil, t.unsupported(value)

	case TypeInteger, TypeLong:
		n, ok := toInt64(value)
		if !ok {
			return nil, t.unsupported(value)
		}
		if t.Kind == TypeInteger && (n < math.MinInt32 || n > math.MaxInt32) {
			return nil, fmt.Errorf("%w: %d overflows integer", ErrUnsupportedValue, n)
		}
		return n, nil

	case TypeDouble, TypeFloat:
		switch v := value.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		}
		if n, ok := toInt64(value); ok {
			return float64(n), nil
		}
		return nil, t.unsupported(value)

	case TypeTimestamp:
		switch v := value.(type) {
		case time.Time:
			return v, nil
		}
		return nil, t.unsupported(value)

	case TypeBoolean:
		if v, ok := value.(bool); ok {
			return v, nil
		}
		return nil, t.unsupported(value)

	case TypeJSON:
		switch v := value.(type) {
		case string:
			return v, nil
		case []byte:
			return string(v), nil
		case json.RawMessage:
			return string(v), nil
		}
		return nil, t.unsupported(value)
	}

	return nil, t.unsupported(value)
}

// maxIndirections bounds pointer and Valuer chains in Underlying.
const maxIndirections = 8

// Underlying resolves value to what should be bound: nil pointers become
// nil, other pointers are dereferenced and driver.Valuer values are
// replaced by their Value.
func Underlying(value any) (any, error) {
	for range maxIndirections {
		if value == nil {
			return nil, nil
		}
		rv := reflect.ValueOf(value)
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return nil, nil
		}
		if valuer, ok := value.(driver.Valuer); ok {
			v, err := valuer.Value()
			if err != nil {
				return nil, fmt.Errorf("%w: %T: %w", ErrUnsupportedValue, value, err)
			}
			value = v
			continue
		}
		if rv.Kind() != reflect.Pointer {
			return value, nil
		}
		value = rv.Elem().Interface()
	}
	return nil, fmt.Errorf("%w: %T nests too deeply", ErrUnsupportedValue, value)
}

// IsNil reports whether value is nil or a nil pointer.
func IsNil(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

func (t DataType) unsupported(value any) error {
	return fmt.Errorf("%w: %T for %s", ErrUnsupportedValue, value, t)
}

func toInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case uint64:
		if v > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	default:
		return 0, false
	}
}

// ScanTarget returns a fresh pointer suitable for sql.Rows.Scan of a value of this type.
func (t DataType) ScanTarget() any {
	switch t.Kind {
	case TypeInteger, TypeLong:
		return &sql.NullInt64{}
	case TypeDouble, TypeFloat:
		return &sql.NullFloat64{}
	case TypeTimestamp:
		return &NullTime{}
	case TypeBoolean:
		return &sql.NullBool{}
	default:
		return &sql.NullString{}
	}
}

// Extract returns the typed value held by a target created with ScanTarget.
// It returns nil for SQL NULL. Integer kinds yield int64, floating kinds float64,
// timestamps time.Time, booleans bool and strings/JSON string.
func (t DataType) Extract(target any) any {
	switch v := target.(type) {
	case *sql.NullString:
		if v.Valid {
			return v.String
		}
	case *sql.NullInt64:
		if v.Valid {
			return v.Int64
		}
	case *sql.NullFloat64:
		if v.Valid {
			return v.Float64
		}
	case *NullTime:
		if v.Valid {
			return v.Time
		}
	case *sql.NullBool:
		if v.Valid {
			return v.Bool
		}
	}
	return nil
}

// Format renders a value of this type as display text.
func (t DataType) Format(value any) string {
	if value == nil {
		return "null"
	}
	switch v := value.(type) {
	case time.Time:
		return v.Format(time.RFC3339)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// timeLayouts are the text encodings drivers use for timestamps they return as text.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NullTime scans timestamps from drivers that return time.Time as well as
// from drivers (SQLite) that return the stored text.
type NullTime struct {
	Time  time.Time
	Valid bool
}

// Scan implements sql.Scanner.
func (n *NullTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		n.Time, n.Valid = time.Time{}, false
		return nil
	case time.Time:
		n.Time, n.Valid = v, true
		return nil
	case string:
		return n.parse(v)
	case []byte:
		return n.parse(string(v))
	default:
		return fmt.Errorf("cannot scan %T into timestamp", src)
	}
}

func (n *NullTime) parse(s string) error {
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			n.Time, n.Valid = parsed, true
			return nil
		}
	}
	return fmt.Errorf("cannot parse timestamp %q", s)
}

package tableview

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind describes the runtime type a field yields, which decides how the
// field is searched, filtered and ordered
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInt
	KindFloat
	KindDecimal
	KindDate
	// KindOther fields are displayed and filtered but never ordered
	KindOther
)

// String method for Kind enum
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindDecimal:
		return "decimal"
	case KindDate:
		return "date"
	case KindOther:
		return "other"
	default:
		return "unknown"
	}
}

// Orderable reports whether values of the kind have a total order
func (k Kind) Orderable() bool {
	return k != KindOther
}

// Field is a named accessor into a record of type T
type Field[T any] struct {
	Name string
	Kind Kind
	get  func(T) any
}

// Value reads the field from a record
func (f Field[T]) Value(record T) any {
	return f.get(record)
}

// Integer is the set of integer types an Int field can read
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32
}

// String declares a text field. Only string fields take part in search.
func String[T any](name string, get func(T) string) Field[T] {
	return Field[T]{Name: name, Kind: KindString, get: func(r T) any { return get(r) }}
}

// Bool declares a boolean field
func Bool[T any](name string, get func(T) bool) Field[T] {
	return Field[T]{Name: name, Kind: KindBool, get: func(r T) any { return get(r) }}
}

// Int declares an integer field; values are widened to int64
func Int[T any, N Integer](name string, get func(T) N) Field[T] {
	return Field[T]{Name: name, Kind: KindInt, get: func(r T) any { return int64(get(r)) }}
}

// Float declares a floating point field
func Float[T any](name string, get func(T) float64) Field[T] {
	return Field[T]{Name: name, Kind: KindFloat, get: func(r T) any { return get(r) }}
}

// Decimal declares a decimal field
func Decimal[T any](name string, get func(T) decimal.Decimal) Field[T] {
	return Field[T]{Name: name, Kind: KindDecimal, get: func(r T) any { return get(r) }}
}

// Date declares a day-granularity date field
func Date[T any](name string, get func(T) time.Time) Field[T] {
	return Field[T]{Name: name, Kind: KindDate, get: func(r T) any { return get(r) }}
}

// Other declares a field of any other shape (lists, nested values)
func Other[T any](name string, get func(T) any) Field[T] {
	return Field[T]{Name: name, Kind: KindOther, get: get}
}

package datatype

import (
	"strconv"
	"time"
)

// LiteralType is the constraint for Go types a [Literal] can be constructed
// from. Timestamps are constructed with [NewTimestampLiteral].
type LiteralType interface {
	bool | string | int64 | float64
}

// Literal is an immutable scalar value with an associated [DataType].
//
// The zero value of a Literal is the NULL value.
type Literal struct {
	dt DataType
	v  any
}

// NewLiteral creates a new literal from a Go value.
func NewLiteral[T LiteralType](value T) Literal {
	switch v := any(value).(type) {
	case bool:
		return Literal{dt: Bool, v: v}
	case string:
		return Literal{dt: String, v: v}
	case int64:
		return Literal{dt: Integer, v: v}
	case float64:
		return Literal{dt: Float, v: v}
	}
	return Literal{}
}

// NewNullLiteral creates a new literal representing the NULL value.
func NewNullLiteral() Literal {
	return Literal{}
}

// NewTimestampLiteral creates a new timestamp literal from a nanosecond
// UNIX timestamp.
func NewTimestampLiteral(ns int64) Literal {
	return Literal{dt: Timestamp, v: ns}
}

// Type returns the data type of the literal.
func (l Literal) Type() DataType {
	return l.dt
}

// Any returns the value held by the literal as untyped interface{}, or nil
// for the NULL value. Timestamps are returned as int64 nanoseconds.
func (l Literal) Any() any {
	return l.v
}

// IsNull reports whether the literal is the NULL value.
func (l Literal) IsNull() bool {
	return l.dt == Null
}

// Bool returns the boolean value. Valid only when Type is [Bool].
func (l Literal) Bool() bool {
	return l.v.(bool)
}

// Str returns the string value. Valid only when Type is [String].
func (l Literal) Str() string {
	return l.v.(string)
}

// Int returns the integer value. Valid only when Type is [Integer].
func (l Literal) Int() int64 {
	return l.v.(int64)
}

// Float returns the floating point value. Valid only when Type is [Float].
func (l Literal) Float() float64 {
	return l.v.(float64)
}

// Ts returns the timestamp value in nanoseconds. Valid only when Type is
// [Timestamp].
func (l Literal) Ts() int64 {
	return l.v.(int64)
}

// Equal reports whether two literals hold the same type and value.
func (l Literal) Equal(other Literal) bool {
	return l.dt == other.dt && l.v == other.v
}

// String returns a printable form of the literal, even if it is not a
// [String] value.
func (l Literal) String() string {
	switch l.dt {
	case Bool:
		return strconv.FormatBool(l.v.(bool))
	case String:
		return strconv.Quote(l.v.(string))
	case Integer:
		return strconv.FormatInt(l.v.(int64), 10)
	case Float:
		return strconv.FormatFloat(l.v.(float64), 'g', -1, 64)
	case Timestamp:
		return time.Unix(0, l.v.(int64)).UTC().Format(time.RFC3339Nano)
	default:
		return "null"
	}
}

// Package toon implements a codec for TOON, an indentation-structured
// textual data format. It reads TOON text into an in-memory value tree
// and writes value trees back to TOON text, with a specialised tabular
// subset that decodes directly into typed, NA-aware columns.
//
// The package exposes a small set of top-level entry points (Parse,
// ParseFile, ParseReader, Encode, ReadTable, WriteTable, StreamRows)
// backed by internal packages that do
// the line scanning, recursive descent and column bookkeeping.
package toon

import "fmt"

// Kind tags the variant a Value node holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindDouble
	KindString
	KindArray
	KindObject
	// KindDate and KindTimestamp are host-supplied tags accepted only at
	// the encoder boundary: the format has no textual grammar for them,
	// so they render as ISO strings using the numeric representation the
	// host already computed.
	KindDate
	KindTimestamp
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindDate:
		return "date"
	case KindTimestamp:
		return "timestamp"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Member is one (key, Value) pair of an Object, kept in insertion order.
type Member struct {
	Key   string
	Value Value
}

// Value is a tagged variant over seven document cases: Null, Bool, Int,
// Double, String, Array, Object, plus the encoder-only Date and Timestamp
// tags. Object preserves insertion order and, after duplicate-key
// resolution, unique keys.
type Value struct {
	Kind    Kind
	Bool    bool
	Int     int32
	Double  float64
	Text    string
	Array   []Value
	Members []Member // only meaningful when Kind == KindObject
}

// Null returns the Null value.
func Null() Value { return Value{Kind: KindNull} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Int wraps a 32-bit integer.
func Int(n int32) Value { return Value{Kind: KindInt, Int: n} }

// Double wraps a float64.
func Double(f float64) Value { return Value{Kind: KindDouble, Double: f} }

// String wraps a string.
func String(s string) Value { return Value{Kind: KindString, Text: s} }

// Date wraps a day count since the Unix epoch (UTC), rendered on encode
// as "YYYY-MM-DD".
func Date(epochDays int32) Value { return Value{Kind: KindDate, Int: epochDays} }

// Timestamp wraps a UTC Unix timestamp in seconds, rendered on encode as
// "YYYY-MM-DDTHH:MM:SSZ".
func Timestamp(epochSeconds float64) Value { return Value{Kind: KindTimestamp, Double: epochSeconds} }

// NewArray wraps a slice of elements as an Array value.
func NewArray(elems []Value) Value { return Value{Kind: KindArray, Array: elems} }

// NewObject wraps ordered members as an Object value.
func NewObject(members []Member) Value { return Value{Kind: KindObject, Members: members} }

// Get returns the value of the first member named key and whether it was
// found. Only meaningful on an Object value.
func (v Value) Get(key string) (Value, bool) {
	for _, m := range v.Members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// IsNull reports whether v holds the Null case.
func (v Value) IsNull() bool { return v.Kind == KindNull }

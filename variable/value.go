package variable

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/hupe1980/sweepgo/fingerprint"
)

// ValueKind discriminates the variants of Value.
type ValueKind uint8

const (
	ValueKindInvalid ValueKind = iota
	ValueKindFloat
	ValueKindInt
	ValueKindString
	ValueKindBool
)

// Value is a tagged variant holding one point along a swept dimension.
//
// A small sum type is used instead of `any` so that coordinates survive a
// serialization round trip with their type intact and so that fingerprinting
// never depends on reflection.
type Value struct {
	kind ValueKind
	f    float64
	i    int64
	s    string
	b    bool
}

// FloatValue returns a float-typed Value.
func FloatValue(v float64) Value { return Value{kind: ValueKindFloat, f: v} }

// IntValue returns an int-typed Value.
func IntValue(v int64) Value { return Value{kind: ValueKindInt, i: v} }

// StringValue returns a string-typed Value.
func StringValue(v string) Value { return Value{kind: ValueKindString, s: v} }

// BoolValue returns a bool-typed Value.
func BoolValue(v bool) Value { return Value{kind: ValueKindBool, b: v} }

// Kind returns the variant tag.
func (v Value) Kind() ValueKind { return v.kind }

// Float returns the float payload. ok is false for other variants.
func (v Value) Float() (float64, bool) { return v.f, v.kind == ValueKindFloat }

// Int returns the int payload. ok is false for other variants.
func (v Value) Int() (int64, bool) { return v.i, v.kind == ValueKindInt }

// Str returns the string payload. ok is false for other variants.
func (v Value) Str() (string, bool) { return v.s, v.kind == ValueKindString }

// Bool returns the bool payload. ok is false for other variants.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == ValueKindBool }

// Equal reports whether two values have the same variant and payload.
func (v Value) Equal(o Value) bool { return v == o }

// String renders the value for labels and log lines.
func (v Value) String() string {
	switch v.kind {
	case ValueKindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case ValueKindInt:
		return strconv.FormatInt(v.i, 10)
	case ValueKindString:
		return v.s
	case ValueKindBool:
		return strconv.FormatBool(v.b)
	default:
		return "<invalid>"
	}
}

// Hash returns the value's contribution to a fingerprint.
func (v Value) Hash() fingerprint.Digest {
	switch v.kind {
	case ValueKindFloat:
		return fingerprint.Of("vf", v.f)
	case ValueKindInt:
		return fingerprint.Of("vi", v.i)
	case ValueKindString:
		return fingerprint.Of("vs", v.s)
	case ValueKindBool:
		return fingerprint.Of("vb", v.b)
	default:
		return fingerprint.Of("v?")
	}
}

type valueWire struct {
	Kind string  `json:"k"`
	F    float64 `json:"f,omitempty"`
	I    int64   `json:"i,omitempty"`
	S    string  `json:"s,omitempty"`
	B    bool    `json:"b,omitempty"`
}

// MarshalJSON implements json.Marshaler with an explicit variant tag.
func (v Value) MarshalJSON() ([]byte, error) {
	w := valueWire{F: v.f, I: v.i, S: v.s, B: v.b}
	switch v.kind {
	case ValueKindFloat:
		w.Kind = "float"
	case ValueKindInt:
		w.Kind = "int"
	case ValueKindString:
		w.Kind = "string"
	case ValueKindBool:
		w.Kind = "bool"
	default:
		return nil, fmt.Errorf("variable: marshal invalid value")
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	var w valueWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Kind {
	case "float":
		*v = FloatValue(w.F)
	case "int":
		*v = IntValue(w.I)
	case "string":
		*v = StringValue(w.S)
	case "bool":
		*v = BoolValue(w.B)
	default:
		return fmt.Errorf("variable: unmarshal unknown value kind %q", w.Kind)
	}
	return nil
}

package signal

import "fmt"

// Kind tags which field of Value is populated.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindText
	KindArray
	KindMap
	KindBytes
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindBytes:
		return "bytes"
	default:
		return "unknown"
	}
}

// Value is the tagged-union signal value: null, bool, signed 64-bit
// integer, 64-bit float, text, array-of-value, map-of-text-to-value, or a
// byte-blob reserved for serialized log records.
//
// Exactly one of Bool/Int/Float/Text/Array/Map/Bytes is meaningful,
// selected by Kind; zero value is KindNull.
type Value struct {
	Kind  Kind
	Bool  bool
	Int   int64
	Float float64
	Text  string
	Array []Value
	Map   map[string]Value
	Bytes []byte
}

func Null() Value                 { return Value{Kind: KindNull} }
func Bool(b bool) Value           { return Value{Kind: KindBool, Bool: b} }
func Int(i int64) Value           { return Value{Kind: KindInt, Int: i} }
func Float(f float64) Value       { return Value{Kind: KindFloat, Float: f} }
func Text(s string) Value         { return Value{Kind: KindText, Text: s} }
func Array(vs ...Value) Value     { return Value{Kind: KindArray, Array: vs} }
func Map(m map[string]Value) Value { return Value{Kind: KindMap, Map: m} }
func Bytes(b []byte) Value        { return Value{Kind: KindBytes, Bytes: b} }

func (v Value) IsNull() bool { return v.Kind == KindNull }

// Truthy is the coercion used by Until's in_condition and Switch/Branch
// control dispatch: null and zero-valued scalars are falsy, everything
// else (including empty containers) is truthy.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindNull:
		return false
	case KindBool:
		return v.Bool
	case KindInt:
		return v.Int != 0
	case KindFloat:
		return v.Float != 0
	case KindText:
		return v.Text != ""
	default:
		return true
	}
}

// AsInt coerces numeric kinds to int64, used by Switch/Branch/Clock tick
// consumers that expect an integer control value.
func (v Value) AsInt() (int64, bool) {
	switch v.Kind {
	case KindInt:
		return v.Int, true
	case KindFloat:
		return int64(v.Float), true
	case KindBool:
		if v.Bool {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// AsFloat coerces numeric kinds to float64, used by Math/Function variable
// bindings.
func (v Value) AsFloat() (float64, bool) {
	switch v.Kind {
	case KindFloat:
		return v.Float, true
	case KindInt:
		return float64(v.Int), true
	case KindBool:
		if v.Bool {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprintf("%t", v.Bool)
	case KindInt:
		return fmt.Sprintf("%d", v.Int)
	case KindFloat:
		return fmt.Sprintf("%g", v.Float)
	case KindText:
		return v.Text
	case KindBytes:
		return fmt.Sprintf("<%d bytes>", len(v.Bytes))
	default:
		return fmt.Sprintf("%v", v.Native())
	}
}

// Native converts a Value into a plain Go value suitable for
// encoding/json and gopkg.in/yaml.v3 marshaling. The Logger's YAML format
// goes through this via MarshalYAML; its JSON format does not, since Value
// has no MarshalJSON and encoding/json writes its struct fields.
func (v Value) Native() any {
	switch v.Kind {
	case KindNull:
		return nil
	case KindBool:
		return v.Bool
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Float
	case KindText:
		return v.Text
	case KindBytes:
		return v.Bytes
	case KindArray:
		out := make([]any, len(v.Array))
		for i, e := range v.Array {
			out[i] = e.Native()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.Map))
		for k, e := range v.Map {
			out[k] = e.Native()
		}
		return out
	default:
		return nil
	}
}

// FromNative builds a Value back from a decoded JSON/YAML-shaped
// map[string]any / []any / scalar tree.
func FromNative(n any) Value {
	switch t := n.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(t)
	case int:
		return Int(int64(t))
	case int64:
		return Int(t)
	case float64:
		return Float(t)
	case string:
		return Text(t)
	case []byte:
		return Bytes(t)
	case []any:
		vs := make([]Value, len(t))
		for i, e := range t {
			vs[i] = FromNative(e)
		}
		return Array(vs...)
	case []Value:
		return Array(t...)
	case map[string]any:
		m := make(map[string]Value, len(t))
		for k, e := range t {
			m[k] = FromNative(e)
		}
		return Map(m)
	default:
		return Text(fmt.Sprintf("%v", t))
	}
}

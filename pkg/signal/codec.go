package signal

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// gobValue is the encoding/gob-friendly mirror of Value. gob already
// self-describes field types on the wire (it ships a type descriptor ahead
// of the first value of any given concrete type), so a logged Value
// round-trips without a bespoke tag scheme.
type gobValue struct {
	Kind  Kind
	Bool  bool
	Int   int64
	Float float64
	Text  string
	Array []gobValue
	Map   map[string]gobValue
	Bytes []byte
}

func toGob(v Value) gobValue {
	g := gobValue{Kind: v.Kind, Bool: v.Bool, Int: v.Int, Float: v.Float, Text: v.Text, Bytes: v.Bytes}
	if v.Array != nil {
		g.Array = make([]gobValue, len(v.Array))
		for i, e := range v.Array {
			g.Array[i] = toGob(e)
		}
	}
	if v.Map != nil {
		g.Map = make(map[string]gobValue, len(v.Map))
		for k, e := range v.Map {
			g.Map[k] = toGob(e)
		}
	}
	return g
}

func fromGob(g gobValue) Value {
	v := Value{Kind: g.Kind, Bool: g.Bool, Int: g.Int, Float: g.Float, Text: g.Text, Bytes: g.Bytes}
	if g.Array != nil {
		v.Array = make([]Value, len(g.Array))
		for i, e := range g.Array {
			v.Array[i] = fromGob(e)
		}
	}
	if g.Map != nil {
		v.Map = make(map[string]Value, len(g.Map))
		for k, e := range g.Map {
			v.Map[k] = fromGob(e)
		}
	}
	return v
}

// Encode serializes a Value to the self-describing binary wire format.
func Encode(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(toGob(v)); err != nil {
		return nil, fmt.Errorf("encode signal value: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode is Encode's inverse.
func Decode(data []byte) (Value, error) {
	var g gobValue
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&g); err != nil {
		return Value{}, fmt.Errorf("decode signal value: %w", err)
	}
	return fromGob(g), nil
}

// EncodeState/DecodeState round-trip an entire state map through the same
// gob encoding as Encode/Decode.
func EncodeState(m map[ID]Value) ([]byte, error) {
	g := make(map[ID]gobValue, len(m))
	for id, v := range m {
		g[id] = toGob(v)
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(g); err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return buf.Bytes(), nil
}

func DecodeState(data []byte) (map[ID]Value, error) {
	var g map[ID]gobValue
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&g); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	out := make(map[ID]Value, len(g))
	for id, v := range g {
		out[id] = fromGob(v)
	}
	return out, nil
}

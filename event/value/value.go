// Package value defines the dynamic values carried in event payloads.
//
// A Value is one of Null, Bool, Int64, Float64, String, List, or Map. Values
// are treated as immutable: constructors and accessors copy nested
// containers, so a Value handed to an event cannot be mutated through the
// original map or slice.
package value

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt64
	KindFloat64
	KindString
	KindList
	KindMap
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt64:
		return "int64"
	case KindFloat64:
		return "float64"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is a dynamic payload value. The zero Value is Null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	list []Value
	m    map[string]Value
}

// Null returns the null Value.
func Null() Value { return Value{} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int64 returns an integer Value.
func Int64(i int64) Value { return Value{kind: KindInt64, i: i} }

// Float64 returns a floating-point Value.
func Float64(f float64) Value { return Value{kind: KindFloat64, f: f} }

// String returns a string Value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// List returns a list Value holding a copy of vs.
func List(vs ...Value) Value {
	cp := make([]Value, len(vs))
	copy(cp, vs)
	return Value{kind: KindList, list: cp}
}

// Map returns a map Value holding a copy of m.
func Map(m map[string]Value) Value {
	cp := make(map[string]Value, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return Value{kind: KindMap, m: cp}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the null Value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// BoolVal returns the boolean variant. ok is false for other kinds.
func (v Value) BoolVal() (b bool, ok bool) { return v.b, v.kind == KindBool }

// Int64Val returns the integer variant. ok is false for other kinds.
func (v Value) Int64Val() (i int64, ok bool) { return v.i, v.kind == KindInt64 }

// Float64Val returns the floating-point variant. ok is false for other kinds.
func (v Value) Float64Val() (f float64, ok bool) { return v.f, v.kind == KindFloat64 }

// StringVal returns the string variant. ok is false for other kinds.
func (v Value) StringVal() (s string, ok bool) { return v.s, v.kind == KindString }

// ListVal returns a copy of the list variant. ok is false for other kinds.
func (v Value) ListVal() (list []Value, ok bool) {
	if v.kind != KindList {
		return nil, false
	}
	cp := make([]Value, len(v.list))
	copy(cp, v.list)
	return cp, true
}

// MapVal returns a copy of the map variant. ok is false for other kinds.
func (v Value) MapVal() (m map[string]Value, ok bool) {
	if v.kind != KindMap {
		return nil, false
	}
	cp := make(map[string]Value, len(v.m))
	for k, e := range v.m {
		cp[k] = e
	}
	return cp, true
}

// Equal reports whether two Values hold the same variant and contents.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt64:
		return v.i == o.i
	case KindFloat64:
		return v.f == o.f
	case KindString:
		return v.s == o.s
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.m) != len(o.m) {
			return false
		}
		for k, e := range v.m {
			oe, ok := o.m[k]
			if !ok || !e.Equal(oe) {
				return false
			}
		}
		return true
	}
	return false
}

// ToInterface converts v to the equivalent any-typed representation
// (nil, bool, int64, float64, string, []any, map[string]any).
func (v Value) ToInterface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt64:
		return v.i
	case KindFloat64:
		return v.f
	case KindString:
		return v.s
	case KindList:
		out := make([]any, len(v.list))
		for i, e := range v.list {
			out[i] = e.ToInterface()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.m))
		for k, e := range v.m {
			out[k] = e.ToInterface()
		}
		return out
	default:
		return nil
	}
}

// FromInterface converts an any-typed representation into a Value. Supported
// input types are nil, bool, all Go integer and float widths, string,
// []any, map[string]any, and Value itself.
func FromInterface(in any) (Value, error) {
	switch t := in.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case int:
		return Int64(int64(t)), nil
	case int8:
		return Int64(int64(t)), nil
	case int16:
		return Int64(int64(t)), nil
	case int32:
		return Int64(int64(t)), nil
	case int64:
		return Int64(t), nil
	case uint:
		return Int64(int64(t)), nil
	case uint8:
		return Int64(int64(t)), nil
	case uint16:
		return Int64(int64(t)), nil
	case uint32:
		return Int64(int64(t)), nil
	case float32:
		return Float64(float64(t)), nil
	case float64:
		return Float64(t), nil
	case string:
		return String(t), nil
	case []any:
		list := make([]Value, len(t))
		for i, e := range t {
			v, err := FromInterface(e)
			if err != nil {
				return Null(), err
			}
			list[i] = v
		}
		return Value{kind: KindList, list: list}, nil
	case map[string]any:
		m := make(map[string]Value, len(t))
		for k, e := range t {
			v, err := FromInterface(e)
			if err != nil {
				return Null(), err
			}
			m[k] = v
		}
		return Value{kind: KindMap, m: m}, nil
	default:
		return Null(), fmt.Errorf("%w: %T", ErrUnsupportedType, in)
	}
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.ToInterface())
}

// FromJSON parses a JSON document into a Value.
func FromJSON(data []byte) (Value, error) {
	if !gjson.ValidBytes(data) {
		return Null(), ErrInvalidJSON
	}
	return fromResult(gjson.ParseBytes(data)), nil
}

// MapFromJSON parses a JSON object into a payload map. Non-object documents
// are rejected.
func MapFromJSON(data []byte) (map[string]Value, error) {
	v, err := FromJSON(data)
	if err != nil {
		return nil, err
	}
	m, ok := v.MapVal()
	if !ok {
		return nil, fmt.Errorf("%w: document is %s, not an object", ErrInvalidJSON, v.Kind())
	}
	return m, nil
}

// fromResult converts a gjson result tree into a Value.
func fromResult(r gjson.Result) Value {
	switch r.Type {
	case gjson.Null:
		return Null()
	case gjson.False:
		return Bool(false)
	case gjson.True:
		return Bool(true)
	case gjson.String:
		return String(r.Str)
	case gjson.Number:
		// Integral JSON numbers become Int64 so round-trips stay exact.
		if f := r.Num; f == float64(int64(f)) {
			return Int64(int64(f))
		}
		return Float64(r.Num)
	case gjson.JSON:
		if r.IsArray() {
			var list []Value
			r.ForEach(func(_, e gjson.Result) bool {
				list = append(list, fromResult(e))
				return true
			})
			return Value{kind: KindList, list: list}
		}
		m := map[string]Value{}
		r.ForEach(func(k, e gjson.Result) bool {
			m[k.String()] = fromResult(e)
			return true
		})
		return Value{kind: KindMap, m: m}
	default:
		return Null()
	}
}

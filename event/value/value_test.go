package value

import (
	"errors"
	"testing"
)

func TestKinds(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		kind Kind
	}{
		{"null", Null(), KindNull},
		{"bool", Bool(true), KindBool},
		{"int", Int64(42), KindInt64},
		{"float", Float64(1.5), KindFloat64},
		{"string", String("x"), KindString},
		{"list", List(Int64(1)), KindList},
		{"map", Map(map[string]Value{"k": Null()}), KindMap},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.v.Kind() != tt.kind {
				t.Errorf("Kind = %v, want %v", tt.v.Kind(), tt.kind)
			}
		})
	}

	var zero Value
	if !zero.IsNull() {
		t.Error("zero Value should be null")
	}
}

func TestAccessors(t *testing.T) {
	if b, ok := Bool(true).BoolVal(); !ok || !b {
		t.Error("BoolVal failed")
	}
	if i, ok := Int64(7).Int64Val(); !ok || i != 7 {
		t.Error("Int64Val failed")
	}
	if f, ok := Float64(2.5).Float64Val(); !ok || f != 2.5 {
		t.Error("Float64Val failed")
	}
	if s, ok := String("hi").StringVal(); !ok || s != "hi" {
		t.Error("StringVal failed")
	}
	if _, ok := Int64(1).StringVal(); ok {
		t.Error("StringVal on int should report !ok")
	}
}

func TestImmutability(t *testing.T) {
	src := map[string]Value{"k": String("v")}
	m := Map(src)
	src["k"] = String("changed")

	got, ok := m.MapVal()
	if !ok {
		t.Fatal("MapVal failed")
	}
	if s, _ := got["k"].StringVal(); s != "v" {
		t.Errorf("map value mutated through source: %q", s)
	}

	got["k"] = String("mutated")
	again, _ := m.MapVal()
	if s, _ := again["k"].StringVal(); s != "v" {
		t.Errorf("map value mutated through accessor copy: %q", s)
	}

	items := []Value{Int64(1), Int64(2)}
	l := List(items...)
	items[0] = Int64(99)
	lv, _ := l.ListVal()
	if i, _ := lv[0].Int64Val(); i != 1 {
		t.Errorf("list value mutated through source: %d", i)
	}
}

func TestEqual(t *testing.T) {
	a := Map(map[string]Value{
		"s": String("x"),
		"l": List(Int64(1), Bool(false)),
		"n": Null(),
	})
	b := Map(map[string]Value{
		"s": String("x"),
		"l": List(Int64(1), Bool(false)),
		"n": Null(),
	})
	if !a.Equal(b) {
		t.Error("equal values reported unequal")
	}

	c := Map(map[string]Value{"s": String("y")})
	if a.Equal(c) {
		t.Error("unequal values reported equal")
	}
	if Int64(1).Equal(Float64(1)) {
		t.Error("int and float must not compare equal")
	}
}

func TestFromInterface(t *testing.T) {
	v, err := FromInterface(map[string]any{
		"b":    true,
		"i":    3,
		"f":    1.25,
		"s":    "str",
		"list": []any{int64(1), "two"},
		"nil":  nil,
	})
	if err != nil {
		t.Fatalf("FromInterface: %v", err)
	}
	m, ok := v.MapVal()
	if !ok {
		t.Fatal("expected map")
	}
	if i, _ := m["i"].Int64Val(); i != 3 {
		t.Errorf("i = %d, want 3", i)
	}
	if f, _ := m["f"].Float64Val(); f != 1.25 {
		t.Errorf("f = %v, want 1.25", f)
	}
	if !m["nil"].IsNull() {
		t.Error("nil should map to Null")
	}
	list, _ := m["list"].ListVal()
	if len(list) != 2 {
		t.Fatalf("list length = %d, want 2", len(list))
	}

	if _, err := FromInterface(struct{}{}); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("FromInterface(struct) error = %v, want ErrUnsupportedType", err)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	orig := Map(map[string]Value{
		"b": Bool(true),
		"i": Int64(42),
		"f": Float64(1.5),
		"s": String("hello"),
		"l": List(Int64(1), String("two"), Null()),
		"m": Map(map[string]Value{"nested": Int64(7)}),
	})

	data, err := orig.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	back, err := FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if !orig.Equal(back) {
		t.Errorf("round trip mismatch:\norig %v\nback %v", orig.ToInterface(), back.ToInterface())
	}
}

func TestFromJSON_Invalid(t *testing.T) {
	if _, err := FromJSON([]byte("{not json")); !errors.Is(err, ErrInvalidJSON) {
		t.Errorf("error = %v, want ErrInvalidJSON", err)
	}
	if _, err := MapFromJSON([]byte(`[1,2]`)); !errors.Is(err, ErrInvalidJSON) {
		t.Errorf("MapFromJSON(array) error = %v, want ErrInvalidJSON", err)
	}
}

func TestMapFromJSON(t *testing.T) {
	m, err := MapFromJSON([]byte(`{"a": 1, "b": {"c": "d"}}`))
	if err != nil {
		t.Fatalf("MapFromJSON: %v", err)
	}
	if i, _ := m["a"].Int64Val(); i != 1 {
		t.Errorf("a = %d, want 1", i)
	}
	nested, ok := m["b"].MapVal()
	if !ok {
		t.Fatal("b should be a map")
	}
	if s, _ := nested["c"].StringVal(); s != "d" {
		t.Errorf("b.c = %q, want %q", s, "d")
	}
}

func TestCloneMap(t *testing.T) {
	if CloneMap(nil) != nil {
		t.Error("CloneMap(nil) should be nil")
	}
	src := map[string]Value{"k": Int64(1)}
	cp := CloneMap(src)
	cp["k"] = Int64(2)
	if i, _ := src["k"].Int64Val(); i != 1 {
		t.Error("CloneMap did not copy")
	}
}

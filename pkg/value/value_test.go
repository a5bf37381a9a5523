package value

import (
	"math"
	"testing"
	"time"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindNull, "null"},
		{KindBool, "bool"},
		{KindInt, "int"},
		{KindFloat, "float"},
		{KindString, "string"},
		{KindSequence, "sequence"},
		{KindMapping, "mapping"},
		{Kind(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestValue_ZeroIsNull(t *testing.T) {
	var v Value
	if !v.IsNull() {
		t.Errorf("zero Value kind = %s, want null", v.Kind())
	}
	if !v.Equal(Null()) {
		t.Error("zero Value should equal Null()")
	}
}

func TestValue_Accessors(t *testing.T) {
	if b, ok := Bool(true).AsBool(); !ok || !b {
		t.Errorf("Bool(true).AsBool() = %v, %v", b, ok)
	}
	if _, ok := String("true").AsBool(); ok {
		t.Error("String(\"true\").AsBool() should fail")
	}

	if i, ok := Int(39).AsInt(); !ok || i != 39 {
		t.Errorf("Int(39).AsInt() = %v, %v", i, ok)
	}
	if _, ok := Float(1.78).AsInt(); ok {
		t.Error("Float.AsInt() should not narrow")
	}

	if f, ok := Int(39).AsFloat(); !ok || f != 39.0 {
		t.Errorf("Int(39).AsFloat() = %v, %v, want 39.0", f, ok)
	}
	if f, ok := Float(1.78).AsFloat(); !ok || f != 1.78 {
		t.Errorf("Float(1.78).AsFloat() = %v, %v", f, ok)
	}
	if _, ok := String("1.78").AsFloat(); ok {
		t.Error("String.AsFloat() should fail")
	}

	if s, ok := String("John").AsString(); !ok || s != "John" {
		t.Errorf("String(\"John\").AsString() = %q, %v", s, ok)
	}
	if _, ok := Int(1).AsString(); ok {
		t.Error("Int.AsString() should fail")
	}

	seq, ok := Sequence(String("Huey"), String("Dewey")).AsSequence()
	if !ok || len(seq) != 2 {
		t.Fatalf("AsSequence() = %v, %v", seq, ok)
	}
	if _, ok := Mapping().AsSequence(); ok {
		t.Error("Mapping.AsSequence() should fail")
	}
}

func TestValue_AsSequenceReturnsCopy(t *testing.T) {
	v := Sequence(String("a"), String("b"))

	items, _ := v.AsSequence()
	items[0] = String("changed")

	again, _ := v.AsSequence()
	if s, _ := again[0].AsString(); s != "a" {
		t.Errorf("sequence was mutated through AsSequence: got %q", s)
	}
}

func TestValue_CloneIsDeep(t *testing.T) {
	inner := Sequence(Int(1), Int(2))
	v := Mapping(Entry{Key: StringKey("list"), Value: inner})

	clone := v.Clone()
	if !clone.Equal(v) {
		t.Fatal("clone should equal original")
	}

	entries := clone.Entries()
	entries[0].Value = Null()
	if v.Entries()[0].Value.IsNull() {
		t.Error("modifying the entries of a clone changed the original")
	}
}

func TestValue_Equal(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"same ints", Int(1), Int(1), true},
		{"int vs float", Int(1), Float(1), false},
		{"nan", Float(math.NaN()), Float(math.NaN()), true},
		{"sequences", Sequence(String("x")), Sequence(String("x")), true},
		{"sequence lengths", Sequence(String("x")), Sequence(), false},
		{
			"mapping key kinds",
			Mapping(Entry{Key: IntKey(1), Value: Null()}),
			Mapping(Entry{Key: StringKey("1"), Value: Null()}),
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValue_Interface(t *testing.T) {
	v := Mapping(
		Entry{Key: StringKey("name"), Value: String("John")},
		Entry{Key: IntKey(7), Value: Sequence(Bool(true), Null())},
	)

	got, ok := v.Interface().(map[string]any)
	if !ok {
		t.Fatalf("Interface() returned %T, want map[string]any", v.Interface())
	}
	if got["name"] != "John" {
		t.Errorf("name = %v, want John", got["name"])
	}
	list, ok := got["7"].([]any)
	if !ok || len(list) != 2 || list[0] != true || list[1] != nil {
		t.Errorf("7 = %#v, want [true <nil>]", got["7"])
	}
}

func TestValue_String(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Null(), "null"},
		{Bool(false), "false"},
		{Int(-3), "-3"},
		{Float(1.78), "1.78"},
		{String("John"), "John"},
		{Sequence(), "sequence"},
	}

	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestKey(t *testing.T) {
	if got := IntKey(42).String(); got != "42" {
		t.Errorf("IntKey(42).String() = %q", got)
	}
	if got := StringKey("name").String(); got != "name" {
		t.Errorf("StringKey.String() = %q", got)
	}
	if UnsupportedKey("true").Supported() {
		t.Error("UnsupportedKey should not be supported")
	}
	if !IntKey(1).Supported() || IntKey(1).Kind() != KeyInt {
		t.Error("IntKey should be a supported int key")
	}
}

func TestFromAny(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	got, err := FromAny(map[string]any{
		"zeta":  uint64(math.MaxUint64),
		"alpha": []any{1, "two", 3.5},
		"when":  ts,
		"inner": map[string]any{"ok": true},
		"none":  nil,
	})
	if err != nil {
		t.Fatalf("FromAny() error = %v", err)
	}

	entries := got.Entries()
	wantOrder := []string{"alpha", "inner", "none", "when", "zeta"}
	if len(entries) != len(wantOrder) {
		t.Fatalf("got %d entries, want %d", len(entries), len(wantOrder))
	}
	for i, name := range wantOrder {
		if entries[i].Key.String() != name {
			t.Errorf("entry %d = %q, want %q", i, entries[i].Key.String(), name)
		}
	}

	if entries[0].Value.Len() != 3 {
		t.Errorf("alpha has %d items, want 3", entries[0].Value.Len())
	}
	if s, _ := entries[3].Value.AsString(); s != "2024-01-02T03:04:05Z" {
		t.Errorf("when = %q", s)
	}
	if entries[4].Value.Kind() != KindFloat {
		t.Errorf("uint64 above MaxInt64 should become a float, got %s", entries[4].Value.Kind())
	}
}

func TestFromAny_Unsupported(t *testing.T) {
	if _, err := FromAny(map[string]any{"ch": make(chan int)}); err == nil {
		t.Error("FromAny() expected error for channel value")
	}
}

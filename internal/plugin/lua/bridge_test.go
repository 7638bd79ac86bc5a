package lua

import (
	"reflect"
	"testing"

	glua "github.com/yuin/gopher-lua"
)

func TestBridgeToGoValue(t *testing.T) {
	state := newTestState(t)
	b := NewBridge(state.LuaState())

	tests := []struct {
		name string
		in   glua.LValue
		want any
	}{
		{"nil", glua.LNil, nil},
		{"bool", glua.LTrue, true},
		{"int", glua.LNumber(42), int64(42)},
		{"float", glua.LNumber(1.5), 1.5},
		{"string", glua.LString("hi"), "hi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.ToGoValue(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ToGoValue(%v) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestBridgeToGoValueTable(t *testing.T) {
	state := newTestState(t)
	b := NewBridge(state.LuaState())

	if err := state.DoString(`arr = {1, 2, 3}; obj = {name = "x", n = 2}`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}

	arr := b.ToGoValue(state.GetGlobal("arr"))
	if !reflect.DeepEqual(arr, []any{int64(1), int64(2), int64(3)}) {
		t.Errorf("arr = %#v", arr)
	}
	obj := b.ToGoValue(state.GetGlobal("obj"))
	if !reflect.DeepEqual(obj, map[string]any{"name": "x", "n": int64(2)}) {
		t.Errorf("obj = %#v", obj)
	}
}

func TestBridgeCircularTable(t *testing.T) {
	state := newTestState(t)
	b := NewBridge(state.LuaState())

	if err := state.DoString(`c = {}; c.self = c`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	got, ok := b.ToGoValue(state.GetGlobal("c")).(map[string]any)
	if !ok {
		t.Fatalf("ToGoValue() = %T, want map", got)
	}
	if got["self"] != nil {
		t.Errorf("self reference = %v, want nil", got["self"])
	}
}

type kind string

type sample struct {
	Name    string `json:"name"`
	Kind    kind   `json:"kind"`
	Count   int    `json:"count"`
	Note    string `json:"note,omitempty"`
	Skip    string `json:"-"`
	private string
}

func TestBridgeToLuaValueStruct(t *testing.T) {
	state := newTestState(t)
	b := NewBridge(state.LuaState())

	lv := b.ToLuaValue(&sample{Name: "a", Kind: "component", Count: 3, Skip: "x", private: "y"})
	tbl, ok := lv.(*glua.LTable)
	if !ok {
		t.Fatalf("ToLuaValue() = %T, want table", lv)
	}
	if got := tbl.RawGetString("name"); got != glua.LString("a") {
		t.Errorf("name = %v", got)
	}
	if got := tbl.RawGetString("kind"); got != glua.LString("component") {
		t.Errorf("kind = %v", got)
	}
	if got := tbl.RawGetString("count"); got != glua.LNumber(3) {
		t.Errorf("count = %v", got)
	}
	for _, key := range []string{"note", "Skip", "private"} {
		if got := tbl.RawGetString(key); got != glua.LNil {
			t.Errorf("%s = %v, want nil", key, got)
		}
	}
}

func TestBridgeToLuaValueCollections(t *testing.T) {
	state := newTestState(t)
	b := NewBridge(state.LuaState())

	rows := [][]any{{"a", 1}, {"b", 2}}
	tbl, ok := b.ToLuaValue(rows).(*glua.LTable)
	if !ok || tbl.Len() != 2 {
		t.Fatalf("ToLuaValue(rows) = %v", tbl)
	}
	first, ok := tbl.RawGetInt(1).(*glua.LTable)
	if !ok || first.RawGetInt(1) != glua.LString("a") || first.RawGetInt(2) != glua.LNumber(1) {
		t.Errorf("first row = %v", tbl.RawGetInt(1))
	}

	var nilSlice []sample
	if empty, ok := b.ToLuaValue(nilSlice).(*glua.LTable); !ok || empty.Len() != 0 {
		t.Errorf("nil slice should become an empty table")
	}

	var nilPtr *sample
	if b.ToLuaValue(nilPtr) != glua.LNil {
		t.Error("nil pointer should become nil")
	}

	m, ok := b.ToLuaValue(map[string]int{"x": 1}).(*glua.LTable)
	if !ok || m.RawGetString("x") != glua.LNumber(1) {
		t.Errorf("map = %v", m)
	}
}

func TestBridgeLuaValuePassthrough(t *testing.T) {
	state := newTestState(t)
	b := NewBridge(state.LuaState())

	tbl := state.LuaState().NewTable()
	if b.ToLuaValue(tbl) != tbl {
		t.Error("Lua values should pass through unchanged")
	}
	ud := state.LuaState().NewUserData()
	ud.Value = 7
	if b.ToGoValue(ud) != 7 {
		t.Error("userdata should yield its value")
	}
}

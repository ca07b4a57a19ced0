package constraint

import (
	"encoding/json"
	"math"
	"testing"
)

func schemaMap(t *testing.T, c Constraint) map[string]any {
	t.Helper()
	b, err := json.Marshal(JSONSchema(c))
	if err != nil {
		t.Fatalf("marshal schema: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal schema: %v", err)
	}
	return m
}

func TestJSONSchema_Leaves(t *testing.T) {
	if m := schemaMap(t, Int()); m["type"] != "integer" {
		t.Fatalf("int: %v", m)
	}
	if m := schemaMap(t, Float()); m["type"] != "number" {
		t.Fatalf("float: %v", m)
	}
	if m := schemaMap(t, Bool()); m["type"] != "boolean" {
		t.Fatalf("bool: %v", m)
	}
	m := schemaMap(t, Choice("a", "b"))
	if enum, ok := m["enum"].([]any); !ok || len(enum) != 2 {
		t.Fatalf("choice: %v", m)
	}
	m = schemaMap(t, Range(Min(7), Max(44)))
	if m["minimum"] != float64(7) || m["maximum"] != float64(44) {
		t.Fatalf("range: %v", m)
	}
	m = schemaMap(t, Range(Max(1)))
	if _, ok := m["minimum"]; ok {
		t.Fatalf("open range must omit minimum: %v", m)
	}
}

func TestJSONSchema_Combinators(t *testing.T) {
	m := schemaMap(t, AnyOf(AllOf(Float(), Range(Min(0))), Null()))
	anyOf, ok := m["anyOf"].([]any)
	if !ok || len(anyOf) != 2 {
		t.Fatalf("expected two anyOf branches: %v", m)
	}
	first := anyOf[0].(map[string]any)
	if allOf, ok := first["allOf"].([]any); !ok || len(allOf) != 2 {
		t.Fatalf("expected allOf in first branch: %v", first)
	}
	if second := anyOf[1].(map[string]any); second["type"] != "null" {
		t.Fatalf("expected null branch: %v", second)
	}
}

func TestJSONSchema_Nil(t *testing.T) {
	if s := JSONSchema(nil); s == nil || s.Type != "" {
		t.Fatalf("nil constraint should give an empty schema")
	}
}

func TestJSONSchema_Descriptions(t *testing.T) {
	for _, c := range []Constraint{
		Int(), Float(), Bool(), Null(), Choice("a"), Range(Min(1)),
		AllOf(Int(), Range(Max(3))), AnyOf(Bool(), Null()),
	} {
		if m := schemaMap(t, c); m["description"] != c.Describe() {
			t.Fatalf("%s: description = %v, want %q", c.Kind(), m["description"], c.Describe())
		}
	}
	m := schemaMap(t, AnyOf(Bool(), Null()))
	branches := m["anyOf"].([]any)
	if b := branches[1].(map[string]any); b["description"] != "None" {
		t.Fatalf("nested null branch: %v", b)
	}
}

func TestJSONSchema_InfiniteBound(t *testing.T) {
	m := schemaMap(t, Range(Min(math.Inf(-1)), Max(2)))
	if _, ok := m["minimum"]; ok || m["maximum"] != float64(2) {
		t.Fatalf("infinite bound must be left open: %v", m)
	}
}

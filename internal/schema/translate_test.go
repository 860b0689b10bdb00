package schema

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestToWire_RootIsObject(t *testing.T) {
	wire, err := ToWire(Params{
		"intent": {Kind: String, Description: "what to do", Required: true},
	})
	if err != nil {
		t.Fatalf("ToWire failed: %v", err)
	}
	if wire.Type != "object" {
		t.Errorf("expected root type object, got %s", wire.Type)
	}
}

func TestToWire_EveryFieldBecomesProperty(t *testing.T) {
	params := Params{
		"intent":   {Kind: String, Required: true},
		"count":    {Kind: Number},
		"verbose":  {Kind: Boolean},
		"names":    {Kind: Array, Items: &Field{Kind: String}},
		"metadata": {Kind: Object, Fields: map[string]Field{"key": {Kind: String}}},
	}

	wire, err := ToWire(params)
	if err != nil {
		t.Fatalf("ToWire failed: %v", err)
	}

	if len(wire.Properties) != len(params) {
		t.Fatalf("expected %d properties, got %d", len(params), len(wire.Properties))
	}
	for name := range params {
		if wire.Properties[name] == nil {
			t.Errorf("missing property %q", name)
		}
	}
}

func TestToWire_PrimitiveKindMapping(t *testing.T) {
	cases := []struct {
		kind Kind
		want string
	}{
		{String, "string"},
		{Number, "number"},
		{Boolean, "boolean"},
	}

	for _, tc := range cases {
		wire, err := ToWire(Params{"field": {Kind: tc.kind}})
		if err != nil {
			t.Fatalf("ToWire(%s) failed: %v", tc.kind, err)
		}
		if got := wire.Properties["field"].Type; got != tc.want {
			t.Errorf("kind %s: expected type %s, got %s", tc.kind, tc.want, got)
		}
	}
}

func TestToWire_RequiredListsExactlyRequiredFields(t *testing.T) {
	wire, err := ToWire(Params{
		"intent":   {Kind: String, Required: true},
		"optional": {Kind: Boolean},
		"also":     {Kind: Number, Required: true},
	})
	if err != nil {
		t.Fatalf("ToWire failed: %v", err)
	}

	want := []string{"also", "intent"}
	if !reflect.DeepEqual(wire.Required, want) {
		t.Errorf("expected required %v, got %v", want, wire.Required)
	}
}

func TestToWire_NoRequiredFields(t *testing.T) {
	wire, err := ToWire(Params{
		"optional": {Kind: Boolean},
	})
	if err != nil {
		t.Fatalf("ToWire failed: %v", err)
	}
	if len(wire.Required) != 0 {
		t.Errorf("expected empty required, got %v", wire.Required)
	}
}

func TestToWire_DescriptionsCarriedVerbatim(t *testing.T) {
	wire, err := ToWire(Params{
		"intent": {Kind: String, Description: "What the user wants to accomplish"},
	})
	if err != nil {
		t.Fatalf("ToWire failed: %v", err)
	}
	if got := wire.Properties["intent"].Description; got != "What the user wants to accomplish" {
		t.Errorf("description not carried through, got %q", got)
	}
}

func TestToWire_NestedObject(t *testing.T) {
	wire, err := ToWire(Params{
		"spec": {
			Kind:     Object,
			Required: true,
			Fields: map[string]Field{
				"replicas": {Kind: Number, Required: true},
				"image":    {Kind: String},
			},
		},
	})
	if err != nil {
		t.Fatalf("ToWire failed: %v", err)
	}

	nested := wire.Properties["spec"]
	if nested.Type != "object" {
		t.Fatalf("expected nested object, got %s", nested.Type)
	}
	if len(nested.Properties) != 2 {
		t.Errorf("expected 2 nested properties, got %d", len(nested.Properties))
	}
	if !reflect.DeepEqual(nested.Required, []string{"replicas"}) {
		t.Errorf("expected nested required [replicas], got %v", nested.Required)
	}
}

func TestToWire_ArrayItems(t *testing.T) {
	wire, err := ToWire(Params{
		"selectors": {
			Kind:  Array,
			Items: &Field{Kind: Object, Fields: map[string]Field{"label": {Kind: String, Required: true}}},
		},
	})
	if err != nil {
		t.Fatalf("ToWire failed: %v", err)
	}

	items := wire.Properties["selectors"].Items
	if items == nil {
		t.Fatal("expected items schema")
	}
	if items.Type != "object" {
		t.Errorf("expected object items, got %s", items.Type)
	}
	if !reflect.DeepEqual(items.Required, []string{"label"}) {
		t.Errorf("expected items required [label], got %v", items.Required)
	}
}

func TestToWire_UnknownKindFailsLoudly(t *testing.T) {
	_, err := ToWire(Params{
		"bad": {Kind: Kind("datetime")},
	})
	if err == nil {
		t.Fatal("expected error for unknown kind")
	}

	var unknownErr *UnknownKindError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected UnknownKindError, got %T", err)
	}
	if unknownErr.Field != "bad" || unknownErr.Kind != "datetime" {
		t.Errorf("unexpected error detail: %+v", unknownErr)
	}
}

func TestToWire_UnknownKindInNestedField(t *testing.T) {
	_, err := ToWire(Params{
		"spec": {
			Kind:   Object,
			Fields: map[string]Field{"when": {Kind: Kind("timestamp")}},
		},
	})
	if err == nil {
		t.Fatal("expected error for unknown nested kind")
	}

	var unknownErr *UnknownKindError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected UnknownKindError, got %T", err)
	}
	if unknownErr.Field != "spec.when" {
		t.Errorf("expected field path spec.when, got %s", unknownErr.Field)
	}
}

func TestToWire_Deterministic(t *testing.T) {
	params := Params{
		"b": {Kind: String, Required: true},
		"a": {Kind: Number, Required: true},
		"c": {Kind: Boolean},
	}

	first, err := ToWire(params)
	if err != nil {
		t.Fatalf("ToWire failed: %v", err)
	}
	second, err := ToWire(params)
	if err != nil {
		t.Fatalf("ToWire failed: %v", err)
	}

	firstJSON, _ := json.Marshal(first)
	secondJSON, _ := json.Marshal(second)
	if string(firstJSON) != string(secondJSON) {
		t.Errorf("translation is not deterministic:\n%s\n%s", firstJSON, secondJSON)
	}
}

func TestJSONSchema_MarshalOmitsEmpty(t *testing.T) {
	wire, err := ToWire(Params{})
	if err != nil {
		t.Fatalf("ToWire failed: %v", err)
	}

	data, err := json.Marshal(wire)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if _, ok := out["items"]; ok {
		t.Error("empty items should be omitted")
	}
	if _, ok := out["required"]; ok {
		t.Error("empty required should be omitted")
	}
}

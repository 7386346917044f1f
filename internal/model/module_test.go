package model

import (
	"reflect"
	"testing"
)

func TestRegistry_DeclarationOrder(t *testing.T) {
	reg := NewRegistry()
	reg.Declare("B", "b")
	reg.Declare("A", "a")
	reg.Declare("B", "b2")

	var names []string
	for _, mod := range reg.Modules() {
		names = append(names, mod.Name)
	}

	if !reflect.DeepEqual(names, []string{"B", "A"}) {
		t.Fatalf("Modules() order = %v", names)
	}

	if reg.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", reg.Len())
	}

	mod, ok := reg.Get("B")
	if !ok || mod.Stem != "b2" {
		t.Fatalf("Get(B) = %+v, %v", mod, ok)
	}

	if _, ok := reg.Get("C"); ok {
		t.Fatalf("Get(C) should report a missing module")
	}
}

func TestRegistry_Edges(t *testing.T) {
	reg := NewRegistry()
	a := reg.Declare("A", "a")
	a.Deps["Z"] = struct{}{}
	a.Deps["B"] = struct{}{}
	b := reg.Declare("B", "b")
	b.Deps["Z"] = struct{}{}

	want := []Edge{{From: "B", To: "A"}, {From: "Z", To: "A"}, {From: "Z", To: "B"}}
	if got := reg.Edges(); !reflect.DeepEqual(got, want) {
		t.Errorf("Edges() = %v, want %v", got, want)
	}
}

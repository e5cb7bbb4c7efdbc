package ts

import "testing"

func TestSimplifyType(t *testing.T) {
	tests := []struct {
		name string
		in   Type
		want string
	}{
		{"flatten", Union(Name("a"), Union(Name("b"), Name("c"))), "a|b|c"},
		{"dedupe keeps first", Union(Name("b"), Name("a"), Name("b")), "b|a"},
		{"collapse to single", Union(Name("a"), Name("a")), "a"},
		{"any kept in union", Union(AnyType, UndefinedType), "any|undefined"},
		{"nested in array", Array(Union(Name("a"), Name("a"), Name("b"))), "(a|b)[]"},
		{"nested in generic", Generic("Promise", Union(Name("x"), Name("x"))), "Promise<x>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SimplifyType(tt.in).String(); got != tt.want {
				t.Errorf("SimplifyType(%s) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSimplifyTypeDoesNotMutateInput(t *testing.T) {
	in := Union(Name("a"), Union(Name("a"), Name("b")))
	before := in.String()
	SimplifyType(in)
	if after := in.String(); after != before {
		t.Errorf("input mutated: %q -> %q", before, after)
	}
}

func TestSimplifyMergesNamespaces(t *testing.T) {
	doc := NewDocument("a.d.ts")

	first := NewNamespace("Polymer")
	first.Members = append(first.Members, NewClass("A"))
	inner := NewNamespace("Inner")
	inner.Members = append(inner.Members, NewFunction("f"))
	first.Members = append(first.Members, inner)

	second := NewNamespace("Polymer")
	second.Description = "The Polymer namespace."
	second.Members = append(second.Members, NewClass("B"))
	inner2 := NewNamespace("Inner")
	inner2.Members = append(inner2.Members, NewFunction("g"))
	second.Members = append(second.Members, inner2)

	doc.Members = []Node{first, NewInterface("Other"), second}
	Simplify(doc)

	if len(doc.Members) != 2 {
		t.Fatalf("expected 2 root members, got %d", len(doc.Members))
	}
	ns := doc.Members[0].(*Namespace)
	if ns.Description != "The Polymer namespace." {
		t.Errorf("Description = %q", ns.Description)
	}
	var names []string
	for _, m := range ns.Members {
		names = append(names, m.Ident())
	}
	want := []string{"A", "Inner", "B"}
	if len(names) != len(want) {
		t.Fatalf("members = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("members = %v, want %v", names, want)
			break
		}
	}
	merged := ns.Members[1].(*Namespace)
	if len(merged.Members) != 2 {
		t.Errorf("inner namespace has %d members, want 2", len(merged.Members))
	}
}

func TestSimplifyMergesTagMaps(t *testing.T) {
	doc := NewDocument("a.d.ts")
	m1 := NewInterface(TagNameMap)
	m1.Properties = []*Property{{Name: "a-el", Type: Name("A")}}
	m2 := NewInterface(TagNameMap)
	m2.Properties = []*Property{{Name: "b-el", Type: Name("B")}, {Name: "a-el", Type: Name("A2")}}
	doc.Members = []Node{m1, NewClass("X"), m2}

	Simplify(doc)

	if len(doc.Members) != 2 {
		t.Fatalf("expected 2 root members, got %d", len(doc.Members))
	}
	tagMap := doc.Members[0].(*Interface)
	if len(tagMap.Properties) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(tagMap.Properties))
	}
	if tagMap.Properties[0].Type.String() != "A" || tagMap.Properties[1].Name != "b-el" {
		t.Errorf("unexpected tag map properties: %+v", tagMap.Properties)
	}
}

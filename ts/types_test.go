package ts

import "testing"

func TestTypeString(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		want string
	}{
		{"name", Name("string"), "string"},
		{"array", Array(Name("string")), "string[]"},
		{"array of union", Array(Union(Name("string"), Name("number"))), "(string|number)[]"},
		{"union", Union(Name("Foo"), NullType, UndefinedType), "Foo|null|undefined"},
		{
			"function",
			Func([]Param{
				{Name: "p0", Type: Name("string")},
				{Name: "p1", Type: Name("number"), Optional: true},
				{Name: "p2", Type: Array(AnyType), Rest: true},
			}, Name("boolean")),
			"(p0: string, p1?: number, ...p2: any[]) => boolean",
		},
		{"union with function", Union(Func(nil, Name("void")), NullType), "(() => void)|null"},
		{"generic", Generic("Map", Name("string"), Array(Name("Foo"))), "Map<string, Foo[]>"},
		{"index", Index(Name("string"), Name("number")), "{[key: string]: number}"},
		{
			"record",
			Record(RecordField{Name: "a", Type: Name("number")}, RecordField{Name: "b-c", Type: AnyType}),
			`{a: number, "b-c": any}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	a := Union(Array(Name("Foo")), Generic("Promise", Name("T")))
	b := Union(Array(Name("Foo")), Generic("Promise", Name("T")))
	if !Equal(a, b) {
		t.Errorf("Equal(%s, %s) = false, want true", a, b)
	}

	c := Union(Array(Name("Foo")), Generic("Promise", Name("U")))
	if Equal(a, c) {
		t.Errorf("Equal(%s, %s) = true, want false", a, c)
	}

	if Equal(Name("string"), Array(Name("string"))) {
		t.Error("Equal(name, array) = true, want false")
	}
	if !Equal(nil, nil) {
		t.Error("Equal(nil, nil) = false, want true")
	}
}

func TestUnionCopiesMembers(t *testing.T) {
	members := []Type{Name("a"), Name("b")}
	u := Union(members...)
	members[0] = Name("changed")
	if got := u.String(); got != "a|b" {
		t.Errorf("union changed after caller mutation: %q", got)
	}
}

func TestUnionPanicsOnSingleMember(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for single-member union")
		}
	}()
	Union(Name("a"))
}

func TestPropertyName(t *testing.T) {
	tests := map[string]string{
		"foo":       "foo",
		"_private$": "_private$",
		"my-widget": `"my-widget"`,
		"1st":       `"1st"`,
	}
	for in, want := range tests {
		if got := PropertyName(in); got != want {
			t.Errorf("PropertyName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestReferenceSet(t *testing.T) {
	doc := NewDocument("src/a.d.ts")
	doc.AddReference("src/b.d.ts")
	doc.AddReference("src/b.d.ts")
	if got := len(doc.References()); got != 1 {
		t.Fatalf("len(References()) = %d, want 1", got)
	}

	doc.RemoveReference("src/missing.d.ts")
	if got := len(doc.References()); got != 1 {
		t.Fatalf("len(References()) after removing absent path = %d, want 1", got)
	}

	doc.AddReference("lib/a.d.ts")
	refs := doc.References()
	if refs[0] != "lib/a.d.ts" || refs[1] != "src/b.d.ts" {
		t.Errorf("References() = %v, want sorted", refs)
	}

	doc.RemoveReference("src/b.d.ts")
	if doc.HasReference("src/b.d.ts") {
		t.Error("reference still present after removal")
	}
}

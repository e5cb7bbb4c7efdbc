package format

import (
	"bytes"
	"strings"
	"testing"

	"github.com/4STO2NED0/gen-typescript-declarations/ts"
)

const header = `/**
 * DO NOT EDIT
 *
 * This file was automatically generated by
 *   gen-tsd
 *
 * To modify these typings, edit the source file(s):
 *   src/a.html
 */
`

func encode(t *testing.T, doc *ts.Document) string {
	t.Helper()
	var buf bytes.Buffer
	if err := NewDeclarationEncoder(&buf).Encode(doc); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return buf.String()
}

func TestEncodeEmptyDocument(t *testing.T) {
	doc := ts.NewDocument("src/a.d.ts")
	doc.AddSource("src/a.html")

	got := encode(t, doc)
	if got != header {
		t.Errorf("got\n%s\nwant\n%s", got, header)
	}
}

func TestEncodeDocument(t *testing.T) {
	doc := ts.NewDocument("src/a.d.ts")
	doc.AddSource("src/a.html")
	doc.AddReference("src/b.d.ts")
	doc.AddReference("../polymer/polymer.d.ts")

	goFn := ts.NewMethod("go")
	goFn.Description = "Go."
	goFn.Params = []ts.Param{{Name: "a", Type: ts.Name("string"), Description: "the a"}}
	goFn.Returns = ts.Name("void")
	goFn.ReturnsDescription = "nothing"

	foo := ts.NewClass("Foo")
	foo.Description = "A foo."
	foo.Extends = "Polymer.Element"
	foo.Mixins = []string{"Polymer.M"}
	foo.Properties = []*ts.Property{{Name: "count", Type: ts.Name("number"), Description: "How many."}}
	foo.Methods = []*ts.Method{goFn}

	mixin := ts.NewMixin("M")
	mixin.Interfaces = []string{"Polymer.M"}
	mixinIface := ts.NewInterface("M")
	mixinIface.Properties = []*ts.Property{{Name: "x", Type: ts.Name("string")}}

	ns := ts.NewNamespace("Polymer")
	ns.Description = "The namespace."
	ns.Members = []ts.Node{foo, mixin, mixinIface}

	f := ts.NewFunction("f")
	f.Params = []ts.Param{{Name: "a", Type: ts.Name("number")}}

	tags := ts.NewInterface(ts.TagNameMap)
	tags.Properties = []*ts.Property{{Name: "my-widget", Type: ts.Name("Polymer.Foo")}}

	doc.Members = []ts.Node{ns, f, tags}

	want := header + `
/// <reference path="../../polymer/polymer.d.ts" />
/// <reference path="b.d.ts" />

/**
 * The namespace.
 */
declare namespace Polymer {

  /**
   * A foo.
   */
  class Foo extends Polymer.M(Polymer.Element) {
    /**
     * How many.
     */
    count: number;

    /**
     * Go.
     *
     * @param a the a
     * @returns nothing
     */
    go(a: string): void;
  }

  function M<T extends new (...args: any[]) => {}>(base: T): T & MConstructor;

  interface MConstructor {
    new(...args: any[]): Polymer.M;
  }

  interface M {
    x: string;
  }
}

declare function f(a: number): any;

interface HTMLElementTagNameMap {
  "my-widget": Polymer.Foo;
}
`
	got := encode(t, doc)
	if got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	doc := ts.NewDocument("a.d.ts")
	doc.AddSource("a.html")
	for _, r := range []string{"z.d.ts", "m.d.ts", "a/b.d.ts", "../x/x.d.ts"} {
		doc.AddReference(r)
	}
	doc.Members = []ts.Node{ts.NewClass("A"), ts.NewFunction("b")}

	first := encode(t, doc)
	for i := 0; i < 5; i++ {
		if got := encode(t, doc); got != first {
			t.Fatalf("encoding %d differs:\n%s\nvs\n%s", i, got, first)
		}
	}
}

func TestClassHeritage(t *testing.T) {
	tests := []struct {
		extends string
		mixins  []string
		want    string
	}{
		{"", nil, ""},
		{"Base", nil, "Base"},
		{"", []string{"M"}, "M(Object)"},
		{"Base", []string{"M1", "M2"}, "M2(M1(Base))"},
	}
	for _, tt := range tests {
		if got := classHeritage(tt.extends, tt.mixins); got != tt.want {
			t.Errorf("classHeritage(%q, %v) = %q, want %q", tt.extends, tt.mixins, got, tt.want)
		}
	}
}

func TestRelativeReference(t *testing.T) {
	tests := []struct {
		doc, ref, want string
	}{
		{"a.d.ts", "b.d.ts", "b.d.ts"},
		{"src/a.d.ts", "src/b.d.ts", "b.d.ts"},
		{"src/a.d.ts", "lib/b.d.ts", "../lib/b.d.ts"},
		{"a.d.ts", "../polymer/polymer.d.ts", "../polymer/polymer.d.ts"},
		{"src/deep/a.d.ts", "../polymer/polymer.d.ts", "../../../polymer/polymer.d.ts"},
	}
	for _, tt := range tests {
		if got := relativeReference(tt.doc, tt.ref); got != tt.want {
			t.Errorf("relativeReference(%q, %q) = %q, want %q", tt.doc, tt.ref, got, tt.want)
		}
	}
}

func TestCommentEscaping(t *testing.T) {
	doc := ts.NewDocument("a.d.ts")
	fn := ts.NewFunction("f")
	fn.Description = "Ends a comment */ early.\n\nSecond paragraph.  "
	doc.Members = []ts.Node{fn}

	got := encode(t, doc)
	want := `/**
 * Ends a comment *\/ early.
 *
 * Second paragraph.
 */
declare function f(): any;
`
	if !strings.HasSuffix(got, want) {
		t.Errorf("got\n%s\nwant suffix\n%s", got, want)
	}
}

func TestStaticAndReadOnlyMembers(t *testing.T) {
	c := ts.NewClass("C")
	c.Properties = []*ts.Property{{Name: "VERSION", Type: ts.Name("string"), Static: true, ReadOnly: true}}
	m := ts.NewMethod("create")
	m.Static = true
	m.Returns = ts.Name("C")
	c.Methods = []*ts.Method{m}
	doc := ts.NewDocument("c.d.ts")
	doc.Members = []ts.Node{c}

	want := `declare class C {
  static readonly VERSION: string;

  static create(): C;
}
`
	if got := encode(t, doc); !strings.HasSuffix(got, want) {
		t.Errorf("got\n%s\nwant suffix\n%s", got, want)
	}
}

func TestEncodeMembers(t *testing.T) {
	fn := ts.NewFunction("f")
	ns := ts.NewNamespace("N")
	ns.Members = []ts.Node{ts.NewClass("C")}

	got := EncodeMembers([]ts.Node{fn, ns})
	want := `declare function f(): any;

declare namespace N {

  class C {
  }
}
`
	if got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

package ts

import (
	"sort"
	"strings"
)

// Node is a declaration that can be a member of a Document or Namespace.
type Node interface {
	Ident() string

	node()
}

// Document is the root of one declaration file.
type Document struct {
	Path    string   // declaration file path, relative to the project root
	Sources []string // source files the declarations were generated from
	Members []Node

	references map[string]struct{}
}

// NewDocument returns an empty document for the declaration file at path.
func NewDocument(path string) *Document {
	return &Document{Path: path, references: make(map[string]struct{})}
}

// AddReference records a dependency on another declaration file. Paths are
// relative to the project root; adding the same path twice is a no-op.
func (d *Document) AddReference(path string) {
	if d.references == nil {
		d.references = make(map[string]struct{})
	}
	d.references[path] = struct{}{}
}

// RemoveReference drops a dependency. Removing an absent path is a no-op.
func (d *Document) RemoveReference(path string) {
	delete(d.references, path)
}

func (d *Document) HasReference(path string) bool {
	_, ok := d.references[path]
	return ok
}

// References returns the reference set in sorted order.
func (d *Document) References() []string {
	refs := make([]string, 0, len(d.references))
	for r := range d.references {
		refs = append(refs, r)
	}
	sort.Strings(refs)
	return refs
}

// AddSource records an originating source file, ignoring duplicates.
func (d *Document) AddSource(source string) {
	for _, s := range d.Sources {
		if s == source {
			return
		}
	}
	d.Sources = append(d.Sources, source)
}

type Namespace struct {
	Name        string
	Description string
	Members     []Node
}

func NewNamespace(name string) *Namespace {
	return &Namespace{Name: name}
}

func (n *Namespace) Ident() string { return n.Name }
func (*Namespace) node()           {}

// Class is a constructable declaration. Mixins are applied to Extends in
// order, the last mixin being outermost.
type Class struct {
	Name          string
	Description   string
	Extends       string
	Mixins        []string
	TemplateTypes []string
	Properties    []*Property
	Methods       []*Method
}

func NewClass(name string) *Class {
	return &Class{Name: name}
}

func (c *Class) Ident() string { return c.Name }
func (*Class) node()           {}

type Interface struct {
	Name        string
	Description string
	Extends     []string
	Properties  []*Property
	Methods     []*Method
}

func NewInterface(name string) *Interface {
	return &Interface{Name: name}
}

func (i *Interface) Ident() string { return i.Name }
func (*Interface) node()           {}

// Mixin is the value-space half of a mixin: a function that applies the
// mixin to a base class. The type-space half is an Interface with the same
// name, declared next to it. Interfaces lists the instance types the mixin
// produces: the mixin itself followed by the mixins it applies.
type Mixin struct {
	Name        string
	Description string
	Interfaces  []string
}

func NewMixin(name string) *Mixin {
	return &Mixin{Name: name}
}

func (m *Mixin) Ident() string { return m.Name }
func (*Mixin) node()           {}

type Function struct {
	Name               string
	Description        string
	TemplateTypes      []string
	Params             []Param
	Returns            Type
	ReturnsDescription string
}

func NewFunction(name string) *Function {
	return &Function{Name: name, Returns: AnyType}
}

func (f *Function) Ident() string { return f.Name }
func (*Function) node()           {}

// Signature renders name, template types, parameters and return type,
// e.g. "foo<T>(a: T, b?: string): void".
func (f *Function) Signature() string {
	var sb strings.Builder
	sb.WriteString(f.Name)
	if len(f.TemplateTypes) > 0 {
		sb.WriteString("<")
		sb.WriteString(strings.Join(f.TemplateTypes, ", "))
		sb.WriteString(">")
	}
	sb.WriteString("(")
	sb.WriteString(FormatParams(f.Params))
	sb.WriteString("): ")
	if f.Returns == nil {
		sb.WriteString(AnyType.String())
	} else {
		sb.WriteString(f.Returns.String())
	}
	return sb.String()
}

// Method is a function member of a class or interface.
type Method struct {
	Function
	Static bool
}

func NewMethod(name string) *Method {
	return &Method{Function: Function{Name: name, Returns: AnyType}}
}

type Property struct {
	Name        string
	Description string
	Type        Type
	ReadOnly    bool
	Static      bool
}

type Param struct {
	Name        string
	Type        Type
	Optional    bool
	Rest        bool
	Description string
}

func (p Param) String() string {
	var sb strings.Builder
	if p.Rest {
		sb.WriteString("...")
	}
	sb.WriteString(p.Name)
	if p.Optional && !p.Rest {
		sb.WriteString("?")
	}
	sb.WriteString(": ")
	if p.Type == nil {
		sb.WriteString(AnyType.String())
	} else {
		sb.WriteString(p.Type.String())
	}
	return sb.String()
}

// Walk calls fn for every member of doc, depth first, in declaration order.
// Namespaces are visited before their members; returning false from fn
// skips a namespace's members.
func Walk(doc *Document, fn func(n Node) bool) {
	walkMembers(doc.Members, fn)
}

func walkMembers(members []Node, fn func(n Node) bool) {
	for _, m := range members {
		if !fn(m) {
			continue
		}
		if ns, ok := m.(*Namespace); ok {
			walkMembers(ns.Members, fn)
		}
	}
}

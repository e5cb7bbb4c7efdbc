package format

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/4STO2NED0/gen-typescript-declarations/ts"
)

// Generator is the program name written into file headers.
const Generator = "gen-tsd"

const mixinConstraint = "T extends new (...args: any[]) => {}"

// DeclarationEncoder renders a document as a TypeScript declaration file.
type DeclarationEncoder struct {
	w   io.Writer
	doc *ts.Document

	buf    bytes.Buffer
	indent int
}

func NewDeclarationEncoder(w io.Writer) *DeclarationEncoder {
	return &DeclarationEncoder{w: w}
}

func (e *DeclarationEncoder) Encode(doc *ts.Document) error {
	e.doc = doc
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *DeclarationEncoder) MarshalText() ([]byte, error) {
	if e.doc == nil {
		return nil, fmt.Errorf("marshal declarations: no document")
	}
	e.buf.Reset()
	e.indent = 0

	e.printHeader()
	if refs := e.doc.References(); len(refs) > 0 {
		e.blank()
		for _, ref := range refs {
			e.line("/// <reference path=%q />", relativeReference(e.doc.Path, ref))
		}
	}
	for _, m := range e.doc.Members {
		e.blank()
		e.printNode(m, true)
	}

	out := make([]byte, e.buf.Len())
	copy(out, e.buf.Bytes())
	return out, nil
}

// EncodeMembers renders nodes as they appear at the root of a declaration
// file, without the header and references.
func EncodeMembers(nodes []ts.Node) string {
	e := &DeclarationEncoder{}
	for i, n := range nodes {
		if i > 0 {
			e.blank()
		}
		e.printNode(n, true)
	}
	return e.buf.String()
}

func (e *DeclarationEncoder) printHeader() {
	e.line("/**")
	e.line(" * DO NOT EDIT")
	e.line(" *")
	e.line(" * This file was automatically generated by")
	e.line(" *   %s", Generator)
	e.line(" *")
	e.line(" * To modify these typings, edit the source file(s):")
	for _, src := range e.doc.Sources {
		e.line(" *   %s", src)
	}
	e.line(" */")
}

// relativeReference turns a root-relative reference into one relative to the
// directory of the document at docPath.
func relativeReference(docPath, ref string) string {
	dir := path.Dir(docPath)
	rel, err := filepath.Rel(filepath.FromSlash(dir), filepath.FromSlash(ref))
	if err != nil {
		return ref
	}
	return filepath.ToSlash(rel)
}

func (e *DeclarationEncoder) printNode(n ts.Node, root bool) {
	switch n := n.(type) {
	case *ts.Namespace:
		e.printNamespace(n, root)
	case *ts.Class:
		e.printClass(n, root)
	case *ts.Interface:
		e.printInterface(n)
	case *ts.Mixin:
		e.printMixin(n, root)
	case *ts.Function:
		e.printFunction(n, root)
	}
}

func declare(root bool) string {
	if root {
		return "declare "
	}
	return ""
}

func (e *DeclarationEncoder) printNamespace(ns *ts.Namespace, root bool) {
	e.printComment(ns.Description, nil, "")
	e.line("%snamespace %s {", declare(root), ns.Name)
	e.indent++
	for _, m := range ns.Members {
		e.blank()
		e.printNode(m, false)
	}
	e.indent--
	e.line("}")
}

func (e *DeclarationEncoder) printClass(c *ts.Class, root bool) {
	e.printComment(c.Description, nil, "")
	var sb strings.Builder
	sb.WriteString(declare(root))
	sb.WriteString("class ")
	sb.WriteString(c.Name)
	sb.WriteString(templateList(c.TemplateTypes))
	if ext := classHeritage(c.Extends, c.Mixins); ext != "" {
		sb.WriteString(" extends ")
		sb.WriteString(ext)
	}
	sb.WriteString(" {")
	e.line("%s", sb.String())
	e.printBody(c.Properties, c.Methods)
	e.line("}")
}

// classHeritage applies mixins to the superclass in order, so the last mixin
// is outermost: M2(M1(Base)).
func classHeritage(extends string, mixins []string) string {
	if len(mixins) == 0 {
		return extends
	}
	base := extends
	if base == "" {
		base = "Object"
	}
	for _, m := range mixins {
		base = m + "(" + base + ")"
	}
	return base
}

func (e *DeclarationEncoder) printInterface(i *ts.Interface) {
	e.printComment(i.Description, nil, "")
	header := "interface " + i.Name
	if len(i.Extends) > 0 {
		header += " extends " + strings.Join(i.Extends, ", ")
	}
	e.line("%s {", header)
	e.printBody(i.Properties, i.Methods)
	e.line("}")
}

func (e *DeclarationEncoder) printBody(props []*ts.Property, methods []*ts.Method) {
	e.indent++
	first := true
	sep := func() {
		if !first {
			e.blank()
		}
		first = false
	}
	for _, p := range props {
		sep()
		e.printProperty(p)
	}
	for _, m := range methods {
		sep()
		e.printComment(m.Description, m.Params, m.ReturnsDescription)
		prefix := ""
		if m.Static {
			prefix = "static "
		}
		e.line("%s%s;", prefix, m.Signature())
	}
	e.indent--
}

func (e *DeclarationEncoder) printProperty(p *ts.Property) {
	e.printComment(p.Description, nil, "")
	var sb strings.Builder
	if p.Static {
		sb.WriteString("static ")
	}
	if p.ReadOnly {
		sb.WriteString("readonly ")
	}
	sb.WriteString(ts.PropertyName(p.Name))
	sb.WriteString(": ")
	if p.Type == nil {
		sb.WriteString(ts.AnyType.String())
	} else {
		sb.WriteString(p.Type.String())
	}
	sb.WriteString(";")
	e.line("%s", sb.String())
}

func (e *DeclarationEncoder) printFunction(f *ts.Function, root bool) {
	e.printComment(f.Description, f.Params, f.ReturnsDescription)
	e.line("%sfunction %s;", declare(root), f.Signature())
}

// printMixin renders a mixin as a function from a constructor to a
// constructor producing instances of the mixin's interfaces.
func (e *DeclarationEncoder) printMixin(m *ts.Mixin, root bool) {
	ctor := m.Name + "Constructor"
	e.printComment(m.Description, nil, "")
	e.line("%sfunction %s<%s>(base: T): T & %s;", declare(root), m.Name, mixinConstraint, ctor)
	e.blank()

	instance := "object"
	if len(m.Interfaces) > 0 {
		instance = strings.Join(m.Interfaces, " & ")
	}
	e.line("interface %s {", ctor)
	e.indent++
	e.line("new(...args: any[]): %s;", instance)
	e.indent--
	e.line("}")
}

func templateList(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return "<" + strings.Join(names, ", ") + ">"
}

func (e *DeclarationEncoder) line(format string, args ...any) {
	for i := 0; i < e.indent; i++ {
		e.buf.WriteString("  ")
	}
	fmt.Fprintf(&e.buf, format, args...)
	e.buf.WriteByte('\n')
}

func (e *DeclarationEncoder) blank() {
	e.buf.WriteByte('\n')
}

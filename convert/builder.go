package convert

import (
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/tliron/commonlog"

	"github.com/4STO2NED0/gen-typescript-declarations/analysis"
	"github.com/4STO2NED0/gen-typescript-declarations/ts"
)

var log = commonlog.GetLogger("gen-tsd.convert")

const (
	// PolymerElement is the base class of framework elements.
	PolymerElement = "Polymer.Element"
	// HTMLElement is the base class of other custom elements.
	HTMLElement = "HTMLElement"
)

// Diagnostic codes.
const (
	CodeUnnamed = "unnamed-feature"
)

// Skip reasons recorded in Stats.Skipped.
const (
	SkipPrivate       = "private"
	SkipUnnamed       = "unnamed"
	SkipUnknownKind   = "unknown-kind"
	SkipInboundImport = "inbound-import"
)

// Diagnostic is a non-fatal problem found while building a document.
type Diagnostic struct {
	Code    string
	Message string
	Range   analysis.SourceRange
}

func (d Diagnostic) String() string {
	if d.Range.File == "" {
		return d.Message
	}
	return fmt.Sprintf("%s:%d:%d: %s", d.Range.File, d.Range.Start.Line+1, d.Range.Start.Column+1, d.Message)
}

// Stats counts what happened to the features of one document.
type Stats struct {
	Features  map[string]int // emitted features by kind
	Skipped   map[string]int // skipped features by reason
	Fallbacks int            // annotations that could not be parsed
}

type Options struct {
	// StagedDirs are rewritten to sibling-package paths in references.
	// DefaultStagedDirs is used when nil.
	StagedDirs []string
}

// Result is the output of building one compilation unit.
type Result struct {
	Document    *ts.Document
	Diagnostics []Diagnostic
	Stats       Stats
}

// Builder assembles the declaration tree of one compilation unit. It is not
// safe for concurrent use; build separate units with separate builders.
type Builder struct {
	unit *analysis.Document
	opts Options
	doc  *ts.Document

	// namespaces is keyed by dotted path, e.g. "Polymer.Templatizer".
	namespaces  map[string]*ts.Namespace
	tagMap      *ts.Interface
	diagnostics []Diagnostic
	stats       Stats
}

func NewBuilder(unit *analysis.Document, opts Options) *Builder {
	if opts.StagedDirs == nil {
		opts.StagedDirs = DefaultStagedDirs
	}
	doc := ts.NewDocument(DeclarationFilename(unit.URL))
	doc.AddSource(unit.URL)
	return &Builder{
		unit:       unit,
		opts:       opts,
		doc:        doc,
		namespaces: make(map[string]*ts.Namespace),
		stats: Stats{
			Features: make(map[string]int),
			Skipped:  make(map[string]int),
		},
	}
}

// Build converts every feature of unit.
func Build(unit *analysis.Document, opts Options) *Result {
	b := NewBuilder(unit, opts)
	for _, f := range unit.Features {
		b.Add(f)
	}
	return b.Result()
}

func (b *Builder) Result() *Result {
	return &Result{Document: b.doc, Diagnostics: b.diagnostics, Stats: b.stats}
}

// Add converts one feature and inserts its declarations.
func (b *Builder) Add(f *analysis.Feature) {
	if f == nil {
		return
	}
	kind := classify(f)
	var handled bool
	switch kind {
	case symbolPrivate:
		b.skip(f, SkipPrivate)
	case symbolElement:
		handled = b.addElement(f)
	case symbolBehavior:
		handled = b.addBehavior(f)
	case symbolMixin:
		handled = b.addMixin(f)
	case symbolClass:
		handled = b.addClass(f)
	case symbolFunction:
		handled = b.addFunction(f)
	case symbolNamespace:
		handled = b.addNamespace(f)
	case symbolImport:
		handled = b.addImport(f)
	default:
		b.skip(f, SkipUnknownKind)
	}
	if handled {
		b.stats.Features[kind.String()]++
	}
}

func (b *Builder) addElement(f *analysis.Feature) bool {
	polymer := f.HasKind(analysis.KindPolymerElement)
	var fullName string

	switch {
	case f.ClassName != "":
		path, short := splitReference(f.ClassName)
		c := ts.NewClass(short)
		c.Description = f.Doc()
		c.Extends = f.SuperClass
		if c.Extends == "" {
			if polymer {
				c.Extends = PolymerElement
			} else {
				c.Extends = HTMLElement
			}
		}
		c.Mixins = append([]string(nil), f.Mixins...)
		c.TemplateTypes = append([]string(nil), f.TemplateTypes...)
		c.Properties = b.properties(f.Properties, f.TemplateTypes, true)
		c.Methods = b.methods(f.Methods, f.TemplateTypes, true)
		b.insert(path, c)
		if polymer && len(f.Behaviors) > 0 {
			// A class can extend only one base, so behaviors go on an
			// interface that merges with the class.
			i := ts.NewInterface(short)
			i.Extends = append([]string(nil), f.Behaviors...)
			b.insert(path, i)
		}
		fullName = f.ClassName

	case f.TagName != "":
		// Tag-only elements have no namespace, so their interface lives at
		// the root of the document.
		i := ts.NewInterface(strcase.ToCamel(f.TagName))
		i.Description = f.Doc()
		if polymer {
			i.Extends = append([]string{PolymerElement}, f.Behaviors...)
		}
		i.Properties = b.properties(f.Properties, f.TemplateTypes, false)
		i.Methods = b.methods(f.Methods, f.TemplateTypes, false)
		b.insert(nil, i)
		fullName = i.Name

	default:
		b.unnamed(f, "element")
		return false
	}

	if f.TagName != "" {
		b.registerTag(f.TagName, fullName)
	}
	return true
}

// registerTag adds tag to the root HTMLElementTagNameMap interface.
func (b *Builder) registerTag(tag, typeName string) {
	if b.tagMap == nil {
		b.tagMap = ts.NewInterface(ts.TagNameMap)
		b.doc.Members = append(b.doc.Members, b.tagMap)
	}
	b.tagMap.Properties = append(b.tagMap.Properties, &ts.Property{
		Name: tag,
		Type: ts.Name(typeName),
	})
}

func (b *Builder) addBehavior(f *analysis.Feature) bool {
	name := f.DisplayName()
	if name == "" {
		b.unnamed(f, "behavior")
		return false
	}
	path, short := splitReference(name)
	i := ts.NewInterface(short)
	i.Description = f.Doc()
	i.Properties = b.properties(f.Properties, f.TemplateTypes, false)
	i.Methods = b.methods(f.Methods, f.TemplateTypes, false)
	b.insert(path, i)
	return true
}

// addMixin emits a mixin function and an interface with the same name. The
// function lives in value space and the interface in type space, so the
// names do not collide.
func (b *Builder) addMixin(f *analysis.Feature) bool {
	name := f.DisplayName()
	if name == "" {
		b.unnamed(f, "mixin")
		return false
	}
	path, short := splitReference(name)

	m := ts.NewMixin(short)
	m.Description = f.Doc()
	m.Interfaces = append([]string{name}, f.Mixins...)

	i := ts.NewInterface(short)
	i.Description = f.Doc()
	i.Properties = b.properties(f.Properties, f.TemplateTypes, false)
	i.Methods = b.methods(f.Methods, f.TemplateTypes, false)

	b.insert(path, m)
	b.insert(path, i)
	return true
}

func (b *Builder) addClass(f *analysis.Feature) bool {
	name := f.DisplayName()
	if name == "" {
		b.unnamed(f, "class")
		return false
	}
	path, short := splitReference(name)
	c := ts.NewClass(short)
	c.Description = f.Doc()
	c.Extends = f.SuperClass
	c.Mixins = append([]string(nil), f.Mixins...)
	c.TemplateTypes = append([]string(nil), f.TemplateTypes...)
	c.Properties = b.properties(f.Properties, f.TemplateTypes, true)
	c.Methods = b.methods(f.Methods, f.TemplateTypes, true)
	b.insert(path, c)
	return true
}

func (b *Builder) addFunction(f *analysis.Feature) bool {
	name := f.DisplayName()
	if name == "" {
		b.unnamed(f, "function")
		return false
	}
	path, short := splitReference(name)
	fn := ts.NewFunction(short)
	fn.Description = f.Doc()
	fn.TemplateTypes = append([]string(nil), f.TemplateTypes...)
	fn.Params = b.params(f.Params, f.TemplateTypes)
	fn.Returns, fn.ReturnsDescription = b.returns(f.Return, f.TemplateTypes)
	b.insert(path, fn)
	return true
}

func (b *Builder) addNamespace(f *analysis.Feature) bool {
	name := f.DisplayName()
	if name == "" {
		b.unnamed(f, "namespace")
		return false
	}
	ns := b.namespace(strings.Split(name, "."))
	if doc := f.Doc(); doc != "" {
		ns.Description = doc
	}
	return true
}

// addImport records an outbound dependency of this unit. The analyzer also
// lists imports of this unit made by other units; those are ignored.
func (b *Builder) addImport(f *analysis.Feature) bool {
	if f.SourceRange.File != b.unit.URL {
		b.skip(f, SkipInboundImport)
		return false
	}
	if f.URL == "" {
		b.unnamed(f, "import")
		return false
	}
	ref := unstage(DeclarationFilename(f.URL), b.opts.StagedDirs)
	if ref == b.doc.Path {
		return false
	}
	b.doc.AddReference(ref)
	return true
}

// insert appends n to the container at path, creating namespaces as needed.
func (b *Builder) insert(path []string, n ts.Node) {
	if len(path) == 0 {
		b.doc.Members = append(b.doc.Members, n)
		return
	}
	ns := b.namespace(path)
	ns.Members = append(ns.Members, n)
}

// namespace returns the namespace at path, creating it and any missing
// ancestors in order.
func (b *Builder) namespace(path []string) *ts.Namespace {
	parent := &b.doc.Members
	var ns *ts.Namespace
	for i, segment := range path {
		key := strings.Join(path[:i+1], ".")
		existing, ok := b.namespaces[key]
		if !ok {
			existing = ts.NewNamespace(segment)
			*parent = append(*parent, existing)
			b.namespaces[key] = existing
		}
		ns = existing
		parent = &ns.Members
	}
	return ns
}

func (b *Builder) properties(in []analysis.Property, templates []string, allowStatic bool) []*ts.Property {
	var out []*ts.Property
	for _, p := range in {
		if p.InheritedFrom != "" || p.Privacy == analysis.PrivacyPrivate {
			continue
		}
		if p.Static && !allowStatic {
			continue
		}
		out = append(out, &ts.Property{
			Name:        p.Name,
			Description: p.Description,
			Type:        b.translate(p.Type, templates),
			ReadOnly:    p.ReadOnly,
			Static:      p.Static,
		})
	}
	return out
}

func (b *Builder) methods(in []analysis.Method, templates []string, allowStatic bool) []*ts.Method {
	var out []*ts.Method
	for _, m := range in {
		if m.InheritedFrom != "" || m.Privacy == analysis.PrivacyPrivate {
			continue
		}
		if m.Static && !allowStatic {
			continue
		}
		scope := append(append([]string(nil), templates...), m.TemplateTypes...)

		method := ts.NewMethod(m.Name)
		method.Description = m.Description
		method.Static = m.Static
		method.TemplateTypes = append([]string(nil), m.TemplateTypes...)
		method.Params = b.params(m.Params, scope)
		method.Returns, method.ReturnsDescription = b.returns(m.Return, scope)
		out = append(out, method)
	}
	return out
}

// params translates a parameter list right to left. A parameter with a
// default value is optional only when no required parameter follows it;
// otherwise its type is widened with undefined instead, since an optional
// parameter may not precede a required one. The same applies to parameters
// annotated optional.
func (b *Builder) params(in []analysis.Param, templates []string) []ts.Param {
	if len(in) == 0 {
		return nil
	}
	out := make([]ts.Param, len(in))
	requiredAhead := false
	for i := len(in) - 1; i >= 0; i-- {
		p := in[i]
		r, ok := Param(p.Type, templates)
		if !ok {
			b.stats.Fallbacks++
		}

		rest := r.Rest || p.Rest
		optional := !rest && (r.Optional || p.DefaultValue != nil)
		typ := r.Type
		switch {
		case rest:
			if !ts.IsArray(typ) {
				typ = ts.Array(typ)
			}
		case optional && requiredAhead:
			optional = false
			typ = ts.Union(typ, ts.UndefinedType)
		case !optional:
			requiredAhead = true
		}

		out[i] = ts.Param{
			Name:        p.Name,
			Type:        typ,
			Optional:    optional,
			Rest:        rest,
			Description: p.Description,
		}
	}
	return out
}

func (b *Builder) returns(ret *analysis.Return, templates []string) (ts.Type, string) {
	if ret == nil {
		return ts.AnyType, ""
	}
	return b.translate(ret.Type, templates), ret.Desc
}

func (b *Builder) translate(annotation string, templates []string) ts.Type {
	t, ok := Type(annotation, templates)
	if !ok {
		b.stats.Fallbacks++
	}
	return t
}

func (b *Builder) skip(f *analysis.Feature, reason string) {
	b.stats.Skipped[reason]++
	log.Debugf("%s: skipping %s feature %q", b.unit.URL, reason, f.DisplayName())
}

func (b *Builder) unnamed(f *analysis.Feature, what string) {
	b.stats.Skipped[SkipUnnamed]++
	b.diagnostics = append(b.diagnostics, Diagnostic{
		Code:    CodeUnnamed,
		Message: fmt.Sprintf("could not find a name for %s", what),
		Range:   f.SourceRange,
	})
}

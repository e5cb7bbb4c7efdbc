// Package analysis holds the analyzer output consumed by the generator: a
// list of compilation units (documents), each with the features (symbols)
// discovered in it.
package analysis

// Feature kinds. A feature may carry several.
const (
	KindElement        = "element"
	KindPolymerElement = "polymer-element"
	KindBehavior       = "behavior"
	KindMixin          = "mixin"
	KindElementMixin   = "element-mixin"
	KindClass          = "class"
	KindFunction       = "function"
	KindNamespace      = "namespace"
	KindImport         = "import"
)

type Privacy string

const (
	PrivacyPublic    Privacy = "public"
	PrivacyProtected Privacy = "protected"
	PrivacyPrivate   Privacy = "private"
)

// Public reports whether p is public. An unset privacy is public.
func (p Privacy) Public() bool {
	return p == "" || p == PrivacyPublic
}

type Analysis struct {
	Documents []*Document `json:"documents"`
}

// Document is one compilation unit. URL is relative to the project root.
type Document struct {
	URL      string     `json:"url"`
	Features []*Feature `json:"features"`
}

type Feature struct {
	Kinds         []string    `json:"kinds"`
	Name          string      `json:"name,omitempty"`
	ClassName     string      `json:"className,omitempty"`
	TagName       string      `json:"tagName,omitempty"`
	Description   string      `json:"description,omitempty"`
	Summary       string      `json:"summary,omitempty"`
	Privacy       Privacy     `json:"privacy,omitempty"`
	SuperClass    string      `json:"superClass,omitempty"`
	Mixins        []string    `json:"mixins,omitempty"`
	Behaviors     []string    `json:"behaviors,omitempty"`
	TemplateTypes []string    `json:"templateTypes,omitempty"`
	Properties    []Property  `json:"properties,omitempty"`
	Methods       []Method    `json:"methods,omitempty"`
	Params        []Param     `json:"params,omitempty"`
	Return        *Return     `json:"return,omitempty"`
	URL           string      `json:"url,omitempty"` // resolved target of an import
	SourceRange   SourceRange `json:"sourceRange"`
}

// HasKind reports whether the feature carries kind.
func (f *Feature) HasKind(kind string) bool {
	for _, k := range f.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// DisplayName returns the most specific name the feature has, or "".
func (f *Feature) DisplayName() string {
	switch {
	case f.ClassName != "":
		return f.ClassName
	case f.Name != "":
		return f.Name
	default:
		return f.TagName
	}
}

// Doc returns the description, falling back to the summary.
func (f *Feature) Doc() string {
	if f.Description != "" {
		return f.Description
	}
	return f.Summary
}

type Property struct {
	Name          string  `json:"name"`
	Type          string  `json:"type,omitempty"`
	Description   string  `json:"description,omitempty"`
	Privacy       Privacy `json:"privacy,omitempty"`
	InheritedFrom string  `json:"inheritedFrom,omitempty"`
	ReadOnly      bool    `json:"readOnly,omitempty"`
	Static        bool    `json:"static,omitempty"`
}

type Method struct {
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Privacy       Privacy  `json:"privacy,omitempty"`
	InheritedFrom string   `json:"inheritedFrom,omitempty"`
	Static        bool     `json:"static,omitempty"`
	TemplateTypes []string `json:"templateTypes,omitempty"`
	Params        []Param  `json:"params,omitempty"`
	Return        *Return  `json:"return,omitempty"`
}

// Param is a method or function parameter. DefaultValue is nil when the
// parameter has no default; Rest is set when the analyzer knows the
// parameter is variadic regardless of its annotation.
type Param struct {
	Name         string  `json:"name"`
	Type         string  `json:"type,omitempty"`
	Description  string  `json:"description,omitempty"`
	DefaultValue *string `json:"defaultValue,omitempty"`
	Rest         bool    `json:"rest,omitempty"`
}

type Return struct {
	Type string `json:"type,omitempty"`
	Desc string `json:"desc,omitempty"`
}

type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Before reports whether p comes strictly before q.
func (p Position) Before(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Column < q.Column
}

// SourceRange locates a feature in its source file. Lines and columns are
// zero based; End is exclusive.
type SourceRange struct {
	File  string   `json:"file"`
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Contains reports whether pos lies within r.
func (r SourceRange) Contains(pos Position) bool {
	return !pos.Before(r.Start) && pos.Before(r.End)
}

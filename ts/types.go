// Package ts models TypeScript declaration files: type expressions and the
// declaration tree (documents, namespaces, classes, interfaces, mixins and
// functions).
package ts

import (
	"fmt"
	"regexp"
	"strings"
)

// TypeKind identifies the category of a type expression.
type TypeKind int

const (
	KindName TypeKind = iota
	KindArray
	KindUnion
	KindFunction
	KindGeneric
	KindIndex
	KindRecord
)

func (k TypeKind) String() string {
	switch k {
	case KindName:
		return "Name"
	case KindArray:
		return "Array"
	case KindUnion:
		return "Union"
	case KindFunction:
		return "Function"
	case KindGeneric:
		return "Generic"
	case KindIndex:
		return "Index"
	case KindRecord:
		return "Record"
	default:
		return "Unknown"
	}
}

// Type is a TypeScript type expression. Values are immutable once built;
// constructors copy the slices they are given.
type Type interface {
	Kind() TypeKind
	// String renders the type as TypeScript source.
	String() string

	sealed()
}

// NameType is a nominal reference: a builtin, a declared type or a type variable.
type NameType struct {
	Name string
}

func (NameType) Kind() TypeKind   { return KindName }
func (t NameType) String() string { return t.Name }
func (NameType) sealed()          {}

// ArrayType is a homogeneous array of Element.
type ArrayType struct {
	Element Type
}

func (ArrayType) Kind() TypeKind { return KindArray }
func (t ArrayType) String() string {
	return wrapComposite(t.Element) + "[]"
}
func (ArrayType) sealed() {}

// UnionType is an ordered union of at least two members. Members are kept in
// the order given; duplicates are removed only by Simplify.
type UnionType struct {
	Members []Type
}

func (UnionType) Kind() TypeKind { return KindUnion }
func (t UnionType) String() string {
	parts := make([]string, len(t.Members))
	for i, m := range t.Members {
		if m.Kind() == KindFunction {
			parts[i] = "(" + m.String() + ")"
		} else {
			parts[i] = m.String()
		}
	}
	return strings.Join(parts, "|")
}
func (UnionType) sealed() {}

// FunctionType is a function signature. New marks a constructor signature.
type FunctionType struct {
	Params  []Param
	Returns Type
	New     bool
}

func (FunctionType) Kind() TypeKind { return KindFunction }
func (t FunctionType) String() string {
	var sb strings.Builder
	if t.New {
		sb.WriteString("new ")
	}
	sb.WriteString("(")
	sb.WriteString(FormatParams(t.Params))
	sb.WriteString(") => ")
	if t.Returns == nil {
		sb.WriteString(AnyType.String())
	} else {
		sb.WriteString(t.Returns.String())
	}
	return sb.String()
}
func (FunctionType) sealed() {}

// GenericType is a type application such as Promise<T> or Map<K, V>.
type GenericType struct {
	Name string
	Args []Type
}

func (GenericType) Kind() TypeKind { return KindGeneric }
func (t GenericType) String() string {
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return t.Name + "<" + strings.Join(args, ", ") + ">"
}
func (GenericType) sealed() {}

// IndexType is an object used as a dictionary: {[key: K]: V}.
type IndexType struct {
	Key   Type
	Value Type
}

func (IndexType) Kind() TypeKind { return KindIndex }
func (t IndexType) String() string {
	return fmt.Sprintf("{[key: %s]: %s}", t.Key, t.Value)
}
func (IndexType) sealed() {}

// RecordType is an anonymous object type with named fields.
type RecordType struct {
	Fields []RecordField
}

type RecordField struct {
	Name string
	Type Type
}

func (RecordType) Kind() TypeKind { return KindRecord }
func (t RecordType) String() string {
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		parts[i] = PropertyName(f.Name) + ": " + f.Type.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (RecordType) sealed() {}

var (
	AnyType       Type = NameType{Name: "any"}
	UndefinedType Type = NameType{Name: "undefined"}
	NullType      Type = NameType{Name: "null"}
)

// Name returns a nominal reference.
func Name(name string) NameType {
	return NameType{Name: name}
}

// Array returns an array of element.
func Array(element Type) ArrayType {
	return ArrayType{Element: element}
}

// Union returns a union of members in the given order. It panics when given
// fewer than two members.
func Union(members ...Type) UnionType {
	if len(members) < 2 {
		panic(fmt.Sprintf("ts.Union: need at least 2 members, got %d", len(members)))
	}
	return UnionType{Members: append([]Type(nil), members...)}
}

// Func returns a function signature.
func Func(params []Param, returns Type) FunctionType {
	return FunctionType{Params: append([]Param(nil), params...), Returns: returns}
}

// Generic returns a type application.
func Generic(name string, args ...Type) GenericType {
	return GenericType{Name: name, Args: append([]Type(nil), args...)}
}

// Index returns a dictionary type.
func Index(key, value Type) IndexType {
	return IndexType{Key: key, Value: value}
}

// Record returns an object type with the given fields.
func Record(fields ...RecordField) RecordType {
	return RecordType{Fields: append([]RecordField(nil), fields...)}
}

// IsArray reports whether t is array shaped.
func IsArray(t Type) bool {
	return t != nil && t.Kind() == KindArray
}

// Equal reports whether a and b are structurally equal.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case NameType:
		return x.Name == b.(NameType).Name
	case ArrayType:
		return Equal(x.Element, b.(ArrayType).Element)
	case UnionType:
		y := b.(UnionType)
		return equalTypes(x.Members, y.Members)
	case FunctionType:
		y := b.(FunctionType)
		if x.New != y.New || len(x.Params) != len(y.Params) || !Equal(x.Returns, y.Returns) {
			return false
		}
		for i := range x.Params {
			p, q := x.Params[i], y.Params[i]
			if p.Name != q.Name || p.Optional != q.Optional || p.Rest != q.Rest || !Equal(p.Type, q.Type) {
				return false
			}
		}
		return true
	case GenericType:
		y := b.(GenericType)
		return x.Name == y.Name && equalTypes(x.Args, y.Args)
	case IndexType:
		y := b.(IndexType)
		return Equal(x.Key, y.Key) && Equal(x.Value, y.Value)
	case RecordType:
		y := b.(RecordType)
		if len(x.Fields) != len(y.Fields) {
			return false
		}
		for i := range x.Fields {
			if x.Fields[i].Name != y.Fields[i].Name || !Equal(x.Fields[i].Type, y.Fields[i].Type) {
				return false
			}
		}
		return true
	}
	return false
}

func equalTypes(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// FormatParams renders a parameter list without the surrounding parentheses.
func FormatParams(params []Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}

var identifierRE = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// PropertyName quotes name when it is not a valid identifier, e.g. a
// custom element tag such as "my-widget".
func PropertyName(name string) string {
	if identifierRE.MatchString(name) {
		return name
	}
	return fmt.Sprintf("%q", name)
}

func wrapComposite(t Type) string {
	switch t.Kind() {
	case KindUnion, KindFunction:
		return "(" + t.String() + ")"
	}
	return t.String()
}

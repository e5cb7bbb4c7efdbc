// Package convert turns analyzer features into TypeScript declarations: it
// translates Closure type annotations into ts.Type values and assembles the
// per-document declaration tree.
package convert

import (
	"strconv"
	"strings"

	"github.com/4STO2NED0/gen-typescript-declarations/closure"
	"github.com/4STO2NED0/gen-typescript-declarations/ts"
)

// Nullability markers ("?T", "!T") never widen a translated type. The
// analyzer's annotations use them inconsistently, so they are treated as
// documentation only.

// builtins maps Closure names to their TypeScript spelling.
var builtins = map[string]ts.Type{
	"String":    ts.Name("string"),
	"string":    ts.Name("string"),
	"Number":    ts.Name("number"),
	"number":    ts.Name("number"),
	"Boolean":   ts.Name("boolean"),
	"boolean":   ts.Name("boolean"),
	"Object":    ts.Name("object"),
	"object":    ts.Name("object"),
	"Function":  ts.Name("Function"),
	"function":  ts.Name("Function"),
	"Array":     ts.Array(ts.AnyType),
	"Promise":   ts.Generic("Promise", ts.AnyType),
	"void":      ts.Name("void"),
	"undefined": ts.UndefinedType,
	"null":      ts.NullType,
	"any":       ts.AnyType,
}

// ParamResult is the translation of a parameter annotation.
type ParamResult struct {
	Type     ts.Type
	Optional bool
	Rest     bool
}

// Type translates an annotation in property or return position. Names in
// templates are type variables. An absent annotation is any. ok is false when
// the annotation could not be parsed and any was substituted.
func Type(annotation string, templates []string) (t ts.Type, ok bool) {
	if strings.TrimSpace(annotation) == "" {
		return ts.AnyType, true
	}
	e, err := closure.Parse(annotation)
	if err != nil {
		return ts.AnyType, false
	}
	return convertExpr(e, templates), true
}

// Param translates a parameter annotation. A trailing "=" makes the
// parameter optional; a leading or trailing "..." makes it a rest parameter,
// in which case it is never optional. The returned type is the translation
// without those markers: a rest parameter's type is not wrapped in an array
// here.
func Param(annotation string, templates []string) (r ParamResult, ok bool) {
	if strings.TrimSpace(annotation) == "" {
		return ParamResult{Type: ts.AnyType}, true
	}
	e, err := closure.Parse(annotation)
	if err != nil {
		return ParamResult{Type: ts.AnyType}, false
	}

	if opt, isOpt := e.(closure.Optional); isOpt {
		r.Optional = true
		e = opt.Expr
	}
	if rest, isRest := e.(closure.Rest); isRest {
		r.Rest = true
		r.Optional = false
		if rest.Expr == nil {
			r.Type = ts.AnyType
			return r, true
		}
		e = rest.Expr
	}
	r.Type = convertExpr(e, templates)
	return r, true
}

func convertExpr(e closure.Expr, templates []string) ts.Type {
	switch x := e.(type) {
	case closure.Name:
		return convertName(x.Name, templates)
	case closure.All, closure.Unknown:
		return ts.AnyType
	case closure.Nullable:
		return convertExpr(x.Expr, templates)
	case closure.NonNullable:
		return convertExpr(x.Expr, templates)
	case closure.Optional:
		return convertExpr(x.Expr, templates)
	case closure.Rest:
		if x.Expr == nil {
			return ts.Array(ts.AnyType)
		}
		return ts.Array(convertExpr(x.Expr, templates))
	case closure.Union:
		members := make([]ts.Type, len(x.Members))
		for i, m := range x.Members {
			members[i] = convertExpr(m, templates)
		}
		switch len(members) {
		case 0:
			return ts.AnyType
		case 1:
			return members[0]
		}
		return ts.Union(members...)
	case closure.ArraySuffix:
		return ts.Array(convertExpr(x.Element, templates))
	case closure.Application:
		return convertApplication(x, templates)
	case closure.Function:
		return convertFunction(x, templates)
	case closure.Record:
		fields := make([]ts.RecordField, len(x.Fields))
		for i, f := range x.Fields {
			var t ts.Type = ts.AnyType
			if f.Value != nil {
				t = convertExpr(f.Value, templates)
			}
			fields[i] = ts.RecordField{Name: f.Key, Type: t}
		}
		return ts.Record(fields...)
	}
	return ts.AnyType
}

func convertName(name string, templates []string) ts.Type {
	for _, tmpl := range templates {
		if tmpl == name {
			return ts.Name(name)
		}
	}
	if t, ok := builtins[name]; ok {
		return t
	}
	return ts.Name(name)
}

func convertApplication(app closure.Application, templates []string) ts.Type {
	args := make([]ts.Type, len(app.Args))
	for i, a := range app.Args {
		args[i] = convertExpr(a, templates)
	}

	base := app.Base.Name
	switch {
	case base == "Array" && len(args) == 1:
		return ts.Array(args[0])
	case (base == "Object" || base == "object") && len(args) == 2:
		return ts.Index(args[0], args[1])
	case (base == "Object" || base == "object") && len(args) == 1:
		return ts.Index(ts.Name("string"), args[0])
	}

	if t, ok := convertName(base, templates).(ts.NameType); ok {
		base = t.Name
	}
	return ts.Generic(base, args...)
}

func convertFunction(fn closure.Function, templates []string) ts.Type {
	params := make([]ts.Param, 0, len(fn.Params))
	for i, p := range fn.Params {
		param := ts.Param{Name: "p" + strconv.Itoa(i)}
		if opt, isOpt := p.(closure.Optional); isOpt {
			param.Optional = true
			p = opt.Expr
		}
		if rest, isRest := p.(closure.Rest); isRest {
			param.Rest = true
			param.Optional = false
			param.Type = ts.Array(ts.AnyType)
			if rest.Expr != nil {
				param.Type = ts.Array(convertExpr(rest.Expr, templates))
			}
		} else {
			param.Type = convertExpr(p, templates)
		}
		params = append(params, param)
	}

	var returns ts.Type = ts.AnyType
	if fn.Returns != nil {
		returns = convertExpr(fn.Returns, templates)
	}
	result := ts.Func(params, returns)
	if fn.New != nil {
		result.New = true
		result.Returns = convertExpr(fn.New, templates)
	}
	return result
}

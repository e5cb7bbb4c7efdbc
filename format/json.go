package format

import (
	"encoding/json"
	"io"

	"github.com/4STO2NED0/gen-typescript-declarations/ts"
)

// JSONEncoder dumps the declaration tree, with types rendered as
// TypeScript text.
type JSONEncoder struct {
	w   io.Writer
	doc *ts.Document
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(doc *ts.Document) error {
	e.doc = doc
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	data := jsonDocument{
		Path:       e.doc.Path,
		Sources:    e.doc.Sources,
		References: e.doc.References(),
		Members:    buildMembers(e.doc.Members),
	}
	return json.MarshalIndent(data, "", "  ")
}

type jsonDocument struct {
	Path       string       `json:"path"`
	Sources    []string     `json:"sources"`
	References []string     `json:"references,omitempty"`
	Members    []jsonMember `json:"members"`
}

type jsonMember struct {
	Kind          string         `json:"kind"`
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	Extends       []string       `json:"extends,omitempty"`
	Mixins        []string       `json:"mixins,omitempty"`
	Interfaces    []string       `json:"interfaces,omitempty"`
	TemplateTypes []string       `json:"templateTypes,omitempty"`
	Properties    []jsonProperty `json:"properties,omitempty"`
	Methods       []jsonFunction `json:"methods,omitempty"`
	Signature     string         `json:"signature,omitempty"`
	Members       []jsonMember   `json:"members,omitempty"`
}

type jsonProperty struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	ReadOnly bool   `json:"readOnly,omitempty"`
	Static   bool   `json:"static,omitempty"`
}

type jsonFunction struct {
	Name      string `json:"name"`
	Signature string `json:"signature"`
	Static    bool   `json:"static,omitempty"`
}

func buildMembers(nodes []ts.Node) []jsonMember {
	result := make([]jsonMember, 0, len(nodes))
	for _, n := range nodes {
		switch n := n.(type) {
		case *ts.Namespace:
			result = append(result, jsonMember{
				Kind:        "namespace",
				Name:        n.Name,
				Description: n.Description,
				Members:     buildMembers(n.Members),
			})
		case *ts.Class:
			var extends []string
			if n.Extends != "" {
				extends = []string{n.Extends}
			}
			result = append(result, jsonMember{
				Kind:          "class",
				Name:          n.Name,
				Description:   n.Description,
				Extends:       extends,
				Mixins:        n.Mixins,
				TemplateTypes: n.TemplateTypes,
				Properties:    buildProperties(n.Properties),
				Methods:       buildMethods(n.Methods),
			})
		case *ts.Interface:
			result = append(result, jsonMember{
				Kind:        "interface",
				Name:        n.Name,
				Description: n.Description,
				Extends:     n.Extends,
				Properties:  buildProperties(n.Properties),
				Methods:     buildMethods(n.Methods),
			})
		case *ts.Mixin:
			result = append(result, jsonMember{
				Kind:        "mixin",
				Name:        n.Name,
				Description: n.Description,
				Interfaces:  n.Interfaces,
			})
		case *ts.Function:
			result = append(result, jsonMember{
				Kind:          "function",
				Name:          n.Name,
				Description:   n.Description,
				TemplateTypes: n.TemplateTypes,
				Signature:     n.Signature(),
			})
		}
	}
	return result
}

func buildProperties(props []*ts.Property) []jsonProperty {
	result := make([]jsonProperty, len(props))
	for i, p := range props {
		typ := ts.AnyType.String()
		if p.Type != nil {
			typ = p.Type.String()
		}
		result[i] = jsonProperty{
			Name:     p.Name,
			Type:     typ,
			ReadOnly: p.ReadOnly,
			Static:   p.Static,
		}
	}
	return result
}

func buildMethods(methods []*ts.Method) []jsonFunction {
	result := make([]jsonFunction, len(methods))
	for i, m := range methods {
		result[i] = jsonFunction{
			Name:      m.Name,
			Signature: m.Signature(),
			Static:    m.Static,
		}
	}
	return result
}

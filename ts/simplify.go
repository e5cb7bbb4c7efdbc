package ts

// TagNameMap is the global interface that maps custom element tag names to
// their declared types.
const TagNameMap = "HTMLElementTagNameMap"

// Simplify normalizes a document after all declarations have been added:
// sibling namespaces with the same name are merged, root tag-map interfaces
// are merged, and every type expression is rewritten with nested unions
// flattened, duplicate members removed, and unions containing any collapsed
// to any. Member order is preserved.
func Simplify(doc *Document) {
	doc.Members = mergeTagMaps(mergeNamespaces(doc.Members))
	simplifyMembers(doc.Members)
}

func mergeNamespaces(members []Node) []Node {
	var out []Node
	seen := make(map[string]*Namespace)
	for _, m := range members {
		ns, ok := m.(*Namespace)
		if !ok {
			out = append(out, m)
			continue
		}
		if first, dup := seen[ns.Name]; dup {
			first.Members = append(first.Members, ns.Members...)
			if first.Description == "" {
				first.Description = ns.Description
			}
			continue
		}
		seen[ns.Name] = ns
		out = append(out, ns)
	}
	for _, m := range out {
		if ns, ok := m.(*Namespace); ok {
			ns.Members = mergeNamespaces(ns.Members)
		}
	}
	return out
}

func mergeTagMaps(members []Node) []Node {
	var out []Node
	var tagMap *Interface
	tags := make(map[string]bool)
	for _, m := range members {
		iface, ok := m.(*Interface)
		if !ok || iface.Name != TagNameMap {
			out = append(out, m)
			continue
		}
		if tagMap == nil {
			tagMap = iface
			out = append(out, iface)
			props := iface.Properties
			iface.Properties = nil
			for _, p := range props {
				if !tags[p.Name] {
					tags[p.Name] = true
					iface.Properties = append(iface.Properties, p)
				}
			}
			continue
		}
		for _, p := range iface.Properties {
			if !tags[p.Name] {
				tags[p.Name] = true
				tagMap.Properties = append(tagMap.Properties, p)
			}
		}
	}
	return out
}

func simplifyMembers(members []Node) {
	for _, m := range members {
		switch n := m.(type) {
		case *Namespace:
			simplifyMembers(n.Members)
		case *Class:
			simplifyProperties(n.Properties)
			simplifyMethods(n.Methods)
		case *Interface:
			simplifyProperties(n.Properties)
			simplifyMethods(n.Methods)
		case *Function:
			simplifyFunction(n)
		}
	}
}

func simplifyProperties(props []*Property) {
	for _, p := range props {
		p.Type = SimplifyType(p.Type)
	}
}

func simplifyMethods(methods []*Method) {
	for _, m := range methods {
		simplifyFunction(&m.Function)
	}
}

func simplifyFunction(f *Function) {
	f.Params = simplifyParams(f.Params)
	f.Returns = SimplifyType(f.Returns)
}

func simplifyParams(params []Param) []Param {
	if params == nil {
		return nil
	}
	out := make([]Param, len(params))
	for i, p := range params {
		p.Type = SimplifyType(p.Type)
		out[i] = p
	}
	return out
}

// SimplifyType returns a simplified copy of t; t itself is not modified.
func SimplifyType(t Type) Type {
	switch x := t.(type) {
	case nil:
		return nil
	case ArrayType:
		return Array(SimplifyType(x.Element))
	case UnionType:
		return simplifyUnion(x)
	case FunctionType:
		fn := Func(simplifyParams(x.Params), SimplifyType(x.Returns))
		fn.New = x.New
		return fn
	case GenericType:
		args := make([]Type, len(x.Args))
		for i, a := range x.Args {
			args[i] = SimplifyType(a)
		}
		return Generic(x.Name, args...)
	case IndexType:
		return Index(SimplifyType(x.Key), SimplifyType(x.Value))
	case RecordType:
		fields := make([]RecordField, len(x.Fields))
		for i, f := range x.Fields {
			fields[i] = RecordField{Name: f.Name, Type: SimplifyType(f.Type)}
		}
		return Record(fields...)
	}
	return t
}

func simplifyUnion(u UnionType) Type {
	var flat []Type
	var add func(t Type)
	add = func(t Type) {
		if nested, ok := t.(UnionType); ok {
			for _, m := range nested.Members {
				add(m)
			}
			return
		}
		flat = append(flat, SimplifyType(t))
	}
	for _, m := range u.Members {
		add(m)
	}

	var members []Type
	for _, m := range flat {
		dup := false
		for _, existing := range members {
			if Equal(existing, m) {
				dup = true
				break
			}
		}
		if !dup {
			members = append(members, m)
		}
	}
	if len(members) == 1 {
		return members[0]
	}
	return Union(members...)
}

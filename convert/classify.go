package convert

import "github.com/4STO2NED0/gen-typescript-declarations/analysis"

// symbolKind is the single resolved variant of a feature. A feature can
// carry several kind tags; classify picks the first in priority order.
type symbolKind int

const (
	symbolUnknown symbolKind = iota
	symbolPrivate
	symbolElement
	symbolBehavior
	symbolMixin
	symbolClass
	symbolFunction
	symbolNamespace
	symbolImport
)

func (k symbolKind) String() string {
	switch k {
	case symbolPrivate:
		return "private"
	case symbolElement:
		return "element"
	case symbolBehavior:
		return "behavior"
	case symbolMixin:
		return "mixin"
	case symbolClass:
		return "class"
	case symbolFunction:
		return "function"
	case symbolNamespace:
		return "namespace"
	case symbolImport:
		return "import"
	default:
		return "unknown"
	}
}

func classify(f *analysis.Feature) symbolKind {
	switch {
	case !f.Privacy.Public():
		return symbolPrivate
	case f.HasKind(analysis.KindElement):
		return symbolElement
	case f.HasKind(analysis.KindBehavior):
		return symbolBehavior
	case f.HasKind(analysis.KindMixin), f.HasKind(analysis.KindElementMixin):
		return symbolMixin
	case f.HasKind(analysis.KindClass):
		return symbolClass
	case f.HasKind(analysis.KindFunction):
		return symbolFunction
	case f.HasKind(analysis.KindNamespace):
		return symbolNamespace
	case f.HasKind(analysis.KindImport):
		return symbolImport
	}
	return symbolUnknown
}

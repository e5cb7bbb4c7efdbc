// Package closure parses the Closure-style type annotations that appear in
// JSDoc comments, such as "!Array<string>=", "?(number|Foo.Bar)" or
// "function(string, ...*): boolean".
package closure

// Expr is the interface implemented by all annotation AST nodes.
type Expr interface {
	expr()
}

// Name is a possibly dotted type name, e.g. "string" or "Polymer.Element".
type Name struct {
	Name string
}

func (Name) expr() {}

// All is the "*" type.
type All struct{}

func (All) expr() {}

// Unknown is a lone "?".
type Unknown struct{}

func (Unknown) expr() {}

// Nullable is "?T" or "T?".
type Nullable struct {
	Expr Expr
}

func (Nullable) expr() {}

// NonNullable is "!T" or "T!".
type NonNullable struct {
	Expr Expr
}

func (NonNullable) expr() {}

// Optional is "T=".
type Optional struct {
	Expr Expr
}

func (Optional) expr() {}

// Rest is "...T" or "T...". Expr is nil for a bare "...".
type Rest struct {
	Expr Expr
}

func (Rest) expr() {}

// Union is "A|B|C", with or without surrounding parentheses.
type Union struct {
	Members []Expr
}

func (Union) expr() {}

// Application is a type application: "Array<T>", "Array.<T>", "Object<K, V>".
type Application struct {
	Base Name
	Args []Expr
}

func (Application) expr() {}

// ArraySuffix is the bracket form "T[]".
type ArraySuffix struct {
	Element Expr
}

func (ArraySuffix) expr() {}

// Function is "function(this:T, A, B=): R". This and New are nil when absent,
// Returns is nil when no return type is given.
type Function struct {
	This    Expr
	New     Expr
	Params  []Expr
	Returns Expr
}

func (Function) expr() {}

// Record is "{a: T, b}".
type Record struct {
	Fields []Field
}

func (Record) expr() {}

// Field is a record entry. Value is nil when the field has no type.
type Field struct {
	Key   string
	Value Expr
}

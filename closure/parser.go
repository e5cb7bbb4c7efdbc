package closure

import (
	"fmt"
	"unicode"
)

// SyntaxError reports an annotation that could not be parsed.
type SyntaxError struct {
	Input  string
	Offset int // rune offset into Input
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("annotation %q: offset %d: %s", e.Input, e.Offset, e.Msg)
}

// parser is a recursive-descent parser over the runes of one annotation.
type parser struct {
	src   string
	input []rune
	pos   int
}

// Parse parses a single type annotation. Leading "..." and trailing "...",
// "=" markers are accepted at the top level and inside function parameter
// lists. The whole input must be consumed.
func Parse(src string) (Expr, error) {
	p := &parser{src: src, input: []rune(src)}
	p.skipSpace()
	if p.eof() {
		return nil, p.errorf("empty annotation")
	}
	e, err := p.parseParam()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, p.errorf("unexpected %q", p.peek())
	}
	return e, nil
}

// parseParam parses a type with optional rest and optional markers.
func (p *parser) parseParam() (Expr, error) {
	p.skipSpace()
	rest := false
	if p.match("...") {
		p.advance(3)
		rest = true
	}

	var e Expr
	p.skipSpace()
	if !rest || !p.atParamEnd() {
		var err error
		e, err = p.parseUnion()
		if err != nil {
			return nil, err
		}
	}

	// The trailing markers may come in either order: "T...=" or "T=...".
	optional := false
	for {
		p.skipSpace()
		if !rest && p.match("...") {
			p.advance(3)
			rest = true
			continue
		}
		if !optional && p.peek() == '=' {
			p.advance(1)
			optional = true
			continue
		}
		break
	}
	if rest {
		e = Rest{Expr: e}
	}
	if optional {
		e = Optional{Expr: e}
	}
	return e, nil
}

func (p *parser) atParamEnd() bool {
	switch p.peek() {
	case 0, ',', ')', '=':
		return true
	}
	return false
}

func (p *parser) parseUnion() (Expr, error) {
	first, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}
	members := []Expr{first}
	for {
		p.skipSpace()
		if p.peek() != '|' {
			break
		}
		p.advance(1)
		m, err := p.parsePrefix()
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	if len(members) == 1 {
		return first, nil
	}
	return Union{Members: members}, nil
}

func (p *parser) parsePrefix() (Expr, error) {
	p.skipSpace()
	switch p.peek() {
	case '?':
		p.advance(1)
		p.skipSpace()
		if !p.startsType() {
			return Unknown{}, nil
		}
		e, err := p.parsePrefix()
		if err != nil {
			return nil, err
		}
		return Nullable{Expr: e}, nil
	case '!':
		p.advance(1)
		e, err := p.parsePrefix()
		if err != nil {
			return nil, err
		}
		return NonNullable{Expr: e}, nil
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (Expr, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		switch {
		case p.match("[]"):
			p.advance(2)
			e = ArraySuffix{Element: e}
		case p.peek() == '?':
			p.advance(1)
			e = Nullable{Expr: e}
		case p.peek() == '!':
			p.advance(1)
			e = NonNullable{Expr: e}
		default:
			return e, nil
		}
	}
}

func (p *parser) parsePrimary() (Expr, error) {
	p.skipSpace()
	ch := p.peek()
	switch {
	case p.eof():
		return nil, p.errorf("unexpected end of annotation")
	case ch == '*':
		p.advance(1)
		return All{}, nil
	case ch == '(':
		p.advance(1)
		e, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return e, nil
	case ch == '{':
		return p.parseRecord()
	case isIdentStart(ch):
		name := p.readName()
		p.skipSpace()
		if name == "function" && p.peek() == '(' {
			return p.parseFunction()
		}
		if p.match(".<") {
			p.advance(2)
			return p.parseApplication(name)
		}
		if p.peek() == '<' {
			p.advance(1)
			return p.parseApplication(name)
		}
		return Name{Name: name}, nil
	}
	return nil, p.errorf("unexpected %q", ch)
}

// parseApplication parses type arguments up to the closing '>'; the opening
// bracket has already been consumed.
func (p *parser) parseApplication(base string) (Expr, error) {
	app := Application{Base: Name{Name: base}}
	for {
		arg, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		app.Args = append(app.Args, arg)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.advance(1)
		case '>':
			p.advance(1)
			return app, nil
		default:
			return nil, p.errorf("expected ',' or '>' in type arguments")
		}
	}
}

func (p *parser) parseFunction() (Expr, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}
	fn := Function{}
	p.skipSpace()
	if p.peek() == ')' {
		p.advance(1)
	} else {
		for {
			p.skipSpace()
			switch {
			case p.matchKeyword("this"):
				t, err := p.parseUnion()
				if err != nil {
					return nil, err
				}
				fn.This = t
			case p.matchKeyword("new"):
				t, err := p.parseUnion()
				if err != nil {
					return nil, err
				}
				fn.New = t
			default:
				param, err := p.parseParam()
				if err != nil {
					return nil, err
				}
				fn.Params = append(fn.Params, param)
			}
			p.skipSpace()
			if p.peek() == ',' {
				p.advance(1)
				continue
			}
			if err := p.expect(')'); err != nil {
				return nil, err
			}
			break
		}
	}

	p.skipSpace()
	if p.peek() == ':' {
		p.advance(1)
		ret, err := p.parsePrefix()
		if err != nil {
			return nil, err
		}
		fn.Returns = ret
	}
	return fn, nil
}

func (p *parser) parseRecord() (Expr, error) {
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	rec := Record{}
	p.skipSpace()
	if p.peek() == '}' {
		p.advance(1)
		return rec, nil
	}
	for {
		p.skipSpace()
		key, err := p.readKey()
		if err != nil {
			return nil, err
		}
		field := Field{Key: key}
		p.skipSpace()
		if p.peek() == ':' {
			p.advance(1)
			v, err := p.parseUnion()
			if err != nil {
				return nil, err
			}
			field.Value = v
		}
		rec.Fields = append(rec.Fields, field)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.advance(1)
		case '}':
			p.advance(1)
			return rec, nil
		default:
			return nil, p.errorf("expected ',' or '}' in record type")
		}
	}
}

func (p *parser) readKey() (string, error) {
	ch := p.peek()
	if ch == '\'' || ch == '"' {
		p.advance(1)
		start := p.pos
		for !p.eof() && p.peek() != ch {
			p.advance(1)
		}
		if p.eof() {
			return "", p.errorf("unterminated string in record key")
		}
		key := string(p.input[start:p.pos])
		p.advance(1)
		return key, nil
	}
	if !isIdentStart(ch) {
		return "", p.errorf("expected record key")
	}
	start := p.pos
	for !p.eof() && isIdentPart(p.peek()) {
		p.advance(1)
	}
	return string(p.input[start:p.pos]), nil
}

// readName reads identifiers joined by dots. A dot followed by '<' is left
// in place for the "Foo.<T>" application form.
func (p *parser) readName() string {
	start := p.pos
	for {
		for !p.eof() && isIdentPart(p.peek()) {
			p.advance(1)
		}
		if p.peek() == '.' && isIdentStart(p.peekAt(1)) {
			p.advance(1)
			continue
		}
		break
	}
	return string(p.input[start:p.pos])
}

// matchKeyword consumes "word:" (spaces allowed before the colon) when present.
func (p *parser) matchKeyword(word string) bool {
	if !p.match(word) {
		return false
	}
	i := p.pos + len([]rune(word))
	for i < len(p.input) && unicode.IsSpace(p.input[i]) {
		i++
	}
	if i >= len(p.input) || p.input[i] != ':' {
		return false
	}
	p.pos = i + 1
	return true
}

func (p *parser) startsType() bool {
	ch := p.peek()
	switch ch {
	case '*', '(', '{', '!', '?':
		return true
	}
	return isIdentStart(ch)
}

func (p *parser) expect(ch rune) error {
	p.skipSpace()
	if p.peek() != ch {
		if p.eof() {
			return p.errorf("expected %q, got end of annotation", ch)
		}
		return p.errorf("expected %q, got %q", ch, p.peek())
	}
	p.advance(1)
	return nil
}

func (p *parser) skipSpace() {
	for !p.eof() && unicode.IsSpace(p.peek()) {
		p.advance(1)
	}
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) peek() rune {
	return p.peekAt(0)
}

func (p *parser) peekAt(offset int) rune {
	i := p.pos + offset
	if i < 0 || i >= len(p.input) {
		return 0
	}
	return p.input[i]
}

func (p *parser) advance(n int) {
	p.pos += n
	if p.pos > len(p.input) {
		p.pos = len(p.input)
	}
}

func (p *parser) match(s string) bool {
	for i, ch := range []rune(s) {
		if p.peekAt(i) != ch {
			return false
		}
	}
	return true
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{Input: p.src, Offset: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func isIdentStart(ch rune) bool {
	return ch == '_' || ch == '$' || unicode.IsLetter(ch)
}

func isIdentPart(ch rune) bool {
	return isIdentStart(ch) || unicode.IsDigit(ch)
}

package ast

import (
	"fmt"
	"strconv"
	"unicode"
)

// ParseProgram reads a program written in builder notation, as produced by
// Program.Source. Whitespace between tokens is ignored.
func ParseProgram(src string) (*Program, error) {
	p := &parser{src: src}
	prog, err := p.program()
	if err != nil {
		return nil, err
	}
	return prog, p.end()
}

// ParseCondition reads a condition written in builder notation.
func ParseCondition(src string) (*Condition, error) {
	p := &parser{src: src}
	c, err := p.condition()
	if err != nil {
		return nil, err
	}
	return c, p.end()
}

// ParseExpression reads an expression written in builder notation.
func ParseExpression(src string) (*Expression, error) {
	p := &parser{src: src}
	e, err := p.expression()
	if err != nil {
		return nil, err
	}
	return e, p.end()
}

var (
	commandByName    = invert(commandSource)
	sensorByName     = invert(sensorSource)
	conditionByName  = invert(conditionSource)
	expressionByName = invert(expressionSource)
)

func invert[K comparable](m map[K]string) map[string]K {
	out := make(map[string]K, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w at offset %d: %s", ErrSyntax, p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *parser) end() error {
	p.skipSpace()
	if p.pos != len(p.src) {
		return p.errorf("unexpected trailing input %q", p.src[p.pos:])
	}
	return nil
}

func (p *parser) expect(ch byte) error {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return p.errorf("expected %q, got end of input", ch)
	}
	if p.src[p.pos] != ch {
		return p.errorf("expected %q, got %q", ch, p.src[p.pos])
	}
	p.pos++
	return nil
}

func (p *parser) ident() (string, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		ch := p.src[p.pos]
		if ch != '_' && !('a' <= ch && ch <= 'z') && !('A' <= ch && ch <= 'Z') {
			break
		}
		p.pos++
	}
	if start == p.pos {
		return "", p.errorf("expected identifier")
	}
	return p.src[start:p.pos], nil
}

func (p *parser) number() (Number, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		ch := p.src[p.pos]
		if ch == ')' || ch == ',' || unicode.IsSpace(rune(ch)) {
			break
		}
		p.pos++
	}
	text := p.src[start:p.pos]
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		p.pos = start
		return 0, p.errorf("invalid number %q", text)
	}
	return v, nil
}

// empty consumes "()".
func (p *parser) empty() error {
	if err := p.expect('('); err != nil {
		return err
	}
	return p.expect(')')
}

func (p *parser) program() (*Program, error) {
	start := p.pos
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	if c, ok := commandByName[name]; ok {
		if err := p.empty(); err != nil {
			return nil, err
		}
		return Do(c), nil
	}
	if name != programIfSource {
		p.pos = start
		return nil, p.errorf("unknown program %q", name)
	}
	if err := p.expect('('); err != nil {
		return nil, err
	}
	cond, err := p.condition()
	if err != nil {
		return nil, err
	}
	if err := p.expect(','); err != nil {
		return nil, err
	}
	then, err := p.program()
	if err != nil {
		return nil, err
	}
	if err := p.expect(','); err != nil {
		return nil, err
	}
	els, err := p.program()
	if err != nil {
		return nil, err
	}
	if err := p.expect(')'); err != nil {
		return nil, err
	}
	return If(cond, then, els), nil
}

func (p *parser) condition() (*Condition, error) {
	start := p.pos
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	kind, ok := conditionByName[name]
	if !ok {
		p.pos = start
		return nil, p.errorf("unknown condition %q", name)
	}
	if kind == CondTrue || kind == CondFalse {
		if err := p.empty(); err != nil {
			return nil, err
		}
		return &Condition{Kind: kind}, nil
	}
	if err := p.expect('('); err != nil {
		return nil, err
	}
	out := &Condition{Kind: kind}
	switch {
	case kind == CondNot:
		if out.A, err = p.condition(); err != nil {
			return nil, err
		}
	case kind.Logical():
		if out.A, err = p.condition(); err != nil {
			return nil, err
		}
		if err := p.expect(','); err != nil {
			return nil, err
		}
		if out.B, err = p.condition(); err != nil {
			return nil, err
		}
	default:
		if out.L, err = p.expression(); err != nil {
			return nil, err
		}
		if err := p.expect(','); err != nil {
			return nil, err
		}
		if out.R, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if err := p.expect(')'); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *parser) expression() (*Expression, error) {
	start := p.pos
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	if s, ok := sensorByName[name]; ok {
		if err := p.empty(); err != nil {
			return nil, err
		}
		return Read(s), nil
	}
	kind, ok := expressionByName[name]
	if !ok {
		p.pos = start
		return nil, p.errorf("unknown expression %q", name)
	}
	if err := p.expect('('); err != nil {
		return nil, err
	}
	var out *Expression
	if kind == ExprConstant {
		v, err := p.number()
		if err != nil {
			return nil, err
		}
		out = Constant(v)
	} else {
		l, err := p.expression()
		if err != nil {
			return nil, err
		}
		if err := p.expect(','); err != nil {
			return nil, err
		}
		r, err := p.expression()
		if err != nil {
			return nil, err
		}
		out = Arith(kind, l, r)
	}
	if err := p.expect(')'); err != nil {
		return nil, err
	}
	return out, nil
}

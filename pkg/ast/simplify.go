package ast

// Simplify returns an equivalent program with dead branches removed and
// constant sub-terms folded. The receiver is not modified and shares no
// nodes with the result.
func (p *Program) Simplify() *Program {
	if p.Kind != ProgramIf {
		return Do(p.Command)
	}
	c := p.Cond.Simplify()
	switch c.Kind {
	case CondTrue:
		return p.Then.Simplify()
	case CondFalse:
		return p.Else.Simplify()
	}
	then, els := p.Then.Simplify(), p.Else.Simplify()
	if then.Equal(els) {
		return then
	}
	return If(c, then, els)
}

// Simplify returns an equivalent condition. Sub-terms have no side effects,
// so absorbing constants on either side of Or and And is safe.
func (c *Condition) Simplify() *Condition {
	switch {
	case c.Kind == CondNot:
		inner := c.A.Simplify()
		switch inner.Kind {
		case CondTrue:
			return False()
		case CondFalse:
			return True()
		case CondNot:
			return inner.A
		}
		return Not(inner)
	case c.Kind == CondOr:
		a, b := c.A.Simplify(), c.B.Simplify()
		switch {
		case a.Kind == CondTrue || b.Kind == CondTrue:
			return True()
		case a.Kind == CondFalse:
			return b
		case b.Kind == CondFalse:
			return a
		}
		return Or(a, b)
	case c.Kind == CondAnd:
		a, b := c.A.Simplify(), c.B.Simplify()
		switch {
		case a.Kind == CondFalse || b.Kind == CondFalse:
			return False()
		case a.Kind == CondTrue:
			return b
		case b.Kind == CondTrue:
			return a
		}
		return And(a, b)
	case c.Kind.Comparison():
		l, r := c.L.Simplify(), c.R.Simplify()
		if l.Kind == ExprConstant && r.Kind == ExprConstant {
			if compare(c.Kind, l.Const, r.Const) {
				return True()
			}
			return False()
		}
		return Compare(c.Kind, l, r)
	}
	return &Condition{Kind: c.Kind}
}

// Simplify folds arithmetic over constants.
func (e *Expression) Simplify() *Expression {
	switch e.Kind {
	case ExprConstant:
		return Constant(e.Const)
	case ExprSensor:
		return Read(e.Sensor)
	}
	l, r := e.L.Simplify(), e.R.Simplify()
	if l.Kind == ExprConstant && r.Kind == ExprConstant {
		return Constant(arith(e.Kind, l.Const, r.Const))
	}
	return Arith(e.Kind, l, r)
}

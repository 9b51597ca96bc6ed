package ast

// Depth of a program: commands count as one level below their program node.
func (p *Program) Depth() int {
	if p.Kind == ProgramIf {
		return 1 + max(p.Cond.Depth(), p.Then.Depth(), p.Else.Depth())
	}
	return 2
}

func (c *Condition) Depth() int {
	switch {
	case c.Kind == CondNot:
		return 1 + c.A.Depth()
	case c.Kind.Logical():
		return 1 + max(c.A.Depth(), c.B.Depth())
	case c.Kind.Comparison():
		return 1 + max(c.L.Depth(), c.R.Depth())
	}
	return 1
}

// Depth of an expression: a sensor read counts as one level below its
// expression node.
func (e *Expression) Depth() int {
	switch e.Kind {
	case ExprConstant:
		return 1
	case ExprSensor:
		return 2
	}
	return 1 + max(e.L.Depth(), e.R.Depth())
}

// Size returns the number of nodes in the tree rooted at n, counting
// commands and sensors.
func Size(n Node) int {
	return Collect(n).Total()
}

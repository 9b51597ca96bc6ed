package ast

// Level returns the level at which target sits in the tree rooted at root,
// counting root as level one, and false when target is not in the tree.
// Target is compared by identity; it is one of the pointers collected by
// BucketCollector.
//
// A subtree of depth d at level l makes the tree at least l-1+d deep.
func Level(root Node, target any) (int, bool) {
	w := levelWalker{target: target}
	switch n := root.(type) {
	case *Program:
		w.program(n, 1)
	case *Condition:
		w.condition(n, 1)
	case *Expression:
		w.expression(n, 1)
	}
	return w.level, w.level > 0
}

type levelWalker struct {
	target any
	level  int
}

func (w *levelWalker) found(n any, l int) bool {
	if n == w.target {
		w.level = l
		return true
	}
	return false
}

func (w *levelWalker) program(p *Program, l int) bool {
	if w.found(p, l) {
		return true
	}
	if p.Kind == ProgramIf {
		return w.condition(p.Cond, l+1) || w.program(p.Then, l+1) || w.program(p.Else, l+1)
	}
	return w.found(&p.Command, l+1)
}

func (w *levelWalker) condition(c *Condition, l int) bool {
	if w.found(c, l) {
		return true
	}
	switch {
	case c.Kind == CondNot:
		return w.condition(c.A, l+1)
	case c.Kind.Logical():
		return w.condition(c.A, l+1) || w.condition(c.B, l+1)
	case c.Kind.Comparison():
		return w.expression(c.L, l+1) || w.expression(c.R, l+1)
	}
	return false
}

func (w *levelWalker) expression(e *Expression, l int) bool {
	if w.found(e, l) {
		return true
	}
	switch e.Kind {
	case ExprConstant:
		return false
	case ExprSensor:
		return w.found(&e.Sensor, l+1)
	}
	return w.expression(e.L, l+1) || w.expression(e.R, l+1)
}

package ast

import (
	"fmt"
)

// Copier rebuilds trees node by node. Each method returns the node to put in
// place of its argument in the copy; the structural recursion is done by
// the Copy methods so an implementation only decides what changes.
type Copier interface {
	CopyProgram(p *Program) *Program
	CopyCondition(c *Condition) *Condition
	CopyExpression(e *Expression) *Expression
	CopyCommand(c *Command) Command
	CopySensor(s *Sensor) Sensor
}

// Copy rebuilds the program through c.
func (p *Program) Copy(c Copier) *Program { return c.CopyProgram(p) }

// Copy rebuilds the condition through c.
func (cd *Condition) Copy(c Copier) *Condition { return c.CopyCondition(cd) }

// Copy rebuilds the expression through c.
func (e *Expression) Copy(c Copier) *Expression { return c.CopyExpression(e) }

// Clone returns a deep copy of the program.
func (p *Program) Clone() *Program { return p.Copy(DeepCopy{}) }

// Clone returns a deep copy of the condition.
func (c *Condition) Clone() *Condition { return c.Copy(DeepCopy{}) }

// Clone returns a deep copy of the expression.
func (e *Expression) Clone() *Expression { return e.Copy(DeepCopy{}) }

// DeepCopy is the identity Copier: it reproduces the tree without sharing
// any node with the original.
type DeepCopy struct{}

func (d DeepCopy) CopyProgram(p *Program) *Program          { return rebuildProgram(d, p) }
func (d DeepCopy) CopyCondition(c *Condition) *Condition    { return rebuildCondition(d, c) }
func (d DeepCopy) CopyExpression(e *Expression) *Expression { return rebuildExpression(d, e) }
func (DeepCopy) CopyCommand(c *Command) Command             { return *c }
func (DeepCopy) CopySensor(s *Sensor) Sensor                { return *s }

// Replace is a Copier producing a deep copy in which the node identical
// (by pointer) to Target is substituted with a deep copy of With. Target
// and With must be pointers to the same node type: *Program, *Condition,
// *Expression, *Command or *Sensor.
type Replace struct {
	Target any
	With   any
}

// NewReplace validates that target and with are non-nil pointers of the
// same node type.
func NewReplace(target, with any) (Replace, error) {
	tt, ok := nodeTypeOf(target)
	if !ok {
		return Replace{}, fmt.Errorf("%w: target %T", ErrKindMismatch, target)
	}
	wt, ok := nodeTypeOf(with)
	if !ok || wt != tt {
		return Replace{}, fmt.Errorf("%w: cannot replace %s with %T", ErrKindMismatch, tt, with)
	}
	return Replace{Target: target, With: with}, nil
}

func nodeTypeOf(n any) (NodeType, bool) {
	switch v := n.(type) {
	case *Program:
		return NodeProgram, v != nil
	case *Condition:
		return NodeCondition, v != nil
	case *Expression:
		return NodeExpression, v != nil
	case *Command:
		return NodeCommand, v != nil
	case *Sensor:
		return NodeSensor, v != nil
	}
	return 0, false
}

func (r Replace) CopyProgram(p *Program) *Program {
	if t, ok := r.Target.(*Program); ok && t == p {
		return r.With.(*Program).Clone()
	}
	return rebuildProgram(r, p)
}

func (r Replace) CopyCondition(c *Condition) *Condition {
	if t, ok := r.Target.(*Condition); ok && t == c {
		return r.With.(*Condition).Clone()
	}
	return rebuildCondition(r, c)
}

func (r Replace) CopyExpression(e *Expression) *Expression {
	if t, ok := r.Target.(*Expression); ok && t == e {
		return r.With.(*Expression).Clone()
	}
	return rebuildExpression(r, e)
}

func (r Replace) CopyCommand(c *Command) Command {
	if t, ok := r.Target.(*Command); ok && t == c {
		return *r.With.(*Command)
	}
	return *c
}

func (r Replace) CopySensor(s *Sensor) Sensor {
	if t, ok := r.Target.(*Sensor); ok && t == s {
		return *r.With.(*Sensor)
	}
	return *s
}

func rebuildProgram(c Copier, p *Program) *Program {
	if p.Kind == ProgramIf {
		return &Program{
			Kind: ProgramIf,
			Cond: c.CopyCondition(p.Cond),
			Then: c.CopyProgram(p.Then),
			Else: c.CopyProgram(p.Else),
		}
	}
	return &Program{Kind: ProgramCommand, Command: c.CopyCommand(&p.Command)}
}

func rebuildCondition(c Copier, cd *Condition) *Condition {
	out := &Condition{Kind: cd.Kind}
	switch {
	case cd.Kind == CondNot:
		out.A = c.CopyCondition(cd.A)
	case cd.Kind.Logical():
		out.A = c.CopyCondition(cd.A)
		out.B = c.CopyCondition(cd.B)
	case cd.Kind.Comparison():
		out.L = c.CopyExpression(cd.L)
		out.R = c.CopyExpression(cd.R)
	}
	return out
}

func rebuildExpression(c Copier, e *Expression) *Expression {
	switch e.Kind {
	case ExprConstant:
		return &Expression{Kind: ExprConstant, Const: e.Const}
	case ExprSensor:
		return &Expression{Kind: ExprSensor, Sensor: c.CopySensor(&e.Sensor)}
	}
	return &Expression{Kind: e.Kind, L: c.CopyExpression(e.L), R: c.CopyExpression(e.R)}
}

package ast

// Visitor receives every node of a tree during Accept. Commands and sensors
// are passed by pointer into their enclosing node so that they can be
// addressed for replacement like the composite nodes.
type Visitor interface {
	VisitProgram(p *Program)
	VisitCondition(c *Condition)
	VisitExpression(e *Expression)
	VisitCommand(c *Command)
	VisitSensor(s *Sensor)
}

func (p *Program) Accept(v Visitor) {
	v.VisitProgram(p)
	if p.Kind == ProgramIf {
		p.Cond.Accept(v)
		p.Then.Accept(v)
		p.Else.Accept(v)
		return
	}
	v.VisitCommand(&p.Command)
}

func (c *Condition) Accept(v Visitor) {
	v.VisitCondition(c)
	switch {
	case c.Kind == CondNot:
		c.A.Accept(v)
	case c.Kind.Logical():
		c.A.Accept(v)
		c.B.Accept(v)
	case c.Kind.Comparison():
		c.L.Accept(v)
		c.R.Accept(v)
	}
}

func (e *Expression) Accept(v Visitor) {
	v.VisitExpression(e)
	switch e.Kind {
	case ExprConstant:
	case ExprSensor:
		v.VisitSensor(&e.Sensor)
	default:
		e.L.Accept(v)
		e.R.Accept(v)
	}
}

// NodeType names the five kinds of addressable nodes.
type NodeType int

const (
	NodeProgram NodeType = iota
	NodeCondition
	NodeExpression
	NodeCommand
	NodeSensor
)

// NodeTypes lists every node type in declaration order.
var NodeTypes = []NodeType{NodeProgram, NodeCondition, NodeExpression, NodeCommand, NodeSensor}

func (t NodeType) String() string {
	switch t {
	case NodeProgram:
		return "program"
	case NodeCondition:
		return "condition"
	case NodeExpression:
		return "expression"
	case NodeCommand:
		return "command"
	case NodeSensor:
		return "sensor"
	}
	return "unknown"
}

// BucketCollector is a Visitor that collects pointers to all nodes, one
// bucket per node type, in visiting order.
type BucketCollector struct {
	Programs    []*Program
	Conditions  []*Condition
	Expressions []*Expression
	Commands    []*Command
	Sensors     []*Sensor
}

// Collect walks n and returns the filled collector.
func Collect(n Node) *BucketCollector {
	b := &BucketCollector{}
	n.Accept(b)
	return b
}

func (b *BucketCollector) VisitProgram(p *Program)       { b.Programs = append(b.Programs, p) }
func (b *BucketCollector) VisitCondition(c *Condition)   { b.Conditions = append(b.Conditions, c) }
func (b *BucketCollector) VisitExpression(e *Expression) { b.Expressions = append(b.Expressions, e) }
func (b *BucketCollector) VisitCommand(c *Command)       { b.Commands = append(b.Commands, c) }
func (b *BucketCollector) VisitSensor(s *Sensor)         { b.Sensors = append(b.Sensors, s) }

// Count returns the number of collected nodes of type t.
func (b *BucketCollector) Count(t NodeType) int {
	switch t {
	case NodeProgram:
		return len(b.Programs)
	case NodeCondition:
		return len(b.Conditions)
	case NodeExpression:
		return len(b.Expressions)
	case NodeCommand:
		return len(b.Commands)
	case NodeSensor:
		return len(b.Sensors)
	}
	return 0
}

// Total returns the number of collected nodes of all types.
func (b *BucketCollector) Total() int {
	n := 0
	for _, t := range NodeTypes {
		n += b.Count(t)
	}
	return n
}

// Node returns the i-th collected node of type t as an untyped pointer.
func (b *BucketCollector) Node(t NodeType, i int) any {
	switch t {
	case NodeProgram:
		return b.Programs[i]
	case NodeCondition:
		return b.Conditions[i]
	case NodeExpression:
		return b.Expressions[i]
	case NodeCommand:
		return b.Commands[i]
	case NodeSensor:
		return b.Sensors[i]
	}
	return nil
}

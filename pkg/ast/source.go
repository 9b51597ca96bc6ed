package ast

import (
	"slices"
	"strconv"
	"strings"
)

// Builder notation names. Each node renders as name(args...), which is the
// form accepted by the Parse functions.
var (
	commandSource = map[Command]string{
		CommandSkip:   "skip",
		CommandLeft:   "left",
		CommandRight:  "right",
		CommandThrust: "thrust",
	}
	sensorSource = map[Sensor]string{
		SensorX:    "x",
		SensorY:    "y",
		SensorVx:   "vx",
		SensorVy:   "vy",
		SensorO:    "o",
		SensorW:    "w",
		SensorFuel: "fuel",
	}
	conditionSource = map[ConditionKind]string{
		CondTrue:         "T",
		CondFalse:        "F",
		CondNot:          "not",
		CondOr:           "or",
		CondAnd:          "and",
		CondLess:         "less",
		CondLessEqual:    "less_equal",
		CondEqual:        "equal",
		CondGreaterEqual: "greater_equal",
		CondGreater:      "greater",
	}
	expressionSource = map[ExpressionKind]string{
		ExprConstant: "constant",
		ExprPlus:     "plus",
		ExprMinus:    "minus",
		ExprMultiply: "multiply",
		ExprDivide:   "divide",
	}
)

const programIfSource = "iff"

// Source renders the program in builder notation, for example
// iff(less(vy(),constant(-2.0000)),thrust(),skip()).
func (p *Program) Source() string {
	var b strings.Builder
	p.writeSource(&b)
	return b.String()
}

func (p *Program) writeSource(b *strings.Builder) {
	if p.Kind == ProgramIf {
		b.WriteString(programIfSource)
		b.WriteByte('(')
		p.Cond.writeSource(b)
		b.WriteByte(',')
		p.Then.writeSource(b)
		b.WriteByte(',')
		p.Else.writeSource(b)
		b.WriteByte(')')
		return
	}
	b.WriteString(commandSource[p.Command])
	b.WriteString("()")
}

func (c *Condition) Source() string {
	var b strings.Builder
	c.writeSource(&b)
	return b.String()
}

func (c *Condition) writeSource(b *strings.Builder) {
	b.WriteString(conditionSource[c.Kind])
	b.WriteByte('(')
	switch {
	case c.Kind == CondNot:
		c.A.writeSource(b)
	case c.Kind.Logical():
		c.A.writeSource(b)
		b.WriteByte(',')
		c.B.writeSource(b)
	case c.Kind.Comparison():
		c.L.writeSource(b)
		b.WriteByte(',')
		c.R.writeSource(b)
	}
	b.WriteByte(')')
}

// Source renders the expression. Constants are written with four decimals,
// so Source is not lossless; use the JSON encoding to preserve values.
func (e *Expression) Source() string {
	var b strings.Builder
	e.writeSource(&b)
	return b.String()
}

func (e *Expression) writeSource(b *strings.Builder) {
	switch e.Kind {
	case ExprConstant:
		b.WriteString(expressionSource[ExprConstant])
		b.WriteByte('(')
		b.WriteString(strconv.FormatFloat(e.Const, 'f', 4, 64))
		b.WriteByte(')')
	case ExprSensor:
		b.WriteString(sensorSource[e.Sensor])
		b.WriteString("()")
	default:
		b.WriteString(expressionSource[e.Kind])
		b.WriteByte('(')
		e.L.writeSource(b)
		b.WriteByte(',')
		e.R.writeSource(b)
		b.WriteByte(')')
	}
}

// BuilderNames returns every name of the builder notation in sorted order.
func BuilderNames() []string {
	names := []string{programIfSource}
	for _, n := range commandSource {
		names = append(names, n)
	}
	for _, n := range sensorSource {
		names = append(names, n)
	}
	for _, n := range conditionSource {
		names = append(names, n)
	}
	for _, n := range expressionSource {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

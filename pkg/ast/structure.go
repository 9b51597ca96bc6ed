package ast

import (
	"fmt"
	"strconv"
)

// Number is the numeric type used by expressions and the simulation.
type Number = float64

// Node is implemented by the three composite node types: *Program,
// *Condition and *Expression.
type Node interface {
	fmt.Stringer

	// Source renders the node in builder notation; see ParseProgram.
	Source() string

	// Depth returns the height of the tree rooted at the node.
	Depth() int

	// Accept walks the tree in pre-order, calling v for every node.
	Accept(v Visitor)
}

// Sensor names one reading of the lander state.
type Sensor int

// Sensors available to expressions.
const (
	SensorX Sensor = iota
	SensorY
	SensorVx
	SensorVy
	SensorO
	SensorW
	SensorFuel
)

// AllSensors lists every sensor in declaration order.
var AllSensors = []Sensor{SensorX, SensorY, SensorVx, SensorVy, SensorO, SensorW, SensorFuel}

var sensorNames = [...]string{"X", "Y", "Vx", "Vy", "O", "W", "Fuel"}

func (s Sensor) String() string {
	if s < 0 || int(s) >= len(sensorNames) {
		return "Sensor(" + strconv.Itoa(int(s)) + ")"
	}
	return sensorNames[s]
}

// Valid reports whether s is one of the declared sensors.
func (s Sensor) Valid() bool {
	return s >= 0 && int(s) < len(sensorNames)
}

// Command is the action a program selects for one simulation frame.
type Command int

// Commands understood by the simulation.
const (
	CommandSkip Command = iota
	CommandLeft
	CommandRight
	CommandThrust
)

// AllCommands lists every command in declaration order.
var AllCommands = []Command{CommandSkip, CommandLeft, CommandRight, CommandThrust}

var commandNames = [...]string{"Skip", "Left", "Right", "Thrust"}

func (c Command) String() string {
	if c < 0 || int(c) >= len(commandNames) {
		return "Command(" + strconv.Itoa(int(c)) + ")"
	}
	return commandNames[c]
}

// Valid reports whether c is one of the declared commands.
func (c Command) Valid() bool {
	return c >= 0 && int(c) < len(commandNames)
}

// ProgramKind discriminates Program variants.
type ProgramKind int

const (
	ProgramCommand ProgramKind = iota
	ProgramIf
)

// Program is the root of a control program. An If program holds Cond, Then
// and Else; a Command program holds Command.
type Program struct {
	Kind    ProgramKind
	Cond    *Condition
	Then    *Program
	Else    *Program
	Command Command
}

func (p *Program) String() string {
	if p.Kind == ProgramIf {
		return fmt.Sprintf("(%s then %s else %s)", p.Cond, p.Then, p.Else)
	}
	return p.Command.String()
}

// ConditionKind discriminates Condition variants.
type ConditionKind int

const (
	CondTrue ConditionKind = iota
	CondFalse
	CondNot
	CondOr
	CondAnd
	CondLess
	CondLessEqual
	CondEqual
	CondGreaterEqual
	CondGreater
)

var conditionNames = [...]string{
	"True", "False", "Not", "Or", "And",
	"Less", "LessEqual", "Equal", "GreaterEqual", "Greater",
}

func (k ConditionKind) String() string {
	if k < 0 || int(k) >= len(conditionNames) {
		return "ConditionKind(" + strconv.Itoa(int(k)) + ")"
	}
	return conditionNames[k]
}

// Logical reports whether conditions of this kind hold sub-conditions.
func (k ConditionKind) Logical() bool {
	return k == CondNot || k == CondOr || k == CondAnd
}

// Comparison reports whether conditions of this kind compare expressions.
func (k ConditionKind) Comparison() bool {
	return k >= CondLess && k <= CondGreater
}

// Condition is a boolean test. Not uses A; Or and And use A and B;
// comparisons use L and R.
type Condition struct {
	Kind ConditionKind
	A    *Condition
	B    *Condition
	L    *Expression
	R    *Expression
}

var comparisonOps = map[ConditionKind]string{
	CondLess:         "<",
	CondLessEqual:    "<=",
	CondEqual:        "==",
	CondGreaterEqual: ">=",
	CondGreater:      ">",
}

func (c *Condition) String() string {
	switch c.Kind {
	case CondTrue:
		return "True"
	case CondFalse:
		return "False"
	case CondNot:
		return "!" + c.A.String()
	case CondOr:
		return fmt.Sprintf("(%s || %s)", c.A, c.B)
	case CondAnd:
		return fmt.Sprintf("(%s && %s)", c.A, c.B)
	default:
		return fmt.Sprintf("(%s %s %s)", c.L, comparisonOps[c.Kind], c.R)
	}
}

// ExpressionKind discriminates Expression variants.
type ExpressionKind int

const (
	ExprConstant ExpressionKind = iota
	ExprSensor
	ExprPlus
	ExprMinus
	ExprMultiply
	ExprDivide
)

var expressionNames = [...]string{"Constant", "Sensor", "Plus", "Minus", "Multiply", "Divide"}

func (k ExpressionKind) String() string {
	if k < 0 || int(k) >= len(expressionNames) {
		return "ExpressionKind(" + strconv.Itoa(int(k)) + ")"
	}
	return expressionNames[k]
}

// Arithmetic reports whether expressions of this kind have two operands.
func (k ExpressionKind) Arithmetic() bool {
	return k >= ExprPlus && k <= ExprDivide
}

// Expression is a numeric term. Constant uses Const, Sensor uses Sensor and
// the arithmetic kinds use L and R.
type Expression struct {
	Kind   ExpressionKind
	Const  Number
	Sensor Sensor
	L      *Expression
	R      *Expression
}

var arithmeticOps = map[ExpressionKind]string{
	ExprPlus:     "+",
	ExprMinus:    "-",
	ExprMultiply: "*",
	ExprDivide:   "/",
}

func (e *Expression) String() string {
	switch e.Kind {
	case ExprConstant:
		return strconv.FormatFloat(e.Const, 'g', -1, 64)
	case ExprSensor:
		return e.Sensor.String()
	default:
		return fmt.Sprintf("(%s %s %s)", e.L, arithmeticOps[e.Kind], e.R)
	}
}

// Equal reports whether two programs are structurally identical.
func (p *Program) Equal(o *Program) bool {
	if p == nil || o == nil {
		return p == o
	}
	if p.Kind != o.Kind {
		return false
	}
	if p.Kind == ProgramCommand {
		return p.Command == o.Command
	}
	return p.Cond.Equal(o.Cond) && p.Then.Equal(o.Then) && p.Else.Equal(o.Else)
}

// Equal reports whether two conditions are structurally identical.
func (c *Condition) Equal(o *Condition) bool {
	if c == nil || o == nil {
		return c == o
	}
	if c.Kind != o.Kind {
		return false
	}
	switch {
	case c.Kind == CondNot:
		return c.A.Equal(o.A)
	case c.Kind.Logical():
		return c.A.Equal(o.A) && c.B.Equal(o.B)
	case c.Kind.Comparison():
		return c.L.Equal(o.L) && c.R.Equal(o.R)
	}
	return true
}

// Equal reports whether two expressions are structurally identical.
// Constants compare with ==, so NaN constants are never equal.
func (e *Expression) Equal(o *Expression) bool {
	if e == nil || o == nil {
		return e == o
	}
	if e.Kind != o.Kind {
		return false
	}
	switch e.Kind {
	case ExprConstant:
		return e.Const == o.Const
	case ExprSensor:
		return e.Sensor == o.Sensor
	}
	return e.L.Equal(o.L) && e.R.Equal(o.R)
}

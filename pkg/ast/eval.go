package ast

// Readings supplies sensor values to evaluation. The simulation's
// SensorData implements it.
type Readings interface {
	Sensor(s Sensor) Number
}

// ReadingsFunc adapts a function to the Readings interface.
type ReadingsFunc func(s Sensor) Number

func (f ReadingsFunc) Sensor(s Sensor) Number { return f(s) }

// Evaluate returns the command the program selects for the given readings.
func (p *Program) Evaluate(r Readings) Command {
	for p.Kind == ProgramIf {
		if p.Cond.Value(r) {
			p = p.Then
		} else {
			p = p.Else
		}
	}
	return p.Command
}

// Value returns the truth value of the condition. Comparisons follow IEEE
// semantics, so any comparison involving NaN is false.
func (c *Condition) Value(r Readings) bool {
	switch c.Kind {
	case CondTrue:
		return true
	case CondFalse:
		return false
	case CondNot:
		return !c.A.Value(r)
	case CondOr:
		return c.A.Value(r) || c.B.Value(r)
	case CondAnd:
		return c.A.Value(r) && c.B.Value(r)
	}
	return compare(c.Kind, c.L.Value(r), c.R.Value(r))
}

func compare(kind ConditionKind, l, r Number) bool {
	switch kind {
	case CondLess:
		return l < r
	case CondLessEqual:
		return l <= r
	case CondEqual:
		return l == r
	case CondGreaterEqual:
		return l >= r
	case CondGreater:
		return l > r
	}
	return false
}

// Value computes the expression. Division by zero yields ±Inf or NaN.
func (e *Expression) Value(r Readings) Number {
	switch e.Kind {
	case ExprConstant:
		return e.Const
	case ExprSensor:
		return r.Sensor(e.Sensor)
	}
	return arith(e.Kind, e.L.Value(r), e.R.Value(r))
}

func arith(kind ExpressionKind, l, r Number) Number {
	switch kind {
	case ExprPlus:
		return l + r
	case ExprMinus:
		return l - r
	case ExprMultiply:
		return l * r
	case ExprDivide:
		return l / r
	}
	return 0
}

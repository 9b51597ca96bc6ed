package ast

// Builders for writing trees by hand. Every builder returns a fresh node;
// arguments are linked, not copied.

// If returns a program that runs then when cond holds and otherwise els.
func If(cond *Condition, then, els *Program) *Program {
	return &Program{Kind: ProgramIf, Cond: cond, Then: then, Else: els}
}

// Do returns a program consisting of a single command.
func Do(c Command) *Program {
	return &Program{Kind: ProgramCommand, Command: c}
}

func Skip() *Program   { return Do(CommandSkip) }
func Left() *Program   { return Do(CommandLeft) }
func Right() *Program  { return Do(CommandRight) }
func Thrust() *Program { return Do(CommandThrust) }

func True() *Condition  { return &Condition{Kind: CondTrue} }
func False() *Condition { return &Condition{Kind: CondFalse} }

func Not(c *Condition) *Condition {
	return &Condition{Kind: CondNot, A: c}
}

func Or(a, b *Condition) *Condition {
	return &Condition{Kind: CondOr, A: a, B: b}
}

func And(a, b *Condition) *Condition {
	return &Condition{Kind: CondAnd, A: a, B: b}
}

// Compare returns a comparison condition of the given kind. It panics when
// kind is not a comparison.
func Compare(kind ConditionKind, l, r *Expression) *Condition {
	if !kind.Comparison() {
		panic("ast: Compare with non-comparison kind " + kind.String())
	}
	return &Condition{Kind: kind, L: l, R: r}
}

func Less(l, r *Expression) *Condition         { return Compare(CondLess, l, r) }
func LessEqual(l, r *Expression) *Condition    { return Compare(CondLessEqual, l, r) }
func Equal(l, r *Expression) *Condition        { return Compare(CondEqual, l, r) }
func GreaterEqual(l, r *Expression) *Condition { return Compare(CondGreaterEqual, l, r) }
func Greater(l, r *Expression) *Condition      { return Compare(CondGreater, l, r) }

func Constant(v Number) *Expression {
	return &Expression{Kind: ExprConstant, Const: v}
}

// Read returns an expression reading sensor s.
func Read(s Sensor) *Expression {
	return &Expression{Kind: ExprSensor, Sensor: s}
}

func X() *Expression    { return Read(SensorX) }
func Y() *Expression    { return Read(SensorY) }
func Vx() *Expression   { return Read(SensorVx) }
func Vy() *Expression   { return Read(SensorVy) }
func O() *Expression    { return Read(SensorO) }
func W() *Expression    { return Read(SensorW) }
func Fuel() *Expression { return Read(SensorFuel) }

// Arith returns an arithmetic expression of the given kind. It panics when
// kind is not arithmetic.
func Arith(kind ExpressionKind, l, r *Expression) *Expression {
	if !kind.Arithmetic() {
		panic("ast: Arith with non-arithmetic kind " + kind.String())
	}
	return &Expression{Kind: kind, L: l, R: r}
}

func Plus(l, r *Expression) *Expression     { return Arith(ExprPlus, l, r) }
func Minus(l, r *Expression) *Expression    { return Arith(ExprMinus, l, r) }
func Multiply(l, r *Expression) *Expression { return Arith(ExprMultiply, l, r) }
func Divide(l, r *Expression) *Expression   { return Arith(ExprDivide, l, r) }

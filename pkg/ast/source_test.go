package ast

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourcePrograms(t *testing.T) {
	assert.Equal(t, "iff(T(),skip(),left())", If(True(), Skip(), Left()).Source())
	assert.Equal(t, "skip()", Skip().Source())
	assert.Equal(t, "right()", Right().Source())
	assert.Equal(t, "thrust()", Thrust().Source())
}

func TestSourceConditions(t *testing.T) {
	one, two := Constant(1), Constant(2)
	tests := []struct {
		cond *Condition
		want string
	}{
		{True(), "T()"},
		{False(), "F()"},
		{Not(True()), "not(T())"},
		{Or(True(), False()), "or(T(),F())"},
		{And(False(), True()), "and(F(),T())"},
		{Less(one, two), "less(constant(1.0000),constant(2.0000))"},
		{LessEqual(one, two), "less_equal(constant(1.0000),constant(2.0000))"},
		{Equal(one, two), "equal(constant(1.0000),constant(2.0000))"},
		{GreaterEqual(one, two), "greater_equal(constant(1.0000),constant(2.0000))"},
		{Greater(one, two), "greater(constant(1.0000),constant(2.0000))"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cond.Source())
		})
	}
}

func TestSourceExpressions(t *testing.T) {
	assert.Equal(t, "constant(1.0000)", Constant(1).Source())
	assert.Equal(t, "constant(-0.1235)", Constant(-0.12345678).Source())
	assert.Equal(t, "plus(constant(1.0000),vy())", Plus(Constant(1), Vy()).Source())
	assert.Equal(t, "minus(x(),y())", Minus(X(), Y()).Source())
	assert.Equal(t, "multiply(o(),w())", Multiply(O(), W()).Source())
	assert.Equal(t, "divide(vx(),fuel())", Divide(Vx(), Fuel()).Source())
}

func TestParseRoundTrip(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewPCG(1, 2)), 6)

	for range 100 {
		program := gen.Program()
		src := program.Source()

		parsed, err := ParseProgram(src)
		require.NoError(t, err, src)
		assert.Equal(t, src, parsed.Source())
	}
}

func TestParseToleratesWhitespace(t *testing.T) {
	program, err := ParseProgram(" iff( less( vy() , constant( -2.5 ) ),\n\tthrust(), skip() ) ")
	require.NoError(t, err)

	assert.True(t, If(Less(Vy(), Constant(-2.5)), Thrust(), Skip()).Equal(program))
}

func TestParseConditionAndExpression(t *testing.T) {
	cond, err := ParseCondition("and(not(F()),greater_equal(fuel(),constant(0.1)))")
	require.NoError(t, err)
	assert.Equal(t, "(!False && (Fuel >= 0.1))", cond.String())

	expr, err := ParseExpression("divide(constant(NaN),constant(+Inf))")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(expr.L.Const))
	assert.True(t, math.IsInf(expr.R.Const, 1))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"unknown program", "jump()"},
		{"unknown condition", "iff(maybe(),skip(),skip())"},
		{"missing argument", "iff(T(),skip())"},
		{"unclosed", "iff(T(),skip(),left()"},
		{"bad number", "iff(less(constant(abc),y()),skip(),left())"},
		{"trailing input", "skip() skip()"},
		{"expression where program expected", "vy()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProgram(tt.src)
			assert.ErrorIs(t, err, ErrSyntax)
		})
	}
}

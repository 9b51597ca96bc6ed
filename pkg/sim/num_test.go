package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSquare(t *testing.T) {
	assert.Equal(t, 9.0, Square(-3))
	assert.Equal(t, 0.25, Square(0.5))
}

func TestAngleDist(t *testing.T) {
	tests := []struct {
		o, want float64
	}{
		{0, 0},
		{0.5, 0.5},
		{-0.5, 0.5},
		{math.Pi, math.Pi},
		{3 * math.Pi / 2, math.Pi / 2},
		{2 * math.Pi, 0},
		{4*math.Pi + 0.25, 0.25},
		{-3 * math.Pi / 2, math.Pi / 2},
	}

	for _, tt := range tests {
		got := AngleDist(tt.o)
		assert.InDelta(t, tt.want, got, 1e-9, "AngleDist(%v)", tt.o)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, math.Pi)
	}
}

func TestPartialMax(t *testing.T) {
	less := func(a, b float64) bool { return a < b }

	assert.Equal(t, -1, PartialMax(nil, less))
	assert.Equal(t, 2, PartialMax([]float64{1, 3, 7, 2}, less))
	assert.Equal(t, 1, PartialMax([]float64{1, 7, 7}, less), "first maximum wins")
	assert.Equal(t, 1, PartialMax([]float64{1, 4, math.NaN(), 2}, less), "NaN never wins")
}

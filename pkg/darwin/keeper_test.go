package darwin

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/lander/pkg/ast"
)

func TestOptimumKeeper(t *testing.T) {
	var k OptimumKeeper[*ast.Program]

	_, _, _, ok := k.Best()
	assert.False(t, ok)

	first := ast.If(ast.True(), ast.Thrust(), ast.Skip())
	assert.True(t, k.Improved(first, NewScoreCard(Score{"s", 5}), 1))

	best, score, generation, ok := k.Best()
	assert.True(t, ok)
	assert.Equal(t, "thrust()", best.Source(), "the simplified program is kept")
	assert.Equal(t, 5.0, score.Total())
	assert.Equal(t, 1, generation)

	assert.False(t, k.Improved(ast.Left(), NewScoreCard(Score{"s", 5}), 2), "ties do not replace")
	assert.False(t, k.Improved(ast.Left(), NewScoreCard(Score{"s", 1}), 3))
	assert.True(t, k.Improved(ast.Left(), NewScoreCard(Score{"s", 9}), 4))

	best, _, generation, _ = k.Best()
	assert.Equal(t, "left()", best.Source())
	assert.Equal(t, 4, generation)
}

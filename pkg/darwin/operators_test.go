package darwin

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/lander/pkg/ast"
)

func TestMutateLeavesParentIntact(t *testing.T) {
	gen := ast.NewGenerator(rand.New(rand.NewPCG(6, 6)), 6)
	parent := ast.If(ast.Less(ast.Vy(), ast.Constant(-2)), ast.Thrust(), ast.Skip())
	before := parent.Source()

	changed := 0
	for range 100 {
		child := Mutate(parent, gen)
		if child.Source() != before {
			changed++
		}
	}

	assert.Equal(t, before, parent.Source())
	assert.Greater(t, changed, 50)
}

func TestMutateCondition(t *testing.T) {
	gen := ast.NewGenerator(rand.New(rand.NewPCG(6, 7)), 4)

	for range 50 {
		child := Mutate(ast.True(), gen)
		assert.LessOrEqual(t, child.Depth(), 4)
	}
}

func TestMutateStaysWithinMaxDepth(t *testing.T) {
	const limit = 6
	gen := ast.NewGenerator(rand.New(rand.NewPCG(3, 8)), limit)

	deep := 0
	for range 300 {
		parent := gen.Program()
		if parent.Depth() >= 5 {
			deep++
		}
		for range 5 {
			child := Mutate(parent, gen)
			assert.LessOrEqual(t, child.Depth(), limit, child.Source())
		}
	}
	assert.Positive(t, deep, "some parents are near the limit")
}

func TestCrossoverConservesNodes(t *testing.T) {
	rng := rand.New(rand.NewPCG(8, 9))
	gen := ast.NewGenerator(rng, 6)

	for range 200 {
		a, b := gen.Program(), gen.Program()
		srcA, srcB := a.Source(), b.Source()

		x, y := Crossover(a, b, rng)

		assert.Equal(t, ast.Size(a)+ast.Size(b), ast.Size(x)+ast.Size(y))
		assert.Equal(t, srcA, a.Source(), "parents are not modified")
		assert.Equal(t, srcB, b.Source())
	}
}

func TestCrossoverSwapsSubtrees(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 4))
	a := ast.Left()
	b := ast.Right()

	x, y := Crossover(a, b, rng)

	// Only programs and commands are shared; either swap exchanges the trees.
	assert.Equal(t, "right()", x.Source())
	assert.Equal(t, "left()", y.Source())
}

func TestCrossoverRepeatedly(t *testing.T) {
	rng := rand.New(rand.NewPCG(2, 2))
	gen := ast.NewGenerator(rng, 5)

	program := gen.Condition()
	for range 100 {
		program, _ = Crossover(program, gen.Condition(), rng)
	}
	assert.NotNil(t, program)
}

package darwin

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/lander/pkg/ast"
)

// commandCounter sums the enum values of commands and sensors in a tree.
type commandCounter struct{ value int }

func (c *commandCounter) VisitProgram(*ast.Program)       {}
func (c *commandCounter) VisitCondition(*ast.Condition)   {}
func (c *commandCounter) VisitExpression(*ast.Expression) {}
func (c *commandCounter) VisitCommand(cmd *ast.Command)   { c.value += int(*cmd) }
func (c *commandCounter) VisitSensor(s *ast.Sensor)       { c.value += int(*s) }

var countScorer = ScorerFunc[*ast.Program](func(p *ast.Program, _ *rand.Rand) ScoreCard {
	c := &commandCounter{}
	p.Accept(c)
	return NewScoreCard(Score{"score", float64(c.value)})
})

func commandPopulation(t *testing.T) *Population[*ast.Program] {
	t.Helper()
	p := NewPopulation[*ast.Program](4, 1)
	p.Add(ast.Skip())
	p.Add(ast.Left())
	p.Add(ast.Right())
	p.Add(ast.Thrust())
	require.NoError(t, p.Score(context.Background(), countScorer, 2, rand.New(rand.NewPCG(1, 1))))
	return p
}

func totals(p *Population[*ast.Program]) []float64 {
	var out []float64
	for _, s := range p.Scores {
		out = append(out, s.Total())
	}
	return out
}

func TestPopulationScoring(t *testing.T) {
	p := commandPopulation(t)

	assert.Equal(t, []float64{0, 1, 2, 3}, totals(p))
	assert.True(t, p.Scored())
	assert.Equal(t, 4, p.Len())
}

func TestScoreIsIndependentOfWorkers(t *testing.T) {
	gen := ast.NewGenerator(rand.New(rand.NewPCG(4, 4)), 6)
	noisy := ScorerFunc[*ast.Program](func(p *ast.Program, rng *rand.Rand) ScoreCard {
		return NewScoreCard(Score{"noise", rng.Float64()}, Score{"size", float64(ast.Size(p))})
	})

	score := func(workers int) []float64 {
		p := RandomPopulation(50, gen.Program)
		require.NoError(t, p.Score(context.Background(), noisy, workers, rand.New(rand.NewPCG(9, 9))))
		return totals(p)
	}

	gen.Rand = rand.New(rand.NewPCG(4, 4))
	serial := score(1)
	gen.Rand = rand.New(rand.NewPCG(4, 4))
	parallel := score(8)

	assert.Equal(t, serial, parallel)
}

func TestScoreErrors(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))

	empty := NewPopulation[*ast.Program](0, 0)
	assert.ErrorIs(t, empty.Score(context.Background(), countScorer, 1, rng), ErrEmptyPopulation)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := RandomPopulation(10, ast.Skip)
	assert.ErrorIs(t, p.Score(ctx, countScorer, 1, rng), context.Canceled)
	assert.False(t, p.Scored())
}

func TestAddInvalidatesScores(t *testing.T) {
	p := commandPopulation(t)
	p.Add(ast.Left())

	assert.False(t, p.Scored())
	_, _, err := p.Winner()
	assert.ErrorIs(t, err, ErrUnscored)
}

func TestSelectTournamentWinner(t *testing.T) {
	p := commandPopulation(t)
	rng := rand.New(rand.NewPCG(2, 3))

	// Large tournaments see every individual.
	i, err := p.SelectTournamentWinner(200, rng)
	require.NoError(t, err)
	assert.Equal(t, 3, i)

	for range 50 {
		i, err := p.SelectTournamentWinner(1, rng)
		require.NoError(t, err)
		assert.Less(t, i, 4)
	}

	_, err = NewPopulation[*ast.Program](1, 0).SelectTournamentWinner(2, rng)
	assert.ErrorIs(t, err, ErrEmptyPopulation)
}

func TestWinner(t *testing.T) {
	p := commandPopulation(t)

	winner, score, err := p.Winner()
	require.NoError(t, err)
	assert.Equal(t, "thrust()", winner.Source())
	assert.Equal(t, 3.0, score.Total())
}

func TestPickTwoIsDistinct(t *testing.T) {
	p := commandPopulation(t)
	rng := rand.New(rand.NewPCG(5, 5))

	for range 100 {
		// Tournament size 100 nearly always returns the best individual.
		i, j, err := p.PickTwo(100, rng)
		require.NoError(t, err)
		assert.NotEqual(t, i, j)
	}
}

func TestPickTwoNeedsTwo(t *testing.T) {
	p := RandomPopulation(1, ast.Skip)
	require.NoError(t, p.Score(context.Background(), countScorer, 1, rand.New(rand.NewPCG(1, 1))))

	_, _, err := p.PickTwo(2, rand.New(rand.NewPCG(1, 1)))
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestEvolve(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 12))
	gen := ast.NewGenerator(rng, 6)

	p := RandomPopulation(60, gen.Program)
	params := Params{TournamentSize: 5, ReproduceWeight: 1, MutateWeight: 1, CrossoverWeight: 1, MaxDepth: 6}

	for range 5 {
		require.NoError(t, p.Score(context.Background(), countScorer, 4, rng))
		next, err := p.Evolve(context.Background(), params, rng)
		require.NoError(t, err)

		assert.Equal(t, p.Len(), next.Len())
		assert.Equal(t, p.Generation+1, next.Generation)
		assert.False(t, next.Scored())
		for _, program := range next.Programs {
			assert.LessOrEqual(t, program.Depth(), 6)
		}
		p = next
	}
}

func TestEvolveReproduceOnlyCopiesWinners(t *testing.T) {
	p := commandPopulation(t)
	params := Params{TournamentSize: 200, ReproduceWeight: 1}

	next, err := p.Evolve(context.Background(), params, rand.New(rand.NewPCG(3, 3)))
	require.NoError(t, err)

	for _, program := range next.Programs {
		assert.Equal(t, "thrust()", program.Source())
		assert.NotSame(t, p.Programs[3], program)
	}
}

func TestEvolveErrors(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	scored := commandPopulation(t)

	_, err := RandomPopulation(3, ast.Skip).Evolve(context.Background(), DefaultParams(), rng)
	assert.ErrorIs(t, err, ErrUnscored)

	_, err = scored.Evolve(context.Background(), Params{TournamentSize: 0, MutateWeight: 1}, rng)
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = scored.Evolve(context.Background(), Params{TournamentSize: 2}, rng)
	assert.ErrorIs(t, err, ErrInvalidParams)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = scored.Evolve(ctx, DefaultParams(), rng)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEvolveSingleIndividualSkipsCrossover(t *testing.T) {
	p := RandomPopulation(1, ast.Left)
	rng := rand.New(rand.NewPCG(1, 1))
	require.NoError(t, p.Score(context.Background(), countScorer, 1, rng))

	next, err := p.Evolve(context.Background(), Params{TournamentSize: 1, ReproduceWeight: 1, CrossoverWeight: 5}, rng)
	require.NoError(t, err)
	assert.Equal(t, 1, next.Len())

	_, err = p.Evolve(context.Background(), Params{TournamentSize: 1, CrossoverWeight: 5}, rng)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestParamsValidate(t *testing.T) {
	assert.NoError(t, DefaultParams().Validate())

	bad := []Params{
		{TournamentSize: 0, ReproduceWeight: 1},
		{TournamentSize: 1, ReproduceWeight: -1, MutateWeight: 2},
		{TournamentSize: 1},
		{TournamentSize: 1, ReproduceWeight: 1, MaxDepth: -1},
	}
	for _, ps := range bad {
		assert.ErrorIs(t, ps.Validate(), ErrInvalidParams, "%+v", ps)
	}
}

package fitness

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/lander/pkg/ast"
	"github.com/mesh-intelligence/lander/pkg/darwin"
	"github.com/mesh-intelligence/lander/pkg/sim"
)

func value(t *testing.T, card darwin.ScoreCard, name string) float64 {
	t.Helper()
	v, ok := card.Value(name)
	require.True(t, ok, "missing %s", name)
	return v
}

func TestLandingFlightFreeFall(t *testing.T) {
	s := NewLandingScorer(sim.NewWorld(), 1)
	card := s.Flight(ast.False(), sim.NewSensorData().WithY(100))

	// 20 frames of free fall touch down at speed 10, above the limit.
	assert.Equal(t, 60.0, value(t, card, SurvivalBonus))
	assert.InDelta(t, 100.0, value(t, card, FuelBonus), 1e-9)
	assert.Equal(t, 10.0, value(t, card, HitGroundBonus))
	assert.Equal(t, -10.0, value(t, card, CrashPenalty))
	assert.Zero(t, value(t, card, SuccessBonus))
	assert.Less(t, value(t, card, HeightPenalty), 0.0)

	require.NotNil(t, card.Trace())
	assert.Equal(t, 20, card.Trace().Frames())
}

func TestLandingFlightHeightPenalty(t *testing.T) {
	s := NewLandingScorer(sim.NewWorld(), 1)
	card := s.Flight(ast.False(), sim.NewSensorData().WithY(100))

	var sum float64
	for n := range 20 {
		y := 100 - float64(n*(n+1))/4
		sum += y * y
	}
	assert.InDelta(t, -0.01*sum/20, value(t, card, HeightPenalty), 1e-9)
}

func TestLandingFlightWithoutFrames(t *testing.T) {
	s := NewLandingScorer(sim.NewWorld(), 1)
	start := sim.NewSensorData()
	start.HitGround = true

	card := s.Flight(ast.True(), start)

	assert.Zero(t, card.Trace().Frames())
	assert.Zero(t, value(t, card, SurvivalBonus))
	assert.Zero(t, value(t, card, FuelBonus))
	assert.False(t, math.IsNaN(card.Total()))
}

func TestLandingScorerUsesLowLandingLimit(t *testing.T) {
	s := NewLandingScorer(sim.NewWorld(), 1)
	assert.Equal(t, LandingMaxSpeed, s.World.MaxLandingSpeed)
	assert.Equal(t, sim.DefaultGravity, s.World.Gravity)
}

func TestLandingScoreKeepsBestTrial(t *testing.T) {
	s := NewLandingScorer(sim.NewWorld(), 3)
	cond := ast.Less(ast.Vy(), ast.Constant(-1))

	card := s.Score(cond, rand.New(rand.NewPCG(3, 5)))

	replay := rand.New(rand.NewPCG(3, 5))
	best := math.Inf(-1)
	for range 3 {
		best = math.Max(best, s.Flight(cond, LandingStart(replay)).Total())
	}

	penalty := -5 * float64(cond.Depth())
	assert.Equal(t, penalty, value(t, card, ComplexityPenalty))
	assert.InDelta(t, best+penalty, card.Total(), 1e-9)
	assert.NotNil(t, card.Trace())
}

func TestLandingStartRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	for range 1000 {
		d := LandingStart(rng)
		assert.GreaterOrEqual(t, d.Y, 50.0)
		assert.Less(t, d.Y, 650.0)
		assert.Zero(t, d.O)
		assert.Equal(t, 1.0, d.Fuel)
	}
}

func TestSurvivalFlight(t *testing.T) {
	s := SurvivalScorer{World: sim.NewWorld(), Trials: 1}

	score, trace := s.Flight(ast.Skip(), sim.NewSensorData().WithY(100))

	// 20 frames, highest point 99.5 after the first frame, landed.
	assert.Equal(t, 2*20-99.5+500, score)
	assert.Equal(t, 20, trace.Frames())
}

func TestSurvivalScoreAveragesTrials(t *testing.T) {
	s := SurvivalScorer{World: sim.NewWorld(), Trials: 4}
	program := ast.If(ast.Less(ast.Vy(), ast.Constant(-2)), ast.Thrust(), ast.Skip())

	card := s.Score(program, rand.New(rand.NewPCG(7, 7)))

	replay := rand.New(rand.NewPCG(7, 7))
	var sum float64
	for range 4 {
		v, _ := s.Flight(program, SurvivalStart(replay))
		sum += v
	}
	assert.InDelta(t, sum/4, card.Total(), 1e-9)
	assert.Len(t, card.Scores(), 1)
}

func TestSurvivalStartRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(2, 2))
	for range 1000 {
		d := SurvivalStart(rng)
		assert.GreaterOrEqual(t, d.Y, 50.0)
		assert.Less(t, d.Y, 150.0)
		assert.GreaterOrEqual(t, d.O, 0.0)
		assert.Less(t, d.O, 2*math.Pi)
	}
}

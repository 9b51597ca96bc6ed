// Package fitness scores lander controllers by flying them in simulations
// from random start positions.
package fitness

import (
	"math"
	"math/rand/v2"

	"github.com/mesh-intelligence/lander/pkg/ast"
	"github.com/mesh-intelligence/lander/pkg/darwin"
	"github.com/mesh-intelligence/lander/pkg/sim"
)

// Score component names.
const (
	SurvivalBonus     = "survival_bonus"
	HeightPenalty     = "height_penalty"
	FuelBonus         = "fuel_bonus"
	HitGroundBonus    = "hit_ground_bonus"
	CrashPenalty      = "crash_penalty"
	SuccessBonus      = "success_bonus"
	ComplexityPenalty = "complexity_penalty"
	SurvivalScore     = "survival_score"
)

// LandingMaxSpeed is the landing speed limit LandingScorer flies with.
const LandingMaxSpeed = 0.5

// LandingScorer rates thrust conditions: the lander starts upright at a
// random height in [50, 650) and thrusts while the condition holds. The
// best of Trials flights counts, less a penalty for the condition's depth.
type LandingScorer struct {
	World  sim.World
	Trials int
}

// NewLandingScorer returns a scorer flying in w with the landing speed
// limit lowered to LandingMaxSpeed.
func NewLandingScorer(w sim.World, trials int) LandingScorer {
	return LandingScorer{World: w.WithMaxLandingSpeed(LandingMaxSpeed), Trials: trials}
}

// LandingStart returns a random start for LandingScorer.
func LandingStart(rng *rand.Rand) sim.SensorData {
	return sim.NewSensorData().WithY(rng.Float64()*600 + 50)
}

var _ darwin.Scorer[*ast.Condition] = LandingScorer{}

func (s LandingScorer) Score(c *ast.Condition, rng *rand.Rand) darwin.ScoreCard {
	var best darwin.ScoreCard
	for i := range max(s.Trials, 1) {
		card := s.Flight(c, LandingStart(rng))
		if i == 0 || best.Less(card) {
			best = card
		}
	}
	return best.Add(ComplexityPenalty, -5*float64(c.Depth()))
}

// Flight scores a single flight of c from start. The card carries the
// flight's trace.
func (s LandingScorer) Flight(c *ast.Condition, start sim.SensorData) darwin.ScoreCard {
	final, trace := sim.Run(start, sim.ConditionController(c), s.World)

	var height, fuel float64
	states := trace.States()
	for _, d := range states[:len(states)-1] {
		height += sim.Square(d.Y)
		fuel += sim.Square(d.Fuel)
	}
	frames := float64(trace.Frames())
	// A start on the ground flies no frames and has no averages.
	per := max(frames, 1)

	return darwin.NewScoreCard(
		darwin.Score{Name: SurvivalBonus, Value: 3 * frames},
		darwin.Score{Name: HeightPenalty, Value: -0.01 * height / per},
		darwin.Score{Name: FuelBonus, Value: 100 * fuel / per},
		darwin.Score{Name: HitGroundBonus, Value: flag(final.HitGround, 10)},
		darwin.Score{Name: CrashPenalty, Value: -final.CrashSpeed},
		darwin.Score{Name: SuccessBonus, Value: flag(final.Landed, 10000)},
	).WithTrace(trace)
}

// SurvivalScorer rates full programs: the lander starts at a random height
// in [50, 150) with a random orientation. Each flight earns two points per
// frame survived, loses its maximum height and gains 500 for a landing; the
// score is the mean over Trials flights.
type SurvivalScorer struct {
	World  sim.World
	Trials int
}

// SurvivalStart returns a random start for SurvivalScorer.
func SurvivalStart(rng *rand.Rand) sim.SensorData {
	return sim.NewSensorData().
		WithY(rng.Float64()*100 + 50).
		WithO(rng.Float64() * 2 * math.Pi)
}

var _ darwin.Scorer[*ast.Program] = SurvivalScorer{}

func (s SurvivalScorer) Score(p *ast.Program, rng *rand.Rand) darwin.ScoreCard {
	trials := max(s.Trials, 1)
	var total float64
	var last *sim.GameTrace
	for range trials {
		v, trace := s.Flight(p, SurvivalStart(rng))
		total += v
		last = trace
	}
	return darwin.NewScoreCard(darwin.Score{Name: SurvivalScore, Value: total / float64(trials)}).WithTrace(last)
}

// Flight returns the score and trace of one flight of p from start.
func (s SurvivalScorer) Flight(p *ast.Program, start sim.SensorData) (float64, *sim.GameTrace) {
	final, trace := sim.Run(start, sim.ProgramController(p), s.World)

	states := trace.States()
	var maxHeight float64
	for _, d := range states[1:] {
		maxHeight = max(maxHeight, d.Y)
	}
	frames := float64(trace.Frames())
	return 2*frames - maxHeight + flag(final.Landed, 500), trace
}

func flag(b bool, v float64) float64 {
	if b {
		return v
	}
	return 0
}

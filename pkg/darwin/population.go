package darwin

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/lander/pkg/ast"
)

// Scorer rates one individual. rng is private to the call, so a scorer may
// use it freely from concurrent goroutines.
type Scorer[T any] interface {
	Score(individual T, rng *rand.Rand) ScoreCard
}

// ScorerFunc adapts a function to Scorer.
type ScorerFunc[T any] func(individual T, rng *rand.Rand) ScoreCard

func (f ScorerFunc[T]) Score(individual T, rng *rand.Rand) ScoreCard { return f(individual, rng) }

// Population is one generation of individuals. Scores is parallel to
// Programs once Score has run.
type Population[T Genome[T]] struct {
	Programs   []T
	Generation int
	Scores     []ScoreCard
}

// NewPopulation returns an empty population with room for n individuals.
func NewPopulation[T Genome[T]](n, generation int) *Population[T] {
	return &Population[T]{
		Programs:   make([]T, 0, n),
		Generation: generation,
	}
}

// RandomPopulation returns generation zero made of n calls to newFn.
func RandomPopulation[T Genome[T]](n int, newFn func() T) *Population[T] {
	p := NewPopulation[T](n, 0)
	for range n {
		p.Add(newFn())
	}
	return p
}

// Add appends an individual. It invalidates any previous scores.
func (p *Population[T]) Add(program T) {
	p.Programs = append(p.Programs, program)
	p.Scores = nil
}

func (p *Population[T]) Len() int { return len(p.Programs) }

// Scored reports whether every individual has a score.
func (p *Population[T]) Scored() bool {
	return len(p.Programs) > 0 && len(p.Scores) == len(p.Programs)
}

// Score rates every individual with s using up to workers goroutines
// (GOMAXPROCS when workers <= 0). Each individual gets its own generator
// seeded from rng in population order, so the scores depend only on rng's
// state and not on scheduling.
func (p *Population[T]) Score(ctx context.Context, s Scorer[T], workers int, rng *rand.Rand) error {
	if len(p.Programs) == 0 {
		return ErrEmptyPopulation
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	seeds := make([][2]uint64, len(p.Programs))
	for i := range seeds {
		seeds[i] = [2]uint64{rng.Uint64(), rng.Uint64()}
	}

	scores := make([]ScoreCard, len(p.Programs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, program := range p.Programs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			scores[i] = s.Score(program, rand.New(rand.NewPCG(seeds[i][0], seeds[i][1])))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("scoring generation %d: %w", p.Generation, err)
	}

	p.Scores = scores
	return nil
}

// SelectTournamentWinner samples n indexes with replacement and returns the
// best scoring one.
func (p *Population[T]) SelectTournamentWinner(n int, rng *rand.Rand) (int, error) {
	if err := p.checkScored(); err != nil {
		return 0, err
	}
	return p.tournament(max(n, 1), rng), nil
}

func (p *Population[T]) tournament(n int, rng *rand.Rand) int {
	best := rng.IntN(len(p.Programs))
	for range n - 1 {
		i := rng.IntN(len(p.Programs))
		if p.Scores[best].Less(p.Scores[i]) {
			best = i
		}
	}
	return best
}

// Winner returns the best individual and its score. Ties go to the earliest.
func (p *Population[T]) Winner() (T, ScoreCard, error) {
	var zero T
	if err := p.checkScored(); err != nil {
		return zero, ScoreCard{}, err
	}
	best := 0
	for i := range p.Scores {
		if p.Scores[best].Less(p.Scores[i]) {
			best = i
		}
	}
	return p.Programs[best], p.Scores[best], nil
}

// maxPickAttempts bounds the tournaments PickTwo runs to find a second,
// distinct winner before falling back to a uniform choice.
const maxPickAttempts = 16

// PickTwo returns two distinct indexes chosen by tournaments of size n.
func (p *Population[T]) PickTwo(n int, rng *rand.Rand) (int, int, error) {
	if err := p.checkScored(); err != nil {
		return 0, 0, err
	}
	if len(p.Programs) < 2 {
		return 0, 0, fmt.Errorf("%w: need two individuals to pick from", ErrInvalidParams)
	}
	n = max(n, 1)
	one := p.tournament(n, rng)
	for range maxPickAttempts {
		if two := p.tournament(n, rng); two != one {
			return one, two, nil
		}
	}
	// A dominant individual wins almost every tournament.
	two := rng.IntN(len(p.Programs) - 1)
	if two >= one {
		two++
	}
	return one, two, nil
}

func (p *Population[T]) checkScored() error {
	if len(p.Programs) == 0 {
		return ErrEmptyPopulation
	}
	if len(p.Scores) != len(p.Programs) {
		return ErrUnscored
	}
	return nil
}

// Params control breeding.
type Params struct {
	TournamentSize  int `mapstructure:"tournament_size" yaml:"tournament_size" json:"tournament_size"`
	ReproduceWeight int `mapstructure:"reproduce_weight" yaml:"reproduce_weight" json:"reproduce_weight"`
	MutateWeight    int `mapstructure:"mutate_weight" yaml:"mutate_weight" json:"mutate_weight"`
	CrossoverWeight int `mapstructure:"crossover_weight" yaml:"crossover_weight" json:"crossover_weight"`

	// MaxDepth bounds new trees; zero means ast.DefaultMaxDepth. Children
	// deeper than this are replaced by a copy of their parent.
	MaxDepth int `mapstructure:"max_depth" yaml:"max_depth" json:"max_depth"`

	// Sensors available to mutation; nil means all.
	Sensors []ast.Sensor `mapstructure:"-" yaml:"-" json:"-"`
}

// DefaultParams returns the breeding parameters used by the lander command.
func DefaultParams() Params {
	return Params{
		TournamentSize:  100,
		ReproduceWeight: 10,
		MutateWeight:    10,
		CrossoverWeight: 10,
		MaxDepth:        ast.DefaultMaxDepth,
	}
}

// Validate checks sizes and weights.
func (ps Params) Validate() error {
	if ps.TournamentSize < 1 {
		return fmt.Errorf("%w: tournament size %d", ErrInvalidParams, ps.TournamentSize)
	}
	if ps.ReproduceWeight < 0 || ps.MutateWeight < 0 || ps.CrossoverWeight < 0 {
		return fmt.Errorf("%w: negative weight", ErrInvalidParams)
	}
	if ps.ReproduceWeight+ps.MutateWeight+ps.CrossoverWeight == 0 {
		return fmt.Errorf("%w: all weights are zero", ErrInvalidParams)
	}
	if ps.MaxDepth < 0 {
		return fmt.Errorf("%w: max depth %d", ErrInvalidParams, ps.MaxDepth)
	}
	return nil
}

func (ps Params) maxDepth() int {
	if ps.MaxDepth == 0 {
		return ast.DefaultMaxDepth
	}
	return max(ps.MaxDepth, 2)
}

const (
	opReproduce = iota
	opMutate
	opCrossover
)

// Evolve breeds the next generation, of the same size, from a scored
// population.
func (p *Population[T]) Evolve(ctx context.Context, ps Params, rng *rand.Rand) (*Population[T], error) {
	if err := ps.Validate(); err != nil {
		return nil, err
	}
	if err := p.checkScored(); err != nil {
		return nil, err
	}

	weights := []int{ps.ReproduceWeight, ps.MutateWeight, ps.CrossoverWeight}
	if len(p.Programs) < 2 {
		weights[opCrossover] = 0
		if weights[opReproduce]+weights[opMutate] == 0 {
			return nil, fmt.Errorf("%w: crossover needs two individuals", ErrInvalidParams)
		}
	}

	gen := ast.NewGenerator(rng, ps.maxDepth())
	gen.Sensors = ps.Sensors
	limit := ps.maxDepth()
	debug := slog.Default().Enabled(ctx, slog.LevelDebug)

	next := NewPopulation[T](len(p.Programs), p.Generation+1)
	for next.Len() < len(p.Programs) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		switch ast.Pick(rng, weights...) {
		case opReproduce:
			winner := p.Programs[p.tournament(ps.TournamentSize, rng)]
			if debug {
				slog.Debug("reproduce", "program", winner.Source())
			}
			next.Add(winner.Clone())

		case opMutate:
			winner := p.Programs[p.tournament(ps.TournamentSize, rng)]
			child := Mutate(winner, gen)
			if child.Depth() > limit {
				child = winner.Clone()
			}
			if debug {
				slog.Debug("mutate", "parent", winner.Source(), "child", child.Source())
			}
			next.Add(child)

		case opCrossover:
			i, j, err := p.PickTwo(ps.TournamentSize, rng)
			if err != nil {
				return nil, err
			}
			one, two := p.Programs[i], p.Programs[j]
			a, b := Crossover(one, two, rng)
			if a.Depth() > limit {
				a = one.Clone()
			}
			if b.Depth() > limit {
				b = two.Clone()
			}
			if debug {
				slog.Debug("crossover", "parents", []string{one.Source(), two.Source()},
					"children", []string{a.Source(), b.Source()})
			}
			next.Add(a)
			if next.Len() < len(p.Programs) {
				next.Add(b)
			}
		}
	}
	return next, nil
}

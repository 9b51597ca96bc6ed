package darwin

import (
	"math"

	"github.com/mesh-intelligence/lander/pkg/sim"
)

// Score is one named component of a fitness value.
type Score struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// ScoreCard is an immutable list of score components with their total and,
// optionally, the trace of the simulation that earned them.
type ScoreCard struct {
	scores []Score
	total  float64
	trace  *sim.GameTrace
}

// NewScoreCard returns a card holding scores.
func NewScoreCard(scores ...Score) ScoreCard {
	c := ScoreCard{scores: append([]Score(nil), scores...)}
	for _, s := range scores {
		c.total += s.Value
	}
	return c
}

// Add returns a card with one more component.
func (c ScoreCard) Add(name string, value float64) ScoreCard {
	scores := make([]Score, len(c.scores), len(c.scores)+1)
	copy(scores, c.scores)
	return ScoreCard{
		scores: append(scores, Score{Name: name, Value: value}),
		total:  c.total + value,
		trace:  c.trace,
	}
}

// WithTrace returns a card that carries t.
func (c ScoreCard) WithTrace(t *sim.GameTrace) ScoreCard {
	c.trace = t
	return c
}

// Scores returns a copy of the components in the order they were added.
func (c ScoreCard) Scores() []Score {
	return append([]Score(nil), c.scores...)
}

// Value returns the named component and whether it is present. The last
// component of that name wins.
func (c ScoreCard) Value(name string) (float64, bool) {
	for i := len(c.scores) - 1; i >= 0; i-- {
		if c.scores[i].Name == name {
			return c.scores[i].Value, true
		}
	}
	return 0, false
}

func (c ScoreCard) Total() float64 { return c.total }

// Trace returns the recorded simulation, or nil.
func (c ScoreCard) Trace() *sim.GameTrace { return c.trace }

// Less orders cards by total. A NaN total is less than any number.
func (c ScoreCard) Less(o ScoreCard) bool {
	if math.IsNaN(c.total) {
		return !math.IsNaN(o.total)
	}
	return c.total < o.total
}

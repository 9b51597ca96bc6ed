package types

import "time"

// Run states. A run starts running and ends finished or aborted.
const (
	RunStateRunning  = "running"
	RunStateFinished = "finished"
	RunStateAborted  = "aborted"
)

var validRunStates = map[string]bool{
	RunStateRunning:  true,
	RunStateFinished: true,
	RunStateAborted:  true,
}

// Controller kinds evolved by a run.
const (
	ControllerCondition = "condition"
	ControllerProgram   = "program"
)

// ValidController reports whether c names a controller kind.
func ValidController(c string) bool {
	return c == ControllerCondition || c == ControllerProgram
}

// Run is one evolution run.
type Run struct {
	RunID       string         // UUID v7, generated on creation.
	Name        string         // Optional label.
	Seed        uint64         // Seed of the run's random source.
	Controller  string         // ControllerCondition or ControllerProgram.
	Params      map[string]any // Evolution parameters the run was started with.
	State       string         // One of the RunState constants.
	Generations int            // Number of generations scored so far.
	BestScore   float64        // Best total score seen; meaningless while Generations is 0.
	StartedAt   time.Time
	FinishedAt  time.Time // Zero while running.
}

// SetState sets the run state. Returns ErrInvalidState for unknown values.
func (r *Run) SetState(state string) error {
	if !validRunStates[state] {
		return ErrInvalidState
	}
	r.State = state
	return nil
}

// Advance records one more scored generation whose best total is best.
// Returns ErrInvalidTransition unless the run is running.
func (r *Run) Advance(best float64) error {
	if r.State != RunStateRunning {
		return ErrInvalidTransition
	}
	r.Generations++
	if r.Generations == 1 || best > r.BestScore {
		r.BestScore = best
	}
	return nil
}

// Finish marks a running run as completed.
func (r *Run) Finish() error {
	if r.State != RunStateRunning {
		return ErrInvalidTransition
	}
	r.State = RunStateFinished
	r.FinishedAt = time.Now().UTC().Truncate(time.Second)
	return nil
}

// Abort marks the run as stopped early. Idempotent for aborted runs;
// returns ErrInvalidTransition for finished ones.
func (r *Run) Abort() error {
	switch r.State {
	case RunStateAborted:
		return nil
	case RunStateRunning:
		r.State = RunStateAborted
		r.FinishedAt = time.Now().UTC().Truncate(time.Second)
		return nil
	}
	return ErrInvalidTransition
}

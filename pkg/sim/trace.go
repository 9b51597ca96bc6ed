package sim

// GameTrace records the states of one simulation in frame order.
type GameTrace struct {
	states []SensorData
}

// NewGameTrace returns an empty trace.
func NewGameTrace() *GameTrace {
	return &GameTrace{states: make([]SensorData, 0, 200)}
}

// TraceOf wraps states, in frame order, as a trace.
func TraceOf(states []SensorData) *GameTrace {
	return &GameTrace{states: states}
}

// Add appends a copy of d.
func (t *GameTrace) Add(d SensorData) {
	t.states = append(t.states, d)
}

// Frames returns the number of simulated frames: the recorded states after
// the start state.
func (t *GameTrace) Frames() int {
	return max(len(t.states)-1, 0)
}

// Len returns the number of recorded states, the start state included.
func (t *GameTrace) Len() int {
	return len(t.states)
}

// States returns the recorded states. The slice must not be modified.
func (t *GameTrace) States() []SensorData {
	return t.states
}

// Last returns the final state, and false for an empty trace.
func (t *GameTrace) Last() (SensorData, bool) {
	if len(t.states) == 0 {
		return SensorData{}, false
	}
	return t.states[len(t.states)-1], true
}

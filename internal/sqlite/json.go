package sqlite

import "encoding/json"

// JSON record structures that mirror the JSONL file format.

// runJSON represents a run in runs.jsonl. The seed is a decimal string so
// that 64-bit seeds survive JSON number decoding.
type runJSON struct {
	RunID       string          `json:"run_id"`
	Name        string          `json:"name"`
	Seed        string          `json:"seed"`
	Controller  string          `json:"controller"`
	Params      json.RawMessage `json:"params"`
	State       string          `json:"state"`
	Generations int             `json:"generations"`
	BestScore   float64         `json:"best_score"`
	StartedAt   string          `json:"started_at"`
	FinishedAt  *string         `json:"finished_at"`
}

// championJSON represents a champion in champions.jsonl.
type championJSON struct {
	ChampionID string          `json:"champion_id"`
	RunID      string          `json:"run_id"`
	Generation int             `json:"generation"`
	Source     string          `json:"source"`
	Program    json.RawMessage `json:"program"`
	Score      float64         `json:"score"`
	Scores     json.RawMessage `json:"scores"`
	CreatedAt  string          `json:"created_at"`
}

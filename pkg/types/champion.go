package types

import (
	"encoding/json"
	"time"
)

// ScoreComponent is one named part of a champion's score.
type ScoreComponent struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Champion is a program that improved on the best score of its run.
type Champion struct {
	ChampionID string           // UUID v7, generated on creation.
	RunID      string           // Run that produced the champion.
	Generation int              // Generation in which it was found.
	Source     string           // Builder notation of the simplified program.
	Program    json.RawMessage  // Variant JSON encoding of the program.
	Score      float64          // Total score.
	Scores     []ScoreComponent // Score components in scoring order.
	CreatedAt  time.Time
}

// Validate checks the fields a backend needs to store the champion.
func (c *Champion) Validate() error {
	if c.RunID == "" || c.Source == "" || c.Generation < 0 {
		return ErrInvalidData
	}
	if len(c.Program) == 0 || !json.Valid(c.Program) {
		return ErrInvalidData
	}
	return nil
}

package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lander/pkg/ast"
	"github.com/mesh-intelligence/lander/pkg/types"
)

func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError(fmt.Errorf("marshal JSON: %w", err))
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

// Node kinds accepted by --kind.
const (
	kindProgram   = types.ControllerProgram
	kindCondition = types.ControllerCondition
)

// parseNode parses src as a program or a condition.
func parseNode(kind, src string) (ast.Node, error) {
	var (
		n   ast.Node
		err error
	)
	switch kind {
	case kindProgram:
		n, err = ast.ParseProgram(src)
	case kindCondition:
		n, err = ast.ParseCondition(src)
	default:
		return nil, userError(fmt.Errorf("unknown kind %q (valid: program, condition)", kind))
	}
	if err != nil {
		return nil, userError(err)
	}
	return n, nil
}

// nodeJSON is the JSON view of a tree.
type nodeJSON struct {
	Source  string          `json:"source"`
	Depth   int             `json:"depth"`
	Program json.RawMessage `json:"program"`
}

func newNodeJSON(n ast.Node) (nodeJSON, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return nodeJSON{}, sysError(fmt.Errorf("encode program: %w", err))
	}
	return nodeJSON{Source: n.Source(), Depth: n.Depth(), Program: data}, nil
}

// runView and championView are the JSON views of archive entities.
type runView struct {
	RunID       string         `json:"run_id"`
	Name        string         `json:"name,omitempty"`
	Seed        uint64         `json:"seed"`
	Controller  string         `json:"controller"`
	Params      map[string]any `json:"params"`
	State       string         `json:"state"`
	Generations int            `json:"generations"`
	BestScore   float64        `json:"best_score"`
	StartedAt   string         `json:"started_at"`
	FinishedAt  string         `json:"finished_at,omitempty"`
}

func newRunView(r *types.Run) runView {
	v := runView{
		RunID:       r.RunID,
		Name:        r.Name,
		Seed:        r.Seed,
		Controller:  r.Controller,
		Params:      r.Params,
		State:       r.State,
		Generations: r.Generations,
		BestScore:   r.BestScore,
		StartedAt:   r.StartedAt.Format(timeLayout),
	}
	if !r.FinishedAt.IsZero() {
		v.FinishedAt = r.FinishedAt.Format(timeLayout)
	}
	return v
}

type championView struct {
	ChampionID string                 `json:"champion_id"`
	RunID      string                 `json:"run_id"`
	Generation int                    `json:"generation"`
	Source     string                 `json:"source"`
	Program    json.RawMessage        `json:"program"`
	Score      float64                `json:"score"`
	Scores     []types.ScoreComponent `json:"scores"`
	CreatedAt  string                 `json:"created_at"`
}

func newChampionView(c *types.Champion) championView {
	return championView{
		ChampionID: c.ChampionID,
		RunID:      c.RunID,
		Generation: c.Generation,
		Source:     c.Source,
		Program:    c.Program,
		Score:      c.Score,
		Scores:     c.Scores,
		CreatedAt:  c.CreatedAt.Format(timeLayout),
	}
}

const timeLayout = "2006-01-02T15:04:05Z07:00"

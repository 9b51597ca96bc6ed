package trace

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/lander/pkg/ast"
	"github.com/mesh-intelligence/lander/pkg/darwin"
	"github.com/mesh-intelligence/lander/pkg/sim"
)

// Output is the record of one generation's best individual.
type Output struct {
	Generation int              `json:"generation"`
	Source     string           `json:"source"`
	Program    json.RawMessage  `json:"program"`
	Scores     []darwin.Score   `json:"scores"`
	Total      float64          `json:"total"`
	Trace      []sim.SensorData `json:"trace,omitempty"`
}

// NewOutput builds the record for program, which may be an *ast.Program or
// an *ast.Condition. The trace of the score card, if any, is included.
func NewOutput[T darwin.Genome[T]](generation int, program T, card darwin.ScoreCard) (Output, error) {
	encoded, err := json.Marshal(program)
	if err != nil {
		return Output{}, fmt.Errorf("encoding program: %w", err)
	}
	out := Output{
		Generation: generation,
		Source:     program.Source(),
		Program:    encoded,
		Scores:     card.Scores(),
		Total:      card.Total(),
	}
	if t := card.Trace(); t != nil {
		out.Trace = t.States()
	}
	return out, nil
}

// WriteJSONLine writes o to w as a single line of JSON.
func (o Output) WriteJSONLine(w io.Writer) error {
	data, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("encoding generation %d: %w", o.Generation, err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// ReadOutputs reads records written by WriteJSONLine. Blank lines are
// skipped.
func ReadOutputs(r io.Reader) ([]Output, error) {
	var outputs []Output
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var o Output
		if err := json.Unmarshal(scanner.Bytes(), &o); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		outputs = append(outputs, o)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return outputs, nil
}

// DecodeProgram decodes the program field of a record made from an
// *ast.Program.
func (o Output) DecodeProgram() (*ast.Program, error) {
	var p ast.Program
	if err := json.Unmarshal(o.Program, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DecodeCondition decodes the program field of a record made from an
// *ast.Condition.
func (o Output) DecodeCondition() (*ast.Condition, error) {
	var c ast.Condition
	if err := json.Unmarshal(o.Program, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// SaveSource writes the source form of n to path, followed by a newline,
// creating the directory of path.
func SaveSource(path string, n ast.Node) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating source directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(n.Source()+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing source %s: %w", path, err)
	}
	return nil
}

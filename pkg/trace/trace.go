// Package trace persists simulation traces and per-generation records so
// that external tools can replay or visualise an evolution run.
package trace

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/mesh-intelligence/lander/pkg/sim"
)

// CompressedExt marks trace files stored zstd compressed.
const CompressedExt = ".zst"

// Save writes the states of t to path as a JSON array. Paths ending in
// CompressedExt are zstd compressed.
func Save(path string, t *sim.GameTrace) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating trace directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating trace file: %w", err)
	}
	defer f.Close()

	if err := encode(f, t, strings.HasSuffix(path, CompressedExt)); err != nil {
		return fmt.Errorf("writing trace %s: %w", path, err)
	}
	return f.Sync()
}

func encode(w io.Writer, t *sim.GameTrace, compress bool) error {
	states := t.States()
	if states == nil {
		states = []sim.SensorData{}
	}
	if !compress {
		return json.NewEncoder(w).Encode(states)
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("creating zstd writer: %w", err)
	}
	if err := json.NewEncoder(zw).Encode(states); err != nil {
		zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing zstd writer: %w", err)
	}
	return nil
}

// Load reads a trace written by Save.
func Load(path string) (*sim.GameTrace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening trace file: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, CompressedExt) {
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("creating zstd reader: %w", err)
		}
		defer zr.Close()
		r = zr
	}

	var states []sim.SensorData
	if err := json.NewDecoder(r).Decode(&states); err != nil {
		return nil, fmt.Errorf("decoding trace %s: %w", path, err)
	}
	return sim.TraceOf(states), nil
}

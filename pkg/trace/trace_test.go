package trace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/lander/pkg/ast"
	"github.com/mesh-intelligence/lander/pkg/sim"
)

func flight(t *testing.T) *sim.GameTrace {
	t.Helper()
	_, tr := sim.Run(sim.NewSensorData().WithY(100), sim.ProgramController(ast.Skip()), sim.NewWorld())
	require.Equal(t, 20, tr.Frames())
	return tr
}

func TestSaveLoad(t *testing.T) {
	tests := []struct {
		name string
		file string
	}{
		{"plain", "trace.json"},
		{"compressed", "trace.json.zst"},
		{"nested directory", filepath.Join("runs", "7", "trace.json.zst")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			tr := flight(t)

			require.NoError(t, Save(path, tr))
			loaded, err := Load(path)
			require.NoError(t, err)

			assert.Equal(t, tr.States(), loaded.States())
		})
	}
}

func TestSavePlainIsJSONArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.json")
	tr := sim.NewGameTrace()
	tr.Add(sim.NewSensorData().WithY(3))

	require.NoError(t, Save(path, tr))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"x":0,"y":3,"vx":0,"vy":0,"o":0,"w":0,"fuel":1,
		"hit_ground":false,"crashed":false,"landed":false,"thrusting":false,"crash_speed":0}]`, string(data))
}

func TestSaveCompresses(t *testing.T) {
	dir := t.TempDir()
	tr := flight(t)

	require.NoError(t, Save(filepath.Join(dir, "a.json"), tr))
	require.NoError(t, Save(filepath.Join(dir, "a.json.zst"), tr))

	plain, err := os.Stat(filepath.Join(dir, "a.json"))
	require.NoError(t, err)
	packed, err := os.Stat(filepath.Join(dir, "a.json.zst"))
	require.NoError(t, err)
	assert.Less(t, packed.Size(), plain.Size())
}

func TestSaveEmptyTrace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, Save(path, sim.TraceOf(nil)))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Zero(t, loaded.Frames())
	assert.Zero(t, loaded.Len())
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)

	notZstd := filepath.Join(dir, "bad.json.zst")
	require.NoError(t, os.WriteFile(notZstd, []byte("[]"), 0o644))
	_, err = Load(notZstd)
	assert.Error(t, err)
}

// Tests for the runs table.
package sqlite

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mesh-intelligence/lander/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupBackend creates an attached Backend in a temporary directory.
func setupBackend(t *testing.T) *Backend {
	t.Helper()
	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}
	require.NoError(t, b.Attach(config))
	t.Cleanup(func() { b.Detach() })
	return b
}

func runsOf(t *testing.T, b *Backend) types.Table {
	t.Helper()
	table, err := b.GetTable(types.RunsTable)
	require.NoError(t, err)
	return table
}

func TestRunsSetCreatesWithDefaults(t *testing.T) {
	runs := runsOf(t, setupBackend(t))

	run := &types.Run{Name: "baseline", Seed: 42, Controller: types.ControllerProgram,
		Params: map[string]any{"max_depth": 8}}
	id, err := runs.Set("", run)
	require.NoError(t, err)

	assert.NotEmpty(t, id)
	assert.Equal(t, id, run.RunID)
	assert.Equal(t, types.RunStateRunning, run.State)
	assert.False(t, run.StartedAt.IsZero())

	entity, err := runs.Get(id)
	require.NoError(t, err)
	got := entity.(*types.Run)
	assert.Equal(t, "baseline", got.Name)
	assert.Equal(t, uint64(42), got.Seed)
	assert.EqualValues(t, 8, got.Params["max_depth"])
	assert.True(t, got.FinishedAt.IsZero())
	assert.Equal(t, run.StartedAt, got.StartedAt)
}

func TestRunsSetUpdates(t *testing.T) {
	runs := runsOf(t, setupBackend(t))

	run := &types.Run{Controller: types.ControllerCondition}
	id, err := runs.Set("", run)
	require.NoError(t, err)

	require.NoError(t, run.Advance(-12.5))
	require.NoError(t, run.Advance(-3))
	require.NoError(t, run.Finish())
	_, err = runs.Set(id, run)
	require.NoError(t, err)

	entity, err := runs.Get(id)
	require.NoError(t, err)
	got := entity.(*types.Run)
	assert.Equal(t, types.RunStateFinished, got.State)
	assert.Equal(t, 2, got.Generations)
	assert.Equal(t, -3.0, got.BestScore)
	assert.False(t, got.FinishedAt.IsZero())

	all, err := runs.Fetch(nil)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRunsSetRejectsInvalidData(t *testing.T) {
	runs := runsOf(t, setupBackend(t))

	tests := []struct {
		name string
		data any
		want error
	}{
		{"wrong type", &types.Champion{}, types.ErrInvalidData},
		{"nil run", (*types.Run)(nil), types.ErrInvalidData},
		{"unknown controller", &types.Run{Controller: "neural"}, types.ErrInvalidData},
		{"nan score", &types.Run{Controller: types.ControllerProgram, BestScore: math.NaN()}, types.ErrInvalidData},
		{"unknown state", &types.Run{Controller: types.ControllerProgram, State: "paused"}, types.ErrInvalidState},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runs.Set("", tt.data)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRunsGetErrors(t *testing.T) {
	runs := runsOf(t, setupBackend(t))

	_, err := runs.Get("")
	assert.ErrorIs(t, err, types.ErrInvalidID)
	_, err = runs.Get("missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestRunsDeleteCascadesToChampions(t *testing.T) {
	b := setupBackend(t)
	runs := runsOf(t, b)
	champions, err := b.GetTable(types.ChampionsTable)
	require.NoError(t, err)

	runID, err := runs.Set("", &types.Run{Controller: types.ControllerProgram})
	require.NoError(t, err)
	champID, err := champions.Set("", sampleChampion(runID, 0))
	require.NoError(t, err)

	require.NoError(t, runs.Delete(runID))

	_, err = runs.Get(runID)
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = champions.Get(champID)
	assert.ErrorIs(t, err, types.ErrNotFound)

	data, err := os.ReadFile(filepath.Join(b.config.DataDir, championsJSONL))
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(string(data)))

	assert.ErrorIs(t, runs.Delete(runID), types.ErrNotFound)
	assert.ErrorIs(t, runs.Delete(""), types.ErrInvalidID)
}

func TestRunsFetchFiltersAndOrder(t *testing.T) {
	runs := runsOf(t, setupBackend(t))

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seed := []struct {
		name       string
		controller string
		state      string
		offset     time.Duration
	}{
		{"oldest", types.ControllerProgram, types.RunStateFinished, 0},
		{"middle", types.ControllerCondition, types.RunStateAborted, time.Hour},
		{"newest", types.ControllerProgram, types.RunStateRunning, 2 * time.Hour},
	}
	for _, s := range seed {
		_, err := runs.Set("", &types.Run{Name: s.name, Controller: s.controller, State: s.state,
			StartedAt: base.Add(s.offset)})
		require.NoError(t, err)
	}

	names := func(filter map[string]any) []string {
		t.Helper()
		results, err := runs.Fetch(filter)
		require.NoError(t, err)
		var out []string
		for _, r := range results {
			out = append(out, r.(*types.Run).Name)
		}
		return out
	}

	assert.Equal(t, []string{"newest", "middle", "oldest"}, names(nil))
	assert.Equal(t, []string{"newest", "oldest"}, names(map[string]any{types.FilterController: types.ControllerProgram}))
	assert.Equal(t, []string{"middle"}, names(map[string]any{types.FilterState: types.RunStateAborted}))
	assert.Equal(t, []string{"newest"}, names(map[string]any{types.FilterLimit: 1}))
	assert.Equal(t, []string{"middle", "oldest"}, names(map[string]any{types.FilterOffset: 1}))
	assert.Equal(t, []string{"middle"}, names(map[string]any{types.FilterLimit: 1, types.FilterOffset: 1}))
	assert.Empty(t, names(map[string]any{types.FilterState: "paused"}))

	_, err := runs.Fetch(map[string]any{types.FilterLimit: "ten"})
	assert.ErrorIs(t, err, types.ErrInvalidFilter)
	_, err = runs.Fetch(map[string]any{types.FilterState: 3})
	assert.ErrorIs(t, err, types.ErrInvalidFilter)
}

package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunFinish(t *testing.T) {
	tests := []struct {
		name    string
		initial string
		wantErr error
	}{
		{name: "from running succeeds", initial: RunStateRunning},
		{name: "from finished fails", initial: RunStateFinished, wantErr: ErrInvalidTransition},
		{name: "from aborted fails", initial: RunStateAborted, wantErr: ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := &Run{RunID: "finish-test", State: tt.initial}

			err := run.Finish()

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.initial, run.State, "state should not change on error")
				assert.True(t, run.FinishedAt.IsZero())
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, RunStateFinished, run.State)
			assert.WithinDuration(t, time.Now(), run.FinishedAt, 2*time.Second)
		})
	}
}

func TestRunAbort(t *testing.T) {
	tests := []struct {
		name    string
		initial string
		wantErr error
	}{
		{name: "from running succeeds", initial: RunStateRunning},
		{name: "from aborted is idempotent", initial: RunStateAborted},
		{name: "from finished fails", initial: RunStateFinished, wantErr: ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := &Run{RunID: "abort-test", State: tt.initial}

			err := run.Abort()

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.initial, run.State)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, RunStateAborted, run.State)
		})
	}
}

func TestRunAdvance(t *testing.T) {
	run := &Run{State: RunStateRunning}

	assert.NoError(t, run.Advance(-50))
	assert.Equal(t, 1, run.Generations)
	assert.Equal(t, -50.0, run.BestScore, "first generation sets the best even when negative")

	assert.NoError(t, run.Advance(20))
	assert.NoError(t, run.Advance(10))
	assert.Equal(t, 3, run.Generations)
	assert.Equal(t, 20.0, run.BestScore)

	assert.NoError(t, run.Finish())
	assert.ErrorIs(t, run.Advance(100), ErrInvalidTransition)
	assert.Equal(t, 3, run.Generations)
}

func TestRunSetState(t *testing.T) {
	run := &Run{State: RunStateRunning}

	assert.NoError(t, run.SetState(RunStateAborted))
	assert.Equal(t, RunStateAborted, run.State)

	assert.ErrorIs(t, run.SetState("paused"), ErrInvalidState)
	assert.Equal(t, RunStateAborted, run.State)
}

func TestValidController(t *testing.T) {
	assert.True(t, ValidController(ControllerCondition))
	assert.True(t, ValidController(ControllerProgram))
	assert.False(t, ValidController("expression"))
	assert.False(t, ValidController(""))
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultParams_Valid(t *testing.T) {
	assert.NoError(t, DefaultParams().Validate())
}

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
		errMsg string
	}{
		{
			name:   "thresholds not increasing",
			mutate: func(p *Params) { p.Exit = p.EnterMajor },
			errMsg: "strictly increasing",
		},
		{
			name:   "enter thresholds equal",
			mutate: func(p *Params) { p.EnterStandard = p.EnterMajor },
			errMsg: "strictly increasing",
		},
		{
			name:   "consecutive below one",
			mutate: func(p *Params) { p.ConsecutiveRequired = 0 },
			errMsg: "consecutive_required_standard",
		},
		{
			name:   "negative cooldown",
			mutate: func(p *Params) { p.CooldownSnapshots = -1 },
			errMsg: "cooldown_snapshots_after_exit",
		},
		{
			name:   "inverted stall band",
			mutate: func(p *Params) { p.StalledMinRatio = p.StalledMaxRatio },
			errMsg: "stalled_min_ratio",
		},
		{
			name:   "stall band above exit",
			mutate: func(p *Params) { p.StalledMaxRatio = p.Exit + 0.1 },
			errMsg: "stalled_max_ratio_below_exit",
		},
		{
			name:   "stall window below one",
			mutate: func(p *Params) { p.StalledWindow = 0 },
			errMsg: "stalled_window_snapshots",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := DefaultParams()
			tt.mutate(&params)

			err := params.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestEngineState_UnderServed(t *testing.T) {
	assert.True(t, EngineState{State: StateActive}.UnderServed())
	assert.True(t, EngineState{State: StateStalled}.UnderServed())
	assert.False(t, EngineState{State: StateNone}.UnderServed())
	assert.False(t, EngineState{State: StateCandidate}.UnderServed())
	assert.False(t, EngineState{State: StateCleared}.UnderServed())
}

func TestInitialState(t *testing.T) {
	st := InitialState()
	assert.Equal(t, StateNone, st.State)
	assert.Zero(t, st.Consecutive)
	assert.Zero(t, st.CooldownLeft)
	assert.Zero(t, st.StallConsec)
}

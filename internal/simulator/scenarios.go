package simulator

import "github.com/coveragewatch/coverage-sentinel/pkg/models"

func statePtr(s models.UnitState) *models.UnitState { return &s }

func reasonPtr(r models.TransitionReason) *models.TransitionReason { return &r }

// DefaultScenarios is the built-in scenario table, written against
// models.DefaultParams(). The table is injectable: callers may replace
// or extend it (see LoadScenarioFile).
func DefaultScenarios() []models.Scenario {
	return []models.Scenario{
		{
			ID:          "severe-immediate-entry",
			Description: "one severe reading enters ACTIVE at once",
			Sequence:    []float64{0.49},
			Expected: models.ScenarioExpectation{
				FinalState:  statePtr(models.StateActive),
				EntryReason: reasonPtr(models.ReasonSevere),
			},
		},
		{
			ID:          "borderline-single",
			Description: "a single borderline reading only makes a candidate",
			Sequence:    []float64{0.55},
			Expected: models.ScenarioExpectation{
				FinalState: statePtr(models.StateCandidate),
			},
		},
		{
			ID:          "consecutive-borderline-entry",
			Description: "three consecutive borderline readings promote to ACTIVE",
			Sequence:    []float64{0.58, 0.59, 0.59},
			Expected: models.ScenarioExpectation{
				FinalState:  statePtr(models.StateActive),
				EntryReason: reasonPtr(models.ReasonConsecutive),
			},
		},
		{
			ID:          "false-start",
			Description: "a borderline streak broken by recovery falls back to NONE",
			Sequence:    []float64{0.58, 0.62},
			Expected: models.ScenarioExpectation{
				FinalState: statePtr(models.StateNone),
			},
		},
		{
			ID:          "enter-then-exit",
			Description: "severe entry, partial recovery, then a clean exit",
			Sequence:    []float64{0.49, 0.52, 0.66},
			Expected: models.ScenarioExpectation{
				FinalState:  statePtr(models.StateCleared),
				EntryReason: reasonPtr(models.ReasonSevere),
			},
		},
		{
			ID:          "reenter-during-cooldown",
			Description: "a severe reading re-enters even while the cooldown runs",
			Sequence:    []float64{0.49, 0.70, 0.49},
			Expected: models.ScenarioExpectation{
				FinalState: statePtr(models.StateActive),
			},
		},
		{
			ID:          "stall-promotion",
			Description: "four snapshots stuck in the stall band promote to STALLED",
			Sequence:    []float64{0.49, 0.55, 0.55, 0.55, 0.55},
			Expected: models.ScenarioExpectation{
				FinalState: statePtr(models.StateStalled),
			},
		},
		{
			ID:          "stall-break-severe",
			Description: "a stalled unit worsening sharply breaks back to ACTIVE",
			Sequence:    []float64{0.49, 0.55, 0.55, 0.55, 0.55, 0.42},
			Expected: models.ScenarioExpectation{
				FinalState: statePtr(models.StateActive),
			},
		},
		{
			ID:          "stall-break-drift",
			Description: "a stalled unit drifting above the band but below exit breaks to ACTIVE",
			Sequence:    []float64{0.49, 0.55, 0.55, 0.55, 0.55, 0.63},
			Expected: models.ScenarioExpectation{
				FinalState: statePtr(models.StateActive),
			},
		},
		{
			ID:          "stalled-exit-cooldown",
			Description: "exit from STALLED; the cooldown suppresses immediate re-candidacy",
			Sequence:    []float64{0.49, 0.55, 0.55, 0.55, 0.55, 0.70, 0.58},
			Expected: models.ScenarioExpectation{
				FinalState: statePtr(models.StateCleared),
			},
		},
		{
			ID:          "cooldown-expiry-recandidacy",
			Description: "borderline readings after the cooldown expires re-enter via debounce",
			Sequence:    []float64{0.49, 0.70, 0.58, 0.58, 0.58, 0.58, 0.58},
			Expected: models.ScenarioExpectation{
				FinalState: statePtr(models.StateActive),
			},
		},
		{
			ID:          "healthy-throughout",
			Description: "comfortably served unit never leaves NONE",
			Sequence:    []float64{0.72, 0.80, 0.75},
			Expected: models.ScenarioExpectation{
				FinalState: statePtr(models.StateNone),
			},
		},
		{
			ID:          "hover-at-threshold",
			Description: "hovering around the borderline threshold never flaps into ACTIVE",
			Sequence:    []float64{0.58, 0.61, 0.58, 0.61, 0.58},
			Expected: models.ScenarioExpectation{
				FinalState: statePtr(models.StateCandidate),
			},
		},
	}
}

package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coveragewatch/coverage-sentinel/internal/engine"
	"github.com/coveragewatch/coverage-sentinel/pkg/models"
)

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	eng, err := engine.New(models.DefaultParams())
	require.NoError(t, err)
	return eng
}

func TestAggregate(t *testing.T) {
	scenarios := []models.Scenario{
		{ID: "enter-exit", Sequence: []float64{0.49, 0.70}},
		{ID: "candidate", Sequence: []float64{0.58}},
		{ID: "healthy", Sequence: []float64{0.80}},
	}

	report, err := NewAggregator(newTestEngine(t)).Aggregate(scenarios, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, report.ScenarioCount)
	assert.Nil(t, report.UnitTests)

	assert.Equal(t, 1, report.Transitions[models.TransitionEnter])
	assert.Equal(t, 1, report.Transitions[models.TransitionExit])
	assert.Equal(t, 0, report.Transitions[models.TransitionReenter])
	assert.Equal(t, 0, report.Transitions[models.TransitionStall])
	assert.Equal(t, 0, report.Transitions[models.TransitionStallBreak])

	assert.Equal(t, map[models.UnitState]int{
		models.StateCleared:   1,
		models.StateCandidate: 1,
		models.StateNone:      1,
	}, report.FinalStateDistribution)

	assert.Equal(t, map[models.UnitState]int{
		models.StateActive:    1,
		models.StateCleared:   1,
		models.StateCandidate: 1,
		models.StateNone:      1,
	}, report.TimeInStateSnapshots)
}

func TestAggregate_SeedsEveryTransitionType(t *testing.T) {
	report, err := NewAggregator(newTestEngine(t)).Aggregate(nil, nil)
	require.NoError(t, err)

	require.Len(t, report.Transitions, len(models.AllTransitionTypes()))
	for _, tt := range models.AllTransitionTypes() {
		assert.Contains(t, report.Transitions, tt)
	}
}

func TestAggregate_MergesUnitTestSummary(t *testing.T) {
	summary := &models.UnitTestSummary{Pass: 42, Fail: 1}

	report, err := NewAggregator(newTestEngine(t)).Aggregate(nil, summary)
	require.NoError(t, err)
	require.NotNil(t, report.UnitTests)
	assert.Equal(t, 42, report.UnitTests.Pass)
	assert.Equal(t, 1, report.UnitTests.Fail)
}

func TestRegistry(t *testing.T) {
	reg := Get()
	reg.Reset()
	defer reg.Reset()

	assert.Same(t, reg, Get())

	reg.AddSnapshots(5)
	reg.IncUnitsEvaluated()
	reg.IncUnitsEvaluated()
	reg.IncTransition(models.TransitionEnter)
	reg.IncTransition(models.TransitionEnter)
	reg.IncTransition(models.TransitionExit)
	reg.IncScenarioRuns()
	reg.SetRoster(3, map[models.UnitState]int{models.StateActive: 3})

	snap := reg.Snapshot()
	assert.Equal(t, int64(5), snap["snapshots_processed"])
	assert.Equal(t, int64(2), snap["units_evaluated"])
	assert.Equal(t, int64(1), snap["scenario_runs"])
	assert.Equal(t, 3, snap["roster_size"])

	transitions := snap["transitions_total"].(map[models.TransitionType]int64)
	assert.Equal(t, int64(2), transitions[models.TransitionEnter])
	assert.Equal(t, int64(1), transitions[models.TransitionExit])

	states := snap["state_count"].(map[models.UnitState]int)
	assert.Equal(t, 3, states[models.StateActive])
}

package metrics

import (
	"fmt"

	"github.com/coveragewatch/coverage-sentinel/internal/engine"
	"github.com/coveragewatch/coverage-sentinel/internal/runner"
	"github.com/coveragewatch/coverage-sentinel/pkg/models"
)

// Aggregator re-runs scenario sequences through the engine and tallies
// transition activity, final-state distribution and time spent in each
// state.
type Aggregator struct {
	engine *engine.Engine
}

func NewAggregator(eng *engine.Engine) *Aggregator {
	return &Aggregator{engine: eng}
}

// Aggregate builds the metrics report for a scenario table. unitTests
// may be nil; when present its pass/fail tally is merged into the
// report.
func (a *Aggregator) Aggregate(scenarios []models.Scenario, unitTests *models.UnitTestSummary) (models.MetricsReport, error) {
	report := models.MetricsReport{
		Transitions:            make(map[models.TransitionType]int),
		FinalStateDistribution: make(map[models.UnitState]int),
		TimeInStateSnapshots:   make(map[models.UnitState]int),
		ScenarioCount:          len(scenarios),
		UnitTests:              unitTests,
	}

	for _, t := range models.AllTransitionTypes() {
		report.Transitions[t] = 0
	}

	for _, sc := range scenarios {
		res, err := runner.RunRatios(a.engine, sc.ID, sc.Sequence)
		if err != nil {
			return models.MetricsReport{}, fmt.Errorf("scenario %s: %w", sc.ID, err)
		}

		report.FinalStateDistribution[res.Final.State]++
		for _, ev := range res.Events {
			report.Transitions[ev.Type]++
		}
		for _, st := range res.States {
			report.TimeInStateSnapshots[st]++
		}
	}

	return report, nil
}

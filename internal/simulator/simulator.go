package simulator

import (
	"fmt"

	"github.com/coveragewatch/coverage-sentinel/internal/engine"
	"github.com/coveragewatch/coverage-sentinel/internal/logger"
	"github.com/coveragewatch/coverage-sentinel/internal/runner"
	"github.com/coveragewatch/coverage-sentinel/pkg/models"
)

// Suite runs named synthetic sequences through the engine and checks
// each outcome against its expectation.
type Suite struct {
	engine    *engine.Engine
	scenarios []models.Scenario
}

// New builds a suite over the given scenario table. An empty table
// falls back to the built-in one.
func New(eng *engine.Engine, scenarios []models.Scenario) *Suite {
	if len(scenarios) == 0 {
		scenarios = DefaultScenarios()
	}
	return &Suite{engine: eng, scenarios: scenarios}
}

// Scenarios returns the table the suite will run.
func (s *Suite) Scenarios() []models.Scenario {
	return s.scenarios
}

// Run executes every scenario and returns the full report. Scenario
// failures are observable outcomes, not errors; an error is returned
// only when a sequence cannot be evaluated at all.
func (s *Suite) Run() (models.ScenarioReport, error) {
	report := models.ScenarioReport{
		Results: make([]models.ScenarioResult, 0, len(s.scenarios)),
	}
	summary := &report.Summary
	summary.ScenariosTotal = len(s.scenarios)

	var delayTotal int

	for _, sc := range s.scenarios {
		res, err := runner.RunRatios(s.engine, sc.ID, sc.Sequence)
		if err != nil {
			return models.ScenarioReport{}, fmt.Errorf("scenario %s: %w", sc.ID, err)
		}

		outcome := models.ScenarioOutcome{
			FinalState:  res.Final.State,
			Transitions: res.Events,
		}
		if idx, reason, ok := firstEntry(res.Events); ok {
			outcome.EntryReason = reason
			if trouble, ok := firstTrouble(sc.Sequence, s.engine.Params()); ok {
				delay := idx - trouble
				outcome.DetectionDelay = &delay
				delayTotal += delay
				summary.DetectionDelaySamples++
			}
		}

		result := models.ScenarioResult{
			ID:          sc.ID,
			Description: sc.Description,
			Sequence:    sc.Sequence,
			Result:      outcome,
			Pass:        true,
		}
		if failure := check(sc.Expected, outcome); failure != "" {
			result.Pass = false
			result.Failure = failure
			logger.WithField("scenario", sc.ID).Warnf("Scenario failed: %s", failure)
		}
		if result.Pass {
			summary.ScenariosPass++
		}

		for _, ev := range res.Events {
			switch ev.Type {
			case models.TransitionEnter:
				summary.ActiveEntriesTotal++
			case models.TransitionReenter:
				summary.ReentriesTotal++
			case models.TransitionExit:
				summary.ExitsTotal++
			}
		}

		report.Results = append(report.Results, result)
	}

	if summary.ActiveEntriesTotal > 0 {
		summary.ChurnRatio = float64(summary.ReentriesTotal) / float64(summary.ActiveEntriesTotal)
	}
	if summary.DetectionDelaySamples > 0 {
		summary.DetectionDelayAvg = float64(delayTotal) / float64(summary.DetectionDelaySamples)
	}

	logger.WithFields(map[string]interface{}{
		"total": summary.ScenariosTotal,
		"pass":  summary.ScenariosPass,
		"churn": summary.ChurnRatio,
	}).Info("Scenario suite completed")

	return report, nil
}

// firstEntry returns the tick index and reason of the first ENTER event.
func firstEntry(events []models.TransitionEvent) (int, models.TransitionReason, bool) {
	for _, ev := range events {
		if ev.Type == models.TransitionEnter {
			return ev.Index, ev.Reason, true
		}
	}
	return 0, "", false
}

// firstTrouble returns the index of the first snapshot whose ratio
// crossed below the standard entry threshold.
func firstTrouble(sequence []float64, params models.Params) (int, bool) {
	for i, ratio := range sequence {
		if ratio < params.EnterStandard {
			return i, true
		}
	}
	return 0, false
}

func check(expected models.ScenarioExpectation, outcome models.ScenarioOutcome) string {
	if expected.FinalState != nil && outcome.FinalState != *expected.FinalState {
		return fmt.Sprintf("final state %s, want %s", outcome.FinalState, *expected.FinalState)
	}
	if expected.EntryReason != nil && outcome.EntryReason != *expected.EntryReason {
		return fmt.Sprintf("entry reason %q, want %q", outcome.EntryReason, *expected.EntryReason)
	}
	return ""
}

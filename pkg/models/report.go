package models

// ScenarioExpectation is the asserted outcome of a scenario. Nil fields
// are not checked.
type ScenarioExpectation struct {
	FinalState  *UnitState        `json:"final_state,omitempty" yaml:"final_state,omitempty"`
	EntryReason *TransitionReason `json:"entry_reason,omitempty" yaml:"entry_reason,omitempty"`
}

// Scenario is one named synthetic snapshot sequence with its expectation.
type Scenario struct {
	ID          string              `json:"id" yaml:"id"`
	Description string              `json:"description" yaml:"description"`
	Sequence    []float64           `json:"sequence" yaml:"sequence"`
	Expected    ScenarioExpectation `json:"expected" yaml:"expected"`
}

// ScenarioOutcome is what actually happened when a scenario ran.
type ScenarioOutcome struct {
	FinalState         UnitState         `json:"final_state"`
	EntryReason        TransitionReason  `json:"entry_reason,omitempty"`
	Transitions        []TransitionEvent `json:"transitions"`
	DetectionDelay     *int              `json:"detection_delay_snapshots,omitempty"`
}

// ScenarioResult pairs a scenario with its outcome and verdict.
type ScenarioResult struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Sequence    []float64       `json:"sequence"`
	Result      ScenarioOutcome `json:"result"`
	Pass        bool            `json:"pass"`
	Failure     string          `json:"failure,omitempty"`
}

// ScenarioSummary aggregates churn and detection-delay metrics across a
// scenario suite run.
type ScenarioSummary struct {
	ScenariosTotal        int     `json:"scenarios_total"`
	ScenariosPass         int     `json:"scenarios_pass"`
	ActiveEntriesTotal    int     `json:"active_entries_total"`
	ReentriesTotal        int     `json:"reentries_total"`
	ExitsTotal            int     `json:"exits_total"`
	ChurnRatio            float64 `json:"churn_ratio"`
	DetectionDelayAvg     float64 `json:"detection_delay_avg_snapshots"`
	DetectionDelaySamples int     `json:"detection_delay_samples"`
}

// ScenarioReport is the full scenario-suite output artifact.
type ScenarioReport struct {
	Results []ScenarioResult `json:"results"`
	Summary ScenarioSummary  `json:"summary"`
}

// UnitTestSummary is an externally supplied pass/fail tally, merged into
// the metrics report when present.
type UnitTestSummary struct {
	Pass int `json:"pass"`
	Fail int `json:"fail"`
}

// MetricsReport tallies transition activity across a scenario suite.
type MetricsReport struct {
	Transitions            map[TransitionType]int `json:"transitions"`
	FinalStateDistribution map[UnitState]int      `json:"final_state_distribution"`
	TimeInStateSnapshots   map[UnitState]int      `json:"time_in_state_snapshots"`
	ScenarioCount          int                    `json:"scenario_count"`
	UnitTests              *UnitTestSummary       `json:"unit_tests,omitempty"`
}

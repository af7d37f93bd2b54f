package models

import "time"

// UnitStatus is the per-unit outcome of a sequence run.
type UnitStatus struct {
	Unit      string    `json:"unit"`
	State     UnitState `json:"state"`
	LastRatio float64   `json:"last_ratio"`
	LastTS    time.Time `json:"last_ts"`
}

// Roster is the under-served roster: every unit whose final state is
// ACTIVE or STALLED, plus the total evaluated count.
type Roster struct {
	GeneratedAt    time.Time    `json:"generated_at"`
	ParamsVersion  string       `json:"params_version,omitempty"`
	UnitsEvaluated int          `json:"units_evaluated"`
	Count          int          `json:"count"`
	Units          []UnitStatus `json:"units"`
}

package metrics

import (
	"sync"

	"github.com/coveragewatch/coverage-sentinel/pkg/models"
)

// Registry holds process-wide runtime counters, exposed over the API.
type Registry struct {
	mu sync.RWMutex

	// Counters
	snapshotsProcessed int64
	unitsEvaluated     int64
	transitionsTotal   map[models.TransitionType]int64
	scenarioRuns       int64

	// Gauges
	rosterSize     int
	lastStateCount map[models.UnitState]int
}

var (
	instance *Registry
	once     sync.Once
)

func Get() *Registry {
	once.Do(func() {
		instance = &Registry{
			transitionsTotal: make(map[models.TransitionType]int64),
			lastStateCount:   make(map[models.UnitState]int),
		}
	})
	return instance
}

func (r *Registry) AddSnapshots(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshotsProcessed += int64(n)
}

func (r *Registry) IncUnitsEvaluated() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unitsEvaluated++
}

func (r *Registry) IncTransition(t models.TransitionType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitionsTotal[t]++
}

func (r *Registry) IncScenarioRuns() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scenarioRuns++
}

func (r *Registry) SetRoster(size int, stateCount map[models.UnitState]int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rosterSize = size
	r.lastStateCount = stateCount
}

// Snapshot returns a copy of every counter for serialization.
func (r *Registry) Snapshot() map[string]interface{} {
	r.mu.RLock()
	defer r.mu.RUnlock()

	transitions := make(map[models.TransitionType]int64, len(r.transitionsTotal))
	for k, v := range r.transitionsTotal {
		transitions[k] = v
	}
	states := make(map[models.UnitState]int, len(r.lastStateCount))
	for k, v := range r.lastStateCount {
		states[k] = v
	}

	return map[string]interface{}{
		"snapshots_processed": r.snapshotsProcessed,
		"units_evaluated":     r.unitsEvaluated,
		"transitions_total":   transitions,
		"scenario_runs":       r.scenarioRuns,
		"roster_size":         r.rosterSize,
		"state_count":         states,
	}
}

// Reset clears all counters. Intended for tests.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshotsProcessed = 0
	r.unitsEvaluated = 0
	r.scenarioRuns = 0
	r.rosterSize = 0
	r.transitionsTotal = make(map[models.TransitionType]int64)
	r.lastStateCount = make(map[models.UnitState]int)
}

package models

// UnitState is the classification state of a monitored unit.
type UnitState string

const (
	StateNone      UnitState = "NONE"
	StateCandidate UnitState = "CANDIDATE"
	StateActive    UnitState = "ACTIVE"
	StateStalled   UnitState = "STALLED"
	StateCleared   UnitState = "CLEARED"
)

// AllStates lists every reachable state, in machine order.
func AllStates() []UnitState {
	return []UnitState{StateNone, StateCandidate, StateActive, StateStalled, StateCleared}
}

// EngineState fully describes the decision machine between invocations.
// The caller owns the value and threads it through Decide; the engine
// never retains state internally.
type EngineState struct {
	State        UnitState `json:"state"`
	Consecutive  int       `json:"consecutive"`
	CooldownLeft int       `json:"cooldown_left"`
	StallConsec  int       `json:"stall_consec"`
}

// InitialState is the state of a unit that has never been evaluated.
func InitialState() EngineState {
	return EngineState{State: StateNone}
}

// UnderServed reports whether a unit in this state belongs on the roster.
func (s EngineState) UnderServed() bool {
	return s.State == StateActive || s.State == StateStalled
}

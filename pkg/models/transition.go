package models

import "time"

// TransitionType identifies a classification transition.
type TransitionType string

const (
	TransitionEnter      TransitionType = "ENTER"
	TransitionReenter    TransitionType = "REENTER"
	TransitionExit       TransitionType = "EXIT"
	TransitionStall      TransitionType = "STALL"
	TransitionStallBreak TransitionType = "STALL_BREAK"
)

// AllTransitionTypes lists every transition type the engine can emit.
func AllTransitionTypes() []TransitionType {
	return []TransitionType{
		TransitionEnter,
		TransitionReenter,
		TransitionExit,
		TransitionStall,
		TransitionStallBreak,
	}
}

// TransitionReason qualifies why a transition fired.
type TransitionReason string

const (
	ReasonSevere      TransitionReason = "severe"
	ReasonConsecutive TransitionReason = "consecutive"
	ReasonBorderline  TransitionReason = "borderline"
	ReasonDrift       TransitionReason = "drift"
)

// TransitionEvent is emitted by the decision engine when the machine
// changes classification. Type, Reason and Window are set by the engine;
// Unit, Index, Ratio and Timestamp are annotated by the sequence runner.
type TransitionEvent struct {
	Type      TransitionType   `json:"type"`
	Reason    TransitionReason `json:"reason,omitempty"`
	Window    int              `json:"window,omitempty"`
	Unit      string           `json:"unit,omitempty"`
	Index     int              `json:"index"`
	Ratio     float64          `json:"ratio"`
	Timestamp time.Time        `json:"ts,omitempty"`
}

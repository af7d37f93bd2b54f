package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/coveragewatch/coverage-sentinel/internal/logger"
	"github.com/coveragewatch/coverage-sentinel/pkg/models"
)

// ErrNonFiniteRatio is returned when a caller supplies NaN or Inf.
// Ratios outside [0,1] are accepted and compared numerically as-is.
var ErrNonFiniteRatio = errors.New("ratio must be a finite number")

// Engine applies the hysteresis state machine to one ratio at a time.
// It holds only the immutable parameter set; all mutable state lives in
// the EngineState value the caller threads through Decide.
type Engine struct {
	params models.Params
}

// New validates the parameter set and returns an engine bound to it.
func New(params models.Params) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine params: %w", err)
	}
	return &Engine{params: params}, nil
}

// Params returns the parameter set the engine was built with.
func (e *Engine) Params() models.Params {
	return e.params
}

// Decide advances the state machine by one snapshot. prev may be nil for
// a fresh unit. The previous state is never mutated; identical inputs
// always yield identical outputs.
func (e *Engine) Decide(prev *models.EngineState, ratio float64) (models.EngineState, []models.TransitionEvent, error) {
	next, events, err := Decide(e.params, prev, ratio)
	if err != nil {
		return next, events, err
	}
	for _, ev := range events {
		logger.WithFields(map[string]interface{}{
			"transition": ev.Type,
			"reason":     ev.Reason,
			"state":      next.State,
		}).Debugf("Transition at ratio %.4f", ratio)
	}
	return next, events, nil
}

// Decide is the pure transition function: (params, prevState, ratio) ->
// (newState, events). No I/O, no retained state, no randomness.
func Decide(params models.Params, prev *models.EngineState, ratio float64) (models.EngineState, []models.TransitionEvent, error) {
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return models.EngineState{}, nil, fmt.Errorf("%w: %v", ErrNonFiniteRatio, ratio)
	}

	st := models.InitialState()
	if prev != nil {
		st = *prev
	}

	severe := ratio < params.EnterMajor
	borderline := ratio >= params.EnterMajor && ratio < params.EnterStandard
	inStallBand := ratio >= params.StalledMinRatio && ratio < params.StalledMaxRatio

	var next models.EngineState
	var events []models.TransitionEvent

	switch st.State {
	case models.StateNone:
		switch {
		case severe:
			next = models.EngineState{State: models.StateActive}
			events = append(events, models.TransitionEvent{Type: models.TransitionEnter, Reason: models.ReasonSevere})
		case borderline:
			next = models.EngineState{State: models.StateCandidate, Consecutive: 1}
		default:
			next = models.EngineState{State: models.StateNone}
		}

	case models.StateCandidate:
		switch {
		case severe:
			next = models.EngineState{State: models.StateActive}
			events = append(events, models.TransitionEvent{Type: models.TransitionEnter, Reason: models.ReasonSevere})
		case borderline:
			consecutive := st.Consecutive + 1
			if consecutive >= params.ConsecutiveRequired {
				next = models.EngineState{State: models.StateActive}
				events = append(events, models.TransitionEvent{Type: models.TransitionEnter, Reason: models.ReasonConsecutive})
			} else {
				next = models.EngineState{State: models.StateCandidate, Consecutive: consecutive}
			}
		default:
			next = models.EngineState{State: models.StateNone}
		}

	case models.StateActive:
		switch {
		case ratio >= params.Exit:
			next = models.EngineState{State: models.StateCleared, CooldownLeft: params.CooldownSnapshots}
			events = append(events, models.TransitionEvent{Type: models.TransitionExit})
		case inStallBand:
			stallConsec := st.StallConsec + 1
			if stallConsec >= params.StalledWindow {
				next = models.EngineState{State: models.StateStalled, StallConsec: stallConsec}
				events = append(events, models.TransitionEvent{Type: models.TransitionStall, Window: stallConsec})
			} else {
				next = models.EngineState{State: models.StateActive, StallConsec: stallConsec}
			}
		default:
			next = models.EngineState{State: models.StateActive}
		}

	case models.StateStalled:
		switch {
		case ratio >= params.Exit:
			next = models.EngineState{State: models.StateCleared, CooldownLeft: params.CooldownSnapshots}
			events = append(events, models.TransitionEvent{Type: models.TransitionExit})
		case inStallBand:
			next = models.EngineState{State: models.StateStalled, StallConsec: st.StallConsec}
		default:
			next = models.EngineState{State: models.StateActive}
			reason := models.ReasonDrift
			if severe {
				reason = models.ReasonSevere
			} else if borderline {
				reason = models.ReasonBorderline
			}
			events = append(events, models.TransitionEvent{Type: models.TransitionStallBreak, Reason: reason})
		}

	case models.StateCleared:
		switch {
		// A severe reading re-enters even while the cooldown is running.
		case severe:
			next = models.EngineState{State: models.StateActive}
			events = append(events, models.TransitionEvent{Type: models.TransitionReenter, Reason: models.ReasonSevere})
		case st.CooldownLeft == 0 && borderline:
			next = models.EngineState{State: models.StateCandidate, Consecutive: 1}
		default:
			// Cooldown was set on the tick that entered CLEARED and only
			// decrements on later ticks that stay CLEARED.
			cooldown := st.CooldownLeft
			if cooldown > 0 {
				cooldown--
			}
			next = models.EngineState{State: models.StateCleared, CooldownLeft: cooldown}
		}

	default:
		return models.EngineState{}, nil, fmt.Errorf("unknown engine state %q", st.State)
	}

	return next, events, nil
}

package models

import (
	"errors"
	"fmt"
)

// Params is the immutable parameter set driving the decision engine.
// Loaded once at startup, validated once, then shared by reference across
// all units and invocations.
type Params struct {
	EnterMajor          float64 `json:"t_enter_major" mapstructure:"t_enter_major"`
	EnterStandard       float64 `json:"t_enter_standard" mapstructure:"t_enter_standard"`
	Exit                float64 `json:"t_exit" mapstructure:"t_exit"`
	ConsecutiveRequired int     `json:"consecutive_required_standard" mapstructure:"consecutive_required_standard"`
	CooldownSnapshots   int     `json:"cooldown_snapshots_after_exit" mapstructure:"cooldown_snapshots_after_exit"`
	StalledMinRatio     float64 `json:"stalled_min_ratio" mapstructure:"stalled_min_ratio"`
	StalledMaxRatio     float64 `json:"stalled_max_ratio_below_exit" mapstructure:"stalled_max_ratio_below_exit"`
	StalledWindow       int     `json:"stalled_window_snapshots" mapstructure:"stalled_window_snapshots"`
	Version             string  `json:"version,omitempty" mapstructure:"version"`
}

// DefaultParams returns the parameter set used by the scenario suite and
// as configuration fallback.
func DefaultParams() Params {
	return Params{
		EnterMajor:          0.50,
		EnterStandard:       0.60,
		Exit:                0.65,
		ConsecutiveRequired: 3,
		CooldownSnapshots:   2,
		StalledMinRatio:     0.50,
		StalledMaxRatio:     0.60,
		StalledWindow:       4,
		Version:             "default",
	}
}

// Validate fails fast on a malformed parameter set. It is called once at
// load time, never per decision.
func (p Params) Validate() error {
	var errs []error

	if !(p.EnterMajor < p.EnterStandard && p.EnterStandard < p.Exit) {
		errs = append(errs, fmt.Errorf(
			"thresholds must be strictly increasing: t_enter_major=%v t_enter_standard=%v t_exit=%v",
			p.EnterMajor, p.EnterStandard, p.Exit,
		))
	}
	if p.ConsecutiveRequired < 1 {
		errs = append(errs, errors.New("consecutive_required_standard must be >= 1"))
	}
	if p.CooldownSnapshots < 0 {
		errs = append(errs, errors.New("cooldown_snapshots_after_exit must be >= 0"))
	}
	if p.StalledMinRatio >= p.StalledMaxRatio {
		errs = append(errs, errors.New("stalled_min_ratio must be below stalled_max_ratio_below_exit"))
	}
	if p.StalledMaxRatio > p.Exit {
		errs = append(errs, errors.New("stalled_max_ratio_below_exit must not exceed t_exit"))
	}
	if p.StalledWindow < 1 {
		errs = append(errs, errors.New("stalled_window_snapshots must be >= 1"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("params validation failed: %v", errs)
	}
	return nil
}

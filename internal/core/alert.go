package core

import (
	"fmt"
	"time"
)

// Alert policy names accepted by ParseAlertPolicy
const (
	AlertPolicyGrace    = "grace"
	AlertPolicyMinSleep = "min_sleep"
)

// Defaults for the two alert policies
const (
	DefaultAlertGrace = 30 * time.Minute
	DefaultMinSleep   = 7 * time.Hour
)

// AlertPolicy decides whether the user is running low on sleep.
// It is only consulted while the phase is PhaseWakeup and before the
// wake-up boundary has been reached.
type AlertPolicy interface {
	Name() string
	IsRunningLow(state WindowState, now time.Time) bool
}

// GracePolicy raises the alert once more than Grace has passed since the
// most recent bedtime.
type GracePolicy struct {
	Grace time.Duration
}

// Name returns the policy identifier
func (p GracePolicy) Name() string {
	return AlertPolicyGrace
}

// IsRunningLow implements AlertPolicy
func (p GracePolicy) IsRunningLow(state WindowState, now time.Time) bool {
	return now.Sub(state.SpanStart) > p.Grace
}

// MinSleepPolicy raises the alert when less than Minimum remains until wake-up
type MinSleepPolicy struct {
	Minimum time.Duration
}

// Name returns the policy identifier
func (p MinSleepPolicy) Name() string {
	return AlertPolicyMinSleep
}

// IsRunningLow implements AlertPolicy
func (p MinSleepPolicy) IsRunningLow(state WindowState, now time.Time) bool {
	return time.Duration(state.SecondsRemaining)*time.Second < p.Minimum
}

// DefaultAlertPolicy returns the 30-minute grace policy
func DefaultAlertPolicy() AlertPolicy {
	return GracePolicy{Grace: DefaultAlertGrace}
}

// ParseAlertPolicy builds a policy from its configured name.
// An empty name selects the grace policy; non-positive durations fall back to defaults.
func ParseAlertPolicy(name string, grace, minSleep time.Duration) (AlertPolicy, error) {
	switch name {
	case "", AlertPolicyGrace:
		if grace <= 0 {
			grace = DefaultAlertGrace
		}
		return GracePolicy{Grace: grace}, nil
	case AlertPolicyMinSleep:
		if minSleep <= 0 {
			minSleep = DefaultMinSleep
		}
		return MinSleepPolicy{Minimum: minSleep}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidAlertPolicy, name)
	}
}

var (
	_ AlertPolicy = GracePolicy{}
	_ AlertPolicy = MinSleepPolicy{}
)

package core

import (
	"time"
)

// Phase identifies which schedule boundary the countdown is heading for
type Phase string

const (
	PhaseBedtime Phase = "bedtime"
	PhaseWakeup  Phase = "wakeup"
)

// Schedule defines the daily sleep window.
// Bedtime may equal Wakeup; the window then spans a full day.
type Schedule struct {
	Bedtime TimeOfDay
	Wakeup  TimeOfDay
}

// Validate checks both boundaries
func (s Schedule) Validate() error {
	if err := s.Bedtime.Validate(); err != nil {
		return err
	}
	return s.Wakeup.Validate()
}

// IsDegenerate returns true when bedtime and wakeup are the same time of day
func (s Schedule) IsDegenerate() bool {
	return s.Bedtime == s.Wakeup
}

// SleepDuration returns the length of the sleeping span (bedtime -> wakeup)
// measured on the wall clock. A degenerate schedule sleeps for 24 hours.
func (s Schedule) SleepDuration() time.Duration {
	minutes := s.Wakeup.MinutesSinceMidnight() - s.Bedtime.MinutesSinceMidnight()
	if minutes <= 0 {
		minutes += 24 * 60
	}
	return time.Duration(minutes) * time.Minute
}

// WindowState is the countdown computed for one instant.
// It is recomputed on every evaluation and never stored as "current phase".
type WindowState struct {
	Phase            Phase
	SecondsRemaining int
	ProgressFraction float64
	IsRunningLow     bool

	SecondsToBedtime int
	SecondsToWakeup  int
	NextBedtime      time.Time
	NextWakeup       time.Time

	// SpanStart is the most recent occurrence of the boundary opposite to
	// Target; progress runs from SpanStart to Target.
	SpanStart time.Time
	Target    time.Time
}

// IsSleepingPeriod returns true while counting down to wake-up
func (s WindowState) IsSleepingPeriod() bool {
	return s.Phase == PhaseWakeup
}

// WindowCalculator evaluates a schedule against a clock reading.
// It holds no mutable state and is safe for concurrent use.
type WindowCalculator struct {
	alert AlertPolicy
}

// NewWindowCalculator creates a calculator with the given alert policy.
// A nil policy selects DefaultAlertPolicy.
func NewWindowCalculator(alert AlertPolicy) *WindowCalculator {
	if alert == nil {
		alert = DefaultAlertPolicy()
	}
	return &WindowCalculator{alert: alert}
}

// AlertPolicy returns the policy used for the running-low flag
func (c *WindowCalculator) AlertPolicy() AlertPolicy {
	return c.alert
}

var defaultCalculator = NewWindowCalculator(nil)

// Evaluate computes the window state using the default alert policy
func Evaluate(schedule Schedule, now time.Time) WindowState {
	return defaultCalculator.Evaluate(schedule, now)
}

// Evaluate computes the countdown for schedule at now.
//
// Both boundaries are projected onto now's calendar day (in now's location)
// and any boundary strictly before now moves to the next day, so both are
// at or after now. The nearer one wins; a tie resolves to PhaseWakeup.
func (c *WindowCalculator) Evaluate(schedule Schedule, now time.Time) WindowState {
	nextBedtime := nextOccurrence(schedule.Bedtime, now)
	nextWakeup := nextOccurrence(schedule.Wakeup, now)

	toBedtime := nextBedtime.Sub(now)
	toWakeup := nextWakeup.Sub(now)

	state := WindowState{
		SecondsToBedtime: wholeSeconds(toBedtime),
		SecondsToWakeup:  wholeSeconds(toWakeup),
		NextBedtime:      nextBedtime,
		NextWakeup:       nextWakeup,
	}

	var opposite TimeOfDay
	if toBedtime < toWakeup {
		state.Phase = PhaseBedtime
		state.Target = nextBedtime
		state.SecondsRemaining = state.SecondsToBedtime
		opposite = schedule.Wakeup
	} else {
		state.Phase = PhaseWakeup
		state.Target = nextWakeup
		state.SecondsRemaining = state.SecondsToWakeup
		opposite = schedule.Bedtime
	}

	state.SpanStart = previousOccurrence(opposite, state.Target)
	state.ProgressFraction = progress(state.SpanStart, state.Target, now)

	// No alert while counting down to bedtime, nor at the wake-up instant itself
	if state.Phase == PhaseWakeup && now.Before(state.Target) {
		state.IsRunningLow = c.alert.IsRunningLow(state, now)
	}

	return state
}

// nextOccurrence returns the first instant at or after now that falls on t
func nextOccurrence(t TimeOfDay, now time.Time) time.Time {
	projected := t.On(now)
	if projected.Before(now) {
		year, month, day := now.Date()
		projected = t.onDate(year, month, day+1, now.Location())
	}
	return projected
}

// previousOccurrence returns the last instant strictly before target that falls on t.
// When t and target share a time of day this is exactly one calendar day earlier.
func previousOccurrence(t TimeOfDay, target time.Time) time.Time {
	start := t.On(target)
	if !start.Before(target) {
		year, month, day := target.Date()
		start = t.onDate(year, month, day-1, target.Location())
	}
	return start
}

// progress returns the elapsed fraction of [start, end] at now, clamped to [0, 1].
// An empty or inverted span counts as complete.
func progress(start, end, now time.Time) float64 {
	span := end.Sub(start)
	if span <= 0 {
		return 1.0
	}

	fraction := float64(now.Sub(start)) / float64(span)
	if fraction < 0 {
		return 0
	}
	if fraction > 1 {
		return 1
	}
	return fraction
}

// wholeSeconds truncates d to whole seconds, never below zero
func wholeSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d / time.Second)
}

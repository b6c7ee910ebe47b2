package core

import (
	"fmt"
	"time"
)

// MaxTimelineEntries bounds the number of entries a single timeline may hold
const MaxTimelineEntries = 1440

// TimelinePolicy controls how far ahead and how densely a timeline is generated
type TimelinePolicy struct {
	Step    time.Duration
	Horizon time.Duration
}

// Timeline presets used by the widgets
var (
	// WidgetTimeline refreshes the home-screen widgets every 15 minutes for a day
	WidgetTimeline = TimelinePolicy{Step: 15 * time.Minute, Horizon: 24 * time.Hour}
	// ControlTimeline refreshes the timer control every 5 minutes for an hour
	ControlTimeline = TimelinePolicy{Step: 5 * time.Minute, Horizon: time.Hour}
)

// Validate validates a TimelinePolicy
func (p TimelinePolicy) Validate() error {
	if p.Step <= 0 {
		return fmt.Errorf("%w: step must be positive", ErrInvalidTimelinePolicy)
	}
	if p.Horizon < p.Step {
		return fmt.Errorf("%w: horizon must be at least one step", ErrInvalidTimelinePolicy)
	}
	if p.EntryCount() > MaxTimelineEntries {
		return fmt.Errorf("%w: more than %d entries", ErrInvalidTimelinePolicy, MaxTimelineEntries)
	}
	return nil
}

// EntryCount returns the number of entries the policy produces
func (p TimelinePolicy) EntryCount() int {
	if p.Step <= 0 {
		return 0
	}
	n := int(p.Horizon / p.Step)
	if p.Horizon%p.Step != 0 {
		n++
	}
	return n
}

// ParseTimelinePreset returns a named preset ("widget" or "control")
func ParseTimelinePreset(name string) (TimelinePolicy, error) {
	switch name {
	case "", "widget":
		return WidgetTimeline, nil
	case "control":
		return ControlTimeline, nil
	default:
		return TimelinePolicy{}, fmt.Errorf("%w: unknown preset %q", ErrInvalidTimelinePolicy, name)
	}
}

// TimelineEntry is the state of the schedule at one point of the timeline
type TimelineEntry struct {
	At    time.Time
	State WindowState
}

// Timeline is a precomputed sequence of states for a display host that
// cannot evaluate on its own. ReloadAt is when the host should ask again.
type Timeline struct {
	Entries  []TimelineEntry
	ReloadAt time.Time
}

// BuildTimeline evaluates schedule at start and every policy.Step after it,
// up to (but excluding) start + policy.Horizon. Each entry is independent.
func (c *WindowCalculator) BuildTimeline(schedule Schedule, start time.Time, policy TimelinePolicy) (*Timeline, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	entries := make([]TimelineEntry, 0, policy.EntryCount())
	for offset := time.Duration(0); offset < policy.Horizon; offset += policy.Step {
		at := start.Add(offset)
		entries = append(entries, TimelineEntry{
			At:    at,
			State: c.Evaluate(schedule, at),
		})
	}

	return &Timeline{
		Entries:  entries,
		ReloadAt: start.Add(policy.Horizon),
	}, nil
}

package core

import (
	"errors"
	"strings"
	"time"
)

// AccentColor is the named accent color of a profile's displays
type AccentColor string

const (
	AccentBlue   AccentColor = "blue"
	AccentRed    AccentColor = "red"
	AccentGreen  AccentColor = "green"
	AccentPurple AccentColor = "purple"
)

// IsValid returns true for the supported accent colors
func (a AccentColor) IsValid() bool {
	switch a {
	case AccentBlue, AccentRed, AccentGreen, AccentPurple:
		return true
	}
	return false
}

// Appearance holds display preferences
type Appearance struct {
	DarkMode    bool
	AccentColor AccentColor
}

// Labels holds the customisable icons and texts shown next to the countdown
type Labels struct {
	BedtimeIcon string
	WakeupIcon  string
	AlertIcon   string
	BedtimeText string
	WakeupText  string
	AlertText   string
}

// DefaultLabels returns the stock icons and texts
func DefaultLabels() Labels {
	return Labels{
		BedtimeIcon: "bed.double.fill",
		WakeupIcon:  "alarm.fill",
		AlertIcon:   "exclamationmark.triangle.fill",
		BedtimeText: "Time until bedtime",
		WakeupText:  "Time until wake-up",
		AlertText:   "Sleep time running out!",
	}
}

// withDefaults fills empty fields from DefaultLabels
func (l Labels) withDefaults() Labels {
	d := DefaultLabels()
	if l.BedtimeIcon == "" {
		l.BedtimeIcon = d.BedtimeIcon
	}
	if l.WakeupIcon == "" {
		l.WakeupIcon = d.WakeupIcon
	}
	if l.AlertIcon == "" {
		l.AlertIcon = d.AlertIcon
	}
	if l.BedtimeText == "" {
		l.BedtimeText = d.BedtimeText
	}
	if l.WakeupText == "" {
		l.WakeupText = d.WakeupText
	}
	if l.AlertText == "" {
		l.AlertText = d.AlertText
	}
	return l
}

// Profile is a user's stored sleep preferences.
// It supplies the schedule and timezone for evaluation; the calculator never reads it directly.
type Profile struct {
	ID           string
	Name         string
	Timezone     string // IANA name, empty means UTC
	Bedtime      TimeOfDay
	Wakeup       TimeOfDay
	Appearance   Appearance
	Labels       Labels
	TimerRunning bool // whether the timer control widget shows the countdown
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewProfile creates a profile with the default schedule and appearance
func NewProfile(id, name string) *Profile {
	return &Profile{
		ID:       id,
		Name:     name,
		Timezone: "UTC",
		Bedtime:  DefaultBedtime,
		Wakeup:   DefaultWakeup,
		Appearance: Appearance{
			AccentColor: AccentBlue,
		},
		Labels: DefaultLabels(),
	}
}

// ApplyDefaults fills unset appearance and label fields
func (p *Profile) ApplyDefaults() {
	if p.Appearance.AccentColor == "" {
		p.Appearance.AccentColor = AccentBlue
	}
	p.Labels = p.Labels.withDefaults()
}

// Validate validates a Profile
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrInvalidProfileName
	}
	if err := p.Schedule().Validate(); err != nil {
		return err
	}
	if p.Appearance.AccentColor != "" && !p.Appearance.AccentColor.IsValid() {
		return ErrInvalidAccentColor
	}
	if _, err := time.LoadLocation(p.Timezone); err != nil {
		return ErrInvalidTimezone
	}
	return nil
}

// Schedule returns the profile's sleep schedule
func (p *Profile) Schedule() Schedule {
	return Schedule{Bedtime: p.Bedtime, Wakeup: p.Wakeup}
}

// Location returns the profile's timezone, falling back to UTC
func (p *Profile) Location() *time.Location {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ActivityStatus represents the lifecycle state of a live activity
type ActivityStatus string

const (
	ActivityStatusActive ActivityStatus = "active"
	ActivityStatusEnded  ActivityStatus = "ended"
)

// DefaultActivityName is the title shown on a live activity
const DefaultActivityName = "Sleep Timer"

// ActivityContent is the dynamic part of a live activity, refreshed from a WindowState
type ActivityContent struct {
	Phase            Phase
	SecondsRemaining int
	Progress         float64
	IsSleepingPeriod bool
	IsRunningLow     bool
}

// ContentFromState projects a WindowState onto live-activity content
func ContentFromState(state WindowState) ActivityContent {
	return ActivityContent{
		Phase:            state.Phase,
		SecondsRemaining: state.SecondsRemaining,
		Progress:         state.ProgressFraction,
		IsSleepingPeriod: state.IsSleepingPeriod(),
		IsRunningLow:     state.IsRunningLow,
	}
}

// LiveActivity is a lock-screen countdown started for a profile.
// StartedAt and EndsAt are fixed at start; Content changes on every refresh.
type LiveActivity struct {
	ID              string
	ProfileID       string
	Name            string
	StartedAt       time.Time
	EndsAt          time.Time // wake-up boundary following the start
	Status          ActivityStatus
	Content         ActivityContent
	LastRefreshedAt time.Time
	EndedAt         *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsActive returns true if the activity is still running
func (a *LiveActivity) IsActive() bool {
	return a.Status == ActivityStatusActive
}

// IsExpired returns true once now has reached EndsAt
func (a *LiveActivity) IsExpired(now time.Time) bool {
	return !now.Before(a.EndsAt)
}

// Validation and lookup errors
var (
	ErrInvalidTimeOfDay      = errors.New("invalid time of day")
	ErrInvalidAlertPolicy    = errors.New("invalid alert policy")
	ErrInvalidTimelinePolicy = errors.New("invalid timeline policy")
	ErrInvalidProfileName    = errors.New("profile name cannot be empty")
	ErrInvalidAccentColor    = errors.New("accent color must be one of blue, red, green, purple")
	ErrInvalidTimezone       = errors.New("invalid timezone")
	ErrProfileNotFound       = errors.New("profile not found")
	ErrActivityNotFound      = errors.New("live activity not found")
	ErrActivityAlreadyActive = errors.New("a live activity is already running for this profile")
	ErrActivityNotActive     = errors.New("live activity is not active")
)

package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time with no date attached
type TimeOfDay struct {
	Hour   int
	Minute int
}

// Default schedule boundaries used when a profile does not set its own
var (
	DefaultBedtime = TimeOfDay{Hour: 22, Minute: 0}
	DefaultWakeup  = TimeOfDay{Hour: 7, Minute: 0}
)

// NewTimeOfDay validates hour and minute and returns a TimeOfDay.
// Out-of-range values are rejected, never clamped.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("%w: hour must be between 0 and 23, got %d", ErrInvalidTimeOfDay, hour)
	}
	if minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: minute must be between 0 and 59, got %d", ErrInvalidTimeOfDay, minute)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// ParseTimeOfDay parses a time string in HH:MM format
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TimeOfDay{}, fmt.Errorf("%w: time cannot be empty", ErrInvalidTimeOfDay)
	}

	parts := strings.Split(s, ":")
	if len(parts) != 2 || !isDigits(parts[0]) || len(parts[1]) != 2 || !isDigits(parts[1]) {
		return TimeOfDay{}, fmt.Errorf("%w: invalid time format '%s', expected HH:MM", ErrInvalidTimeOfDay, s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: invalid hour in '%s'", ErrInvalidTimeOfDay, s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: invalid minute in '%s'", ErrInvalidTimeOfDay, s)
	}

	return NewTimeOfDay(hour, minute)
}

// isDigits reports whether s is non-empty and made of ASCII digits only
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Validate checks the hour/minute ranges of a TimeOfDay built as a literal
func (t TimeOfDay) Validate() error {
	_, err := NewTimeOfDay(t.Hour, t.Minute)
	return err
}

// String formats the time as HH:MM
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// MinutesSinceMidnight returns the offset of the time from 00:00
func (t TimeOfDay) MinutesSinceMidnight() int {
	return t.Hour*60 + t.Minute
}

// On projects the time onto the calendar day of ref, in ref's location,
// with seconds forced to zero.
func (t TimeOfDay) On(ref time.Time) time.Time {
	year, month, day := ref.Date()
	return t.onDate(year, month, day, ref.Location())
}

// onDate builds the instant for an explicit calendar day; day may overflow
// and is normalised by time.Date.
func (t TimeOfDay) onDate(year int, month time.Month, day int, loc *time.Location) time.Time {
	return time.Date(year, month, day, t.Hour, t.Minute, 0, 0, loc)
}

// MarshalText encodes the time as HH:MM for JSON and YAML
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes an HH:MM string
func (t *TimeOfDay) UnmarshalText(text []byte) error {
	parsed, err := ParseTimeOfDay(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

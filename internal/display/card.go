package display

import (
	"fmt"
	"sleepcountdown/internal/core"
)

// Context is the surface a card is rendered for
type Context string

const (
	ContextSmall  Context = "small"
	ContextMedium Context = "medium"
	ContextLive   Context = "live"
)

// Live activity tints
const (
	TintSleeping = "blue"
	TintAwake    = "indigo"
)

// ParseContext parses a context name; empty selects small
func ParseContext(s string) (Context, error) {
	switch Context(s) {
	case "", ContextSmall:
		return ContextSmall, nil
	case ContextMedium:
		return ContextMedium, nil
	case ContextLive:
		return ContextLive, nil
	}
	return "", fmt.Errorf("unknown display context %q", s)
}

// Card is a rendered countdown ready for a widget or live activity
type Card struct {
	Context     Context    `json:"context"`
	Phase       core.Phase `json:"phase"`
	Icon        string     `json:"icon"`
	Text        string     `json:"text"`
	Color       string     `json:"color"`
	Tint        string     `json:"tint"`
	Remaining   string     `json:"remaining"`
	TargetLabel string     `json:"target_label"`
	Progress    float64    `json:"progress"`
	Alert       bool       `json:"alert"`
	DarkMode    bool       `json:"dark_mode"`
}

// Render builds the card for state using the profile's labels and appearance.
// The running-low alert replaces the phase icon and text.
func Render(state core.WindowState, profile *core.Profile, ctx Context) Card {
	labels := core.DefaultLabels()
	appearance := core.Appearance{AccentColor: core.AccentBlue}
	if profile != nil {
		p := *profile
		p.ApplyDefaults()
		labels = p.Labels
		appearance = p.Appearance
	}

	card := Card{
		Context:     ctx,
		Phase:       state.Phase,
		Color:       string(appearance.AccentColor),
		Remaining:   Remaining(ctx, state.SecondsRemaining),
		TargetLabel: TargetLabel(state.Target),
		Progress:    state.ProgressFraction,
		Alert:       state.IsRunningLow,
		DarkMode:    appearance.DarkMode,
	}

	switch {
	case state.IsRunningLow:
		card.Icon, card.Text = labels.AlertIcon, labels.AlertText
	case state.Phase == core.PhaseWakeup:
		card.Icon, card.Text = labels.WakeupIcon, labels.WakeupText
	default:
		card.Icon, card.Text = labels.BedtimeIcon, labels.BedtimeText
	}

	card.Tint = card.Color
	if ctx == ContextLive {
		if state.IsSleepingPeriod() {
			card.Tint = TintSleeping
		} else {
			card.Tint = TintAwake
		}
	}

	return card
}

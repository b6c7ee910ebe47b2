package bot

import (
	"fmt"
	"math"
	"sleepcountdown/internal/display"
	"strings"
	"time"
)

const progressBarWidth = 10

// FormatCountdown formats a countdown evaluation into a Telegram message
func FormatCountdown(profile *Profile, countdown *Countdown) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s *%s*\n", phaseEmoji(countdown.Phase, countdown.IsRunningLow), profile.Name))
	sb.WriteString(fmt.Sprintf("%s\n\n", countdown.Card.Text))
	sb.WriteString(fmt.Sprintf("⏳ *%s* (at %s)\n", display.Clock(countdown.SecondsRemaining), display.TargetLabel(countdown.Target)))
	sb.WriteString(fmt.Sprintf("%s %d%%\n", progressBar(countdown.Progress), int(math.Round(countdown.Progress*100))))

	if countdown.IsRunningLow {
		sb.WriteString("\n⚠️ Sleep time is running out!\n")
	}

	sb.WriteString(fmt.Sprintf("\n🛏 Bedtime %s · ⏰ Wake-up %s (%s)\n", profile.Bedtime, profile.Wakeup, profile.Timezone))

	return sb.String()
}

// FormatTimeline formats a timeline, listing the start and every change of phase or alert
func FormatTimeline(timeline *Timeline) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("🗓 *Timeline* (every %s for %s)\n\n", shortDuration(timeline.Step), shortDuration(timeline.Horizon)))

	if len(timeline.Entries) == 0 {
		sb.WriteString("No entries.\n")
		return sb.String()
	}

	var prev *TimelineEntry
	for i := range timeline.Entries {
		entry := &timeline.Entries[i]
		if prev != nil && prev.Phase == entry.Phase && prev.IsRunningLow == entry.IsRunningLow {
			continue
		}

		sb.WriteString(fmt.Sprintf("`%s` %s %s left until %s\n",
			entry.At.Format("15:04"),
			phaseEmoji(entry.Phase, entry.IsRunningLow),
			display.Compact(entry.SecondsRemaining),
			phaseName(entry.Phase),
		))
		prev = entry
	}

	sb.WriteString(fmt.Sprintf("\n🔄 Reload at %s\n", timeline.ReloadAt.Format("15:04")))

	return sb.String()
}

// FormatActivity formats a live activity
func FormatActivity(activity *Activity) string {
	var sb strings.Builder

	if activity.Status == "active" {
		sb.WriteString(fmt.Sprintf("🌙 *%s started*\n\n", activity.Name))
		sb.WriteString(fmt.Sprintf("⏳ %s left until %s\n", activity.Content.Countdown, phaseName(activity.Content.Phase)))
		sb.WriteString(fmt.Sprintf("🏁 Ends at %s\n", display.TargetLabel(activity.EndsAt)))
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("☀️ *%s ended*\n\n", activity.Name))
	sb.WriteString(fmt.Sprintf("Started at %s\n", display.TargetLabel(activity.StartedAt)))

	return sb.String()
}

// FormatError formats an error message
func FormatError(err error) string {
	return fmt.Sprintf("❌ *Error*\n\n%s", err.Error())
}

func phaseEmoji(phase string, runningLow bool) string {
	switch {
	case runningLow:
		return "⚠️"
	case phase == "wakeup":
		return "⏰"
	default:
		return "🛏"
	}
}

func phaseName(phase string) string {
	if phase == "wakeup" {
		return "wake-up"
	}
	return "bedtime"
}

// progressBar renders a fraction in [0,1] as a fixed-width bar
func progressBar(fraction float64) string {
	filled := int(math.Round(math.Max(0, math.Min(1, fraction)) * progressBarWidth))
	return strings.Repeat("▓", filled) + strings.Repeat("░", progressBarWidth-filled)
}

// shortDuration renders "15m0s" as "15m" and "24h0m0s" as "24h"
func shortDuration(s string) string {
	d, err := time.ParseDuration(s)
	if err != nil {
		return s
	}
	out := d.String()
	if strings.HasSuffix(out, "m0s") {
		out = strings.TrimSuffix(out, "0s")
	}
	if strings.HasSuffix(out, "h0m") {
		out = strings.TrimSuffix(out, "0m")
	}
	return out
}

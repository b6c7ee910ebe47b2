package display

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Clock formats seconds as H:MM:SS, the live-activity countdown style
func Clock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

// Short formats seconds as HH:MM, dropping leftover seconds
func Short(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/3600, (seconds%3600)/60)
}

// Compact formats seconds as "7h 05m"
func Compact(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%dh %02dm", seconds/3600, (seconds%3600)/60)
}

// ParseClock parses H:MM:SS or HH:MM back into seconds
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid countdown %q", s)
	}

	total := 0
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid countdown %q", s)
		}
		if i > 0 && n > 59 {
			return 0, fmt.Errorf("invalid countdown %q", s)
		}
		total = total*60 + n
	}
	if len(parts) == 2 {
		total *= 60
	}
	return total, nil
}

// TargetLabel formats the boundary instant as "7:00 AM"
func TargetLabel(t time.Time) string {
	return t.Format("3:04 PM")
}

// Remaining formats seconds in the style of the given display context
func Remaining(ctx Context, seconds int) string {
	switch ctx {
	case ContextMedium:
		return Compact(seconds)
	case ContextLive:
		return Clock(seconds)
	default:
		return Short(seconds)
	}
}

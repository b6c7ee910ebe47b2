package handlers

import (
	"sleepcountdown/internal/core"
	"sleepcountdown/internal/display"
	"time"

	"github.com/gin-gonic/gin"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

func formatProfileResponse(profile *core.Profile) gin.H {
	return gin.H{
		"id":       profile.ID,
		"name":     profile.Name,
		"timezone": profile.Timezone,
		"bedtime":  profile.Bedtime.String(),
		"wakeup":   profile.Wakeup.String(),
		"appearance": gin.H{
			"dark_mode":    profile.Appearance.DarkMode,
			"accent_color": string(profile.Appearance.AccentColor),
		},
		"labels": gin.H{
			"bedtime_icon": profile.Labels.BedtimeIcon,
			"wakeup_icon":  profile.Labels.WakeupIcon,
			"alert_icon":   profile.Labels.AlertIcon,
			"bedtime_text": profile.Labels.BedtimeText,
			"wakeup_text":  profile.Labels.WakeupText,
			"alert_text":   profile.Labels.AlertText,
		},
		"timer_running":  profile.TimerRunning,
		"sleep_duration": int(profile.Schedule().SleepDuration().Minutes()),
		"created_at":     profile.CreatedAt.Format(timeLayout),
		"updated_at":     profile.UpdatedAt.Format(timeLayout),
	}
}

func formatStateResponse(at time.Time, state core.WindowState) gin.H {
	return gin.H{
		"at":                 at.Format(timeLayout),
		"phase":              string(state.Phase),
		"seconds_remaining":  state.SecondsRemaining,
		"progress":           state.ProgressFraction,
		"is_running_low":     state.IsRunningLow,
		"is_sleeping_period": state.IsSleepingPeriod(),
		"seconds_to_bedtime": state.SecondsToBedtime,
		"seconds_to_wakeup":  state.SecondsToWakeup,
		"next_bedtime":       state.NextBedtime.Format(timeLayout),
		"next_wakeup":        state.NextWakeup.Format(timeLayout),
		"span_start":         state.SpanStart.Format(timeLayout),
		"target":             state.Target.Format(timeLayout),
	}
}

func formatCountdownResponse(profile *core.Profile, at time.Time, state core.WindowState, ctx display.Context) gin.H {
	response := formatStateResponse(at, state)
	response["profile_id"] = profile.ID
	response["card"] = display.Render(state, profile, ctx)
	return response
}

func formatActivityResponse(activity *core.LiveActivity) gin.H {
	response := gin.H{
		"id":         activity.ID,
		"profile_id": activity.ProfileID,
		"name":       activity.Name,
		"status":     string(activity.Status),
		"started_at": activity.StartedAt.Format(timeLayout),
		"ends_at":    activity.EndsAt.Format(timeLayout),
		"content": gin.H{
			"phase":              string(activity.Content.Phase),
			"seconds_remaining":  activity.Content.SecondsRemaining,
			"countdown":          display.Clock(activity.Content.SecondsRemaining),
			"progress":           activity.Content.Progress,
			"is_sleeping_period": activity.Content.IsSleepingPeriod,
			"is_running_low":     activity.Content.IsRunningLow,
		},
		"last_refreshed_at": activity.LastRefreshedAt.Format(timeLayout),
		"created_at":        activity.CreatedAt.Format(timeLayout),
		"updated_at":        activity.UpdatedAt.Format(timeLayout),
	}

	if activity.EndedAt != nil {
		response["ended_at"] = activity.EndedAt.Format(timeLayout)
	}

	return response
}

func errorResponse(message, code string) gin.H {
	return gin.H{
		"error": message,
		"code":  code,
	}
}

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sleepcountdown/internal/core"
	"sleepcountdown/internal/display"
	"time"

	"github.com/gin-gonic/gin"
)

// ProfileGetter looks up the profile whose schedule is evaluated
type ProfileGetter interface {
	GetProfile(ctx context.Context, id string) (*core.Profile, error)
}

// CountdownHandler serves countdown evaluations and widget timelines
type CountdownHandler struct {
	profiles   ProfileGetter
	calculator *core.WindowCalculator
	clock      core.Clock
	logger     *slog.Logger
}

// NewCountdownHandler creates a new countdown handler
func NewCountdownHandler(profiles ProfileGetter, calculator *core.WindowCalculator, clock core.Clock, logger *slog.Logger) *CountdownHandler {
	if clock == nil {
		clock = core.RealClock{}
	}
	return &CountdownHandler{
		profiles:   profiles,
		calculator: calculator,
		clock:      clock,
		logger:     logger,
	}
}

// GetCountdown evaluates a profile's schedule
// GET /profiles/:id/countdown?at=RFC3339&context=small|medium|live
func (h *CountdownHandler) GetCountdown(c *gin.Context) {
	profile, ok := h.loadProfile(c)
	if !ok {
		return
	}

	ctx, err := display.ParseContext(c.Query("context"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error(), "INVALID_CONTEXT"))
		return
	}

	at, ok := h.instant(c, profile.Location())
	if !ok {
		return
	}

	state := h.calculator.Evaluate(profile.Schedule(), at)
	c.JSON(http.StatusOK, formatCountdownResponse(profile, at, state, ctx))
}

// GetTimeline returns precomputed entries for a widget host
// GET /profiles/:id/timeline?preset=widget|control or ?step=15m&horizon=24h
func (h *CountdownHandler) GetTimeline(c *gin.Context) {
	profile, ok := h.loadProfile(c)
	if !ok {
		return
	}

	policy, err := timelinePolicy(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error(), "INVALID_TIMELINE_POLICY"))
		return
	}

	ctx, err := display.ParseContext(c.Query("context"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error(), "INVALID_CONTEXT"))
		return
	}

	start, ok := h.instant(c, profile.Location())
	if !ok {
		return
	}

	timeline, err := h.calculator.BuildTimeline(profile.Schedule(), start, policy)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error(), "INVALID_TIMELINE_POLICY"))
		return
	}

	entries := make([]gin.H, 0, len(timeline.Entries))
	for _, entry := range timeline.Entries {
		card := display.Render(entry.State, profile, ctx)
		entries = append(entries, gin.H{
			"at":                entry.At.Format(timeLayout),
			"phase":             string(entry.State.Phase),
			"seconds_remaining": entry.State.SecondsRemaining,
			"progress":          entry.State.ProgressFraction,
			"is_running_low":    entry.State.IsRunningLow,
			"remaining":         card.Remaining,
			"icon":              card.Icon,
			"text":              card.Text,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"profile_id": profile.ID,
		"step":       policy.Step.String(),
		"horizon":    policy.Horizon.String(),
		"reload_at":  timeline.ReloadAt.Format(timeLayout),
		"entries":    entries,
	})
}

// Evaluate computes a countdown for an ad-hoc schedule without a stored profile
// POST /evaluate
func (h *CountdownHandler) Evaluate(c *gin.Context) {
	var req struct {
		Bedtime  string `json:"bedtime" binding:"required"`
		Wakeup   string `json:"wakeup" binding:"required"`
		At       string `json:"at"`
		Timezone string `json:"timezone"`
		Context  string `json:"context"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"code":    "INVALID_REQUEST",
			"details": err.Error(),
		})
		return
	}

	bedtime, err := core.ParseTimeOfDay(req.Bedtime)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error(), "INVALID_TIME_OF_DAY"))
		return
	}
	wakeup, err := core.ParseTimeOfDay(req.Wakeup)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error(), "INVALID_TIME_OF_DAY"))
		return
	}

	loc, err := time.LoadLocation(req.Timezone)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid timezone "+req.Timezone, "INVALID_TIMEZONE"))
		return
	}

	ctx, err := display.ParseContext(req.Context)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error(), "INVALID_CONTEXT"))
		return
	}

	at := h.clock.Now()
	if req.At != "" {
		at, err = time.Parse(time.RFC3339, req.At)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("at must be an RFC3339 timestamp", "INVALID_TIME"))
			return
		}
	}
	at = at.In(loc)

	state := h.calculator.Evaluate(core.Schedule{Bedtime: bedtime, Wakeup: wakeup}, at)

	response := formatStateResponse(at, state)
	response["card"] = display.Render(state, nil, ctx)
	c.JSON(http.StatusOK, response)
}

func (h *CountdownHandler) loadProfile(c *gin.Context) (*core.Profile, bool) {
	profileID := c.Param("id")

	profile, err := h.profiles.GetProfile(c.Request.Context(), profileID)
	if err != nil {
		if errors.Is(err, core.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, errorResponse("Profile not found", "PROFILE_NOT_FOUND"))
			return nil, false
		}

		h.logger.Error("Failed to get profile",
			"component", "api",
			"profile_id", profileID,
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to retrieve profile", "INTERNAL_ERROR"))
		return nil, false
	}

	return profile, true
}

// instant returns the ?at= query time, or the clock's now, in loc
func (h *CountdownHandler) instant(c *gin.Context, loc *time.Location) (time.Time, bool) {
	raw := c.Query("at")
	if raw == "" {
		return h.clock.Now().In(loc), true
	}

	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("at must be an RFC3339 timestamp", "INVALID_TIME"))
		return time.Time{}, false
	}
	return at.In(loc), true
}

// timelinePolicy reads ?step=&horizon= if given, otherwise ?preset=
func timelinePolicy(c *gin.Context) (core.TimelinePolicy, error) {
	step, horizon := c.Query("step"), c.Query("horizon")
	if step == "" && horizon == "" {
		return core.ParseTimelinePreset(c.Query("preset"))
	}

	policy := core.WidgetTimeline
	if step != "" {
		d, err := time.ParseDuration(step)
		if err != nil {
			return core.TimelinePolicy{}, errors.New("step must be a duration such as 15m")
		}
		policy.Step = d
	}
	if horizon != "" {
		d, err := time.ParseDuration(horizon)
		if err != nil {
			return core.TimelinePolicy{}, errors.New("horizon must be a duration such as 24h")
		}
		policy.Horizon = d
	}
	return policy, policy.Validate()
}

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"sleepcountdown/internal/core"
	"sleepcountdown/internal/idgen"
	"sleepcountdown/internal/storage"

	"github.com/gin-gonic/gin"
)

// ProfilesHandler handles profile-related requests
type ProfilesHandler struct {
	storage         storage.Storage
	defaultSchedule core.Schedule
	defaultTimezone string
	logger          *slog.Logger
}

// NewProfilesHandler creates a new profiles handler.
// New profiles without explicit times or timezone get the given defaults.
func NewProfilesHandler(storage storage.Storage, defaultSchedule core.Schedule, defaultTimezone string, logger *slog.Logger) *ProfilesHandler {
	return &ProfilesHandler{
		storage:         storage,
		defaultSchedule: defaultSchedule,
		defaultTimezone: defaultTimezone,
		logger:          logger,
	}
}

// labelsRequest carries optional label overrides; empty fields keep their current value
type labelsRequest struct {
	BedtimeIcon string `json:"bedtime_icon"`
	WakeupIcon  string `json:"wakeup_icon"`
	AlertIcon   string `json:"alert_icon"`
	BedtimeText string `json:"bedtime_text"`
	WakeupText  string `json:"wakeup_text"`
	AlertText   string `json:"alert_text"`
}

func (r *labelsRequest) applyTo(l *core.Labels) {
	if r == nil {
		return
	}
	if r.BedtimeIcon != "" {
		l.BedtimeIcon = r.BedtimeIcon
	}
	if r.WakeupIcon != "" {
		l.WakeupIcon = r.WakeupIcon
	}
	if r.AlertIcon != "" {
		l.AlertIcon = r.AlertIcon
	}
	if r.BedtimeText != "" {
		l.BedtimeText = r.BedtimeText
	}
	if r.WakeupText != "" {
		l.WakeupText = r.WakeupText
	}
	if r.AlertText != "" {
		l.AlertText = r.AlertText
	}
}

// profileRequest is the body of create and update; nil fields are left unchanged
type profileRequest struct {
	Name         *string        `json:"name"`
	Timezone     *string        `json:"timezone"`
	Bedtime      *string        `json:"bedtime"`
	Wakeup       *string        `json:"wakeup"`
	DarkMode     *bool          `json:"dark_mode"`
	AccentColor  *string        `json:"accent_color"`
	TimerRunning *bool          `json:"timer_running"`
	Labels       *labelsRequest `json:"labels"`
}

// applyTo copies the set fields onto profile, parsing the time strings
func (r *profileRequest) applyTo(profile *core.Profile) error {
	if r.Name != nil {
		profile.Name = *r.Name
	}
	if r.Timezone != nil {
		profile.Timezone = *r.Timezone
	}
	if r.Bedtime != nil {
		bedtime, err := core.ParseTimeOfDay(*r.Bedtime)
		if err != nil {
			return err
		}
		profile.Bedtime = bedtime
	}
	if r.Wakeup != nil {
		wakeup, err := core.ParseTimeOfDay(*r.Wakeup)
		if err != nil {
			return err
		}
		profile.Wakeup = wakeup
	}
	if r.DarkMode != nil {
		profile.Appearance.DarkMode = *r.DarkMode
	}
	if r.AccentColor != nil {
		profile.Appearance.AccentColor = core.AccentColor(*r.AccentColor)
	}
	if r.TimerRunning != nil {
		profile.TimerRunning = *r.TimerRunning
	}
	r.Labels.applyTo(&profile.Labels)
	return nil
}

// ListProfiles returns all profiles
// GET /profiles
func (h *ProfilesHandler) ListProfiles(c *gin.Context) {
	profiles, err := h.storage.ListProfiles(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list profiles",
			"component", "api",
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to retrieve profiles", "INTERNAL_ERROR"))
		return
	}

	response := make([]gin.H, 0, len(profiles))
	for _, profile := range profiles {
		response = append(response, formatProfileResponse(profile))
	}

	c.JSON(http.StatusOK, response)
}

// CreateProfile creates a profile
// POST /profiles
func (h *ProfilesHandler) CreateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"code":    "INVALID_REQUEST",
			"details": err.Error(),
		})
		return
	}

	if req.Name == nil {
		c.JSON(http.StatusBadRequest, errorResponse("name is required", "INVALID_REQUEST"))
		return
	}

	profile := core.NewProfile(idgen.NewProfile(), *req.Name)
	profile.Bedtime = h.defaultSchedule.Bedtime
	profile.Wakeup = h.defaultSchedule.Wakeup
	if h.defaultTimezone != "" {
		profile.Timezone = h.defaultTimezone
	}

	if err := req.applyTo(profile); err != nil {
		h.writeProfileError(c, err)
		return
	}

	if err := h.storage.CreateProfile(c.Request.Context(), profile); err != nil {
		h.writeProfileError(c, err)
		return
	}

	h.logger.Info("Profile created",
		"component", "api",
		"profile_id", profile.ID,
		"bedtime", profile.Bedtime.String(),
		"wakeup", profile.Wakeup.String(),
	)

	c.JSON(http.StatusCreated, formatProfileResponse(profile))
}

// GetProfile returns a single profile by ID
// GET /profiles/:id
func (h *ProfilesHandler) GetProfile(c *gin.Context) {
	profile, err := h.storage.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeProfileError(c, err)
		return
	}

	c.JSON(http.StatusOK, formatProfileResponse(profile))
}

// UpdateProfile applies a partial update to a profile
// PATCH /profiles/:id
func (h *ProfilesHandler) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"code":    "INVALID_REQUEST",
			"details": err.Error(),
		})
		return
	}

	profile, err := h.storage.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeProfileError(c, err)
		return
	}

	if err := req.applyTo(profile); err != nil {
		h.writeProfileError(c, err)
		return
	}

	if err := h.storage.UpdateProfile(c.Request.Context(), profile); err != nil {
		h.writeProfileError(c, err)
		return
	}

	c.JSON(http.StatusOK, formatProfileResponse(profile))
}

// DeleteProfile deletes a profile and its live activities
// DELETE /profiles/:id
func (h *ProfilesHandler) DeleteProfile(c *gin.Context) {
	if err := h.storage.DeleteProfile(c.Request.Context(), c.Param("id")); err != nil {
		h.writeProfileError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// writeProfileError maps profile validation and lookup errors to responses
func (h *ProfilesHandler) writeProfileError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, errorResponse("Profile not found", "PROFILE_NOT_FOUND"))
	case errors.Is(err, core.ErrInvalidTimeOfDay):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error(), "INVALID_TIME_OF_DAY"))
	case errors.Is(err, core.ErrInvalidProfileName):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error(), "INVALID_NAME"))
	case errors.Is(err, core.ErrInvalidAccentColor):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error(), "INVALID_ACCENT_COLOR"))
	case errors.Is(err, core.ErrInvalidTimezone):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error(), "INVALID_TIMEZONE"))
	default:
		h.logger.Error("Profile request failed",
			"component", "api",
			"profile_id", c.Param("id"),
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to process profile", "INTERNAL_ERROR"))
	}
}

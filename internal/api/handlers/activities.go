package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"sleepcountdown/internal/core"

	"github.com/gin-gonic/gin"
)

// ActivitiesHandler handles live activity requests
type ActivitiesHandler struct {
	manager core.ActivityManagerInterface
	logger  *slog.Logger
}

// NewActivitiesHandler creates a new activities handler
func NewActivitiesHandler(manager core.ActivityManagerInterface, logger *slog.Logger) *ActivitiesHandler {
	return &ActivitiesHandler{
		manager: manager,
		logger:  logger,
	}
}

// StartActivity starts the live activity of a profile
// POST /profiles/:id/activity
func (h *ActivitiesHandler) StartActivity(c *gin.Context) {
	activity, err := h.manager.Start(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeActivityError(c, err)
		return
	}

	c.JSON(http.StatusCreated, formatActivityResponse(activity))
}

// ListActivities returns all running live activities
// GET /activities
func (h *ActivitiesHandler) ListActivities(c *gin.Context) {
	activities, err := h.manager.ListActive(c.Request.Context())
	if err != nil {
		h.writeActivityError(c, err)
		return
	}

	response := make([]gin.H, 0, len(activities))
	for _, activity := range activities {
		response = append(response, formatActivityResponse(activity))
	}

	c.JSON(http.StatusOK, response)
}

// ListProfileActivities returns every activity of a profile, newest first
// GET /profiles/:id/activities
func (h *ActivitiesHandler) ListProfileActivities(c *gin.Context) {
	activities, err := h.manager.ListForProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeActivityError(c, err)
		return
	}

	response := make([]gin.H, 0, len(activities))
	for _, activity := range activities {
		response = append(response, formatActivityResponse(activity))
	}

	c.JSON(http.StatusOK, response)
}

// GetActivity returns an activity, refreshing its content first while it runs
// GET /activities/:id
func (h *ActivitiesHandler) GetActivity(c *gin.Context) {
	activity, err := h.manager.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeActivityError(c, err)
		return
	}

	if activity.IsActive() {
		activity, err = h.manager.Refresh(c.Request.Context(), activity.ID)
		if err != nil {
			h.writeActivityError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, formatActivityResponse(activity))
}

// EndActivity ends a running activity
// DELETE /activities/:id
func (h *ActivitiesHandler) EndActivity(c *gin.Context) {
	activity, err := h.manager.End(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeActivityError(c, err)
		return
	}

	c.JSON(http.StatusOK, formatActivityResponse(activity))
}

func (h *ActivitiesHandler) writeActivityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, errorResponse("Profile not found", "PROFILE_NOT_FOUND"))
	case errors.Is(err, core.ErrActivityNotFound):
		c.JSON(http.StatusNotFound, errorResponse("Live activity not found", "ACTIVITY_NOT_FOUND"))
	case errors.Is(err, core.ErrActivityAlreadyActive):
		c.JSON(http.StatusConflict, errorResponse(err.Error(), "ACTIVITY_ALREADY_ACTIVE"))
	case errors.Is(err, core.ErrActivityNotActive):
		c.JSON(http.StatusConflict, errorResponse(err.Error(), "ACTIVITY_NOT_ACTIVE"))
	default:
		h.logger.Error("Live activity request failed",
			"component", "api",
			"id", c.Param("id"),
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to process live activity", "INTERNAL_ERROR"))
	}
}

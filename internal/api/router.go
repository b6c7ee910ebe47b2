package api

import (
	"log/slog"
	"sleepcountdown/internal/api/handlers"
	"sleepcountdown/internal/api/middleware"
	"sleepcountdown/internal/core"
	"sleepcountdown/internal/storage"

	"github.com/gin-gonic/gin"
)

// RouterConfig holds dependencies for the API router
type RouterConfig struct {
	Storage           storage.Storage
	Activities        core.ActivityManagerInterface
	Calculator        *core.WindowCalculator
	Clock             core.Clock
	DefaultSchedule   core.Schedule
	DefaultTimezone   string
	APIKey            string
	RequestsPerMinute int
	Logger            *slog.Logger
}

// NewRouter creates and configures the Gin router
func NewRouter(config RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.HandleMethodNotAllowed = true

	// Apply global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(config.Logger))
	router.Use(middleware.Logging(config.Logger))
	router.Use(middleware.NoiseFilter(config.Logger))
	router.Use(middleware.ContentType())
	router.Use(middleware.RateLimit(config.RequestsPerMinute, config.Logger))

	// Health check (no auth)
	var pinger handlers.Pinger
	if p, ok := config.Storage.(handlers.Pinger); ok {
		pinger = p
	}
	healthHandler := handlers.NewHealthHandler(pinger)
	router.GET("/health", healthHandler.GetHealth)

	calculator := config.Calculator
	if calculator == nil {
		calculator = core.NewWindowCalculator(nil)
	}

	// API v1 routes (with authentication)
	v1 := router.Group("/v1")
	v1.Use(middleware.APIKey(config.APIKey))
	{
		// Profiles endpoints
		profilesHandler := handlers.NewProfilesHandler(
			config.Storage,
			config.DefaultSchedule,
			config.DefaultTimezone,
			config.Logger,
		)
		v1.GET("/profiles", profilesHandler.ListProfiles)
		v1.POST("/profiles", profilesHandler.CreateProfile)
		v1.GET("/profiles/:id", profilesHandler.GetProfile)
		v1.PATCH("/profiles/:id", profilesHandler.UpdateProfile)
		v1.DELETE("/profiles/:id", profilesHandler.DeleteProfile)

		// Countdown endpoints
		countdownHandler := handlers.NewCountdownHandler(
			config.Storage,
			calculator,
			config.Clock,
			config.Logger,
		)
		v1.GET("/profiles/:id/countdown", countdownHandler.GetCountdown)
		v1.GET("/profiles/:id/timeline", countdownHandler.GetTimeline)
		v1.POST("/evaluate", countdownHandler.Evaluate)

		// Live activity endpoints
		activitiesHandler := handlers.NewActivitiesHandler(
			config.Activities,
			config.Logger,
		)
		v1.POST("/profiles/:id/activity", activitiesHandler.StartActivity)
		v1.GET("/profiles/:id/activities", activitiesHandler.ListProfileActivities)
		v1.GET("/activities", activitiesHandler.ListActivities)
		v1.GET("/activities/:id", activitiesHandler.GetActivity)
		v1.DELETE("/activities/:id", activitiesHandler.EndActivity)
	}

	return router
}

package logging

import (
	"context"
	"log/slog"
	"sleepcountdown/internal/core"
	"time"
)

// ActivityManagerLogger wraps an ActivityManager and logs all method calls
type ActivityManagerLogger struct {
	manager core.ActivityManagerInterface
	logger  *slog.Logger
}

// NewActivityManagerLogger creates a new logging decorator for ActivityManager
func NewActivityManagerLogger(manager core.ActivityManagerInterface, logger *slog.Logger) core.ActivityManagerInterface {
	return &ActivityManagerLogger{
		manager: manager,
		logger:  logger.With("interface", "ActivityManager"),
	}
}

func (l *ActivityManagerLogger) Start(ctx context.Context, profileID string) (*core.LiveActivity, error) {
	start := time.Now()
	l.logger.Info("Start called",
		"profile_id", profileID)

	activity, err := l.manager.Start(ctx, profileID)
	duration := time.Since(start)

	if err != nil {
		l.logger.Error("Start failed",
			"profile_id", profileID,
			"duration", duration,
			"error", err)
		return nil, err
	}

	l.logger.Info("Start completed",
		"profile_id", profileID,
		"activity_id", activity.ID,
		"phase", activity.Content.Phase,
		"ends_at", activity.EndsAt,
		"duration", duration)

	return activity, nil
}

// Refresh runs on every scheduler tick, so success is logged at debug level
func (l *ActivityManagerLogger) Refresh(ctx context.Context, activityID string) (*core.LiveActivity, error) {
	start := time.Now()

	activity, err := l.manager.Refresh(ctx, activityID)
	duration := time.Since(start)

	if err != nil {
		l.logger.Error("Refresh failed",
			"activity_id", activityID,
			"duration", duration,
			"error", err)
		return nil, err
	}

	l.logger.Debug("Refresh completed",
		"activity_id", activityID,
		"status", activity.Status,
		"phase", activity.Content.Phase,
		"seconds_remaining", activity.Content.SecondsRemaining,
		"is_running_low", activity.Content.IsRunningLow,
		"duration", duration)

	return activity, nil
}

func (l *ActivityManagerLogger) End(ctx context.Context, activityID string) (*core.LiveActivity, error) {
	start := time.Now()
	l.logger.Info("End called",
		"activity_id", activityID)

	activity, err := l.manager.End(ctx, activityID)
	duration := time.Since(start)

	if err != nil {
		l.logger.Error("End failed",
			"activity_id", activityID,
			"duration", duration,
			"error", err)
		return nil, err
	}

	l.logger.Info("End completed",
		"activity_id", activityID,
		"duration", duration)

	return activity, nil
}

func (l *ActivityManagerLogger) Get(ctx context.Context, activityID string) (*core.LiveActivity, error) {
	start := time.Now()

	activity, err := l.manager.Get(ctx, activityID)
	duration := time.Since(start)

	if err != nil {
		l.logger.Debug("Get failed",
			"activity_id", activityID,
			"duration", duration,
			"error", err)
		return nil, err
	}

	return activity, nil
}

func (l *ActivityManagerLogger) ListActive(ctx context.Context) ([]*core.LiveActivity, error) {
	start := time.Now()

	activities, err := l.manager.ListActive(ctx)
	duration := time.Since(start)

	if err != nil {
		l.logger.Error("ListActive failed",
			"duration", duration,
			"error", err)
		return nil, err
	}

	l.logger.Debug("ListActive completed",
		"count", len(activities),
		"duration", duration)

	return activities, nil
}

// ListForProfile logs the ListForProfile operation
func (l *ActivityManagerLogger) ListForProfile(ctx context.Context, profileID string) ([]*core.LiveActivity, error) {
	start := time.Now()

	activities, err := l.manager.ListForProfile(ctx, profileID)
	duration := time.Since(start)

	if err != nil {
		l.logger.Error("ListForProfile failed",
			"profile_id", profileID,
			"duration", duration,
			"error", err)
		return nil, err
	}

	l.logger.Debug("ListForProfile completed",
		"profile_id", profileID,
		"count", len(activities),
		"duration", duration)

	return activities, nil
}

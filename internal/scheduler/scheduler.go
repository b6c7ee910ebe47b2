package scheduler

import (
	"context"
	"log/slog"
	"sleepcountdown/internal/core"
	"time"
)

// ActivityRefresher is the part of the activity manager the scheduler drives
type ActivityRefresher interface {
	ListActive(ctx context.Context) ([]*core.LiveActivity, error)
	Refresh(ctx context.Context, activityID string) (*core.LiveActivity, error)
}

// Scheduler periodically refreshes running live activities
type Scheduler struct {
	activities ActivityRefresher
	interval   time.Duration
	stopChan   chan struct{}
	logger     *slog.Logger
}

// NewScheduler creates a new scheduler
func NewScheduler(activities ActivityRefresher, interval time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		activities: activities,
		interval:   interval,
		stopChan:   make(chan struct{}),
		logger:     logger,
	}
}

// Start begins the scheduler loop
func (s *Scheduler) Start() {
	s.logger.Info("Scheduler started", "interval", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick()
		case <-s.stopChan:
			s.logger.Info("Scheduler stopped")
			return
		}
	}
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	close(s.stopChan)
}

// tick performs one cycle of the scheduler
func (s *Scheduler) tick() {
	ctx := context.Background()

	activities, err := s.activities.ListActive(ctx)
	if err != nil {
		s.logger.Error("Failed to list active activities", "error", err)
		return
	}

	s.logger.Debug("Scheduler tick", "active_activities", len(activities))

	for _, activity := range activities {
		if err := s.processActivity(ctx, activity); err != nil {
			s.logger.Error("Failed to refresh activity", "activity_id", activity.ID, "error", err)
		}
	}
}

// processActivity refreshes one activity and logs state changes worth noting
func (s *Scheduler) processActivity(ctx context.Context, activity *core.LiveActivity) error {
	wasRunningLow := activity.Content.IsRunningLow
	previousPhase := activity.Content.Phase

	refreshed, err := s.activities.Refresh(ctx, activity.ID)
	if err != nil {
		return err
	}

	if !refreshed.IsActive() {
		s.logger.Info("Live activity ended at wake-up",
			"activity_id", refreshed.ID,
			"profile_id", refreshed.ProfileID)
		return nil
	}

	if refreshed.Content.Phase != previousPhase {
		s.logger.Info("Live activity changed phase",
			"activity_id", refreshed.ID,
			"from", previousPhase,
			"to", refreshed.Content.Phase)
	}

	if refreshed.Content.IsRunningLow && !wasRunningLow {
		s.logger.Info("Sleep time running low",
			"activity_id", refreshed.ID,
			"profile_id", refreshed.ProfileID,
			"seconds_remaining", refreshed.Content.SecondsRemaining)
	}

	return nil
}

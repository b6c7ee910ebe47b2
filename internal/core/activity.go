package core

import (
	"context"
	"errors"
	"fmt"
	"sleepcountdown/internal/idgen"
	"time"
)

// ActivityStorage defines the storage operations the activity manager needs
type ActivityStorage interface {
	GetProfile(ctx context.Context, id string) (*Profile, error)

	CreateActivity(ctx context.Context, activity *LiveActivity) error
	GetActivity(ctx context.Context, id string) (*LiveActivity, error)
	GetActiveActivityForProfile(ctx context.Context, profileID string) (*LiveActivity, error)
	ListActiveActivities(ctx context.Context) ([]*LiveActivity, error)
	ListActivitiesByProfile(ctx context.Context, profileID string) ([]*LiveActivity, error)
	UpdateActivity(ctx context.Context, activity *LiveActivity) error
}

// ActivityManager runs live activities: one countdown per profile, refreshed
// from a fresh evaluation each time and ended at the next wake-up.
type ActivityManager struct {
	storage    ActivityStorage
	calculator *WindowCalculator
	clock      Clock
}

// NewActivityManager creates a new activity manager
func NewActivityManager(storage ActivityStorage, calculator *WindowCalculator, clock Clock) *ActivityManager {
	if calculator == nil {
		calculator = defaultCalculator
	}
	if clock == nil {
		clock = RealClock{}
	}
	return &ActivityManager{
		storage:    storage,
		calculator: calculator,
		clock:      clock,
	}
}

// Start starts a live activity for a profile.
// Only one activity may be active per profile at a time.
func (m *ActivityManager) Start(ctx context.Context, profileID string) (*LiveActivity, error) {
	if profileID == "" {
		return nil, fmt.Errorf("profile ID cannot be empty")
	}

	profile, err := m.storage.GetProfile(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile %s: %w", profileID, err)
	}

	now := m.clock.Now().In(profile.Location())

	existing, err := m.storage.GetActiveActivityForProfile(ctx, profileID)
	if err != nil && !errors.Is(err, ErrActivityNotFound) {
		return nil, fmt.Errorf("failed to check active activity: %w", err)
	}
	if existing != nil {
		if !existing.IsExpired(now) {
			return nil, fmt.Errorf("%w: %s", ErrActivityAlreadyActive, existing.ID)
		}
		// Past wake-up but not yet picked up by the refresh loop
		m.finish(existing, now)
		if err := m.storage.UpdateActivity(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to end expired activity: %w", err)
		}
	}

	state := m.calculator.Evaluate(profile.Schedule(), now)

	activity := &LiveActivity{
		ID:              idgen.NewActivity(),
		ProfileID:       profile.ID,
		Name:            DefaultActivityName,
		StartedAt:       now,
		EndsAt:          state.NextWakeup,
		Status:          ActivityStatusActive,
		Content:         ContentFromState(state),
		LastRefreshedAt: now,
	}

	if err := m.storage.CreateActivity(ctx, activity); err != nil {
		return nil, fmt.Errorf("failed to save activity: %w", err)
	}

	return activity, nil
}

// Refresh re-evaluates an active activity's content.
// An activity whose end time has passed is ended instead.
func (m *ActivityManager) Refresh(ctx context.Context, activityID string) (*LiveActivity, error) {
	activity, err := m.storage.GetActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}

	if !activity.IsActive() {
		return nil, ErrActivityNotActive
	}

	profile, err := m.storage.GetProfile(ctx, activity.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile %s: %w", activity.ProfileID, err)
	}

	now := m.clock.Now().In(profile.Location())
	activity.Content = ContentFromState(m.calculator.Evaluate(profile.Schedule(), now))
	activity.LastRefreshedAt = now

	if activity.IsExpired(now) {
		m.finish(activity, now)
	}

	if err := m.storage.UpdateActivity(ctx, activity); err != nil {
		return nil, fmt.Errorf("failed to update activity: %w", err)
	}

	return activity, nil
}

// End ends an active activity immediately
func (m *ActivityManager) End(ctx context.Context, activityID string) (*LiveActivity, error) {
	activity, err := m.storage.GetActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}

	if !activity.IsActive() {
		return nil, ErrActivityNotActive
	}

	m.finish(activity, m.clock.Now())

	if err := m.storage.UpdateActivity(ctx, activity); err != nil {
		return nil, fmt.Errorf("failed to update activity: %w", err)
	}

	return activity, nil
}

// Get retrieves an activity by ID
func (m *ActivityManager) Get(ctx context.Context, activityID string) (*LiveActivity, error) {
	return m.storage.GetActivity(ctx, activityID)
}

// ListActive retrieves all active activities
func (m *ActivityManager) ListActive(ctx context.Context) ([]*LiveActivity, error) {
	return m.storage.ListActiveActivities(ctx)
}

// ListForProfile retrieves every activity of a profile, newest first
func (m *ActivityManager) ListForProfile(ctx context.Context, profileID string) ([]*LiveActivity, error) {
	if _, err := m.storage.GetProfile(ctx, profileID); err != nil {
		return nil, err
	}
	return m.storage.ListActivitiesByProfile(ctx, profileID)
}

func (m *ActivityManager) finish(activity *LiveActivity, now time.Time) {
	activity.Status = ActivityStatusEnded
	activity.EndedAt = &now
}

var _ ActivityManagerInterface = (*ActivityManager)(nil)

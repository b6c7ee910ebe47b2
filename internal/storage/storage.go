package storage

import (
	"context"
	"sleepcountdown/internal/core"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Profiles
	CreateProfile(ctx context.Context, profile *core.Profile) error
	GetProfile(ctx context.Context, id string) (*core.Profile, error)
	ListProfiles(ctx context.Context) ([]*core.Profile, error)
	UpdateProfile(ctx context.Context, profile *core.Profile) error
	DeleteProfile(ctx context.Context, id string) error

	// Live activities
	CreateActivity(ctx context.Context, activity *core.LiveActivity) error
	GetActivity(ctx context.Context, id string) (*core.LiveActivity, error)
	GetActiveActivityForProfile(ctx context.Context, profileID string) (*core.LiveActivity, error)
	ListActiveActivities(ctx context.Context) ([]*core.LiveActivity, error)
	ListActivitiesByProfile(ctx context.Context, profileID string) ([]*core.LiveActivity, error)
	UpdateActivity(ctx context.Context, activity *core.LiveActivity) error

	// Lifecycle
	Close() error
}

var _ core.ActivityStorage = (Storage)(nil)

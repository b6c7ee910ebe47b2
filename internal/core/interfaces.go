package core

import "context"

// ActivityManagerInterface defines the contract for live activity management
type ActivityManagerInterface interface {
	Start(ctx context.Context, profileID string) (*LiveActivity, error)
	Refresh(ctx context.Context, activityID string) (*LiveActivity, error)
	End(ctx context.Context, activityID string) (*LiveActivity, error)
	Get(ctx context.Context, activityID string) (*LiveActivity, error)
	ListActive(ctx context.Context) ([]*LiveActivity, error)
	ListForProfile(ctx context.Context, profileID string) ([]*LiveActivity, error)
}

package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sleepcountdown/internal/api/middleware"
	"time"
)

// ErrActivityAlreadyActive is returned when the profile already has a running live activity
var ErrActivityAlreadyActive = errors.New("live activity already running")

// CountdownAPI is a client for the sleep countdown REST API
type CountdownAPI struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *slog.Logger
}

// NewCountdownAPI creates a new countdown API client
func NewCountdownAPI(baseURL, apiKey string, logger *slog.Logger) *CountdownAPI {
	return &CountdownAPI{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// Profile represents a stored sleep profile
type Profile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Timezone string `json:"timezone"`
	Bedtime  string `json:"bedtime"`
	Wakeup   string `json:"wakeup"`
}

// Card is the rendered display card returned alongside a countdown
type Card struct {
	Icon        string `json:"icon"`
	Text        string `json:"text"`
	Remaining   string `json:"remaining"`
	TargetLabel string `json:"target_label"`
	Alert       bool   `json:"alert"`
}

// Countdown represents a countdown evaluation
type Countdown struct {
	ProfileID        string    `json:"profile_id"`
	At               time.Time `json:"at"`
	Phase            string    `json:"phase"`
	SecondsRemaining int       `json:"seconds_remaining"`
	Progress         float64   `json:"progress"`
	IsRunningLow     bool      `json:"is_running_low"`
	IsSleepingPeriod bool      `json:"is_sleeping_period"`
	NextBedtime      time.Time `json:"next_bedtime"`
	NextWakeup       time.Time `json:"next_wakeup"`
	Target           time.Time `json:"target"`
	Card             Card      `json:"card"`
}

// TimelineEntry is one precomputed point of a timeline
type TimelineEntry struct {
	At               time.Time `json:"at"`
	Phase            string    `json:"phase"`
	SecondsRemaining int       `json:"seconds_remaining"`
	IsRunningLow     bool      `json:"is_running_low"`
	Remaining        string    `json:"remaining"`
}

// Timeline represents a widget timeline response
type Timeline struct {
	ProfileID string          `json:"profile_id"`
	Step      string          `json:"step"`
	Horizon   string          `json:"horizon"`
	ReloadAt  time.Time       `json:"reload_at"`
	Entries   []TimelineEntry `json:"entries"`
}

// ActivityContent is the dynamic part of a live activity
type ActivityContent struct {
	Phase            string  `json:"phase"`
	SecondsRemaining int     `json:"seconds_remaining"`
	Countdown        string  `json:"countdown"`
	Progress         float64 `json:"progress"`
	IsRunningLow     bool    `json:"is_running_low"`
}

// Activity represents a live activity
type Activity struct {
	ID        string          `json:"id"`
	ProfileID string          `json:"profile_id"`
	Name      string          `json:"name"`
	Status    string          `json:"status"`
	StartedAt time.Time       `json:"started_at"`
	EndsAt    time.Time       `json:"ends_at"`
	Content   ActivityContent `json:"content"`
}

// APIError represents an API error response
type APIError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// GetProfile retrieves a profile
func (a *CountdownAPI) GetProfile(ctx context.Context, profileID string) (*Profile, error) {
	var profile Profile
	if err := a.doRequest(ctx, http.MethodGet, "/v1/profiles/"+url.PathEscape(profileID), nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetCountdown evaluates a profile's schedule now
func (a *CountdownAPI) GetCountdown(ctx context.Context, profileID string) (*Countdown, error) {
	var countdown Countdown
	path := "/v1/profiles/" + url.PathEscape(profileID) + "/countdown?context=medium"
	if err := a.doRequest(ctx, http.MethodGet, path, nil, &countdown); err != nil {
		return nil, err
	}
	return &countdown, nil
}

// GetTimeline retrieves a timeline for a named preset
func (a *CountdownAPI) GetTimeline(ctx context.Context, profileID, preset string) (*Timeline, error) {
	var timeline Timeline
	path := "/v1/profiles/" + url.PathEscape(profileID) + "/timeline?preset=" + url.QueryEscape(preset)
	if err := a.doRequest(ctx, http.MethodGet, path, nil, &timeline); err != nil {
		return nil, err
	}
	return &timeline, nil
}

// StartActivity starts a live activity for a profile
func (a *CountdownAPI) StartActivity(ctx context.Context, profileID string) (*Activity, error) {
	var activity Activity
	path := "/v1/profiles/" + url.PathEscape(profileID) + "/activity"
	if err := a.doRequest(ctx, http.MethodPost, path, nil, &activity); err != nil {
		return nil, err
	}
	return &activity, nil
}

// ListActivities retrieves the running live activities
func (a *CountdownAPI) ListActivities(ctx context.Context) ([]Activity, error) {
	var activities []Activity
	if err := a.doRequest(ctx, http.MethodGet, "/v1/activities", nil, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// EndActivity ends a running live activity
func (a *CountdownAPI) EndActivity(ctx context.Context, activityID string) (*Activity, error) {
	var activity Activity
	if err := a.doRequest(ctx, http.MethodDelete, "/v1/activities/"+url.PathEscape(activityID), nil, &activity); err != nil {
		return nil, err
	}
	return &activity, nil
}

// doRequest performs an HTTP request to the countdown API
func (a *CountdownAPI) doRequest(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	endpoint := a.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set(middleware.APIKeyHeader, a.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	a.logger.Debug("API request",
		"method", method,
		"url", endpoint,
	)

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr APIError
		if err := json.Unmarshal(respBody, &apiErr); err != nil {
			return fmt.Errorf("API error %d: %s", resp.StatusCode, string(respBody))
		}
		if apiErr.Code == "ACTIVITY_ALREADY_ACTIVE" {
			return fmt.Errorf("%w: %s", ErrActivityAlreadyActive, apiErr.Error)
		}
		return fmt.Errorf("API error %d: %s (%s)", resp.StatusCode, apiErr.Error, apiErr.Code)
	}

	if result != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}

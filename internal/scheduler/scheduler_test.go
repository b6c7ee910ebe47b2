package scheduler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"sleepcountdown/internal/core"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock implementations

type mockRefresher struct {
	active       []*core.LiveActivity
	refreshed    map[string]*core.LiveActivity
	refreshCalls []string
	failList     bool
	failRefresh  map[string]bool
}

func newMockRefresher() *mockRefresher {
	return &mockRefresher{
		refreshed:   make(map[string]*core.LiveActivity),
		failRefresh: make(map[string]bool),
	}
}

func (m *mockRefresher) ListActive(ctx context.Context) ([]*core.LiveActivity, error) {
	if m.failList {
		return nil, errors.New("list failed")
	}
	return m.active, nil
}

func (m *mockRefresher) Refresh(ctx context.Context, activityID string) (*core.LiveActivity, error) {
	m.refreshCalls = append(m.refreshCalls, activityID)
	if m.failRefresh[activityID] {
		return nil, errors.New("refresh failed")
	}
	return m.refreshed[activityID], nil
}

func activeActivity(id string, content core.ActivityContent) *core.LiveActivity {
	return &core.LiveActivity{
		ID:        id,
		ProfileID: "prof_1",
		Status:    core.ActivityStatusActive,
		Content:   content,
	}
}

// Tests

func TestScheduler_Tick_RefreshesEveryActivity(t *testing.T) {
	refresher := newMockRefresher()
	refresher.active = []*core.LiveActivity{
		activeActivity("act_1", core.ActivityContent{Phase: core.PhaseWakeup}),
		activeActivity("act_2", core.ActivityContent{Phase: core.PhaseBedtime}),
	}
	refresher.refreshed["act_1"] = activeActivity("act_1", core.ActivityContent{Phase: core.PhaseWakeup})
	refresher.refreshed["act_2"] = activeActivity("act_2", core.ActivityContent{Phase: core.PhaseBedtime})

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	scheduler := NewScheduler(refresher, time.Minute, logger)

	scheduler.tick()

	assert.Equal(t, []string{"act_1", "act_2"}, refresher.refreshCalls)
}

func TestScheduler_Tick_ContinuesAfterFailure(t *testing.T) {
	refresher := newMockRefresher()
	refresher.active = []*core.LiveActivity{
		activeActivity("act_1", core.ActivityContent{}),
		activeActivity("act_2", core.ActivityContent{}),
	}
	refresher.failRefresh["act_1"] = true
	refresher.refreshed["act_2"] = activeActivity("act_2", core.ActivityContent{})

	var buf bytes.Buffer
	scheduler := NewScheduler(refresher, time.Minute, slog.New(slog.NewTextHandler(&buf, nil)))

	scheduler.tick()

	assert.Equal(t, []string{"act_1", "act_2"}, refresher.refreshCalls)
	assert.Contains(t, buf.String(), "Failed to refresh activity")
	assert.Contains(t, buf.String(), "activity_id=act_1")
}

func TestScheduler_Tick_ListFailure(t *testing.T) {
	refresher := newMockRefresher()
	refresher.failList = true

	var buf bytes.Buffer
	scheduler := NewScheduler(refresher, time.Minute, slog.New(slog.NewTextHandler(&buf, nil)))

	scheduler.tick()

	assert.Empty(t, refresher.refreshCalls)
	assert.Contains(t, buf.String(), "Failed to list active activities")
}

func TestScheduler_ProcessActivity_LogsTransitions(t *testing.T) {
	tests := []struct {
		name     string
		before   core.ActivityContent
		after    *core.LiveActivity
		wantLogs []string
	}{
		{
			name:     "ended at wake-up",
			before:   core.ActivityContent{Phase: core.PhaseWakeup},
			after:    &core.LiveActivity{ID: "act_1", ProfileID: "prof_1", Status: core.ActivityStatusEnded},
			wantLogs: []string{"Live activity ended at wake-up"},
		},
		{
			name:     "phase change",
			before:   core.ActivityContent{Phase: core.PhaseBedtime},
			after:    activeActivity("act_1", core.ActivityContent{Phase: core.PhaseWakeup}),
			wantLogs: []string{"Live activity changed phase", "from=bedtime", "to=wakeup"},
		},
		{
			name:     "running low",
			before:   core.ActivityContent{Phase: core.PhaseWakeup},
			after:    activeActivity("act_1", core.ActivityContent{Phase: core.PhaseWakeup, IsRunningLow: true, SecondsRemaining: 100}),
			wantLogs: []string{"Sleep time running low", "seconds_remaining=100"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refresher := newMockRefresher()
			refresher.refreshed["act_1"] = tt.after

			var buf bytes.Buffer
			scheduler := NewScheduler(refresher, time.Minute, slog.New(slog.NewTextHandler(&buf, nil)))

			err := scheduler.processActivity(context.Background(), activeActivity("act_1", tt.before))
			require.NoError(t, err)

			for _, want := range tt.wantLogs {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestScheduler_StartStop(t *testing.T) {
	refresher := newMockRefresher()
	scheduler := NewScheduler(refresher, 10*time.Millisecond, nil)

	done := make(chan struct{})
	go func() {
		scheduler.Start()
		close(done)
	}()

	time.Sleep(35 * time.Millisecond)
	scheduler.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTimeline_Presets(t *testing.T) {
	calc := NewWindowCalculator(nil)
	start := at(21, 0, 0)

	tests := []struct {
		name      string
		policy    TimelinePolicy
		wantCount int
	}{
		{name: "widget", policy: WidgetTimeline, wantCount: 96},
		{name: "control", policy: ControlTimeline, wantCount: 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timeline, err := calc.BuildTimeline(standardSchedule, start, tt.policy)
			require.NoError(t, err)

			require.Len(t, timeline.Entries, tt.wantCount)
			assert.Equal(t, start, timeline.Entries[0].At)
			assert.Equal(t, start.Add(tt.policy.Horizon), timeline.ReloadAt)

			for i, entry := range timeline.Entries {
				assert.Equal(t, start.Add(time.Duration(i)*tt.policy.Step), entry.At)
				assert.Equal(t, calc.Evaluate(standardSchedule, entry.At), entry.State)
			}
		})
	}
}

func TestBuildTimeline_CrossesBedtime(t *testing.T) {
	timeline, err := NewWindowCalculator(nil).BuildTimeline(standardSchedule, at(21, 0, 0), ControlTimeline)
	require.NoError(t, err)

	assert.Equal(t, PhaseBedtime, timeline.Entries[0].State.Phase)
	assert.Equal(t, 3600, timeline.Entries[0].State.SecondsRemaining)
	assert.Equal(t, PhaseBedtime, timeline.Entries[11].State.Phase)
	assert.Equal(t, 300, timeline.Entries[11].State.SecondsRemaining)

	widget, err := NewWindowCalculator(nil).BuildTimeline(standardSchedule, at(21, 0, 0), WidgetTimeline)
	require.NoError(t, err)
	assert.Equal(t, PhaseBedtime, widget.Entries[4].State.Phase)
	assert.Equal(t, PhaseWakeup, widget.Entries[5].State.Phase)
}

func TestTimelinePolicy_Validate(t *testing.T) {
	tests := []struct {
		name    string
		policy  TimelinePolicy
		wantErr bool
	}{
		{name: "widget", policy: WidgetTimeline},
		{name: "control", policy: ControlTimeline},
		{name: "zero step", policy: TimelinePolicy{Horizon: time.Hour}, wantErr: true},
		{name: "horizon shorter than step", policy: TimelinePolicy{Step: time.Hour, Horizon: time.Minute}, wantErr: true},
		{name: "too many entries", policy: TimelinePolicy{Step: time.Second, Horizon: time.Hour}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimelinePolicy)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestTimelinePolicy_EntryCountRoundsUp(t *testing.T) {
	assert.Equal(t, 3, TimelinePolicy{Step: 25 * time.Minute, Horizon: time.Hour}.EntryCount())
	assert.Equal(t, 0, TimelinePolicy{}.EntryCount())
}

func TestParseTimelinePreset(t *testing.T) {
	p, err := ParseTimelinePreset("")
	require.NoError(t, err)
	assert.Equal(t, WidgetTimeline, p)

	p, err = ParseTimelinePreset("control")
	require.NoError(t, err)
	assert.Equal(t, ControlTimeline, p)

	_, err = ParseTimelinePreset("hourly")
	assert.ErrorIs(t, err, ErrInvalidTimelinePolicy)
}

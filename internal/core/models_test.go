package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProfile_Validate(t *testing.T) {
	valid := func() *Profile { return NewProfile("prof_1", "Alice") }

	tests := []struct {
		name    string
		mutate  func(p *Profile)
		wantErr error
	}{
		{name: "defaults are valid", mutate: func(p *Profile) {}},
		{name: "named timezone", mutate: func(p *Profile) { p.Timezone = "Europe/Paris" }},
		{name: "empty timezone means UTC", mutate: func(p *Profile) { p.Timezone = "" }},
		{name: "blank name", mutate: func(p *Profile) { p.Name = "   " }, wantErr: ErrInvalidProfileName},
		{name: "bad bedtime", mutate: func(p *Profile) { p.Bedtime = TimeOfDay{Hour: 30} }, wantErr: ErrInvalidTimeOfDay},
		{name: "bad accent", mutate: func(p *Profile) { p.Appearance.AccentColor = "orange" }, wantErr: ErrInvalidAccentColor},
		{name: "bad timezone", mutate: func(p *Profile) { p.Timezone = "Mars/Olympus" }, wantErr: ErrInvalidTimezone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(p)
			err := p.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewProfile_Defaults(t *testing.T) {
	p := NewProfile("prof_1", "Alice")

	assert.Equal(t, DefaultBedtime, p.Bedtime)
	assert.Equal(t, DefaultWakeup, p.Wakeup)
	assert.Equal(t, AccentBlue, p.Appearance.AccentColor)
	assert.False(t, p.Appearance.DarkMode)
	assert.Equal(t, DefaultLabels(), p.Labels)
	assert.Equal(t, Schedule{Bedtime: DefaultBedtime, Wakeup: DefaultWakeup}, p.Schedule())
}

func TestProfile_ApplyDefaults(t *testing.T) {
	p := &Profile{Labels: Labels{AlertText: "Go to bed!"}}
	p.ApplyDefaults()

	assert.Equal(t, AccentBlue, p.Appearance.AccentColor)
	assert.Equal(t, "Go to bed!", p.Labels.AlertText)
	assert.Equal(t, "bed.double.fill", p.Labels.BedtimeIcon)
	assert.Equal(t, "Time until wake-up", p.Labels.WakeupText)
}

func TestProfile_Location(t *testing.T) {
	p := NewProfile("prof_1", "Alice")
	p.Timezone = "Asia/Tokyo"
	assert.Equal(t, "Asia/Tokyo", p.Location().String())

	p.Timezone = "Nowhere/Special"
	assert.Equal(t, time.UTC, p.Location())
}

func TestContentFromState(t *testing.T) {
	state := Evaluate(standardSchedule, at(23, 30, 0))
	content := ContentFromState(state)

	assert.Equal(t, PhaseWakeup, content.Phase)
	assert.Equal(t, 27000, content.SecondsRemaining)
	assert.True(t, content.IsSleepingPeriod)
	assert.True(t, content.IsRunningLow)
	assert.InDelta(t, state.ProgressFraction, content.Progress, 1e-9)
}

func TestLiveActivity_IsExpired(t *testing.T) {
	a := &LiveActivity{Status: ActivityStatusActive, EndsAt: at(7, 0, 0)}

	assert.True(t, a.IsActive())
	assert.False(t, a.IsExpired(at(6, 59, 59)))
	assert.True(t, a.IsExpired(at(7, 0, 0)))
}

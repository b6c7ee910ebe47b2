package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeOfDay
		wantErr bool
	}{
		{name: "evening", input: "22:00", want: TimeOfDay{Hour: 22, Minute: 0}},
		{name: "morning single digit hour", input: "7:05", want: TimeOfDay{Hour: 7, Minute: 5}},
		{name: "midnight", input: "00:00", want: TimeOfDay{}},
		{name: "last minute", input: "23:59", want: TimeOfDay{Hour: 23, Minute: 59}},
		{name: "surrounding whitespace", input: " 06:30 ", want: TimeOfDay{Hour: 6, Minute: 30}},
		{name: "empty", input: "", wantErr: true},
		{name: "hour out of range", input: "24:00", wantErr: true},
		{name: "minute out of range", input: "12:60", wantErr: true},
		{name: "negative hour", input: "-1:00", wantErr: true},
		{name: "missing minutes", input: "12", wantErr: true},
		{name: "single digit minute", input: "12:5", wantErr: true},
		{name: "seconds not accepted", input: "12:00:00", wantErr: true},
		{name: "letters", input: "ab:cd", wantErr: true},
		{name: "signed hour", input: "+7:00", wantErr: true},
		{name: "signed minute", input: "07:+5", wantErr: true},
		{name: "inner space", input: "7 :00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeOfDay)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewTimeOfDay_RejectsOutOfRange(t *testing.T) {
	_, err := NewTimeOfDay(25, 0)
	assert.ErrorIs(t, err, ErrInvalidTimeOfDay)

	_, err = NewTimeOfDay(10, -1)
	assert.ErrorIs(t, err, ErrInvalidTimeOfDay)

	tod, err := NewTimeOfDay(23, 59)
	require.NoError(t, err)
	assert.Equal(t, "23:59", tod.String())
}

func TestTimeOfDay_On(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	ref := time.Date(2024, 6, 1, 15, 42, 17, 500, loc)
	got := TimeOfDay{Hour: 7, Minute: 30}.On(ref)

	assert.Equal(t, time.Date(2024, 6, 1, 7, 30, 0, 0, loc), got)
	assert.Equal(t, loc, got.Location())
}

func TestTimeOfDay_TextRoundTrip(t *testing.T) {
	text, err := TimeOfDay{Hour: 9, Minute: 5}.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "09:05", string(text))

	var tod TimeOfDay
	require.NoError(t, tod.UnmarshalText([]byte("21:45")))
	assert.Equal(t, TimeOfDay{Hour: 21, Minute: 45}, tod)

	assert.Error(t, tod.UnmarshalText([]byte("nope")))
}

func TestTimeOfDay_MinutesSinceMidnight(t *testing.T) {
	assert.Equal(t, 0, TimeOfDay{}.MinutesSinceMidnight())
	assert.Equal(t, 22*60+15, TimeOfDay{Hour: 22, Minute: 15}.MinutesSinceMidnight())
}

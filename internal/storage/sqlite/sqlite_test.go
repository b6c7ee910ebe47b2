package sqlite

import (
	"context"
	"path/filepath"
	"sleepcountdown/internal/core"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *SQLiteStorage {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	storage, err := New(dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		storage.Close()
	})

	return storage
}

func createTestProfile(t *testing.T, storage *SQLiteStorage, id, name string) *core.Profile {
	t.Helper()
	profile := core.NewProfile(id, name)
	require.NoError(t, storage.CreateProfile(context.Background(), profile))
	return profile
}

func TestSQLiteStorage_Profiles(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	// Test CreateProfile
	profile := core.NewProfile("prof_1", "Alice")
	profile.Timezone = "Europe/Berlin"
	profile.Bedtime = core.TimeOfDay{Hour: 23, Minute: 15}
	profile.Wakeup = core.TimeOfDay{Hour: 6, Minute: 45}
	profile.Appearance = core.Appearance{DarkMode: true, AccentColor: core.AccentPurple}
	profile.Labels.AlertText = "Bed. Now."

	err := storage.CreateProfile(ctx, profile)
	require.NoError(t, err)
	assert.False(t, profile.CreatedAt.IsZero())

	// Test GetProfile
	retrieved, err := storage.GetProfile(ctx, "prof_1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", retrieved.Name)
	assert.Equal(t, "Europe/Berlin", retrieved.Timezone)
	assert.Equal(t, profile.Bedtime, retrieved.Bedtime)
	assert.Equal(t, profile.Wakeup, retrieved.Wakeup)
	assert.True(t, retrieved.Appearance.DarkMode)
	assert.Equal(t, core.AccentPurple, retrieved.Appearance.AccentColor)
	assert.Equal(t, "Bed. Now.", retrieved.Labels.AlertText)
	assert.Equal(t, "alarm.fill", retrieved.Labels.WakeupIcon)

	// Test GetProfile - not found
	_, err = storage.GetProfile(ctx, "nonexistent")
	assert.ErrorIs(t, err, core.ErrProfileNotFound)

	// Test ListProfiles
	createTestProfile(t, storage, "prof_2", "Bob")

	profiles, err := storage.ListProfiles(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "Alice", profiles[0].Name)
	assert.Equal(t, "Bob", profiles[1].Name)

	// Test UpdateProfile
	retrieved.Name = "Alice Updated"
	retrieved.TimerRunning = true
	retrieved.Bedtime = core.TimeOfDay{Hour: 21, Minute: 30}
	err = storage.UpdateProfile(ctx, retrieved)
	require.NoError(t, err)

	updated, err := storage.GetProfile(ctx, "prof_1")
	require.NoError(t, err)
	assert.Equal(t, "Alice Updated", updated.Name)
	assert.True(t, updated.TimerRunning)
	assert.Equal(t, "21:30", updated.Bedtime.String())

	// Test UpdateProfile - not found
	ghost := core.NewProfile("ghost", "Ghost")
	assert.ErrorIs(t, storage.UpdateProfile(ctx, ghost), core.ErrProfileNotFound)

	// Test DeleteProfile
	err = storage.DeleteProfile(ctx, "prof_2")
	require.NoError(t, err)
	_, err = storage.GetProfile(ctx, "prof_2")
	assert.ErrorIs(t, err, core.ErrProfileNotFound)
	assert.ErrorIs(t, storage.DeleteProfile(ctx, "prof_2"), core.ErrProfileNotFound)
}

func TestSQLiteStorage_CreateProfile_Validation(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	profile := core.NewProfile("prof_1", "")
	assert.ErrorIs(t, storage.CreateProfile(ctx, profile), core.ErrInvalidProfileName)

	profile = core.NewProfile("prof_1", "Alice")
	profile.Timezone = "Not/AZone"
	assert.ErrorIs(t, storage.CreateProfile(ctx, profile), core.ErrInvalidTimezone)
}

func newTestActivity(id, profileID string, startedAt time.Time) *core.LiveActivity {
	return &core.LiveActivity{
		ID:        id,
		ProfileID: profileID,
		Name:      core.DefaultActivityName,
		StartedAt: startedAt,
		EndsAt:    startedAt.Add(8 * time.Hour),
		Status:    core.ActivityStatusActive,
		Content: core.ActivityContent{
			Phase:            core.PhaseWakeup,
			SecondsRemaining: 8 * 3600,
			Progress:         0.25,
			IsSleepingPeriod: true,
		},
		LastRefreshedAt: startedAt,
	}
}

func TestSQLiteStorage_Activities(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()
	createTestProfile(t, storage, "prof_1", "Alice")

	start := time.Date(2024, 1, 15, 23, 0, 0, 0, time.UTC)

	// Test CreateActivity
	activity := newTestActivity("act_1", "prof_1", start)
	err := storage.CreateActivity(ctx, activity)
	require.NoError(t, err)

	// Test GetActivity
	retrieved, err := storage.GetActivity(ctx, "act_1")
	require.NoError(t, err)
	assert.Equal(t, "prof_1", retrieved.ProfileID)
	assert.True(t, retrieved.StartedAt.Equal(start))
	assert.True(t, retrieved.EndsAt.Equal(start.Add(8*time.Hour)))
	assert.Equal(t, core.ActivityStatusActive, retrieved.Status)
	assert.Equal(t, activity.Content, retrieved.Content)
	assert.Nil(t, retrieved.EndedAt)

	_, err = storage.GetActivity(ctx, "act_missing")
	assert.ErrorIs(t, err, core.ErrActivityNotFound)

	// Test GetActiveActivityForProfile
	active, err := storage.GetActiveActivityForProfile(ctx, "prof_1")
	require.NoError(t, err)
	assert.Equal(t, "act_1", active.ID)

	// A second active activity for the same profile is rejected
	err = storage.CreateActivity(ctx, newTestActivity("act_2", "prof_1", start))
	assert.ErrorIs(t, err, core.ErrActivityAlreadyActive)

	// Test UpdateActivity
	ended := start.Add(time.Hour)
	retrieved.Status = core.ActivityStatusEnded
	retrieved.EndedAt = &ended
	retrieved.Content.SecondsRemaining = 7 * 3600
	err = storage.UpdateActivity(ctx, retrieved)
	require.NoError(t, err)

	updated, err := storage.GetActivity(ctx, "act_1")
	require.NoError(t, err)
	assert.Equal(t, core.ActivityStatusEnded, updated.Status)
	require.NotNil(t, updated.EndedAt)
	assert.True(t, updated.EndedAt.Equal(ended))
	assert.Equal(t, 7*3600, updated.Content.SecondsRemaining)

	_, err = storage.GetActiveActivityForProfile(ctx, "prof_1")
	assert.ErrorIs(t, err, core.ErrActivityNotFound)

	// Once ended, a new activity may start
	require.NoError(t, storage.CreateActivity(ctx, newTestActivity("act_2", "prof_1", start.Add(24*time.Hour))))

	activeList, err := storage.ListActiveActivities(ctx)
	require.NoError(t, err)
	require.Len(t, activeList, 1)
	assert.Equal(t, "act_2", activeList[0].ID)

	history, err := storage.ListActivitiesByProfile(ctx, "prof_1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "act_2", history[0].ID)

	// Test UpdateActivity - not found
	assert.ErrorIs(t, storage.UpdateActivity(ctx, newTestActivity("act_missing", "prof_1", start)), core.ErrActivityNotFound)
}

func TestSQLiteStorage_ActivityRequiresProfile(t *testing.T) {
	storage := setupTestDB(t)

	err := storage.CreateActivity(context.Background(), newTestActivity("act_1", "prof_missing", time.Now()))
	assert.ErrorIs(t, err, core.ErrProfileNotFound)
}

func TestSQLiteStorage_DeleteProfileCascades(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()
	createTestProfile(t, storage, "prof_1", "Alice")
	require.NoError(t, storage.CreateActivity(ctx, newTestActivity("act_1", "prof_1", time.Now())))

	require.NoError(t, storage.DeleteProfile(ctx, "prof_1"))

	_, err := storage.GetActivity(ctx, "act_1")
	assert.ErrorIs(t, err, core.ErrActivityNotFound)
}

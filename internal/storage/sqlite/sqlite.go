package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sleepcountdown/internal/core"
	"sleepcountdown/internal/storage"
	"time"

	"github.com/mattn/go-sqlite3"
)

// SQLiteStorage implements storage.Storage using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// New creates a new SQLite storage instance
func New(dbPath string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single connection so the pragma below applies to every statement
	db.SetMaxOpenConns(1)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	storage := &SQLiteStorage{db: db}

	if err := storage.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return storage, nil
}

// migrate creates the database schema
func (s *SQLiteStorage) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			timezone TEXT NOT NULL DEFAULT 'UTC',
			bedtime TEXT NOT NULL,
			wakeup TEXT NOT NULL,
			dark_mode INTEGER NOT NULL DEFAULT 0,
			accent_color TEXT NOT NULL DEFAULT 'blue',
			labels TEXT NOT NULL,
			timer_running INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS live_activities (
			id TEXT PRIMARY KEY,
			profile_id TEXT NOT NULL,
			name TEXT NOT NULL,
			started_at DATETIME NOT NULL,
			ends_at DATETIME NOT NULL,
			status TEXT NOT NULL,
			phase TEXT NOT NULL,
			seconds_remaining INTEGER NOT NULL,
			progress REAL NOT NULL,
			is_sleeping_period INTEGER NOT NULL,
			is_running_low INTEGER NOT NULL,
			last_refreshed_at DATETIME NOT NULL,
			ended_at DATETIME,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			FOREIGN KEY (profile_id) REFERENCES profiles(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_live_activities_status ON live_activities(status);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_live_activities_one_active
			ON live_activities(profile_id) WHERE status = 'active';
	`

	_, err := s.db.Exec(schema)
	return err
}

// labelsRecord is the stored JSON form of core.Labels
type labelsRecord struct {
	BedtimeIcon string `json:"bedtime_icon"`
	WakeupIcon  string `json:"wakeup_icon"`
	AlertIcon   string `json:"alert_icon"`
	BedtimeText string `json:"bedtime_text"`
	WakeupText  string `json:"wakeup_text"`
	AlertText   string `json:"alert_text"`
}

func encodeLabels(l core.Labels) (string, error) {
	data, err := json.Marshal(labelsRecord(l))
	if err != nil {
		return "", fmt.Errorf("failed to marshal labels: %w", err)
	}
	return string(data), nil
}

func decodeLabels(s string) (core.Labels, error) {
	var rec labelsRecord
	if err := json.Unmarshal([]byte(s), &rec); err != nil {
		return core.Labels{}, fmt.Errorf("failed to unmarshal labels: %w", err)
	}
	return core.Labels(rec), nil
}

// CreateProfile creates a new profile
func (s *SQLiteStorage) CreateProfile(ctx context.Context, profile *core.Profile) error {
	profile.ApplyDefaults()
	if err := profile.Validate(); err != nil {
		return err
	}

	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	labels, err := encodeLabels(profile.Labels)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO profiles (id, name, timezone, bedtime, wakeup, dark_mode, accent_color,
			labels, timer_running, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, profile.ID, profile.Name, profile.Timezone, profile.Bedtime.String(), profile.Wakeup.String(),
		profile.Appearance.DarkMode, string(profile.Appearance.AccentColor), labels,
		profile.TimerRunning, profile.CreatedAt, profile.UpdatedAt)

	return err
}

// GetProfile retrieves a profile by ID
func (s *SQLiteStorage) GetProfile(ctx context.Context, id string) (*core.Profile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, timezone, bedtime, wakeup, dark_mode, accent_color,
			labels, timer_running, created_at, updated_at
		FROM profiles WHERE id = ?
	`, id)

	profile, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, core.ErrProfileNotFound
	}
	return profile, err
}

// ListProfiles retrieves all profiles
func (s *SQLiteStorage) ListProfiles(ctx context.Context) ([]*core.Profile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, timezone, bedtime, wakeup, dark_mode, accent_color,
			labels, timer_running, created_at, updated_at
		FROM profiles ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*core.Profile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}

	return profiles, rows.Err()
}

// UpdateProfile updates an existing profile
func (s *SQLiteStorage) UpdateProfile(ctx context.Context, profile *core.Profile) error {
	profile.ApplyDefaults()
	if err := profile.Validate(); err != nil {
		return err
	}

	profile.UpdatedAt = time.Now()

	labels, err := encodeLabels(profile.Labels)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE profiles
		SET name = ?, timezone = ?, bedtime = ?, wakeup = ?, dark_mode = ?, accent_color = ?,
			labels = ?, timer_running = ?, updated_at = ?
		WHERE id = ?
	`, profile.Name, profile.Timezone, profile.Bedtime.String(), profile.Wakeup.String(),
		profile.Appearance.DarkMode, string(profile.Appearance.AccentColor), labels,
		profile.TimerRunning, profile.UpdatedAt, profile.ID)

	if err != nil {
		return err
	}

	return expectAffected(result, core.ErrProfileNotFound)
}

// DeleteProfile deletes a profile and its activities
func (s *SQLiteStorage) DeleteProfile(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM profiles WHERE id = ?", id)
	if err != nil {
		return err
	}

	return expectAffected(result, core.ErrProfileNotFound)
}

// CreateActivity creates a new live activity.
// A second active activity for the same profile is rejected by the schema.
func (s *SQLiteStorage) CreateActivity(ctx context.Context, activity *core.LiveActivity) error {
	now := time.Now()
	activity.CreatedAt = now
	activity.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO live_activities (id, profile_id, name, started_at, ends_at, status,
			phase, seconds_remaining, progress, is_sleeping_period, is_running_low,
			last_refreshed_at, ended_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, activity.ID, activity.ProfileID, activity.Name, activity.StartedAt, activity.EndsAt,
		string(activity.Status), string(activity.Content.Phase), activity.Content.SecondsRemaining,
		activity.Content.Progress, activity.Content.IsSleepingPeriod, activity.Content.IsRunningLow,
		activity.LastRefreshedAt, nullTime(activity.EndedAt), activity.CreatedAt, activity.UpdatedAt)

	if isUniqueViolation(err) {
		return core.ErrActivityAlreadyActive
	}
	if isForeignKeyViolation(err) {
		return core.ErrProfileNotFound
	}
	return err
}

// GetActivity retrieves a live activity by ID
func (s *SQLiteStorage) GetActivity(ctx context.Context, id string) (*core.LiveActivity, error) {
	row := s.db.QueryRowContext(ctx, activitySelect+" WHERE id = ?", id)

	activity, err := scanActivity(row)
	if err == sql.ErrNoRows {
		return nil, core.ErrActivityNotFound
	}
	return activity, err
}

// GetActiveActivityForProfile retrieves the running activity of a profile
func (s *SQLiteStorage) GetActiveActivityForProfile(ctx context.Context, profileID string) (*core.LiveActivity, error) {
	row := s.db.QueryRowContext(ctx, activitySelect+" WHERE profile_id = ? AND status = ?",
		profileID, string(core.ActivityStatusActive))

	activity, err := scanActivity(row)
	if err == sql.ErrNoRows {
		return nil, core.ErrActivityNotFound
	}
	return activity, err
}

// ListActiveActivities retrieves all running activities
func (s *SQLiteStorage) ListActiveActivities(ctx context.Context) ([]*core.LiveActivity, error) {
	return s.listActivities(ctx, " WHERE status = ? ORDER BY started_at", string(core.ActivityStatusActive))
}

// ListActivitiesByProfile retrieves all activities of a profile, newest first
func (s *SQLiteStorage) ListActivitiesByProfile(ctx context.Context, profileID string) ([]*core.LiveActivity, error) {
	return s.listActivities(ctx, " WHERE profile_id = ? ORDER BY started_at DESC", profileID)
}

// UpdateActivity updates an existing activity
func (s *SQLiteStorage) UpdateActivity(ctx context.Context, activity *core.LiveActivity) error {
	activity.UpdatedAt = time.Now()

	result, err := s.db.ExecContext(ctx, `
		UPDATE live_activities
		SET status = ?, phase = ?, seconds_remaining = ?, progress = ?, is_sleeping_period = ?,
			is_running_low = ?, last_refreshed_at = ?, ended_at = ?, updated_at = ?
		WHERE id = ?
	`, string(activity.Status), string(activity.Content.Phase), activity.Content.SecondsRemaining,
		activity.Content.Progress, activity.Content.IsSleepingPeriod, activity.Content.IsRunningLow,
		activity.LastRefreshedAt, nullTime(activity.EndedAt), activity.UpdatedAt, activity.ID)

	if err != nil {
		return err
	}

	return expectAffected(result, core.ErrActivityNotFound)
}

// Ping checks that the database is reachable
func (s *SQLiteStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

const activitySelect = `
	SELECT id, profile_id, name, started_at, ends_at, status,
		phase, seconds_remaining, progress, is_sleeping_period, is_running_low,
		last_refreshed_at, ended_at, created_at, updated_at
	FROM live_activities`

func (s *SQLiteStorage) listActivities(ctx context.Context, clause string, args ...interface{}) ([]*core.LiveActivity, error) {
	rows, err := s.db.QueryContext(ctx, activitySelect+clause, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []*core.LiveActivity
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, activity)
	}

	return activities, rows.Err()
}

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanProfile(row scanner) (*core.Profile, error) {
	var profile core.Profile
	var bedtime, wakeup, accent, labels string

	err := row.Scan(&profile.ID, &profile.Name, &profile.Timezone, &bedtime, &wakeup,
		&profile.Appearance.DarkMode, &accent, &labels, &profile.TimerRunning,
		&profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if profile.Bedtime, err = core.ParseTimeOfDay(bedtime); err != nil {
		return nil, fmt.Errorf("profile %s bedtime: %w", profile.ID, err)
	}
	if profile.Wakeup, err = core.ParseTimeOfDay(wakeup); err != nil {
		return nil, fmt.Errorf("profile %s wakeup: %w", profile.ID, err)
	}
	if profile.Labels, err = decodeLabels(labels); err != nil {
		return nil, err
	}
	profile.Appearance.AccentColor = core.AccentColor(accent)

	return &profile, nil
}

func scanActivity(row scanner) (*core.LiveActivity, error) {
	var activity core.LiveActivity
	var status, phase string
	var endedAt sql.NullTime

	err := row.Scan(&activity.ID, &activity.ProfileID, &activity.Name, &activity.StartedAt,
		&activity.EndsAt, &status, &phase, &activity.Content.SecondsRemaining,
		&activity.Content.Progress, &activity.Content.IsSleepingPeriod, &activity.Content.IsRunningLow,
		&activity.LastRefreshedAt, &endedAt, &activity.CreatedAt, &activity.UpdatedAt)
	if err != nil {
		return nil, err
	}

	activity.Status = core.ActivityStatus(status)
	activity.Content.Phase = core.Phase(phase)
	if endedAt.Valid {
		activity.EndedAt = &endedAt.Time
	}

	return &activity, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func expectAffected(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

func isForeignKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
}

var _ storage.Storage = (*SQLiteStorage)(nil)

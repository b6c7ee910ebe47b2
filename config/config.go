package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sleepcountdown/internal/core"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrInvalidConfig      = errors.New("invalid configuration")
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `json:"server" yaml:"server"`
	Database DatabaseConfig `json:"database" yaml:"database"`
	Security SecurityConfig `json:"security" yaml:"security"`
	Schedule ScheduleConfig `json:"schedule" yaml:"schedule"`
	Alert    AlertConfig    `json:"alert" yaml:"alert"`
	Refresh  RefreshConfig  `json:"refresh" yaml:"refresh"`
	Logging  LoggingConfig  `json:"logging" yaml:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path string `json:"path" yaml:"path"`
}

// SecurityConfig contains security settings
type SecurityConfig struct {
	APIKey            string `json:"api_key" yaml:"api_key"`
	RequestsPerMinute int    `json:"requests_per_minute" yaml:"requests_per_minute"` // per client IP, 0 disables
}

// ScheduleConfig holds defaults for newly created profiles
type ScheduleConfig struct {
	Timezone       string `json:"timezone" yaml:"timezone"`
	DefaultBedtime string `json:"default_bedtime" yaml:"default_bedtime"`
	DefaultWakeup  string `json:"default_wakeup" yaml:"default_wakeup"`
}

// AlertConfig selects the running-low policy
type AlertConfig struct {
	Policy        string `json:"policy" yaml:"policy"` // "grace" or "min_sleep"
	GraceMinutes  int    `json:"grace_minutes" yaml:"grace_minutes"`
	MinSleepHours int    `json:"min_sleep_hours" yaml:"min_sleep_hours"`
}

// RefreshConfig controls the live activity refresh loop
type RefreshConfig struct {
	ActivityIntervalSeconds int `json:"activity_interval_seconds" yaml:"activity_interval_seconds"`
}

// LoggingConfig contains logger settings
type LoggingConfig struct {
	Format string `json:"format" yaml:"format"` // "json" or "text"
	Level  string `json:"level" yaml:"level"`
}

// Validate validates the configuration and fills defaults
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: invalid server port", ErrInvalidConfig)
	}

	if c.Database.Path == "" {
		return fmt.Errorf("%w: database path is required", ErrInvalidConfig)
	}

	if c.Security.APIKey == "" {
		return fmt.Errorf("%w: API key is required", ErrInvalidConfig)
	}

	if c.Security.RequestsPerMinute < 0 {
		return fmt.Errorf("%w: requests_per_minute cannot be negative", ErrInvalidConfig)
	}

	if c.Schedule.Timezone == "" {
		c.Schedule.Timezone = "UTC"
	}
	if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
		return fmt.Errorf("%w: invalid timezone %s", ErrInvalidConfig, c.Schedule.Timezone)
	}

	if c.Schedule.DefaultBedtime == "" {
		c.Schedule.DefaultBedtime = core.DefaultBedtime.String()
	}
	if c.Schedule.DefaultWakeup == "" {
		c.Schedule.DefaultWakeup = core.DefaultWakeup.String()
	}
	if _, err := c.DefaultSchedule(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if c.Alert.GraceMinutes < 0 || c.Alert.MinSleepHours < 0 {
		return fmt.Errorf("%w: alert durations cannot be negative", ErrInvalidConfig)
	}
	if _, err := c.AlertPolicy(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if c.Refresh.ActivityIntervalSeconds <= 0 {
		c.Refresh.ActivityIntervalSeconds = 10
	}

	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("%w: logging format must be json or text", ErrInvalidConfig)
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	return nil
}

// DefaultSchedule returns the schedule assigned to new profiles
func (c *Config) DefaultSchedule() (core.Schedule, error) {
	bedtime, err := core.ParseTimeOfDay(c.Schedule.DefaultBedtime)
	if err != nil {
		return core.Schedule{}, fmt.Errorf("default_bedtime: %w", err)
	}
	wakeup, err := core.ParseTimeOfDay(c.Schedule.DefaultWakeup)
	if err != nil {
		return core.Schedule{}, fmt.Errorf("default_wakeup: %w", err)
	}
	return core.Schedule{Bedtime: bedtime, Wakeup: wakeup}, nil
}

// AlertPolicy builds the configured running-low policy
func (c *Config) AlertPolicy() (core.AlertPolicy, error) {
	return core.ParseAlertPolicy(c.Alert.Policy,
		time.Duration(c.Alert.GraceMinutes)*time.Minute,
		time.Duration(c.Alert.MinSleepHours)*time.Hour)
}

// ActivityInterval returns the live activity refresh period
func (c *Config) ActivityInterval() time.Duration {
	return time.Duration(c.Refresh.ActivityIntervalSeconds) * time.Second
}

// Load loads configuration from a JSON or YAML file, chosen by extension
func Load(path string) (*Config, error) {
	var config Config
	if err := readFile(path, &config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadFromEnv loads configuration from environment variables
// This is useful for containerized deployments
func LoadFromEnv() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Host: getEnv("SLEEPCD_HOST", "0.0.0.0"),
			Port: getEnvInt("SLEEPCD_PORT", 8080),
		},
		Database: DatabaseConfig{
			Path: getEnv("SLEEPCD_DB_PATH", "./sleepcountdown.db"),
		},
		Security: SecurityConfig{
			APIKey:            getEnv("SLEEPCD_API_KEY", ""),
			RequestsPerMinute: getEnvInt("SLEEPCD_REQUESTS_PER_MINUTE", 120),
		},
		Schedule: ScheduleConfig{
			Timezone:       getEnv("SLEEPCD_TIMEZONE", "UTC"),
			DefaultBedtime: getEnv("SLEEPCD_DEFAULT_BEDTIME", core.DefaultBedtime.String()),
			DefaultWakeup:  getEnv("SLEEPCD_DEFAULT_WAKEUP", core.DefaultWakeup.String()),
		},
		Alert: AlertConfig{
			Policy:        getEnv("SLEEPCD_ALERT_POLICY", core.AlertPolicyGrace),
			GraceMinutes:  getEnvInt("SLEEPCD_ALERT_GRACE_MINUTES", 30),
			MinSleepHours: getEnvInt("SLEEPCD_ALERT_MIN_SLEEP_HOURS", 7),
		},
		Refresh: RefreshConfig{
			ActivityIntervalSeconds: getEnvInt("SLEEPCD_ACTIVITY_INTERVAL_SECONDS", 10),
		},
		Logging: LoggingConfig{
			Format: getEnv("SLEEPCD_LOG_FORMAT", "json"),
			Level:  getEnv("SLEEPCD_LOG_LEVEL", "info"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// readFile decodes a config file into out; .yaml and .yml use YAML, anything else JSON
func readFile(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, out)
	default:
		err = json.Unmarshal(data, out)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var intVal int
		fmt.Sscanf(value, "%d", &intVal)
		return intVal
	}
	return defaultValue
}

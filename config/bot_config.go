package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// BotConfig represents the Telegram bot configuration
type BotConfig struct {
	Server   BotServerConfig    `json:"server" yaml:"server"`
	Telegram TelegramBotConfig  `json:"telegram" yaml:"telegram"`
	API      CountdownAPIConfig `json:"api" yaml:"api"`
	Logging  LoggingConfig      `json:"logging" yaml:"logging"`
}

// BotServerConfig contains HTTP server settings for the bot
type BotServerConfig struct {
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`
}

// TelegramBotConfig contains Telegram bot settings
type TelegramBotConfig struct {
	Token         string  `json:"token" yaml:"token"`
	AllowedUsers  []int64 `json:"allowed_users" yaml:"allowed_users"`
	WebhookURL    string  `json:"webhook_url" yaml:"webhook_url"`
	WebhookSecret string  `json:"webhook_secret" yaml:"webhook_secret"`
}

// CountdownAPIConfig contains the countdown server connection settings
type CountdownAPIConfig struct {
	BaseURL   string `json:"base_url" yaml:"base_url"`
	APIKey    string `json:"api_key" yaml:"api_key"`
	ProfileID string `json:"profile_id" yaml:"profile_id"`
}

// LoadBotConfig loads bot configuration from a JSON or YAML file
func LoadBotConfig(path string) (*BotConfig, error) {
	var cfg BotConfig
	if err := readFile(path, &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadBotConfigFromEnv loads bot configuration from environment variables
func LoadBotConfigFromEnv() (*BotConfig, error) {
	cfg := &BotConfig{
		Server: BotServerConfig{
			Host: getEnv("SLEEPCD_BOT_HOST", "0.0.0.0"),
			Port: getEnvInt("SLEEPCD_BOT_PORT", 8081),
		},
		Telegram: TelegramBotConfig{
			Token:         getEnv("SLEEPCD_BOT_TOKEN", ""),
			AllowedUsers:  parseUserIDs(os.Getenv("SLEEPCD_BOT_ALLOWED_USERS")),
			WebhookURL:    getEnv("SLEEPCD_BOT_WEBHOOK_URL", ""),
			WebhookSecret: getEnv("SLEEPCD_BOT_WEBHOOK_SECRET", ""),
		},
		API: CountdownAPIConfig{
			BaseURL:   getEnv("SLEEPCD_API_URL", "http://localhost:8080"),
			APIKey:    getEnv("SLEEPCD_API_KEY", ""),
			ProfileID: getEnv("SLEEPCD_BOT_PROFILE_ID", ""),
		},
		Logging: LoggingConfig{
			Format: getEnv("SLEEPCD_LOG_FORMAT", "json"),
			Level:  getEnv("SLEEPCD_LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *BotConfig) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: invalid server port", ErrInvalidConfig)
	}

	if c.Telegram.Token == "" {
		return fmt.Errorf("%w: telegram.token is required", ErrInvalidConfig)
	}

	if len(c.Telegram.AllowedUsers) == 0 {
		return fmt.Errorf("%w: telegram.allowed_users cannot be empty", ErrInvalidConfig)
	}

	if c.Telegram.WebhookURL == "" {
		return fmt.Errorf("%w: telegram.webhook_url is required", ErrInvalidConfig)
	}

	if c.API.BaseURL == "" {
		return fmt.Errorf("%w: api.base_url is required", ErrInvalidConfig)
	}

	if c.API.APIKey == "" {
		return fmt.Errorf("%w: api.api_key is required", ErrInvalidConfig)
	}

	if c.API.ProfileID == "" {
		return fmt.Errorf("%w: api.profile_id is required", ErrInvalidConfig)
	}

	// Set defaults if not specified
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	return nil
}

// IsUserAllowed checks if a user ID is in the whitelist
func (c *BotConfig) IsUserAllowed(userID int64) bool {
	for _, allowedID := range c.Telegram.AllowedUsers {
		if allowedID == userID {
			return true
		}
	}
	return false
}

// parseUserIDs parses a comma separated list of Telegram user IDs, skipping junk
func parseUserIDs(s string) []int64 {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

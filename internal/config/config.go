// Package config handles application configuration from environment variables.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the application configuration.
type Config struct {
	TelegramBotToken string  `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	DatabasePath     string  `envconfig:"DATABASE_PATH" default:"./data/bot.db"`
	LogLevel         string  `envconfig:"LOG_LEVEL" default:"info"`
	AllowedUsers     []int64 `envconfig:"ALLOWED_USERS"`

	TickSeconds    int `envconfig:"TICK_SECONDS" default:"60"`
	WorkerPoolSize int `envconfig:"WORKER_POOL_SIZE" default:"8"`

	PrayerAPIURL  string `envconfig:"PRAYER_API_URL" default:"https://api.aladhan.com"`
	GeocodeAPIURL string `envconfig:"GEOCODE_API_URL" default:"https://nominatim.openstreetmap.org"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if cfg.TickSeconds < 10 || cfg.TickSeconds > 300 {
		return nil, fmt.Errorf("TICK_SECONDS must be between 10 and 300, got %d", cfg.TickSeconds)
	}
	if cfg.WorkerPoolSize < 1 {
		return nil, fmt.Errorf("WORKER_POOL_SIZE must be positive, got %d", cfg.WorkerPoolSize)
	}
	return &cfg, nil
}

// IsUserAllowed checks whether a user ID is in the allow list.
// Returns true if the allow list is empty (all users permitted).
func (c *Config) IsUserAllowed(userID int64) bool {
	if len(c.AllowedUsers) == 0 {
		return true
	}
	for _, id := range c.AllowedUsers {
		if id == userID {
			return true
		}
	}
	return false
}

// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	LogLevel                string        `mapstructure:"LOG_LEVEL"`
	HTTPAddr                string        `mapstructure:"HTTP_ADDR"`
	DBURL                   string        `mapstructure:"DB_URL"`
	MigrationsPath          string        `mapstructure:"MIGRATIONS_PATH"`
	GithubWebhookSecret     string        `mapstructure:"GITHUB_WEBHOOK_SECRET"`
	SessionSecret           string        `mapstructure:"SESSION_SECRET"`
	GithubAppID             int64         `mapstructure:"GITHUB_APP_ID"`
	GithubAppPrivateKeyPath string        `mapstructure:"GITHUB_APP_PRIVATE_KEY_PATH"`
	GithubAPIURL            string        `mapstructure:"GITHUB_API_URL"`
	GithubWebURL            string        `mapstructure:"GITHUB_WEB_URL"`
	IngestionServiceURL     string        `mapstructure:"INGESTION_SERVICE_URL"`
	IngestionTimeout        time.Duration `mapstructure:"INGESTION_TIMEOUT"`
	ReaperInterval          time.Duration `mapstructure:"REAPER_INTERVAL"`
	ReaperGrace             time.Duration `mapstructure:"REAPER_GRACE"`
	DeliveryRetention       time.Duration `mapstructure:"DELIVERY_RETENTION"`
	LoginURL                string        `mapstructure:"LOGIN_URL"`
	DashboardURL            string        `mapstructure:"DASHBOARD_URL"`
}

var defaults = map[string]any{
	"LOG_LEVEL":          "info",
	"HTTP_ADDR":          ":8080",
	"MIGRATIONS_PATH":    "file://migrations",
	"GITHUB_APP_ID":      0,
	"GITHUB_WEB_URL":     "https://github.com",
	"INGESTION_TIMEOUT":  "10m",
	"REAPER_INTERVAL":    "1m",
	"REAPER_GRACE":       "2m",
	"DELIVERY_RETENTION": "72h",
	"LOGIN_URL":          "/login",
	"DASHBOARD_URL":      "/dashboard",
}

// Keys without a default still need binding, or Unmarshal never sees their env values.
var unsetKeys = []string{
	"DB_URL",
	"GITHUB_WEBHOOK_SECRET",
	"SESSION_SECRET",
	"GITHUB_APP_PRIVATE_KEY_PATH",
	"GITHUB_API_URL",
	"INGESTION_SERVICE_URL",
}

// LoadConfig reads configuration from file and/or environment variables and validates it.
func LoadConfig() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads configuration without validating it. Commands that need only part of the
// configuration, such as migrate, check what they use themselves.
func Load() (*Config, error) {
	// Set default values
	for key, value := range defaults {
		viper.SetDefault(key, value)
	}

	// Load from .env file if it exists
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	_ = viper.ReadInConfig() // Ignore error if file not found

	// Bind environment variables
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	for _, key := range unsetKeys {
		if err := viper.BindEnv(key); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required fields and value ranges.
func (c *Config) Validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"DB_URL", c.DBURL},
		{"GITHUB_WEBHOOK_SECRET", c.GithubWebhookSecret},
		{"SESSION_SECRET", c.SessionSecret},
		{"INGESTION_SERVICE_URL", c.IngestionServiceURL},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%s is a required configuration field", r.key)
		}
	}

	if c.GithubAppID < 0 {
		return errors.New("GITHUB_APP_ID must be a positive integer")
	}
	if c.GithubAppID > 0 && c.GithubAppPrivateKeyPath == "" {
		return errors.New("GITHUB_APP_PRIVATE_KEY_PATH is required when GITHUB_APP_ID is set")
	}

	durations := []struct {
		key   string
		value time.Duration
	}{
		{"INGESTION_TIMEOUT", c.IngestionTimeout},
		{"REAPER_INTERVAL", c.ReaperInterval},
		{"DELIVERY_RETENTION", c.DeliveryRetention},
	}
	for _, d := range durations {
		if d.value <= 0 {
			return fmt.Errorf("%s must be a positive duration", d.key)
		}
	}
	if c.ReaperGrace < 0 {
		return errors.New("REAPER_GRACE must not be negative")
	}
	return nil
}

// AppConfigured reports whether GitHub App credentials were supplied.
func (c *Config) AppConfigured() bool {
	return c.GithubAppID > 0
}

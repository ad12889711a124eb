package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Data      DataConfig      `yaml:"data"`
	Email     EmailConfig     `yaml:"email"`
	JWT       JWTConfig       `yaml:"jwt"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains the ops HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host" env:"SERVER_HOST"`
	Port int    `yaml:"port" env:"SERVER_PORT"`
}

// DataConfig points the entity stores at their mirror bucket and baseline snapshot
type DataConfig struct {
	BucketURL string `yaml:"bucket_url" env:"DATA_BUCKET_URL"` // directory path or bucket URL, e.g. "file:///var/lib/alumni"
	SeedPath  string `yaml:"seed_path" env:"SEED_PATH"`        // baseline YAML extract, optional
}

// EmailConfig contains the notification email side channel settings
type EmailConfig struct {
	Enabled        bool   `yaml:"enabled" env:"EMAIL_ENABLED"`
	SendGridAPIKey string `yaml:"sendgrid_api_key" env:"SENDGRID_API_KEY"`
	FromEmail      string `yaml:"from_email" env:"EMAIL_FROM"`
	FromName       string `yaml:"from_name" env:"EMAIL_FROM_NAME"`
	PortalURL      string `yaml:"portal_url" env:"PORTAL_URL"`
}

// JWTConfig contains the admin token settings for the ops surface
type JWTConfig struct {
	Secret string `yaml:"secret" env:"JWT_SECRET"`
	Issuer string `yaml:"issuer" env:"JWT_ISSUER"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`   // "debug", "info", "warn", "error"
	Format string `yaml:"format" env:"LOG_FORMAT"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	SendEventReminders string `yaml:"send_event_reminders" env:"CRON_SEND_EVENT_REMINDERS"`
	RefreshMentorStats string `yaml:"refresh_mentor_stats" env:"CRON_REFRESH_MENTOR_STATS"`
	CompletePastEvents string `yaml:"complete_past_events" env:"CRON_COMPLETE_PAST_EVENTS"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse builds a Config from YAML bytes, applies environment overrides and validates it
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Environment variables win over the file; unset variables leave file values alone.
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks if the configuration is valid and fills defaults
func (c *Config) Validate() error {
	if c.Server.Port == 0 {
		c.Server.Port = 8081
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if strings.TrimSpace(c.Data.BucketURL) == "" {
		c.Data.BucketURL = "./data"
	}

	if c.Email.Enabled {
		if c.Email.SendGridAPIKey == "" {
			return fmt.Errorf("sendgrid api key is required when email is enabled")
		}
		if c.Email.FromEmail == "" {
			return fmt.Errorf("email from address is required when email is enabled")
		}
	}
	if c.Email.FromName == "" {
		c.Email.FromName = "Alumni Network"
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "alumni-ops"
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.Scheduler.SendEventReminders == "" {
		c.Scheduler.SendEventReminders = "0 0 8 * * *" // 8 AM UTC
	}
	if c.Scheduler.RefreshMentorStats == "" {
		c.Scheduler.RefreshMentorStats = "0 30 2 * * *" // 2:30 AM UTC
	}
	if c.Scheduler.CompletePastEvents == "" {
		c.Scheduler.CompletePastEvents = "0 5 0 * * *" // just after midnight UTC
	}

	return nil
}

// GetServerAddress returns the ops HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Package config provides configuration domain models.
package config

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidConfiguration is returned when configuration is invalid.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// Supported history drivers.
const (
	DriverSQLite    = "sqlite"
	DriverMySQL     = "mysql"
	DriverPostgres  = "postgres"
	DriverSQLServer = "sqlserver"
	DriverOracle    = "oracle"
)

// ScraperConfig represents run controller configuration.
type ScraperConfig struct {
	// TickInterval is the delay between two simulated work units.
	TickInterval time.Duration `yaml:"tick_interval"`

	// LogCapacity caps the activity log. Zero keeps every entry.
	LogCapacity int `yaml:"log_capacity"`
}

// Validate validates the scraper configuration.
func (c *ScraperConfig) Validate() error {
	if c.TickInterval <= 0 {
		return fmt.Errorf("%w: tick_interval must be positive", ErrInvalidConfiguration)
	}
	if c.LogCapacity < 0 {
		return fmt.Errorf("%w: log_capacity cannot be negative", ErrInvalidConfiguration)
	}
	return nil
}

// UIConfig represents presentation configuration.
type UIConfig struct {
	// Title is the window and header title.
	Title string `yaml:"title"`

	// Theme is the UI theme (light, dark, system).
	Theme string `yaml:"theme"`

	// LogLines is the number of activity log lines displayed.
	LogLines int `yaml:"log_lines"`

	// ToastDuration is how long a toast stays visible.
	ToastDuration time.Duration `yaml:"toast_duration"`

	// SplashDuration is how long the splash screen is shown on launch.
	SplashDuration time.Duration `yaml:"splash_duration"`
}

// Validate validates the UI configuration.
func (c *UIConfig) Validate() error {
	validThemes := map[string]bool{
		"light":  true,
		"dark":   true,
		"system": true,
	}

	if !validThemes[c.Theme] {
		return fmt.Errorf("%w: invalid theme: %s", ErrInvalidConfiguration, c.Theme)
	}

	if c.LogLines < 1 || c.LogLines > 500 {
		return fmt.Errorf("%w: log_lines must be between 1 and 500", ErrInvalidConfiguration)
	}

	if c.ToastDuration <= 0 {
		return fmt.Errorf("%w: toast_duration must be positive", ErrInvalidConfiguration)
	}

	if c.SplashDuration < 0 {
		return fmt.Errorf("%w: splash_duration cannot be negative", ErrInvalidConfiguration)
	}

	return nil
}

// HistoryConfig represents run history recording configuration.
type HistoryConfig struct {
	// Enabled turns history recording on.
	Enabled bool `yaml:"enabled"`

	// Driver selects the database dialect.
	Driver string `yaml:"driver"`

	// DSN is the data source name. For sqlite it is a file path.
	// A "{password}" token is replaced with the stored database password.
	DSN string `yaml:"dsn"`

	// SecretsDir holds the encrypted database password.
	SecretsDir string `yaml:"secrets_dir"`
}

// Validate validates the history configuration.
func (c *HistoryConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	switch c.Driver {
	case DriverSQLite, DriverMySQL, DriverPostgres, DriverSQLServer, DriverOracle:
	default:
		return fmt.Errorf("%w: unknown history driver: %s", ErrInvalidConfiguration, c.Driver)
	}

	if c.DSN == "" {
		return fmt.Errorf("%w: history dsn is required", ErrInvalidConfiguration)
	}

	return nil
}

// LogConfig represents application logging configuration.
type LogConfig struct {
	// Level is the logging level (debug, info, warn, error).
	Level string `yaml:"level"`

	// Dir is the directory for daily log files. Empty disables file logging.
	Dir string `yaml:"dir"`
}

// Validate validates the logging configuration.
func (c *LogConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Level] {
		return fmt.Errorf("%w: invalid log level: %s", ErrInvalidConfiguration, c.Level)
	}

	return nil
}

// Config represents the complete application configuration.
type Config struct {
	Scraper ScraperConfig `yaml:"scraper"`
	UI      UIConfig      `yaml:"ui"`
	History HistoryConfig `yaml:"history"`
	Log     LogConfig     `yaml:"log"`
}

// Validate validates the complete configuration.
func (c *Config) Validate() error {
	if err := c.Scraper.Validate(); err != nil {
		return fmt.Errorf("scraper: %w", err)
	}

	if err := c.UI.Validate(); err != nil {
		return fmt.Errorf("ui: %w", err)
	}

	if err := c.History.Validate(); err != nil {
		return fmt.Errorf("history: %w", err)
	}

	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}

	return nil
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	return &Config{
		Scraper: ScraperConfig{
			TickInterval: 2 * time.Second,
			LogCapacity:  0,
		},
		UI: UIConfig{
			Title:          "News Scraper",
			Theme:          "system",
			LogLines:       10,
			ToastDuration:  4 * time.Second,
			SplashDuration: 2 * time.Second,
		},
		History: HistoryConfig{
			Enabled:    true,
			Driver:     DriverSQLite,
			DSN:        "./data/news-scraper.db",
			SecretsDir: "./data/secrets",
		},
		Log: LogConfig{
			Level: "info",
			Dir:   "./data/logs",
		},
	}
}

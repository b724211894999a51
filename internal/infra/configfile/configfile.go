// Package configfile loads the application configuration from YAML and
// the environment.
package configfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/whhaicheng/news-scraper/internal/domain/config"
)

// DefaultPath is the config file used when none is given.
const DefaultPath = "./data/config.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "NEWS_SCRAPER_"

// Load loads configuration with the following precedence (highest first):
// 1. Environment variables (NEWS_SCRAPER_*)
// 2. The YAML file at path, if it exists
// 3. Built-in defaults
// The result is validated.
func Load(path string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg as YAML, creating the parent directory.
func Save(path string, cfg *config.Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg *config.Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// loadFromFile merges the YAML file into cfg. Keys absent from the file
// keep their current values.
func loadFromFile(path string, cfg *config.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("%w: parse %s: %v", config.ErrInvalidConfiguration, path, err)
	}
	return nil
}

type lookupFunc func(key string) (string, bool)

func applyEnv(cfg *config.Config, lookup lookupFunc) error {
	strs := map[string]*string{
		"UI_TITLE":            &cfg.UI.Title,
		"UI_THEME":            &cfg.UI.Theme,
		"HISTORY_DRIVER":      &cfg.History.Driver,
		"HISTORY_DSN":         &cfg.History.DSN,
		"HISTORY_SECRETS_DIR": &cfg.History.SecretsDir,
		"LOG_LEVEL":           &cfg.Log.Level,
		"LOG_DIR":             &cfg.Log.Dir,
	}
	for key, dst := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"LOG_CAPACITY": &cfg.Scraper.LogCapacity,
		"UI_LOG_LINES": &cfg.UI.LogLines,
	}
	for key, dst := range ints {
		if v, ok := lookup(EnvPrefix + key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%w: %s%s: %v", config.ErrInvalidConfiguration, EnvPrefix, key, err)
			}
			*dst = n
		}
	}

	durations := map[string]*time.Duration{
		"TICK_INTERVAL":      &cfg.Scraper.TickInterval,
		"UI_TOAST_DURATION":  &cfg.UI.ToastDuration,
		"UI_SPLASH_DURATION": &cfg.UI.SplashDuration,
	}
	for key, dst := range durations {
		if v, ok := lookup(EnvPrefix + key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%w: %s%s: %v", config.ErrInvalidConfiguration, EnvPrefix, key, err)
			}
			*dst = d
		}
	}

	if v, ok := lookup(EnvPrefix + "HISTORY_ENABLED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %sHISTORY_ENABLED: %v", config.ErrInvalidConfiguration, EnvPrefix, err)
		}
		cfg.History.Enabled = b
	}
	return nil
}

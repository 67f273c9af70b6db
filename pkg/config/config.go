// Package config loads rolodex settings from defaults, an optional YAML file
// and ROLODEX_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	// Default values
	defaultBackend         = "json"
	defaultLogLevel        = "info"
	defaultLocale          = "en-US"
	defaultBirthdayMaxDays = 365
	defaultConfirmRetries  = 3

	// MaxBirthdayDays bounds the configurable birthday window.
	MaxBirthdayDays = 3650
)

var (
	backends  = []string{"json", "sqlite"}
	logLevels = []string{"debug", "info", "warn", "error"}
)

// Config holds all user settings.
type Config struct {
	// DataFile is the snapshot location; empty selects ~/.rolodex/rolodex.json
	// or ~/.rolodex/rolodex.db depending on Backend.
	DataFile string `yaml:"data_file" env:"ROLODEX_DATA_FILE"`
	Backend  string `yaml:"backend" env:"ROLODEX_BACKEND"`

	// LogDir is empty for ~/.rolodex/logs.
	LogDir   string `yaml:"log_dir" env:"ROLODEX_LOG_DIR"`
	LogLevel string `yaml:"log_level" env:"ROLODEX_LOG_LEVEL"`

	Locale          string `yaml:"locale" env:"ROLODEX_LOCALE"`
	BirthdayMaxDays int    `yaml:"birthday_max_days" env:"ROLODEX_BIRTHDAY_MAX_DAYS"`
	ConfirmRetries  int    `yaml:"confirm_retries" env:"ROLODEX_CONFIRM_RETRIES"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Backend:         defaultBackend,
		LogLevel:        defaultLogLevel,
		Locale:          defaultLocale,
		BirthdayMaxDays: defaultBirthdayMaxDays,
		ConfirmRetries:  defaultConfirmRetries,
	}
}

// DefaultPath returns ~/.rolodex/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".rolodex", "config.yaml"), nil
}

// Load applies the YAML file at path (DefaultPath when empty) and then the
// environment on top of the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// keep defaults
	case err != nil:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

// Validate checks that every setting is within its allowed range.
func (c *Config) Validate() error {
	if !slices.Contains(backends, c.Backend) {
		return fmt.Errorf("invalid backend %q: expected one of %v", c.Backend, backends)
	}
	if !slices.Contains(logLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level %q: expected one of %v", c.LogLevel, logLevels)
	}
	if c.BirthdayMaxDays < 1 || c.BirthdayMaxDays > MaxBirthdayDays {
		return fmt.Errorf("birthday_max_days must be between 1 and %d, got %d", MaxBirthdayDays, c.BirthdayMaxDays)
	}
	if c.ConfirmRetries < 1 {
		return fmt.Errorf("confirm_retries must be at least 1, got %d", c.ConfirmRetries)
	}
	if c.Locale == "" {
		return fmt.Errorf("locale is required")
	}
	return nil
}

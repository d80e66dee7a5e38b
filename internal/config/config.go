// Package config loads the application configuration from an optional YAML
// file with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kkyr/fig"
)

const configEnv = "TERREMETEO"

// Config represents the application's configuration structure.
type Config struct {
	// Allowed values: metric, imperial
	Units string `fig:"units" default:"metric"`
	// Language is the ISO 639-1 code for geocoding result names.
	Language string `fig:"language" default:"en"`
	LogLevel string `fig:"loglevel" default:"info"`
	// LogFile receives log output while the TUI owns the terminal; empty
	// disables file logging.
	LogFile string `fig:"logfile"`

	Globe struct {
		// FollowDistance is the camera's radial offset above a selected
		// surface point, in world units on a radius-2 globe.
		FollowDistance float64 `fig:"follow_distance" default:"4"`
		MinDistance    float64 `fig:"min_distance" default:"0.2"`
		MaxDistance    float64 `fig:"max_distance" default:"6"`
		// Rates are exponential smoothing constants per second.
		FollowRate float64 `fig:"follow_rate" default:"5.0"`
		ResetRate  float64 `fig:"reset_rate" default:"9.8"`
	} `fig:"globe"`

	Search struct {
		// Debounce is the pause after the last keystroke before a geocoding
		// request fires.
		Debounce time.Duration `fig:"debounce" default:"300ms"`
		MinRunes int           `fig:"min_runes" default:"3"`
	} `fig:"search"`

	RecentSearchesFile string `fig:"recent_searches_file"`
}

// NewFromFile loads the configuration from an explicit file.
func NewFromFile(path, file string) (*Config, error) {
	conf := new(Config)
	if _, err := os.Stat(filepath.Join(path, file)); err != nil {
		return conf, fmt.Errorf("failed to read config: %w", err)
	}
	if err := fig.Load(conf, fig.Dirs(path), fig.File(file), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load config: %w", err)
	}
	return conf, conf.Validate()
}

// New loads the configuration from the default locations, falling back to
// built-in defaults when no file exists.
func New() (*Config, error) {
	conf := new(Config)
	dirs := []string{"."}
	if userDir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(userDir, "terremeteo"))
	}
	if err := fig.Load(conf, fig.Dirs(dirs...), fig.AllowNoFile(), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load config: %w", err)
	}
	return conf, conf.Validate()
}

// Validate checks value ranges and fills derived defaults.
func (c *Config) Validate() error {
	if c.Units != "metric" && c.Units != "imperial" {
		return fmt.Errorf("invalid units: %s", c.Units)
	}
	if c.Language == "" {
		return fmt.Errorf("language must not be empty")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}
	if c.Globe.MinDistance <= 0 {
		return fmt.Errorf("invalid min distance: %v", c.Globe.MinDistance)
	}
	if c.Globe.MaxDistance <= c.Globe.MinDistance {
		return fmt.Errorf("max distance %v must exceed min distance %v",
			c.Globe.MaxDistance, c.Globe.MinDistance)
	}
	if c.Globe.FollowDistance < c.Globe.MinDistance || c.Globe.FollowDistance > c.Globe.MaxDistance {
		return fmt.Errorf("follow distance %v outside [%v, %v]",
			c.Globe.FollowDistance, c.Globe.MinDistance, c.Globe.MaxDistance)
	}
	if c.Globe.FollowRate <= 0 || c.Globe.ResetRate <= 0 {
		return fmt.Errorf("smoothing rates must be positive, got follow %v reset %v",
			c.Globe.FollowRate, c.Globe.ResetRate)
	}
	if c.Search.Debounce < 0 {
		return fmt.Errorf("invalid search debounce: %v", c.Search.Debounce)
	}
	if c.Search.MinRunes < 1 {
		return fmt.Errorf("invalid search minimum length: %d", c.Search.MinRunes)
	}
	return nil
}

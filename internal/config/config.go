// Package config resolves runtime settings. Later sources win: built-in
// defaults, then the YAML file, then STUDYPAD_* environment variables
// (optionally seeded from a .env file). Command-line flags are applied on
// top by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/sadopc/studypad/internal/calendar"
	"github.com/sadopc/studypad/internal/focus"
	"github.com/sadopc/studypad/internal/stats"
)

const (
	AppDir   = "studypad"
	FileName = "config.yaml"
)

// Environment variable names.
const (
	EnvData         = "STUDYPAD_DATA"
	EnvLogDir       = "STUDYPAD_LOG_DIR"
	EnvDebug        = "STUDYPAD_DEBUG"
	EnvTimezone     = "STUDYPAD_TZ"
	EnvFocusMinutes = "STUDYPAD_FOCUS_MINUTES"
	EnvTrendDays    = "STUDYPAD_TREND_DAYS"
)

type Config struct {
	DataPath     string `yaml:"data_path"`
	LogDir       string `yaml:"log_dir"`
	Debug        bool   `yaml:"debug"`
	Timezone     string `yaml:"timezone"`
	FocusMinutes int    `yaml:"focus_minutes"`
	TrendDays    int    `yaml:"trend_days"`
}

// Dir returns <user config dir>/studypad.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(base, AppDir), nil
}

// DefaultPath is the config file used when none is given.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Default returns the built-in configuration rooted at dir.
func Default(dir string) Config {
	return Config{
		DataPath:     filepath.Join(dir, "studypad.db"),
		LogDir:       filepath.Join(dir, "logs"),
		Timezone:     "Local",
		FocusMinutes: focus.DefaultMinutes,
		TrendDays:    stats.DefaultTrendDays,
	}
}

// Load builds the configuration. An empty path means DefaultPath. A missing
// file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	dir, err := Dir()
	if err != nil {
		return Config{}, err
	}
	if path == "" {
		path = filepath.Join(dir, FileName)
	}
	cfg := Default(dir)
	if err := cfg.mergeFile(path); err != nil {
		return Config{}, err
	}
	if err := cfg.mergeEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDotEnv loads variables from the given .env files (default ".env")
// without overriding ones already set. Missing files are skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func (c *Config) mergeFile(path string) error {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv(getenv func(string) string) error {
	if v := getenv(EnvData); v != "" {
		c.DataPath = v
	}
	if v := getenv(EnvLogDir); v != "" {
		c.LogDir = v
	}
	if v := getenv(EnvTimezone); v != "" {
		c.Timezone = v
	}
	if v := getenv(EnvDebug); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDebug, err)
		}
		c.Debug = b
	}
	for name, dst := range map[string]*int{EnvFocusMinutes: &c.FocusMinutes, EnvTrendDays: &c.TrendDays} {
		v := getenv(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*dst = n
	}
	return nil
}

func (c Config) Validate() error {
	if c.DataPath == "" {
		return errors.New("data path is empty")
	}
	if c.FocusMinutes < 1 {
		return fmt.Errorf("focus_minutes: %w", focus.ErrInvalidDuration)
	}
	if c.TrendDays < 1 {
		return fmt.Errorf("trend_days must be positive, got %d", c.TrendDays)
	}
	if _, err := calendar.LoadLocation(c.Timezone); err != nil {
		return err
	}
	return nil
}

// Calendar returns the host clock in the configured timezone.
func (c Config) Calendar() (calendar.Calendar, error) {
	loc, err := calendar.LoadLocation(c.Timezone)
	if err != nil {
		return calendar.Calendar{}, err
	}
	return calendar.New(loc, nil), nil
}

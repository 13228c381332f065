// Package config assembles the launchpad's runtime configuration: where its files live,
// how it logs and which optional features run.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"launchpad/internal/database"
)

const (
	EnvDataDir      = "LAUNCHPAD_DATA_DIR"
	EnvLogLevel     = "LAUNCHPAD_LOG_LEVEL"
	EnvLogFormat    = "LAUNCHPAD_LOG_FORMAT"
	EnvEnvironment  = "LAUNCHPAD_ENVIRONMENT"
	EnvDBPath       = "LAUNCHPAD_DB_PATH"
	EnvHistory      = "LAUNCHPAD_HISTORY"
	EnvLinkPreviews = "LAUNCHPAD_LINK_PREVIEWS"
	EnvRetention    = "LAUNCHPAD_DB_RETENTION_DAYS"

	SettingsFileName = "settings.txt"
	UsernameFileName = "username.txt"
	DatabaseFileName = "launchpad.db"

	EnvironmentProduction  = "production"
	EnvironmentDevelopment = "development"
	EnvironmentTest        = "test"
)

// parseBoolEnv reads an environment variable and parses it as a boolean.
// Returns the parsed value and whether a recognised value was present.
func parseBoolEnv(key string) (bool, bool) {
	value := os.Getenv(key)
	if value == "" {
		return false, false
	}

	if parsed, err := strconv.ParseBool(value); err == nil {
		return parsed, true
	}

	switch strings.ToLower(value) {
	case "yes", "y", "on":
		return true, true
	case "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}

// Config holds everything the app needs before it opens a window
type Config struct {
	DataDir      string `json:"dataDir"`
	SettingsFile string `json:"settingsFile"`
	UsernameFile string `json:"usernameFile"`

	Database *database.Config `json:"database"`

	LogLevel    string `json:"logLevel"`  // debug, info, warn, error
	LogFormat   string `json:"logFormat"` // json or console
	Environment string `json:"environment"`

	History        bool          `json:"history"`      // record launches in sqlite
	LinkPreviews   bool          `json:"linkPreviews"` // fetch page titles for website buttons
	PreviewTimeout time.Duration `json:"previewTimeout"`
}

// Default keeps every file next to the executable
func Default() *Config {
	return ForDataDir(executableDir())
}

// ForDataDir returns the production configuration rooted at dir
func ForDataDir(dir string) *Config {
	db := database.DefaultConfig()
	db.Path = filepath.Join(dir, DatabaseFileName)

	return &Config{
		DataDir:        dir,
		SettingsFile:   filepath.Join(dir, SettingsFileName),
		UsernameFile:   filepath.Join(dir, UsernameFileName),
		Database:       db,
		LogLevel:       "info",
		LogFormat:      "console",
		Environment:    EnvironmentProduction,
		History:        true,
		LinkPreviews:   true,
		PreviewTimeout: 5 * time.Second,
	}
}

// ForEnvironment returns a configuration tuned for env, rooted at dir
func ForEnvironment(env, dir string) *Config {
	c := ForDataDir(dir)
	c.Environment = env

	switch env {
	case EnvironmentDevelopment:
		c.LogLevel = "debug"
	case EnvironmentTest:
		c.LogLevel = "error"
		c.Database = database.TestConfig()
		c.LinkPreviews = false
	}
	return c
}

func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

// LoadFromEnvironment applies LAUNCHPAD_* overrides. A new data directory moves
// every file that was still in the old one.
func (c *Config) LoadFromEnvironment() error {
	if dir := os.Getenv(EnvDataDir); dir != "" {
		c.SetDataDir(dir)
	}

	if env := os.Getenv(EnvEnvironment); env != "" {
		c.Environment = strings.ToLower(env)
	}

	if level := os.Getenv(EnvLogLevel); level != "" {
		c.LogLevel = strings.ToLower(level)
	}

	if format := os.Getenv(EnvLogFormat); format != "" {
		c.LogFormat = strings.ToLower(format)
	}

	if c.Database == nil {
		c.Database = database.DefaultConfig()
	}
	if path := os.Getenv(EnvDBPath); path != "" {
		c.Database.Path = path
	}

	if days := os.Getenv(EnvRetention); days != "" {
		val, err := strconv.Atoi(days)
		if err != nil || val < 0 {
			return fmt.Errorf("%s must be a non-negative integer, got %q", EnvRetention, days)
		}
		c.Database.RetentionDays = val
	}

	if history, present := parseBoolEnv(EnvHistory); present {
		c.History = history
	}

	if previews, present := parseBoolEnv(EnvLinkPreviews); present {
		c.LinkPreviews = previews
	}

	return nil
}

// SetDataDir moves the settings, username and database files that live in the current data directory
func (c *Config) SetDataDir(dir string) {
	old := c.DataDir
	c.DataDir = dir

	move := func(path, name string) string {
		if path == "" || filepath.Dir(path) == old {
			return filepath.Join(dir, name)
		}
		return path
	}

	c.SettingsFile = move(c.SettingsFile, SettingsFileName)
	c.UsernameFile = move(c.UsernameFile, UsernameFileName)
	if c.Database != nil && !c.Database.IsInMemory() {
		c.Database.Path = move(c.Database.Path, filepath.Base(c.Database.Path))
	}
}

// Validate checks the configuration and the embedded database configuration
func (c *Config) Validate() error {
	if c.SettingsFile == "" {
		return fmt.Errorf("settings file cannot be empty")
	}
	if c.UsernameFile == "" {
		return fmt.Errorf("username file cannot be empty")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q, must be one of debug, info, warn, error", c.LogLevel)
	}

	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format %q, must be json or console", c.LogFormat)
	}

	switch c.Environment {
	case EnvironmentProduction, EnvironmentDevelopment, EnvironmentTest:
	default:
		return fmt.Errorf("invalid environment %q, must be one of production, development, test", c.Environment)
	}

	if c.PreviewTimeout < 0 {
		return fmt.Errorf("previewTimeout cannot be negative, got %v", c.PreviewTimeout)
	}

	if c.History {
		if c.Database == nil {
			return fmt.Errorf("history is enabled but no database is configured")
		}
		if err := c.Database.Validate(); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}
	return nil
}

// IsDevelopment reports whether the app runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == EnvironmentDevelopment
}

package database

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const memoryPath = ":memory:"

// Config holds the launch history database options
type Config struct {
	// Connection settings
	Path                  string        `json:"path"`                  // Database file path
	MaxConnections        int           `json:"maxConnections"`        // Maximum number of open connections
	MaxIdleConns          int           `json:"maxIdleConns"`          // Maximum number of idle connections
	ConnMaxLifetime       time.Duration `json:"connMaxLifetime"`       // Maximum connection lifetime
	ForceSingleConnection bool          `json:"forceSingleConnection"` // Force single connection mode

	AutoMigrate bool `json:"autoMigrate"` // Apply embedded migrations on startup

	// SQLite pragmas
	JournalMode     string `json:"journalMode"`     // WAL, DELETE, MEMORY...
	SynchronousMode string `json:"synchronousMode"` // OFF, NORMAL, FULL, EXTRA
	CacheSize       int    `json:"cacheSize"`       // KB
	BusyTimeout     int    `json:"busyTimeout"`     // milliseconds

	// RetentionDays bounds how long launch history is kept (0 keeps everything)
	RetentionDays int `json:"retentionDays"`
}

// DefaultConfig returns the configuration used by the desktop app
func DefaultConfig() *Config {
	return &Config{
		Path:            "launchpad.db",
		MaxConnections:  4,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Hour,
		AutoMigrate:     true,
		JournalMode:     "WAL",
		SynchronousMode: "NORMAL",
		CacheSize:       512,
		BusyTimeout:     5000,
		RetentionDays:   90,
	}
}

// TestConfig returns an in-memory configuration for tests
func TestConfig() *Config {
	config := DefaultConfig()
	config.Path = memoryPath
	config.JournalMode = "MEMORY" // WAL is meaningless for in-memory databases
	config.SynchronousMode = "OFF"
	config.BusyTimeout = 1000
	config.ConnMaxLifetime = 0 // the database vanishes with its only connection
	config.RetentionDays = 0
	return config
}

var (
	validJournalModes = []string{"DELETE", "TRUNCATE", "PERSIST", "MEMORY", "WAL", "OFF"}
	validSyncModes    = []string{"OFF", "NORMAL", "FULL", "EXTRA"}
)

func oneOf(value string, valid []string) bool {
	for _, v := range valid {
		if strings.EqualFold(value, v) {
			return true
		}
	}
	return false
}

// Validate checks the options and creates the database directory if needed
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Path) == "" {
		return fmt.Errorf("database path cannot be empty")
	}

	if !c.IsInMemory() {
		if dir := filepath.Dir(c.Path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
	}

	if c.MaxConnections <= 0 {
		return fmt.Errorf("maxConnections must be positive, got %d", c.MaxConnections)
	}
	if c.MaxIdleConns < 0 {
		return fmt.Errorf("maxIdleConns cannot be negative, got %d", c.MaxIdleConns)
	}
	if c.MaxIdleConns > c.MaxConnections {
		return fmt.Errorf("maxIdleConns (%d) cannot be greater than maxConnections (%d)", c.MaxIdleConns, c.MaxConnections)
	}
	if c.ConnMaxLifetime < 0 {
		return fmt.Errorf("connMaxLifetime cannot be negative, got %v", c.ConnMaxLifetime)
	}

	if !oneOf(c.JournalMode, validJournalModes) {
		return fmt.Errorf("invalid journalMode: %s", c.JournalMode)
	}
	if c.IsInMemory() && strings.EqualFold(c.JournalMode, "WAL") {
		return fmt.Errorf("journalMode cannot be WAL when using in-memory database")
	}
	if !oneOf(c.SynchronousMode, validSyncModes) {
		return fmt.Errorf("invalid synchronousMode: %s", c.SynchronousMode)
	}

	if c.CacheSize <= 0 {
		return fmt.Errorf("cacheSize must be positive, got %d", c.CacheSize)
	}
	if c.BusyTimeout < 0 {
		return fmt.Errorf("busyTimeout cannot be negative, got %d", c.BusyTimeout)
	}
	if c.RetentionDays < 0 {
		return fmt.Errorf("retentionDays cannot be negative, got %d", c.RetentionDays)
	}

	return nil
}

// GetConnectionString builds the go-sqlite3 DSN: path plus encoded pragma parameters.
// Only '?' and '&' are escaped in the path so Windows paths stay readable.
func (c *Config) GetConnectionString() string {
	values := url.Values{}
	values.Set("_foreign_keys", "on")
	values.Set("_journal_mode", strings.ToUpper(c.JournalMode))
	values.Set("_synchronous", strings.ToUpper(c.SynchronousMode))
	values.Set("_cache_size", fmt.Sprintf("%d", -c.CacheSize)) // negative means KB
	values.Set("_busy_timeout", fmt.Sprintf("%d", c.BusyTimeout))

	path := strings.NewReplacer("?", "%3F", "&", "%26").Replace(c.Path)
	return path + "?" + values.Encode()
}

// Clone returns a copy of the configuration
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// IsInMemory reports whether the database lives only in memory
func (c *Config) IsInMemory() bool {
	return c.Path == memoryPath
}

// RetentionCutoff returns the instant before which history may be deleted.
// ok is false when retention is disabled.
func (c *Config) RetentionCutoff(now time.Time) (cutoff time.Time, ok bool) {
	if c.RetentionDays <= 0 {
		return time.Time{}, false
	}
	return now.AddDate(0, 0, -c.RetentionDays), true
}

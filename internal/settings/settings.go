// Package settings persists the launchpad's flat key=value settings and username files.
package settings

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"launchpad/internal/infrastructure/logging"
)

const (
	KeyUsername = "username"
	KeyBgColor  = "bgcolor"
	KeyDevMode  = "devmode"

	DefaultUsername = "User"
	DefaultBgColor  = "skyblue"
	DefaultDevMode  = "off"

	devModeOn = "on"
)

// Settings maps keys to values. Unknown keys are kept so they survive a save.
type Settings map[string]string

// Defaults returns a fresh mapping holding only the required keys
func Defaults() Settings {
	return Settings{
		KeyUsername: DefaultUsername,
		KeyBgColor:  DefaultBgColor,
		KeyDevMode:  DefaultDevMode,
	}
}

// Username returns the stored username
func (s Settings) Username() string {
	return s[KeyUsername]
}

// BackgroundColor returns the stored background colour
func (s Settings) BackgroundColor() string {
	return s[KeyBgColor]
}

// DevMode reports whether devmode is the literal "on"
func (s Settings) DevMode() bool {
	return s[KeyDevMode] == devModeOn
}

// SetUsername stores a trimmed username; blank names are ignored
func (s Settings) SetUsername(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	s[KeyUsername] = name
	return true
}

// SetBackgroundColor stores a colour; blank values are ignored
func (s Settings) SetBackgroundColor(color string) bool {
	color = strings.TrimSpace(color)
	if color == "" {
		return false
	}
	s[KeyBgColor] = color
	return true
}

// SetDevMode stores devmode as "on" or "off"
func (s Settings) SetDevMode(on bool) {
	if on {
		s[KeyDevMode] = devModeOn
		return
	}
	s[KeyDevMode] = DefaultDevMode
}

// Clone returns an independent copy
func (s Settings) Clone() Settings {
	out := make(Settings, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// LogIfDev emits message to sink only when dev mode is on
func (s Settings) LogIfDev(sink logging.Logger, message string, fields ...interface{}) {
	logging.NewDevLogger(sink, s.DevMode).Log(message, fields...)
}

// Store reads and writes settings.txt
type Store struct {
	path   string
	logger logging.Logger
}

// NewStore creates a store backed by the file at path
func NewStore(path string, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &Store{path: path, logger: logger}
}

// Path returns the backing file path
func (st *Store) Path() string {
	return st.path
}

// Load returns the defaults overridden by every key=value line of the backing file.
// Any read or decode failure yields pure defaults; Load never fails.
func (st *Store) Load() Settings {
	s := Defaults()

	data, err := os.ReadFile(st.path)
	if err != nil {
		if !os.IsNotExist(err) {
			st.logger.Debug("Settings file unreadable, using defaults", "path", st.path, "error", err)
		}
		return s
	}
	if !utf8.Valid(data) {
		st.logger.Debug("Settings file is not valid UTF-8, using defaults", "path", st.path)
		return s
	}

	for key, value := range parse(data) {
		s[key] = value
	}
	return s
}

// parse reads key=value lines, splitting on the first '='. Lines without '=' are skipped.
func parse(data []byte) map[string]string {
	entries := make(map[string]string)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 4096), len(data)+1)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		entries[key] = value
	}
	return entries
}

// Save overwrites the backing file with one key=value line per entry, keys sorted.
// Failures are logged and returned; the caller's in-memory settings stay valid.
func (st *Store) Save(s Settings) error {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	for _, k := range keys {
		fmt.Fprintf(&buf, "%s=%s\n", k, s[k])
	}

	if err := os.WriteFile(st.path, buf.Bytes(), 0o644); err != nil {
		err = fmt.Errorf("save settings to %s: %w", st.path, err)
		logging.LogError(st.logger, err, "SaveSettings", map[string]interface{}{
			"path": st.path,
		})
		return err
	}
	return nil
}

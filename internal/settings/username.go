package settings

import (
	"fmt"
	"os"
	"strings"

	"launchpad/internal/infrastructure/logging"
)

// UsernameStore reads and writes username.txt
type UsernameStore struct {
	path   string
	logger logging.Logger
}

// NewUsernameStore creates a store backed by the file at path
func NewUsernameStore(path string, logger logging.Logger) *UsernameStore {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &UsernameStore{path: path, logger: logger}
}

// Load returns the trimmed file content, or DefaultUsername when the file
// is absent, empty or unreadable
func (u *UsernameStore) Load() string {
	data, err := os.ReadFile(u.path)
	if err != nil {
		return DefaultUsername
	}
	if name := strings.TrimSpace(string(data)); name != "" {
		return name
	}
	return DefaultUsername
}

// Save overwrites the file with name
func (u *UsernameStore) Save(name string) error {
	if err := os.WriteFile(u.path, []byte(name), 0o644); err != nil {
		err = fmt.Errorf("save username to %s: %w", u.path, err)
		logging.LogError(u.logger, err, "SaveUsername", map[string]interface{}{
			"path": u.path,
		})
		return err
	}
	return nil
}

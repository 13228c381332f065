//go:build darwin

package platform

import (
	"fmt"
	"io"

	"github.com/pkg/browser"
)

// DarwinShell implements Shell for macOS platform
type DarwinShell struct{}

// NewDarwinShell creates a new macOS shell instance
func NewDarwinShell() *DarwinShell {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	return &DarwinShell{}
}

// NewShell creates a new Shell instance for macOS
func NewShell() Shell {
	return NewDarwinShell()
}

// Start runs command as a detached child process
func (d *DarwinShell) Start(command string) error {
	return startDetached(command)
}

// OpenURL opens url in the default browser
func (d *DarwinShell) OpenURL(url string) error {
	if err := browser.OpenURL(url); err != nil {
		return fmt.Errorf("open url %q: %w", url, err)
	}
	return nil
}

// OpenURI passes uri to open(1)
func (d *DarwinShell) OpenURI(uri string) error {
	return startDetached(`open "` + uri + `"`)
}

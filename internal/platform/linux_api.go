//go:build linux

package platform

import (
	"fmt"
	"io"

	"github.com/pkg/browser"
)

// LinuxShell implements Shell for Linux platform
type LinuxShell struct{}

// NewLinuxShell creates a new Linux shell instance
func NewLinuxShell() *LinuxShell {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	return &LinuxShell{}
}

// NewShell creates a new Shell instance for Linux
func NewShell() Shell {
	return NewLinuxShell()
}

// Start runs command as a detached child process
func (l *LinuxShell) Start(command string) error {
	return startDetached(command)
}

// OpenURL opens url in the default browser
func (l *LinuxShell) OpenURL(url string) error {
	if err := browser.OpenURL(url); err != nil {
		return fmt.Errorf("open url %q: %w", url, err)
	}
	return nil
}

// OpenURI passes uri to xdg-open. Windows-only URIs fail here like any unknown scheme.
func (l *LinuxShell) OpenURI(uri string) error {
	return startDetached(`xdg-open "` + uri + `"`)
}

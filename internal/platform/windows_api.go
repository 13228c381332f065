//go:build windows

package platform

import (
	"fmt"
	"strings"

	"golang.org/x/sys/windows"

	apperrors "launchpad/internal/infrastructure/errors"
)

// WindowsShell implements Shell for Windows platform
type WindowsShell struct{}

// NewWindowsShell creates a new Windows shell instance
func NewWindowsShell() *WindowsShell {
	return &WindowsShell{}
}

// NewShell creates a new Shell instance for Windows
func NewShell() Shell {
	return NewWindowsShell()
}

// Start runs command as a detached child process
func (w *WindowsShell) Start(command string) error {
	return startDetached(command)
}

// OpenURL opens url with its registered handler, normally the default browser
func (w *WindowsShell) OpenURL(url string) error {
	return w.shellExecute(url)
}

// OpenURI opens a shell URI such as windowsdefender: or shell:AppsFolder
func (w *WindowsShell) OpenURI(uri string) error {
	return w.shellExecute(uri)
}

// shellExecute hands target to ShellExecuteW with the "open" verb
func (w *WindowsShell) shellExecute(target string) error {
	target = strings.TrimSpace(target)
	if target == "" {
		return apperrors.ErrEmptyTarget
	}

	verb, err := windows.UTF16PtrFromString("open")
	if err != nil {
		return err
	}
	file, err := windows.UTF16PtrFromString(target)
	if err != nil {
		return fmt.Errorf("encode %q: %w", target, err)
	}

	if err := windows.ShellExecute(0, verb, file, nil, nil, windows.SW_SHOWNORMAL); err != nil {
		return fmt.Errorf("shell execute %q: %w", target, err)
	}
	return nil
}

package platform

import (
	"fmt"
	"os/exec"
	"strings"
	"unicode"

	apperrors "launchpad/internal/infrastructure/errors"
)

// Shell defines the interface for platform-specific launch operations.
// Every method returns as soon as the target has been handed to the OS.
type Shell interface {
	// Start runs a command line such as `explorer shell:AppsFolder`
	Start(command string) error
	// OpenURL opens an http(s) URL in the default browser
	OpenURL(url string) error
	// OpenURI hands a shell URI such as `windowsdefender:` to the OS
	OpenURI(uri string) error
}

// SplitCommand splits a command line into argv on whitespace.
// Double quotes group words so paths with spaces survive; the quotes are dropped
// and backslashes are kept literally. An unterminated quote runs to the end.
func SplitCommand(command string) []string {
	var (
		args    []string
		current strings.Builder
		quoted  bool
		inWord  bool
	)

	for _, r := range command {
		switch {
		case r == '"':
			quoted = !quoted
			inWord = true
		case unicode.IsSpace(r) && !quoted:
			if inWord {
				args = append(args, current.String())
				current.Reset()
				inWord = false
			}
		default:
			current.WriteRune(r)
			inWord = true
		}
	}
	if inWord {
		args = append(args, current.String())
	}
	return args
}

// startDetached starts argv without waiting for it; the child is reaped in the background
func startDetached(command string) error {
	argv := SplitCommand(command)
	if len(argv) == 0 {
		return apperrors.ErrEmptyTarget
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %q: %w", argv[0], err)
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

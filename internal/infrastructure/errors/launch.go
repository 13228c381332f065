package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"
)

var (
	// ErrEmptyTarget is returned when a shortcut has nothing to start
	ErrEmptyTarget = errors.New("empty launch target")
	// ErrInvalidURL is returned for website targets that are not absolute http(s) URLs
	ErrInvalidURL = errors.New("invalid url")
)

// Attempt records one target tried while launching a shortcut
type Attempt struct {
	Target string
	Err    error
}

// LaunchError reports that no target of a shortcut could be started
type LaunchError struct {
	Shortcut string
	Attempts []Attempt
	Code     ErrorCode
}

func (e *LaunchError) Error() string {
	if e == nil {
		return "launch error"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "could not open %s", e.Shortcut)
	if last := e.last(); last != nil && last.Err != nil {
		fmt.Fprintf(&b, ": %v", last.Err)
	}
	if len(e.Attempts) > 1 {
		fmt.Fprintf(&b, " (tried %d targets)", len(e.Attempts))
	}
	return b.String()
}

// Unwrap returns the error of the last attempt
func (e *LaunchError) Unwrap() error {
	if last := e.last(); last != nil {
		return last.Err
	}
	return nil
}

func (e *LaunchError) last() *Attempt {
	if e == nil || len(e.Attempts) == 0 {
		return nil
	}
	return &e.Attempts[len(e.Attempts)-1]
}

// GetCode returns the error code as a string (for logging)
func (e *LaunchError) GetCode() string {
	if e == nil {
		return ErrCodeUnknown.String()
	}
	return e.Code.String()
}

// IsRetryable is always false; the user retries by pressing the button again
func (e *LaunchError) IsRetryable() bool {
	return false
}

// GetContext returns the shortcut and the targets tried (for logging)
func (e *LaunchError) GetContext() map[string]string {
	if e == nil {
		return map[string]string{}
	}
	targets := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		targets = append(targets, a.Target)
	}
	return map[string]string{
		"shortcut": e.Shortcut,
		"targets":  strings.Join(targets, " | "),
	}
}

// NewLaunchError builds a LaunchError classified by its last attempt
func NewLaunchError(shortcut string, attempts []Attempt) *LaunchError {
	code := ErrCodeLaunch
	if n := len(attempts); n > 0 {
		code = ClassifyLaunchError(attempts[n-1].Err)
	}
	return &LaunchError{
		Shortcut: shortcut,
		Attempts: attempts,
		Code:     code,
	}
}

// ClassifyLaunchError maps a process/browser start failure to an error code
func ClassifyLaunchError(err error) ErrorCode {
	switch {
	case err == nil:
		return ErrCodeUnknown
	case errors.Is(err, ErrEmptyTarget), errors.Is(err, ErrInvalidURL):
		return ErrCodeValidation
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return ErrCodeNotFound
	case errors.Is(err, fs.ErrPermission):
		return ErrCodePermission
	default:
		return ErrCodeLaunch
	}
}

package launcher

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	apperrors "launchpad/internal/infrastructure/errors"
	"launchpad/internal/infrastructure/logging"
	"launchpad/internal/platform"
)

// Result reports one press of a shortcut
type Result struct {
	ShortcutID string
	Target     string // target that started, or the last one tried
	OK         bool
	Err        error // *errors.LaunchError when OK is false
	Attempts   int
	Duration   time.Duration
}

// Launcher starts shortcuts through a platform shell
type Launcher struct {
	shell  platform.Shell
	logger logging.Logger
}

// New creates a launcher; a nil logger discards dev output
func New(shell platform.Shell, logger logging.Logger) *Launcher {
	if logger == nil {
		logger = logging.NewDevLogger(nil, nil)
	}
	return &Launcher{shell: shell, logger: logger}
}

// Launch tries each target of s until one starts. It never waits on the started program.
func (l *Launcher) Launch(ctx context.Context, s Shortcut) Result {
	start := time.Now()
	result := Result{ShortcutID: s.ID}

	targets := s.Targets
	if len(targets) == 0 {
		targets = []string{""}
	}

	attempts := make([]apperrors.Attempt, 0, len(targets))
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			attempts = append(attempts, apperrors.Attempt{Target: target, Err: err})
			break
		}

		result.Target = target
		err := l.open(s.Kind, target)
		attempts = append(attempts, apperrors.Attempt{Target: target, Err: err})
		if err == nil {
			result.OK = true
			break
		}
		l.logger.Debug("Launch target failed", "shortcut", s.ID, "target", target, "error", err)
	}

	result.Attempts = len(attempts)
	result.Duration = time.Since(start)

	if !result.OK {
		result.Err = apperrors.NewLaunchError(s.DisplayName(), attempts)
		return result
	}

	l.logger.Info(fmt.Sprintf("Opened %s", s.DisplayName()),
		"shortcut", s.ID,
		"target", result.Target,
		"attempts", result.Attempts,
	)
	return result
}

func (l *Launcher) open(kind Kind, target string) error {
	target = strings.TrimSpace(target)
	if target == "" {
		return apperrors.ErrEmptyTarget
	}

	switch kind {
	case KindWebsite:
		if err := ValidateURL(target); err != nil {
			return err
		}
		return l.shell.OpenURL(target)
	case KindShell:
		if IsShellURI(target) {
			return l.shell.OpenURI(target)
		}
		return l.shell.Start(target)
	default:
		return l.shell.Start(target)
	}
}

// ValidateURL accepts only absolute http and https URLs with a host
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidURL, raw)
	}
	return nil
}

// IsShellURI reports whether target is a bare scheme URI such as
// "windowsdefender:" or "shell:AppsFolder". Drive paths like "C:\x" are not URIs.
func IsShellURI(target string) bool {
	if strings.ContainsAny(target, " \t") {
		return false
	}
	scheme, _, found := strings.Cut(target, ":")
	if !found || len(scheme) < 2 {
		return false
	}
	for i, r := range scheme {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if i == 0 && !isLetter {
			return false
		}
		if !isLetter && !(r >= '0' && r <= '9') && r != '+' && r != '-' && r != '.' {
			return false
		}
	}
	return true
}

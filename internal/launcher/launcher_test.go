package launcher

import (
	"context"
	"errors"
	"io/fs"
	"os/exec"
	"strings"
	"sync"
	"testing"

	apperrors "launchpad/internal/infrastructure/errors"
)

// fakeShell records calls and fails targets listed in failures
type fakeShell struct {
	mu       sync.Mutex
	calls    []string
	failures map[string]error
}

func newFakeShell() *fakeShell {
	return &fakeShell{failures: make(map[string]error)}
}

func (f *fakeShell) record(method, target string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, method+" "+target)
	return f.failures[target]
}

func (f *fakeShell) Start(command string) error { return f.record("start", command) }
func (f *fakeShell) OpenURL(url string) error { return f.record("url", url) }
func (f *fakeShell) OpenURI(uri string) error { return f.record("uri", uri) }

// Mock Logger for testing
type mockLogger struct {
	infoCalls  []string
	debugCalls []string
}

func (m *mockLogger) Debug(msg string, fields ...interface{}) { m.debugCalls = append(m.debugCalls, msg) }
func (m *mockLogger) Info(msg string, fields ...interface{}) { m.infoCalls = append(m.infoCalls, msg) }
func (m *mockLogger) Warn(msg string, fields ...interface{}) {}
func (m *mockLogger) Error(msg string, fields ...interface{}) {}

func TestLauncher_DispatchByKind(t *testing.T) {
	catalog := DefaultCatalog()

	tests := []struct {
		id       string
		expected string
	}{
		{"notepad", "start notepad.exe"},
		{"calculator", "start calc.exe"},
		{"bing", "url https://www.bing.com"},
		{"youtube", "url https://www.youtube.com"},
		{"startmenu", "start explorer shell:AppsFolder"},
		{"explorer", "start explorer"},
		{"edge", "start msedge"},
		{"vscode", "start code"},
		{"defender", "uri windowsdefender:"},
		{"moreapps", "start explorer shell:AppsFolder"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			shell := newFakeShell()
			l := New(shell, &mockLogger{})

			s, ok := catalog.Lookup(tt.id)
			if !ok {
				t.Fatalf("Shortcut %q missing from catalog", tt.id)
			}

			result := l.Launch(context.Background(), s)
			if !result.OK {
				t.Fatalf("Launch(%s) failed: %v", tt.id, result.Err)
			}
			if result.Attempts != 1 {
				t.Errorf("Expected 1 attempt, got %d", result.Attempts)
			}
			if len(shell.calls) != 1 || shell.calls[0] != tt.expected {
				t.Errorf("Expected call %q, got %v", tt.expected, shell.calls)
			}
		})
	}
}

func TestLauncher_FallsBackToNextTarget(t *testing.T) {
	shell := newFakeShell()
	shell.failures["code"] = &exec.Error{Name: "code", Err: exec.ErrNotFound}
	logger := &mockLogger{}
	l := New(shell, logger)

	s, _ := DefaultCatalog().Lookup("vscode")
	result := l.Launch(context.Background(), s)

	if !result.OK {
		t.Fatalf("Expected fallback to succeed, got %v", result.Err)
	}
	if result.Attempts != 2 {
		t.Errorf("Expected 2 attempts, got %d", result.Attempts)
	}
	if !strings.Contains(result.Target, "Code.exe") {
		t.Errorf("Expected the fallback target, got %q", result.Target)
	}
	if result.Err != nil {
		t.Errorf("Expected no error, got %v", result.Err)
	}
	if len(logger.infoCalls) != 1 {
		t.Errorf("Expected one launch message, got %d", len(logger.infoCalls))
	}
}

func TestLauncher_AllTargetsFail(t *testing.T) {
	shell := newFakeShell()
	shell.failures["msedge"] = &exec.Error{Name: "msedge", Err: exec.ErrNotFound}
	shell.failures[`"C:\Program Files (x86)\Microsoft\Edge\Application\msedge.exe"`] =
		&fs.PathError{Op: "fork/exec", Path: "msedge.exe", Err: fs.ErrPermission}
	l := New(shell, nil)

	s, _ := DefaultCatalog().Lookup("edge")
	result := l.Launch(context.Background(), s)

	if result.OK {
		t.Fatal("Expected launch to fail")
	}
	if result.Attempts != 2 {
		t.Errorf("Expected 2 attempts, got %d", result.Attempts)
	}

	var launchErr *apperrors.LaunchError
	if !errors.As(result.Err, &launchErr) {
		t.Fatalf("Expected *LaunchError, got %T", result.Err)
	}
	if launchErr.Code != apperrors.ErrCodePermission {
		t.Errorf("Expected code from last failure (PERMISSION), got %s", launchErr.Code)
	}
	if len(launchErr.Attempts) != 2 {
		t.Errorf("Expected both attempts recorded, got %d", len(launchErr.Attempts))
	}
	if !strings.Contains(result.Err.Error(), "could not open Microsoft Edge") {
		t.Errorf("Expected label in message, got %q", result.Err.Error())
	}
}

func TestLauncher_InvalidInputs(t *testing.T) {
	tests := []struct {
		name     string
		shortcut Shortcut
	}{
		{"no targets", Shortcut{ID: "none", Label: "None", Kind: KindApp}},
		{"blank target", Shortcut{ID: "blank", Label: "Blank", Kind: KindApp, Targets: []string{"  "}}},
		{"bad url", Shortcut{ID: "bad", Label: "Bad", Kind: KindWebsite, Targets: []string{"notaurl"}}},
		{"ftp url", Shortcut{ID: "ftp", Label: "Ftp", Kind: KindWebsite, Targets: []string{"ftp://x.test"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shell := newFakeShell()
			result := New(shell, nil).Launch(context.Background(), tt.shortcut)

			if result.OK {
				t.Fatal("Expected failure")
			}
			if !apperrors.IsValidation(result.Err) {
				t.Errorf("Expected validation error, got %v", result.Err)
			}
			if len(shell.calls) != 0 {
				t.Errorf("Shell should not be called, got %v", shell.calls)
			}
		})
	}
}

func TestLauncher_CancelledContext(t *testing.T) {
	shell := newFakeShell()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, _ := DefaultCatalog().Lookup("notepad")
	result := New(shell, nil).Launch(ctx, s)

	if result.OK {
		t.Fatal("Expected cancelled launch to fail")
	}
	if !errors.Is(result.Err, context.Canceled) {
		t.Errorf("Expected context.Canceled in chain, got %v", result.Err)
	}
	if len(shell.calls) != 0 {
		t.Errorf("Shell should not be called, got %v", shell.calls)
	}
}

func TestIsShellURI(t *testing.T) {
	tests := map[string]bool{
		"windowsdefender:":          true,
		"shell:AppsFolder":          true,
		"ms-settings:display":       true,
		`C:\Windows\notepad.exe`:    false,
		"explorer shell:AppsFolder": false,
		"notepad.exe":               false,
		"1abc:":                     false,
		"":                          false,
	}

	for target, expected := range tests {
		if got := IsShellURI(target); got != expected {
			t.Errorf("IsShellURI(%q) = %v, want %v", target, got, expected)
		}
	}
}

func TestValidateURL(t *testing.T) {
	valid := []string{"https://www.bing.com", "http://localhost:8080/x"}
	for _, u := range valid {
		if err := ValidateURL(u); err != nil {
			t.Errorf("ValidateURL(%q) = %v", u, err)
		}
	}

	invalid := []string{"", "www.bing.com", "https://", "javascript:alert(1)", "://x"}
	for _, u := range invalid {
		err := ValidateURL(u)
		if !errors.Is(err, apperrors.ErrInvalidURL) {
			t.Errorf("ValidateURL(%q) = %v, want ErrInvalidURL", u, err)
		}
	}
}

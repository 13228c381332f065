package app

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"launchpad/internal/config"
	"launchpad/internal/testutils"
	"launchpad/internal/types"
)

type dialog struct {
	title   string
	message string
}

type event struct {
	name string
	data interface{}
}

// fakeUI records what the app asks of the desktop runtime
type fakeUI struct {
	mu       sync.Mutex
	dialogs  []dialog
	events   []event
	quits    int
	placedAt [2]int
	placeErr error
}

func (f *fakeUI) ShowError(title, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dialogs = append(f.dialogs, dialog{title, message})
}

func (f *fakeUI) Emit(name string, data interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event{name, data})
}

func (f *fakeUI) Quit() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quits++
}

func (f *fakeUI) PlaceWindow(width, height int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.placedAt = [2]int{width, height}
	return f.placeErr
}

func (f *fakeUI) countEvents(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.events {
		if e.name == name {
			n++
		}
	}
	return n
}

func (f *fakeUI) dialogsCopy() []dialog {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]dialog(nil), f.dialogs...)
}

// fakeShell fails any target listed in fail
type fakeShell struct {
	mu    sync.Mutex
	fail  map[string]error
	calls []string
}

func (s *fakeShell) do(target string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, target)
	return s.fail[target]
}

func (s *fakeShell) Start(command string) error { return s.do(command) }
func (s *fakeShell) OpenURL(url string) error { return s.do(url) }
func (s *fakeShell) OpenURI(uri string) error { return s.do(uri) }

type logEntry struct {
	level  string
	msg    string
	fields []interface{}
}

// recordingLogger keeps every entry for inspection
type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) add(level, msg string, fields []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level, msg, fields})
}

func (l *recordingLogger) Debug(msg string, fields ...interface{}) { l.add("debug", msg, fields) }
func (l *recordingLogger) Info(msg string, fields ...interface{}) { l.add("info", msg, fields) }
func (l *recordingLogger) Warn(msg string, fields ...interface{}) { l.add("warn", msg, fields) }
func (l *recordingLogger) Error(msg string, fields ...interface{}) { l.add("error", msg, fields) }

func (l *recordingLogger) find(msg string) (logEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.msg == msg {
			return e, true
		}
	}
	return logEntry{}, false
}

func (l *recordingLogger) hasPrefix(level, prefix string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.level == level && strings.HasPrefix(e.msg, prefix) {
			return true
		}
	}
	return false
}

type testApp struct {
	*App
	dir    string
	ui     *fakeUI
	shell  *fakeShell
	logger *recordingLogger
}

func newTestApp(t *testing.T, modify func(c *config.Config)) *testApp {
	t.Helper()

	dir := t.TempDir()
	cfg := config.ForEnvironment(config.EnvironmentTest, dir)
	if modify != nil {
		modify(cfg)
	}

	ui := &fakeUI{}
	shell := &fakeShell{fail: map[string]error{}}
	logger := &recordingLogger{}

	a, err := NewAppWithDeps(cfg, Deps{UI: ui, Shell: shell, Logger: logger})
	if err != nil {
		t.Fatalf("NewAppWithDeps() error = %v", err)
	}
	return &testApp{App: a, dir: dir, ui: ui, shell: shell, logger: logger}
}

func (ta *testApp) start(t *testing.T) {
	t.Helper()
	ta.Startup(context.Background())
	t.Cleanup(func() { ta.Shutdown(context.Background()) })
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestPlacementFor(t *testing.T) {
	tests := []struct {
		sw, sh, w, h int
		x, y         int
	}{
		{1920, 1080, 400, 300, 1510, 730},
		{1366, 768, 400, 300, 956, 418},
		{400, 300, 400, 300, -10, -50},
	}

	for _, tt := range tests {
		x, y := PlacementFor(tt.sw, tt.sh, tt.w, tt.h)
		if x != tt.x || y != tt.y {
			t.Errorf("PlacementFor(%d, %d, %d, %d) = (%d, %d), want (%d, %d)",
				tt.sw, tt.sh, tt.w, tt.h, x, y, tt.x, tt.y)
		}
	}
}

func TestNewAppWithDeps_InvalidConfig(t *testing.T) {
	if _, err := NewAppWithDeps(nil, Deps{}); err == nil {
		t.Error("Expected error for nil config")
	}

	cfg := config.ForEnvironment(config.EnvironmentTest, t.TempDir())
	cfg.LogLevel = "loud"
	if _, err := NewAppWithDeps(cfg, Deps{UI: &fakeUI{}, Shell: &fakeShell{}}); err == nil {
		t.Error("Expected error for invalid log level")
	}
}

func TestStartup_DefaultsAndPlacement(t *testing.T) {
	ta := newTestApp(t, nil)
	ta.start(t)

	if ta.ui.placedAt != [2]int{400, 300} {
		t.Errorf("Window placed at size %v, want 400x300", ta.ui.placedAt)
	}

	state := ta.GetState()
	if state.Username != "User" || state.Background != "skyblue" || state.DevMode {
		t.Errorf("Unexpected default state %+v", state)
	}
	if state.Greeting == "" || !strings.HasSuffix(state.Greeting, " ") {
		t.Errorf("Greeting should be a salutation with trailing space, got %q", state.Greeting)
	}
	if state.Clock.Date == "" || state.Clock.Time == "" {
		t.Errorf("Clock should be filled, got %+v", state.Clock)
	}

	if got := len(state.Groups["main"]); got != 6 {
		t.Errorf("Expected 6 main shortcuts, got %d", got)
	}
	if got := len(state.Groups["extra"]); got != 3 {
		t.Errorf("Expected 3 extra shortcuts, got %d", got)
	}
	if bottom := state.Groups["bottom"]; len(bottom) != 1 || bottom[0].Label != "See More Apps" {
		t.Errorf("Unexpected bottom group %+v", bottom)
	}
}

func TestStartup_PlacementFailureIsNotFatal(t *testing.T) {
	ta := newTestApp(t, nil)
	ta.ui.placeErr = os.ErrNotExist
	ta.start(t)

	if _, ok := ta.logger.find("Could not place window"); !ok {
		t.Error("Expected placement failure to be logged")
	}
}

func TestStartup_EmitsClockTicks(t *testing.T) {
	ta := newTestApp(t, nil)
	ta.start(t)

	deadline := time.Now().Add(3 * time.Second)
	for ta.ui.countEvents(EventClockTick) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("Expected a clock tick event after startup")
		}
		time.Sleep(10 * time.Millisecond)
	}

	ta.ui.mu.Lock()
	var tick types.ClockTick
	for _, e := range ta.ui.events {
		if e.name == EventClockTick {
			tick = e.data.(types.ClockTick)
			break
		}
	}
	ta.ui.mu.Unlock()

	if tick.Date == "" || tick.Time == "" || tick.Greeting == "" {
		t.Errorf("Incomplete tick %+v", tick)
	}
}

func TestStartup_LoadsSettingsAndUsernameFallback(t *testing.T) {
	tests := []struct {
		name         string
		settings     string
		usernameFile string
		wantName     string
		wantColor    string
	}{
		{"username file fills default", "bgcolor=#101010\n", "Zed\n", "Zed", "#101010"},
		{"settings win over username file", "username=Ann\n", "Zed", "Ann", "skyblue"},
		{"blank username file", "", "   ", "User", "skyblue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApp(t, nil)
			writeFile(t, filepath.Join(ta.dir, "settings.txt"), tt.settings)
			writeFile(t, filepath.Join(ta.dir, "username.txt"), tt.usernameFile)
			ta.start(t)

			state := ta.GetState()
			if state.Username != tt.wantName {
				t.Errorf("Username = %q, want %q", state.Username, tt.wantName)
			}
			if state.Background != tt.wantColor {
				t.Errorf("Background = %q, want %q", state.Background, tt.wantColor)
			}
		})
	}
}

func TestSaveSettings(t *testing.T) {
	ta := newTestApp(t, nil)
	ta.start(t)

	state := ta.SaveSettings("  Dana ", "#abcdef", true)
	if state.Username != "Dana" || state.Background != "#abcdef" || !state.DevMode {
		t.Fatalf("Unexpected state after save %+v", state)
	}

	data, err := os.ReadFile(filepath.Join(ta.dir, "settings.txt"))
	if err != nil {
		t.Fatalf("settings.txt not written: %v", err)
	}
	want := "bgcolor=#abcdef\ndevmode=on\nusername=Dana\n"
	if string(data) != want {
		t.Errorf("settings.txt = %q, want %q", string(data), want)
	}

	name, err := os.ReadFile(filepath.Join(ta.dir, "username.txt"))
	if err != nil || string(name) != "Dana" {
		t.Errorf("username.txt = %q, %v; want Dana", string(name), err)
	}

	state = ta.SaveSettings("", "", false)
	if state.Username != "Dana" || state.Background != "#abcdef" || state.DevMode {
		t.Errorf("Blank fields should be ignored, got %+v", state)
	}
}

func TestSaveSettings_WriteFailureKeepsSession(t *testing.T) {
	ta := newTestApp(t, func(c *config.Config) {
		c.SettingsFile = filepath.Join(c.DataDir, "missing", "settings.txt")
	})
	ta.start(t)

	state := ta.SaveSettings("Eli", "", false)
	if state.Username != "Eli" {
		t.Errorf("In-memory username should update, got %q", state.Username)
	}
	if !ta.logger.hasPrefix("error", "SaveSettings failed") {
		t.Error("Expected the save failure to be logged")
	}
	if len(ta.ui.dialogsCopy()) != 0 {
		t.Error("A save failure should not raise a dialog")
	}
}

func TestDevModeGatesLogging(t *testing.T) {
	ta := newTestApp(t, nil)
	ta.start(t)

	ta.Close()
	if _, ok := ta.logger.find("Window closed"); ok {
		t.Error("Dev messages should be silent with devmode off")
	}

	ta.SaveSettings("", "", true)
	entry, ok := ta.logger.find("Dev Mode set to on")
	if !ok {
		t.Fatal("Expected dev message once devmode is on")
	}
	if entry.level != "info" {
		t.Errorf("Dev messages should log at info, got %s", entry.level)
	}

	ta.Close()
	if _, ok := ta.logger.find("Window closed"); !ok {
		t.Error("Expected Window closed with devmode on")
	}
	if ta.ui.quits != 2 {
		t.Errorf("Close should quit each time, got %d", ta.ui.quits)
	}
}

func TestStartup_DevLogFields(t *testing.T) {
	ta := newTestApp(t, nil)
	writeFile(t, filepath.Join(ta.dir, "settings.txt"), "devmode=on\n")
	ta.start(t)

	entry, ok := ta.logger.find("Launchpad started")
	if !ok {
		t.Fatal("Expected startup message in dev mode")
	}
	fields := testutils.FieldsToMap(t, entry.fields)
	if fields["environment"] != "test" {
		t.Errorf("environment field = %v, want test", fields["environment"])
	}
}

func TestLaunch_Success(t *testing.T) {
	ta := newTestApp(t, nil)
	ta.start(t)

	outcome := ta.Launch("bing")
	if !outcome.OK || outcome.Target != "https://www.bing.com" || outcome.Attempts != 1 {
		t.Errorf("Unexpected outcome %+v", outcome)
	}
	if len(ta.ui.dialogsCopy()) != 0 {
		t.Error("A successful launch should not show a dialog")
	}

	recent, err := ta.GetRecentLaunches(10)
	if err != nil {
		t.Fatalf("GetRecentLaunches() error = %v", err)
	}
	if len(recent) != 1 || recent[0].ShortcutID != "bing" || !recent[0].OK {
		t.Errorf("Unexpected history %+v", recent)
	}

	stats, err := ta.GetLaunchStats(10)
	if err != nil || len(stats) != 1 || stats[0].Count != 1 {
		t.Errorf("GetLaunchStats() = %+v, %v", stats, err)
	}
}

func TestLaunch_FallbackTarget(t *testing.T) {
	ta := newTestApp(t, nil)
	ta.shell.fail["msedge"] = &exec.Error{Name: "msedge", Err: exec.ErrNotFound}
	ta.start(t)

	outcome := ta.Launch("edge")
	if !outcome.OK || outcome.Attempts != 2 {
		t.Errorf("Expected success on the second target, got %+v", outcome)
	}
	if len(ta.ui.dialogsCopy()) != 0 {
		t.Error("A fallback success should not show a dialog")
	}
}

func TestLaunch_FailureShowsDialog(t *testing.T) {
	ta := newTestApp(t, nil)
	ta.shell.fail["notepad.exe"] = &exec.Error{Name: "notepad.exe", Err: exec.ErrNotFound}
	ta.start(t)

	outcome := ta.Launch("notepad")
	if outcome.OK {
		t.Fatal("Expected failure")
	}

	dialogs := ta.ui.dialogsCopy()
	if len(dialogs) != 1 {
		t.Fatalf("Expected one dialog, got %d", len(dialogs))
	}
	if dialogs[0].title != "Error" {
		t.Errorf("Dialog title = %q, want Error", dialogs[0].title)
	}
	if !strings.HasPrefix(dialogs[0].message, "Could not open Notepad") {
		t.Errorf("Dialog message = %q", dialogs[0].message)
	}
	if outcome.Error != dialogs[0].message {
		t.Errorf("Outcome error %q should match dialog %q", outcome.Error, dialogs[0].message)
	}

	recent, err := ta.GetRecentLaunches(10)
	if err != nil || len(recent) != 1 || recent[0].OK {
		t.Errorf("Failed launch should be recorded, got %+v, %v", recent, err)
	}
}

func TestLaunch_UnknownShortcut(t *testing.T) {
	ta := newTestApp(t, nil)
	ta.start(t)

	outcome := ta.Launch("minesweeper")
	if outcome.OK || !strings.HasPrefix(outcome.Error, "Unknown shortcut") {
		t.Errorf("Unexpected outcome %+v", outcome)
	}
	if len(ta.shell.calls) != 0 {
		t.Errorf("Shell should not be called, got %v", ta.shell.calls)
	}
}

func TestHistoryDisabled(t *testing.T) {
	ta := newTestApp(t, func(c *config.Config) { c.History = false })
	ta.start(t)

	if outcome := ta.Launch("calculator"); !outcome.OK {
		t.Fatalf("Launch() failed: %+v", outcome)
	}

	recent, err := ta.GetRecentLaunches(10)
	if err != nil || len(recent) != 0 {
		t.Errorf("GetRecentLaunches() = %+v, %v; want empty", recent, err)
	}
}

func TestShutdown_Idempotent(t *testing.T) {
	ta := newTestApp(t, nil)
	ta.Startup(context.Background())

	ta.Shutdown(context.Background())
	ta.Shutdown(context.Background())

	if ta.clock.Running() {
		t.Error("Clock should be stopped after shutdown")
	}
	if ta.BeforeClose(context.Background()) {
		t.Error("BeforeClose should never prevent closing")
	}
}

func TestCapitalize(t *testing.T) {
	tests := map[string]string{
		"":                    "",
		"could not open Bing": "Could not open Bing",
		"Already":             "Already",
		"éclair":              "Éclair",
	}
	for in, want := range tests {
		if got := capitalize(in); got != want {
			t.Errorf("capitalize(%q) = %q, want %q", in, got, want)
		}
	}
}

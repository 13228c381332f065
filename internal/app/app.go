package app

import (
	"context"
	"fmt"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"launchpad/internal/config"
	"launchpad/internal/database"
	"launchpad/internal/greeting"
	"launchpad/internal/infrastructure/errors"
	"launchpad/internal/infrastructure/logging"
	"launchpad/internal/launcher"
	"launchpad/internal/platform"
	"launchpad/internal/repository"
	"launchpad/internal/services"
	"launchpad/internal/settings"
	"launchpad/internal/types"
)

const (
	WindowWidth  = 400
	WindowHeight = 300

	EventClockTick       = "clock:tick"
	EventPreviewsUpdated = "previews:updated"

	errorDialogTitle = "Error"

	shutdownTimeout = 10 * time.Second
)

// Deps overrides the pieces of the app that touch the desktop. Nil fields use the real ones.
type Deps struct {
	UI     UI
	Shell  platform.Shell
	Logger logging.Logger
}

// App struct represents the main application
type App struct {
	ctx    context.Context
	cfg    *config.Config
	logger logging.Logger
	dev    *logging.DevLogger
	ui     UI

	mu        sync.RWMutex
	settings  settings.Settings
	store     *settings.Store
	usernames *settings.UsernameStore

	catalog   *launcher.Catalog
	launches  *services.LaunchService
	clock     *services.Clock
	previews  *services.LinkPreviewer
	dbService database.Service

	previewCancel context.CancelFunc
	previewDone   chan struct{}
}

// NewAppWithDeps creates the application with dependency injection.
// A history database that fails to open is logged and the app runs without history.
func NewAppWithDeps(cfg *config.Config, deps Deps) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := deps.Logger
	if logger == nil {
		logger = logging.NewLogger(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	}
	errors.SetRetryLogger(errors.NewLoggerBridge(logger))

	a := &App{
		ctx:       context.Background(),
		cfg:       cfg,
		logger:    logger,
		ui:        deps.UI,
		settings:  settings.Defaults(),
		store:     settings.NewStore(cfg.SettingsFile, logger),
		usernames: settings.NewUsernameStore(cfg.UsernameFile, logger),
		catalog:   launcher.DefaultCatalog(),
	}
	a.dev = logging.NewDevLogger(logger, a.devMode)

	shell := deps.Shell
	if shell == nil {
		shell = platform.NewShell()
	}

	var repo repository.LaunchRepository
	if cfg.History {
		if r, err := a.openHistory(); err != nil {
			logging.LogError(logger, err, "OpenHistory", map[string]interface{}{
				"db_path": cfg.Database.Path,
			})
			logger.Warn("Continuing without launch history")
		} else {
			repo = r
		}
	}

	a.launches = services.NewLaunchService(a.catalog, launcher.New(shell, a.dev), repo, logger)
	a.clock = services.NewClock(a.onTick, a.dev)
	if cfg.LinkPreviews {
		a.previews = services.NewLinkPreviewer(cfg.PreviewTimeout, logger)
	}

	return a, nil
}

func (a *App) openHistory() (repository.LaunchRepository, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbService := database.NewSQLiteService(a.logger)
	if err := dbService.Connect(ctx, a.cfg.Database); err != nil {
		return nil, err
	}
	if a.cfg.Database.AutoMigrate {
		if err := dbService.Migrate(ctx); err != nil {
			dbService.Close()
			return nil, err
		}
	}

	a.dbService = dbService
	return repository.NewSQLiteRepository(dbService, a.logger), nil
}

func (a *App) devMode() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.settings.DevMode()
}

// Startup is called at application startup
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx
	if a.ui == nil {
		a.ui = NewWailsUI(ctx)
	}

	a.loadSettings()

	if err := a.ui.PlaceWindow(WindowWidth, WindowHeight); err != nil {
		a.logger.Warn("Could not place window", "error", err)
	}

	a.cleanupHistory(ctx)
	a.clock.Start()
	a.startPreviews(ctx)

	a.dev.Log("Launchpad started", "environment", a.cfg.Environment)
}

// loadSettings reads settings.txt, filling the default username from username.txt
func (a *App) loadSettings() {
	s := a.store.Load()
	if s.Username() == settings.DefaultUsername {
		s.SetUsername(a.usernames.Load())
	}

	a.mu.Lock()
	a.settings = s
	a.mu.Unlock()

	a.dev.Log("Settings loaded", "path", a.store.Path(), "greeting", greeting.At(time.Now(), s.Username()))
}

func (a *App) cleanupHistory(ctx context.Context) {
	if a.dbService == nil {
		return
	}
	cutoff, ok := a.cfg.Database.RetentionCutoff(time.Now())
	if !ok {
		return
	}

	deleted, err := a.launches.CleanupOldData(ctx, cutoff)
	if err != nil {
		logging.LogError(a.logger, err, "CleanupHistory", map[string]interface{}{
			"retention_days": a.cfg.Database.RetentionDays,
		})
		return
	}
	if deleted == 0 {
		return
	}

	a.logger.Info("Removed old launch history", "rows", deleted)
	if err := a.dbService.Optimize(ctx); err != nil {
		a.logger.Warn("Database optimize failed", "error", err)
	}
}

func (a *App) startPreviews(ctx context.Context) {
	if a.previews == nil {
		return
	}

	previewCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	a.previewCancel = cancel
	a.previewDone = done

	go func() {
		defer close(done)
		n := a.previews.FetchAll(previewCtx, services.WebsiteURLs(a.catalog))
		if n > 0 && previewCtx.Err() == nil {
			a.ui.Emit(EventPreviewsUpdated, a.groups())
		}
		a.dev.Log("Link previews fetched", "count", n)
	}()
}

func (a *App) stopPreviews() {
	if a.previewCancel == nil {
		return
	}
	a.previewCancel()
	<-a.previewDone
	a.previewCancel = nil
}

func (a *App) onTick(tick types.ClockTick) {
	if a.ui != nil {
		a.ui.Emit(EventClockTick, tick)
	}
}

// DomReady is called after front-end resources have been loaded
func (a *App) DomReady(ctx context.Context) {
	a.dev.Log("Frontend ready")
}

// BeforeClose is called when the application is about to quit
func (a *App) BeforeClose(ctx context.Context) (prevent bool) {
	return false
}

// Shutdown is called at application termination
func (a *App) Shutdown(ctx context.Context) {
	a.clock.Stop()
	a.stopPreviews()

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := a.closeDatabaseConnection(shutdownCtx); err != nil {
		logging.LogError(a.logger, err, "Shutdown", nil)
	}
	a.dev.Log("Launchpad stopped")
}

// closeDatabaseConnection closes the history database, giving up when ctx ends
func (a *App) closeDatabaseConnection(ctx context.Context) error {
	if a.dbService == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- a.dbService.Close()
	}()

	select {
	case err := <-done:
		if err != nil {
			return errors.NewRepositoryErrorWithContext("shutdown",
				err,
				errors.ClassifyError(err),
				map[string]string{
					"operation": "close_connection",
				})
		}
		return nil
	case <-ctx.Done():
		return errors.NewRepositoryError("shutdown", ctx.Err(), errors.ErrCodeTimeout)
	}
}

// GetState returns everything the panel draws
func (a *App) GetState() types.PanelState {
	a.mu.RLock()
	s := a.settings.Clone()
	a.mu.RUnlock()

	tick := a.clock.Now()
	return types.PanelState{
		Greeting:   tick.Greeting,
		Username:   s.Username(),
		Background: s.BackgroundColor(),
		DevMode:    s.DevMode(),
		Groups:     a.groups(),
		Clock:      tick,
	}
}

func (a *App) groups() map[string][]types.ShortcutView {
	out := make(map[string][]types.ShortcutView)
	for _, name := range a.catalog.Groups() {
		shortcuts := a.catalog.Group(name)
		views := make([]types.ShortcutView, 0, len(shortcuts))
		for _, s := range shortcuts {
			view := types.ShortcutView{ID: s.ID, Label: s.Label, Kind: string(s.Kind)}
			if a.previews != nil && s.Kind == launcher.KindWebsite && len(s.Targets) > 0 {
				view.Title, _ = a.previews.Title(s.Targets[0])
			}
			views = append(views, view)
		}
		out[name] = views
	}
	return out
}

// SaveSettings applies the settings dialog. Blank username or colour leave the old value.
// A failed write is logged; the new values stay in effect for this session.
func (a *App) SaveSettings(username, bgcolor string, devmode bool) types.PanelState {
	a.mu.Lock()
	nameChanged := a.settings.SetUsername(username)
	colorChanged := a.settings.SetBackgroundColor(bgcolor)
	a.settings.SetDevMode(devmode)
	snapshot := a.settings.Clone()
	a.mu.Unlock()

	if nameChanged {
		a.dev.Log(fmt.Sprintf("Username changed to %s", snapshot.Username()))
	}
	if colorChanged {
		a.dev.Log(fmt.Sprintf("Background color changed to %s", snapshot.BackgroundColor()))
	}

	if err := a.store.Save(snapshot); err == nil {
		_ = a.usernames.Save(snapshot.Username())
	}
	a.dev.Log(fmt.Sprintf("Dev Mode set to %s", snapshot[settings.KeyDevMode]))

	return a.GetState()
}

// Launch presses the shortcut with the given id. Failures also raise an error dialog.
func (a *App) Launch(id string) types.LaunchOutcome {
	result := a.launches.Launch(a.ctx, id)

	outcome := types.LaunchOutcome{
		ShortcutID: result.ShortcutID,
		Target:     result.Target,
		OK:         result.OK,
		Attempts:   result.Attempts,
	}
	if result.Err != nil {
		outcome.Error = capitalize(result.Err.Error())
		if a.ui != nil {
			a.ui.ShowError(errorDialogTitle, outcome.Error)
		}
	}
	return outcome
}

// GetLaunchStats returns successful launch counts, most used first
func (a *App) GetLaunchStats(limit int) ([]types.LaunchCount, error) {
	return a.launches.Stats(a.ctx, limit)
}

// GetRecentLaunches returns the newest launch history rows
func (a *App) GetRecentLaunches(limit int) ([]types.LaunchRecord, error) {
	return a.launches.Recent(a.ctx, limit)
}

// Close quits the launchpad
func (a *App) Close() {
	a.dev.Log("Window closed")
	if a.ui != nil {
		a.ui.Quit()
	}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

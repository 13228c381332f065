package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	apperrors "launchpad/internal/infrastructure/errors"
	"launchpad/internal/infrastructure/logging"
	"launchpad/internal/launcher"
	"launchpad/internal/repository"
	"launchpad/internal/types"
)

// ErrUnknownShortcut is returned when an id is not in the catalog
var ErrUnknownShortcut = errors.New("unknown shortcut")

// LaunchService presses shortcut buttons and keeps their history
type LaunchService struct {
	catalog  *launcher.Catalog
	launcher *launcher.Launcher
	repo     repository.LaunchRepository
	logger   logging.Logger

	mu                 sync.RWMutex
	persistenceEnabled bool
}

// NewLaunchService wires a catalog and launcher to an optional history repository.
// With a nil repo every launch still works and nothing is recorded.
func NewLaunchService(catalog *launcher.Catalog, l *launcher.Launcher, repo repository.LaunchRepository, logger logging.Logger) *LaunchService {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &LaunchService{
		catalog:            catalog,
		launcher:           l,
		repo:               repo,
		logger:             logger,
		persistenceEnabled: repo != nil,
	}
}

// Catalog returns the shortcuts this service launches
func (s *LaunchService) Catalog() *launcher.Catalog {
	return s.catalog
}

// Launch starts the shortcut with the given id and records the outcome
func (s *LaunchService) Launch(ctx context.Context, id string) launcher.Result {
	shortcut, ok := s.catalog.Lookup(id)
	if !ok {
		err := fmt.Errorf("%w: %q", ErrUnknownShortcut, id)
		s.logger.Warn("Launch requested for unknown shortcut", "shortcut", id)
		return launcher.Result{ShortcutID: id, Err: err}
	}

	result := s.launcher.Launch(ctx, shortcut)
	if result.Err != nil {
		logging.LogError(s.logger, result.Err, "Launch", map[string]interface{}{
			"shortcut": id,
			"attempts": result.Attempts,
		})
	}

	s.record(ctx, result)
	return result
}

func (s *LaunchService) record(ctx context.Context, result launcher.Result) {
	if !s.IsPersistenceEnabled() {
		return
	}

	rec := &types.LaunchRecord{
		ShortcutID: result.ShortcutID,
		Target:     result.Target,
		OK:         result.OK,
		LaunchedAt: time.Now(),
	}
	if result.Err != nil {
		rec.Error = result.Err.Error()
	}

	if err := s.repo.RecordLaunch(ctx, rec); err != nil {
		s.logger.Warn("Failed to record launch", "shortcut", result.ShortcutID, "error", err)
	}
}

// Stats returns successful launch counts per shortcut, most used first
func (s *LaunchService) Stats(ctx context.Context, limit int) ([]types.LaunchCount, error) {
	if s.repo == nil {
		return []types.LaunchCount{}, nil
	}
	return s.repo.LaunchCounts(ctx, limit)
}

// Recent returns the newest launch records
func (s *LaunchService) Recent(ctx context.Context, limit int) ([]types.LaunchRecord, error) {
	if s.repo == nil {
		return []types.LaunchRecord{}, nil
	}
	return s.repo.RecentLaunches(ctx, limit)
}

// CleanupOldData removes history launched before cutoff
func (s *LaunchService) CleanupOldData(ctx context.Context, cutoff time.Time) (int64, error) {
	if s.repo == nil {
		return 0, apperrors.NewRepositoryError("CleanupOldData", errors.New("no history store"), apperrors.ErrCodeConnection)
	}
	return s.repo.DeleteOlderThan(ctx, cutoff)
}

// SetPersistenceEnabled turns history recording on or off; it stays off without a repository
func (s *LaunchService) SetPersistenceEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persistenceEnabled = enabled && s.repo != nil
}

// IsPersistenceEnabled returns whether launches are being recorded
func (s *LaunchService) IsPersistenceEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persistenceEnabled
}

package repository

import (
	"context"
	"time"

	"launchpad/internal/types"
)

// LaunchRepository persists the history of shortcut launches
type LaunchRepository interface {
	// RecordLaunch stores one launch attempt and fills in its ID (and LaunchedAt when zero)
	RecordLaunch(ctx context.Context, record *types.LaunchRecord) error

	// RecentLaunches returns the newest records first
	RecentLaunches(ctx context.Context, limit int) ([]types.LaunchRecord, error)

	// LaunchCounts returns successful launches per shortcut, most used first
	LaunchCounts(ctx context.Context, limit int) ([]types.LaunchCount, error)

	// DeleteOlderThan removes records launched before cutoff and reports how many went
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// WithTransaction runs fn against a repository bound to a single transaction
	WithTransaction(ctx context.Context, fn func(repo LaunchRepository) error) error
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"launchpad/internal/database"
	"launchpad/internal/database/queries"
	repoerrors "launchpad/internal/infrastructure/errors"
	"launchpad/internal/infrastructure/logging"
)

const (
	DefaultQueryLimit = 50
	MaxQueryLimit     = 1000
)

// SQLiteRepository implements LaunchRepository on top of the database service
type SQLiteRepository struct {
	db          *sql.DB
	queries     *queries.Queries
	retryConfig *repoerrors.RetryConfig
	logger      logging.Logger
}

var _ LaunchRepository = (*SQLiteRepository)(nil)

// NewSQLiteRepository creates a new SQLite repository instance
func NewSQLiteRepository(dbService database.Service, logger logging.Logger) *SQLiteRepository {
	return NewSQLiteRepositoryWithConfig(dbService, nil, logger)
}

// NewSQLiteRepositoryWithConfig creates a repository with a custom retry policy
func NewSQLiteRepositoryWithConfig(dbService database.Service, retryConfig *repoerrors.RetryConfig, logger logging.Logger) *SQLiteRepository {
	if retryConfig == nil {
		retryConfig = repoerrors.DefaultRetryConfig()
	}
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	return &SQLiteRepository{
		db:          dbService.DB(),
		queries:     dbService.GetQueries(),
		retryConfig: retryConfig,
		logger:      logger,
	}
}

// NewSQLiteRepositoryWithPreparedQueries creates a repository that reuses the service's prepared statements
func NewSQLiteRepositoryWithPreparedQueries(ctx context.Context, dbService database.Service, logger logging.Logger) (*SQLiteRepository, error) {
	prepared, err := dbService.GetPreparedQueries(ctx)
	if err != nil {
		return nil, fmt.Errorf("NewSQLiteRepositoryWithPreparedQueries: failed to get prepared queries from database service: %w", err)
	}

	repo := NewSQLiteRepository(dbService, logger)
	repo.queries = prepared
	return repo, nil
}

// normalizeLimit maps non-positive limits to the default and caps the rest
func normalizeLimit(limit int) int64 {
	switch {
	case limit <= 0:
		return DefaultQueryLimit
	case limit > MaxQueryLimit:
		return MaxQueryLimit
	default:
		return int64(limit)
	}
}

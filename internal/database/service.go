package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"launchpad/internal/database/queries"
	dberrors "launchpad/internal/infrastructure/errors"
	"launchpad/internal/infrastructure/logging"
)

// SQLiteService implements Service over go-sqlite3.
//
// Lifecycle: NewSQLiteService, Connect, Migrate, then GetQueries or
// GetPreparedQueries for repositories, and Close when the app shuts down.
type SQLiteService struct {
	mu         sync.RWMutex
	db         *sql.DB
	config     *Config
	migrations MigrationManager
	queries    *queries.Queries
	prepared   *queries.Queries
	logger     logging.Logger
}

var _ Service = (*SQLiteService)(nil)

// NewSQLiteService creates a new SQLite database service
func NewSQLiteService(logger logging.Logger) *SQLiteService {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &SQLiteService{logger: logger}
}

// Connect opens the database described by config, replacing any previous connection
func (s *SQLiteService) Connect(ctx context.Context, config *Config) error {
	if config == nil {
		return dberrors.HandleValidationError("Connect", "config", "nil", "configuration is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		if err := s.closeLocked(); err != nil {
			s.logger.Error("Failed to close existing database connection", "error", err)
		}
	}

	db, err := sql.Open("sqlite3", config.GetConnectionString())
	if err != nil {
		return dberrors.HandleConnectionError("Connect", fmt.Sprintf("failed to open database: %v", err))
	}
	s.configurePool(db, config)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return dberrors.HandleConnectionError("Connect", fmt.Sprintf("failed to ping database: %v", err))
	}

	s.db = db
	s.config = config
	s.queries = queries.New(db)
	s.migrations = NewMigrationRunner(db, s.logger)

	s.logger.Info("Connected to SQLite database", "path", config.Path)
	return nil
}

// Close releases prepared statements and the connection pool
func (s *SQLiteService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	if err := s.closeLocked(); err != nil {
		return err
	}
	s.logger.Info("Closed SQLite database connection")
	return nil
}

func (s *SQLiteService) closeLocked() error {
	if s.prepared != nil {
		if err := s.prepared.Close(); err != nil {
			s.logger.Error("Failed to close prepared statements", "error", err)
		}
		s.prepared = nil
	}

	err := s.db.Close()
	s.db = nil
	s.queries = nil
	s.migrations = nil
	if err != nil {
		return dberrors.HandleConnectionError("Close", fmt.Sprintf("failed to close database: %v", err))
	}
	return nil
}

// Migrate validates and applies the embedded migrations
func (s *SQLiteService) Migrate(ctx context.Context) error {
	s.mu.RLock()
	runner := s.migrations
	connected := s.db != nil
	s.mu.RUnlock()

	if !connected {
		return dberrors.HandleConnectionError("Migrate", "database not connected")
	}

	if err := runner.ValidateMigrations(); err != nil {
		return dberrors.WrapDatabaseErrorWithContext("Migrate", err, map[string]string{
			"phase": "validation",
		})
	}
	if err := runner.RunMigrations(ctx); err != nil {
		return dberrors.WrapDatabaseErrorWithContext("Migrate", err, map[string]string{
			"phase": "execution",
		})
	}
	return nil
}

// Health pings the database and runs a trivial query
func (s *SQLiteService) Health(ctx context.Context) error {
	db := s.DB()
	if db == nil {
		return dberrors.HandleConnectionError("Health", "database not connected")
	}

	if err := db.PingContext(ctx); err != nil {
		return dberrors.WrapDatabaseErrorWithContext("Health", err, map[string]string{"phase": "ping"})
	}

	var one int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return dberrors.WrapDatabaseErrorWithContext("Health", err, map[string]string{"phase": "query"})
	}
	if one != 1 {
		return dberrors.HandleValidationError("Health", "query_result", fmt.Sprintf("%d", one), "expected result 1")
	}
	return nil
}

// DB returns the connection pool, or nil when not connected
func (s *SQLiteService) DB() *sql.DB {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db
}

// GetQueries returns unprepared queries bound to the pool
func (s *SQLiteService) GetQueries() *queries.Queries {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queries
}

// GetPreparedQueries lazily prepares every statement once; Close releases them
func (s *SQLiteService) GetPreparedQueries(ctx context.Context) (*queries.Queries, error) {
	s.mu.RLock()
	if s.prepared != nil {
		prepared := s.prepared
		s.mu.RUnlock()
		return prepared, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil, dberrors.HandleConnectionError("GetPreparedQueries", "database not connected")
	}
	if s.prepared != nil {
		return s.prepared, nil
	}

	prepared, err := queries.Prepare(ctx, s.db)
	if err != nil {
		return nil, dberrors.WrapDatabaseError("GetPreparedQueries", err)
	}
	s.prepared = prepared
	return prepared, nil
}

// GetMigrationVersion returns the applied schema version
func (s *SQLiteService) GetMigrationVersion(ctx context.Context) (int64, error) {
	s.mu.RLock()
	runner := s.migrations
	s.mu.RUnlock()

	if runner == nil {
		return 0, dberrors.HandleConnectionError("GetMigrationVersion", "database not connected")
	}

	version, err := runner.GetCurrentVersion(ctx)
	if err != nil {
		return 0, dberrors.WrapDatabaseError("GetMigrationVersion", err)
	}
	return version, nil
}

// GetStats returns connection pool statistics
func (s *SQLiteService) GetStats() sql.DBStats {
	db := s.DB()
	if db == nil {
		return sql.DBStats{}
	}
	return db.Stats()
}

// Optimize refreshes planner statistics and reclaims space after history cleanup
func (s *SQLiteService) Optimize(ctx context.Context) error {
	db := s.DB()
	if db == nil {
		return dberrors.HandleConnectionError("Optimize", "database not connected")
	}

	if _, err := db.ExecContext(ctx, "ANALYZE"); err != nil {
		return dberrors.WrapDatabaseErrorWithContext("Optimize", err, map[string]string{"phase": "analyze"})
	}

	// no-op outside WAL
	if _, err := db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		s.logger.Warn("wal_checkpoint failed", "error", err)
	}

	if _, err := db.ExecContext(ctx, "VACUUM"); err != nil {
		return dberrors.WrapDatabaseErrorWithContext("Optimize", err, map[string]string{"phase": "vacuum"})
	}

	s.logger.Debug("Database optimization completed")
	return nil
}

// configurePool limits SQLite to one connection unless WAL lets readers run beside the writer
func (s *SQLiteService) configurePool(db *sql.DB, config *Config) {
	if config.ForceSingleConnection || config.IsInMemory() || !strings.EqualFold(config.JournalMode, "WAL") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		s.logger.Debug("Configured SQLite for single connection mode", "journalMode", config.JournalMode)
	} else {
		maxConns := max(1, min(config.MaxConnections, 4))
		idleConns := max(1, min(config.MaxIdleConns, maxConns))
		db.SetMaxOpenConns(maxConns)
		db.SetMaxIdleConns(idleConns)
		s.logger.Debug("Configured SQLite connection pool (WAL mode)",
			"maxOpenConns", maxConns, "maxIdleConns", idleConns)
	}

	db.SetConnMaxLifetime(config.ConnMaxLifetime)
}

package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"

	"launchpad/internal/infrastructure/logging"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// MigrationRunner applies the embedded migrations through a goose Provider.
// Providers hold no package-level state, so runners may be created concurrently.
type MigrationRunner struct {
	db     *sql.DB
	logger logging.Logger
}

var _ MigrationManager = (*MigrationRunner)(nil)

// NewMigrationRunner creates a new migration runner
func NewMigrationRunner(db *sql.DB, logger logging.Logger) *MigrationRunner {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &MigrationRunner{db: db, logger: logger}
}

func migrationsFS() (fs.FS, error) {
	return fs.Sub(embedMigrations, "migrations")
}

func (mr *MigrationRunner) provider() (*goose.Provider, error) {
	if mr.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	fsys, err := migrationsFS()
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	p, err := goose.NewProvider(goose.DialectSQLite3, mr.db, fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return p, nil
}

// RunMigrations applies every pending migration
func (mr *MigrationRunner) RunMigrations(ctx context.Context) error {
	p, err := mr.provider()
	if err != nil {
		return err
	}

	results, err := p.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	for _, r := range results {
		mr.logger.Debug("Applied migration", "version", r.Source.Version, "duration_ms", r.Duration.Milliseconds())
	}

	if version, err := p.GetDBVersion(ctx); err == nil {
		mr.logger.Info("Database migrated to version", "version", version, "applied", len(results))
	}
	return nil
}

// GetCurrentVersion returns the highest applied migration version
func (mr *MigrationRunner) GetCurrentVersion(ctx context.Context) (int64, error) {
	p, err := mr.provider()
	if err != nil {
		return 0, err
	}
	version, err := p.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get version: %w", err)
	}
	return version, nil
}

// ValidateMigrations checks the embedded migration files parse and are non-empty
func (mr *MigrationRunner) ValidateMigrations() error {
	p, err := mr.provider()
	if err != nil {
		return err
	}
	sources := p.ListSources()
	if len(sources) == 0 {
		return fmt.Errorf("no migrations found in embedded filesystem")
	}
	mr.logger.Debug("Found embedded migrations", "count", len(sources))
	return nil
}

package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"launchpad/internal/database"
	repoerrors "launchpad/internal/infrastructure/errors"
	"launchpad/internal/infrastructure/logging"
	"launchpad/internal/types"
)

func testLogger() logging.Logger {
	return logging.NewLogger(logging.Options{Level: "error", Output: os.Stderr})
}

func setupTestService(t *testing.T) database.Service {
	t.Helper()

	dbService := database.NewSQLiteService(testLogger())
	ctx := context.Background()
	if err := dbService.Connect(ctx, database.TestConfig()); err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(func() { dbService.Close() })

	if err := dbService.Migrate(ctx); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return dbService
}

func setupTestRepository(t *testing.T) *SQLiteRepository {
	t.Helper()
	return NewSQLiteRepository(setupTestService(t), testLogger())
}

func record(t *testing.T, repo LaunchRepository, id string, ok bool, at time.Time) *types.LaunchRecord {
	t.Helper()

	rec := &types.LaunchRecord{ShortcutID: id, Target: id + ".exe", OK: ok, LaunchedAt: at}
	if !ok {
		rec.Error = "could not open " + id
	}
	if err := repo.RecordLaunch(context.Background(), rec); err != nil {
		t.Fatalf("RecordLaunch(%s) error = %v", id, err)
	}
	return rec
}

func TestNewSQLiteRepository(t *testing.T) {
	repo := setupTestRepository(t)

	if repo.db == nil || repo.queries == nil || repo.logger == nil || repo.retryConfig == nil {
		t.Fatalf("Repository not fully initialised: %+v", repo)
	}
}

func TestNewSQLiteRepositoryWithPreparedQueries(t *testing.T) {
	dbService := setupTestService(t)
	ctx := context.Background()

	repo, err := NewSQLiteRepositoryWithPreparedQueries(ctx, dbService, nil)
	if err != nil {
		t.Fatalf("NewSQLiteRepositoryWithPreparedQueries() error = %v", err)
	}

	rec := record(t, repo, "notepad", true, time.Now())
	if rec.ID == 0 {
		t.Error("Expected ID to be assigned through prepared statements")
	}
}

func TestRecordLaunch_AssignsIDAndTime(t *testing.T) {
	repo := setupTestRepository(t)

	rec := &types.LaunchRecord{ShortcutID: "calculator", Target: "calc.exe", OK: true}
	before := time.Now()
	if err := repo.RecordLaunch(context.Background(), rec); err != nil {
		t.Fatalf("RecordLaunch() error = %v", err)
	}

	if rec.ID <= 0 {
		t.Errorf("Expected positive ID, got %d", rec.ID)
	}
	if rec.LaunchedAt.Before(before) {
		t.Errorf("Expected LaunchedAt to default to now, got %v", rec.LaunchedAt)
	}
}

func TestRecordLaunch_Validation(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		record *types.LaunchRecord
	}{
		{"nil record", nil},
		{"empty shortcut", &types.LaunchRecord{ShortcutID: ""}},
		{"blank shortcut", &types.LaunchRecord{ShortcutID: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.RecordLaunch(ctx, tt.record)
			if !repoerrors.IsValidation(err) {
				t.Errorf("Expected validation error, got %v", err)
			}
		})
	}
}

func TestRecentLaunches_NewestFirst(t *testing.T) {
	repo := setupTestRepository(t)
	base := time.Date(2024, time.June, 1, 9, 0, 0, 0, time.Local)

	record(t, repo, "notepad", true, base)
	record(t, repo, "edge", false, base.Add(time.Minute))
	record(t, repo, "bing", true, base.Add(2*time.Minute))

	records, err := repo.RecentLaunches(context.Background(), 2)
	if err != nil {
		t.Fatalf("RecentLaunches() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].ShortcutID != "bing" || records[1].ShortcutID != "edge" {
		t.Errorf("Unexpected order: %s, %s", records[0].ShortcutID, records[1].ShortcutID)
	}

	failed := records[1]
	if failed.OK || failed.Error != "could not open edge" {
		t.Errorf("Expected failed record with message, got %+v", failed)
	}
	if !failed.LaunchedAt.Equal(base.Add(time.Minute)) {
		t.Errorf("LaunchedAt = %v, want %v", failed.LaunchedAt, base.Add(time.Minute))
	}
	if records[0].Error != "" {
		t.Errorf("Successful record should have no error, got %q", records[0].Error)
	}
}

func TestLaunchCounts_DescendingSuccessesOnly(t *testing.T) {
	repo := setupTestRepository(t)
	base := time.Now().Add(-time.Hour).Truncate(time.Millisecond)

	for i := 0; i < 3; i++ {
		record(t, repo, "youtube", true, base.Add(time.Duration(i)*time.Second))
	}
	record(t, repo, "notepad", true, base)
	record(t, repo, "notepad", false, base.Add(time.Minute))
	record(t, repo, "defender", false, base)

	counts, err := repo.LaunchCounts(context.Background(), 10)
	if err != nil {
		t.Fatalf("LaunchCounts() error = %v", err)
	}

	if len(counts) != 2 {
		t.Fatalf("Expected 2 shortcuts with successes, got %+v", counts)
	}
	if counts[0].ShortcutID != "youtube" || counts[0].Count != 3 {
		t.Errorf("Expected youtube x3 first, got %+v", counts[0])
	}
	if counts[1].ShortcutID != "notepad" || counts[1].Count != 1 {
		t.Errorf("Expected notepad x1 second, got %+v", counts[1])
	}
	if !counts[0].LastLaunched.Equal(base.Add(2 * time.Second)) {
		t.Errorf("LastLaunched = %v, want %v", counts[0].LastLaunched, base.Add(2*time.Second))
	}
}

func TestDeleteOlderThan(t *testing.T) {
	repo := setupTestRepository(t)
	now := time.Now()

	record(t, repo, "old", true, now.Add(-100*24*time.Hour))
	record(t, repo, "older", true, now.Add(-200*24*time.Hour))
	record(t, repo, "fresh", true, now)

	deleted, err := repo.DeleteOlderThan(context.Background(), now.Add(-90*24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteOlderThan() error = %v", err)
	}
	if deleted != 2 {
		t.Errorf("Expected 2 rows deleted, got %d", deleted)
	}

	records, _ := repo.RecentLaunches(context.Background(), 0)
	if len(records) != 1 || records[0].ShortcutID != "fresh" {
		t.Errorf("Expected only the fresh record to remain, got %+v", records)
	}
}

func TestWithTransaction_CommitAndRollback(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	err := repo.WithTransaction(ctx, func(tx LaunchRepository) error {
		record(t, tx, "notepad", true, time.Now())
		record(t, tx, "calculator", true, time.Now())
		return nil
	})
	if err != nil {
		t.Fatalf("WithTransaction() commit error = %v", err)
	}

	boom := errors.New("boom")
	err = repo.WithTransaction(ctx, func(tx LaunchRepository) error {
		record(t, tx, "edge", true, time.Now())
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected function error to propagate, got %v", err)
	}

	records, err := repo.RecentLaunches(ctx, 10)
	if err != nil {
		t.Fatalf("RecentLaunches() error = %v", err)
	}
	if len(records) != 2 {
		t.Errorf("Expected rolled back insert to be discarded, got %d records", len(records))
	}
}

func TestRepository_SchemaMissing(t *testing.T) {
	dbService := database.NewSQLiteService(testLogger())
	ctx := context.Background()
	if err := dbService.Connect(ctx, database.TestConfig()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer dbService.Close()

	repo := NewSQLiteRepositoryWithConfig(dbService, &repoerrors.RetryConfig{MaxAttempts: 1}, testLogger())

	_, err := repo.RecentLaunches(ctx, 5)
	var repoErr *repoerrors.RepositoryError
	if !errors.As(err, &repoErr) {
		t.Fatalf("Expected RepositoryError, got %T: %v", err, err)
	}
	if repoErr.Code != repoerrors.ErrCodeSchema {
		t.Errorf("Expected SCHEMA code without migrations, got %s", repoErr.Code)
	}
}

func TestNormalizeLimit(t *testing.T) {
	tests := map[int]int64{-1: DefaultQueryLimit, 0: DefaultQueryLimit, 7: 7, MaxQueryLimit + 1: MaxQueryLimit}
	for in, want := range tests {
		if got := normalizeLimit(in); got != want {
			t.Errorf("normalizeLimit(%d) = %d, want %d", in, got, want)
		}
	}
}

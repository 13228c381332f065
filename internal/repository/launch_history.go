package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"launchpad/internal/database/queries"
	repoerrors "launchpad/internal/infrastructure/errors"
	"launchpad/internal/infrastructure/logging"
	"launchpad/internal/types"
)

// RecordLaunch saves one launch attempt with retry logic
func (r *SQLiteRepository) RecordLaunch(ctx context.Context, record *types.LaunchRecord) error {
	start := time.Now()

	if record == nil {
		err := repoerrors.NewRepositoryError("RecordLaunch", fmt.Errorf("launch record is nil"), repoerrors.ErrCodeValidation)
		logging.LogError(r.logger, err, "RecordLaunch", nil)
		return err
	}
	if strings.TrimSpace(record.ShortcutID) == "" {
		err := repoerrors.NewRepositoryErrorWithContext("RecordLaunch", fmt.Errorf("shortcut id is empty or whitespace"),
			repoerrors.ErrCodeValidation, map[string]string{"target": record.Target})
		logging.LogError(r.logger, err, "RecordLaunch", map[string]interface{}{"target": record.Target})
		return err
	}
	if record.LaunchedAt.IsZero() {
		record.LaunchedAt = time.Now()
	}

	params := queries.InsertLaunchParams{
		ShortcutID: record.ShortcutID,
		Target:     record.Target,
		Ok:         record.OK,
		Error:      nullString(record.Error),
		LaunchedAt: record.LaunchedAt.UnixMilli(),
	}

	err := repoerrors.WithRetryContext(ctx, r.retryConfig, func() error {
		row, err := r.queries.InsertLaunch(ctx, params)
		if err != nil {
			repoErr := repoerrors.NewRepositoryErrorWithContext("RecordLaunch", err, r.classifyError(err), map[string]string{
				"shortcut": record.ShortcutID,
			})
			if repoErr.IsRetryable() {
				r.logger.Debug("Retryable error in RecordLaunch", "error", err, "shortcut", record.ShortcutID)
			} else {
				logging.LogError(r.logger, repoErr, "RecordLaunch", map[string]interface{}{
					"shortcut": record.ShortcutID,
					"ok":       record.OK,
				})
			}
			return repoErr
		}

		record.ID = row.ID
		return nil
	}, "RecordLaunch")

	if err == nil {
		logging.LogOperation(r.logger, "RecordLaunch", time.Since(start), map[string]interface{}{
			"shortcut": record.ShortcutID,
			"ok":       record.OK,
		})
	}
	return err
}

// RecentLaunches returns the newest launch records first
func (r *SQLiteRepository) RecentLaunches(ctx context.Context, limit int) ([]types.LaunchRecord, error) {
	var rows []queries.LaunchHistory
	err := repoerrors.RetryQuick(ctx, func() error {
		var err error
		rows, err = r.queries.ListRecentLaunches(ctx, normalizeLimit(limit))
		if err != nil {
			return repoerrors.NewRepositoryError("RecentLaunches", err, r.classifyError(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	records := make([]types.LaunchRecord, len(rows))
	for i, row := range rows {
		records[i] = convertLaunchFromDB(row)
	}
	return records, nil
}

// LaunchCounts aggregates successful launches per shortcut in descending order
func (r *SQLiteRepository) LaunchCounts(ctx context.Context, limit int) ([]types.LaunchCount, error) {
	var rows []queries.CountLaunchesByShortcutRow
	err := repoerrors.RetryQuick(ctx, func() error {
		var err error
		rows, err = r.queries.CountLaunchesByShortcut(ctx, normalizeLimit(limit))
		if err != nil {
			return repoerrors.NewRepositoryError("LaunchCounts", err, r.classifyError(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	counts := make([]types.LaunchCount, len(rows))
	for i, row := range rows {
		counts[i] = types.LaunchCount{
			ShortcutID:   row.ShortcutID,
			Count:        row.LaunchCount,
			LastLaunched: time.UnixMilli(row.LastLaunched),
		}
	}
	return counts, nil
}

// DeleteOlderThan removes history launched strictly before cutoff
func (r *SQLiteRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	start := time.Now()
	var deleted int64

	err := repoerrors.WithRetryContext(ctx, r.retryConfig, func() error {
		n, err := r.queries.DeleteLaunchesBefore(ctx, cutoff.UnixMilli())
		if err != nil {
			return repoerrors.NewRepositoryErrorWithContext("DeleteOlderThan", err, r.classifyError(err), map[string]string{
				"cutoff": cutoff.Format(time.RFC3339),
			})
		}
		deleted = n
		return nil
	}, "DeleteOlderThan")

	if err != nil {
		logging.LogError(r.logger, err, "DeleteOlderThan", map[string]interface{}{
			"cutoff": cutoff.Format(time.RFC3339),
		})
		return 0, err
	}

	logging.LogOperation(r.logger, "DeleteOlderThan", time.Since(start), map[string]interface{}{
		"cutoff":  cutoff.Format(time.RFC3339),
		"deleted": deleted,
	})
	return deleted, nil
}

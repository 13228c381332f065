package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	repoerrors "launchpad/internal/infrastructure/errors"
	"launchpad/internal/infrastructure/logging"
)

// WithTransaction executes fn within a database transaction with retry logic.
// fn may run more than once when begin or commit fails with a retryable error.
func (r *SQLiteRepository) WithTransaction(ctx context.Context, fn func(repo LaunchRepository) error) error {
	if r.db == nil {
		return repoerrors.HandleConnectionError("WithTransaction", "database not connected")
	}
	start := time.Now()

	err := repoerrors.WithRetryContext(ctx, r.retryConfig, func() error {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			repoErr := repoerrors.NewRepositoryError("WithTransaction.Begin", err, r.classifyError(err))
			if !repoErr.IsRetryable() {
				logging.LogError(r.logger, repoErr, "WithTransaction.Begin", nil)
			}
			return repoErr
		}

		committed := false
		defer func() {
			if committed {
				return
			}
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				r.logger.Debug("Failed to rollback transaction", "rollback_error", rbErr)
			}
		}()

		txRepo := &SQLiteRepository{
			db:          r.db,
			queries:     r.queries.WithTx(tx),
			retryConfig: noRetry,
			logger:      r.logger,
		}

		if err := fn(txRepo); err != nil {
			r.logger.Debug("Transaction function failed", "error", err)
			return err
		}

		if err := tx.Commit(); err != nil {
			repoErr := repoerrors.NewRepositoryError("WithTransaction.Commit", err, r.classifyError(err))
			if !repoErr.IsRetryable() {
				logging.LogError(r.logger, repoErr, "WithTransaction.Commit", nil)
			}
			return repoErr
		}
		committed = true
		return nil
	}, "WithTransaction")

	if err == nil {
		logging.LogOperation(r.logger, "WithTransaction", time.Since(start), nil)
	}
	return err
}

// noRetry is used inside transactions; the outer WithTransaction owns retrying
var noRetry = &repoerrors.RetryConfig{MaxAttempts: 1}

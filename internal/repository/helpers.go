package repository

import (
	"database/sql"
	"time"

	"launchpad/internal/database/queries"
	repoerrors "launchpad/internal/infrastructure/errors"
	"launchpad/internal/types"
)

// convertLaunchFromDB converts a launch_history row to types.LaunchRecord
func convertLaunchFromDB(row queries.LaunchHistory) types.LaunchRecord {
	return types.LaunchRecord{
		ID:         row.ID,
		ShortcutID: row.ShortcutID,
		Target:     row.Target,
		OK:         row.Ok,
		Error:      stringFromNullString(row.Error),
		LaunchedAt: time.UnixMilli(row.LaunchedAt),
	}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func stringFromNullString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// classifyError classifies database errors into repository error codes
func (r *SQLiteRepository) classifyError(err error) repoerrors.ErrorCode {
	return repoerrors.ClassifyError(err)
}

package queries

import (
	"context"
	"database/sql"
)

const insertLaunch = `-- name: InsertLaunch :one
INSERT INTO launch_history (shortcut_id, target, ok, error, launched_at)
VALUES (?, ?, ?, ?, ?)
RETURNING id, shortcut_id, target, ok, error, launched_at
`

type InsertLaunchParams struct {
	ShortcutID string
	Target     string
	Ok         bool
	Error      sql.NullString
	LaunchedAt int64
}

func (q *Queries) InsertLaunch(ctx context.Context, arg InsertLaunchParams) (LaunchHistory, error) {
	row := q.queryRow(ctx, q.insertLaunchStmt, insertLaunch,
		arg.ShortcutID,
		arg.Target,
		arg.Ok,
		arg.Error,
		arg.LaunchedAt,
	)
	var i LaunchHistory
	err := row.Scan(
		&i.ID,
		&i.ShortcutID,
		&i.Target,
		&i.Ok,
		&i.Error,
		&i.LaunchedAt,
	)
	return i, err
}

const listRecentLaunches = `-- name: ListRecentLaunches :many
SELECT id, shortcut_id, target, ok, error, launched_at
FROM launch_history
ORDER BY launched_at DESC, id DESC
LIMIT ?
`

func (q *Queries) ListRecentLaunches(ctx context.Context, limit int64) ([]LaunchHistory, error) {
	rows, err := q.query(ctx, q.listRecentLaunchesStmt, listRecentLaunches, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []LaunchHistory
	for rows.Next() {
		var i LaunchHistory
		if err := rows.Scan(
			&i.ID,
			&i.ShortcutID,
			&i.Target,
			&i.Ok,
			&i.Error,
			&i.LaunchedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countLaunchesByShortcut = `-- name: CountLaunchesByShortcut :many
SELECT shortcut_id, COUNT(*) AS launch_count, MAX(launched_at) AS last_launched
FROM launch_history
WHERE ok = 1
GROUP BY shortcut_id
ORDER BY launch_count DESC, last_launched DESC, shortcut_id
LIMIT ?
`

type CountLaunchesByShortcutRow struct {
	ShortcutID   string
	LaunchCount  int64
	LastLaunched int64
}

func (q *Queries) CountLaunchesByShortcut(ctx context.Context, limit int64) ([]CountLaunchesByShortcutRow, error) {
	rows, err := q.query(ctx, q.countLaunchesByShortcutStmt, countLaunchesByShortcut, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CountLaunchesByShortcutRow
	for rows.Next() {
		var i CountLaunchesByShortcutRow
		if err := rows.Scan(&i.ShortcutID, &i.LaunchCount, &i.LastLaunched); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteLaunchesBefore = `-- name: DeleteLaunchesBefore :execrows
DELETE FROM launch_history
WHERE launched_at < ?
`

func (q *Queries) DeleteLaunchesBefore(ctx context.Context, launchedAt int64) (int64, error) {
	result, err := q.exec(ctx, q.deleteLaunchesBeforeStmt, deleteLaunchesBefore, launchedAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countLaunches = `-- name: CountLaunches :one
SELECT COUNT(*) FROM launch_history
`

func (q *Queries) CountLaunches(ctx context.Context) (int64, error) {
	row := q.queryRow(ctx, q.countLaunchesStmt, countLaunches)
	var count int64
	err := row.Scan(&count)
	return count, err
}

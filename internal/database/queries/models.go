package queries

import "database/sql"

type LaunchHistory struct {
	ID         int64
	ShortcutID string
	Target     string
	Ok         bool
	Error      sql.NullString
	LaunchedAt int64
}

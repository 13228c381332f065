// Package queries holds the typed SQL statements for the launch history store.
package queries

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is satisfied by *sql.DB, *sql.Conn and *sql.Tx
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Prepare creates a Queries whose statements are prepared once up front
func Prepare(ctx context.Context, db DBTX) (*Queries, error) {
	q := Queries{db: db}
	var err error
	if q.insertLaunchStmt, err = db.PrepareContext(ctx, insertLaunch); err != nil {
		return nil, fmt.Errorf("error preparing query InsertLaunch: %w", err)
	}
	if q.listRecentLaunchesStmt, err = db.PrepareContext(ctx, listRecentLaunches); err != nil {
		return nil, fmt.Errorf("error preparing query ListRecentLaunches: %w", err)
	}
	if q.countLaunchesByShortcutStmt, err = db.PrepareContext(ctx, countLaunchesByShortcut); err != nil {
		return nil, fmt.Errorf("error preparing query CountLaunchesByShortcut: %w", err)
	}
	if q.deleteLaunchesBeforeStmt, err = db.PrepareContext(ctx, deleteLaunchesBefore); err != nil {
		return nil, fmt.Errorf("error preparing query DeleteLaunchesBefore: %w", err)
	}
	if q.countLaunchesStmt, err = db.PrepareContext(ctx, countLaunches); err != nil {
		return nil, fmt.Errorf("error preparing query CountLaunches: %w", err)
	}
	return &q, nil
}

// Close releases every prepared statement, returning the first error seen
func (q *Queries) Close() error {
	var err error
	for _, stmt := range []*sql.Stmt{
		q.insertLaunchStmt,
		q.listRecentLaunchesStmt,
		q.countLaunchesByShortcutStmt,
		q.deleteLaunchesBeforeStmt,
		q.countLaunchesStmt,
	} {
		if stmt == nil {
			continue
		}
		if cerr := stmt.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("error closing statement: %w", cerr)
		}
	}
	return err
}

func (q *Queries) exec(ctx context.Context, stmt *sql.Stmt, query string, args ...interface{}) (sql.Result, error) {
	switch {
	case stmt != nil && q.tx != nil:
		return q.tx.StmtContext(ctx, stmt).ExecContext(ctx, args...)
	case stmt != nil:
		return stmt.ExecContext(ctx, args...)
	default:
		return q.db.ExecContext(ctx, query, args...)
	}
}

func (q *Queries) query(ctx context.Context, stmt *sql.Stmt, query string, args ...interface{}) (*sql.Rows, error) {
	switch {
	case stmt != nil && q.tx != nil:
		return q.tx.StmtContext(ctx, stmt).QueryContext(ctx, args...)
	case stmt != nil:
		return stmt.QueryContext(ctx, args...)
	default:
		return q.db.QueryContext(ctx, query, args...)
	}
}

func (q *Queries) queryRow(ctx context.Context, stmt *sql.Stmt, query string, args ...interface{}) *sql.Row {
	switch {
	case stmt != nil && q.tx != nil:
		return q.tx.StmtContext(ctx, stmt).QueryRowContext(ctx, args...)
	case stmt != nil:
		return stmt.QueryRowContext(ctx, args...)
	default:
		return q.db.QueryRowContext(ctx, query, args...)
	}
}

type Queries struct {
	db                          DBTX
	tx                          *sql.Tx
	insertLaunchStmt            *sql.Stmt
	listRecentLaunchesStmt      *sql.Stmt
	countLaunchesByShortcutStmt *sql.Stmt
	deleteLaunchesBeforeStmt    *sql.Stmt
	countLaunchesStmt           *sql.Stmt
}

// WithTx binds the queries (and any prepared statements) to tx
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{
		db:                          tx,
		tx:                          tx,
		insertLaunchStmt:            q.insertLaunchStmt,
		listRecentLaunchesStmt:      q.listRecentLaunchesStmt,
		countLaunchesByShortcutStmt: q.countLaunchesByShortcutStmt,
		deleteLaunchesBeforeStmt:    q.deleteLaunchesBeforeStmt,
		countLaunchesStmt:           q.countLaunchesStmt,
	}
}

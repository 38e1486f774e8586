// Package history keeps a local ledger of pipeline runs in SQLite.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at  TIMESTAMP NOT NULL,
	module      TEXT NOT NULL,
	bare        BOOLEAN NOT NULL,
	flags       TEXT NOT NULL,
	line_offset INTEGER NOT NULL,
	char_offset INTEGER NOT NULL,
	rebased     INTEGER NOT NULL,
	passed      INTEGER NOT NULL,
	solver_exit INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	error       TEXT NOT NULL DEFAULT ''
)`

// Entry is one recorded run.
type Entry struct {
	ID         int64
	StartedAt  time.Time
	Module     string
	Bare       bool
	Flags      []string
	LineOffset int
	CharOffset int
	Rebased    int
	Passed     int
	SolverExit int
	Duration   time.Duration
	Error      string
}

// Store is a run ledger backed by a SQLite file.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the ledger at path. ":memory:" gives a
// private in-memory ledger.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	// a single connection keeps ":memory:" databases shared and serialises writers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialise history: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add records e and returns its id.
func (s *Store) Add(ctx context.Context, e Entry) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
INSERT INTO runs (started_at, module, bare, flags, line_offset, char_offset,
                  rebased, passed, solver_exit, duration_ms, error)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.StartedAt.UTC(), e.Module, e.Bare, strings.Join(e.Flags, " "),
		e.LineOffset, e.CharOffset, e.Rebased, e.Passed,
		e.SolverExit, e.Duration.Milliseconds(), e.Error)
	if err != nil {
		return 0, fmt.Errorf("failed to record run: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns up to limit runs, newest first. module filters by module
// name when non-empty.
func (s *Store) Recent(ctx context.Context, module string, limit int) ([]Entry, error) {
	query := `
SELECT id, started_at, module, bare, flags, line_offset, char_offset,
       rebased, passed, solver_exit, duration_ms, error
FROM runs`
	var args []any
	if module != "" {
		query += ` WHERE module = ?`
		args = append(args, module)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e     Entry
			flags string
			ms    int64
		)
		if err := rows.Scan(&e.ID, &e.StartedAt, &e.Module, &e.Bare, &flags,
			&e.LineOffset, &e.CharOffset, &e.Rebased, &e.Passed,
			&e.SolverExit, &ms, &e.Error); err != nil {
			return nil, fmt.Errorf("failed to read history: %w", err)
		}
		e.Flags = strings.Fields(flags)
		e.Duration = time.Duration(ms) * time.Millisecond
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

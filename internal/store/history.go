// Package store persists the session state that outlives a process: the
// selection history (SQLite), marks and the quickfix list (YAML). Every
// entry point may fail on its own; callers treat failures as non-fatal.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrLoadHistoryFailed is returned when the history store cannot be read.
var ErrLoadHistoryFailed = errors.New("load history failed")

// HistoryEntry records the child selected in a directory.
type HistoryEntry struct {
	Path      string
	Selection string
	ChangedAt time.Time
}

// History is the append-only selection history.
type History struct {
	Path string
}

func (h History) open(ctx context.Context) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(h.Path), 0o700); err != nil {
		return nil, err
	}
	// modernc.org/sqlite registers as "sqlite".
	db, err := sql.Open("sqlite", h.Path)
	if err != nil {
		return nil, err
	}
	stmts := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
		`CREATE TABLE IF NOT EXISTS history (
			path TEXT NOT NULL,
			selection TEXT NOT NULL,
			changed_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_history_path ON history(path, changed_at);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return db, nil
}

// Load returns one entry per path, the most recent one winning.
func (h History) Load(ctx context.Context) ([]HistoryEntry, error) {
	db, err := h.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadHistoryFailed, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx,
		`SELECT path, selection, changed_at FROM history ORDER BY changed_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadHistoryFailed, err)
	}
	defer rows.Close()

	index := map[string]int{}
	var out []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var ms int64
		if err := rows.Scan(&e.Path, &e.Selection, &ms); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadHistoryFailed, err)
		}
		e.ChangedAt = time.UnixMilli(ms)
		if i, ok := index[e.Path]; ok {
			out[i] = e
			continue
		}
		index[e.Path] = len(out)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadHistoryFailed, err)
	}
	return out, nil
}

// Save appends entries.
func (h History) Save(ctx context.Context, entries []HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	db, err := h.open(ctx)
	if err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO history(path, selection, changed_at) VALUES(?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("save history: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.Path, e.Selection, e.ChangedAt.UnixMilli()); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("save history: %w", err)
		}
	}
	return tx.Commit()
}

// Optimize drops every row superseded by a newer one for the same path and
// compacts the database file.
func (h History) Optimize(ctx context.Context) error {
	db, err := h.open(ctx)
	if err != nil {
		return fmt.Errorf("optimize history: %w", err)
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, `DELETE FROM history WHERE rowid NOT IN (
		SELECT (
			SELECT h2.rowid FROM history h2
			WHERE h2.path = h1.path
			ORDER BY h2.changed_at DESC, h2.rowid DESC
			LIMIT 1
		) FROM history h1 GROUP BY h1.path
	)`)
	if err != nil {
		return fmt.Errorf("optimize history: %w", err)
	}
	if _, err := db.ExecContext(ctx, `VACUUM`); err != nil {
		return fmt.Errorf("optimize history: %w", err)
	}
	return nil
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package audit keeps a local, append-only trail of committed mutations.
//
// The trail is advisory: it exists so an operator can answer "what did I
// change last Tuesday" without server-side logs. Writes are best-effort
// and must never block or fail a mutation that already succeeded.
package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrClosed = errors.New("audit store closed")
)

// =============================================================================
// ENTRIES
// =============================================================================

// Entry is one committed mutation as seen from this terminal.
type Entry struct {
	ID      string
	At      time.Time
	Actor   string   // signed-in operator email
	Action  string   // "user.create", "user.ban", "otp.delete", ...
	Targets []string // affected record IDs
	Outcome string   // "ok", "partial", or the error text
}

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	id      TEXT PRIMARY KEY,
	at      TIMESTAMP NOT NULL,
	actor   TEXT NOT NULL,
	action  TEXT NOT NULL,
	targets TEXT NOT NULL,
	outcome TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_entries_at ON entries(at DESC);
`

// =============================================================================
// STORE
// =============================================================================

// Store is a SQLite-backed audit trail.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the audit database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create audit directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize audit schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Append records one entry. The ID and timestamp are filled in when the
// caller leaves them zero.
func (s *Store) Append(ctx context.Context, e Entry) error {
	if s == nil || s.db == nil {
		return ErrClosed
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (id, at, actor, action, targets, outcome) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.At, e.Actor, e.Action, strings.Join(e.Targets, ","), e.Outcome)
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

// Recent returns the newest n entries, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Entry, error) {
	if s == nil || s.db == nil {
		return nil, ErrClosed
	}
	if n <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, at, actor, action, targets, outcome FROM entries ORDER BY at DESC, id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var targets string
		if err := rows.Scan(&e.ID, &e.At, &e.Actor, &e.Action, &targets, &e.Outcome); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		if targets != "" {
			e.Targets = strings.Split(targets, ",")
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close releases the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

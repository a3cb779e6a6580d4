// Package store persists vaccination centers and signup accounts in SQLite.
//
// The slot counter is only ever changed by a single conditional UPDATE, so no
// reader can observe a negative or half-applied value.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound is returned when a center id does not resolve.
	ErrNotFound = errors.New("center not found")
	// ErrNoSlots is returned by DecrementSlot when the counter is already zero.
	ErrNoSlots = errors.New("no available slots")
	// ErrDuplicateEmail is returned by CreateUser for an already registered email.
	ErrDuplicateEmail = errors.New("email already registered")
)

// Store wraps SQLite access for centers and users.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at dsn and ensures the tables exist.
// SQLite serializes writers anyway; a single connection keeps shared-cache
// in-memory databases alive and avoids SQLITE_BUSY under concurrent bookings.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS vaccination_centers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			location TEXT NOT NULL DEFAULT '',
			dosageDetails TEXT NOT NULL DEFAULT '',
			timings TEXT NOT NULL DEFAULT '',
			availableSlots INTEGER NOT NULL DEFAULT 0 CHECK (availableSlots >= 0)
		);`,
		`CREATE TABLE IF NOT EXISTS signup (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

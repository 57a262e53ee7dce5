// Package cachedb provides a SQLite-backed persistent cache of
// validated DNS responses.
//
// The store survives process restarts, which matters for short-lived
// CLI invocations that would otherwise pay an upstream round trip per
// run. Responses are keyed by question, stored in wire format with
// their transaction ID normalized to 0, and carry an absolute expiry.
// Expired rows are treated as misses and purged on read.
package cachedb

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

//go:embed schema.sql
var schemaSQL string

// Store wraps a SQLite database holding cached responses.
type Store struct {
	conn *sql.DB
	mu   sync.Mutex // serializes writes; reads go through SQLite's own locking
}

// Open opens or creates the cache database at path.
func Open(path string) (*Store, error) {
	// WAL mode keeps readers unblocked during writes.
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", path)

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	conn.SetMaxOpenConns(4)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(time.Hour)

	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing cache schema: %w", err)
	}
	return &Store{conn: conn}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Get returns the cached response for key and how long it has been
// stored. An expired row is deleted and reported as a miss.
func (s *Store) Get(key string) (resp []byte, age time.Duration, ok bool, err error) {
	var storedAt, expiresAt int64
	row := s.conn.QueryRow(
		"SELECT response, stored_at, expires_at FROM answers WHERE key = ?", key)
	if err := row.Scan(&resp, &storedAt, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, false, nil
		}
		return nil, 0, false, fmt.Errorf("reading cached answer: %w", err)
	}

	now := time.Now()
	if now.Unix() >= expiresAt {
		if err := s.delete(key); err != nil {
			return nil, 0, false, err
		}
		return nil, 0, false, nil
	}

	age = now.Sub(time.Unix(storedAt, 0))
	if age < 0 {
		age = 0
	}
	return resp, age, true, nil
}

// Put stores a response for key, replacing any previous row. Entries
// with a non-positive ttl are not stored.
func (s *Store) Put(key string, resp []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.conn.Exec(
		"INSERT OR REPLACE INTO answers (key, response, stored_at, expires_at) VALUES (?, ?, ?, ?)",
		key, resp, now.Unix(), now.Add(ttl).Unix())
	if err != nil {
		return fmt.Errorf("storing cached answer: %w", err)
	}
	return nil
}

// Purge deletes all expired rows and returns how many were removed.
func (s *Store) Purge() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.conn.Exec("DELETE FROM answers WHERE expires_at <= ?", time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("purging cache: %w", err)
	}
	return res.RowsAffected()
}

// Len returns the number of rows, expired ones included.
func (s *Store) Len() (int, error) {
	var n int
	if err := s.conn.QueryRow("SELECT COUNT(*) FROM answers").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting cached answers: %w", err)
	}
	return n, nil
}

func (s *Store) delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.conn.Exec("DELETE FROM answers WHERE key = ?", key); err != nil {
		return fmt.Errorf("deleting cached answer: %w", err)
	}
	return nil
}

// Copyright (c) 2025 Esgcat
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cache persists raw search responses in a SQLite database inside
// the local cache directory, so repeated runs of the same query skip the
// network. Entries expire after a TTL; the index nodes republish datasets,
// so stale availability data must not linger.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	cerr "esgcat/cli/internal/errors"
	"esgcat/cli/internal/logging"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS responses (
	key        TEXT PRIMARY KEY,
	body       BLOB NOT NULL,
	created_at INTEGER NOT NULL
);
`

// Store is a TTL-bounded response cache. It implements esgf.ResponseCache.
type Store struct {
	db  *sql.DB
	ttl time.Duration
}

// Open creates or opens the cache database at dir/responses.db.
func Open(dir string, ttl time.Duration) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, cerr.Wrap(cerr.CacheFailed, "create cache directory", err)
	}
	db, err := sql.Open("sqlite", filepath.Join(dir, "responses.db"))
	if err != nil {
		return nil, cerr.Wrap(cerr.CacheFailed, "open cache database", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.Debugf("cache: set busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.Debugf("cache: set journal_mode: %v", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, cerr.Wrap(cerr.CacheFailed, "initialize cache schema", err)
	}
	return &Store{db: db, ttl: ttl}, nil
}

// hashKey shortens arbitrarily long query strings to a fixed-size key.
func hashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached body for key if present and fresh. Expired rows
// are deleted on access.
func (s *Store) Get(key string) ([]byte, bool) {
	h := hashKey(key)
	var body []byte
	var createdAt int64
	err := s.db.QueryRow("SELECT body, created_at FROM responses WHERE key = ?", h).Scan(&body, &createdAt)
	if err != nil {
		return nil, false
	}
	if time.Since(time.Unix(createdAt, 0)) > s.ttl {
		if _, err := s.db.Exec("DELETE FROM responses WHERE key = ?", h); err != nil {
			logging.Debugf("cache: expire %s: %v", h[:8], err)
		}
		return nil, false
	}
	return body, true
}

// Put stores a response body under key, replacing any previous entry.
func (s *Store) Put(key string, body []byte) error {
	_, err := s.db.Exec(
		"INSERT INTO responses (key, body, created_at) VALUES (?, ?, ?) "+
			"ON CONFLICT(key) DO UPDATE SET body = excluded.body, created_at = excluded.created_at",
		hashKey(key), body, time.Now().Unix())
	if err != nil {
		return cerr.Wrap(cerr.CacheFailed, "store response", err)
	}
	return nil
}

// Stats reports the number of cached responses and their total size.
func (s *Store) Stats() (entries int, bytes int64, err error) {
	err = s.db.QueryRow("SELECT COUNT(*), COALESCE(SUM(LENGTH(body)), 0) FROM responses").Scan(&entries, &bytes)
	if err != nil {
		return 0, 0, cerr.Wrap(cerr.CacheFailed, "read cache stats", err)
	}
	return entries, bytes, nil
}

// Clear removes every cached response.
func (s *Store) Clear() error {
	if _, err := s.db.Exec("DELETE FROM responses"); err != nil {
		return cerr.Wrap(cerr.CacheFailed, "clear cache", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// HumanSize renders a byte count for display.
func HumanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

// Package cache provides a SQLite-backed render cache keyed by document path
// and content fingerprint, so unchanged documents skip the resolve pass.
package cache

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/inful/mdfp"
	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/transclude/internal/foundation/errors"
)

// Store is a render cache. Use ":memory:" for an in-memory database.
//
// Entries are keyed by (path, fingerprint) where the fingerprint covers only
// the document's own raw content. A rendered page also depends on every
// transitively embedded document, so consumers invalidate the whole cache on
// any vault change rather than per path.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Fingerprint computes the canonical content fingerprint of raw markdown.
func Fingerprint(raw []byte) string {
	return mdfp.CalculateFingerprintFromParts("", string(raw))
}

// Open opens (creating if needed) the cache database at path.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.WrapError(err, errors.CategoryCache, "create cache directory").
				WithContext("path", path).Build()
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryCache, "open cache database").
			WithContext("path", path).Build()
	}
	// A single connection sidesteps SQLite write contention.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS renders (
		path        TEXT PRIMARY KEY,
		fingerprint TEXT NOT NULL,
		html        BLOB NOT NULL,
		rendered_at INTEGER NOT NULL
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return errors.WrapError(err, errors.CategoryCache, "initialize cache schema").Build()
	}
	return nil
}

// Get returns the cached rendering of path when the stored fingerprint
// matches, and whether there was a usable entry.
func (s *Store) Get(ctx context.Context, path, fingerprint string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var storedFP string
	var html []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT fingerprint, html FROM renders WHERE path = ?`, path).Scan(&storedFP, &html)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.WrapError(err, errors.CategoryCache, "read cache entry").
			WithContext("path", path).Build()
	}
	if storedFP != fingerprint {
		return nil, false, nil
	}
	return html, true, nil
}

// Put stores the rendering of path, replacing any previous entry.
func (s *Store) Put(ctx context.Context, path, fingerprint string, html []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO renders (path, fingerprint, html, rendered_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET fingerprint=excluded.fingerprint,
		 html=excluded.html, rendered_at=excluded.rendered_at`,
		path, fingerprint, html, time.Now().Unix())
	if err != nil {
		return errors.WrapError(err, errors.CategoryCache, "store cache entry").
			WithContext("path", path).Build()
	}
	return nil
}

// Purge drops every cache entry.
func (s *Store) Purge(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM renders`); err != nil {
		return errors.WrapError(err, errors.CategoryCache, "purge cache").Build()
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

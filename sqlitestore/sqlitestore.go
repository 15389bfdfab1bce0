// Package sqlitestore provides a durable lens.Store backed by SQLite, so the
// inspector panel's geometry survives restarts.
//
// Usage:
//
//	store, err := sqlitestore.Open("lens.db", sqlitestore.WithMkdirAll())
//	if err != nil { ... }
//	defer store.Close()
//	panel := lens.NewPanel(cfg.Panel, viewport, store)
//
// The database uses WAL journaling with a busy timeout so that several
// processes sharing one settings file do not fail on each other's writes.
package sqlitestore

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/phanxgames/lens"
)

const schema = `CREATE TABLE IF NOT EXISTS lens_kv (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at INTEGER NOT NULL
)`

type config struct {
	busyTimeout int
	synchronous string
	mkdirAll    bool
	now         func() time.Time
}

func defaults() config {
	return config{
		busyTimeout: 5_000,
		synchronous: "NORMAL",
		now:         time.Now,
	}
}

// Option customises Open behaviour.
type Option func(*config)

// WithBusyTimeout sets PRAGMA busy_timeout in milliseconds. Default: 5000.
func WithBusyTimeout(ms int) Option { return func(c *config) { c.busyTimeout = ms } }

// WithSynchronous sets PRAGMA synchronous. Default: "NORMAL".
func WithSynchronous(mode string) Option { return func(c *config) { c.synchronous = mode } }

// WithMkdirAll creates parent directories of the database path before opening.
func WithMkdirAll() Option { return func(c *config) { c.mkdirAll = true } }

// WithClock sets the time source for updated_at.
func WithClock(now func() time.Time) Option { return func(c *config) { c.now = now } }

// Store is a lens.Store persisted in a single SQLite table.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ lens.Store = (*Store)(nil)

// Open opens (creating if needed) the database at path. Use ":memory:" for
// a private in-memory database.
func Open(path string, opts ...Option) (*Store, error) {
	cfg := defaults()
	for _, o := range opts {
		o(&cfg)
	}

	if cfg.mkdirAll && path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlitestore: mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: open: %w", err)
	}
	if path == ":memory:" {
		// Each connection to ":memory:" is a separate database.
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.busyTimeout),
		fmt.Sprintf("PRAGMA synchronous = %s", cfg.synchronous),
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlitestore: %s: %w", p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitestore: exec schema: %w", err)
	}
	return &Store{db: db, now: cfg.now}, nil
}

// Get implements lens.Store.
func (s *Store) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM lens_kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("sqlitestore: get %s: %w", key, err)
	}
	return value, true, nil
}

// Set implements lens.Store.
func (s *Store) Set(key string, value []byte) error {
	_, err := s.db.Exec(`INSERT INTO lens_kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("sqlitestore: set %s: %w", key, err)
	}
	return nil
}

// Remove implements lens.Store.
func (s *Store) Remove(key string) error {
	if _, err := s.db.Exec(`DELETE FROM lens_kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("sqlitestore: remove %s: %w", key, err)
	}
	return nil
}

// UpdatedAt returns when key was last written.
func (s *Store) UpdatedAt(key string) (time.Time, bool, error) {
	var ms int64
	err := s.db.QueryRow(`SELECT updated_at FROM lens_kv WHERE key = ?`, key).Scan(&ms)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("sqlitestore: updated_at %s: %w", key, err)
	}
	return time.UnixMilli(ms), true, nil
}

// Close closes the underlying database. Operations after Close fail, which
// a lens.Panel treats as storage becoming unavailable.
func (s *Store) Close() error {
	return s.db.Close()
}

// Package store persists settings, saved criteria and recent results in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const (
	KeySettings = "srs_settings"
	KeyCriteria = "srs_criteria"
	KeyResults  = "srs_results"
)

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);
`

// Store is a single-user key/value store. Writes are last-write-wins.
type Store struct {
	db       *sql.DB
	defaults Settings
	logger   *zap.Logger
}

// Open opens (creating if needed) the database at path. defaults seed the settings record
// whenever it is missing or incomplete.
func Open(ctx context.Context, path string, defaults Settings, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	if _, err := db.ExecContext(ctx, sqliteMigration); err != nil {
		_ = db.Close()
		return nil, eris.Wrap(err, "sqlite: migrate")
	}

	return &Store{db: db, defaults: defaults, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Defaults returns the settings the store falls back to.
func (s *Store) Defaults() Settings {
	return s.defaults
}

// ClearAll removes settings, criteria and results.
func (s *Store) ClearAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key IN (?, ?, ?)`, KeySettings, KeyCriteria, KeyResults)
	return eris.Wrap(err, "sqlite: clear all")
}

// get decodes the value stored under key into dst. found is false when the key is absent.
func (s *Store) get(ctx context.Context, key string, dst any) (bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, eris.Wrapf(err, "sqlite: get %s", key)
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, eris.Wrapf(err, "sqlite: decode %s", key)
	}
	return true, nil
}

func (s *Store) put(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return eris.Wrapf(err, "sqlite: encode %s", key)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(data), time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: put %s", key)
}

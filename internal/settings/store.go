package settings

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite"
)

// Store persists settings in a single key/value SQLite table.
type Store struct {
	db *sql.DB
}

// DefaultPath is ~/.go_ytinfo/settings.db.
func DefaultPath() string {
	return filepath.Join(os.Getenv("HOME"), ".go_ytinfo", "settings.db")
}

// Open opens (or creates) the settings database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("settings: mkdir %s: %w", filepath.Dir(path), err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("settings: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("settings: init schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Load reads a snapshot. Keys missing from storage, or holding values that do
// not parse, fall back to their defaults.
func (s *Store) Load(ctx context.Context) (Settings, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return Defaults(), fmt.Errorf("settings: load: %w", err)
	}
	defer rows.Close()

	values := make(map[Key]bool)
	var pos Position
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return Defaults(), fmt.Errorf("settings: scan: %w", err)
		}
		if k == PositionKey {
			p, err := ParsePosition(v)
			if err != nil {
				slog.Warn("settings: ignoring stored position", slog.Any("error", err))
				continue
			}
			pos = p
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			slog.Warn("settings: ignoring stored flag", slog.String("key", k), slog.String("value", v))
			continue
		}
		values[Key(k)] = b
	}
	if err := rows.Err(); err != nil {
		return Defaults(), fmt.Errorf("settings: rows: %w", err)
	}
	return New(values, pos), nil
}

// Save upserts the given flags and, when non-empty, the position.
func (s *Store) Save(ctx context.Context, values map[Key]bool, pos Position) error {
	for k := range values {
		if !isKnown(k) {
			return fmt.Errorf("settings: unknown key %q", k)
		}
	}
	if pos != "" {
		if _, err := ParsePosition(string(pos)); err != nil {
			return fmt.Errorf("settings: %w", err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("settings: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const upsert = `INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	for k, v := range values {
		if _, err := tx.ExecContext(ctx, upsert, string(k), strconv.FormatBool(v)); err != nil {
			return fmt.Errorf("settings: save %s: %w", k, err)
		}
	}
	if pos != "" {
		if _, err := tx.ExecContext(ctx, upsert, PositionKey, string(pos)); err != nil {
			return fmt.Errorf("settings: save position: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("settings: commit: %w", err)
	}
	return nil
}

func isKnown(k Key) bool {
	for _, known := range Keys {
		if k == known {
			return true
		}
	}
	return false
}

// Package sqlite persists replication state in a local SQLite
// database. Bookmarks are written synchronously after every change;
// WAL mode keeps the single-writer pattern cheap.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/replikit/tap-covid19/internal/core/domain"
	"github.com/replikit/tap-covid19/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.StateStore = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS bookmarks (
	stream TEXT PRIMARY KEY,
	value  TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS sync_meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

const currentlySyncingKey = "currently_syncing"

// Store is a SQLite-backed replication state store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the state database under dataDir.
// If dataDir is empty, defaults to ~/.tap-covid19.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".tap-covid19")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "state.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening state database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating state schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Load reads the persisted state. A fresh database yields an empty
// state, not an error.
func (s *Store) Load(ctx context.Context) (*domain.ReplicationState, error) {
	state := domain.NewReplicationState()

	rows, err := s.db.QueryContext(ctx, "SELECT stream, value FROM bookmarks")
	if err != nil {
		return nil, fmt.Errorf("reading bookmarks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var stream, raw string
		if err := rows.Scan(&stream, &raw); err != nil {
			return nil, fmt.Errorf("scanning bookmark: %w", err)
		}
		state.Bookmarks[stream] = decodeBookmark(raw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading bookmarks: %w", err)
	}

	var current string
	err = s.db.QueryRowContext(ctx,
		"SELECT value FROM sync_meta WHERE key = ?", currentlySyncingKey).Scan(&current)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return nil, fmt.Errorf("reading sync meta: %w", err)
	default:
		state.CurrentlySyncing = current
	}

	return state, nil
}

// Save durably writes the full state in one transaction.
func (s *Store) Save(ctx context.Context, state *domain.ReplicationState) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin state write: %w", err)
	}
	defer tx.Rollback()

	for stream, value := range state.Bookmarks {
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encoding bookmark for %s: %w", stream, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO bookmarks (stream, value) VALUES (?, ?) ON CONFLICT(stream) DO UPDATE SET value = excluded.value",
			stream, string(raw)); err != nil {
			return fmt.Errorf("writing bookmark for %s: %w", stream, err)
		}
	}

	if state.CurrentlySyncing == "" {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM sync_meta WHERE key = ?", currentlySyncingKey); err != nil {
			return fmt.Errorf("clearing sync meta: %w", err)
		}
	} else {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO sync_meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
			currentlySyncingKey, state.CurrentlySyncing); err != nil {
			return fmt.Errorf("writing sync meta: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit state write: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// decodeBookmark turns a stored JSON value back into a string or an
// integer version token.
func decodeBookmark(raw string) any {
	var asInt int64
	if err := json.Unmarshal([]byte(raw), &asInt); err == nil {
		return asInt
	}
	var asString string
	if err := json.Unmarshal([]byte(raw), &asString); err == nil {
		return asString
	}
	return raw
}

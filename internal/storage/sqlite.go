package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS frecency_snapshots (
	key        TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

// SQLiteGateway stores snapshots in a local SQLite file.
type SQLiteGateway struct {
	sqlGateway
}

// OpenSQLite opens (creating if needed) the database at path. ":memory:"
// gives a private in-memory database.
func OpenSQLite(ctx context.Context, path string) (*SQLiteGateway, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating sqlite directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases shared and serializes
	// writers on the file.
	db.SetMaxOpenConns(1)

	stmts := []string{`PRAGMA busy_timeout=5000`, sqliteSchema}
	if path != ":memory:" {
		stmts = append([]string{`PRAGMA journal_mode=WAL`}, stmts...)
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("initializing sqlite %s: %w", path, err)
		}
	}

	return &SQLiteGateway{sqlGateway{
		db:       db,
		backend:  "sqlite",
		getQuery: `SELECT data FROM frecency_snapshots WHERE key = ?`,
		setQuery: `INSERT INTO frecency_snapshots (key, data, updated_at) VALUES (?, ?, ?)
			ON CONFLICT (key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		closeFunc: db.Close,
	}}, nil
}

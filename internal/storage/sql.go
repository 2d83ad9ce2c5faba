package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// sqlGateway stores snapshots in a frecency_snapshots table. PostgreSQL and
// SQLite share the schema and differ only in placeholder syntax.
//
//	CREATE TABLE frecency_snapshots (
//	    key        TEXT PRIMARY KEY,
//	    data       TEXT NOT NULL,
//	    updated_at TIMESTAMP NOT NULL
//	);
type sqlGateway struct {
	db        *sql.DB
	getQuery  string
	setQuery  string
	backend   string
	closeFunc func() error
}

func (g *sqlGateway) Get(ctx context.Context, key string) (string, bool, error) {
	var data string
	err := g.db.QueryRowContext(ctx, g.getQuery, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%s get %s: %w", g.backend, key, err)
	}
	return data, true, nil
}

func (g *sqlGateway) Set(ctx context.Context, key, value string) error {
	if _, err := g.db.ExecContext(ctx, g.setQuery, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("%s set %s: %w", g.backend, key, err)
	}
	return nil
}

func (g *sqlGateway) Close() error {
	return g.closeFunc()
}

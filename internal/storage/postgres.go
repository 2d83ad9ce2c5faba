package storage

import (
	"context"

	"github.com/Adithya-Monish-Kumar-K/search-frecency/pkg/postgres"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS frecency_snapshots (
	key        TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresGateway stores snapshots in PostgreSQL.
type PostgresGateway struct {
	sqlGateway
}

// NewPostgresGateway creates the snapshot table if needed and returns a
// gateway over client.
func NewPostgresGateway(ctx context.Context, client *postgres.Client) (*PostgresGateway, error) {
	if err := client.Migrate(ctx, postgresSchema); err != nil {
		return nil, err
	}
	return &PostgresGateway{sqlGateway{
		db:       client.DB,
		backend:  "postgres",
		getQuery: `SELECT data FROM frecency_snapshots WHERE key = $1`,
		setQuery: `INSERT INTO frecency_snapshots (key, data, updated_at) VALUES ($1, $2, $3)
			ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		closeFunc: client.Close,
	}}, nil
}

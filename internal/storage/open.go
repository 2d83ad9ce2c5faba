package storage

import (
	"context"
	"io"

	"github.com/Adithya-Monish-Kumar-K/search-frecency/internal/frecency"
	"github.com/Adithya-Monish-Kumar-K/search-frecency/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/search-frecency/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/search-frecency/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/search-frecency/pkg/postgres"
	pkgredis "github.com/Adithya-Monish-Kumar-K/search-frecency/pkg/redis"
)

// Gateway is a frecency gateway that owns a connection.
type Gateway interface {
	frecency.Gateway
	io.Closer
}

// Open connects the backend named by cfg.Backend.
func Open(ctx context.Context, cfg config.StorageConfig) (Gateway, error) {
	log := logger.WithComponent("storage").With("backend", cfg.Backend)
	switch cfg.Backend {
	case "memory":
		return NewMemoryGateway(), nil
	case "redis":
		client, err := pkgredis.NewClient(cfg.Redis)
		if err != nil {
			return nil, err
		}
		log.Info("snapshot storage ready", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)
		return WithRetry(NewRedisGateway(client, cfg.Redis.TTL), cfg.WriteAttempts), nil
	case "postgres":
		client, err := postgres.New(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		gw, err := NewPostgresGateway(ctx, client)
		if err != nil {
			client.Close()
			return nil, err
		}
		log.Info("snapshot storage ready", "host", cfg.Postgres.Host, "database", cfg.Postgres.Database)
		return WithRetry(gw, cfg.WriteAttempts), nil
	case "sqlite", "":
		gw, err := OpenSQLite(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		log.Info("snapshot storage ready", "path", cfg.SQLite.Path)
		return gw, nil
	default:
		return nil, apperrors.Newf(apperrors.ErrUnknownBackend, "storage.Open", "%q", cfg.Backend)
	}
}

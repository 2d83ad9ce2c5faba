package storage

import (
	"context"
	"fmt"
	"time"

	pkgredis "github.com/Adithya-Monish-Kumar-K/search-frecency/pkg/redis"
)

// RedisGateway stores each snapshot as a Redis string.
type RedisGateway struct {
	client *pkgredis.Client
	ttl    time.Duration
}

// NewRedisGateway stores snapshots through client. Keys expire after ttl
// without writes; zero keeps them forever.
func NewRedisGateway(client *pkgredis.Client, ttl time.Duration) *RedisGateway {
	return &RedisGateway{client: client, ttl: ttl}
}

func (g *RedisGateway) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := g.client.Get(ctx, key)
	if err != nil {
		if pkgredis.IsNilError(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (g *RedisGateway) Set(ctx context.Context, key, value string) error {
	if err := g.client.Set(ctx, key, value, g.ttl); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (g *RedisGateway) Close() error {
	return g.client.Close()
}

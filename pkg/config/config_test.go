package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 10, cfg.Frecency.TimestampsLimit)
	require.Equal(t, 100, cfg.Frecency.RecentSelectionsLimit)
	require.Equal(t, "_id", cfg.Frecency.IDAttribute)
	require.Equal(t, "newest", cfg.Frecency.Retention)
	require.Equal(t, "sqlite", cfg.Storage.Backend)
	require.Equal(t, 3, cfg.Storage.WriteAttempts)
	require.False(t, cfg.Kafka.Enabled)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frecency.yaml")
	data := []byte(`
frecency:
  key: docs-search
  recentSelectionsLimit: 25
  idAttribute: slug
storage:
  backend: redis
  redis:
    addr: cache:6379
    ttl: 720h
kafka:
  enabled: true
  brokers: [k1:9092, k2:9092]
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	t.Setenv("FR_TIMESTAMPS_LIMIT", "4")
	t.Setenv("FR_REDIS_ADDR", "override:6379")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "docs-search", cfg.Frecency.Key)
	require.Equal(t, 25, cfg.Frecency.RecentSelectionsLimit)
	require.Equal(t, 4, cfg.Frecency.TimestampsLimit)
	require.Equal(t, "slug", cfg.Frecency.IDAttribute)
	require.Equal(t, "redis", cfg.Storage.Backend)
	require.Equal(t, "override:6379", cfg.Storage.Redis.Addr)
	require.Equal(t, 720*time.Hour, cfg.Storage.Redis.TTL)
	require.True(t, cfg.Kafka.Enabled)
	require.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	require.Equal(t, "frecency-selections", cfg.Kafka.Topic)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5433, User: "u", Password: "p", Database: "d", SSLMode: "require"}
	require.Equal(t, "host=db port=5433 user=u password=p dbname=d sslmode=require", p.DSN())
}

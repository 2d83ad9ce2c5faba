// Package config loads and validates configuration from YAML files with
// environment-variable overrides. It provides typed structs for the frecency
// ranker, its storage backends, analytics publishing and logging.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration.
type Config struct {
	Frecency FrecencyConfig `yaml:"frecency"`
	Storage  StorageConfig  `yaml:"storage"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// FrecencyConfig controls history bounds and how result ids are read.
type FrecencyConfig struct {
	Key                   string `yaml:"key"`
	TimestampsLimit       int    `yaml:"timestampsLimit"`
	RecentSelectionsLimit int    `yaml:"recentSelectionsLimit"`
	// Retention is "newest" (keep the newest timestampsLimit timestamps) or
	// "legacy" (drop the earliest timestamp on every repeat selection).
	Retention   string `yaml:"retention"`
	IDAttribute string `yaml:"idAttribute"`
}

// StorageConfig selects the persistence backend for snapshots.
type StorageConfig struct {
	Backend string `yaml:"backend"`
	// WriteAttempts bounds snapshot reads and writes on the remote backends
	// (redis, postgres). One disables retrying.
	WriteAttempts int            `yaml:"writeAttempts"`
	Redis         RedisConfig    `yaml:"redis"`
	Postgres      PostgresConfig `yaml:"postgres"`
	SQLite        SQLiteConfig   `yaml:"sqlite"`
}

// RedisConfig holds Redis connection parameters. A zero TTL keeps snapshots
// forever.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	PoolSize int           `yaml:"poolSize"`
	TTL      time.Duration `yaml:"ttl"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Database        string        `yaml:"database"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	SSLMode         string        `yaml:"sslMode"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

// DSN returns a lib/pq-compatible data source name.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// SQLiteConfig holds the path of the local snapshot database.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// KafkaConfig holds broker and topic settings for selection events.
type KafkaConfig struct {
	Enabled    bool     `yaml:"enabled"`
	Brokers    []string `yaml:"brokers"`
	Topic      string   `yaml:"topic"`
	BufferSize int      `yaml:"bufferSize"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides. Missing values keep their defaults.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Frecency: FrecencyConfig{
			TimestampsLimit:       10,
			RecentSelectionsLimit: 100,
			Retention:             "newest",
			IDAttribute:           "_id",
		},
		Storage: StorageConfig{
			Backend:       "sqlite",
			WriteAttempts: 3,
			Redis: RedisConfig{
				Addr:     "localhost:6379",
				PoolSize: 10,
			},
			Postgres: PostgresConfig{
				Host:            "localhost",
				Port:            5432,
				Database:        "frecency",
				User:            "frecency",
				Password:        "localdev",
				SSLMode:         "disable",
				MaxOpenConns:    10,
				MaxIdleConns:    2,
				ConnMaxLifetime: 5 * time.Minute,
			},
			SQLite: SQLiteConfig{
				Path: "data/frecency.db",
			},
		},
		Kafka: KafkaConfig{
			Brokers:    []string{"localhost:9092"},
			Topic:      "frecency-selections",
			BufferSize: 1000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// applyEnvOverrides reads FR_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FR_KEY"); v != "" {
		cfg.Frecency.Key = v
	}
	if v := os.Getenv("FR_TIMESTAMPS_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Frecency.TimestampsLimit = n
		}
	}
	if v := os.Getenv("FR_RECENT_SELECTIONS_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Frecency.RecentSelectionsLimit = n
		}
	}
	if v := os.Getenv("FR_RETENTION"); v != "" {
		cfg.Frecency.Retention = v
	}
	if v := os.Getenv("FR_ID_ATTRIBUTE"); v != "" {
		cfg.Frecency.IDAttribute = v
	}
	if v := os.Getenv("FR_STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("FR_STORAGE_WRITE_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Storage.WriteAttempts = n
		}
	}
	if v := os.Getenv("FR_REDIS_ADDR"); v != "" {
		cfg.Storage.Redis.Addr = v
	}
	if v := os.Getenv("FR_REDIS_PASSWORD"); v != "" {
		cfg.Storage.Redis.Password = v
	}
	if v := os.Getenv("FR_POSTGRES_HOST"); v != "" {
		cfg.Storage.Postgres.Host = v
	}
	if v := os.Getenv("FR_POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Storage.Postgres.Port = port
		}
	}
	if v := os.Getenv("FR_POSTGRES_DATABASE"); v != "" {
		cfg.Storage.Postgres.Database = v
	}
	if v := os.Getenv("FR_POSTGRES_USER"); v != "" {
		cfg.Storage.Postgres.User = v
	}
	if v := os.Getenv("FR_POSTGRES_PASSWORD"); v != "" {
		cfg.Storage.Postgres.Password = v
	}
	if v := os.Getenv("FR_SQLITE_PATH"); v != "" {
		cfg.Storage.SQLite.Path = v
	}
	if v := os.Getenv("FR_KAFKA_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Kafka.Enabled = enabled
		}
	}
	if v := os.Getenv("FR_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("FR_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("FR_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}

package config

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/sethvargo/go-envconfig"
)

const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Session  SessionConfig
	Postgres PostgresConfig
	Mongo    MongoConfig
	Cache    CacheConfig
	Redis    RedisConfig
	Audit    AuditConfig
}

type SessionConfig struct {
	Secret string        `env:"SESSION_SECRET, required"`
	TTL    time.Duration `env:"SESSION_TTL,    default=24h"`
}

type PostgresConfig struct {
	URL             string        `env:"POSTGRES_URL,               required"`
	MaxOpenConns    int           `env:"POSTGRES_MAX_OPEN_CONNS,    default=10"`
	MaxIdleConns    int           `env:"POSTGRES_MAX_IDLE_CONNS,    default=5"`
	ConnMaxLifetime time.Duration `env:"POSTGRES_CONN_MAX_LIFETIME, default=30m"`
}

// MongoConfig backs the audit trail. An empty URI disables it.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=invoice_dashboard"`
}

type CacheConfig struct {
	Backend string        `env:"CACHE_BACKEND, default=memory"`
	TTL     time.Duration `env:"CACHE_TTL,     default=5m"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration through the given lookuper and checks the
// values that go-envconfig cannot express as tags.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, errors.Wrap(err, "process environment")
	}

	switch cfg.Cache.Backend {
	case CacheMemory, CacheRedis:
	default:
		return nil, errors.Newf("unknown CACHE_BACKEND %q", cfg.Cache.Backend)
	}
	if cfg.Session.TTL <= 0 {
		return nil, errors.New("SESSION_TTL must be positive")
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// AuditEnabled reports whether a MongoDB audit store is configured.
func (c *Config) AuditEnabled() bool {
	return c.Mongo.URI != ""
}

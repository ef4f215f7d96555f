package memory

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// StoreOption is a functional option for configuring a conversation store.
type StoreOption func(*storeConfig)

// storeConfig holds driver configuration.
type storeConfig struct {
	redisClient *redis.Client
	redisTTL    time.Duration
	sqlitePath  string
}

// WithRedisClient sets the Redis client for the redis driver.
func WithRedisClient(client *redis.Client) StoreOption {
	return func(c *storeConfig) {
		c.redisClient = client
	}
}

// WithRedisTTL sets the per-key TTL for the redis driver.
func WithRedisTTL(ttl time.Duration) StoreOption {
	return func(c *storeConfig) {
		c.redisTTL = ttl
	}
}

// WithSQLitePath sets the DSN for the sqlite driver.
func WithSQLitePath(path string) StoreOption {
	return func(c *storeConfig) {
		c.sqlitePath = path
	}
}

// NewStore creates a conversation store for the given driver name.
// Supports "memory", "redis" (requires WithRedisClient) and "sqlite"
// (requires WithSQLitePath).
func NewStore(driver string, opts ...StoreOption) (Store, error) {
	config := &storeConfig{}
	for _, opt := range opts {
		opt(config)
	}

	switch driver {
	case "memory":
		return NewInMemoryStore(), nil

	case "redis":
		if config.redisClient == nil {
			return nil, ErrInvalidConfig
		}
		return NewRedisStore(config.redisClient, config.redisTTL), nil

	case "sqlite":
		if config.sqlitePath == "" {
			return nil, ErrInvalidConfig
		}
		return NewSQLiteStore(config.sqlitePath)

	default:
		return nil, ErrUnknownDriver
	}
}

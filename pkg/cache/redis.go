package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig contains configuration for the Redis cache backend.
type RedisConfig struct {
	// Addr is the Redis server address (host:port).
	Addr string

	// Password authenticates against the server. Empty = no auth.
	Password string

	// DB is the Redis database number.
	DB int

	// KeyPrefix namespaces cache keys on a shared server.
	// Default: "scribe:cache:"
	KeyPrefix string

	// TTL is the per-entry expiry applied on Set. 0 = no expiry.
	TTL time.Duration

	// DialTimeout bounds the initial connectivity check.
	// Default: 5 seconds
	DialTimeout time.Duration
}

// DefaultRedisConfig returns the default Redis cache configuration.
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr:        "localhost:6379",
		KeyPrefix:   "scribe:cache:",
		TTL:         time.Hour,
		DialTimeout: 5 * time.Second,
	}
}

// Redis implements Cache on a Redis server, for deployments where
// several instances should share one result store.
type Redis struct {
	client *redis.Client
	config *RedisConfig
	logger *slog.Logger
}

// NewRedis creates a Redis cache backend and verifies connectivity.
func NewRedis(config *RedisConfig) (*Redis, error) {
	if config == nil {
		config = DefaultRedisConfig()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	dialTimeout := config.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, NewStorageError("redis", "ping", err)
	}

	logger := slog.Default().With("component", "cache.redis")
	logger.Info("Redis cache initialized", "addr", config.Addr, "ttl", config.TTL)

	return &Redis{
		client: client,
		config: config,
		logger: logger,
	}, nil
}

// Get retrieves a payload. Expiry is handled server-side by the TTL
// set on write.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := r.client.Get(ctx, r.config.KeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, NewStorageError("redis", "get", err)
	}
	return payload, true, nil
}

// Set stores a payload with the configured TTL.
func (r *Redis) Set(ctx context.Context, key string, payload []byte) error {
	if err := r.client.Set(ctx, r.config.KeyPrefix+key, payload, r.config.TTL).Err(); err != nil {
		return NewStorageError("redis", "set", err)
	}
	return nil
}

// Close releases the client connection pool.
func (r *Redis) Close() error {
	if err := r.client.Close(); err != nil {
		return NewStorageError("redis", "close", err)
	}
	return nil
}

package limits

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures the Redis-backed fixed-window limiter.
type RedisConfig struct {
	// Addr is the Redis server address (host:port).
	Addr string

	// Password authenticates against the server. Empty = no auth.
	Password string

	// DB is the Redis database number.
	DB int

	// KeyPrefix namespaces limiter keys on a shared server.
	// Default: "scribe:ratelimit:"
	KeyPrefix string

	// Limit is the maximum number of admissions per identity per
	// window. 0 means unlimited.
	Limit int64

	// Window is the fixed window length.
	// Default: 1 minute
	Window time.Duration

	// DialTimeout bounds the initial connectivity check.
	// Default: 5 seconds
	DialTimeout time.Duration
}

// DefaultRedisConfig returns the default Redis limiter configuration.
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr:        "localhost:6379",
		KeyPrefix:   "scribe:ratelimit:",
		Limit:       60,
		Window:      time.Minute,
		DialTimeout: 5 * time.Second,
	}
}

// Redis implements Limiter with counters on a Redis server, so
// several instances share one budget per identity.
type Redis struct {
	client *redis.Client
	config *RedisConfig
}

// NewRedis creates a Redis-backed fixed-window limiter and verifies
// connectivity.
func NewRedis(config *RedisConfig) (*Redis, error) {
	if config == nil {
		config = DefaultRedisConfig()
	}
	if config.Window <= 0 {
		config.Window = time.Minute
	}
	if config.KeyPrefix == "" {
		config.KeyPrefix = "scribe:ratelimit:"
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
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Redis{
		client: client,
		config: config,
	}, nil
}

// Admit checks and records one request for the identity. The counter
// key embeds the window start, and expiry slightly outlives the
// window so stale keys clean themselves up.
func (r *Redis) Admit(ctx context.Context, identity string) (*Decision, error) {
	now := time.Now()
	start := now.Truncate(r.config.Window)
	reset := start.Add(r.config.Window)

	key := fmt.Sprintf("%s%s:%d", r.config.KeyPrefix, identity, start.Unix())

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, r.config.Window+time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to advance window: %w", err)
	}

	count := incr.Val()
	if r.config.Limit > 0 && count > r.config.Limit {
		return &Decision{
			Allowed:    false,
			Limit:      r.config.Limit,
			Remaining:  0,
			Reset:      reset,
			RetryAfter: reset.Sub(now),
		}, nil
	}

	var remaining int64
	if r.config.Limit > 0 {
		remaining = r.config.Limit - count
	}

	return &Decision{
		Allowed:   true,
		Limit:     r.config.Limit,
		Remaining: remaining,
		Reset:     reset,
	}, nil
}

// Close releases the client connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}

package config

import "time"

// Config is the root configuration structure for Scribe.
// It contains all configuration sections for the HTTP server, static
// assets, proxy trust, rate limiting, result caching, upstream
// fetching, and telemetry.
type Config struct {
	// Server contains HTTP server configuration including listen address,
	// timeouts, and CORS settings.
	Server ServerConfig `yaml:"server"`

	// Static contains configuration for the optional static asset
	// directory served at the site root.
	Static StaticConfig `yaml:"static"`

	// Trust contains reverse-proxy trust configuration used when
	// resolving client identity from Forwarded headers.
	Trust TrustConfig `yaml:"trust"`

	// Limits contains per-client and process-wide rate limit configuration.
	Limits LimitsConfig `yaml:"limits"`

	// Cache contains conversion result cache configuration.
	Cache CacheConfig `yaml:"cache"`

	// Redis contains connection settings shared by the redis cache and
	// redis limiter backends.
	Redis RedisConfig `yaml:"redis"`

	// Upstream contains configuration for the outbound HTTP client that
	// fetches pages on behalf of clients.
	Upstream UpstreamConfig `yaml:"upstream"`

	// Telemetry contains configuration for observability including logging,
	// metrics, and health checks.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port for the server to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:8080", "0.0.0.0:8080").
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body. A zero or negative value means no timeout.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. It also bounds handler execution via the timeout
	// middleware. A zero or negative value means no timeout.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled. If IdleTimeout is zero, ReadTimeout is used.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	// If requests are still in-flight after this timeout, the server will
	// force shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes controls the maximum number of bytes the server will
	// read parsing the request header's keys and values, including the
	// request line. It does not limit the size of the request body.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// CORS contains Cross-Origin Resource Sharing configuration.
	CORS CORSConfig `yaml:"cors"`
}

// CORSConfig contains CORS (Cross-Origin Resource Sharing) configuration.
type CORSConfig struct {
	// Enabled controls whether CORS is enabled.
	// Default: true when the section is omitted entirely
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins is a list of allowed origins for CORS requests.
	// Use ["*"] to allow all origins.
	// Default: ["*"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods is a list of allowed HTTP methods for CORS requests.
	// The conversion API is read-only.
	// Default: ["GET", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders is a list of allowed HTTP headers for CORS requests.
	// Default: ["Content-Type", "X-Request-ID"]
	AllowedHeaders []string `yaml:"allowed_headers"`

	// ExposedHeaders is a list of headers that are exposed to the client.
	// Default: ["X-Request-ID"]
	ExposedHeaders []string `yaml:"exposed_headers"`

	// MaxAge is the maximum age (in seconds) for preflight request cache.
	// Default: 3600 (1 hour)
	MaxAge int `yaml:"max_age"`
}

// StaticConfig contains configuration for static asset serving.
type StaticConfig struct {
	// Dir is a directory holding index.html, favicon.ico, and any other
	// assets served under /static. Empty disables static serving; the
	// site root then answers 404 and favicon requests fall through to
	// URL conversion.
	// Default: "" (disabled)
	Dir string `yaml:"dir"`
}

// TrustConfig contains reverse-proxy trust configuration.
type TrustConfig struct {
	// TrustedProxies lists proxy addresses whose RFC 7239 Forwarded
	// headers are honored when resolving client identity. A client
	// identity is taken from the header only when the last hop's "by"
	// directive matches one of these entries. Empty means Forwarded
	// headers are ignored and the direct peer address is used.
	// Default: [] (no proxies trusted)
	TrustedProxies []string `yaml:"trusted_proxies"`
}

// LimitsConfig contains rate limit configuration.
type LimitsConfig struct {
	// Enabled controls whether per-client rate limiting is active.
	// Default: true when the section is omitted entirely
	Enabled bool `yaml:"enabled"`

	// Backend selects the counter store.
	// Options: "memory", "sqlite", "redis"
	// Default: "memory"
	Backend string `yaml:"backend"`

	// PerClient is the number of requests each client identity may make
	// per window. 0 means unlimited.
	// Default: 60
	PerClient int64 `yaml:"per_client"`

	// Window is the fixed counting window length. Windows are aligned
	// to multiples of this duration and counters reset at each boundary.
	// Default: 1m
	Window time.Duration `yaml:"window"`

	// SQLitePath is the counter database file used by the sqlite backend.
	// Default: "data/limits.db"
	SQLitePath string `yaml:"sqlite_path"`

	// UpstreamRPS caps total upstream fetches per second across all
	// clients. 0 disables the process-wide limiter.
	// Default: 0 (disabled)
	UpstreamRPS float64 `yaml:"upstream_rps"`

	// UpstreamBurst is the burst size for the process-wide limiter.
	// Only used when UpstreamRPS is set.
	// Default: 1
	UpstreamBurst int `yaml:"upstream_burst"`
}

// CacheConfig contains conversion result cache configuration.
type CacheConfig struct {
	// Enabled controls whether conversion results are cached.
	// Default: true when the section is omitted entirely
	Enabled bool `yaml:"enabled"`

	// Backend selects the result store.
	// Options: "memory", "sqlite", "redis"
	// Default: "memory"
	Backend string `yaml:"backend"`

	// TTL is how long a cached conversion stays servable. 0 means
	// entries never expire.
	// Default: 1h
	TTL time.Duration `yaml:"ttl"`

	// MaxEntries bounds the memory backend; the least recently used
	// entry is evicted past the bound. 0 means unlimited.
	// Default: 1024
	MaxEntries int `yaml:"max_entries"`

	// SQLitePath is the result database file used by the sqlite backend.
	// Default: "data/cache.db"
	SQLitePath string `yaml:"sqlite_path"`

	// Retention configures background pruning of the sqlite backend.
	// The memory backend cleans itself up and redis expires natively,
	// so retention applies to sqlite only.
	Retention RetentionConfig `yaml:"retention"`
}

// RetentionConfig contains cache retention configuration.
type RetentionConfig struct {
	// PruneSchedule is a cron expression for scheduling pruning.
	// Default: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string `yaml:"prune_schedule"`

	// MaxAge is how old an entry may grow before pruning removes it.
	// 0 means entries are never pruned by age.
	// Default: 24h
	MaxAge time.Duration `yaml:"max_age"`

	// MaxEntries is the maximum number of entries to keep; pruning
	// removes the oldest entries past the bound. 0 means unlimited.
	// Default: 0 (unlimited)
	MaxEntries int64 `yaml:"max_entries"`
}

// RedisConfig contains Redis connection configuration, shared by the
// redis cache backend and the redis limiter backend.
type RedisConfig struct {
	// Addr is the Redis server address (host:port).
	// Default: "localhost:6379"
	Addr string `yaml:"addr"`

	// Password authenticates against the server. Empty means no auth.
	// Default: ""
	Password string `yaml:"password"`

	// DB is the Redis database number.
	// Default: 0
	DB int `yaml:"db"`

	// DialTimeout bounds the startup connectivity check.
	// Default: 5s
	DialTimeout time.Duration `yaml:"dial_timeout"`
}

// UpstreamConfig contains configuration for the outbound HTTP client.
type UpstreamConfig struct {
	// Timeout bounds each upstream fetch, connection through body read.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`

	// MaxContentSize caps upstream body size in bytes. Larger pages are
	// rejected with 413 Content Too Large. 0 means unlimited.
	// Default: 5242880 (5MB)
	MaxContentSize int64 `yaml:"max_content_size"`

	// UserAgent is sent with every upstream request.
	// Default: "scribe/0.1"
	UserAgent string `yaml:"user_agent"`

	// MaxIdleConns is the connection pool size across all hosts.
	// Default: 100
	MaxIdleConns int `yaml:"max_idle_conns"`

	// MaxIdleConnsPerHost is the connection pool size per host.
	// Default: 10
	MaxIdleConnsPerHost int `yaml:"max_idle_conns_per_host"`

	// IdleConnTimeout is how long idle connections are kept pooled.
	// Default: 90s
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Health contains health check configuration.
	Health HealthConfig `yaml:"health"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true when the section is omitted entirely
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "inkwell"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "scribe"
	Subsystem string `yaml:"subsystem"`

	// RequestDurationBuckets defines histogram buckets for request
	// duration (seconds).
	// Default: [0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0]
	RequestDurationBuckets []float64 `yaml:"request_duration_buckets"`
}

// HealthConfig contains health check endpoint configuration.
type HealthConfig struct {
	// Enabled controls whether the readiness endpoint runs component
	// checks. The liveness endpoint always answers.
	// Default: true when the section is omitted entirely
	Enabled bool `yaml:"enabled"`

	// LivenessPath is the path for the liveness probe endpoint.
	// Default: "/health"
	LivenessPath string `yaml:"liveness_path"`

	// ReadinessPath is the path for the readiness probe endpoint.
	// Default: "/ready"
	ReadinessPath string `yaml:"readiness_path"`

	// CheckTimeout is the timeout for individual component health checks.
	// Default: 5s
	CheckTimeout time.Duration `yaml:"check_timeout"`
}

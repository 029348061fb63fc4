package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB

	// CORS defaults
	DefaultCORSEnabled = true
	DefaultCORSMaxAge  = 3600 // 1 hour

	// Limits defaults
	DefaultLimitsEnabled    = true
	DefaultLimitsBackend    = "memory"
	DefaultLimitsPerClient  = int64(60)
	DefaultLimitsWindow     = time.Minute
	DefaultLimitsSQLitePath = "data/limits.db"
	DefaultUpstreamBurst    = 1

	// Cache defaults
	DefaultCacheEnabled        = true
	DefaultCacheBackend        = "memory"
	DefaultCacheTTL            = time.Hour
	DefaultCacheMaxEntries     = 1024
	DefaultCacheSQLitePath     = "data/cache.db"
	DefaultRetentionSchedule   = "0 3 * * *"
	DefaultRetentionMaxAge     = 24 * time.Hour
	DefaultRetentionMaxEntries = int64(0)

	// Redis defaults
	DefaultRedisAddr        = "localhost:6379"
	DefaultRedisDialTimeout = 5 * time.Second

	// Upstream defaults
	DefaultUpstreamTimeout     = 10 * time.Second
	DefaultMaxContentSize      = int64(5 * 1024 * 1024) // 5MB
	DefaultUserAgent           = "scribe/0.1"
	DefaultMaxIdleConns        = 100
	DefaultMaxIdleConnsPerHost = 10
	DefaultIdleConnTimeout     = 90 * time.Second

	// Telemetry defaults
	DefaultLoggingLevel     = "info"
	DefaultLoggingFormat    = "json"
	DefaultMetricsEnabled   = true
	DefaultPrometheusPath   = "/metrics"
	DefaultMetricsNamespace = "inkwell"
	DefaultMetricsSubsystem = "scribe"
	DefaultHealthEnabled    = true
	DefaultLivenessPath     = "/health"
	DefaultReadinessPath    = "/ready"
	DefaultCheckTimeout     = 5 * time.Second
)

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}

	applyCORSDefaults(cfg)
	applyLimitsDefaults(cfg)
	applyCacheDefaults(cfg)

	// Redis defaults
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.DialTimeout == 0 {
		cfg.Redis.DialTimeout = DefaultRedisDialTimeout
	}

	// Upstream defaults
	if cfg.Upstream.Timeout == 0 {
		cfg.Upstream.Timeout = DefaultUpstreamTimeout
	}
	if cfg.Upstream.MaxContentSize == 0 {
		cfg.Upstream.MaxContentSize = DefaultMaxContentSize
	}
	if cfg.Upstream.UserAgent == "" {
		cfg.Upstream.UserAgent = DefaultUserAgent
	}
	if cfg.Upstream.MaxIdleConns == 0 {
		cfg.Upstream.MaxIdleConns = DefaultMaxIdleConns
	}
	if cfg.Upstream.MaxIdleConnsPerHost == 0 {
		cfg.Upstream.MaxIdleConnsPerHost = DefaultMaxIdleConnsPerHost
	}
	if cfg.Upstream.IdleConnTimeout == 0 {
		cfg.Upstream.IdleConnTimeout = DefaultIdleConnTimeout
	}

	// Logging defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}

	applyMetricsDefaults(cfg)
	applyHealthDefaults(cfg)
}

// applyCORSDefaults applies default values to CORS configuration.
// Enabled defaults to true only when the whole section is untouched,
// so an explicit "enabled: false" stays off.
func applyCORSDefaults(cfg *Config) {
	cors := &cfg.Server.CORS

	if !cors.Enabled {
		hasAnyConfig := len(cors.AllowedOrigins) > 0 ||
			len(cors.AllowedMethods) > 0 ||
			len(cors.AllowedHeaders) > 0 ||
			len(cors.ExposedHeaders) > 0 ||
			cors.MaxAge > 0

		if !hasAnyConfig {
			cors.Enabled = DefaultCORSEnabled
		}
	}

	if len(cors.AllowedOrigins) == 0 {
		cors.AllowedOrigins = []string{"*"}
	}
	if len(cors.AllowedMethods) == 0 {
		cors.AllowedMethods = []string{"GET", "OPTIONS"}
	}
	if len(cors.AllowedHeaders) == 0 {
		cors.AllowedHeaders = []string{"Content-Type", "X-Request-ID"}
	}
	if len(cors.ExposedHeaders) == 0 {
		cors.ExposedHeaders = []string{"X-Request-ID"}
	}
	if cors.MaxAge == 0 {
		cors.MaxAge = DefaultCORSMaxAge
	}
}

// applyLimitsDefaults applies default values to limits configuration.
func applyLimitsDefaults(cfg *Config) {
	l := &cfg.Limits

	if !l.Enabled {
		hasAnyConfig := l.Backend != "" ||
			l.PerClient > 0 ||
			l.Window > 0 ||
			l.SQLitePath != "" ||
			l.UpstreamRPS > 0

		if !hasAnyConfig {
			l.Enabled = DefaultLimitsEnabled
		}
	}

	if l.Backend == "" {
		l.Backend = DefaultLimitsBackend
	}
	if l.PerClient == 0 {
		l.PerClient = DefaultLimitsPerClient
	}
	if l.Window == 0 {
		l.Window = DefaultLimitsWindow
	}
	if l.SQLitePath == "" {
		l.SQLitePath = DefaultLimitsSQLitePath
	}
	if l.UpstreamBurst == 0 {
		l.UpstreamBurst = DefaultUpstreamBurst
	}
}

// applyCacheDefaults applies default values to cache configuration.
func applyCacheDefaults(cfg *Config) {
	c := &cfg.Cache

	if !c.Enabled {
		hasAnyConfig := c.Backend != "" ||
			c.TTL > 0 ||
			c.MaxEntries > 0 ||
			c.SQLitePath != "" ||
			c.Retention.PruneSchedule != "" ||
			c.Retention.MaxAge > 0 ||
			c.Retention.MaxEntries > 0

		if !hasAnyConfig {
			c.Enabled = DefaultCacheEnabled
		}
	}

	if c.Backend == "" {
		c.Backend = DefaultCacheBackend
	}
	if c.TTL == 0 {
		c.TTL = DefaultCacheTTL
	}
	if c.MaxEntries == 0 {
		c.MaxEntries = DefaultCacheMaxEntries
	}
	if c.SQLitePath == "" {
		c.SQLitePath = DefaultCacheSQLitePath
	}
	if c.Retention.PruneSchedule == "" {
		c.Retention.PruneSchedule = DefaultRetentionSchedule
	}
	if c.Retention.MaxAge == 0 {
		c.Retention.MaxAge = DefaultRetentionMaxAge
	}
	if c.Retention.MaxEntries == 0 {
		c.Retention.MaxEntries = DefaultRetentionMaxEntries
	}
}

// applyMetricsDefaults applies default values to metrics configuration.
func applyMetricsDefaults(cfg *Config) {
	m := &cfg.Telemetry.Metrics

	if !m.Enabled {
		hasAnyConfig := m.Path != "" ||
			m.Namespace != "" ||
			m.Subsystem != "" ||
			len(m.RequestDurationBuckets) > 0

		if !hasAnyConfig {
			m.Enabled = DefaultMetricsEnabled
		}
	}

	if m.Path == "" {
		m.Path = DefaultPrometheusPath
	}
	if m.Namespace == "" {
		m.Namespace = DefaultMetricsNamespace
	}
	if m.Subsystem == "" {
		m.Subsystem = DefaultMetricsSubsystem
	}
	// RequestDurationBuckets stays nil here; the metrics collector
	// applies its own bucket defaults.
}

// applyHealthDefaults applies default values to health configuration.
func applyHealthDefaults(cfg *Config) {
	h := &cfg.Telemetry.Health

	if !h.Enabled {
		hasAnyConfig := h.LivenessPath != "" ||
			h.ReadinessPath != "" ||
			h.CheckTimeout > 0

		if !hasAnyConfig {
			h.Enabled = DefaultHealthEnabled
		}
	}

	if h.LivenessPath == "" {
		h.LivenessPath = DefaultLivenessPath
	}
	if h.ReadinessPath == "" {
		h.ReadinessPath = DefaultReadinessPath
	}
	if h.CheckTimeout == 0 {
		h.CheckTimeout = DefaultCheckTimeout
	}
}

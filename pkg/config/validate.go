package config

import (
	"fmt"
	"strings"
	"time"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateTrust(&cfg.Trust)...)
	errs = append(errs, validateLimits(&cfg.Limits)...)
	errs = append(errs, validateCache(&cfg.Cache)...)
	errs = append(errs, validateRedis(cfg)...)
	errs = append(errs, validateUpstream(&cfg.Upstream)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateServer validates server configuration.
func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	}

	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.read_timeout",
			Message: "read timeout must be positive",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.write_timeout",
			Message: "write timeout must be positive",
		})
	}
	if cfg.IdleTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.idle_timeout",
			Message: "idle timeout must be positive",
		})
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.shutdown_timeout",
			Message: "shutdown timeout must be positive",
		})
	}

	if cfg.MaxHeaderBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_header_bytes",
			Message: "max header bytes must be non-negative",
		})
	}
	if cfg.MaxHeaderBytes > 10*1024*1024 { // 10MB is excessive
		errs = append(errs, FieldError{
			Field:   "server.max_header_bytes",
			Message: "max header bytes exceeds reasonable limit (10MB)",
		})
	}

	if cfg.CORS.Enabled {
		if len(cfg.CORS.AllowedOrigins) == 0 {
			errs = append(errs, FieldError{
				Field:   "server.cors.allowed_origins",
				Message: "at least one allowed origin is required when CORS is enabled",
			})
		}
		if cfg.CORS.MaxAge < 0 {
			errs = append(errs, FieldError{
				Field:   "server.cors.max_age",
				Message: "max age must be non-negative",
			})
		}
	}

	return errs
}

// validateTrust validates trust configuration. Entries are matched
// verbatim against Forwarded "by" directives, which RFC 7239 allows to
// be obfuscated tokens rather than addresses, so only blank entries are
// rejected.
func validateTrust(cfg *TrustConfig) []FieldError {
	var errs []FieldError

	for i, proxy := range cfg.TrustedProxies {
		if strings.TrimSpace(proxy) == "" {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("trust.trusted_proxies[%d]", i),
				Message: "trusted proxy must not be blank",
			})
		}
	}

	return errs
}

// validateLimits validates limits configuration.
func validateLimits(cfg *LimitsConfig) []FieldError {
	var errs []FieldError

	// If limits are disabled, skip validation
	if !cfg.Enabled {
		return errs
	}

	validBackends := map[string]bool{"memory": true, "sqlite": true, "redis": true}
	if cfg.Backend == "" {
		errs = append(errs, FieldError{
			Field:   "limits.backend",
			Message: "backend is required when limits are enabled",
		})
	} else if !validBackends[cfg.Backend] {
		errs = append(errs, FieldError{
			Field:   "limits.backend",
			Message: fmt.Sprintf("invalid backend %q: must be 'memory', 'sqlite', or 'redis'", cfg.Backend),
		})
	}

	if cfg.PerClient < 0 {
		errs = append(errs, FieldError{
			Field:   "limits.per_client",
			Message: "per client limit must be non-negative",
		})
	}
	if cfg.Window <= 0 {
		errs = append(errs, FieldError{
			Field:   "limits.window",
			Message: "window must be positive when limits are enabled",
		})
	}

	if cfg.Backend == "sqlite" && cfg.SQLitePath == "" {
		errs = append(errs, FieldError{
			Field:   "limits.sqlite_path",
			Message: "SQLite path is required when backend is 'sqlite'",
		})
	}

	if cfg.UpstreamRPS < 0 {
		errs = append(errs, FieldError{
			Field:   "limits.upstream_rps",
			Message: "upstream rps must be non-negative",
		})
	}
	if cfg.UpstreamBurst < 0 {
		errs = append(errs, FieldError{
			Field:   "limits.upstream_burst",
			Message: "upstream burst must be non-negative",
		})
	}

	return errs
}

// validateCache validates cache configuration.
func validateCache(cfg *CacheConfig) []FieldError {
	var errs []FieldError

	// If the cache is disabled, skip validation
	if !cfg.Enabled {
		return errs
	}

	validBackends := map[string]bool{"memory": true, "sqlite": true, "redis": true}
	if cfg.Backend == "" {
		errs = append(errs, FieldError{
			Field:   "cache.backend",
			Message: "backend is required when the cache is enabled",
		})
	} else if !validBackends[cfg.Backend] {
		errs = append(errs, FieldError{
			Field:   "cache.backend",
			Message: fmt.Sprintf("invalid backend %q: must be 'memory', 'sqlite', or 'redis'", cfg.Backend),
		})
	}

	if cfg.TTL < 0 {
		errs = append(errs, FieldError{
			Field:   "cache.ttl",
			Message: "ttl must be non-negative",
		})
	}
	if cfg.MaxEntries < 0 {
		errs = append(errs, FieldError{
			Field:   "cache.max_entries",
			Message: "max entries must be non-negative",
		})
	}

	if cfg.Backend == "sqlite" {
		if cfg.SQLitePath == "" {
			errs = append(errs, FieldError{
				Field:   "cache.sqlite_path",
				Message: "SQLite path is required when backend is 'sqlite'",
			})
		}
		if cfg.Retention.MaxAge < 0 {
			errs = append(errs, FieldError{
				Field:   "cache.retention.max_age",
				Message: "max age must be non-negative",
			})
		}
		if cfg.Retention.MaxEntries < 0 {
			errs = append(errs, FieldError{
				Field:   "cache.retention.max_entries",
				Message: "max entries must be non-negative",
			})
		}
		// The cron expression itself is validated by the retention
		// scheduler at startup.
	}

	return errs
}

// validateRedis validates Redis connection configuration. The section
// is only required when a redis backend is selected.
func validateRedis(cfg *Config) []FieldError {
	var errs []FieldError

	limitsUsesRedis := cfg.Limits.Enabled && cfg.Limits.Backend == "redis"
	cacheUsesRedis := cfg.Cache.Enabled && cfg.Cache.Backend == "redis"
	if !limitsUsesRedis && !cacheUsesRedis {
		return errs
	}

	if cfg.Redis.Addr == "" {
		errs = append(errs, FieldError{
			Field:   "redis.addr",
			Message: "Redis address is required when a redis backend is selected",
		})
	}
	if cfg.Redis.DB < 0 {
		errs = append(errs, FieldError{
			Field:   "redis.db",
			Message: "database number must be non-negative",
		})
	}
	if cfg.Redis.DialTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "redis.dial_timeout",
			Message: "dial timeout must be positive",
		})
	}

	return errs
}

// validateUpstream validates upstream client configuration.
func validateUpstream(cfg *UpstreamConfig) []FieldError {
	var errs []FieldError

	if cfg.Timeout <= 0 {
		errs = append(errs, FieldError{
			Field:   "upstream.timeout",
			Message: "timeout must be positive",
		})
	}
	if cfg.MaxContentSize < 0 {
		errs = append(errs, FieldError{
			Field:   "upstream.max_content_size",
			Message: "max content size must be non-negative",
		})
	}
	if cfg.MaxIdleConns < 0 {
		errs = append(errs, FieldError{
			Field:   "upstream.max_idle_conns",
			Message: "max idle conns must be non-negative",
		})
	}
	if cfg.MaxIdleConnsPerHost < 0 {
		errs = append(errs, FieldError{
			Field:   "upstream.max_idle_conns_per_host",
			Message: "max idle conns per host must be non-negative",
		})
	}
	if cfg.IdleConnTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "upstream.idle_conn_timeout",
			Message: "idle conn timeout must be positive",
		})
	}

	return errs
}

// validateTelemetry validates telemetry configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	// Validate logging level
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if cfg.Logging.Level == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: "logging level is required",
		})
	} else if !validLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	// Validate logging format
	validFormats := map[string]bool{"json": true, "text": true}
	if cfg.Logging.Format == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: "logging format is required",
		})
	} else if !validFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json' or 'text'", cfg.Logging.Format),
		})
	}

	// Validate metrics configuration
	if cfg.Metrics.Enabled {
		if cfg.Metrics.Path == "" {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.path",
				Message: "metrics path is required when metrics are enabled",
			})
		} else if cfg.Metrics.Path[0] != '/' {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.path",
				Message: "metrics path must start with /",
			})
		}

		for i := 1; i < len(cfg.Metrics.RequestDurationBuckets); i++ {
			if cfg.Metrics.RequestDurationBuckets[i] <= cfg.Metrics.RequestDurationBuckets[i-1] {
				errs = append(errs, FieldError{
					Field:   "telemetry.metrics.request_duration_buckets",
					Message: "buckets must be strictly increasing",
				})
				break
			}
		}
	}

	// Validate health check configuration
	if cfg.Health.Enabled {
		if cfg.Health.LivenessPath == "" {
			errs = append(errs, FieldError{
				Field:   "telemetry.health.liveness_path",
				Message: "liveness path is required when health checks are enabled",
			})
		}
		if cfg.Health.ReadinessPath == "" {
			errs = append(errs, FieldError{
				Field:   "telemetry.health.readiness_path",
				Message: "readiness path is required when health checks are enabled",
			})
		}

		if cfg.Health.LivenessPath != "" && cfg.Health.LivenessPath[0] != '/' {
			errs = append(errs, FieldError{
				Field:   "telemetry.health.liveness_path",
				Message: "liveness path must start with /",
			})
		}
		if cfg.Health.ReadinessPath != "" && cfg.Health.ReadinessPath[0] != '/' {
			errs = append(errs, FieldError{
				Field:   "telemetry.health.readiness_path",
				Message: "readiness path must start with /",
			})
		}

		if cfg.Health.CheckTimeout < 0 {
			errs = append(errs, FieldError{
				Field:   "telemetry.health.check_timeout",
				Message: "check timeout must be positive",
			})
		}
		if cfg.Health.CheckTimeout > 60*time.Second {
			errs = append(errs, FieldError{
				Field:   "telemetry.health.check_timeout",
				Message: "check timeout exceeds reasonable limit (60s)",
			})
		}
	}

	return errs
}

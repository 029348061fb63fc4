package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// The configuration is not modified by environment variables; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention SCRIBE_SECTION_FIELD (e.g., SCRIBE_SERVER_LISTEN_ADDRESS).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// LoadDefaultConfig builds a configuration from defaults and environment
// variable overrides alone, for running without a configuration file.
func LoadDefaultConfig() (*Config, error) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables use the format SCRIBE_SECTION_FIELD. Values that fail
// to parse are ignored, leaving the file value in place.
func applyEnvOverrides(cfg *Config) {
	// Server overrides
	if val := os.Getenv("SCRIBE_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("SCRIBE_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("SCRIBE_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if val := os.Getenv("SCRIBE_SERVER_IDLE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.IdleTimeout = d
		}
	}
	if val := os.Getenv("SCRIBE_SERVER_SHUTDOWN_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ShutdownTimeout = d
		}
	}
	if val := os.Getenv("SCRIBE_SERVER_MAX_HEADER_BYTES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Server.MaxHeaderBytes = i
		}
	}

	// Static overrides
	if val := os.Getenv("SCRIBE_STATIC_DIR"); val != "" {
		cfg.Static.Dir = val
	}

	// Trust overrides (comma-separated list)
	if val := os.Getenv("SCRIBE_TRUST_TRUSTED_PROXIES"); val != "" {
		var proxies []string
		for _, p := range strings.Split(val, ",") {
			if p = strings.TrimSpace(p); p != "" {
				proxies = append(proxies, p)
			}
		}
		cfg.Trust.TrustedProxies = proxies
	}

	// Limits overrides
	if val := os.Getenv("SCRIBE_LIMITS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Limits.Enabled = b
		}
	}
	if val := os.Getenv("SCRIBE_LIMITS_BACKEND"); val != "" {
		cfg.Limits.Backend = val
	}
	if val := os.Getenv("SCRIBE_LIMITS_PER_CLIENT"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Limits.PerClient = i
		}
	}
	if val := os.Getenv("SCRIBE_LIMITS_WINDOW"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Limits.Window = d
		}
	}
	if val := os.Getenv("SCRIBE_LIMITS_SQLITE_PATH"); val != "" {
		cfg.Limits.SQLitePath = val
	}
	if val := os.Getenv("SCRIBE_LIMITS_UPSTREAM_RPS"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Limits.UpstreamRPS = f
		}
	}
	if val := os.Getenv("SCRIBE_LIMITS_UPSTREAM_BURST"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Limits.UpstreamBurst = i
		}
	}

	// Cache overrides
	if val := os.Getenv("SCRIBE_CACHE_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Cache.Enabled = b
		}
	}
	if val := os.Getenv("SCRIBE_CACHE_BACKEND"); val != "" {
		cfg.Cache.Backend = val
	}
	if val := os.Getenv("SCRIBE_CACHE_TTL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Cache.TTL = d
		}
	}
	if val := os.Getenv("SCRIBE_CACHE_MAX_ENTRIES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Cache.MaxEntries = i
		}
	}
	if val := os.Getenv("SCRIBE_CACHE_SQLITE_PATH"); val != "" {
		cfg.Cache.SQLitePath = val
	}
	if val := os.Getenv("SCRIBE_CACHE_RETENTION_PRUNE_SCHEDULE"); val != "" {
		cfg.Cache.Retention.PruneSchedule = val
	}
	if val := os.Getenv("SCRIBE_CACHE_RETENTION_MAX_AGE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Cache.Retention.MaxAge = d
		}
	}

	// Redis overrides
	if val := os.Getenv("SCRIBE_REDIS_ADDR"); val != "" {
		cfg.Redis.Addr = val
	}
	if val := os.Getenv("SCRIBE_REDIS_PASSWORD"); val != "" {
		cfg.Redis.Password = val
	}
	if val := os.Getenv("SCRIBE_REDIS_DB"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Redis.DB = i
		}
	}

	// Upstream overrides
	if val := os.Getenv("SCRIBE_UPSTREAM_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Upstream.Timeout = d
		}
	}
	if val := os.Getenv("SCRIBE_UPSTREAM_MAX_CONTENT_SIZE"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Upstream.MaxContentSize = i
		}
	}
	if val := os.Getenv("SCRIBE_UPSTREAM_USER_AGENT"); val != "" {
		cfg.Upstream.UserAgent = val
	}

	// Telemetry overrides
	if val := os.Getenv("SCRIBE_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("SCRIBE_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("SCRIBE_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("SCRIBE_TELEMETRY_METRICS_PATH"); val != "" {
		cfg.Telemetry.Metrics.Path = val
	}
}

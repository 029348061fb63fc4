// Package config provides configuration management for Scribe.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides. It provides a type-safe
// configuration system with comprehensive validation and sensible defaults.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("config.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention SCRIBE_SECTION_FIELD.
// For example:
//
//   - SCRIBE_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - SCRIBE_LIMITS_PER_CLIENT overrides limits.per_client
//   - SCRIBE_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// Environment variables always take precedence over file-based configuration.
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Singleton Pattern
//
// For application-wide configuration access, use the singleton pattern:
//
//	// At application startup
//	if err := config.Initialize("config.yaml"); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Anywhere in the application
//	cfg := config.GetConfig()
//	fmt.Println(cfg.Server.ListenAddress)
//
// The configuration is immutable once initialized; components receive
// the sub-sections they need at construction time. For testing, prefer
// dependency injection with explicit Config instances rather than the
// global singleton.
//
// # Validation
//
// All configuration is validated automatically during loading. Validation includes:
//
//   - Required field checks (e.g., listen address, backend selections)
//   - Range validation (e.g., timeouts and sizes must be non-negative)
//   - Enum validation (e.g., backends, log levels, log formats)
//   - Conditional requirements (e.g., redis.addr when a redis backend is selected)
//
// Validation errors include field paths and helpful messages:
//
//	configuration validation failed with 2 errors:
//	  - limits.backend: invalid backend "postgres": must be 'memory', 'sqlite', or 'redis'
//	  - telemetry.logging.level: invalid logging level "trace": must be 'debug', 'info', 'warn', or 'error'
//
// # Example Configuration
//
// Here is a minimal configuration file:
//
//	server:
//	  listen_address: "127.0.0.1:8080"
//
//	trust:
//	  trusted_proxies:
//	    - "10.0.0.1"
//
//	limits:
//	  enabled: true
//	  backend: "memory"
//	  per_client: 60
//	  window: "1m"
//
//	cache:
//	  enabled: true
//	  backend: "sqlite"
//	  sqlite_path: "data/cache.db"
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "json"
//
// # Thread Safety
//
// All configuration access is thread-safe. The singleton uses a read-write
// lock so concurrent readers never block each other.
package config

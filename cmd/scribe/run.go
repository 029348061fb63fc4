package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"inkwell-hq/scribe/pkg/cache"
	"inkwell-hq/scribe/pkg/cache/retention"
	"inkwell-hq/scribe/pkg/cli"
	"inkwell-hq/scribe/pkg/config"
	"inkwell-hq/scribe/pkg/convert"
	"inkwell-hq/scribe/pkg/fetch"
	"inkwell-hq/scribe/pkg/gateway"
	"inkwell-hq/scribe/pkg/limits"
	"inkwell-hq/scribe/pkg/server"
	"inkwell-hq/scribe/pkg/telemetry/health"
	"inkwell-hq/scribe/pkg/telemetry/logging"
	"inkwell-hq/scribe/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the scribe conversion server",
	Long: `Start the scribe conversion server with the specified configuration.

The server listens on the configured address and answers GET requests
whose path is a target URL, returning the page converted to markdown or
structured JSON.

Examples:
  # Start with default config
  scribe run

  # Start with custom config
  scribe run --config /etc/scribe/config.yaml

  # Override listen address
  scribe run --listen 0.0.0.0:8080

  # Validate config without starting server
  scribe run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	// Load configuration. When the config flag is untouched and the
	// default file does not exist, run on defaults plus environment
	// overrides so a bare "scribe run" works out of the box.
	configPath := cfgFile
	if !rootCmd.PersistentFlags().Lookup("config").Changed {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = ""
		}
	}
	if err := config.Initialize(configPath); err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	} else if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger, err := logging.New(&cfg.Telemetry.Logging)
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger)

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	printBanner(cfg, configPath)

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)

	limiter, err := buildLimiter(cfg, collector.Registry())
	if err != nil {
		return err
	}
	if limiter != nil {
		defer limiter.Close()
		fmt.Printf("✓ Rate limiter ready (%s backend)\n", cfg.Limits.Backend)
	}

	pageCache, err := buildCache(cfg)
	if err != nil {
		return err
	}
	if pageCache != nil {
		defer pageCache.Close()
		fmt.Printf("✓ Cache ready (%s backend)\n", cfg.Cache.Backend)
	}

	// Start the retention pruner for the sqlite cache backend. Memory
	// cleans itself up and redis expires natively.
	if store, ok := pageCache.(*cache.SQLite); ok && cfg.Cache.Retention.PruneSchedule != "" {
		pruner := retention.NewPruner(store, &retention.Config{
			MaxAge:        cfg.Cache.Retention.MaxAge,
			PruneSchedule: cfg.Cache.Retention.PruneSchedule,
			MaxEntries:    cfg.Cache.Retention.MaxEntries,
		})
		if err := pruner.Start(context.Background()); err != nil {
			slog.Warn("failed to start retention scheduler", "error", err)
		} else {
			defer pruner.Stop()
			if next := pruner.NextPruning(); next != nil {
				slog.Debug("cache retention scheduler started", "next_pruning", next)
			}
		}
	}

	checker := health.New(cfg.Telemetry.Health.CheckTimeout)
	if pageCache != nil && cfg.Cache.Backend != "memory" {
		checker.RegisterCheck("cache", func(ctx context.Context) error {
			_, _, err := pageCache.Get(ctx, "health:probe")
			return err
		})
	}
	if checker.CheckCount() > 0 {
		slog.Debug("readiness checks registered", "checks", checker.ListChecks())
	}

	client := fetch.NewClient(fetch.Config{
		Timeout:             cfg.Upstream.Timeout,
		MaxBodyBytes:        cfg.Upstream.MaxContentSize,
		UserAgent:           cfg.Upstream.UserAgent,
		MaxIdleConns:        cfg.Upstream.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.Upstream.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.Upstream.IdleConnTimeout,
	})
	defer client.Close()

	gw, err := gateway.New(gateway.Config{
		TrustedProxies: cfg.Trust.TrustedProxies,
		Fetcher:        client,
		Converter:      convert.New(),
		Limiter:        limiter,
		Cache:          pageCache,
		Observer:       collector,
	})
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	srv := server.NewServer(cfg, gw, server.Options{
		Collector: collector,
		Checker:   checker,
		Version:   Version,
		Commit:    GitCommit,
		BuildTime: BuildDate,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(ctx); err != nil {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	if err := waitForServer(srv, errChan, 5*time.Second); err != nil {
		return cli.NewCommandError("run", err)
	}

	fmt.Println()
	fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
	if cfg.Telemetry.Health.Enabled {
		fmt.Printf("✓ Health endpoint: http://%s%s\n", cfg.Server.ListenAddress, cfg.Telemetry.Health.LivenessPath)
	}
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Printf("✓ Metrics endpoint: http://%s%s\n", cfg.Server.ListenAddress, cfg.Telemetry.Metrics.Path)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	sigChan := cli.WaitForShutdown()

	select {
	case err := <-errChan:
		return cli.NewCommandError("run", err)
	case sig := <-sigChan:
		fmt.Printf("\nReceived signal %s, shutting down gracefully...\n", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
			return cli.NewCommandError("run", err)
		}

		fmt.Println("✓ Server stopped")
		return nil
	}
}

// buildLimiter constructs the rate limiter chain from configuration:
// the per-client fixed-window limiter on the configured backend, plus
// the process-wide upstream limiter when one is configured. Returns
// nil when limiting is disabled.
func buildLimiter(cfg *config.Config, registry prometheus.Registerer) (limits.Limiter, error) {
	if !cfg.Limits.Enabled {
		return nil, nil
	}

	var perClient limits.Limiter
	switch cfg.Limits.Backend {
	case "memory":
		perClient = limits.NewMemory(&limits.MemoryConfig{
			Limit:  cfg.Limits.PerClient,
			Window: cfg.Limits.Window,
		})
	case "sqlite":
		var err error
		perClient, err = limits.NewSQLite(&limits.SQLiteConfig{
			Path:   cfg.Limits.SQLitePath,
			Limit:  cfg.Limits.PerClient,
			Window: cfg.Limits.Window,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create sqlite limiter: %w", err)
		}
	case "redis":
		var err error
		perClient, err = limits.NewRedis(&limits.RedisConfig{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			Limit:       cfg.Limits.PerClient,
			Window:      cfg.Limits.Window,
			DialTimeout: cfg.Redis.DialTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create redis limiter: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported limits backend: %s", cfg.Limits.Backend)
	}

	m := limits.NewMetrics(registry)
	chained := []limits.Limiter{limits.Instrument("per_client", perClient, m)}

	if cfg.Limits.UpstreamRPS > 0 {
		global := limits.NewGlobal(cfg.Limits.UpstreamRPS, cfg.Limits.UpstreamBurst)
		chained = append(chained, limits.Instrument("upstream", global, m))
	}

	return limits.NewChain(chained...), nil
}

// buildCache constructs the conversion result cache from
// configuration. Returns nil when caching is disabled.
func buildCache(cfg *config.Config) (cache.Cache, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}

	switch cfg.Cache.Backend {
	case "memory":
		return cache.NewMemory(cfg.Cache.TTL, cfg.Cache.MaxEntries), nil
	case "sqlite":
		sqliteConfig := cache.DefaultSQLiteConfig()
		sqliteConfig.Path = cfg.Cache.SQLitePath
		sqliteConfig.TTL = cfg.Cache.TTL

		store, err := cache.NewSQLite(sqliteConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create sqlite cache: %w", err)
		}
		return store, nil
	case "redis":
		store, err := cache.NewRedis(&cache.RedisConfig{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			TTL:         cfg.Cache.TTL,
			DialTimeout: cfg.Redis.DialTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create redis cache: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", cfg.Cache.Backend)
	}
}

func printBanner(cfg *config.Config, configPath string) {
	fmt.Printf("Scribe v%s\n", Version)
	if configPath != "" {
		fmt.Printf("Loading configuration from: %s\n", configPath)
	} else {
		fmt.Println("Loading configuration from defaults and environment")
	}
	fmt.Println("✓ Configuration loaded")

	slog.Debug("limits configured",
		"enabled", cfg.Limits.Enabled,
		"backend", cfg.Limits.Backend,
		"per_client", cfg.Limits.PerClient,
		"window", cfg.Limits.Window,
	)
	slog.Debug("cache configured",
		"enabled", cfg.Cache.Enabled,
		"backend", cfg.Cache.Backend,
		"ttl", cfg.Cache.TTL,
	)
	if len(cfg.Trust.TrustedProxies) > 0 {
		slog.Debug("forwarded headers trusted", "proxies", cfg.Trust.TrustedProxies)
	}
}

// waitForServer polls until the server reports running, the server
// fails, or the timeout elapses.
func waitForServer(srv *server.Server, errChan <-chan error, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		select {
		case err := <-errChan:
			return err
		default:
		}
		if srv.IsRunning() {
			return nil
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("server did not start within %s", timeout)
}

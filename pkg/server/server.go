// Package server assembles the HTTP front end for the conversion gateway.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"inkwell-hq/scribe/pkg/config"
	"inkwell-hq/scribe/pkg/gateway"
	"inkwell-hq/scribe/pkg/gateway/handlers"
	"inkwell-hq/scribe/pkg/gateway/middleware"
	"inkwell-hq/scribe/pkg/telemetry/health"
	"inkwell-hq/scribe/pkg/telemetry/metrics"
)

// Server is the HTTP server fronting the conversion gateway.
type Server struct {
	config       *config.Config
	gateway      *gateway.Gateway
	collector    *metrics.Collector
	checker      *health.Checker
	static       *handlers.Static
	opts         Options
	httpServer   *http.Server
	shutdownChan chan struct{}
	stopOnce     sync.Once
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// Options carries the optional collaborators wired in by the caller.
type Options struct {
	// Collector serves the Prometheus metrics endpoint and receives
	// per-request metrics. Nil disables both, regardless of the
	// metrics config section.
	Collector *metrics.Collector

	// Checker backs the readiness probe. Nil gets a fresh checker with
	// no registered checks, which always reports ready.
	Checker *health.Checker

	// Version, Commit, and BuildTime are reported by GET /version.
	Version   string
	Commit    string
	BuildTime string
}

// NewServer creates a server around an already-constructed gateway.
func NewServer(cfg *config.Config, g *gateway.Gateway, opts Options) *Server {
	checker := opts.Checker
	if checker == nil {
		checker = health.New(cfg.Telemetry.Health.CheckTimeout)
	}

	return &Server{
		config:       cfg,
		gateway:      g,
		collector:    opts.Collector,
		checker:      checker,
		static:       handlers.NewStatic(cfg.Static.Dir),
		opts:         opts,
		shutdownChan: make(chan struct{}),
		isRunning:    false,
	}
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	handler := s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:           s.config.Server.ListenAddress,
		Handler:        handler,
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		IdleTimeout:    s.config.Server.IdleTimeout,
		MaxHeaderBytes: s.config.Server.MaxHeaderBytes,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			"address", s.config.Server.ListenAddress,
			"static", s.static.Enabled(),
		)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		return err
	case <-s.shutdownChan:
		slog.Info("shutdown requested")
		return s.Shutdown(context.Background())
	}
}

// Stop requests a graceful shutdown from another goroutine. It returns
// immediately; Start performs the shutdown and returns its error.
func (s *Server) Stop() {
	s.stopOnce.Do(func() { close(s.shutdownChan) })
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		slog.Info("initiating graceful shutdown", "timeout", s.config.Server.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("server stopped")
	})

	return shutdownErr
}

// setupRoutes builds the dispatch handler and middleware chain.
//
// Target URLs keep their scheme separator ("/https://example.com"), a
// path http.ServeMux would clean and redirect away. Routes are
// therefore dispatched by hand: fixed paths first, everything else is
// a conversion request.
func (s *Server) setupRoutes() http.Handler {
	convert := handlers.NewConvert(s.gateway, s.collector)

	liveness := s.checker.LivenessHandler()
	readiness := s.checker.ReadinessHandler()
	version := health.VersionHandler(s.opts.Version, s.opts.Commit, s.opts.BuildTime)

	var metricsHandler http.Handler
	if s.collector != nil && s.config.Telemetry.Metrics.Enabled {
		metricsHandler = s.collector.Handler()
	}

	staticMounted := s.staticMountable()
	fileServer := s.static.FileServer()

	healthCfg := s.config.Telemetry.Health
	metricsPath := s.config.Telemetry.Metrics.Path

	dispatch := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		switch {
		case path == "/":
			s.static.ServeIndex(w, r)
		case healthCfg.Enabled && path == healthCfg.LivenessPath:
			liveness(w, r)
		case healthCfg.Enabled && path == healthCfg.ReadinessPath:
			readiness(w, r)
		case path == "/version":
			version(w, r)
		case metricsHandler != nil && path == metricsPath:
			metricsHandler.ServeHTTP(w, r)
		case path == "/favicon.ico":
			s.static.ServeFavicon(w, r)
		case staticMounted && strings.HasPrefix(path, "/static/"):
			fileServer.ServeHTTP(w, r)
		default:
			convert.ServeHTTP(w, r)
		}
	})

	// RequestID sits outside Logging so the access log lines carry
	// the request ID.
	var handler http.Handler = dispatch
	handler = middleware.Timeout(s.config.Server.WriteTimeout)(handler)
	handler = middleware.CORS(s.corsConfig())(handler)
	handler = middleware.Logging(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(handler)

	return handler
}

// staticMountable reports whether /static/ gets a file server. The
// mount wants a usable directory, signalled by a readable index.html;
// favicon and root handling stay per-request either way.
func (s *Server) staticMountable() bool {
	if !s.static.Enabled() {
		return false
	}

	index := filepath.Join(s.config.Static.Dir, "index.html")
	if info, err := os.Stat(index); err != nil || info.IsDir() {
		slog.Warn("static assets not mounted, index.html not readable",
			"dir", s.config.Static.Dir,
		)
		return false
	}
	return true
}

// corsConfig maps the YAML CORS section onto the middleware's config.
func (s *Server) corsConfig() *middleware.CORSConfig {
	c := s.config.Server.CORS
	return &middleware.CORSConfig{
		Enabled:        c.Enabled,
		AllowedOrigins: c.AllowedOrigins,
		AllowedMethods: c.AllowedMethods,
		AllowedHeaders: c.AllowedHeaders,
		ExposedHeaders: c.ExposedHeaders,
		MaxAge:         c.MaxAge,
	}
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the configured HTTP handler. It is intended for
// tests that drive the server through httptest without a listener.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

// Package health provides liveness and readiness probes for scribe.
//
// # Liveness vs Readiness
//
// The liveness endpoint answers one question: is the process running? It
// never consults components and always returns 200 with the fixed body
// {"status":"ok"}. Restarting on liveness failure is safe.
//
// The readiness endpoint runs every registered component check and
// answers a different question: should this instance receive traffic?
// Any unhealthy component degrades the whole response to 503 so load
// balancers drain the instance while it stays alive.
//
// # Checks
//
// Components register named checks at startup:
//
//	checker := health.New(cfg.Telemetry.Health.CheckTimeout)
//	checker.RegisterCheck("cache", func(ctx context.Context) error {
//		_, _, err := pageCache.Get(ctx, "health:probe")
//		return err
//	})
//
// Checks run concurrently with a per-check timeout; a stuck backend
// cannot wedge the probe.
//
// # Endpoints
//
//	GET /health  -> 200 {"status":"ok"}
//	GET /ready   -> 200 {"status":"ready", ...} or 503 {"status":"degraded", ...}
//	GET /version -> 200 build information
package health

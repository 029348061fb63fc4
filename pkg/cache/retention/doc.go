// Package retention prunes aged conversion results from persistent
// cache backends on a cron schedule.
//
// Only backends without native expiry need a pruner: the in-memory
// cache sweeps itself and Redis expires keys server-side, but the
// SQLite backend keeps rows until something deletes them. The Pruner
// runs two phases per cycle: entries older than MaxAge go first, then
// the oldest entries beyond MaxEntries.
package retention

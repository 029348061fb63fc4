// Package cache stores serialized conversion results keyed by a
// fingerprint of the source URL and the output variant.
//
// # Keys
//
// NewKey builds the cache key as hex(SHA-256(url)) + ":" + variant.
// The two output variants of the same URL never share a key, and the
// key never depends on who requested the conversion.
//
// # Backends
//
// Three implementations of Cache ship with the service:
//
//   - Memory: in-process map with TTL expiry and LRU eviction
//   - SQLite: single-file persistent store in WAL mode
//   - Redis: shared store for multi-instance deployments
//
// Get distinguishes "key absent" from "key present with an empty
// payload": empty conversion results are cached like any other.
//
// # Thread Safety
//
// All backends are safe for concurrent use.
package cache

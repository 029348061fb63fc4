// Package forwarded parses RFC 7239 Forwarded headers and resolves the
// client identity of a request behind known proxies.
//
// # Header Parsing
//
// Parse splits a Forwarded header into its hops, one per proxy that
// handled the request. Each hop is a map of lowercased directive names
// ("for", "by", "proto", "host") to their values. Port suffixes are
// stripped from "for" and "by" so values compare cleanly against
// configured proxy addresses:
//
//	hops := forwarded.Parse("proto=https;for=203.0.113.7:60677;by=198.51.100.4")
//	// hops[0]["for"] == "203.0.113.7"
//
// Parse never fails: malformed fragments are skipped and an empty or
// unparseable header yields no hops.
//
// # Client Identity
//
// Resolver decides which address identifies the client. With no trusted
// proxies configured it always returns the direct peer address and the
// header is never consulted. Otherwise only the last hop counts, and its
// "for" value is used only when its "by" value names a trusted proxy.
// Earlier hops are client-controlled and ignored:
//
//	resolver := forwarded.NewResolver([]string{"198.51.100.4"})
//	ip := resolver.ClientIP(req)
//
// # Thread Safety
//
// Parse is a pure function. Resolver is immutable after construction and
// safe for concurrent use.
package forwarded

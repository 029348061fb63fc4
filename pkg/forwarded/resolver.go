package forwarded

import (
	"net"
	"net/http"
	"strings"
)

// UnknownClient is reported when a request carries no usable peer
// address at all.
const UnknownClient = "unknown"

// Resolver resolves the client identity of a request. It trusts the
// Forwarded header only when the header's last hop was added by one of
// the configured proxy addresses.
type Resolver struct {
	trusted map[string]struct{}
}

// NewResolver builds a Resolver that trusts the given proxy addresses.
// Blank entries are ignored. With no trusted proxies the resolver
// always reports the direct peer address.
func NewResolver(trustedProxies []string) *Resolver {
	trusted := make(map[string]struct{}, len(trustedProxies))
	for _, p := range trustedProxies {
		p = strings.TrimSpace(p)
		if p != "" {
			trusted[p] = struct{}{}
		}
	}
	return &Resolver{trusted: trusted}
}

// Resolve returns the client identity given the direct peer address and
// the raw Forwarded header. Only the last hop of the header is
// consulted: its "for" value wins when its "by" value names a trusted
// proxy, otherwise the direct address stands. Earlier hops are
// client-controlled and never examined.
func (r *Resolver) Resolve(directIP, header string) string {
	if len(r.trusted) == 0 || header == "" {
		return directIP
	}

	hops := Parse(header)
	if len(hops) == 0 {
		return directIP
	}

	last := hops[len(hops)-1]
	by := last["by"]
	if by == "" {
		return directIP
	}
	if _, ok := r.trusted[by]; !ok {
		return directIP
	}
	if forValue, ok := last["for"]; ok {
		return forValue
	}
	return directIP
}

// ClientIP resolves the client identity of an HTTP request.
func (r *Resolver) ClientIP(req *http.Request) string {
	return r.Resolve(DirectIP(req), req.Header.Get(HeaderName))
}

// DirectIP returns the peer address of the connection the request
// arrived on, without the port. Requests with no peer address report
// UnknownClient.
func DirectIP(req *http.Request) string {
	if req == nil || req.RemoteAddr == "" {
		return UnknownClient
	}
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil || host == "" {
		return req.RemoteAddr
	}
	return host
}

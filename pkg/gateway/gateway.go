package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"inkwell-hq/scribe/pkg/cache"
	"inkwell-hq/scribe/pkg/convert"
	"inkwell-hq/scribe/pkg/fetch"
	"inkwell-hq/scribe/pkg/forwarded"
	"inkwell-hq/scribe/pkg/limits"
)

// Fetcher retrieves one upstream document. *fetch.Client satisfies
// this interface.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*fetch.Result, error)
}

// Converter renders fetched HTML into an output variant.
// *convert.Converter satisfies this interface.
type Converter interface {
	Markdown(rawHTML string) (string, error)
	Document(rawHTML string) (*convert.Document, error)
}

// Observer receives fetch telemetry. Implementations must be safe for
// concurrent use. *metrics.Collector satisfies this interface.
type Observer interface {
	// ObserveFetch records one upstream fetch attempt. outcome is
	// "ok" or the failure kind; duration covers the fetch alone.
	ObserveFetch(host, outcome string, duration time.Duration, bodyBytes int)
}

// Config contains the gateway's collaborators and trust settings.
type Config struct {
	// TrustedProxies lists proxy IPs whose Forwarded headers are
	// honored when resolving client identity.
	TrustedProxies []string

	// Fetcher retrieves upstream documents. Required.
	Fetcher Fetcher

	// Converter renders fetched documents. Required.
	Converter Converter

	// Limiter admits or rejects requests per client identity.
	// Nil means no rate limiting.
	Limiter limits.Limiter

	// Cache stores serialized conversion results.
	// Nil means every request is a miss and nothing is stored.
	Cache cache.Cache

	// Observer receives fetch telemetry. Nil means no instrumentation.
	Observer Observer
}

// Gateway runs the conversion pipeline. Safe for concurrent use.
type Gateway struct {
	resolver  *forwarded.Resolver
	limiter   limits.Limiter
	cache     cache.Cache
	fetcher   Fetcher
	converter Converter
	observer  Observer
	logger    *slog.Logger
}

// New creates a conversion gateway.
func New(config Config) (*Gateway, error) {
	if config.Fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}
	if config.Converter == nil {
		return nil, fmt.Errorf("converter is required")
	}

	return &Gateway{
		resolver:  forwarded.NewResolver(config.TrustedProxies),
		limiter:   config.Limiter,
		cache:     config.Cache,
		fetcher:   config.Fetcher,
		converter: config.Converter,
		observer:  config.Observer,
		logger:    slog.Default().With("component", "gateway"),
	}, nil
}

// Convert runs the pipeline for one request. The returned error is
// always a classified *Error.
func (g *Gateway) Convert(ctx context.Context, req *Request) (*Result, error) {
	// Identity only matters for rate limiting, so both steps are
	// skipped together when no limiter is configured.
	if g.limiter != nil {
		identity := g.resolver.Resolve(req.DirectIP, req.ForwardedHeader)

		decision, err := g.limiter.Admit(ctx, identity)
		if err != nil {
			// Limiter backend errors fail open.
			g.logger.Warn("rate limiter unavailable, admitting request",
				"error", err,
				"identity", identity,
			)
		} else if !decision.Allowed {
			g.logger.Info("rate limit exceeded",
				"identity", identity,
				"retry_after", decision.RetryAfter,
			)
			return nil, &Error{
				Kind:       KindRateLimited,
				Detail:     "Rate limit exceeded",
				RetryAfter: decision.RetryAfter,
			}
		}
	}

	target, gerr := CleanURL(req.RawURL)
	if gerr != nil {
		return nil, gerr
	}

	key := cache.NewKey(target, string(req.Variant))

	if g.cache != nil {
		payload, ok, err := g.cache.Get(ctx, key)
		if err != nil {
			g.logger.Warn("cache lookup failed, treating as miss", "error", err)
		} else if ok {
			g.logger.Debug("cache hit", "url", target, "variant", req.Variant)
			return &Result{
				Payload:     payload,
				ContentType: req.Variant.ContentType(),
				CacheHit:    true,
			}, nil
		}
	}

	begin := time.Now()
	fetched, err := g.fetcher.Fetch(ctx, target)
	if err != nil {
		gerr := Classify(err)
		g.observeFetch(target, string(gerr.Kind), time.Since(begin), 0)
		return nil, gerr
	}
	g.observeFetch(target, "ok", time.Since(begin), len(fetched.Body))

	payload, err := g.render(fetched.Body, req.Variant)
	if err != nil {
		return nil, Classify(err)
	}

	// Empty results are stored too, so markdown and JSON stay
	// consistent for the same URL.
	if g.cache != nil {
		if err := g.cache.Set(ctx, key, payload); err != nil {
			g.logger.Warn("cache store failed", "error", err)
		}
	}

	g.logger.Debug("converted",
		"url", target,
		"variant", req.Variant,
		"bytes", len(payload),
	)

	return &Result{
		Payload:     payload,
		ContentType: req.Variant.ContentType(),
	}, nil
}

// observeFetch reports one fetch attempt to the observer, labeled with
// the target's host.
func (g *Gateway) observeFetch(target, outcome string, d time.Duration, bodyBytes int) {
	if g.observer == nil {
		return
	}
	host := "unknown"
	if u, err := url.Parse(target); err == nil && u.Host != "" {
		host = u.Host
	}
	g.observer.ObserveFetch(host, outcome, d, bodyBytes)
}

// render serializes the fetched document for the requested variant.
func (g *Gateway) render(body []byte, variant Variant) ([]byte, error) {
	switch variant {
	case VariantJSON:
		doc, err := g.converter.Document(string(body))
		if err != nil {
			return nil, fmt.Errorf("convert document: %w", err)
		}
		payload, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("marshal document: %w", err)
		}
		return payload, nil
	default:
		md, err := g.converter.Markdown(string(body))
		if err != nil {
			return nil, fmt.Errorf("convert markdown: %w", err)
		}
		return []byte(md), nil
	}
}

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"inkwell-hq/scribe/pkg/forwarded"
	"inkwell-hq/scribe/pkg/gateway"
	"inkwell-hq/scribe/pkg/telemetry/metrics"
)

// pageCache is the metric label for the conversion result cache.
const pageCache = "page"

// ConvertHandler serves the conversion route: every path that is not a
// reserved endpoint names a target URL to fetch and convert.
type ConvertHandler struct {
	gateway   *gateway.Gateway
	collector *metrics.Collector
}

// NewConvert creates the conversion handler. collector may be nil, in
// which case no metrics are recorded.
func NewConvert(g *gateway.Gateway, collector *metrics.Collector) *ConvertHandler {
	return &ConvertHandler{gateway: g, collector: collector}
}

// ServeHTTP handles GET /{target-url}?format={markdown|json}.
func (h *ConvertHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	begin := time.Now()

	variant, err := gateway.ParseVariant(r.URL.Query().Get("format"))
	if err != nil {
		h.fail(w, begin, "invalid", gateway.Classify(err))
		return
	}

	// EscapedPath keeps the target URL exactly as the client sent it;
	// the pipeline decides how to decode it.
	req := &gateway.Request{
		RawURL:          strings.TrimPrefix(r.URL.EscapedPath(), "/"),
		Variant:         variant,
		DirectIP:        forwarded.DirectIP(r),
		ForwardedHeader: r.Header.Get(forwarded.HeaderName),
	}

	result, err := h.gateway.Convert(r.Context(), req)
	if err != nil {
		h.fail(w, begin, string(variant), gateway.Classify(err))
		return
	}

	if h.collector != nil {
		if result.CacheHit {
			h.collector.RecordCacheHit(pageCache)
		} else {
			h.collector.RecordCacheMiss(pageCache)
		}
		h.collector.RecordRequest(string(variant), http.StatusOK, time.Since(begin), len(result.Payload))
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Payload)
}

// fail writes the classified error and records the request. The cause
// of internal errors is logged here because the response body never
// carries it.
func (h *ConvertHandler) fail(w http.ResponseWriter, begin time.Time, variant string, gerr *gateway.Error) {
	status := gerr.HTTPStatus()

	if gerr.Kind == gateway.KindInternal {
		slog.Error("conversion failed", "error", gerr)
	}

	if gerr.RetryAfter > 0 {
		seconds := int((gerr.RetryAfter + time.Second - 1) / time.Second)
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	if h.collector != nil {
		h.collector.RecordRequest(variant, status, time.Since(begin), 0)
	}

	writeDetail(w, status, gerr.Detail)
}

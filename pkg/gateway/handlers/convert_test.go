package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"inkwell-hq/scribe/pkg/config"
	"inkwell-hq/scribe/pkg/convert"
	"inkwell-hq/scribe/pkg/fetch"
	"inkwell-hq/scribe/pkg/gateway"
	"inkwell-hq/scribe/pkg/limits"
	"inkwell-hq/scribe/pkg/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

const testPage = `<html>
<head><title>Test Page</title></head>
<body>
<h1>Heading</h1>
<p>Some <strong>bold</strong> text.</p>
</body>
</html>`

// testUpstream serves testPage.
func testUpstream(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(testPage))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// newConvertHandler builds a handler on real collaborators. Limiter
// and collector may be nil.
func newConvertHandler(t *testing.T, limiter limits.Limiter, collector *metrics.Collector) *ConvertHandler {
	t.Helper()

	client := fetch.NewClient(fetch.Config{
		Timeout:      2 * time.Second,
		MaxBodyBytes: 1 << 20,
	})
	t.Cleanup(func() { client.Close() })

	cfg := gateway.Config{
		Fetcher:   client,
		Converter: convert.New(),
		Limiter:   limiter,
	}
	if collector != nil {
		cfg.Observer = collector
	}

	g, err := gateway.New(cfg)
	if err != nil {
		t.Fatalf("gateway.New() failed: %v", err)
	}
	return NewConvert(g, collector)
}

// convertRequest builds GET /{target} with a fixed client address.
func convertRequest(target string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/"+target, nil)
	req.RemoteAddr = "203.0.113.7:51000"
	return req
}

// decodeDetail parses a {"detail": "..."} error body.
func decodeDetail(t *testing.T, body []byte) string {
	t.Helper()
	var payload map[string]string
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("failed to parse error body %q: %v", body, err)
	}
	return payload["detail"]
}

func TestConvertHandler_MarkdownSuccess(t *testing.T) {
	srv := testUpstream(t)
	h := newConvertHandler(t, nil, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, convertRequest(srv.URL))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Errorf("Content-Type = %q, want text/plain", ct)
	}
	if !strings.Contains(rec.Body.String(), "# Heading") {
		t.Errorf("body missing heading:\n%s", rec.Body.String())
	}
}

func TestConvertHandler_JSONVariant(t *testing.T) {
	srv := testUpstream(t)
	h := newConvertHandler(t, nil, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, convertRequest(srv.URL+"?format=json"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var doc convert.Document
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("body is not valid JSON: %v", err)
	}
	if doc.Title != "Test Page" {
		t.Errorf("Title = %q, want Test Page", doc.Title)
	}
}

func TestConvertHandler_InvalidFormat(t *testing.T) {
	h := newConvertHandler(t, nil, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, convertRequest("https://example.com?format=xml"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	detail := decodeDetail(t, rec.Body.Bytes())
	if detail != "Invalid format: must be 'markdown' or 'json'" {
		t.Errorf("detail = %q", detail)
	}
}

func TestConvertHandler_MethodNotAllowed(t *testing.T) {
	h := newConvertHandler(t, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/https://example.com", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	if detail := decodeDetail(t, rec.Body.Bytes()); detail != "Method Not Allowed" {
		t.Errorf("detail = %q", detail)
	}
}

func TestConvertHandler_InvalidURL(t *testing.T) {
	h := newConvertHandler(t, nil, nil)

	tests := []struct {
		name   string
		target string
		detail string
	}{
		{"not a url", "not-a-url", "Invalid URL format"},
		{"unsupported scheme", "ftp://example.com/file", "Only HTTP(S) URLs are supported"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, convertRequest(tt.target))

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if detail := decodeDetail(t, rec.Body.Bytes()); detail != tt.detail {
				t.Errorf("detail = %q, want %q", detail, tt.detail)
			}
		})
	}
}

func TestConvertHandler_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	h := newConvertHandler(t, nil, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, convertRequest(srv.URL))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if detail := decodeDetail(t, rec.Body.Bytes()); detail != "Upstream error: 500" {
		t.Errorf("detail = %q", detail)
	}
}

func TestConvertHandler_RateLimited(t *testing.T) {
	srv := testUpstream(t)

	limiter := limits.NewMemory(&limits.MemoryConfig{Limit: 1, Window: time.Minute})
	defer limiter.Close()

	h := newConvertHandler(t, limiter, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, convertRequest(srv.URL))
	if rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, convertRequest(srv.URL))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", rec.Code)
	}
	if detail := decodeDetail(t, rec.Body.Bytes()); detail != "Rate limit exceeded" {
		t.Errorf("detail = %q", detail)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header on 429")
	}
}

func TestConvertHandler_RecordsMetrics(t *testing.T) {
	srv := testUpstream(t)

	collector := metrics.NewCollector(&config.MetricsConfig{
		Enabled:   true,
		Namespace: "test",
		Subsystem: "handlers",
	}, prometheus.NewRegistry())

	h := newConvertHandler(t, nil, collector)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, convertRequest(srv.URL))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	scrape := httptest.NewRecorder()
	collector.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	exposition := scrape.Body.String()
	if !strings.Contains(exposition, `test_handlers_requests_total{status="200",variant="markdown"} 1`) {
		t.Errorf("missing request series in exposition:\n%s", exposition)
	}
	if !strings.Contains(exposition, `test_handlers_cache_misses_total{cache="page"} 1`) {
		t.Errorf("missing cache miss series in exposition:\n%s", exposition)
	}
	if !strings.Contains(exposition, "test_handlers_upstream_fetches_total") {
		t.Errorf("missing upstream series in exposition:\n%s", exposition)
	}
}

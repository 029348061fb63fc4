package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTimeout(t *testing.T) {
	t.Run("fast handler unaffected", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("fast"))
		})

		wrapped := Timeout(time.Second)(handler)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		w := httptest.NewRecorder()

		wrapped.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Status code = %v, want %v", w.Code, http.StatusOK)
		}
		if w.Body.String() != "fast" {
			t.Errorf("Body = %q, want fast", w.Body.String())
		}
		if ct := w.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
			t.Errorf("Content-Type = %q, handler headers must survive", ct)
		}
	})

	t.Run("handler panic propagates", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		})

		wrapped := Timeout(time.Second)(handler)

		defer func() {
			if recover() == nil {
				t.Error("panic did not propagate through the middleware")
			}
		}()
		wrapped.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))
	})

	t.Run("slow handler gets 504", func(t *testing.T) {
		// The handler ignores cancellation so the timeout path is the
		// only way out.
		blocked := make(chan struct{})
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-blocked
		})
		defer close(blocked)

		wrapped := Timeout(20 * time.Millisecond)(handler)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		w := httptest.NewRecorder()

		wrapped.ServeHTTP(w, req)

		if w.Code != http.StatusGatewayTimeout {
			t.Errorf("Status code = %v, want %v", w.Code, http.StatusGatewayTimeout)
		}

		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("Body is not JSON: %v", err)
		}
		if body["detail"] != "Request timeout" {
			t.Errorf("detail = %q, want %q", body["detail"], "Request timeout")
		}
	})

	t.Run("handler sees context cancellation", func(t *testing.T) {
		cancelled := make(chan struct{})
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
			close(cancelled)
		})

		wrapped := Timeout(20 * time.Millisecond)(handler)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		w := httptest.NewRecorder()

		wrapped.ServeHTTP(w, req)

		select {
		case <-cancelled:
		case <-time.After(time.Second):
			t.Error("handler never observed context cancellation")
		}
	})

	t.Run("zero timeout disables the middleware", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := r.Context().Deadline(); ok {
				t.Error("request context has a deadline with timeout disabled")
			}
			w.WriteHeader(http.StatusOK)
		})

		wrapped := Timeout(0)(handler)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		w := httptest.NewRecorder()

		wrapped.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Status code = %v, want %v", w.Code, http.StatusOK)
		}
	})
}

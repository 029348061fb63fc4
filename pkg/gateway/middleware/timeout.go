package middleware

import (
	"bytes"
	"context"
	"net/http"
	"time"
)

// bufferedWriter collects the handler's response so the timeout path
// never touches the same connection state as a still-running handler.
// Only the handler goroutine writes to it; the serving goroutine reads
// it after the handler is done.
type bufferedWriter struct {
	header http.Header
	body   bytes.Buffer
	code   int
}

func (bw *bufferedWriter) Header() http.Header {
	return bw.header
}

func (bw *bufferedWriter) WriteHeader(code int) {
	if bw.code == 0 {
		bw.code = code
	}
}

func (bw *bufferedWriter) Write(b []byte) (int, error) {
	if bw.code == 0 {
		bw.code = http.StatusOK
	}
	return bw.body.Write(b)
}

func (bw *bufferedWriter) flush(w http.ResponseWriter) {
	dst := w.Header()
	for key, values := range bw.header {
		dst[key] = values
	}
	if bw.code == 0 {
		bw.code = http.StatusOK
	}
	w.WriteHeader(bw.code)
	_, _ = w.Write(bw.body.Bytes())
}

// Timeout enforces a per-request deadline. Handlers observe it as
// context cancellation and their output is buffered; one that overruns
// anyway has its late output discarded while the client gets a 504.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if timeout <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			bw := &bufferedWriter{header: make(http.Header)}

			done := make(chan struct{})
			panicChan := make(chan any, 1)
			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicChan <- p
					}
				}()
				next.ServeHTTP(bw, r.WithContext(ctx))
				close(done)
			}()

			select {
			case p := <-panicChan:
				panic(p)
			case <-done:
				bw.flush(w)
			case <-ctx.Done():
				// Client disconnects cancel the context too; only a
				// deadline warrants a timeout response.
				if ctx.Err() == context.DeadlineExceeded {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusGatewayTimeout)
					_, _ = w.Write([]byte(`{"detail": "Request timeout"}` + "\n"))
				}
			}
		})
	}
}

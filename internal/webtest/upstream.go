package webtest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// Upstream is a fake origin site for gateway tests. It serves
// configured pages by path and counts the requests it receives, so
// tests can assert that cached results never reach the origin.
type Upstream struct {
	server *httptest.Server
	pages  map[string]Page
	hits   map[string]int
	mu     sync.Mutex
}

// Page defines the response served for one path.
type Page struct {
	StatusCode  int
	ContentType string
	Body        string
	Delay       time.Duration
	Headers     map[string]string
}

// NewUpstream creates a fake origin site listening on a local port.
func NewUpstream() *Upstream {
	u := &Upstream{
		pages: make(map[string]Page),
		hits:  make(map[string]int),
	}

	u.server = httptest.NewServer(http.HandlerFunc(u.handler))

	return u
}

// URL returns the origin's base URL, including the http scheme.
func (u *Upstream) URL() string {
	return u.server.URL
}

// Close shuts the origin down.
func (u *Upstream) Close() {
	u.server.Close()
}

// SetPage configures the response for a path.
func (u *Upstream) SetPage(path string, page Page) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.pages[path] = page
}

// Hits returns how many requests a path has received.
func (u *Upstream) Hits(path string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.hits[path]
}

// TotalHits returns how many requests the origin has received in total.
func (u *Upstream) TotalHits() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	total := 0
	for _, n := range u.hits {
		total += n
	}
	return total
}

// ResetHits clears all request counters.
func (u *Upstream) ResetHits() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.hits = make(map[string]int)
}

func (u *Upstream) handler(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	u.hits[r.URL.Path]++
	page, ok := u.pages[r.URL.Path]
	u.mu.Unlock()

	if !ok {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, "<html><body><h1>Not Found</h1></body></html>")
		return
	}

	if page.Delay > 0 {
		select {
		case <-time.After(page.Delay):
		case <-r.Context().Done():
			return
		}
	}

	for key, value := range page.Headers {
		w.Header().Set(key, value)
	}

	contentType := page.ContentType
	if contentType == "" {
		contentType = "text/html; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)

	status := page.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)

	fmt.Fprint(w, page.Body)
}

// ArticleHTML builds a minimal article page with a title, one heading,
// one paragraph, and one link, enough to exercise every Document field.
func ArticleHTML(title, heading, paragraph string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><title>%s</title></head>
<body>
<h1>%s</h1>
<p>%s</p>
<p><a href="https://example.com/more">Read more</a></p>
</body>
</html>`, title, heading, paragraph)
}

// ErrorPage returns a page that answers with the given status code.
func ErrorPage(statusCode int) Page {
	return Page{
		StatusCode: statusCode,
		Body:       fmt.Sprintf("<html><body><h1>%d</h1></body></html>", statusCode),
	}
}

// SlowPage returns a page that waits before answering. Useful for
// exercising upstream timeouts.
func SlowPage(body string, delay time.Duration) Page {
	return Page{
		Body:  body,
		Delay: delay,
	}
}

// RedirectPage returns a page that redirects to location.
func RedirectPage(location string) Page {
	return Page{
		StatusCode: http.StatusFound,
		Headers:    map[string]string{"Location": location},
	}
}

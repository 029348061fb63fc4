package handlers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeStaticDir creates a static directory with the given files.
func writeStaticDir(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return dir
}

func TestStatic_Enabled(t *testing.T) {
	if NewStatic("").Enabled() {
		t.Error("Enabled() = true for empty dir")
	}
	if !NewStatic("/srv/static").Enabled() {
		t.Error("Enabled() = false for configured dir")
	}
}

func TestStatic_ServeIndex_NoDirectory(t *testing.T) {
	s := NewStatic("")

	rec := httptest.NewRecorder()
	s.ServeIndex(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No static directory configured") {
		t.Errorf("body = %q", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
}

func TestStatic_ServeIndex_ServesFile(t *testing.T) {
	dir := writeStaticDir(t, map[string]string{
		"index.html": "<html><body>Welcome</body></html>",
	})
	s := NewStatic(dir)

	rec := httptest.NewRecorder()
	s.ServeIndex(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Welcome") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestStatic_ServeIndex_MissingIndex(t *testing.T) {
	dir := writeStaticDir(t, map[string]string{
		"favicon.ico": "icon-bytes",
	})
	s := NewStatic(dir)

	rec := httptest.NewRecorder()
	s.ServeIndex(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No static directory configured") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestStatic_ServeIndex_MethodNotAllowed(t *testing.T) {
	s := NewStatic("")

	rec := httptest.NewRecorder()
	s.ServeIndex(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestStatic_ServeFavicon_Missing(t *testing.T) {
	dir := writeStaticDir(t, map[string]string{
		"index.html": "<html></html>",
	})
	s := NewStatic(dir)

	rec := httptest.NewRecorder()
	s.ServeFavicon(rec, httptest.NewRequest(http.MethodGet, "/favicon.ico", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if detail := decodeDetail(t, rec.Body.Bytes()); detail != "Favicon not found" {
		t.Errorf("detail = %q", detail)
	}
}

func TestStatic_ServeFavicon_NoDirectory(t *testing.T) {
	s := NewStatic("")

	rec := httptest.NewRecorder()
	s.ServeFavicon(rec, httptest.NewRequest(http.MethodGet, "/favicon.ico", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if detail := decodeDetail(t, rec.Body.Bytes()); detail != "Favicon not found" {
		t.Errorf("detail = %q", detail)
	}
}

func TestStatic_ServeFavicon_Present(t *testing.T) {
	dir := writeStaticDir(t, map[string]string{
		"favicon.ico": "icon-bytes",
	})
	s := NewStatic(dir)

	rec := httptest.NewRecorder()
	s.ServeFavicon(rec, httptest.NewRequest(http.MethodGet, "/favicon.ico", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "icon-bytes" {
		t.Errorf("body = %q, want icon bytes", rec.Body.String())
	}
}

func TestStatic_FileServer(t *testing.T) {
	dir := writeStaticDir(t, map[string]string{
		"app.css": "body { margin: 0 }",
	})
	s := NewStatic(dir)

	rec := httptest.NewRecorder()
	s.FileServer().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/app.css", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "margin") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

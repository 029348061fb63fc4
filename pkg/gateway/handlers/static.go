package handlers

import (
	"net/http"
	"os"
	"path/filepath"
)

// Static serves the optional static asset endpoints. A Static with an
// empty directory is disabled: the root route reports that no static
// directory exists and favicon requests answer 404.
type Static struct {
	dir string
}

// NewStatic creates the static handler for dir. Empty dir disables it.
func NewStatic(dir string) *Static {
	return &Static{dir: dir}
}

// Enabled reports whether a static directory is configured.
func (s *Static) Enabled() bool {
	return s.dir != ""
}

// ServeIndex handles the root path. It serves {dir}/index.html when
// the file exists right now; everything else answers 404. The
// existence check runs per request, so dropping the file in after
// startup works without a restart.
func (s *Static) ServeIndex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	if s.Enabled() {
		index := filepath.Join(s.dir, "index.html")
		if info, err := os.Stat(index); err == nil && !info.IsDir() {
			http.ServeFile(w, r, index)
			return
		}
	}

	writeDetail(w, http.StatusNotFound, "No static directory configured")
}

// ServeFavicon handles /favicon.ico.
func (s *Static) ServeFavicon(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	if !s.Enabled() {
		writeDetail(w, http.StatusNotFound, "Favicon not found")
		return
	}

	path := filepath.Join(s.dir, "favicon.ico")
	if _, err := os.Stat(path); err != nil {
		writeDetail(w, http.StatusNotFound, "Favicon not found")
		return
	}

	http.ServeFile(w, r, path)
}

// FileServer serves the static tree under the /static/ prefix.
func (s *Static) FileServer() http.Handler {
	return http.StripPrefix("/static/", http.FileServer(http.Dir(s.dir)))
}

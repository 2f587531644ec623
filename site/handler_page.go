package site

import (
	"net/http"

	"github.com/hazyhaar/fromblank/shield"
)

// servePage implements the page routing decision table:
//
//	page exists, no build  → stored html_content verbatim
//	page exists, build     → stored content with the build overlay injected
//	no page, build         → blank shell (it is the create interface)
//	no page, no build      → blank shell
//
// Denylisted probe paths 404 unless a page exists at that exact path; an
// existing page is always servable.
func (s *Service) servePage(w http.ResponseWriter, r *http.Request) {
	path := normalizePath(r.URL.Path)

	page, err := s.store.Get(r.Context(), path)
	if err != nil {
		shield.GetLogger(r.Context()).Error("page lookup failed", "path", path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if page == nil && shield.Probe(path) {
		// Same response as any missing resource: scanners learn nothing.
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	build := r.URL.Query().Has("build")

	switch {
	case page != nil && build:
		html := injectOverlay(page.HTMLContent, s.buildOverlay(path, page.LastPrompt()))
		serveHTML(w, html)
	case page != nil:
		serveHTML(w, page.HTMLContent)
	default:
		s.serveShell(w)
	}
}

func serveHTML(w http.ResponseWriter, html string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(html))
}

package site

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hazyhaar/fromblank/shield"
)

// Router assembles the complete HTTP surface: guard middleware on
// everything, the gated generation endpoint, static assets, and the
// catch-all page route. There are no documentation or introspection
// endpoints.
func (s *Service) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(shield.SecurityHeaders(shield.DefaultHeaders()))
	r.Use(shield.TraceID)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Handle("/static/*", http.FileServerFS(staticFS))

	r.With(
		shield.RequireBearer(s.cfg.APISecret),
		s.limiter.Middleware,
		shield.MaxBody(s.cfg.MaxBodyBytes),
	).Post("/api/generate", s.handleGenerate)

	r.Get("/*", s.servePage)

	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

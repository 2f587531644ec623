package shield

import "net/http"

// MaxBody returns middleware that caps the request body size. The cap is
// unconditional: downstream decoders read the body whatever Content-Type
// the client claims (or omits), so the limit cannot depend on it.
func MaxBody(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// Package shield provides the HTTP abuse guard for fromblank: security
// headers, per-IP sliding-window rate limiting, a probe-path denylist, an
// optional bearer-secret gate, request trace IDs, and body size limits.
//
// Usage:
//
//	r := chi.NewRouter()
//	r.Use(shield.SecurityHeaders(shield.DefaultHeaders()))
//	r.Use(shield.TraceID)
//	rl := shield.NewRateLimiter(10, time.Minute)
//	r.With(rl.Middleware, shield.RequireBearer(secret)).Post("/api/generate", h)
package shield

import (
	"context"
	"log/slog"
)

type contextKey string

// LoggerKey is the context key for the per-request structured logger.
const LoggerKey contextKey = "shield_logger"

// GetLogger retrieves the per-request logger from the context.
// Returns slog.Default() if no logger was set.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(LoggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// Package site is the request orchestrator for fromblank. It decides what a
// path serves (stored page, page with build overlay, or the blank shell),
// exposes the streaming generation endpoint, and owns the security
// middleware stack in front of both.
package site

import (
	"log/slog"
	"time"

	"github.com/hazyhaar/fromblank/pages"
	"github.com/hazyhaar/fromblank/shield"
)

// Service wires the page store, the generation client and the abuse guard
// behind one HTTP router. It holds no durable state of its own: everything
// it serves comes from the store, and the only in-memory state is the rate
// limiter's counters.
type Service struct {
	store   *pages.Store
	gen     Generator
	cfg     Config
	logger  *slog.Logger
	limiter *shield.RateLimiter
}

// New creates the site service.
func New(store *pages.Store, gen Generator, cfg Config) *Service {
	cfg.defaults()
	return &Service{
		store:   store,
		gen:     gen,
		cfg:     cfg,
		logger:  cfg.Logger,
		limiter: shield.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
	}
}

// Config configures the site service.
type Config struct {
	// APISecret gates POST /api/generate when non-empty. Page serving is
	// never gated.
	APISecret string `yaml:"api_secret"`

	// RateLimitRequests per RateLimitWindow, keyed on client IP, applied
	// to the generation endpoint.
	RateLimitRequests int           `yaml:"rate_limit_requests"`
	RateLimitWindow   time.Duration `yaml:"rate_limit_window"`

	// MaxBodyBytes caps the /api/generate request body.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// Logger defaults to slog.Default().
	Logger *slog.Logger `yaml:"-"`
}

func (c *Config) defaults() {
	if c.RateLimitRequests <= 0 {
		c.RateLimitRequests = 10
	}
	if c.RateLimitWindow <= 0 {
		c.RateLimitWindow = 60 * time.Second
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = 64 * 1024
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// normalizePath maps the wire path to the store key: empty becomes "/",
// anything not starting with "/" gets it prepended. Matching downstream is
// exact-string — no case folding, no trailing-slash collapsing.
func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	if p[0] != '/' {
		return "/" + p
	}
	return p
}

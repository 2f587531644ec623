// Command fromblank serves a website whose pages are generated on demand: a
// path with no stored page serves the blank shell, a prompt turns it into a
// stored document, and ?build reopens any page for modification.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/fromblank/pagegen"
	"github.com/hazyhaar/fromblank/pages"
	"github.com/hazyhaar/fromblank/site"
)

func main() {
	_ = godotenv.Load()

	fc, err := loadFileConfig(os.Getenv("FROMBLANK_CONFIG"))
	if err != nil {
		slog.Error("config file", "error", err)
		os.Exit(1)
	}

	port := override("PORT", fc.Port, "8000")
	dbPath := override("DATABASE_PATH", fc.DatabasePath, "db/pages.db")
	apiSecret := override("API_SECRET", fc.APISecret, "")
	logLevel := override("LOG_LEVEL", fc.LogLevel, "info")
	mcpTransport := env("MCP_TRANSPORT", "")

	// Logging. With MCP on stdio the protocol owns stdout, so logs move to
	// stderr.
	var lvl slog.Level
	switch logLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logOut := os.Stdout
	if mcpTransport == "stdio" {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	// Signal context.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Page store.
	store, err := pages.Open(dbPath)
	if err != nil {
		slog.Error("page store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// Generation backend.
	gen, err := pagegen.New(pagegen.Config{
		APIKey:    override("OPENAI_API_KEY", fc.Generation.APIKey, ""),
		Endpoint:  override("OPENAI_BASE_URL", fc.Generation.Endpoint, ""),
		Model:     override("GENERATION_MODEL", fc.Generation.Model, ""),
		MaxTokens: envInt("GENERATION_MAX_TOKENS", fc.Generation.MaxTokens),
		Logger:    logger,
	})
	if err != nil {
		slog.Error("generation client", "error", err)
		os.Exit(1)
	}

	window := fc.RateLimitWindow
	if s := envInt("RATE_LIMIT_WINDOW_SECONDS", 0); s > 0 {
		window = time.Duration(s) * time.Second
	}
	svc := site.New(store, generator{gen}, site.Config{
		APISecret:         apiSecret,
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", fc.RateLimitRequests),
		RateLimitWindow:   window,
		MaxBodyBytes:      int64(envInt("MAX_BODY_BYTES", int(fc.MaxBodyBytes))),
		Logger:            logger,
	})

	// Optional MCP over stdio: read-only page tools for operators.
	if mcpTransport == "stdio" {
		mcpSrv := mcp.NewServer(&mcp.Implementation{
			Name:    "fromblank",
			Version: "1.0.0",
		}, nil)
		pages.RegisterMCP(mcpSrv, store)
		go func() {
			if err := mcpSrv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
				slog.Error("mcp stdio", "error", err)
			}
		}()
	}

	// HTTP server. No WriteTimeout: generation responses stream for as long
	// as the backend takes.
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           svc.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", port, "db", dbPath, "auth", apiSecret != "")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	slog.Info("server stopped")
}

// generator adapts the concrete pagegen client to the site's stream
// interface.
type generator struct {
	c *pagegen.Client
}

func (g generator) GenerateStream(ctx context.Context, prompt, currentHTML string) site.TextStream {
	return g.c.GenerateStream(ctx, prompt, currentHTML)
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

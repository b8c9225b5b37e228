package server

import (
	"log/slog"
	"net/http"
)

// DefaultMaxUploadBytes is the upload ceiling used by DefaultConfig.
const DefaultMaxUploadBytes = 16 << 20

// Config contains server configuration options.
type Config struct {
	// AllowedOrigins is the list of allowed CORS origins.
	AllowedOrigins []string
	// MaxUploadBytes caps the request body size.
	MaxUploadBytes int64
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		AllowedOrigins: []string{"*"},
		MaxUploadBytes: DefaultMaxUploadBytes,
	}
}

// NewRouter creates a new HTTP router with all routes configured.
// It uses Go 1.22+ ServeMux with method-based routing.
func NewRouter(h *Handlers, logger *slog.Logger, cfg Config) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /{$}", h.UploadForm)
	mux.Handle("POST /{$}", MaxBytesMiddleware(cfg.MaxUploadBytes)(http.HandlerFunc(h.Render)))

	chain := ChainMiddleware(
		RequestIDMiddleware(),
		RecoveryMiddleware(logger),
		LoggingMiddleware(logger),
		CORSMiddleware(cfg.AllowedOrigins),
	)

	return chain(mux)
}

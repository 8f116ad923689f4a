package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ThaerHindawi/livekit/internal/api/middleware"
	"github.com/ThaerHindawi/livekit/internal/handlers"
)

// RouterOptions holds the optional parts of the router.
type RouterOptions struct {
	// PublicDir holds the browser client. Empty disables static serving.
	PublicDir string

	// RedisClient enables rate limiting when set.
	RedisClient *redis.Client
	RateLimit   middleware.RateLimiterConfig
}

// NewRouter creates and configures the HTTP router.
func NewRouter(logger zerolog.Logger, h *handlers.Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware (first to capture all requests)
	r.Use(middleware.Metrics)

	// Security middleware (order matters!)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.MaxBodySize(8 * 1024)) // 8KB max body
	r.Use(middleware.ValidateRequest)

	// Standard middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)

	// Rate limiting needs a shared counter store
	if opts.RedisClient != nil {
		limiter := middleware.NewRateLimiter(opts.RedisClient, logger, opts.RateLimit)
		r.Use(limiter.Middleware)
	}

	// The browser client may be served from a different origin in development.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Metrics endpoint (for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/", h.Root)
		r.Get("/health", h.Health)
		r.Get("/stats", h.Stats)

		r.Post("/token", h.Token)
		r.Post("/leave", h.Leave)

		r.Get("/room/{roomName}", h.RoomStatus)
		r.Get("/room/{roomName}/events", h.RoomEvents)
	})

	if opts.PublicDir != "" {
		mountStatic(r, opts.PublicDir)
	}

	return r
}

// mountStatic serves the browser client, with index.html at "/".
func mountStatic(r chi.Router, dir string) {
	dir = publicDir(dir)
	fs := http.FileServer(http.Dir(dir))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(dir, "index.html"))
	})
	r.Get("/*", fs.ServeHTTP)
}

// publicDir prefers the container path when the configured one is relative
// and missing.
func publicDir(dir string) string {
	if _, err := os.Stat(dir); err == nil || filepath.IsAbs(dir) {
		return dir
	}
	if candidate := filepath.Join("/app", dir); dirExists(candidate) {
		return candidate
	}
	return dir
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

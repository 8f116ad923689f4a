package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/ThaerHindawi/livekit/internal/metrics"
)

// Metrics returns middleware that records Prometheus metrics.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		path := normalizePath(r.URL.Path)

		metrics.HTTPRequestsTotal.WithLabelValues(
			r.Method, path, strconv.Itoa(status),
		).Inc()

		metrics.HTTPRequestDuration.WithLabelValues(
			r.Method, path,
		).Observe(time.Since(start).Seconds())
	})
}

// normalizePath collapses room names and static assets so label
// cardinality stays bounded.
func normalizePath(path string) string {
	const roomPrefix = "/api/room/"

	switch {
	case strings.HasPrefix(path, roomPrefix) && len(path) > len(roomPrefix):
		if strings.HasSuffix(path, "/events") {
			return roomPrefix + ":roomName/events"
		}
		return roomPrefix + ":roomName"
	case strings.HasPrefix(path, "/api/"), path == "/api", path == "/metrics", path == "/":
		return path
	default:
		return "/static"
	}
}

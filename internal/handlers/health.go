package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const version = "0.2.0"

// Check represents the status of a health check.
type Check struct {
	Status  string `json:"status"`            // "pass", "fail" or "skip"
	Latency string `json:"latency,omitempty"` // e.g., "2ms"
	Message string `json:"message,omitempty"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status     string           `json:"status"`
	Configured bool             `json:"configured"`
	Version    string           `json:"version"`
	Checks     map[string]Check `json:"checks"`
	Timestamp  string           `json:"timestamp"`
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Health always answers "ok"; backend problems show up in checks only.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	targets := map[string]pinger{"registry": h.registry}
	if h.journal != nil {
		targets["journal"] = h.journal
	}

	var mu sync.Mutex
	checks := make(map[string]Check, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	for name, target := range targets {
		name, target := name, target
		g.Go(func() error {
			start := time.Now()
			check := Check{Status: "pass"}
			if err := target.Ping(gctx); err != nil {
				check = Check{Status: "fail", Message: "connection failed"}
			} else {
				check.Latency = time.Since(start).String()
			}

			mu.Lock()
			checks[name] = check
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if h.journal == nil {
		checks["journal"] = Check{Status: "skip", Message: "not configured"}
	}

	h.JSON(w, http.StatusOK, HealthResponse{
		Status:     "ok",
		Configured: h.gw.Configured(),
		Version:    version,
		Checks:     checks,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	})
}

// RootResponse represents the API info response.
type RootResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Docs    string `json:"docs"`
}

// Root handles the API info endpoint.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	h.JSON(w, http.StatusOK, RootResponse{
		Name:    "videocall",
		Version: version,
		Docs:    "POST /api/token, POST /api/leave, GET /api/room/{roomName}, GET /api/health",
	})
}

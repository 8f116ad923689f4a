package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/ThaerHindawi/livekit/internal/gateway"
	"github.com/ThaerHindawi/livekit/internal/store"
)

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	gw       *gateway.Gateway
	registry store.RoomRegistry
	journal  store.Journal
	logger   zerolog.Logger
}

// NewHandler creates a new Handler. journal may be nil.
func NewHandler(gw *gateway.Gateway, registry store.RoomRegistry, journal store.Journal, logger zerolog.Logger) *Handler {
	return &Handler{gw: gw, registry: registry, journal: journal, logger: logger}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Warn().Err(err).Msg("failed to encode response")
	}
}

// Error sends a JSON error response with the given status code.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}

// GatewayError maps a gateway error to its HTTP status and message.
// Internal details of wrapped errors are not exposed to callers.
func (h *Handler) GatewayError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gateway.ErrInvalidRequest):
		h.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, gateway.ErrNotConfigured):
		h.Error(w, http.StatusInternalServerError, gateway.ErrNotConfigured.Error())
	case errors.Is(err, gateway.ErrRoomFull):
		h.Error(w, http.StatusForbidden, gateway.ErrRoomFull.Error())
	case errors.Is(err, gateway.ErrRegistryUnavailable):
		h.Error(w, http.StatusServiceUnavailable, gateway.ErrRegistryUnavailable.Error())
	case errors.Is(err, gateway.ErrIssuanceFailed):
		h.Error(w, http.StatusInternalServerError, gateway.ErrIssuanceFailed.Error())
	default:
		h.logger.Error().Err(err).Msg("unhandled gateway error")
		h.Error(w, http.StatusInternalServerError, "an unexpected error occurred")
	}
}

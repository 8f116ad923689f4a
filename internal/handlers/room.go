package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ThaerHindawi/livekit/internal/gateway"
	"github.com/ThaerHindawi/livekit/internal/models"
)

// RoomStatusResponse reports a room's occupancy.
type RoomStatusResponse struct {
	RoomName         string `json:"roomName"`
	ParticipantCount int    `json:"participantCount"`
	IsFull           bool   `json:"isFull"`
}

// RoomEventsResponse lists a room's journal entries, newest first.
type RoomEventsResponse struct {
	RoomName string             `json:"roomName"`
	Events   []models.RoomEvent `json:"events"`
}

// roomName extracts the decoded room name from the URL.
func roomName(r *http.Request) string {
	name := chi.URLParam(r, "roomName")
	if decoded, err := url.PathUnescape(name); err == nil {
		return decoded
	}
	return name
}

// RoomStatus reports how many participants hold a slot in a room.
// Unknown rooms report zero participants.
func (h *Handler) RoomStatus(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(roomName(r))

	status, err := h.gw.Status(r.Context(), name)
	if err != nil {
		h.logger.Error().Err(err).Str("room", name).Msg("room status failed")
		h.Error(w, http.StatusServiceUnavailable, gateway.ErrRegistryUnavailable.Error())
		return
	}

	h.JSON(w, http.StatusOK, RoomStatusResponse{
		RoomName:         name,
		ParticipantCount: status.ParticipantCount,
		IsFull:           status.IsFull,
	})
}

// RoomEvents lists recent journal entries for a room.
func (h *Handler) RoomEvents(w http.ResponseWriter, r *http.Request) {
	if h.journal == nil {
		h.Error(w, http.StatusServiceUnavailable, "room journal not configured")
		return
	}

	name := roomName(r)

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}
	if limit > 100 {
		limit = 100
	}

	events, err := h.journal.RoomEvents(r.Context(), name, limit)
	if err != nil {
		h.logger.Error().Err(err).Str("room", name).Msg("room events query failed")
		h.Error(w, http.StatusInternalServerError, "database error")
		return
	}

	h.JSON(w, http.StatusOK, RoomEventsResponse{RoomName: name, Events: events})
}

package handlers

import (
	"encoding/json"
	"net/http"
)

// TokenRequest is the join request body.
type TokenRequest struct {
	RoomName        string `json:"roomName"`
	ParticipantName string `json:"participantName"`
}

// TokenResponse carries everything the browser needs to connect.
type TokenResponse struct {
	Token           string `json:"token"`
	WSURL           string `json:"wsUrl"`
	RoomName        string `json:"roomName"`
	ParticipantName string `json:"participantName"`
}

// LeaveResponse is returned by every leave request.
type LeaveResponse struct {
	Success bool `json:"success"`
}

// Token admits the caller into a room and returns an access token.
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	access, err := h.gw.RequestAccess(r.Context(), req.RoomName, req.ParticipantName)
	if err != nil {
		h.GatewayError(w, err)
		return
	}

	h.JSON(w, http.StatusOK, TokenResponse{
		Token:           access.Token,
		WSURL:           access.WSURL,
		RoomName:        access.Room,
		ParticipantName: access.Participant,
	})
}

// Leave frees the caller's slot. It always succeeds, even for malformed
// bodies or participants that were never admitted.
func (h *Handler) Leave(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
		h.gw.ReleaseAccess(r.Context(), req.RoomName, req.ParticipantName)
	}

	h.JSON(w, http.StatusOK, LeaveResponse{Success: true})
}

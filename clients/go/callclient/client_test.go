package callclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestRequestToken(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/token", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req JoinRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		writeJSON(w, http.StatusOK, TokenResponse{
			Token:           "signed",
			WSURL:           "wss://media.example.com",
			RoomName:        req.RoomName,
			ParticipantName: req.ParticipantName,
		})
	})

	resp, err := c.RequestToken(context.Background(), "demo", "alice")
	require.NoError(t, err)
	assert.Equal(t, "signed", resp.Token)
	assert.Equal(t, "demo", resp.RoomName)
	assert.Equal(t, "alice", resp.ParticipantName)
}

func TestRequestTokenRoomFull(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]string{
			"error": "Room is full. Maximum 2 participants allowed for 1-to-1 calls.",
		})
	})

	_, err := c.RequestToken(context.Background(), "demo", "carol")
	require.Error(t, err)
	assert.True(t, IsRoomFull(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Message, "Room is full")
}

func TestBlockedIsNotRoomFull(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "temporarily blocked"})
	})

	_, err := c.RequestToken(context.Background(), "demo", "carol")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.False(t, IsRoomFull(err))
}

func TestAPIErrorWithoutBody(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.Stats(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Equal(t, "Service Unavailable", apiErr.Message)
	assert.False(t, IsRoomFull(err))
}

func TestLeave(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/leave", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	})
	assert.NoError(t, c.Leave(context.Background(), "demo", "alice"))
}

func TestRoomStatusEscapesName(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/room/team%20sync", r.URL.EscapedPath())
		writeJSON(w, http.StatusOK, RoomStatus{RoomName: "team sync", ParticipantCount: 2, IsFull: true})
	})

	status, err := c.RoomStatus(context.Background(), "team sync")
	require.NoError(t, err)
	assert.Equal(t, 2, status.ParticipantCount)
	assert.True(t, status.IsFull)
}

func TestRoomEventsLimit(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/room/demo/events", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		writeJSON(w, http.StatusOK, RoomEventsResponse{
			RoomName: "demo",
			Events:   []RoomEvent{{ID: "01J", RoomName: "demo", ParticipantName: "alice", Kind: "admitted"}},
		})
	})

	resp, err := c.RoomEvents(context.Background(), "demo", 5)
	require.NoError(t, err)
	require.Len(t, resp.Events, 1)
	assert.Equal(t, "admitted", resp.Events[0].Kind)
}

func TestHealth(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{
			Status:     "ok",
			Configured: true,
			Checks:     map[string]HealthCheck{"registry": {Status: "pass"}},
		})
	})

	resp, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Configured)
	assert.Equal(t, "pass", resp.Checks["registry"].Status)
}

func TestCanceledContext(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Health(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

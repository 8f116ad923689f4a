// Package callclient provides a client for the video call gateway API.
package callclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is used when no server URL is given.
const DefaultBaseURL = "http://localhost:3000"

// Client is a video call gateway API client.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new client.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway error %d: %s", e.StatusCode, e.Message)
}

// roomFullPrefix starts the gateway's room-full message. Blocked clients
// also get a 403.
const roomFullPrefix = "Room is full"

// IsRoomFull reports whether err is the gateway refusing a full room.
func IsRoomFull(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) &&
		apiErr.StatusCode == http.StatusForbidden &&
		strings.HasPrefix(apiErr.Message, roomFullPrefix)
}

// doRequest performs an HTTP request and decodes a JSON response into out.
func (c *Client) doRequest(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(respBody, &errResp)
		if errResp.Error == "" {
			errResp.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(respBody, out)
}

// JoinRequest is the body of token and leave requests.
type JoinRequest struct {
	RoomName        string `json:"roomName"`
	ParticipantName string `json:"participantName"`
}

// TokenResponse carries a credential for one room and participant.
type TokenResponse struct {
	Token           string `json:"token"`
	WSURL           string `json:"wsUrl"`
	RoomName        string `json:"roomName"`
	ParticipantName string `json:"participantName"`
}

// RequestToken asks for a slot in room and a credential to join it.
func (c *Client) RequestToken(ctx context.Context, room, participant string) (*TokenResponse, error) {
	var resp TokenResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/token", JoinRequest{room, participant}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Leave releases participant's slot in room.
func (c *Client) Leave(ctx context.Context, room, participant string) error {
	var resp struct {
		Success bool `json:"success"`
	}
	if err := c.doRequest(ctx, http.MethodPost, "/api/leave", JoinRequest{room, participant}, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return errors.New("leave was not acknowledged")
	}
	return nil
}

// RoomStatus is a room's occupancy.
type RoomStatus struct {
	RoomName         string `json:"roomName"`
	ParticipantCount int    `json:"participantCount"`
	IsFull           bool   `json:"isFull"`
}

// RoomStatus returns the occupancy of room.
func (c *Client) RoomStatus(ctx context.Context, room string) (*RoomStatus, error) {
	var resp RoomStatus
	if err := c.doRequest(ctx, http.MethodGet, "/api/room/"+url.PathEscape(room), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RoomEvent is one journal entry.
type RoomEvent struct {
	ID              string    `json:"id"`
	RoomName        string    `json:"roomName"`
	ParticipantName string    `json:"participantName"`
	Kind            string    `json:"kind"`
	CreatedAt       time.Time `json:"createdAt"`
}

// RoomEventsResponse lists a room's journal entries, newest first.
type RoomEventsResponse struct {
	RoomName string      `json:"roomName"`
	Events   []RoomEvent `json:"events"`
}

// RoomEvents returns up to limit recent journal entries for room.
func (c *Client) RoomEvents(ctx context.Context, room string, limit int) (*RoomEventsResponse, error) {
	path := "/api/room/" + url.PathEscape(room) + "/events"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var resp RoomEventsResponse
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// HealthCheck is one backend probe.
type HealthCheck struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is the server health report.
type HealthResponse struct {
	Status     string                 `json:"status"`
	Configured bool                   `json:"configured"`
	Version    string                 `json:"version"`
	Checks     map[string]HealthCheck `json:"checks"`
	Timestamp  string                 `json:"timestamp"`
}

// Health checks server health.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/health", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StatsResponse summarizes the room journal.
type StatsResponse struct {
	Admissions       int64       `json:"admissions"`
	Readmissions     int64       `json:"readmissions"`
	Rejections       int64       `json:"rejections"`
	Releases         int64       `json:"releases"`
	IssuanceFailures int64       `json:"issuanceFailures"`
	LastActivity     string      `json:"lastActivity"`
	RecentEvents     []RoomEvent `json:"recentEvents"`
}

// Stats returns aggregate admission statistics.
func (c *Client) Stats(ctx context.Context) (*StatsResponse, error) {
	var resp StatsResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/stats", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

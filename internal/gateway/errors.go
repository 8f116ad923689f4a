package gateway

import "errors"

var (
	ErrInvalidRequest      = errors.New("roomName and participantName are required")
	ErrNotConfigured       = errors.New("LiveKit credentials not configured. Please check your .env file.")
	ErrRoomFull            = errors.New("Room is full. Maximum 2 participants allowed for 1-to-1 calls.")
	ErrIssuanceFailed      = errors.New("failed to generate token")
	ErrRegistryUnavailable = errors.New("room registry unavailable")
)

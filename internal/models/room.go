package models

import "time"

// RoomCapacity is the maximum number of participants admitted to a room.
const RoomCapacity = 2

// RoomStatus is a read-only snapshot of a room's occupancy.
type RoomStatus struct {
	ParticipantCount int  `json:"participantCount"`
	IsFull           bool `json:"isFull"`
}

// EventKind identifies what happened to a participant slot.
type EventKind string

const (
	EventAdmitted       EventKind = "admitted"
	EventReadmitted     EventKind = "readmitted"
	EventRejected       EventKind = "rejected"
	EventReleased       EventKind = "released"
	EventIssuanceFailed EventKind = "issuance_failed"
)

// RoomEvent is one entry of the room journal.
type RoomEvent struct {
	ID          string    `json:"id"` // ULID
	Room        string    `json:"roomName"`
	Participant string    `json:"participantName"`
	Kind        EventKind `json:"kind"`
	CreatedAt   time.Time `json:"createdAt"`
}

// JournalSummary aggregates the room journal.
type JournalSummary struct {
	Counts       map[EventKind]int64 `json:"counts"`
	LastActivity *time.Time          `json:"lastActivity,omitempty"`
	Recent       []RoomEvent         `json:"recent"`
}

package store

import (
	"context"

	"github.com/ThaerHindawi/livekit/internal/models"
)

// Admission is the outcome of a TryAdmit call.
type Admission int

const (
	// Rejected means the room is full and the participant was not recorded.
	Rejected Admission = iota
	// Admitted means the participant took a new slot.
	Admitted
	// Readmitted means the participant already held a slot in the room.
	Readmitted
)

// Allowed reports whether the participant holds a slot after the call.
func (a Admission) Allowed() bool {
	return a == Admitted || a == Readmitted
}

func (a Admission) String() string {
	switch a {
	case Admitted:
		return "admitted"
	case Readmitted:
		return "readmitted"
	default:
		return "rejected"
	}
}

// RoomRegistry tracks which participants hold a slot in which room.
// MemoryRegistry and RedisRegistry implement this interface.
//
// TryAdmit must be atomic per room: concurrent callers never push a room
// past its capacity. Remove and Status never fail for unknown rooms, and
// Status never creates a room. Remove reports whether participant held a
// slot.
type RoomRegistry interface {
	Close() error
	Ping(ctx context.Context) error

	TryAdmit(ctx context.Context, room, participant string) (Admission, error)
	Remove(ctx context.Context, room, participant string) (bool, error)
	Status(ctx context.Context, room string) (models.RoomStatus, error)
}

// Journal is a durable log of room events.
// Both PostgresJournal and SQLiteJournal implement this interface.
type Journal interface {
	Close()
	Ping(ctx context.Context) error

	RecordEvent(ctx context.Context, event *models.RoomEvent) error
	RoomEvents(ctx context.Context, room string, limit int) ([]models.RoomEvent, error)
	Summary(ctx context.Context, recent int) (*models.JournalSummary, error)
}

const defaultEventLimit = 20

func statusOf(count, capacity int) models.RoomStatus {
	return models.RoomStatus{
		ParticipantCount: count,
		IsFull:           count >= capacity,
	}
}

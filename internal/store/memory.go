package store

import (
	"context"
	"sync"

	"github.com/ThaerHindawi/livekit/internal/models"
)

// MemoryRegistry keeps room membership in process memory.
// State does not survive a restart and is not shared between instances.
type MemoryRegistry struct {
	mu       sync.Mutex
	capacity int
	rooms    map[string]map[string]struct{}
}

// NewMemoryRegistry creates an empty registry that admits at most capacity
// participants per room.
func NewMemoryRegistry(capacity int) *MemoryRegistry {
	if capacity <= 0 {
		capacity = models.RoomCapacity
	}
	return &MemoryRegistry{
		capacity: capacity,
		rooms:    make(map[string]map[string]struct{}),
	}
}

// Close is a no-op; there is nothing to release.
func (r *MemoryRegistry) Close() error {
	return nil
}

// Ping always succeeds.
func (r *MemoryRegistry) Ping(ctx context.Context) error {
	return nil
}

// TryAdmit reserves a slot for participant in room.
func (r *MemoryRegistry) TryAdmit(ctx context.Context, room, participant string) (Admission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[room]
	if ok {
		if _, present := members[participant]; present {
			return Readmitted, nil
		}
	}

	// A rejected call must not leave an empty room behind, so the room is
	// only inserted once the participant is.
	if len(members) >= r.capacity {
		return Rejected, nil
	}
	if !ok {
		members = make(map[string]struct{}, r.capacity)
		r.rooms[room] = members
	}
	members[participant] = struct{}{}

	return Admitted, nil
}

// Remove frees participant's slot and drops the room once it is empty.
func (r *MemoryRegistry) Remove(ctx context.Context, room, participant string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[room]
	if !ok {
		return false, nil
	}
	if _, ok := members[participant]; !ok {
		return false, nil
	}
	delete(members, participant)
	if len(members) == 0 {
		delete(r.rooms, room)
	}
	return true, nil
}

// Status returns the occupancy of room.
func (r *MemoryRegistry) Status(ctx context.Context, room string) (models.RoomStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return statusOf(len(r.rooms[room]), r.capacity), nil
}

// Len returns the number of non-empty rooms.
func (r *MemoryRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.rooms)
}

// Package registry holds the process-wide mapping from room id to the
// ordered list of members currently connected to it. A room has no
// existence beyond its membership: entries appear on first join and are
// pruned when the last member leaves.
package registry

import (
	"sync"

	"github.com/usaidgithub/QuickShare/internal/domain"
)

// Departure describes the removal of one member from one room.
type Departure struct {
	RoomID    string
	Member    domain.Member
	Remaining []domain.Member
}

type Registry struct {
	rooms map[string][]domain.Member // roomID -> members, in join order
	mu    sync.RWMutex
}

func New() *Registry {
	return &Registry{
		rooms: make(map[string][]domain.Member),
	}
}

// Join appends a member to the room's list, creating the room if absent,
// and returns a snapshot of the resulting membership. A connection
// belongs to at most one room: if the connection id is already a member
// somewhere else it is removed there first, and the displacement is
// returned so the caller can notify the vacated room.
func (r *Registry) Join(roomID, connID, name string) ([]domain.Member, *Departure) {
	r.mu.Lock()
	defer r.mu.Unlock()

	displaced := r.removeLocked(connID)
	if displaced != nil && displaced.RoomID == roomID {
		// Re-joining the same room: treat as a fresh join, no notification
		displaced = nil
	}

	r.rooms[roomID] = append(r.rooms[roomID], domain.NewMember(connID, name))

	return r.membersLocked(roomID), displaced
}

// Leave removes the connection from whichever room contains it and
// returns the departure, or nil if the connection was not a member
// anywhere. Safe to call repeatedly; only the first call has an effect.
func (r *Registry) Leave(connID string) *Departure {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.removeLocked(connID)
}

// Members returns a snapshot of the room's current membership in join
// order. Unknown rooms yield an empty list, never an error.
func (r *Registry) Members(roomID string) []domain.Member {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.membersLocked(roomID)
}

func (r *Registry) membersLocked(roomID string) []domain.Member {
	members := make([]domain.Member, len(r.rooms[roomID]))
	copy(members, r.rooms[roomID])
	return members
}

func (r *Registry) removeLocked(connID string) *Departure {
	for roomID, members := range r.rooms {
		for i, m := range members {
			if m.ID != connID {
				continue
			}

			remaining := append(members[:i:i], members[i+1:]...)
			if len(remaining) == 0 {
				delete(r.rooms, roomID)
			} else {
				r.rooms[roomID] = remaining
			}

			snapshot := make([]domain.Member, len(remaining))
			copy(snapshot, remaining)

			return &Departure{
				RoomID:    roomID,
				Member:    m,
				Remaining: snapshot,
			}
		}
	}

	return nil
}

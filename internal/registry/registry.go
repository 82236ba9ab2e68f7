// Package registry owns server-side room and membership state. All mutation
// goes through one mutex and never suspends mid-operation, so concurrent
// edits from different connections serialize into an arrival order without
// any per-room locking.
package registry

import (
	"fmt"
	"sync"
	"time"

	"github.com/Chandra-Sekhar-Dutta/RealTime-Canva/internal/domain"
	"github.com/Chandra-Sekhar-Dutta/RealTime-Canva/pkg/log"
	"github.com/Chandra-Sekhar-Dutta/RealTime-Canva/pkg/wire"
)

// Registry is the sole authority for rooms, members and cursor state.
type Registry struct {
	mu     sync.Mutex
	rooms  map[string]*domain.Room
	byConn map[string]string // conn ID -> room ID
	now    func() time.Time
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		rooms:  make(map[string]*domain.Room),
		byConn: make(map[string]string),
		now:    time.Now,
	}
}

// SetClock overrides the time source. Test hook.
func (r *Registry) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// Join adds a connection to a room, creating the room if absent and
// cancelling any pending grace-period deletion. The display name comes from
// a per-room counter that starts at 1 and is never reused, so names stay
// unique across leave/rejoin interleavings. Returns the new member and the
// members already present.
func (r *Registry) Join(roomID, userID, connID, color string) (*domain.Member, []*domain.Member) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	room, ok := r.rooms[roomID]
	if !ok {
		room = &domain.Room{
			ID:        roomID,
			Members:   make(map[string]*domain.Member),
			CreatedAt: now,
		}
		r.rooms[roomID] = room
		log.L().Info().Str(log.FieldRoomID, roomID).Msg("room created")
	}

	room.NameSeq++
	member := &domain.Member{
		UserID:      userID,
		ConnID:      connID,
		DisplayName: fmt.Sprintf("Guest %d", room.NameSeq),
		Color:       color,
		JoinedAt:    now,
	}

	others := room.MemberList(connID)
	room.Members[connID] = member
	room.EmptySince = time.Time{}
	room.LastActivity = now
	r.byConn[connID] = roomID

	log.L().Info().
		Str(log.FieldRoomID, roomID).
		Str(log.FieldUserID, userID).
		Str(log.FieldMember, member.DisplayName).
		Msg("member joined")

	return member, others
}

// Leave removes the connection's member. When the last member leaves, the
// room is marked empty so PruneEmpty can delete it after the grace period.
// Unknown connections are a silent no-op (disconnect racing room deletion).
func (r *Registry) Leave(connID string) (roomID string, member *domain.Member, remaining int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	roomID, ok := r.byConn[connID]
	if !ok {
		return "", nil, 0
	}
	delete(r.byConn, connID)

	room, ok := r.rooms[roomID]
	if !ok {
		return "", nil, 0
	}

	member = room.Members[connID]
	delete(room.Members, connID)
	room.LastActivity = r.now()
	if len(room.Members) == 0 {
		room.EmptySince = r.now()
	}

	if member != nil {
		log.L().Info().
			Str(log.FieldRoomID, roomID).
			Str(log.FieldUserID, member.UserID).
			Str(log.FieldMember, member.DisplayName).
			Msg("member left")
	}

	return roomID, member, len(room.Members)
}

// UpdateCursor records a member's pointer position (nil when it leaves the
// canvas). Best-effort: absent rooms or members are silently ignored.
func (r *Registry) UpdateCursor(roomID, userID string, pos *wire.Position) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return
	}
	for _, m := range room.Members {
		if m.UserID == userID {
			m.Cursor = pos
		}
	}
	room.LastActivity = r.now()
}

// Room returns a point-in-time copy of a room's member list, or false when
// the room does not exist. Used by the read-only HTTP projections.
func (r *Registry) Room(roomID string) ([]*domain.Member, time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return nil, time.Time{}, false
	}
	return room.MemberList(""), room.CreatedAt, true
}

// RoomSummary is a read-only projection for listings.
type RoomSummary struct {
	ID        string    `json:"id"`
	Members   int       `json:"members"`
	CreatedAt time.Time `json:"created_at"`
}

// Rooms lists all live rooms.
func (r *Registry) Rooms() []RoomSummary {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]RoomSummary, 0, len(r.rooms))
	for _, room := range r.rooms {
		out = append(out, RoomSummary{ID: room.ID, Members: room.MemberCount(), CreatedAt: room.CreatedAt})
	}
	return out
}

// PruneEmpty deletes rooms that have been empty for longer than grace.
// "Still empty at sweep time" is the sole precondition; a rejoin in the
// interim resets EmptySince and cancels the deletion. Returns the IDs of
// deleted rooms so the caller can drop their snapshots.
func (r *Registry) PruneEmpty(grace time.Duration) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	var deleted []string
	for id, room := range r.rooms {
		if !room.EmptySince.IsZero() && now.Sub(room.EmptySince) >= grace {
			delete(r.rooms, id)
			deleted = append(deleted, id)
			log.L().Info().Str(log.FieldRoomID, id).Msg("empty room pruned")
		}
	}
	return deleted
}

// PruneInactive is the defensive sweep: it deletes rooms that are empty
// and idle longer than maxIdle. It backstops PruneEmpty against emptiness
// bookkeeping drift; occupied rooms are never reaped, however long their
// members have been quiet.
func (r *Registry) PruneInactive(maxIdle time.Duration) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	var deleted []string
	for id, room := range r.rooms {
		if room.MemberCount() > 0 {
			continue
		}
		if now.Sub(room.LastActivity) >= maxIdle {
			delete(r.rooms, id)
			deleted = append(deleted, id)
			log.L().Warn().Str(log.FieldRoomID, id).Msg("inactive room reaped")
		}
	}
	return deleted
}

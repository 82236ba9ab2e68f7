package domain

import (
	"time"

	"github.com/Chandra-Sekhar-Dutta/RealTime-Canva/pkg/wire"
)

// Member is one participant connection inside a room. UserID is stable
// across reconnects; ConnID identifies a single transport connection.
type Member struct {
	UserID      string
	ConnID      string
	DisplayName string
	Color       string
	Cursor      *wire.Position
	JoinedAt    time.Time
}

// Info projects the member onto the wire shape.
func (m *Member) Info() wire.MemberInfo {
	return wire.MemberInfo{UserID: m.UserID, Name: m.DisplayName, Color: m.Color, Cursor: m.Cursor}
}

// Room is an isolated collaboration namespace. Strokes and snapshots never
// cross rooms.
type Room struct {
	ID           string
	Members      map[string]*Member // conn ID -> member
	NameSeq      int                // display name counter, never reused
	CreatedAt    time.Time
	LastActivity time.Time
	EmptySince   time.Time // zero while the room has members
}

// MemberCount returns the number of live connections in the room.
func (r *Room) MemberCount() int {
	return len(r.Members)
}

// MemberList returns the members except the one holding excludeConnID.
func (r *Room) MemberList(excludeConnID string) []*Member {
	out := make([]*Member, 0, len(r.Members))
	for connID, m := range r.Members {
		if connID == excludeConnID {
			continue
		}
		out = append(out, m)
	}
	return out
}

package registry

import (
	"fmt"
	"testing"
	"time"

	"github.com/Chandra-Sekhar-Dutta/RealTime-Canva/internal/domain"
	"github.com/Chandra-Sekhar-Dutta/RealTime-Canva/pkg/wire"
)

// fakeClock lets tests move time forward deterministically.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestJoinLeaveMemberCount(t *testing.T) {
	r := New()

	for i := 0; i < 5; i++ {
		r.Join("room-a", fmt.Sprintf("user-%d", i), fmt.Sprintf("conn-%d", i), "#112233")
	}

	members, _, ok := r.Room("room-a")
	if !ok {
		t.Fatal("room-a should exist")
	}
	if len(members) != 5 {
		t.Fatalf("member count = %d, want 5", len(members))
	}

	r.Leave("conn-1")
	r.Leave("conn-3")

	members, _, _ = r.Room("room-a")
	if len(members) != 3 {
		t.Fatalf("member count after two leaves = %d, want 3", len(members))
	}

	// Leaving twice is a silent no-op.
	if roomID, m, _ := r.Leave("conn-1"); roomID != "" || m != nil {
		t.Errorf("second leave returned %q, %v; want no-op", roomID, m)
	}
}

func TestJoinReturnsOthersExcludingCaller(t *testing.T) {
	r := New()

	r.Join("room-a", "u1", "c1", "#000000")
	_, others := r.Join("room-a", "u2", "c2", "#ffffff")

	if len(others) != 1 {
		t.Fatalf("others = %d, want 1", len(others))
	}
	if others[0].UserID != "u1" {
		t.Errorf("others[0] = %q, want u1", others[0].UserID)
	}
}

func TestDisplayNamesMonotonicAcrossRejoin(t *testing.T) {
	r := New()

	seen := map[string]bool{}
	// Interleave joins and leaves; names must stay unique and increasing.
	m1, _ := r.Join("room-a", "u1", "c1", "#000000")
	m2, _ := r.Join("room-a", "u2", "c2", "#000000")
	r.Leave("c1")
	m3, _ := r.Join("room-a", "u1", "c3", "#000000")
	r.Leave("c2")
	m4, _ := r.Join("room-a", "u2", "c4", "#000000")

	for _, m := range []*domain.Member{m1, m2, m3, m4} {
		if seen[m.DisplayName] {
			t.Errorf("display name %q assigned twice", m.DisplayName)
		}
		seen[m.DisplayName] = true
	}
	if m4.DisplayName != "Guest 4" {
		t.Errorf("fourth name = %q, want Guest 4", m4.DisplayName)
	}
}

func TestCursorUpdateUnknownMemberIsNoOp(t *testing.T) {
	r := New()
	r.Join("room-a", "u1", "c1", "#000000")

	// Neither of these should panic or create state.
	r.UpdateCursor("room-a", "ghost", &wire.Position{X: 1, Y: 2})
	r.UpdateCursor("no-such-room", "u1", nil)

	r.UpdateCursor("room-a", "u1", &wire.Position{X: 3, Y: 4})
	members, _, _ := r.Room("room-a")
	if members[0].Cursor == nil || members[0].Cursor.X != 3 {
		t.Errorf("cursor = %+v, want {3 4}", members[0].Cursor)
	}

	r.UpdateCursor("room-a", "u1", nil)
	members, _, _ = r.Room("room-a")
	if members[0].Cursor != nil {
		t.Errorf("cursor = %+v, want nil after pointer left", members[0].Cursor)
	}
}

func TestGracePeriodRejoinKeepsRoom(t *testing.T) {
	r := New()
	clock := newFakeClock()
	r.SetClock(clock.now)

	r.Join("room-b", "u1", "c1", "#000000")
	r.Leave("c1") // room empty at t0

	clock.advance(30 * time.Second)
	if deleted := r.PruneEmpty(60 * time.Second); len(deleted) != 0 {
		t.Fatalf("room pruned at t0+30s, inside grace: %v", deleted)
	}

	// Rejoin inside grace reuses the room and cancels deletion.
	m, _ := r.Join("room-b", "u1", "c2", "#000000")
	if m.DisplayName != "Guest 2" {
		t.Errorf("rejoin name = %q, want Guest 2 (same room, sequence continued)", m.DisplayName)
	}

	clock.advance(10 * time.Minute)
	if deleted := r.PruneEmpty(60 * time.Second); len(deleted) != 0 {
		t.Fatalf("occupied room pruned: %v", deleted)
	}
}

func TestGracePeriodExpiryDeletesRoom(t *testing.T) {
	r := New()
	clock := newFakeClock()
	r.SetClock(clock.now)

	r.Join("room-b", "u1", "c1", "#000000")
	r.Leave("c1")

	clock.advance(90 * time.Second)
	deleted := r.PruneEmpty(60 * time.Second)
	if len(deleted) != 1 || deleted[0] != "room-b" {
		t.Fatalf("deleted = %v, want [room-b]", deleted)
	}

	// The rejoin after expiry gets a fresh room with a reset name sequence.
	m, _ := r.Join("room-b", "u1", "c2", "#000000")
	if m.DisplayName != "Guest 1" {
		t.Errorf("post-expiry name = %q, want Guest 1", m.DisplayName)
	}
}

func TestPruneInactiveReapsOnlyEmptyRooms(t *testing.T) {
	r := New()
	clock := newFakeClock()
	r.SetClock(clock.now)

	// room-a empties; room-b keeps its member but goes quiet.
	r.Join("room-a", "u1", "c1", "#000000")
	r.Join("room-b", "u2", "c2", "#000000")
	r.Leave("c1")

	clock.advance(2 * time.Hour)
	deleted := r.PruneInactive(time.Hour)
	if len(deleted) != 1 || deleted[0] != "room-a" {
		t.Fatalf("deleted = %v, want [room-a]", deleted)
	}

	// An occupied room is never reaped, however long its members idle.
	if _, _, ok := r.Room("room-b"); !ok {
		t.Fatal("occupied room reaped by the inactivity sweep")
	}
	if roomID, _, _ := r.Leave("c2"); roomID != "room-b" {
		t.Errorf("leave after sweep resolved to %q, want room-b", roomID)
	}
}

package client

import (
	"encoding/json"
	"testing"

	"github.com/Chandra-Sekhar-Dutta/RealTime-Canva/pkg/wire"
)

func marshalMsg(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

// Inbound events land on the transport read goroutine while the embedder
// draws through Canvas; interleaving both must stay safe and leave the
// last-applied snapshot visible.
func TestInboundEventsSerializedWithLocalDrawing(t *testing.T) {
	c := NewSyncClient(Options{RoomID: "room-a", UserID: "me", CanvasWidth: 64, CanvasHeight: 64})

	snapSrc := NewSurface(64, 64)
	snapSrc.DrawSegment(wire.Position{X: 32, Y: 32}, wire.Position{X: 32, Y: 32}, "#ff0000", 6)
	snapData, err := snapSrc.EncodePNG()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	snapMsg := marshalMsg(t, &wire.SnapshotMessage{Type: wire.MsgTypeSnapshot, Data: snapData, Version: 1})
	strokeMsg := marshalMsg(t, &wire.StrokeMessage{Type: wire.MsgTypeStroke, StrokeEvent: wire.StrokeEvent{
		Phase: wire.StrokeMove, Pos: wire.Position{X: 10, Y: 10}, Color: "#00ff00", Width: 2, UserID: "peer",
	}})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			c.route(snapMsg)
			c.route(strokeMsg)
		}
	}()

	// Local gestures along the bottom row, away from the snapshot dot.
	for i := 0; i < 50; i++ {
		c.Canvas(func(e *Engine, _ *Compositor) {
			e.BeginStroke(wire.Position{X: 5, Y: 60})
			e.MoveTo(wire.Position{X: 60, Y: 60})
			e.EndStroke()
		})
	}
	<-done

	c.Canvas(func(_ *Engine, comp *Compositor) {
		// Every snapshot apply paints (32,32) red and no local gesture
		// touches it, so it must be red whichever op landed last.
		if px := comp.Visible().RGBAAt(32, 32); px.R != 0xff {
			t.Errorf("snapshot content missing after interleaved traffic: %+v", px)
		}
		if comp.Remote().At(10, 10).G != 0xff {
			t.Error("remote stroke missing from the remote layer")
		}
	})
}

func TestRouteMaintainsMembershipMirror(t *testing.T) {
	c := NewSyncClient(Options{RoomID: "room-a", UserID: "me"})

	var joined, left []string
	c.OnMemberJoined = func(m wire.MemberInfo) { joined = append(joined, m.UserID) }
	c.OnMemberLeft = func(m wire.MemberInfo) { left = append(left, m.UserID) }

	c.route(marshalMsg(t, &wire.JoinedMessage{
		Type: wire.MsgTypeJoined, UserID: "me", Name: "Guest 2", Color: "#000000",
		Members: []wire.MemberInfo{{UserID: "u1", Name: "Guest 1"}},
	}))

	if self := c.Self(); self.Name != "Guest 2" {
		t.Errorf("self name = %q, want Guest 2", self.Name)
	}
	if members := c.Members(); len(members) != 1 || members[0].UserID != "u1" {
		t.Fatalf("mirror after join = %v, want [u1]", members)
	}

	c.route(marshalMsg(t, &wire.MemberJoinedMessage{Type: wire.MsgTypeMemberJoined, UserID: "u3", Name: "Guest 3"}))
	c.route(marshalMsg(t, &wire.MemberLeftMessage{Type: wire.MsgTypeMemberLeft, UserID: "u1", Name: "Guest 1"}))

	if members := c.Members(); len(members) != 1 || members[0].UserID != "u3" {
		t.Errorf("mirror after delta = %v, want [u3]", members)
	}
	if len(joined) != 1 || joined[0] != "u3" {
		t.Errorf("joined callbacks = %v, want [u3]", joined)
	}
	if len(left) != 1 || left[0] != "u1" {
		t.Errorf("left callbacks = %v, want [u1]", left)
	}
}

func TestRouteIgnoresOwnStrokeEcho(t *testing.T) {
	c := NewSyncClient(Options{RoomID: "room-a", UserID: "me", CanvasWidth: 32, CanvasHeight: 32})
	c.route(marshalMsg(t, &wire.JoinedMessage{Type: wire.MsgTypeJoined, UserID: "me", Name: "Guest 1"}))

	for _, phase := range []wire.StrokePhase{wire.StrokeStart, wire.StrokeMove, wire.StrokeMove} {
		c.route(marshalMsg(t, &wire.StrokeMessage{Type: wire.MsgTypeStroke, StrokeEvent: wire.StrokeEvent{
			Phase: phase, Pos: wire.Position{X: 16, Y: 16}, Color: "#ff0000", Width: 4, UserID: "me",
		}}))
	}

	if a := c.Compositor().Remote().At(16, 16).A; a != 0 {
		t.Errorf("own stroke painted the remote layer (alpha %d)", a)
	}
}

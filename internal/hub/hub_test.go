package hub

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Chandra-Sekhar-Dutta/RealTime-Canva/internal/config"
)

func testConfig() config.WebSocketConfig {
	return config.WebSocketConfig{
		PingInterval:   30 * time.Second,
		PongWait:       60 * time.Second,
		WriteWait:      10 * time.Second,
		MaxMessageSize: 4096,
	}
}

// newTestClient builds a client without a live connection; the pumps are
// never started, so Send can be inspected directly.
func newTestClient(h *Hub, id string) *Client {
	return NewClient(id, h, nil, testConfig())
}

func recv(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case data := <-c.Send:
		return data
	case <-time.After(time.Second):
		t.Fatalf("client %s received nothing", c.ID)
		return nil
	}
}

func assertSilent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.Send:
		t.Fatalf("client %s unexpectedly received %s", c.ID, data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroadcastExcludesSender(t *testing.T) {
	h := NewHub(testConfig())
	go h.Run()

	sender := newTestClient(h, "sender")
	peer1 := newTestClient(h, "peer1")
	peer2 := newTestClient(h, "peer2")

	for _, c := range []*Client{sender, peer1, peer2} {
		h.Register(c)
		h.JoinRoom(c.ID, "room-a")
	}

	payload := map[string]string{"type": "stroke"}
	if err := h.BroadcastToRoom("room-a", payload, "sender"); err != nil {
		t.Fatalf("broadcast: %v", err)
	}

	for _, c := range []*Client{peer1, peer2} {
		var got map[string]string
		if err := json.Unmarshal(recv(t, c), &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got["type"] != "stroke" {
			t.Errorf("client %s got %v", c.ID, got)
		}
	}
	assertSilent(t, sender)
}

func TestBroadcastRespectsRoomIsolation(t *testing.T) {
	h := NewHub(testConfig())
	go h.Run()

	inRoom := newTestClient(h, "in")
	outside := newTestClient(h, "out")
	h.Register(inRoom)
	h.Register(outside)
	h.JoinRoom("in", "room-a")
	h.JoinRoom("out", "room-b")

	h.BroadcastToRoom("room-a", map[string]string{"type": "clear"}, "")

	recv(t, inRoom)
	assertSilent(t, outside)
}

func TestLeaveRoomStopsDelivery(t *testing.T) {
	h := NewHub(testConfig())
	go h.Run()

	c := newTestClient(h, "c1")
	h.Register(c)
	h.JoinRoom("c1", "room-a")
	h.LeaveRoom("c1", "room-a")

	if n := h.RoomClientCount("room-a"); n != 0 {
		t.Fatalf("room count = %d after leave, want 0", n)
	}

	h.BroadcastToRoom("room-a", map[string]string{"type": "stroke"}, "")
	assertSilent(t, c)
}

// Register must land before it returns: a join issued immediately after
// may not strand the member outside the broadcast set.
func TestJoinImmediatelyAfterRegister(t *testing.T) {
	h := NewHub(testConfig())
	go h.Run()

	c := newTestClient(h, "c1")
	h.Register(c)
	h.JoinRoom("c1", "room-a")

	if n := h.RoomClientCount("room-a"); n != 1 {
		t.Fatalf("room count = %d right after register+join, want 1", n)
	}

	h.BroadcastToRoom("room-a", map[string]string{"type": "stroke"}, "")
	recv(t, c)
}

func TestJoinUnknownConnectionIgnored(t *testing.T) {
	h := NewHub(testConfig())
	go h.Run()

	h.JoinRoom("ghost", "room-a")
	if n := h.RoomClientCount("room-a"); n != 0 {
		t.Errorf("ghost connection joined a room: count = %d", n)
	}
}

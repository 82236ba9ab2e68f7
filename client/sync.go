// Package client is the participant-side library: the local drawing
// engine, the remote compositor, and the websocket sync client that binds
// them to a room.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Chandra-Sekhar-Dutta/RealTime-Canva/pkg/log"
	"github.com/Chandra-Sekhar-Dutta/RealTime-Canva/pkg/wire"
)

// Options configures a SyncClient.
type Options struct {
	ServerURL string // e.g. ws://localhost:8090/ws
	RoomID    string
	UserID    string
	Color     string

	CanvasWidth  int
	CanvasHeight int

	// Reconnect re-dials with a fresh connection after transport loss and
	// re-issues the join. Strokes drawn while disconnected are not
	// replayed; server state is authoritative.
	Reconnect     bool
	ReconnectWait time.Duration

	PingInterval time.Duration
	PongWait     time.Duration
	WriteWait    time.Duration
}

func (o *Options) withDefaults() {
	if o.CanvasWidth <= 0 {
		o.CanvasWidth = 1280
	}
	if o.CanvasHeight <= 0 {
		o.CanvasHeight = 720
	}
	if o.ReconnectWait <= 0 {
		o.ReconnectWait = 2 * time.Second
	}
	if o.PingInterval <= 0 {
		o.PingInterval = 30 * time.Second
	}
	if o.PongWait <= 0 {
		o.PongWait = 60 * time.Second
	}
	if o.WriteWait <= 0 {
		o.WriteWait = 10 * time.Second
	}
}

// SyncClient joins one room, forwards local events outward, and applies
// inbound events to the remote compositor and membership mirror.
type SyncClient struct {
	opts Options

	engine     *Engine
	compositor *Compositor

	// Presentation hooks. The sync core guarantees delivery only.
	OnMemberJoined func(wire.MemberInfo)
	OnMemberLeft   func(wire.MemberInfo)
	OnCursor       func(userID string, pos *wire.Position)
	OnStatus       func(connected bool)

	mu      sync.RWMutex
	self    wire.MemberInfo
	members map[string]wire.MemberInfo

	// canvasMu serializes canvas mutation between the transport read
	// goroutine (inbound strokes, snapshots, clears) and the embedder's
	// input path (Canvas).
	canvasMu sync.Mutex

	send   chan []byte
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSyncClient builds the client with a blank local surface. The drawing
// surface exists before the sync client attaches to the transport.
func NewSyncClient(opts Options) *SyncClient {
	opts.withDefaults()

	base := NewSurface(opts.CanvasWidth, opts.CanvasHeight)
	c := &SyncClient{
		opts:       opts,
		compositor: NewCompositor(base),
		members:    make(map[string]wire.MemberInfo),
		send:       make(chan []byte, 256),
	}
	c.engine = NewEngine(base, c.sendStroke)
	return c
}

// Engine exposes the local drawing engine. Direct access is safe only
// before Register; once connected, go through Canvas.
func (c *SyncClient) Engine() *Engine {
	return c.engine
}

// Compositor exposes the remote compositor. Direct access is safe only
// before Register; once connected, go through Canvas.
func (c *SyncClient) Compositor() *Compositor {
	return c.compositor
}

// Canvas runs fn with exclusive access to the engine and compositor.
// Inbound events mutate the same surfaces on the transport read goroutine,
// so all local drawing and canvas reads on a connected client belong here.
func (c *SyncClient) Canvas(fn func(*Engine, *Compositor)) {
	c.canvasMu.Lock()
	defer c.canvasMu.Unlock()
	fn(c.engine, c.compositor)
}

// Members returns a copy of the membership mirror.
func (c *SyncClient) Members() []wire.MemberInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]wire.MemberInfo, 0, len(c.members))
	for _, m := range c.members {
		out = append(out, m)
	}
	return out
}

// Self returns the identity assigned on join.
func (c *SyncClient) Self() wire.MemberInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.self
}

// Register opens the transport session, joins the room, and starts the
// sync pumps. The first dial failure is returned synchronously; later
// transport loss is handled by the reconnect loop.
func (c *SyncClient) Register(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.opts.ServerURL, nil)
	if err != nil {
		return fmt.Errorf("failed to dial %s: %w", c.opts.ServerURL, err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.run(runCtx, conn)
	}()
	return nil
}

// Close tears the session down.
func (c *SyncClient) Close() {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
}

// run serves sessions until the context ends, redialing between them when
// reconnect is enabled.
func (c *SyncClient) run(ctx context.Context, conn *websocket.Conn) {
	for {
		c.serve(ctx, conn)
		c.status(false)

		if ctx.Err() != nil || !c.opts.Reconnect {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(c.opts.ReconnectWait):
		}

		var err error
		conn, _, err = websocket.DefaultDialer.DialContext(ctx, c.opts.ServerURL, nil)
		if err != nil {
			log.L().Warn().Err(err).Msg("reconnect dial failed")
			conn = nil
			continue
		}
	}
}

// serve drives one transport session: join, snapshot request, then pump
// until the connection drops.
func (c *SyncClient) serve(ctx context.Context, conn *websocket.Conn) {
	if conn == nil {
		return
	}
	defer conn.Close()

	// Join, then ask for the current canvas. Absence means "nothing drawn
	// yet" and needs no retry.
	if err := c.writeJSON(conn, &wire.JoinMessage{
		Type:   wire.MsgTypeJoin,
		RoomID: c.opts.RoomID,
		UserID: c.opts.UserID,
		Color:  c.opts.Color,
	}); err != nil {
		return
	}
	if err := c.writeJSON(conn, &wire.BaseMessage{Type: wire.MsgTypeSnapshotRequest}); err != nil {
		return
	}

	c.status(true)

	sessionDone := make(chan struct{})
	defer close(sessionDone)
	go c.writePump(conn, sessionDone)

	conn.SetReadDeadline(time.Now().Add(c.opts.PongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(c.opts.PongWait))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		c.route(data)

		if ctx.Err() != nil {
			return
		}
	}
}

// writePump drains the outbound queue. Sends are fire-and-forget: transport
// slowness degrades sync but never blocks local drawing.
func (c *SyncClient) writePump(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(c.opts.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case data := <-c.send:
			conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *SyncClient) writeJSON(conn *websocket.Conn, v interface{}) error {
	conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
	return conn.WriteJSON(v)
}

// route applies one inbound message.
func (c *SyncClient) route(data []byte) {
	var base wire.BaseMessage
	if err := json.Unmarshal(data, &base); err != nil {
		return
	}

	switch base.Type {
	case wire.MsgTypeJoined:
		var msg wire.JoinedMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return
		}
		c.mu.Lock()
		c.self = wire.MemberInfo{UserID: msg.UserID, Name: msg.Name, Color: msg.Color}
		c.members = make(map[string]wire.MemberInfo, len(msg.Members))
		for _, m := range msg.Members {
			c.members[m.UserID] = m
		}
		c.mu.Unlock()

	case wire.MsgTypeMemberJoined:
		var msg wire.MemberJoinedMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return
		}
		info := wire.MemberInfo{UserID: msg.UserID, Name: msg.Name, Color: msg.Color}
		c.mu.Lock()
		c.members[msg.UserID] = info
		c.mu.Unlock()
		if c.OnMemberJoined != nil {
			c.OnMemberJoined(info)
		}

	case wire.MsgTypeMemberLeft:
		var msg wire.MemberLeftMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return
		}
		c.mu.Lock()
		info, ok := c.members[msg.UserID]
		delete(c.members, msg.UserID)
		c.mu.Unlock()
		if ok && c.OnMemberLeft != nil {
			c.OnMemberLeft(info)
		}

	case wire.MsgTypeCursor:
		var msg wire.CursorMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return
		}
		c.mu.Lock()
		if m, ok := c.members[msg.UserID]; ok {
			m.Cursor = msg.Pos
			c.members[msg.UserID] = m
		}
		c.mu.Unlock()
		if c.OnCursor != nil {
			c.OnCursor(msg.UserID, msg.Pos)
		}

	case wire.MsgTypeStroke:
		var msg wire.StrokeMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return
		}
		// The router never echoes; the guard mirrors it for safety.
		if msg.UserID == c.Self().UserID {
			return
		}
		c.canvasMu.Lock()
		c.compositor.Apply(msg.StrokeEvent)
		c.canvasMu.Unlock()

	case wire.MsgTypeSnapshot:
		var msg wire.SnapshotMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return
		}
		if msg.Version == 0 || len(msg.Data) == 0 {
			return // nothing drawn yet; start blank
		}
		c.canvasMu.Lock()
		err := c.compositor.ApplySnapshot(msg.Data)
		c.canvasMu.Unlock()
		if err != nil {
			log.L().Warn().Err(err).Msg("snapshot apply failed")
		}

	case wire.MsgTypeClear:
		c.canvasMu.Lock()
		c.compositor.ApplyClear()
		c.canvasMu.Unlock()
	}
}

// sendStroke is the engine's emit hook. Ink only: the engine never calls
// it for erase gestures.
func (c *SyncClient) sendStroke(ev wire.StrokeEvent) {
	c.enqueue(&wire.StrokeMessage{Type: wire.MsgTypeStroke, StrokeEvent: ev})
}

// SendCursor publishes the pointer position; nil means it left the canvas.
func (c *SyncClient) SendCursor(pos *wire.Position) {
	c.enqueue(&wire.CursorMessage{Type: wire.MsgTypeCursor, Pos: pos})
}

// Clear wipes both local layers and asks the room to do the same.
func (c *SyncClient) Clear() {
	c.canvasMu.Lock()
	c.compositor.ApplyClear()
	c.canvasMu.Unlock()
	c.enqueue(&wire.ClearMessage{Type: wire.MsgTypeClear})
}

// PushSnapshot uploads the visible composite as the room's new canvas.
func (c *SyncClient) PushSnapshot() error {
	c.canvasMu.Lock()
	vis := c.compositor.Visible()
	c.canvasMu.Unlock()

	var buf bytes.Buffer
	if err := png.Encode(&buf, vis); err != nil {
		return fmt.Errorf("failed to encode canvas: %w", err)
	}
	c.enqueue(&wire.SnapshotPushMessage{Type: wire.MsgTypeSnapshotPush, Data: buf.Bytes()})
	return nil
}

// enqueue queues an outbound message, dropping it when the channel is
// full rather than blocking the input path.
func (c *SyncClient) enqueue(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (c *SyncClient) status(connected bool) {
	if c.OnStatus != nil {
		c.OnStatus(connected)
	}
}

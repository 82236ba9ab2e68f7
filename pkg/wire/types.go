// Package wire defines the room-scoped message taxonomy shared by the
// server and the client library. Everything crosses the websocket as
// type-discriminated JSON.
package wire

// Position is a point on the canvas, in surface pixel coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// StrokePhase marks the position of an event within one continuous gesture.
type StrokePhase string

const (
	StrokeStart StrokePhase = "start"
	StrokeMove  StrokePhase = "move"
	StrokeEnd   StrokePhase = "end"
)

// StrokeEvent is an incremental drawing primitive. UserID is stamped by the
// server from the sender's joined identity and never trusted from the
// payload. Stroke events are relayed, never persisted.
type StrokeEvent struct {
	Phase  StrokePhase `json:"phase"`
	Pos    Position    `json:"pos"`
	Color  string      `json:"color"`
	Width  float64     `json:"width"`
	UserID string      `json:"user_id,omitempty"`
}

// MemberInfo is a room member as seen on the wire.
type MemberInfo struct {
	UserID string    `json:"user_id"`
	Name   string    `json:"name"`
	Color  string    `json:"color"`
	Cursor *Position `json:"cursor,omitempty"`
}

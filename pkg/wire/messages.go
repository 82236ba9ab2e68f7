package wire

// Message types from client.
const (
	MsgTypeJoin            = "join"
	MsgTypeCursor          = "cursor"
	MsgTypeStroke          = "stroke"
	MsgTypeClear           = "clear"
	MsgTypeSnapshotPush    = "snapshot_push"
	MsgTypeSnapshotRequest = "snapshot_request"
)

// Message types to client.
const (
	MsgTypeJoined       = "joined"
	MsgTypeMemberJoined = "member_joined"
	MsgTypeMemberLeft   = "member_left"
	MsgTypeSnapshot     = "snapshot"
	MsgTypeError        = "error"
)

// Error codes
const (
	ErrCodeBadRequest    = "BAD_REQUEST"
	ErrCodeNotInRoom     = "NOT_IN_ROOM"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// BaseMessage is the envelope shared by all messages.
type BaseMessage struct {
	Type string `json:"type"`
}

// JoinMessage is sent once per connection to enter a room.
type JoinMessage struct {
	Type   string `json:"type"`
	RoomID string `json:"room_id"`
	UserID string `json:"user_id"`
	Color  string `json:"color"`
}

// JoinedMessage answers a join with the assigned identity and the members
// already present (the caller excluded).
type JoinedMessage struct {
	Type    string       `json:"type"`
	UserID  string       `json:"user_id"`
	Name    string       `json:"name"`
	Color   string       `json:"color"`
	Members []MemberInfo `json:"members"`
}

// MemberJoinedMessage announces an arrival to the rest of the room.
type MemberJoinedMessage struct {
	Type   string `json:"type"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Color  string `json:"color"`
}

// MemberLeftMessage announces a departure to the rest of the room.
type MemberLeftMessage struct {
	Type   string `json:"type"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

// CursorMessage carries a member's pointer position; a null position means
// the pointer left the canvas.
type CursorMessage struct {
	Type   string    `json:"type"`
	UserID string    `json:"user_id,omitempty"`
	Pos    *Position `json:"pos"`
}

// StrokeMessage relays one stroke event.
type StrokeMessage struct {
	Type string `json:"type"`
	StrokeEvent
}

// ClearMessage wipes the shared canvas.
type ClearMessage struct {
	Type string `json:"type"`
}

// SnapshotPushMessage uploads the sender's full canvas raster.
type SnapshotPushMessage struct {
	Type string `json:"type"`
	Data []byte `json:"data"`
}

// SnapshotMessage delivers the room's current snapshot. Empty data with
// version 0 means no snapshot exists yet; no retry is needed.
type SnapshotMessage struct {
	Type    string `json:"type"`
	Data    []byte `json:"data"`
	Version int64  `json:"version"`
}

// ErrorMessage reports a rejected message back to its sender.
type ErrorMessage struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorMessage builds an error reply.
func NewErrorMessage(code, message string) ErrorMessage {
	return ErrorMessage{Type: MsgTypeError, Code: code, Message: message}
}

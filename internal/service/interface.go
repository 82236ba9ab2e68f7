package service

import (
	"context"
	"time"

	"github.com/Chandra-Sekhar-Dutta/RealTime-Canva/internal/domain"
	"github.com/Chandra-Sekhar-Dutta/RealTime-Canva/pkg/wire"
)

// Peer is one connected participant as the router sees it. Implemented by
// hub.Client; faked in tests.
type Peer interface {
	ConnID() string
	Session() *domain.Session
	SendMessage(message interface{}) error
}

// Broadcaster fans messages out to room members, always excluding the
// sender. Implemented by hub.Hub.
type Broadcaster interface {
	JoinRoom(connID, roomID string)
	LeaveRoom(connID, roomID string)
	BroadcastToRoom(roomID string, message interface{}, excludeConnID string) error
}

// BoardService routes canvas traffic between peers and owns the join/leave
// lifecycle around the registry and snapshot store.
type BoardService interface {
	HandleJoin(ctx context.Context, p Peer, roomID, userID, color string) error
	HandleCursor(ctx context.Context, p Peer, pos *wire.Position) error
	HandleStroke(ctx context.Context, p Peer, ev wire.StrokeEvent) error
	HandleClear(ctx context.Context, p Peer) error
	HandleSnapshotPush(ctx context.Context, p Peer, data []byte) error
	HandleSnapshotRequest(ctx context.Context, p Peer) error
	HandleDisconnect(ctx context.Context, p Peer) error

	PruneEmptyRooms(ctx context.Context, grace time.Duration)
	PruneInactiveRooms(ctx context.Context, maxIdle time.Duration)
	ExpireSnapshots(ctx context.Context, maxAge time.Duration)
}

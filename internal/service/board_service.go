package service

import (
	"context"
	"errors"
	"time"

	"github.com/Chandra-Sekhar-Dutta/RealTime-Canva/internal/registry"
	"github.com/Chandra-Sekhar-Dutta/RealTime-Canva/internal/snapshot"
	"github.com/Chandra-Sekhar-Dutta/RealTime-Canva/pkg/log"
	"github.com/Chandra-Sekhar-Dutta/RealTime-Canva/pkg/wire"
)

type boardService struct {
	broadcaster Broadcaster
	registry    *registry.Registry
	store       snapshot.Store
}

// NewBoardService wires the router to its injected, room-keyed stores.
func NewBoardService(b Broadcaster, reg *registry.Registry, store snapshot.Store) BoardService {
	return &boardService{
		broadcaster: b,
		registry:    reg,
		store:       store,
	}
}

func (s *boardService) HandleJoin(ctx context.Context, p Peer, roomID, userID, color string) error {
	if roomID == "" || userID == "" {
		return p.SendMessage(wire.NewErrorMessage(wire.ErrCodeBadRequest, "room_id and user_id are required"))
	}

	// A second join on the same connection moves it: leave first.
	if p.Session().InRoom() {
		s.leave(ctx, p)
	}

	member, others := s.registry.Join(roomID, userID, p.ConnID(), color)
	s.broadcaster.JoinRoom(p.ConnID(), roomID)
	p.Session().JoinRoom(roomID, userID, member.DisplayName, member.Color)

	memberInfos := make([]wire.MemberInfo, 0, len(others))
	for _, m := range others {
		memberInfos = append(memberInfos, m.Info())
	}

	if err := p.SendMessage(&wire.JoinedMessage{
		Type:    wire.MsgTypeJoined,
		UserID:  member.UserID,
		Name:    member.DisplayName,
		Color:   member.Color,
		Members: memberInfos,
	}); err != nil {
		return err
	}

	return s.broadcaster.BroadcastToRoom(roomID, &wire.MemberJoinedMessage{
		Type:   wire.MsgTypeMemberJoined,
		UserID: member.UserID,
		Name:   member.DisplayName,
		Color:  member.Color,
	}, p.ConnID())
}

// HandleCursor is best-effort: cursor updates racing a disconnect or room
// deletion vanish silently.
func (s *boardService) HandleCursor(ctx context.Context, p Peer, pos *wire.Position) error {
	roomID, userID, _, ok := p.Session().Identity()
	if !ok {
		return nil
	}

	s.registry.UpdateCursor(roomID, userID, pos)
	return s.broadcaster.BroadcastToRoom(roomID, &wire.CursorMessage{
		Type:   wire.MsgTypeCursor,
		UserID: userID,
		Pos:    pos,
	}, p.ConnID())
}

// HandleStroke relays a stroke event to the rest of the room. The origin
// user ID is stamped from the joined identity, never from the payload.
func (s *boardService) HandleStroke(ctx context.Context, p Peer, ev wire.StrokeEvent) error {
	roomID, userID, _, ok := p.Session().Identity()
	if !ok {
		return p.SendMessage(wire.NewErrorMessage(wire.ErrCodeNotInRoom, "join a room before drawing"))
	}

	ev.UserID = userID
	return s.broadcaster.BroadcastToRoom(roomID, &wire.StrokeMessage{
		Type:        wire.MsgTypeStroke,
		StrokeEvent: ev,
	}, p.ConnID())
}

func (s *boardService) HandleClear(ctx context.Context, p Peer) error {
	roomID, _, _, ok := p.Session().Identity()
	if !ok {
		return p.SendMessage(wire.NewErrorMessage(wire.ErrCodeNotInRoom, "join a room before clearing"))
	}

	if err := s.broadcaster.BroadcastToRoom(roomID, &wire.ClearMessage{Type: wire.MsgTypeClear}, p.ConnID()); err != nil {
		return err
	}
	if err := s.store.Clear(ctx, roomID); err != nil {
		log.Ctx(ctx).Error().Err(err).Str(log.FieldRoomID, roomID).Msg("snapshot clear failed")
		return err
	}
	return nil
}

func (s *boardService) HandleSnapshotPush(ctx context.Context, p Peer, data []byte) error {
	roomID, userID, _, ok := p.Session().Identity()
	if !ok {
		return p.SendMessage(wire.NewErrorMessage(wire.ErrCodeNotInRoom, "join a room before pushing snapshots"))
	}

	snap, err := s.store.Save(ctx, roomID, data)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str(log.FieldRoomID, roomID).Msg("snapshot save failed")
		return p.SendMessage(wire.NewErrorMessage(wire.ErrCodeInternalError, "failed to store snapshot"))
	}

	log.Ctx(ctx).Debug().
		Str(log.FieldRoomID, roomID).
		Str(log.FieldUserID, userID).
		Int64("version", snap.Version).
		Msg("snapshot stored")

	return s.broadcaster.BroadcastToRoom(roomID, &wire.SnapshotMessage{
		Type:    wire.MsgTypeSnapshot,
		Data:    snap.Data,
		Version: snap.Version,
	}, p.ConnID())
}

// HandleSnapshotRequest replies to the requester only. No snapshot means
// "nothing drawn yet": empty data, version 0, no retry expected.
func (s *boardService) HandleSnapshotRequest(ctx context.Context, p Peer) error {
	roomID, _, _, ok := p.Session().Identity()
	if !ok {
		return p.SendMessage(wire.NewErrorMessage(wire.ErrCodeNotInRoom, "join a room first"))
	}

	snap, err := s.store.Get(ctx, roomID)
	if errors.Is(err, snapshot.ErrNoSnapshot) {
		return p.SendMessage(&wire.SnapshotMessage{Type: wire.MsgTypeSnapshot, Version: 0})
	}
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str(log.FieldRoomID, roomID).Msg("snapshot load failed")
		return p.SendMessage(wire.NewErrorMessage(wire.ErrCodeInternalError, "failed to load snapshot"))
	}

	return p.SendMessage(&wire.SnapshotMessage{
		Type:    wire.MsgTypeSnapshot,
		Data:    snap.Data,
		Version: snap.Version,
	})
}

func (s *boardService) HandleDisconnect(ctx context.Context, p Peer) error {
	s.leave(ctx, p)
	return nil
}

func (s *boardService) leave(ctx context.Context, p Peer) {
	roomID, member, _ := s.registry.Leave(p.ConnID())
	if roomID == "" {
		return
	}
	s.broadcaster.LeaveRoom(p.ConnID(), roomID)
	p.Session().LeaveRoom()

	if member != nil {
		s.broadcaster.BroadcastToRoom(roomID, &wire.MemberLeftMessage{
			Type:   wire.MsgTypeMemberLeft,
			UserID: member.UserID,
			Name:   member.DisplayName,
		}, p.ConnID())
	}
}

// PruneEmptyRooms deletes rooms past their grace period and drops their
// snapshots so a later recreation starts blank.
func (s *boardService) PruneEmptyRooms(ctx context.Context, grace time.Duration) {
	for _, roomID := range s.registry.PruneEmpty(grace) {
		if err := s.store.Clear(ctx, roomID); err != nil {
			log.Ctx(ctx).Error().Err(err).Str(log.FieldRoomID, roomID).Msg("snapshot clear on prune failed")
		}
	}
}

// PruneInactiveRooms is the defensive reaper for rooms idle past maxIdle.
func (s *boardService) PruneInactiveRooms(ctx context.Context, maxIdle time.Duration) {
	for _, roomID := range s.registry.PruneInactive(maxIdle) {
		if err := s.store.Clear(ctx, roomID); err != nil {
			log.Ctx(ctx).Error().Err(err).Str(log.FieldRoomID, roomID).Msg("snapshot clear on reap failed")
		}
	}
}

// ExpireSnapshots sweeps snapshots older than maxAge regardless of room
// activity.
func (s *boardService) ExpireSnapshots(ctx context.Context, maxAge time.Duration) {
	dropped, err := s.store.Expire(ctx, maxAge)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("snapshot expiry sweep failed")
		return
	}
	if dropped > 0 {
		log.Ctx(ctx).Info().Int("dropped", dropped).Msg("expired snapshots swept")
	}
}

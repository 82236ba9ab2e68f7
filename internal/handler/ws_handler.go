package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Chandra-Sekhar-Dutta/RealTime-Canva/internal/config"
	"github.com/Chandra-Sekhar-Dutta/RealTime-Canva/internal/hub"
	"github.com/Chandra-Sekhar-Dutta/RealTime-Canva/internal/service"
	"github.com/Chandra-Sekhar-Dutta/RealTime-Canva/pkg/log"
	"github.com/Chandra-Sekhar-Dutta/RealTime-Canva/pkg/wire"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler upgrades connections and dispatches wire messages onto the
// board service.
type WSHandler struct {
	hub     *hub.Hub
	service service.BoardService
	wsCfg   config.WebSocketConfig
}

func NewWSHandler(h *hub.Hub, svc service.BoardService, wsCfg config.WebSocketConfig) *WSHandler {
	return &WSHandler{
		hub:     h,
		service: svc,
		wsCfg:   wsCfg,
	}
}

func (h *WSHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Ctx(r.Context()).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	// Every transport connection gets a fresh connection ID, including
	// reconnects of a returning user.
	client := hub.NewClient(uuid.New().String(), h.hub, conn, h.wsCfg)

	h.hub.Register(client)

	go client.WritePump()
	go func() {
		client.ReadPump(h.handleMessage)
		h.service.HandleDisconnect(context.Background(), client)
	}()
}

// handleMessage runs on the connection's read pump, one message at a time,
// so a sender's events hit the service in arrival order. Malformed payloads
// are dropped with an error reply, never fatal.
func (h *WSHandler) handleMessage(client *hub.Client, message []byte) {
	var base wire.BaseMessage
	if err := json.Unmarshal(message, &base); err != nil {
		client.SendMessage(wire.NewErrorMessage(wire.ErrCodeBadRequest, "invalid message format"))
		return
	}

	ctx := context.Background()

	switch base.Type {
	case wire.MsgTypeJoin:
		var msg wire.JoinMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			client.SendMessage(wire.NewErrorMessage(wire.ErrCodeBadRequest, "invalid join message"))
			return
		}
		if err := h.service.HandleJoin(ctx, client, msg.RoomID, msg.UserID, msg.Color); err != nil {
			log.L().Warn().Err(err).Str(log.FieldConnID, client.ID).Msg("join failed")
		}

	case wire.MsgTypeCursor:
		var msg wire.CursorMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			client.SendMessage(wire.NewErrorMessage(wire.ErrCodeBadRequest, "invalid cursor message"))
			return
		}
		if err := h.service.HandleCursor(ctx, client, msg.Pos); err != nil {
			log.L().Warn().Err(err).Str(log.FieldConnID, client.ID).Msg("cursor relay failed")
		}

	case wire.MsgTypeStroke:
		var msg wire.StrokeMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			client.SendMessage(wire.NewErrorMessage(wire.ErrCodeBadRequest, "invalid stroke message"))
			return
		}
		if err := h.service.HandleStroke(ctx, client, msg.StrokeEvent); err != nil {
			log.L().Warn().Err(err).Str(log.FieldConnID, client.ID).Msg("stroke relay failed")
		}

	case wire.MsgTypeClear:
		if err := h.service.HandleClear(ctx, client); err != nil {
			log.L().Warn().Err(err).Str(log.FieldConnID, client.ID).Msg("clear failed")
		}

	case wire.MsgTypeSnapshotPush:
		var msg wire.SnapshotPushMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			client.SendMessage(wire.NewErrorMessage(wire.ErrCodeBadRequest, "invalid snapshot_push message"))
			return
		}
		if err := h.service.HandleSnapshotPush(ctx, client, msg.Data); err != nil {
			log.L().Warn().Err(err).Str(log.FieldConnID, client.ID).Msg("snapshot push failed")
		}

	case wire.MsgTypeSnapshotRequest:
		if err := h.service.HandleSnapshotRequest(ctx, client); err != nil {
			log.L().Warn().Err(err).Str(log.FieldConnID, client.ID).Msg("snapshot request failed")
		}

	default:
		client.SendMessage(wire.NewErrorMessage(wire.ErrCodeBadRequest, "unknown message type"))
	}
}

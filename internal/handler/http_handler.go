package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Chandra-Sekhar-Dutta/RealTime-Canva/internal/registry"
	"github.com/Chandra-Sekhar-Dutta/RealTime-Canva/internal/snapshot"
	"github.com/Chandra-Sekhar-Dutta/RealTime-Canva/pkg/wire"
)

// HTTPHandler serves read-only projections of the registry and snapshot
// store. Nothing in the sync core depends on these endpoints.
type HTTPHandler struct {
	registry *registry.Registry
	store    snapshot.Store
}

func NewHTTPHandler(reg *registry.Registry, store snapshot.Store) *HTTPHandler {
	return &HTTPHandler{
		registry: reg,
		store:    store,
	}
}

// RoomDetailResponse is the API response for a single room.
type RoomDetailResponse struct {
	ID              string            `json:"id"`
	Members         []wire.MemberInfo `json:"members"`
	SnapshotVersion int64             `json:"snapshot_version"`
}

// GetRooms handles GET /api/v1/rooms
func (h *HTTPHandler) GetRooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": h.registry.Rooms()})
}

// GetRoom handles GET /api/v1/rooms/:room_id
func (h *HTTPHandler) GetRoom(c *gin.Context) {
	roomID := c.Param("room_id")

	members, _, ok := h.registry.Room(roomID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}

	resp := RoomDetailResponse{ID: roomID, Members: make([]wire.MemberInfo, 0, len(members))}
	for _, m := range members {
		resp.Members = append(resp.Members, m.Info())
	}

	snap, err := h.store.Get(c.Request.Context(), roomID)
	switch {
	case err == nil:
		resp.SnapshotVersion = snap.Version
	case errors.Is(err, snapshot.ErrNoSnapshot):
		resp.SnapshotVersion = 0
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load snapshot"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Health handles GET /health
func (h *HTTPHandler) Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// RegisterRoutes mounts the projection endpoints.
func (h *HTTPHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	v1 := r.Group("/api/v1")
	v1.GET("/rooms", h.GetRooms)
	v1.GET("/rooms/:room_id", h.GetRoom)
}

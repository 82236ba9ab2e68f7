// Package hub fans websocket traffic out to room members. Rooms are fully
// isolated: a broadcast reaches every connection in its room except the
// sender, and nothing outside it.
package hub

import (
	"encoding/json"
	"sync"

	"github.com/Chandra-Sekhar-Dutta/RealTime-Canva/internal/config"
	"github.com/Chandra-Sekhar-Dutta/RealTime-Canva/pkg/log"
)

type Hub struct {
	clients    map[string]*Client            // conn ID -> client
	rooms      map[string]map[string]*Client // room ID -> conn ID -> client
	unregister chan *Client
	broadcast  chan *RoomMessage
	mu         sync.RWMutex
	config     config.WebSocketConfig
}

// RoomMessage is one payload queued for a room, minus the excluded sender.
type RoomMessage struct {
	RoomID  string
	Message []byte
	Exclude string // conn ID to exclude
}

func NewHub(cfg config.WebSocketConfig) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[string]*Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *RoomMessage, 256),
		config:     cfg,
	}
}

// Run dispatches unregister/broadcast traffic. One goroutine owns the
// loop, so per-sender delivery order matches receipt order.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				for roomID, members := range h.rooms {
					delete(members, client.ID)
					if len(members) == 0 {
						delete(h.rooms, roomID)
					}
				}
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()
			log.L().Debug().Str(log.FieldConnID, client.ID).Msg("client unregistered")

		case msg := <-h.broadcast:
			h.mu.RLock()
			if members, ok := h.rooms[msg.RoomID]; ok {
				for connID, client := range members {
					if connID == msg.Exclude {
						continue
					}
					select {
					case client.Send <- msg.Message:
					default:
						// Slow consumer: drop the connection rather than
						// block the room.
						go h.removeClient(client)
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds the connection to the hub's client set. Synchronous: once
// it returns, a JoinRoom for the same connection cannot miss the client,
// so a join racing the dispatch loop is impossible.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client.ID] = client
	h.mu.Unlock()
	log.L().Debug().Str(log.FieldConnID, client.ID).Msg("client registered")
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// JoinRoom places a registered connection into a room's broadcast set.
func (h *Hub) JoinRoom(connID, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[connID]
	if !ok {
		return
	}
	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[string]*Client)
	}
	h.rooms[roomID][connID] = client
}

// LeaveRoom removes a connection from a room's broadcast set.
func (h *Hub) LeaveRoom(connID, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.rooms[roomID]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

// BroadcastToRoom sends message to every room member except excludeConnID.
func (h *Hub) BroadcastToRoom(roomID string, message interface{}, excludeConnID string) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	h.broadcast <- &RoomMessage{RoomID: roomID, Message: data, Exclude: excludeConnID}
	return nil
}

// RoomClientCount reports how many connections the hub holds for a room.
func (h *Hub) RoomClientCount(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if members, ok := h.rooms[roomID]; ok {
		return len(members)
	}
	return 0
}

func (h *Hub) removeClient(client *Client) {
	h.unregister <- client
}

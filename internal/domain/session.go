package domain

import (
	"sync"
	"time"
)

// Session is the per-connection identity as seen by the server. It is
// populated once the join completes; the stroke router stamps outgoing
// events from it rather than trusting the payload.
type Session struct {
	ConnID       string
	UserID       string
	DisplayName  string
	Color        string
	RoomID       string
	CreatedAt    time.Time
	LastActiveAt time.Time
	mu           sync.RWMutex
}

func NewSession(connID string) *Session {
	now := time.Now()
	return &Session{
		ConnID:       connID,
		CreatedAt:    now,
		LastActiveAt: now,
	}
}

// JoinRoom records the identity assigned by the registry.
func (s *Session) JoinRoom(roomID, userID, displayName, color string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.RoomID = roomID
	s.UserID = userID
	s.DisplayName = displayName
	s.Color = color
	s.LastActiveAt = time.Now()
}

// LeaveRoom clears the room binding, keeping the connection alive.
func (s *Session) LeaveRoom() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.RoomID = ""
	s.UserID = ""
	s.DisplayName = ""
	s.LastActiveAt = time.Now()
}

// Identity returns the stamped identity; ok is false before a join.
func (s *Session) Identity() (roomID, userID, displayName string, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.RoomID, s.UserID, s.DisplayName, s.RoomID != ""
}

func (s *Session) InRoom() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.RoomID != ""
}

func (s *Session) UpdateActivity() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastActiveAt = time.Now()
}

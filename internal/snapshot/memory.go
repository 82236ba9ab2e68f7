package snapshot

import (
	"context"
	"sync"
	"time"

	"github.com/Chandra-Sekhar-Dutta/RealTime-Canva/internal/domain"
)

// MemoryStore keeps snapshots in process memory. Mutation is
// mutex-serialized and never suspends, so save order equals arrival order.
type MemoryStore struct {
	mu        sync.Mutex
	snapshots map[string]*domain.Snapshot
	now       func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snapshots: make(map[string]*domain.Snapshot),
		now:       time.Now,
	}
}

// SetClock overrides the time source. Test hook.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *MemoryStore) Save(ctx context.Context, roomID string, data []byte) (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var version int64 = 1
	if prev, ok := s.snapshots[roomID]; ok {
		version = prev.Version + 1
	}

	buf := make([]byte, len(data))
	copy(buf, data)

	snap := &domain.Snapshot{Data: buf, Version: version, CreatedAt: s.now()}
	s.snapshots[roomID] = snap
	return snap, nil
}

func (s *MemoryStore) Get(ctx context.Context, roomID string) (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, ok := s.snapshots[roomID]
	if !ok {
		return nil, ErrNoSnapshot
	}
	return snap, nil
}

func (s *MemoryStore) Clear(ctx context.Context, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, roomID)
	return nil
}

func (s *MemoryStore) Expire(ctx context.Context, maxAge time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	dropped := 0
	for roomID, snap := range s.snapshots {
		if now.Sub(snap.CreatedAt) >= maxAge {
			delete(s.snapshots, roomID)
			dropped++
		}
	}
	return dropped, nil
}

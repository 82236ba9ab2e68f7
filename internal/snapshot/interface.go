// Package snapshot stores the latest full-canvas raster per room. Only the
// newest version is kept; saves are serialized in the order the server
// processed them, which is the system's only ordering guarantee.
package snapshot

import (
	"context"
	"errors"
	"time"

	"github.com/Chandra-Sekhar-Dutta/RealTime-Canva/internal/domain"
)

// ErrNoSnapshot is returned by Get when a room has no snapshot. New joiners
// start from a blank canvas in that case; no retry is needed.
var ErrNoSnapshot = errors.New("snapshot: none for room")

// Store is the room-keyed snapshot storage. Implementations: in-memory
// (default) and Redis.
type Store interface {
	// Save overwrites the room's snapshot; version becomes previous+1, or 1.
	Save(ctx context.Context, roomID string, data []byte) (*domain.Snapshot, error)
	// Get returns the current snapshot or ErrNoSnapshot.
	Get(ctx context.Context, roomID string) (*domain.Snapshot, error)
	// Clear removes the snapshot. Idempotent.
	Clear(ctx context.Context, roomID string) error
	// Expire removes snapshots older than maxAge and reports how many were
	// dropped. Backends with native TTL support may make this a no-op.
	Expire(ctx context.Context, maxAge time.Duration) (int, error)
}

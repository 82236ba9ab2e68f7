package domain

import "time"

// Snapshot is the latest full-canvas raster for a room. Only the newest
// version is retained; Version is strictly monotone per room, starting at 1.
type Snapshot struct {
	Data      []byte
	Version   int64
	CreatedAt time.Time
}

package snapshot

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Chandra-Sekhar-Dutta/RealTime-Canva/internal/domain"
)

// Redis key layout:
//
//	canvas:snapshot:{room_id}  HASH
//	  - data:       raw PNG bytes
//	  - version:    monotonic counter (HINCRBY)
//	  - created_at: unix seconds
//
// Age-based expiry is delegated to a key TTL refreshed on every save, so
// Expire is a no-op for this backend.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis and returns a TTL-backed store. ttl <= 0
// disables expiry.
func NewRedisStore(addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client, ttl: ttl}, nil
}

func snapshotKey(roomID string) string {
	return fmt.Sprintf("canvas:snapshot:%s", roomID)
}

func (s *RedisStore) Save(ctx context.Context, roomID string, data []byte) (*domain.Snapshot, error) {
	key := snapshotKey(roomID)
	now := time.Now()

	pipe := s.client.TxPipeline()
	incr := pipe.HIncrBy(ctx, key, "version", 1)
	pipe.HSet(ctx, key, "data", data, "created_at", now.Unix())
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}

	return &domain.Snapshot{Data: data, Version: incr.Val(), CreatedAt: now}, nil
}

func (s *RedisStore) Get(ctx context.Context, roomID string) (*domain.Snapshot, error) {
	fields, err := s.client.HGetAll(ctx, snapshotKey(roomID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrNoSnapshot
	}

	version, err := strconv.ParseInt(fields["version"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt snapshot version for room %s: %w", roomID, err)
	}
	createdAt, _ := strconv.ParseInt(fields["created_at"], 10, 64)

	return &domain.Snapshot{
		Data:      []byte(fields["data"]),
		Version:   version,
		CreatedAt: time.Unix(createdAt, 0),
	}, nil
}

func (s *RedisStore) Clear(ctx context.Context, roomID string) error {
	return s.client.Del(ctx, snapshotKey(roomID)).Err()
}

// Expire is a no-op: the key TTL set on save already bounds snapshot age.
func (s *RedisStore) Expire(ctx context.Context, maxAge time.Duration) (int, error) {
	return 0, nil
}

// Close releases the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

package store

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"riskpulse/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	snapshotKey      = "riskpulse:snapshot"
	snapshotRedisTTL = 5 * time.Minute
)

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// SnapshotStore holds the latest published snapshot. It is the result-sink
// the coordinator drives; readers are the HTTP handlers and the bot. When a
// Redis client is wired, every publish is mirrored there as JSON so sibling
// processes can read the latest assessment.
type SnapshotStore struct {
	mu     sync.RWMutex
	latest *domain.Snapshot
	redis  RedisClient
}

func NewSnapshotStore(redisClient RedisClient) *SnapshotStore {
	return &SnapshotStore{redis: redisClient}
}

// Publish replaces the stored snapshot wholesale.
func (s *SnapshotStore) Publish(snap domain.Snapshot) {
	s.mu.Lock()
	s.latest = &snap
	s.mu.Unlock()

	if s.redis == nil {
		return
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		log.Printf("snapshot marshal error: %v", err)
		return
	}
	if err := s.redis.Set(context.Background(), snapshotKey, payload, snapshotRedisTTL).Err(); err != nil {
		log.Printf("snapshot redis mirror error: %v", err)
	}
}

// Latest returns the most recent snapshot, or nil before the first publish.
func (s *SnapshotStore) Latest() *domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Clear drops the stored snapshot. Called when the tracked symbol changes so
// stale readings never outlive their symbol-epoch.
func (s *SnapshotStore) Clear() {
	s.mu.Lock()
	s.latest = nil
	s.mu.Unlock()

	if s.redis == nil {
		return
	}
	if err := s.redis.Del(context.Background(), snapshotKey).Err(); err != nil {
		log.Printf("snapshot redis clear error: %v", err)
	}
}

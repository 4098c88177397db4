package repository

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"evote-api/pkg/redis"
)

// RedisStore persists election snapshots in Redis. Multi-key writes go
// through a MULTI/EXEC transaction so the candidate and voter snapshots can
// never be observed half-updated.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed snapshot store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) physicalKey(key string) string {
	switch key {
	case SnapshotCandidates:
		return s.client.KeyBuilder.KeyCandidates()
	case SnapshotVoters:
		return s.client.KeyBuilder.KeyVoters()
	case SnapshotAdminSession:
		return s.client.KeyBuilder.KeyAdminSession()
	}
	return s.client.KeyBuilder.KeyCustom("election:%s", key)
}

// Load retrieves a snapshot by logical name.
func (s *RedisStore) Load(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, s.physicalKey(key))
	if err == goredis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to load snapshot %q: %w", key, err)
	}
	return val, true, nil
}

// Save replaces a single snapshot.
func (s *RedisStore) Save(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.physicalKey(key), value, 0); err != nil {
		return fmt.Errorf("failed to save snapshot %q: %w", key, err)
	}
	return nil
}

// SaveAll replaces several snapshots atomically.
func (s *RedisStore) SaveAll(ctx context.Context, snapshots map[string]string) error {
	kv := make(map[string]interface{}, len(snapshots))
	for key, value := range snapshots {
		kv[s.physicalKey(key)] = value
	}
	if err := s.client.SetMultiple(ctx, kv); err != nil {
		return fmt.Errorf("failed to save %d snapshots: %w", len(snapshots), err)
	}
	return nil
}

// Delete removes a snapshot.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Delete(ctx, s.physicalKey(key)); err != nil {
		return fmt.Errorf("failed to delete snapshot %q: %w", key, err)
	}
	return nil
}

// Health pings the backend.
func (s *RedisStore) Health(ctx context.Context) error {
	return s.client.Health(ctx)
}

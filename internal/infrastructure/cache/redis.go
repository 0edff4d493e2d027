package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"vethub-sync/internal/application/port/output"
	"vethub-sync/internal/domain/entity"
)

var _ output.PatientStore = (*RedisStore)(nil)

const keyPrefix = "vethub:patients:"

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore stores snapshots under vethub:patients:<department>. A zero
// ttl keeps them until overwritten.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) key(department string) string {
	return keyPrefix + departmentKey(department)
}

func (s *RedisStore) SaveSnapshot(ctx context.Context, snapshot entity.PatientSnapshot) error {
	b, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.key(snapshot.Department), b, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) LoadSnapshot(ctx context.Context, department string) (*entity.PatientSnapshot, error) {
	v, err := s.client.Get(ctx, s.key(department)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, output.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var snap entity.PatientSnapshot
	if err := json.Unmarshal(v, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

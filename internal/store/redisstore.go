package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the session slots in Redis, namespaced per terminal.
// Key format: pos:session:<terminal>:<slot>
type RedisStore struct {
	client   *redis.Client
	terminal string
}

// NewRedisStore wraps the given Redis client. terminal distinguishes
// co-located terminals sharing one Redis.
func NewRedisStore(client *redis.Client, terminal string) *RedisStore {
	return &RedisStore{client: client, terminal: terminal}
}

// NewRedisClient opens a Redis connection and verifies it with a ping.
func NewRedisClient(ctx context.Context, addr string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("store: redis ping: %w", err)
	}
	return client, nil
}

func (s *RedisStore) key(slot string) string {
	return fmt.Sprintf("pos:session:%s:%s", s.terminal, slot)
}

func (s *RedisStore) Get(ctx context.Context, slot string) (string, error) {
	v, err := s.client.Get(ctx, s.key(slot)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrSlotEmpty
		}
		return "", fmt.Errorf("store: redis get %s: %w", slot, err)
	}
	return v, nil
}

func (s *RedisStore) Set(ctx context.Context, slot, value string) error {
	if err := s.client.Set(ctx, s.key(slot), value, 0).Err(); err != nil {
		return fmt.Errorf("store: redis set %s: %w", slot, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, slot string) error {
	if err := s.client.Del(ctx, s.key(slot)).Err(); err != nil {
		return fmt.Errorf("store: redis del %s: %w", slot, err)
	}
	return nil
}

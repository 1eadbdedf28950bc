package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps handoff slots in Redis so several terminals can share
// one itinerary.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore wraps an existing client. A zero ttl keeps slots forever.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: "tourplan:handoff:", ttl: ttl}
}

// DialRedis connects to addr and checks the connection.
func DialRedis(ctx context.Context, addr string, ttl time.Duration) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connecting to redis %s: %w", addr, err)
	}
	return NewRedisStore(rdb, ttl), nil
}

func (s *RedisStore) key(slot string) string { return s.prefix + slot }

func (s *RedisStore) Put(ctx context.Context, slot string, payload []byte) error {
	if err := s.rdb.Set(ctx, s.key(slot), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("writing slot %q: %w", slot, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, slot string) ([]byte, error) {
	b, err := s.rdb.Get(ctx, s.key(slot)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("reading slot %q: %w", slot, err)
	}
	return b, nil
}

func (s *RedisStore) Delete(ctx context.Context, slot string) error {
	if err := s.rdb.Del(ctx, s.key(slot)).Err(); err != nil {
		return fmt.Errorf("deleting slot %q: %w", slot, err)
	}
	return nil
}

func (s *RedisStore) Name() string { return "redis" }

func (s *RedisStore) Close() error { return s.rdb.Close() }

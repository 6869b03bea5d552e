package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachedResponse is a stored HTTP response body with the headers needed to replay it.
type CachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// ResponseStore persists whole responses for the anonymous-only cache policy.
type ResponseStore interface {
	Get(ctx context.Context, key string) (*CachedResponse, bool, error)
	Set(ctx context.Context, key string, resp *CachedResponse, ttl time.Duration) error
}

// RedisResponseStore keeps responses as JSON values in Redis.
type RedisResponseStore struct {
	rdb *redis.Client
}

// NewRedisResponseStore returns a store backed by rdb, or nil when rdb is nil
// so callers fall through to computing every response.
func NewRedisResponseStore(rdb *redis.Client) ResponseStore {
	if rdb == nil {
		return nil
	}
	return &RedisResponseStore{rdb: rdb}
}

func (s *RedisResponseStore) Get(ctx context.Context, key string) (*CachedResponse, bool, error) {
	b, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var resp CachedResponse
	if err := json.Unmarshal(b, &resp); err != nil {
		return nil, false, err
	}
	return &resp, true, nil
}

func (s *RedisResponseStore) Set(ctx context.Context, key string, resp *CachedResponse, ttl time.Duration) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, b, ttl).Err()
}

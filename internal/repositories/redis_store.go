package repositories

import (
	"context"
	"time"

	"bgc-cart-backend/pkg/cache"
)

// StringCache is the subset of the Redis cache the store needs.
type StringCache interface {
	GetString(ctx context.Context, key string) (string, bool, error)
	SetString(ctx context.Context, key, value string, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

var _ StringCache = (*cache.RedisCache)(nil)

type redisStore struct {
	cache StringCache
	ttl   time.Duration
}

// NewRedisStore keeps every entry for ttl after its last write; ttl 0 means no expiry.
func NewRedisStore(c StringCache, ttl time.Duration) KeyValueStore {
	return &redisStore{cache: c, ttl: ttl}
}

func (s *redisStore) Get(ctx context.Context, key string) (string, bool, error) {
	return s.cache.GetString(ctx, key)
}

func (s *redisStore) Set(ctx context.Context, key, value string) error {
	return s.cache.SetString(ctx, key, value, s.ttl)
}

func (s *redisStore) Remove(ctx context.Context, key string) error {
	return s.cache.Delete(ctx, key)
}

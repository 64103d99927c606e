package repositories

import "context"

// ScopedStore namespaces every key under one cart session.
type ScopedStore struct {
	inner  KeyValueStore
	prefix string
}

func NewScopedStore(inner KeyValueStore, sessionID string) *ScopedStore {
	return &ScopedStore{inner: inner, prefix: "session:" + sessionID + ":"}
}

func (s *ScopedStore) Get(ctx context.Context, key string) (string, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *ScopedStore) Set(ctx context.Context, key, value string) error {
	return s.inner.Set(ctx, s.prefix+key, value)
}

func (s *ScopedStore) Remove(ctx context.Context, key string) error {
	return s.inner.Remove(ctx, s.prefix+key)
}

package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStringCache struct {
	values map[string]string
	ttls   map[string]time.Duration
	err    error
}

func newFakeStringCache() *fakeStringCache {
	return &fakeStringCache{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeStringCache) GetString(_ context.Context, key string) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *fakeStringCache) SetString(_ context.Context, key, value string, expiration time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.values[key] = value
	f.ttls[key] = expiration
	return nil
}

func (f *fakeStringCache) Delete(_ context.Context, keys ...string) error {
	if f.err != nil {
		return f.err
	}
	for _, k := range keys {
		delete(f.values, k)
		delete(f.ttls, k)
	}
	return nil
}

func TestRedisStoreAppliesTTL(t *testing.T) {
	ctx := context.Background()
	c := newFakeStringCache()
	s := NewRedisStore(c, 72*time.Hour)

	require.NoError(t, s.Set(ctx, "session:a:bgc_checkout_id", "checkout_1"))
	assert.Equal(t, 72*time.Hour, c.ttls["session:a:bgc_checkout_id"])

	v, ok, err := s.Get(ctx, "session:a:bgc_checkout_id")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "checkout_1", v)

	require.NoError(t, s.Remove(ctx, "session:a:bgc_checkout_id"))
	_, ok, err = s.Get(ctx, "session:a:bgc_checkout_id")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStoreMissingKey(t *testing.T) {
	s := NewRedisStore(newFakeStringCache(), 0)

	v, ok, err := s.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestRedisStorePropagatesErrors(t *testing.T) {
	ctx := context.Background()
	c := newFakeStringCache()
	c.err = errors.New("connection reset")
	s := NewRedisStore(c, time.Minute)

	_, _, err := s.Get(ctx, "k")
	assert.Error(t, err)
	assert.Error(t, s.Set(ctx, "k", "v"))
	assert.Error(t, s.Remove(ctx, "k"))
}

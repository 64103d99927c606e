package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"bgc-cart-backend/internal/models"
	"bgc-cart-backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestManager(gw CheckoutGateway, store repositories.KeyValueStore) *SessionManager {
	return NewSessionManager(gw, store, NewLocalCatalog(repositories.DefaultCatalog()), nil, testLogger(), 10)
}

func TestSessionManagerReusesSession(t *testing.T) {
	m := newTestManager(NewUnavailableGateway(), repositories.NewMemoryStore())
	ctx := context.Background()

	a, err := m.Session(ctx, "abc")
	require.NoError(t, err)
	b, err := m.Session(ctx, "abc")
	require.NoError(t, err)
	c, err := m.Session(ctx, "other")
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, m.Len())
	assert.False(t, a.IsInitializing())
}

func TestSessionManagerRejectsEmptyID(t *testing.T) {
	m := newTestManager(NewUnavailableGateway(), repositories.NewMemoryStore())

	_, err := m.Session(context.Background(), "")
	assert.Error(t, err)
}

func TestSessionManagerRestoresOnce(t *testing.T) {
	store := repositories.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "session:abc:"+CheckoutIDKey, "checkout_1"))

	gw := &mockGateway{}
	gw.On("FetchByID", mock.Anything, "checkout_1").
		After(20*time.Millisecond).
		Return(remoteCheckout("checkout_1", remoteItem("li-1", "v1", 1, "9.99")), nil).Once()
	m := newTestManager(gw, store)

	var wg sync.WaitGroup
	sessions := make([]*CartSession, 10)
	for i := range sessions {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := m.Session(ctx, "abc")
			assert.NoError(t, err)
			sessions[i] = s
		}(i)
	}
	wg.Wait()

	for _, s := range sessions {
		assert.Same(t, sessions[0], s)
	}
	assert.Equal(t, "checkout_1", sessions[0].CheckoutID())
	gw.AssertNumberOfCalls(t, "FetchByID", 1)
}

func TestSessionManagerRestoreOutlivesRequest(t *testing.T) {
	store := repositories.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), "session:abc:"+CheckoutIDKey, "checkout_1"))

	gw := &mockGateway{}
	gw.On("FetchByID", mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil }), "checkout_1").
		Return(remoteCheckout("checkout_1"), nil).Once()
	m := newTestManager(gw, store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s, err := m.Session(ctx, "abc")
	require.NoError(t, err)

	assert.Equal(t, "checkout_1", s.CheckoutID())
	gw.AssertExpectations(t)
}

func TestSessionManagerEnd(t *testing.T) {
	store := repositories.NewMemoryStore()
	m := newTestManager(NewUnavailableGateway(), store)
	ctx := context.Background()

	s, err := m.Session(ctx, "abc")
	require.NoError(t, err)
	_, err = s.Add(ctx, poloM, 1)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "session:abc:"+CheckoutIDKey, "stale"))
	require.NoError(t, store.Set(ctx, "session:keep:"+LocalCartKey, "[]"))

	require.NoError(t, m.End(ctx, "abc"))

	assert.Equal(t, 1, store.Len())
	assert.Equal(t, 0, m.Len())

	fresh, err := m.Session(ctx, "abc")
	require.NoError(t, err)
	assert.NotSame(t, s, fresh)
	assert.Empty(t, fresh.LineItems())
}

func TestSessionManagerEndWaitsForInFlightAdd(t *testing.T) {
	store := repositories.NewMemoryStore()
	ctx := context.Background()
	started := make(chan struct{})
	release := make(chan struct{})

	gw := &mockGateway{}
	gw.On("Create", mock.Anything, poloM, 1).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(remoteCheckout("checkout_1", remoteItem("li-1", poloM, 1, "80.33")), nil).Once()
	m := newTestManager(gw, store)

	s, err := m.Session(ctx, "abc")
	require.NoError(t, err)

	added := make(chan error, 1)
	go func() {
		_, err := s.Add(ctx, poloM, 1)
		added <- err
	}()
	<-started

	ended := make(chan error, 1)
	go func() { ended <- m.End(ctx, "abc") }()

	select {
	case <-ended:
		t.Fatal("End returned while Add was still in flight")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-added)
	require.NoError(t, <-ended)

	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 0, m.Len())

	fresh, err := m.Session(ctx, "abc")
	require.NoError(t, err)
	assert.NotSame(t, s, fresh)
	assert.Empty(t, fresh.CheckoutID())
	assert.Empty(t, fresh.LineItems())
	gw.AssertExpectations(t)
}

func TestEndedSessionNeverWritesBack(t *testing.T) {
	store := repositories.NewMemoryStore()
	m := newTestManager(NewUnavailableGateway(), store)
	ctx := context.Background()

	s, err := m.Session(ctx, "abc")
	require.NoError(t, err)
	require.NoError(t, m.End(ctx, "abc"))

	_, err = s.Add(ctx, poloM, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())
}

func TestSessionManagerEndUnknownSession(t *testing.T) {
	store := repositories.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "session:gone:"+CheckoutIDKey, "checkout_9"))
	m := newTestManager(NewUnavailableGateway(), store)

	require.NoError(t, m.End(ctx, "gone"))
	assert.Equal(t, 0, store.Len())
}

func TestSessionManagerEvictIdle(t *testing.T) {
	store := repositories.NewMemoryStore()
	m := newTestManager(NewUnavailableGateway(), store)
	ctx := context.Background()

	s, err := m.Session(ctx, "abc")
	require.NoError(t, err)
	_, err = s.Add(ctx, teeL, 2)
	require.NoError(t, err)

	assert.Equal(t, 0, m.EvictIdle(time.Hour))
	assert.Equal(t, 1, m.EvictIdle(-time.Second))
	assert.Equal(t, 0, m.Len())

	// The persisted local cart brings the session back intact.
	back, err := m.Session(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, []models.LineItem{s.LineItems()[0]}, back.LineItems())
}

func TestCronServiceRunOnce(t *testing.T) {
	m := newTestManager(NewUnavailableGateway(), repositories.NewMemoryStore())
	ctx := context.Background()
	_, err := m.Session(ctx, "abc")
	require.NoError(t, err)

	purged := 0
	cron := NewCronService(m, func(context.Context) (int64, error) {
		purged++
		return 3, nil
	}, time.Minute, -time.Second, testLogger())

	cron.RunOnce(ctx)

	assert.Equal(t, 0, m.Len())
	assert.Equal(t, 1, purged)
}

func TestCronServiceStartStop(t *testing.T) {
	m := newTestManager(NewUnavailableGateway(), repositories.NewMemoryStore())
	cron := NewCronService(m, nil, 10*time.Millisecond, time.Hour, testLogger())

	require.NoError(t, cron.Start())
	time.Sleep(30 * time.Millisecond)
	cron.Stop()
}

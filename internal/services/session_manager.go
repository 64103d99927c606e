package services

import (
	"context"
	"sync"
	"time"

	"bgc-cart-backend/internal/repositories"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

type SessionManager struct {
	gateway     CheckoutGateway
	store       repositories.KeyValueStore
	catalog     *LocalCatalog
	events      CartEventPublisher
	log         *logrus.Logger
	maxQuantity int

	mu       sync.RWMutex
	sessions map[string]*CartSession
	group    singleflight.Group
}

func NewSessionManager(
	gateway CheckoutGateway,
	store repositories.KeyValueStore,
	catalog *LocalCatalog,
	events CartEventPublisher,
	log *logrus.Logger,
	maxQuantity int,
) *SessionManager {
	return &SessionManager{
		gateway:     gateway,
		store:       store,
		catalog:     catalog,
		events:      events,
		log:         log,
		maxQuantity: maxQuantity,
		sessions:    make(map[string]*CartSession),
	}
}

// Session returns the restored cart for sessionID, building it on first use.
// Concurrent first requests share one restoration.
func (m *SessionManager) Session(ctx context.Context, sessionID string) (*CartSession, error) {
	if sessionID == "" {
		return nil, errors.New("session id is required")
	}

	m.mu.RLock()
	s, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if ok {
		s.touch()
		return s, nil
	}

	v, err, _ := m.group.Do(sessionID, func() (interface{}, error) {
		m.mu.RLock()
		existing, ok := m.sessions[sessionID]
		m.mu.RUnlock()
		if ok {
			return existing, nil
		}

		s := NewCartSession(m.gateway, repositories.NewScopedStore(m.store, sessionID), m.catalog, m.events, m.log, CartSessionOptions{
			SessionID:   sessionID,
			MaxQuantity: m.maxQuantity,
		})
		// The restoration belongs to the session, not to whichever request
		// happened to trigger it.
		s.Restore(context.WithoutCancel(ctx))

		m.mu.Lock()
		m.sessions[sessionID] = s
		m.mu.Unlock()
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*CartSession), nil
}

// End forgets everything remembered for sessionID. A mutation already in
// flight for the session finishes first and is then wiped with the rest.
func (m *SessionManager) End(ctx context.Context, sessionID string) error {
	ctx = context.WithoutCancel(ctx)

	m.mu.RLock()
	s, ok := m.sessions[sessionID]
	m.mu.RUnlock()

	var err error
	if ok {
		err = s.end(ctx, func() {
			m.mu.Lock()
			if m.sessions[sessionID] == s {
				delete(m.sessions, sessionID)
			}
			m.mu.Unlock()
		})
	} else {
		err = clearSessionKeys(ctx, repositories.NewScopedStore(m.store, sessionID))
	}
	if err != nil {
		return err
	}
	m.log.WithField("session_id", sessionID).Info("cart session ended")
	return nil
}

// EvictIdle drops in-memory sessions untouched for longer than olderThan.
// Their store entries stay, so the next request restores them.
func (m *SessionManager) EvictIdle(olderThan time.Duration) int {
	cutoff := time.Now().Add(-olderThan)

	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for id, s := range m.sessions {
		if s.IsLoading() {
			continue
		}
		if s.idleSince().Before(cutoff) {
			delete(m.sessions, id)
			evicted++
		}
	}
	return evicted
}

func (m *SessionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

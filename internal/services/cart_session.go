package services

import (
	"context"
	"sync"
	"time"

	"bgc-cart-backend/internal/models"
	"bgc-cart-backend/internal/repositories"
	"bgc-cart-backend/pkg/messaging"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Store keys for a cart session.
const (
	CheckoutIDKey = "bgc_checkout_id"
	LocalCartKey  = "bgc_local_cart"
)

const DefaultMaxQuantity = 10000

var (
	ErrInvalidQuantity = errors.New("quantity must be between 1 and the configured maximum")
	ErrInvalidVariant  = errors.New("variant id is required")
)

type CartMode string

const (
	ModeRemote CartMode = "remote"
	ModeLocal  CartMode = "local"
)

// CartSnapshot is a consistent read of the session at one instant.
type CartSnapshot struct {
	CheckoutID     string            `json:"checkout_id,omitempty"`
	CheckoutURL    string            `json:"checkout_url,omitempty"`
	Mode           CartMode          `json:"mode"`
	LineItems      []models.LineItem `json:"line_items"`
	CartCount      int               `json:"cart_count"`
	CartTotal      decimal.Decimal   `json:"cart_total"`
	IsLoading      bool              `json:"is_loading"`
	IsInitializing bool              `json:"is_initializing"`
}

type CartSessionOptions struct {
	SessionID   string
	MaxQuantity int
	// NewLineItemID generates ids for locally fabricated line items.
	NewLineItemID func() string
}

// CartSession owns one shopper's cart. It is remote-backed while it holds a
// checkout id and local-only otherwise. Add and Remove are serialised; reads
// see the last settled state and never wait on the gateway.
type CartSession struct {
	id          string
	gateway     CheckoutGateway
	store       repositories.KeyValueStore
	catalog     *LocalCatalog
	events      CartEventPublisher
	log         *logrus.Entry
	maxQuantity int
	newID       func() string

	initOnce sync.Once
	opMu     sync.Mutex

	mu             sync.RWMutex
	ended          bool
	checkoutID     string
	checkoutURL    string
	lineItems      []models.LineItem
	isLoading      bool
	isInitializing bool
	lastUsed       time.Time
}

func NewCartSession(
	gateway CheckoutGateway,
	store repositories.KeyValueStore,
	catalog *LocalCatalog,
	events CartEventPublisher,
	log *logrus.Logger,
	opts CartSessionOptions,
) *CartSession {
	if opts.MaxQuantity <= 0 {
		opts.MaxQuantity = DefaultMaxQuantity
	}
	if opts.NewLineItemID == nil {
		opts.NewLineItemID = func() string { return "local-" + uuid.NewString() }
	}
	if events == nil {
		events = NewNoopCartEvents()
	}
	if catalog == nil {
		catalog = NewLocalCatalog(nil)
	}
	return &CartSession{
		id:             opts.SessionID,
		gateway:        gateway,
		store:          store,
		catalog:        catalog,
		events:         events,
		log:            log.WithField("session_id", opts.SessionID),
		maxQuantity:    opts.MaxQuantity,
		newID:          opts.NewLineItemID,
		lineItems:      []models.LineItem{},
		isInitializing: true,
		lastUsed:       time.Now(),
	}
}

// Restore runs the one-time startup sequence. Later calls are no-ops.
func (s *CartSession) Restore(ctx context.Context) {
	s.initOnce.Do(func() {
		s.opMu.Lock()
		defer s.opMu.Unlock()
		s.restore(ctx)
	})
}

func (s *CartSession) restore(ctx context.Context) {
	defer func() {
		s.mu.Lock()
		s.isInitializing = false
		s.mu.Unlock()
	}()

	if checkoutID, ok := s.storeGet(ctx, CheckoutIDKey); ok && checkoutID != "" {
		checkout, err := s.gateway.FetchByID(ctx, checkoutID)
		if err == nil && checkout != nil {
			s.adoptRemote(ctx, checkout)
			return
		}
		s.log.WithError(err).WithField("checkout_id", checkoutID).Warn("remembered checkout is gone, discarding it")
		s.storeRemove(ctx, CheckoutIDKey)
	}

	raw, ok := s.storeGet(ctx, LocalCartKey)
	if !ok {
		return
	}
	items, err := models.DecodeLineItems(raw)
	if err != nil {
		s.log.WithError(err).Warn("local cart snapshot unreadable, starting empty")
		return
	}
	s.mu.Lock()
	s.lineItems = items
	s.mu.Unlock()
}

// Add puts quantity units of variantID in the cart. Only validation errors
// are returned; gateway trouble degrades the cart to local-only instead.
func (s *CartSession) Add(ctx context.Context, variantID string, quantity int) (CartSnapshot, error) {
	if variantID == "" {
		return CartSnapshot{}, ErrInvalidVariant
	}
	if quantity <= 0 || quantity > s.maxQuantity {
		return CartSnapshot{}, ErrInvalidQuantity
	}

	// A caller hanging up must not read as a gateway failure and degrade a
	// healthy checkout; the gateway's own timeout bounds each call.
	ctx = context.WithoutCancel(ctx)
	s.Restore(ctx)
	return s.mutate(func() {
		s.add(ctx, variantID, quantity)
	}), nil
}

func (s *CartSession) add(ctx context.Context, variantID string, quantity int) {
	if checkoutID := s.CheckoutID(); checkoutID != "" {
		checkout, err := s.gateway.AddItems(ctx, checkoutID, []models.LineItemInput{{VariantID: variantID, Quantity: quantity}})
		if err == nil && checkout != nil {
			s.adoptRemote(ctx, checkout)
			s.publish(ctx, messaging.CartEventItemsAdded, func(e *messaging.CartEvent) {
				e.VariantID = variantID
				e.Quantity = quantity
			})
			return
		}
		s.gatewayFailed("add items", err, checkoutID)
	}

	// Either there was no checkout or appending failed: one fresh create, then local.
	checkout, err := s.gateway.Create(ctx, variantID, quantity)
	if err == nil && checkout != nil {
		s.adoptRemote(ctx, checkout)
		s.publish(ctx, messaging.CartEventCheckoutCreated, func(e *messaging.CartEvent) {
			e.VariantID = variantID
			e.Quantity = quantity
		})
		return
	}
	s.gatewayFailed("create", err, "")
	s.addLocal(ctx, variantID, quantity)
}

// Remove drops one line item. It never fails.
func (s *CartSession) Remove(ctx context.Context, lineItemID string) CartSnapshot {
	ctx = context.WithoutCancel(ctx)
	s.Restore(ctx)
	return s.mutate(func() {
		s.remove(ctx, lineItemID)
	})
}

func (s *CartSession) remove(ctx context.Context, lineItemID string) {
	if checkoutID := s.CheckoutID(); checkoutID != "" {
		checkout, err := s.gateway.RemoveItems(ctx, checkoutID, []string{lineItemID})
		if err == nil && checkout != nil {
			s.adoptRemote(ctx, checkout)
			s.publish(ctx, messaging.CartEventItemRemoved, func(e *messaging.CartEvent) {
				e.LineItemID = lineItemID
			})
			return
		}
		s.gatewayFailed("remove items", err, checkoutID)
	}
	s.removeLocal(ctx, lineItemID)
}

// mutate runs fn with the loading flag raised and returns the settled state.
func (s *CartSession) mutate(fn func()) CartSnapshot {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	func() {
		s.setLoading(true)
		defer s.setLoading(false)
		fn()
	}()
	return s.Snapshot()
}

func (s *CartSession) adoptRemote(ctx context.Context, checkout *models.Checkout) {
	s.mu.Lock()
	s.checkoutID = checkout.ID
	s.checkoutURL = checkout.WebURL
	s.lineItems = models.CloneLineItems(checkout.LineItems)
	s.mu.Unlock()

	s.storeSet(ctx, CheckoutIDKey, checkout.ID)
	// The remote checkout is the source of truth now; a stale local snapshot
	// must not resurface if this checkout later expires.
	s.storeRemove(ctx, LocalCartKey)
}

func (s *CartSession) addLocal(ctx context.Context, variantID string, quantity int) {
	s.mu.Lock()
	wasRemote := s.checkoutID != ""
	s.checkoutID = ""
	s.checkoutURL = ""

	items := models.CloneLineItems(s.lineItems)
	merged := false
	for i := range items {
		if items[i].VariantID() == variantID {
			items[i].Quantity += quantity
			if items[i].Quantity > s.maxQuantity {
				items[i].Quantity = s.maxQuantity
			}
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, s.catalog.lineItemFor(s.newID(), variantID, quantity))
	}
	s.lineItems = items
	s.mu.Unlock()

	s.enterLocal(ctx, wasRemote, items)
	s.publish(ctx, messaging.CartEventLocalItemAdded, func(e *messaging.CartEvent) {
		e.VariantID = variantID
		e.Quantity = quantity
	})
}

func (s *CartSession) removeLocal(ctx context.Context, lineItemID string) {
	s.mu.Lock()
	wasRemote := s.checkoutID != ""
	s.checkoutID = ""
	s.checkoutURL = ""

	items := make([]models.LineItem, 0, len(s.lineItems))
	for _, item := range s.lineItems {
		if item.ID != lineItemID {
			items = append(items, item)
		}
	}
	s.lineItems = items
	s.mu.Unlock()

	s.enterLocal(ctx, wasRemote, items)
	s.publish(ctx, messaging.CartEventLocalItemRemoved, func(e *messaging.CartEvent) {
		e.LineItemID = lineItemID
	})
}

// enterLocal persists the local snapshot and, when leaving remote mode,
// forgets the checkout id.
func (s *CartSession) enterLocal(ctx context.Context, wasRemote bool, items []models.LineItem) {
	if wasRemote {
		s.storeRemove(ctx, CheckoutIDKey)
		s.log.Warn("cart degraded to local-only")
		s.publish(ctx, messaging.CartEventDegradedToLocal, nil)
	}
	raw, err := models.EncodeLineItems(items)
	if err != nil {
		s.log.WithError(err).Error("failed to encode local cart")
		return
	}
	s.storeSet(ctx, LocalCartKey, raw)
}

func (s *CartSession) gatewayFailed(op string, err error, checkoutID string) {
	entry := s.log.WithField("op", op)
	if checkoutID != "" {
		entry = entry.WithField("checkout_id", checkoutID)
	}
	if err == nil {
		entry.Warn("gateway returned no checkout")
		return
	}
	entry.WithError(err).Warn("gateway call failed")
}

func (s *CartSession) publish(ctx context.Context, eventType string, fill func(*messaging.CartEvent)) {
	snap := s.Snapshot()
	event := messaging.CartEvent{
		Type:       eventType,
		SessionID:  s.id,
		CheckoutID: snap.CheckoutID,
		Mode:       string(snap.Mode),
		OccurredAt: time.Now().UTC(),
	}
	if fill != nil {
		fill(&event)
	}
	s.events.Publish(ctx, event)
}

// end waits for any in-flight mutation, then wipes the session's memory and
// store keys. Once ended the session never writes to the store again, so a
// mutation queued behind end cannot bring the cart back.
func (s *CartSession) end(ctx context.Context, detach func()) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	s.ended = true
	s.checkoutID = ""
	s.checkoutURL = ""
	s.lineItems = []models.LineItem{}
	s.mu.Unlock()

	if detach != nil {
		defer detach()
	}
	return clearSessionKeys(ctx, s.store)
}

func clearSessionKeys(ctx context.Context, store repositories.KeyValueStore) error {
	for _, key := range []string{CheckoutIDKey, LocalCartKey} {
		if err := store.Remove(ctx, key); err != nil {
			return errors.Wrapf(err, "clear %s", key)
		}
	}
	return nil
}

func (s *CartSession) isEnded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ended
}

func (s *CartSession) storeGet(ctx context.Context, key string) (string, bool) {
	v, ok, err := s.store.Get(ctx, key)
	if err != nil {
		s.log.WithError(err).WithField("key", key).Warn("store read failed")
		return "", false
	}
	return v, ok
}

func (s *CartSession) storeSet(ctx context.Context, key, value string) {
	if s.isEnded() {
		return
	}
	if err := s.store.Set(ctx, key, value); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("store write failed")
	}
}

func (s *CartSession) storeRemove(ctx context.Context, key string) {
	if s.isEnded() {
		return
	}
	if err := s.store.Remove(ctx, key); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("store delete failed")
	}
}

func (s *CartSession) setLoading(v bool) {
	s.mu.Lock()
	s.isLoading = v
	s.lastUsed = time.Now()
	s.mu.Unlock()
}

func (s *CartSession) Snapshot() CartSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mode := ModeLocal
	if s.checkoutID != "" {
		mode = ModeRemote
	}
	return CartSnapshot{
		CheckoutID:     s.checkoutID,
		CheckoutURL:    s.checkoutURL,
		Mode:           mode,
		LineItems:      models.CloneLineItems(s.lineItems),
		CartCount:      CartCount(s.lineItems),
		CartTotal:      CartTotal(s.lineItems),
		IsLoading:      s.isLoading,
		IsInitializing: s.isInitializing,
	}
}

func (s *CartSession) ID() string { return s.id }

func (s *CartSession) CheckoutID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.checkoutID
}

func (s *CartSession) CheckoutURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.checkoutURL
}

func (s *CartSession) LineItems() []models.LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneLineItems(s.lineItems)
}

func (s *CartSession) CartCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return CartCount(s.lineItems)
}

func (s *CartSession) CartTotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return CartTotal(s.lineItems)
}

func (s *CartSession) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isLoading
}

func (s *CartSession) IsInitializing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isInitializing
}

func (s *CartSession) touch() {
	s.mu.Lock()
	s.lastUsed = time.Now()
	s.mu.Unlock()
}

func (s *CartSession) idleSince() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUsed
}

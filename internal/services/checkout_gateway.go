package services

import (
	"context"
	"time"

	"bgc-cart-backend/configs"
	"bgc-cart-backend/internal/models"
	"bgc-cart-backend/pkg/shopify"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// CheckoutGateway is the remote commerce boundary. A nil checkout with a nil
// error means the backend answered but had nothing usable.
type CheckoutGateway interface {
	Create(ctx context.Context, variantID string, quantity int) (*models.Checkout, error)
	AddItems(ctx context.Context, checkoutID string, items []models.LineItemInput) (*models.Checkout, error)
	RemoveItems(ctx context.Context, checkoutID string, lineItemIDs []string) (*models.Checkout, error)
	FetchByID(ctx context.Context, checkoutID string) (*models.Checkout, error)
}

var ErrGatewayUnavailable = errors.New("checkout gateway not configured")

// StorefrontClient is the subset of *shopify.Client the gateway drives.
type StorefrontClient interface {
	CreateCheckout(ctx context.Context, variantID string, quantity int) (*shopify.Checkout, error)
	AddLineItems(ctx context.Context, checkoutID string, items []shopify.LineItemInput) (*shopify.Checkout, error)
	RemoveLineItems(ctx context.Context, checkoutID string, lineItemIDs []string) (*shopify.Checkout, error)
	GetCheckout(ctx context.Context, checkoutID string) (*shopify.Checkout, error)
}

type shopifyGateway struct {
	client  StorefrontClient
	cb      *gobreaker.CircuitBreaker
	timeout time.Duration
	log     *logrus.Logger
}

func NewShopifyGateway(client StorefrontClient, timeout time.Duration, bc configs.BreakerConfig, log *logrus.Logger) CheckoutGateway {
	st := gobreaker.Settings{
		Name:        "ShopifyStorefront",
		MaxRequests: bc.MaxRequests,
		Interval:    bc.Interval,
		Timeout:     bc.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= bc.MinRequests && float64(counts.TotalFailures)/float64(counts.Requests) >= bc.FailureRate
		},
		// Input rejected before any request says nothing about backend health
		IsSuccessful: func(err error) bool {
			// Quantity rejections and callers that gave up say nothing about
			// the storefront's health.
			return err == nil ||
				errors.Is(err, shopify.ErrQuantityTooSmall) ||
				errors.Is(err, shopify.ErrQuantityTooLarge) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warnf("CircuitBreaker[%s] state changed from %s to %s", name, from, to)
		},
	}

	return &shopifyGateway{
		client:  client,
		cb:      gobreaker.NewCircuitBreaker(st),
		timeout: timeout,
		log:     log,
	}
}

func (g *shopifyGateway) Create(ctx context.Context, variantID string, quantity int) (*models.Checkout, error) {
	return g.call(ctx, "create", func(ctx context.Context) (*shopify.Checkout, error) {
		return g.client.CreateCheckout(ctx, variantID, quantity)
	})
}

func (g *shopifyGateway) AddItems(ctx context.Context, checkoutID string, items []models.LineItemInput) (*models.Checkout, error) {
	inputs := make([]shopify.LineItemInput, len(items))
	for i, item := range items {
		inputs[i] = shopify.LineItemInput{VariantID: item.VariantID, Quantity: item.Quantity}
	}
	return g.call(ctx, "add_items", func(ctx context.Context) (*shopify.Checkout, error) {
		return g.client.AddLineItems(ctx, checkoutID, inputs)
	})
}

func (g *shopifyGateway) RemoveItems(ctx context.Context, checkoutID string, lineItemIDs []string) (*models.Checkout, error) {
	return g.call(ctx, "remove_items", func(ctx context.Context) (*shopify.Checkout, error) {
		return g.client.RemoveLineItems(ctx, checkoutID, lineItemIDs)
	})
}

func (g *shopifyGateway) FetchByID(ctx context.Context, checkoutID string) (*models.Checkout, error) {
	return g.call(ctx, "fetch", func(ctx context.Context) (*shopify.Checkout, error) {
		return g.client.GetCheckout(ctx, checkoutID)
	})
}

func (g *shopifyGateway) call(ctx context.Context, op string, fn func(context.Context) (*shopify.Checkout, error)) (*models.Checkout, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	res, err := g.cb.Execute(func() (interface{}, error) {
		return fn(ctx)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "gateway %s", op)
	}

	raw, _ := res.(*shopify.Checkout)
	if raw == nil {
		return nil, nil
	}

	checkout := checkoutFromStorefront(raw)
	if err := models.ValidateCheckout(checkout); err != nil {
		return nil, errors.Wrapf(err, "gateway %s", op)
	}

	valid, rejected := models.SanitizeLineItems(checkout.LineItems)
	for _, rerr := range rejected {
		g.log.WithError(rerr).WithField("checkout_id", checkout.ID).Warn("dropping malformed line item from gateway response")
	}
	checkout.LineItems = valid
	return checkout, nil
}

func checkoutFromStorefront(c *shopify.Checkout) *models.Checkout {
	lines := c.Lines()
	items := make([]models.LineItem, 0, len(lines))
	for _, line := range lines {
		item := models.LineItem{
			ID:       line.ID,
			Title:    line.Title,
			Quantity: line.Quantity,
		}
		if line.Variant != nil {
			v := &models.Variant{ID: line.Variant.ID, Title: line.Variant.Title}
			if line.Variant.Price != nil {
				v.Price = models.Price{Amount: line.Variant.Price.Amount, CurrencyCode: line.Variant.Price.CurrencyCode}
			}
			if line.Variant.Image != nil {
				v.Image = &models.Image{URL: line.Variant.Image.URL, AltText: line.Variant.Image.AltText}
			}
			if line.Variant.Product != nil {
				v.Product = &models.ProductRef{Handle: line.Variant.Product.Handle, Title: line.Variant.Product.Title}
			}
			item.Variant = v
		}
		items = append(items, item)
	}
	return &models.Checkout{ID: c.ID, WebURL: c.WebURL, LineItems: items}
}

// unavailableGateway fails every call; the cart then runs local-only.
type unavailableGateway struct{}

func NewUnavailableGateway() CheckoutGateway { return unavailableGateway{} }

func (unavailableGateway) Create(context.Context, string, int) (*models.Checkout, error) {
	return nil, ErrGatewayUnavailable
}

func (unavailableGateway) AddItems(context.Context, string, []models.LineItemInput) (*models.Checkout, error) {
	return nil, ErrGatewayUnavailable
}

func (unavailableGateway) RemoveItems(context.Context, string, []string) (*models.Checkout, error) {
	return nil, ErrGatewayUnavailable
}

func (unavailableGateway) FetchByID(context.Context, string) (*models.Checkout, error) {
	return nil, ErrGatewayUnavailable
}

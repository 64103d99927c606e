package repositories

import (
	"context"

	"bgc-cart-backend/internal/models"
)

// KeyValueStore is the durable per-profile store the cart remembers its
// checkout id and local snapshot in. Get reports ok=false for missing keys.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// CatalogRepository interface for loading the offline product catalog
type CatalogRepository interface {
	ListProducts(ctx context.Context) ([]models.CatalogProduct, error)
}

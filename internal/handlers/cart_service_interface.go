package handlers

import (
	"context"

	"bgc-cart-backend/internal/services"
)

// CartServiceInterface defines the contract for cart service
type CartServiceInterface interface {
	GetCart(ctx context.Context, sessionID string) (services.CartSnapshot, error)
	AddToCart(ctx context.Context, sessionID string, req *services.AddToCartRequest) (services.CartSnapshot, error)
	RemoveFromCart(ctx context.Context, sessionID, lineItemID string) (services.CartSnapshot, error)
	EndSession(ctx context.Context, sessionID string) error
}

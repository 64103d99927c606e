package services

import (
	"context"
)

// CartService is the request-facing facade over the session registry.
type CartService struct {
	sessions *SessionManager
}

func NewCartService(sessions *SessionManager) *CartService {
	return &CartService{sessions: sessions}
}

type AddToCartRequest struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

func (s *CartService) GetCart(ctx context.Context, sessionID string) (CartSnapshot, error) {
	session, err := s.sessions.Session(ctx, sessionID)
	if err != nil {
		return CartSnapshot{}, err
	}
	return session.Snapshot(), nil
}

func (s *CartService) AddToCart(ctx context.Context, sessionID string, req *AddToCartRequest) (CartSnapshot, error) {
	session, err := s.sessions.Session(ctx, sessionID)
	if err != nil {
		return CartSnapshot{}, err
	}
	return session.Add(ctx, req.VariantID, req.Quantity)
}

func (s *CartService) RemoveFromCart(ctx context.Context, sessionID, lineItemID string) (CartSnapshot, error) {
	session, err := s.sessions.Session(ctx, sessionID)
	if err != nil {
		return CartSnapshot{}, err
	}
	return session.Remove(ctx, lineItemID), nil
}

func (s *CartService) EndSession(ctx context.Context, sessionID string) error {
	return s.sessions.End(ctx, sessionID)
}

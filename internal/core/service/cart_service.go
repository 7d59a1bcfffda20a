package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/rl1809/shop-cart/internal/core/domain"
	"github.com/rl1809/shop-cart/internal/core/state"
	"github.com/rl1809/shop-cart/internal/port"
)

// CartService owns the current cart. Every mutation persists the whole cart
// before returning; a failed persist leaves both the in-memory and the
// durable cart at their previous state.
type CartService struct {
	mu    sync.Mutex
	items domain.Cart

	store port.KeyValueStore
	log   logrus.FieldLogger
}

// NewCartService hydrates the cart from the store. Missing or unreadable
// state degrades to an empty cart.
func NewCartService(ctx context.Context, store port.KeyValueStore, log logrus.FieldLogger) *CartService {
	items, err := state.Load(ctx, store, state.KeyCart, domain.Cart{})
	if err != nil {
		log.WithError(err).Warn("cart state unreadable, starting empty")
	}

	return &CartService{
		items: items,
		store: store,
		log:   log,
	}
}

// AddItem merges the product into the cart: an existing line gains quantity
// 1, otherwise a new line with quantity 1 is appended.
func (s *CartService) AddItem(ctx context.Context, p domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.items.Clone()
	if i := next.IndexOf(p.ID); i >= 0 {
		next[i].Quantity++
	} else {
		next = append(next, domain.CartItem{
			ID:       p.ID,
			Title:    p.Title,
			Price:    p.Price,
			Image:    p.Image,
			Quantity: 1,
		})
	}

	return s.commit(ctx, next)
}

// ChangeQuantity adds delta to the line's quantity. A result of zero or less
// removes the line entirely; an unknown product ID is a no-op.
func (s *CartService) ChangeQuantity(ctx context.Context, productID int64, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.items.IndexOf(productID)
	if i < 0 {
		return nil
	}

	if s.items[i].Quantity+delta <= 0 {
		return s.commit(ctx, s.removed(productID))
	}

	next := s.items.Clone()
	next[i].Quantity += delta
	return s.commit(ctx, next)
}

// RemoveItem deletes the line with the given product ID if present.
func (s *CartService) RemoveItem(ctx context.Context, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commit(ctx, s.removed(productID))
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commit(ctx, domain.Cart{})
}

// Items returns an independent copy of the current cart.
func (s *CartService) Items() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.items.Clone()
}

// ItemCount is the sum of quantities across all lines.
func (s *CartService) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.items.ItemCount()
}

// Total is recomputed from the current lines on every call.
func (s *CartService) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.items.Total()
}

// removed returns a copy of the cart without the given product ID.
// Callers must hold s.mu.
func (s *CartService) removed(productID int64) domain.Cart {
	next := make(domain.Cart, 0, len(s.items))
	for _, item := range s.items {
		if item.ID != productID {
			next = append(next, item)
		}
	}
	return next
}

// commit persists next and installs it as the current cart only after the
// write succeeded. Callers must hold s.mu.
func (s *CartService) commit(ctx context.Context, next domain.Cart) error {
	if err := state.Save(ctx, s.store, state.KeyCart, next); err != nil {
		s.log.WithError(err).Error("failed to persist cart")
		return fmt.Errorf("persist cart: %w", err)
	}

	s.items = next
	return nil
}

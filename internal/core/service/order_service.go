package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rl1809/shop-cart/internal/core/domain"
	"github.com/rl1809/shop-cart/internal/core/state"
	"github.com/rl1809/shop-cart/internal/port"
)

var (
	ErrEmptyCart = errors.New("cart is empty")

	// ErrCartNotCleared reports the checkout crash window: the order is
	// durable but the cart-clear write failed, so the cart still holds the
	// purchased items.
	ErrCartNotCleared = errors.New("order recorded but cart not cleared")
)

// CartCheckout is the slice of the cart manager the order manager needs to
// run the checkout transaction.
type CartCheckout interface {
	Items() domain.Cart
	Clear(ctx context.Context) error
}

// OrderService owns the order history. The history is append-only and stored
// in chronological order.
type OrderService struct {
	mu     sync.Mutex
	orders []domain.Order

	cart  CartCheckout
	store port.KeyValueStore
	log   logrus.FieldLogger
}

// NewOrderService hydrates the order history from the store. Missing or
// unreadable state degrades to an empty history.
func NewOrderService(ctx context.Context, store port.KeyValueStore, cart CartCheckout, log logrus.FieldLogger) *OrderService {
	orders, err := state.Load(ctx, store, state.KeyOrders, []domain.Order{})
	if err != nil {
		log.WithError(err).Warn("order history unreadable, starting empty")
	}

	return &OrderService{
		orders: orders,
		cart:   cart,
		store:  store,
		log:    log,
	}
}

// Checkout converts the current cart into a new order: the order is appended
// to the history and persisted, then the cart is cleared. The cart-clear
// write runs before success is reported; if it fails, the created order is
// returned together with an error wrapping ErrCartNotCleared so the caller
// knows exactly which step failed.
func (s *OrderService) Checkout(ctx context.Context) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.cart.Items()
	if len(items) == 0 {
		return domain.Order{}, ErrEmptyCart
	}

	order := domain.NewOrder(time.Now(), s.lastID(), items)

	next := make([]domain.Order, len(s.orders), len(s.orders)+1)
	copy(next, s.orders)
	next = append(next, order)

	if err := state.Save(ctx, s.store, state.KeyOrders, next); err != nil {
		s.log.WithError(err).Error("failed to persist order history")
		return domain.Order{}, fmt.Errorf("persist order history: %w", err)
	}
	s.orders = next

	if err := s.cart.Clear(ctx); err != nil {
		s.log.WithError(err).WithField("order_id", order.ID).Error("cart clear failed after checkout")
		return order, fmt.Errorf("%w: order %d: %v", ErrCartNotCleared, order.ID, err)
	}

	s.log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"total":    order.Total,
	}).Info("checkout completed")

	return order, nil
}

// Orders returns a most-recent-first copy of the history. The stored history
// stays chronological.
func (s *OrderService) Orders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Order, len(s.orders))
	for i, order := range s.orders {
		out[len(s.orders)-1-i] = order
	}
	return out
}

// lastID is the ID of the most recently created order, or 0. Callers must
// hold s.mu.
func (s *OrderService) lastID() int64 {
	if len(s.orders) == 0 {
		return 0
	}
	return s.orders[len(s.orders)-1].ID
}

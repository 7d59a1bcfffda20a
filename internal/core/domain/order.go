package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderDateLayout is the human-readable creation timestamp stored on orders.
const OrderDateLayout = "Jan 2, 2006 3:04:05 PM"

// Order is an immutable snapshot of a completed checkout.
type Order struct {
	ID    int64           `json:"id"`
	Date  string          `json:"date"`
	Items Cart            `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// NewOrder builds an order from the cart as it stands at checkout time.
// The ID derives from the creation timestamp in milliseconds; lastID is the
// ID of the most recent existing order, so two checkouts inside the same
// millisecond still produce strictly increasing IDs.
func NewOrder(now time.Time, lastID int64, cart Cart) Order {
	id := now.UnixMilli()
	if id <= lastID {
		id = lastID + 1
	}

	return Order{
		ID:    id,
		Date:  now.Format(OrderDateLayout),
		Items: cart.Clone(),
		Total: cart.Total(),
	}
}

package domain

import "github.com/shopspring/decimal"

// CartItem is one product line in a cart. Quantity is always >= 1 for a
// stored item; a line that would drop to zero is deleted instead.
type CartItem struct {
	ID       int64           `json:"id"`
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Quantity int             `json:"quantity"`
}

func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is the ordered set of lines, at most one per product ID, in the order
// products were first added. It serializes as a plain JSON array.
type Cart []CartItem

// IndexOf returns the position of the line with the given product ID, or -1.
func (c Cart) IndexOf(productID int64) int {
	for i, item := range c {
		if item.ID == productID {
			return i
		}
	}
	return -1
}

// ItemCount is the sum of quantities across all lines.
func (c Cart) ItemCount() int {
	count := 0
	for _, item := range c {
		count += item.Quantity
	}
	return count
}

// Total recomputes the cart total from scratch on every call.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Clone returns an independent copy of the cart.
func (c Cart) Clone() Cart {
	if c == nil {
		return nil
	}
	clone := make(Cart, len(c))
	copy(clone, c)
	return clone
}

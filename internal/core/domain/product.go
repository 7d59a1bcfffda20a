package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Product is a single record from the remote catalog. Fields are validated
// once at the catalog boundary; the rest of the core trusts them as-is.
type Product struct {
	ID    int64           `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}

func (p Product) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("product id %d is not positive", p.ID)
	}
	if p.Title == "" {
		return fmt.Errorf("product %d has empty title", p.ID)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("product %d has negative price %s", p.ID, p.Price)
	}
	if p.Image == "" {
		return fmt.Errorf("product %d has empty image URL", p.ID)
	}
	return nil
}

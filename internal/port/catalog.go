package port

import (
	"context"

	"github.com/rl1809/shop-cart/internal/core/domain"
)

type CatalogClient interface {
	// FetchProducts returns the full product listing. Records are validated
	// at this boundary; the core performs no further checks on them.
	FetchProducts(ctx context.Context) ([]domain.Product, error)
}

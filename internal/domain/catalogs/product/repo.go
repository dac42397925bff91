package product

import (
	"context"

	"cantina/internal/core/id"
	"cantina/internal/domain"
)

// Repository defines the interface for Product persistence.
type Repository interface {
	domain.CatalogRepository[*Product]

	// AdjustStock applies stock_quantity += delta as a single statement.
	// Callers must pre-check that the result stays non-negative; the
	// storage layer enforces the floor and a violation surfaces as an error.
	AdjustStock(ctx context.Context, productID id.ID, delta int) error

	// FindLowStock retrieves products with stock at or below their threshold.
	FindLowStock(ctx context.Context) ([]*Product, error)
}

package product

import (
	"context"
	"fmt"

	"cantina/internal/core/apperror"
	"cantina/internal/domain"
)

// Service provides business logic for the Product catalog.
type Service struct {
	*domain.CatalogService[*Product]
	repo Repository
}

// NewService creates a new Product service.
func NewService(repo Repository) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService[*Product](repo, "product"),
		repo:           repo,
	}
}

// FindLowStock returns products at or below their low-stock threshold.
func (s *Service) FindLowStock(ctx context.Context) ([]*Product, error) {
	items, err := s.repo.FindLowStock(ctx)
	if err != nil {
		return nil, apperror.NewStorage(fmt.Errorf("find low stock: %w", err))
	}
	return items, nil
}

package customer

import (
	"context"

	"cantina/internal/core/id"
	"cantina/internal/domain"
	"cantina/pkg/logger"
)

// Service provides business logic for the Customer catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Customer]
	repo Repository
}

// NewService creates a new Customer service.
func NewService(repo Repository) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService[*Customer](repo, "customer"),
		repo:           repo,
	}
}

// SetCreditBlocked toggles the credit block flag on a customer.
func (s *Service) SetCreditBlocked(ctx context.Context, customerID id.ID, blocked bool) (*Customer, error) {
	c, err := s.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	c.CreditBlocked = blocked
	if err := s.Update(ctx, c); err != nil {
		return nil, err
	}

	logger.Info(ctx, "customer credit block changed",
		"customer_id", customerID,
		"blocked", blocked,
	)
	return c, nil
}

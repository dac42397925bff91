// Package domain provides core business logic interfaces and types.
package domain

import (
	"context"
	"fmt"

	"cantina/internal/core/apperror"
	"cantina/internal/core/entity"
	"cantina/internal/core/id"
)

// CatalogService provides business logic for catalog entities.
type CatalogService[T entity.Validatable] struct {
	repo CatalogRepository[T]

	// entityName for error messages
	entityName string
}

// NewCatalogService creates a new catalog service.
func NewCatalogService[T entity.Validatable](repo CatalogRepository[T], entityName string) *CatalogService[T] {
	return &CatalogService[T]{
		repo:       repo,
		entityName: entityName,
	}
}

func (s *CatalogService[T]) normalizeValidationErr(err error) error {
	if err == nil {
		return nil
	}
	// If entity already returns structured AppError, keep it.
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewValidation(err.Error())
}

func (s *CatalogService[T]) normalizeGetErr(err error, idOrCode any) error {
	if err == nil {
		return nil
	}
	// Preserve existing AppError, but ensure not-found is mapped to the correct entity name.
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(s.entityName, idOrCode)
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewStorage(err).WithDetail("entity", s.entityName).WithDetail("id", idOrCode)
}

// Create creates a new catalog entity.
func (s *CatalogService[T]) Create(ctx context.Context, item T) error {
	if err := item.Validate(ctx); err != nil {
		return s.normalizeValidationErr(err)
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return apperror.NewStorage(fmt.Errorf("create %s: %w", s.entityName, err))
	}
	return nil
}

// GetByID retrieves entity by ID.
func (s *CatalogService[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	item, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return item, s.normalizeGetErr(err, entityID.String())
	}
	return item, nil
}

// Update fully replaces an existing entity.
func (s *CatalogService[T]) Update(ctx context.Context, item T) error {
	if err := item.Validate(ctx); err != nil {
		return s.normalizeValidationErr(err)
	}

	if err := s.repo.Update(ctx, item); err != nil {
		if apperror.IsAppError(err) {
			return err
		}
		return apperror.NewStorage(fmt.Errorf("update %s: %w", s.entityName, err))
	}
	return nil
}

// Delete removes an entity. Unconditional: sale history and ledger entries
// referencing the id are left in place (they carry name snapshots).
func (s *CatalogService[T]) Delete(ctx context.Context, entityID id.ID) error {
	if err := s.repo.Delete(ctx, entityID); err != nil {
		if apperror.IsAppError(err) {
			return err
		}
		return apperror.NewStorage(fmt.Errorf("delete %s: %w", s.entityName, err))
	}
	return nil
}

// List retrieves entities with filtering and pagination.
func (s *CatalogService[T]) List(ctx context.Context, filter ListFilter) (ListResult[T], error) {
	result, err := s.repo.List(ctx, filter)
	if err != nil {
		return result, apperror.NewStorage(fmt.Errorf("list %s: %w", s.entityName, err))
	}
	return result, nil
}

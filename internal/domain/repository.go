// Package domain provides core business logic interfaces and types.
package domain

import (
	"context"

	"cantina/internal/core/entity"
	"cantina/internal/core/id"
)

// --- Filter & Pagination ---

// ListFilter contains common filtering options for list operations.
type ListFilter struct {
	// Search performs a substring search on the name field
	Search string

	// OrderBy specifies sorting (e.g., "name", "-created_at")
	OrderBy string

	// Pagination. Limit == 0 means no limit.
	Limit  int
	Offset int
}

// DefaultListFilter returns sensible defaults.
func DefaultListFilter() ListFilter {
	return ListFilter{
		Limit:   50,
		OrderBy: "name",
	}
}

// ListResult contains paginated results.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// --- Repository Interfaces ---

// CatalogRepository defines CRUD operations for catalog entities.
// Every call is an independent short-lived storage operation; there is no
// cross-entity transaction primitive (see the ledger engine's consistency
// notes for the consequences).
type CatalogRepository[T entity.Validatable] interface {
	// Create inserts a new entity
	Create(ctx context.Context, entity T) error

	// GetByID retrieves entity by ID
	GetByID(ctx context.Context, id id.ID) (T, error)

	// Update fully replaces an existing entity (no partial-field merge;
	// callers supply the complete record)
	Update(ctx context.Context, entity T) error

	// Delete physically removes the entity. Unconditional: no
	// referential-integrity check against sales or ledger entries.
	Delete(ctx context.Context, id id.ID) error

	// List retrieves entities with filtering and pagination
	List(ctx context.Context, filter ListFilter) (ListResult[T], error)

	// All retrieves every entity (used by backup export and reports)
	All(ctx context.Context) ([]T, error)

	// ReplaceAll clears the collection and bulk-inserts the given records.
	// Used only by backup restore; inserts run one by one, so a mid-loop
	// failure leaves a partial state.
	ReplaceAll(ctx context.Context, entities []T) error
}

package entity

import (
	"context"
	"time"

	"cantina/internal/core/id"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without database access).
type Validatable interface {
	// Validate checks entity invariants.
	// Returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

///////////////
// Catalogs  //
///////////////

// BaseCatalog contains common fields for reference data (customers, products).
// The system runs as a single interactive session, so there is no version
// stamp for optimistic locking here.
type BaseCatalog struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`
}

// NewBaseCatalog creates a new BaseCatalog with generated ID.
func NewBaseCatalog() BaseCatalog {
	return BaseCatalog{
		ID: id.New(),
	}
}

///////////////
// Documents //
///////////////

// BaseDocument contains common fields for documents (sales).
// Documents are immutable once created; CreatedAt is the business timestamp.
type BaseDocument struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	// CreatedAt is when the document was recorded
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewBaseDocument creates a new BaseDocument with generated ID and timestamp.
func NewBaseDocument() BaseDocument {
	return BaseDocument{
		ID:        id.New(),
		CreatedAt: time.Now().UTC(),
	}
}

package ledger

import (
	"context"
	"time"

	"cantina/internal/core/id"
	"cantina/internal/domain/catalogs/customer"
	"cantina/internal/domain/catalogs/product"
)

// SaleFilter narrows sale listings. Zero value means no filtering.
type SaleFilter struct {
	From           *time.Time
	To             *time.Time
	SettlementType *SettlementType
	Limit          int
	Offset         int
}

// SaleRepository persists sale documents. Sales are append-only.
type SaleRepository interface {
	Create(ctx context.Context, sale *Sale) error
	GetByID(ctx context.Context, saleID id.ID) (*Sale, error)
	List(ctx context.Context, filter SaleFilter) ([]*Sale, error)
	All(ctx context.Context) ([]*Sale, error)

	// ReplaceAll clears the sale log and inserts the given sales one by
	// one. A failure mid-way leaves the log partially populated.
	ReplaceAll(ctx context.Context, sales []*Sale) error
}

// EntryRepository persists ledger entries, one per customer.
type EntryRepository interface {
	// Get returns the entry for a customer, or a not-found error.
	Get(ctx context.Context, customerID id.ID) (*Entry, error)
	Create(ctx context.Context, entry *Entry) error
	Update(ctx context.Context, entry *Entry) error
	ListOpen(ctx context.Context) ([]*Entry, error)
	All(ctx context.Context) ([]*Entry, error)
	ReplaceAll(ctx context.Context, entries []*Entry) error
}

// CustomerReader is the slice of the customer repository the engine needs.
type CustomerReader interface {
	GetByID(ctx context.Context, customerID id.ID) (*customer.Customer, error)
}

// ProductStore is the slice of the product repository the engine needs.
type ProductStore interface {
	GetByID(ctx context.Context, productID id.ID) (*product.Product, error)
	AdjustStock(ctx context.Context, productID id.ID, delta int) error
	All(ctx context.Context) ([]*product.Product, error)
}

// Package product provides the Product catalog: the snack-bar items on sale,
// with price, stock level and low-stock threshold.
package product

import (
	"context"

	"cantina/internal/core/apperror"
	"cantina/internal/core/entity"
	"cantina/internal/core/types"
)

// Category classifies a product.
type Category string

const (
	CategorySweet  Category = "SWEET"
	CategorySavory Category = "SAVORY"
	CategoryDrink  Category = "DRINK"
	CategorySnack  Category = "SNACK"
	CategoryOther  Category = "OTHER"
)

// Product represents a snack-bar item.
// StockQuantity is whole units and must never go negative; sale settlement is
// the only flow that decrements it.
type Product struct {
	entity.BaseCatalog

	// Name is the display name
	Name string `db:"name" json:"name"`

	// Category classifies the item
	Category Category `db:"category" json:"category"`

	// UnitPrice is the sale price, two decimal places
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`

	// StockQuantity is the on-hand quantity in whole units
	StockQuantity int `db:"stock_quantity" json:"stockQuantity"`

	// LowStockThreshold triggers the low-stock alert when
	// StockQuantity <= LowStockThreshold
	LowStockThreshold int `db:"low_stock_threshold" json:"lowStockThreshold"`

	// Image is an optional data-URL image
	Image *string `db:"image" json:"image,omitempty"`
}

// New creates a Product with a generated id.
func New(name string, category Category, unitPrice types.Money) *Product {
	return &Product{
		BaseCatalog: entity.NewBaseCatalog(),
		Name:        name,
		Category:    category,
		UnitPrice:   types.Round2(unitPrice),
	}
}

// Validate implements entity.Validatable.
func (p *Product) Validate(ctx context.Context) error {
	if p.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}

	if !isValidCategory(p.Category) {
		return apperror.NewValidation("invalid category").
			WithDetail("field", "category").
			WithDetail("value", string(p.Category))
	}

	if p.UnitPrice.IsNegative() {
		return apperror.NewValidation("unit price cannot be negative").
			WithDetail("field", "unitPrice")
	}

	if p.StockQuantity < 0 {
		return apperror.NewValidation("stock quantity cannot be negative").
			WithDetail("field", "stockQuantity")
	}

	return nil
}

// IsLowStock reports whether the stock has fallen to or below the threshold.
func (p *Product) IsLowStock() bool {
	return p.StockQuantity <= p.LowStockThreshold
}

func isValidCategory(c Category) bool {
	switch c {
	case CategorySweet, CategorySavory, CategoryDrink, CategorySnack, CategoryOther:
		return true
	}
	return false
}

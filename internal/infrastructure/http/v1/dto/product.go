package dto

import (
	"github.com/shopspring/decimal"

	"cantina/internal/domain/catalogs/product"
)

// --- Request DTOs ---

// CreateProductRequest is the request body for adding a product.
type CreateProductRequest struct {
	Name              string           `json:"name" binding:"required"`
	Category          product.Category `json:"category" binding:"required"`
	UnitPrice         decimal.Decimal  `json:"unitPrice"`
	StockQuantity     int              `json:"stockQuantity"`
	LowStockThreshold *int             `json:"lowStockThreshold"`
	Image             *string          `json:"image"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateProductRequest) ToEntity() *product.Product {
	p := product.New(r.Name, r.Category, r.UnitPrice)
	p.StockQuantity = r.StockQuantity
	if r.LowStockThreshold != nil {
		p.LowStockThreshold = *r.LowStockThreshold
	}
	p.Image = r.Image
	return p
}

// UpdateProductRequest is the request body for updating a product. The
// record is fully replaced.
type UpdateProductRequest struct {
	Name              string           `json:"name" binding:"required"`
	Category          product.Category `json:"category" binding:"required"`
	UnitPrice         decimal.Decimal  `json:"unitPrice"`
	StockQuantity     int              `json:"stockQuantity"`
	LowStockThreshold int              `json:"lowStockThreshold"`
	Image             *string          `json:"image"`
}

// ApplyTo maps the request onto an existing entity.
func (r *UpdateProductRequest) ApplyTo(p *product.Product) *product.Product {
	p.Name = r.Name
	p.Category = r.Category
	p.UnitPrice = r.UnitPrice
	p.StockQuantity = r.StockQuantity
	p.LowStockThreshold = r.LowStockThreshold
	p.Image = r.Image
	return p
}

// AdjustStockRequest applies a manual stock correction.
type AdjustStockRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// --- Response DTO ---

// ProductResponse is the API representation of a product.
type ProductResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	UnitPrice         decimal.Decimal `json:"unitPrice"`
	StockQuantity     int             `json:"stockQuantity"`
	LowStockThreshold int             `json:"lowStockThreshold"`
	LowStock          bool            `json:"lowStock"`
	Image             *string         `json:"image,omitempty"`
}

// FromProduct creates a response DTO from the domain entity.
func FromProduct(p *product.Product) ProductResponse {
	return ProductResponse{
		ID:                p.ID.String(),
		Name:              p.Name,
		Category:          string(p.Category),
		UnitPrice:         p.UnitPrice,
		StockQuantity:     p.StockQuantity,
		LowStockThreshold: p.LowStockThreshold,
		LowStock:          p.IsLowStock(),
		Image:             p.Image,
	}
}

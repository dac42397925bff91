package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"cantina/internal/core/apperror"
	"cantina/internal/core/id"
	"cantina/internal/domain/ledger"
)

// --- Request DTOs ---

// CartItemDTO is one position in a checkout request.
type CartItemDTO struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

// FinalizeSaleRequest is the checkout request body.
type FinalizeSaleRequest struct {
	Cart       []CartItemDTO `json:"cart" binding:"required"`
	CustomerID *string       `json:"customerId"`
	Settlement string        `json:"settlement" binding:"required"`
	Note       string        `json:"note"`
}

// ToEngineRequest converts the checkout body to the engine's input.
func (r *FinalizeSaleRequest) ToEngineRequest() (ledger.FinalizeSaleRequest, error) {
	req := ledger.FinalizeSaleRequest{
		Cart:       make([]ledger.CartItem, 0, len(r.Cart)),
		Settlement: ledger.SettlementType(r.Settlement),
		Note:       r.Note,
	}

	for i, item := range r.Cart {
		productID, err := id.Parse(item.ProductID)
		if err != nil {
			return req, apperror.NewValidation("invalid product id").
				WithDetail("lineNo", i+1).
				WithDetail("productId", item.ProductID)
		}
		req.Cart = append(req.Cart, ledger.CartItem{ProductID: productID, Quantity: item.Quantity})
	}

	if r.CustomerID != nil && *r.CustomerID != "" {
		customerID, err := id.Parse(*r.CustomerID)
		if err != nil {
			return req, apperror.NewValidation("invalid customer id").
				WithDetail("customerId", *r.CustomerID)
		}
		req.CustomerID = &customerID
	}

	return req, nil
}

// --- Response DTOs ---

// SaleLineResponse is one line of a sale.
type SaleLineResponse struct {
	LineNo      int             `json:"lineNo"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

// SaleResponse is the API representation of a sale.
type SaleResponse struct {
	ID           string             `json:"id"`
	CreatedAt    time.Time          `json:"createdAt"`
	CustomerID   *string            `json:"customerId,omitempty"`
	CustomerName *string            `json:"customerName,omitempty"`
	Total        decimal.Decimal    `json:"total"`
	Settlement   string             `json:"settlement"`
	Note         string             `json:"note,omitempty"`
	Lines        []SaleLineResponse `json:"lines"`
}

// FromSale creates a response DTO from the domain entity.
func FromSale(s *ledger.Sale) SaleResponse {
	resp := SaleResponse{
		ID:           s.ID.String(),
		CreatedAt:    s.CreatedAt,
		CustomerName: s.CustomerName,
		Total:        s.Total,
		Settlement:   string(s.SettlementType),
		Note:         s.Note,
		Lines:        make([]SaleLineResponse, 0, len(s.Lines)),
	}
	if s.CustomerID != nil {
		cid := s.CustomerID.String()
		resp.CustomerID = &cid
	}
	for _, line := range s.Lines {
		resp.Lines = append(resp.Lines, SaleLineResponse{
			LineNo:      line.LineNo,
			ProductID:   line.ProductID.String(),
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			LineTotal:   line.LineTotal,
		})
	}
	return resp
}

// FromSales maps a slice of sales.
func FromSales(sales []*ledger.Sale) []SaleResponse {
	out := make([]SaleResponse, 0, len(sales))
	for _, s := range sales {
		out = append(out, FromSale(s))
	}
	return out
}

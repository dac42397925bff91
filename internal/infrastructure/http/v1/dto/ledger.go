package dto

import (
	"github.com/shopspring/decimal"

	"cantina/internal/domain/ledger"
)

// --- Request DTOs ---

// RecordPaymentRequest is the request body for a ledger payment.
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// --- Response DTOs ---

// EntryResponse is the API representation of a ledger entry.
type EntryResponse struct {
	CustomerID   string          `json:"customerId"`
	CustomerName string          `json:"customerName"`
	Balance      decimal.Decimal `json:"balance"`
	Open         bool            `json:"open"`
	SaleIDs      []string        `json:"saleIds"`
}

// FromEntry creates a response DTO from the domain entity.
func FromEntry(e *ledger.Entry) EntryResponse {
	saleIDs := e.SaleIDs
	if saleIDs == nil {
		saleIDs = []string{}
	}
	return EntryResponse{
		CustomerID:   e.CustomerID.String(),
		CustomerName: e.CustomerName,
		Balance:      e.Balance,
		Open:         e.IsOpen(),
		SaleIDs:      saleIDs,
	}
}

// FromEntries maps a slice of entries.
func FromEntries(entries []*ledger.Entry) []EntryResponse {
	out := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, FromEntry(e))
	}
	return out
}

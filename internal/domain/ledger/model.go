// Package ledger provides the sale document, the per-customer credit ledger
// and the engine that settles sales and payments across both.
package ledger

import (
	"context"

	"cantina/internal/core/apperror"
	"cantina/internal/core/entity"
	"cantina/internal/core/id"
	"cantina/internal/core/types"
)

// SettlementType defines how a sale is settled.
type SettlementType string

const (
	// SettlementPaid is an immediate cash settlement.
	SettlementPaid SettlementType = "PAID"
	// SettlementCredit defers payment to the customer's ledger balance (fiado).
	SettlementCredit SettlementType = "CREDIT"
)

// CartItem is one requested position at the point of sale.
type CartItem struct {
	ProductID id.ID `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// SaleLine is a line in a sale. Product name and unit price are snapshots
// taken at settlement time and survive later catalog edits.
type SaleLine struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ProductID   id.ID       `db:"product_id" json:"productId"`
	ProductName string      `db:"product_name" json:"productName"`
	Quantity    int         `db:"quantity" json:"quantity"`
	UnitPrice   types.Money `db:"unit_price" json:"unitPrice"`
	LineTotal   types.Money `db:"line_total" json:"lineTotal"`
}

// Sale records one settled transaction. Immutable once created: never edited,
// only created or referenced by a ledger entry.
type Sale struct {
	entity.BaseDocument

	// Customer snapshot, optional for PAID sales. Survives customer
	// edits and deletion.
	CustomerID   *id.ID  `db:"customer_id" json:"customerId,omitempty"`
	CustomerName *string `db:"customer_name" json:"customerName,omitempty"`

	// Total is the sum of line totals, two decimal places
	Total types.Money `db:"total" json:"total"`

	// SettlementType is PAID or CREDIT
	SettlementType SettlementType `db:"settlement_type" json:"settlementType"`

	// Note is an optional free-text note
	Note string `db:"note" json:"note,omitempty"`

	// Lines is the ordered table part
	Lines []SaleLine `db:"-" json:"lines"`
}

// NewSale creates an empty sale document.
func NewSale(settlement SettlementType, note string) *Sale {
	return &Sale{
		BaseDocument:   entity.NewBaseDocument(),
		Total:          types.Zero(),
		SettlementType: settlement,
		Note:           note,
		Lines:          make([]SaleLine, 0),
	}
}

// SetCustomer records the customer snapshot.
func (s *Sale) SetCustomer(customerID id.ID, name string) {
	cid := customerID
	s.CustomerID = &cid
	s.CustomerName = &name
}

// AddLine appends a line with name/price snapshots and recalculates the total.
func (s *Sale) AddLine(productID id.ID, productName string, quantity int, unitPrice types.Money) {
	line := SaleLine{
		LineID:      id.New(),
		LineNo:      len(s.Lines) + 1,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   types.Round2(unitPrice),
		LineTotal:   types.LineTotal(quantity, unitPrice),
	}

	s.Lines = append(s.Lines, line)
	s.recalculateTotal()
}

func (s *Sale) recalculateTotal() {
	total := types.Zero()
	for _, line := range s.Lines {
		total = total.Add(line.LineTotal)
	}
	s.Total = types.Round2(total)
}

// Validate implements entity.Validatable.
func (s *Sale) Validate(ctx context.Context) error {
	if s.SettlementType != SettlementPaid && s.SettlementType != SettlementCredit {
		return apperror.NewValidation("invalid settlement type").
			WithDetail("field", "settlementType").
			WithDetail("value", string(s.SettlementType))
	}

	if len(s.Lines) == 0 {
		return apperror.NewEmptyCart()
	}

	if s.SettlementType == SettlementCredit && s.CustomerID == nil {
		return apperror.NewCustomerRequired()
	}

	for i, line := range s.Lines {
		if id.IsNil(line.ProductID) {
			return apperror.NewValidation("product is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.Quantity <= 0 {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

package ledger

import (
	"cantina/internal/core/id"
	"cantina/internal/core/types"
)

// Entry is the accumulated open credit of one customer. One row per
// customer, keyed by customer id. An entry with a zero balance stays in
// the ledger: the sale references keep its purchase history reachable.
type Entry struct {
	CustomerID id.ID `db:"customer_id" json:"customerId"`

	// CustomerName is a snapshot taken when the entry is created,
	// refreshed on each credit sale.
	CustomerName string `db:"customer_name" json:"customerName"`

	// Balance is the open amount owed, never negative.
	Balance types.Money `db:"balance" json:"balance"`

	// SaleIDs lists every credit sale rolled into this entry, in
	// application order.
	SaleIDs []string `db:"sale_ids" json:"saleIds"`
}

// NewEntry creates an empty entry for a customer.
func NewEntry(customerID id.ID, customerName string) *Entry {
	return &Entry{
		CustomerID:   customerID,
		CustomerName: customerName,
		Balance:      types.Zero(),
		SaleIDs:      make([]string, 0),
	}
}

// HasSale reports whether the sale is already rolled into the balance.
func (e *Entry) HasSale(saleID id.ID) bool {
	s := saleID.String()
	for _, ref := range e.SaleIDs {
		if ref == s {
			return true
		}
	}
	return false
}

// ApplySale adds the sale total to the balance. Idempotent: a sale that is
// already referenced is not applied twice.
func (e *Entry) ApplySale(s *Sale) {
	if e.HasSale(s.ID) {
		return
	}
	e.Balance = types.Round2(e.Balance.Add(s.Total))
	e.SaleIDs = append(e.SaleIDs, s.ID.String())
	if s.CustomerName != nil && *s.CustomerName != "" {
		e.CustomerName = *s.CustomerName
	}
}

// IsOpen reports whether the customer still owes anything.
func (e *Entry) IsOpen() bool {
	return e.Balance.IsPositive()
}

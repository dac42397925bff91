// Package reports builds read-only summaries over the sale log, the credit
// ledger and the product catalog. Every report is a full re-scan of the
// stored data; nothing is cached or incrementally maintained.
package reports

import (
	"time"

	"cantina/internal/core/id"
	"cantina/internal/core/types"
)

// LowStockItem is a product at or below its reorder threshold.
type LowStockItem struct {
	ProductID id.ID  `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Threshold int    `json:"threshold"`
}

// Debtor is one customer with an open ledger balance.
type Debtor struct {
	CustomerID   id.ID       `json:"customerId"`
	CustomerName string      `json:"customerName"`
	Balance      types.Money `json:"balance"`
}

// DashboardSummary is the at-a-glance view for the operator. The headline
// trading figures cover the whole sale log; the Today fields narrow the same
// figures to the current local day.
type DashboardSummary struct {
	SaleCount   int         `json:"saleCount"`
	Total       types.Money `json:"total"`
	PaidTotal   types.Money `json:"paidTotal"`
	CreditTotal types.Money `json:"creditTotal"`

	// Today's slice, local day boundaries.
	TodaySaleCount int         `json:"todaySaleCount"`
	TodayTotal     types.Money `json:"todayTotal"`
	TodayPaid      types.Money `json:"todayPaid"`
	TodayCredit    types.Money `json:"todayCredit"`

	// Credit exposure across the whole ledger.
	OpenDebtTotal types.Money `json:"openDebtTotal"`
	DebtorCount   int         `json:"debtorCount"`
	TopDebtors    []Debtor    `json:"topDebtors"`

	LowStock []LowStockItem `json:"lowStock"`
}

// ProductBreakdown aggregates one product's movement in a period.
type ProductBreakdown struct {
	ProductID   id.ID       `json:"productId"`
	ProductName string      `json:"productName"`
	Quantity    int         `json:"quantity"`
	Total       types.Money `json:"total"`
}

// PeriodReport aggregates sales over a closed interval.
type PeriodReport struct {
	PeriodStart time.Time `json:"periodStart"`
	PeriodEnd   time.Time `json:"periodEnd"`

	SaleCount   int         `json:"saleCount"`
	Total       types.Money `json:"total"`
	PaidTotal   types.Money `json:"paidTotal"`
	CreditTotal types.Money `json:"creditTotal"`

	ByProduct []ProductBreakdown `json:"byProduct"`
}

package ledger

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"cantina/internal/core/apperror"
	"cantina/internal/core/id"
	"cantina/internal/core/types"
	"cantina/pkg/logger"
)

// MissingApplication is a credit sale that never reached the customer's
// ledger entry, usually the trace of a write that failed mid-settlement.
type MissingApplication struct {
	SaleID     id.ID       `json:"saleId"`
	CustomerID id.ID       `json:"customerId"`
	Total      types.Money `json:"total"`
	Repaired   bool        `json:"repaired"`
}

// DanglingSaleRef is a sale id referenced by a ledger entry with no matching
// sale document.
type DanglingSaleRef struct {
	CustomerID id.ID  `json:"customerId"`
	SaleID     string `json:"saleId"`
}

// OverstatedBalance is an entry whose balance exceeds the sum of its
// referenced sale totals. Payments only ever lower a balance, so the excess
// cannot be explained by the sale log.
type OverstatedBalance struct {
	CustomerID id.ID       `json:"customerId"`
	Balance    types.Money `json:"balance"`
	Referenced types.Money `json:"referenced"`
	Excess     types.Money `json:"excess"`
}

// NegativeStock is a product whose stored quantity fell below zero.
type NegativeStock struct {
	ProductID id.ID `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// ReconcileReport summarizes one reconciliation pass.
type ReconcileReport struct {
	CheckedSales   int  `json:"checkedSales"`
	CheckedEntries int  `json:"checkedEntries"`
	Repair         bool `json:"repair"`

	MissingApplications []MissingApplication `json:"missingApplications"`
	DanglingSaleRefs    []DanglingSaleRef    `json:"danglingSaleRefs"`
	OverstatedBalances  []OverstatedBalance  `json:"overstatedBalances"`
	NegativeStock       []NegativeStock      `json:"negativeStock"`
}

// Clean reports whether the pass found nothing to flag.
func (r *ReconcileReport) Clean() bool {
	return len(r.MissingApplications) == 0 &&
		len(r.DanglingSaleRefs) == 0 &&
		len(r.OverstatedBalances) == 0 &&
		len(r.NegativeStock) == 0
}

// Reconcile cross-checks the sale log against the ledger and the stock
// levels. With repair set, credit sales missing from their entry are
// re-applied; the application is idempotent, so already-referenced sales
// are untouched. Balances and stock are only reported, never rewritten:
// there is no payment history to replay and no receipt log to recompute
// stock from.
func (e *Engine) Reconcile(ctx context.Context, repair bool) (*ReconcileReport, error) {
	ctx, span := tracer.Start(ctx, "ledger.Reconcile")
	defer span.End()

	sales, err := e.sales.All(ctx)
	if err != nil {
		return nil, apperror.NewStorage(fmt.Errorf("load sales: %w", err))
	}
	entries, err := e.entries.All(ctx)
	if err != nil {
		return nil, apperror.NewStorage(fmt.Errorf("load ledger entries: %w", err))
	}

	byCustomer := make(map[id.ID]*Entry, len(entries))
	for _, entry := range entries {
		byCustomer[entry.CustomerID] = entry
	}
	saleByID := make(map[string]*Sale, len(sales))
	for _, sale := range sales {
		saleByID[sale.ID.String()] = sale
	}

	report := &ReconcileReport{
		CheckedSales:        len(sales),
		CheckedEntries:      len(entries),
		Repair:              repair,
		MissingApplications: make([]MissingApplication, 0),
		DanglingSaleRefs:    make([]DanglingSaleRef, 0),
		OverstatedBalances:  make([]OverstatedBalance, 0),
		NegativeStock:       make([]NegativeStock, 0),
	}

	for _, sale := range sales {
		if sale.SettlementType != SettlementCredit || sale.CustomerID == nil {
			continue
		}
		entry := byCustomer[*sale.CustomerID]
		if entry != nil && entry.HasSale(sale.ID) {
			continue
		}

		missing := MissingApplication{
			SaleID:     sale.ID,
			CustomerID: *sale.CustomerID,
			Total:      sale.Total,
		}
		if repair {
			if err := e.applyToLedger(ctx, sale); err != nil {
				return report, err
			}
			if entry == nil {
				// applyToLedger created the entry; pick it up for the
				// balance check below.
				created, err := e.entries.Get(ctx, *sale.CustomerID)
				if err != nil {
					return report, apperror.NewStorage(fmt.Errorf("reload ledger entry: %w", err))
				}
				byCustomer[created.CustomerID] = created
				entries = append(entries, created)
			}
			missing.Repaired = true
			logger.Info(ctx, "re-applied credit sale to ledger",
				"sale_id", sale.ID, "customer_id", *sale.CustomerID, "total", sale.Total)
		}
		report.MissingApplications = append(report.MissingApplications, missing)
	}

	for _, entry := range entries {
		referenced := types.Zero()
		for _, ref := range entry.SaleIDs {
			sale, ok := saleByID[ref]
			if !ok {
				report.DanglingSaleRefs = append(report.DanglingSaleRefs, DanglingSaleRef{
					CustomerID: entry.CustomerID,
					SaleID:     ref,
				})
				continue
			}
			referenced = referenced.Add(sale.Total)
		}
		referenced = types.Round2(referenced)

		// A balance below the referenced sum is normal: payments lower it.
		if entry.Balance.GreaterThan(referenced) {
			report.OverstatedBalances = append(report.OverstatedBalances, OverstatedBalance{
				CustomerID: entry.CustomerID,
				Balance:    entry.Balance,
				Referenced: referenced,
				Excess:     types.Round2(entry.Balance.Sub(referenced)),
			})
		}
	}

	products, err := e.products.All(ctx)
	if err != nil {
		return report, apperror.NewStorage(fmt.Errorf("load products: %w", err))
	}
	for _, p := range products {
		if p.StockQuantity < 0 {
			report.NegativeStock = append(report.NegativeStock, NegativeStock{
				ProductID: p.ID,
				Quantity:  p.StockQuantity,
			})
		}
	}

	span.SetAttributes(
		attribute.Int("reconcile.missing", len(report.MissingApplications)),
		attribute.Int("reconcile.dangling", len(report.DanglingSaleRefs)),
		attribute.Int("reconcile.overstated", len(report.OverstatedBalances)),
	)

	if !report.Clean() {
		logger.Warn(ctx, "reconciliation found drift",
			"missing", len(report.MissingApplications),
			"dangling", len(report.DanglingSaleRefs),
			"overstated", len(report.OverstatedBalances),
			"negative_stock", len(report.NegativeStock))
	}

	return report, nil
}

package reports

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"time"

	"go.opentelemetry.io/otel"

	"cantina/internal/core/apperror"
	"cantina/internal/core/id"
	"cantina/internal/core/types"
	"cantina/internal/domain/catalogs/product"
	"cantina/internal/domain/ledger"
)

var tracer = otel.Tracer("cantina/reports")

const topDebtorLimit = 5

// ProductLister is the slice of the product repository reports need.
type ProductLister interface {
	FindLowStock(ctx context.Context) ([]*product.Product, error)
}

// Service computes dashboard and period reports.
type Service struct {
	sales    ledger.SaleRepository
	entries  ledger.EntryRepository
	products ProductLister
}

func NewService(sales ledger.SaleRepository, entries ledger.EntryRepository, products ProductLister) *Service {
	return &Service{
		sales:    sales,
		entries:  entries,
		products: products,
	}
}

// Dashboard builds the operator summary: trading figures over the whole sale
// log, today's slice of them, open credit and products running low. Today
// runs midnight to midnight in local time.
func (s *Service) Dashboard(ctx context.Context, now time.Time) (*DashboardSummary, error) {
	ctx, span := tracer.Start(ctx, "reports.Dashboard")
	defer span.End()

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	sales, err := s.sales.All(ctx)
	if err != nil {
		return nil, apperror.NewStorage(fmt.Errorf("list sales: %w", err))
	}

	summary := &DashboardSummary{
		Total:         types.Zero(),
		PaidTotal:     types.Zero(),
		CreditTotal:   types.Zero(),
		TodayTotal:    types.Zero(),
		TodayPaid:     types.Zero(),
		TodayCredit:   types.Zero(),
		OpenDebtTotal: types.Zero(),
		TopDebtors:    make([]Debtor, 0, topDebtorLimit),
		LowStock:      make([]LowStockItem, 0),
	}

	for _, sale := range sales {
		summary.SaleCount++
		summary.Total = summary.Total.Add(sale.Total)
		today := !sale.CreatedAt.Before(dayStart) && sale.CreatedAt.Before(dayEnd)
		if today {
			summary.TodaySaleCount++
			summary.TodayTotal = summary.TodayTotal.Add(sale.Total)
		}
		switch sale.SettlementType {
		case ledger.SettlementPaid:
			summary.PaidTotal = summary.PaidTotal.Add(sale.Total)
			if today {
				summary.TodayPaid = summary.TodayPaid.Add(sale.Total)
			}
		case ledger.SettlementCredit:
			summary.CreditTotal = summary.CreditTotal.Add(sale.Total)
			if today {
				summary.TodayCredit = summary.TodayCredit.Add(sale.Total)
			}
		}
	}
	summary.Total = types.Round2(summary.Total)
	summary.PaidTotal = types.Round2(summary.PaidTotal)
	summary.CreditTotal = types.Round2(summary.CreditTotal)
	summary.TodayTotal = types.Round2(summary.TodayTotal)
	summary.TodayPaid = types.Round2(summary.TodayPaid)
	summary.TodayCredit = types.Round2(summary.TodayCredit)

	open, err := s.entries.ListOpen(ctx)
	if err != nil {
		return nil, apperror.NewStorage(fmt.Errorf("list open entries: %w", err))
	}
	debtors := make([]Debtor, 0, len(open))
	for _, entry := range open {
		summary.OpenDebtTotal = summary.OpenDebtTotal.Add(entry.Balance)
		debtors = append(debtors, Debtor{
			CustomerID:   entry.CustomerID,
			CustomerName: entry.CustomerName,
			Balance:      entry.Balance,
		})
	}
	summary.OpenDebtTotal = types.Round2(summary.OpenDebtTotal)
	summary.DebtorCount = len(debtors)

	sort.Slice(debtors, func(i, j int) bool {
		return debtors[i].Balance.GreaterThan(debtors[j].Balance)
	})
	if len(debtors) > topDebtorLimit {
		debtors = debtors[:topDebtorLimit]
	}
	summary.TopDebtors = append(summary.TopDebtors, debtors...)

	low, err := s.products.FindLowStock(ctx)
	if err != nil {
		return nil, apperror.NewStorage(fmt.Errorf("find low stock: %w", err))
	}
	for _, p := range low {
		summary.LowStock = append(summary.LowStock, LowStockItem{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  p.StockQuantity,
			Threshold: p.LowStockThreshold,
		})
	}

	return summary, nil
}

// Period aggregates sales between from and to, both inclusive.
func (s *Service) Period(ctx context.Context, from, to time.Time) (*PeriodReport, error) {
	ctx, span := tracer.Start(ctx, "reports.Period")
	defer span.End()

	if to.Before(from) {
		return nil, apperror.NewValidation("period end precedes period start").
			WithDetail("from", from).
			WithDetail("to", to)
	}

	sales, err := s.sales.List(ctx, ledger.SaleFilter{From: &from, To: &to})
	if err != nil {
		return nil, apperror.NewStorage(fmt.Errorf("list sales: %w", err))
	}

	report := &PeriodReport{
		PeriodStart: from,
		PeriodEnd:   to,
		Total:       types.Zero(),
		PaidTotal:   types.Zero(),
		CreditTotal: types.Zero(),
		ByProduct:   make([]ProductBreakdown, 0),
	}

	byProduct := make(map[id.ID]*ProductBreakdown)
	for _, sale := range sales {
		report.SaleCount++
		report.Total = report.Total.Add(sale.Total)
		switch sale.SettlementType {
		case ledger.SettlementPaid:
			report.PaidTotal = report.PaidTotal.Add(sale.Total)
		case ledger.SettlementCredit:
			report.CreditTotal = report.CreditTotal.Add(sale.Total)
		}

		for _, line := range sale.Lines {
			agg, ok := byProduct[line.ProductID]
			if !ok {
				agg = &ProductBreakdown{
					ProductID:   line.ProductID,
					ProductName: line.ProductName,
					Total:       types.Zero(),
				}
				byProduct[line.ProductID] = agg
			}
			agg.Quantity += line.Quantity
			agg.Total = agg.Total.Add(line.LineTotal)
		}
	}

	report.Total = types.Round2(report.Total)
	report.PaidTotal = types.Round2(report.PaidTotal)
	report.CreditTotal = types.Round2(report.CreditTotal)

	for _, agg := range byProduct {
		agg.Total = types.Round2(agg.Total)
		report.ByProduct = append(report.ByProduct, *agg)
	}
	sort.Slice(report.ByProduct, func(i, j int) bool {
		if report.ByProduct[i].Quantity != report.ByProduct[j].Quantity {
			return report.ByProduct[i].Quantity > report.ByProduct[j].Quantity
		}
		return report.ByProduct[i].ProductName < report.ByProduct[j].ProductName
	})

	return report, nil
}

// WritePeriodCSV streams a period report as CSV, one row per sale line
// followed by a totals row.
func (s *Service) WritePeriodCSV(ctx context.Context, w io.Writer, from, to time.Time) error {
	sales, err := s.sales.List(ctx, ledger.SaleFilter{From: &from, To: &to})
	if err != nil {
		return apperror.NewStorage(fmt.Errorf("list sales: %w", err))
	}

	cw := csv.NewWriter(w)
	header := []string{"sale_id", "created_at", "customer", "settlement", "product", "quantity", "unit_price", "line_total"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	total := types.Zero()
	for _, sale := range sales {
		customerName := ""
		if sale.CustomerName != nil {
			customerName = *sale.CustomerName
		}
		for _, line := range sale.Lines {
			row := []string{
				sale.ID.String(),
				sale.CreatedAt.Format(time.RFC3339),
				customerName,
				string(sale.SettlementType),
				line.ProductName,
				fmt.Sprintf("%d", line.Quantity),
				line.UnitPrice.StringFixed(2),
				line.LineTotal.StringFixed(2),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
		total = total.Add(sale.Total)
	}

	totalsRow := []string{"", "", "", "", "TOTAL", "", "", types.Round2(total).StringFixed(2)}
	if err := cw.Write(totalsRow); err != nil {
		return fmt.Errorf("write csv totals: %w", err)
	}

	cw.Flush()
	return cw.Error()
}

package reports

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cantina/internal/core/id"
	"cantina/internal/core/types"
	"cantina/internal/domain/catalogs/product"
	"cantina/internal/domain/ledger"
)

type fakeSales struct {
	sales []*ledger.Sale
}

func (f *fakeSales) Create(_ context.Context, sale *ledger.Sale) error {
	f.sales = append(f.sales, sale)
	return nil
}

func (f *fakeSales) GetByID(_ context.Context, saleID id.ID) (*ledger.Sale, error) {
	for _, s := range f.sales {
		if s.ID == saleID {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeSales) List(_ context.Context, filter ledger.SaleFilter) ([]*ledger.Sale, error) {
	out := make([]*ledger.Sale, 0, len(f.sales))
	for _, s := range f.sales {
		if filter.From != nil && s.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && s.CreatedAt.After(*filter.To) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSales) All(_ context.Context) ([]*ledger.Sale, error) { return f.sales, nil }

func (f *fakeSales) ReplaceAll(_ context.Context, sales []*ledger.Sale) error {
	f.sales = sales
	return nil
}

type fakeEntries struct {
	entries []*ledger.Entry
}

func (f *fakeEntries) Get(_ context.Context, customerID id.ID) (*ledger.Entry, error) {
	for _, e := range f.entries {
		if e.CustomerID == customerID {
			return e, nil
		}
	}
	return nil, nil
}

func (f *fakeEntries) Create(_ context.Context, entry *ledger.Entry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeEntries) Update(_ context.Context, _ *ledger.Entry) error { return nil }

func (f *fakeEntries) ListOpen(_ context.Context) ([]*ledger.Entry, error) {
	out := make([]*ledger.Entry, 0, len(f.entries))
	for _, e := range f.entries {
		if e.IsOpen() {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEntries) All(_ context.Context) ([]*ledger.Entry, error) { return f.entries, nil }

func (f *fakeEntries) ReplaceAll(_ context.Context, entries []*ledger.Entry) error {
	f.entries = entries
	return nil
}

type fakeProducts struct {
	low []*product.Product
}

func (f *fakeProducts) FindLowStock(_ context.Context) ([]*product.Product, error) {
	return f.low, nil
}

func saleAt(t time.Time, settlement ledger.SettlementType, productName string, qty int, price string) *ledger.Sale {
	s := ledger.NewSale(settlement, "")
	s.CreatedAt = t
	s.AddLine(id.New(), productName, qty, types.MustMoney(price))
	return s
}

func TestPeriod(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)
	sales := &fakeSales{sales: []*ledger.Sale{
		saleAt(day.Add(9*time.Hour), ledger.SettlementPaid, "Coxinha", 2, "5.50"),
		saleAt(day.Add(12*time.Hour), ledger.SettlementCredit, "Suco", 1, "4.00"),
		saleAt(day.Add(15*time.Hour), ledger.SettlementPaid, "Coxinha", 1, "5.50"),
		saleAt(day.AddDate(0, 0, 2), ledger.SettlementPaid, "Pastel", 1, "6.00"), // outside
	}}
	svc := NewService(sales, &fakeEntries{}, &fakeProducts{})

	report, err := svc.Period(context.Background(), day, day.AddDate(0, 0, 1).Add(-time.Nanosecond))

	require.NoError(t, err)
	assert.Equal(t, 3, report.SaleCount)
	assert.True(t, report.Total.Equal(types.MustMoney("20.50")), "total %s", report.Total)
	assert.True(t, report.PaidTotal.Equal(types.MustMoney("16.50")))
	assert.True(t, report.CreditTotal.Equal(types.MustMoney("4.00")))

	require.Len(t, report.ByProduct, 2)
	assert.Equal(t, "Coxinha", report.ByProduct[0].ProductName)
	assert.Equal(t, 3, report.ByProduct[0].Quantity)
	assert.True(t, report.ByProduct[0].Total.Equal(types.MustMoney("16.50")))
}

func TestPeriod_Idempotent(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)
	sales := &fakeSales{sales: []*ledger.Sale{
		saleAt(day.Add(9*time.Hour), ledger.SettlementPaid, "Coxinha", 2, "5.50"),
	}}
	svc := NewService(sales, &fakeEntries{}, &fakeProducts{})

	first, err := svc.Period(context.Background(), day, day.Add(24*time.Hour))
	require.NoError(t, err)
	second, err := svc.Period(context.Background(), day, day.Add(24*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, first.SaleCount, second.SaleCount)
	assert.True(t, first.Total.Equal(second.Total))
}

func TestPeriod_RejectsInvertedRange(t *testing.T) {
	svc := NewService(&fakeSales{}, &fakeEntries{}, &fakeProducts{})

	_, err := svc.Period(context.Background(), time.Now(), time.Now().Add(-time.Hour))

	assert.Error(t, err)
}

func TestDashboard(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 30, 0, 0, time.Local)
	sales := &fakeSales{sales: []*ledger.Sale{
		saleAt(now.Add(-2*time.Hour), ledger.SettlementPaid, "Coxinha", 1, "5.50"),
		saleAt(now.Add(-1*time.Hour), ledger.SettlementCredit, "Suco", 2, "4.00"),
		saleAt(now.AddDate(0, 0, -1), ledger.SettlementPaid, "Pastel", 1, "6.00"),  // yesterday
		saleAt(now.AddDate(0, 0, -3), ledger.SettlementCredit, "Bolo", 2, "4.50"), // three days ago
	}}

	ana := ledger.NewEntry(id.New(), "Ana Souza")
	ana.Balance = types.MustMoney("30.00")
	pedro := ledger.NewEntry(id.New(), "Pedro Alves")
	pedro.Balance = types.MustMoney("8.00")
	settled := ledger.NewEntry(id.New(), "Bia Costa")
	entries := &fakeEntries{entries: []*ledger.Entry{pedro, ana, settled}}

	lowProduct := product.New("Suco", product.CategoryDrink, types.MustMoney("4.00"))
	lowProduct.StockQuantity = 2
	lowProduct.LowStockThreshold = 5
	products := &fakeProducts{low: []*product.Product{lowProduct}}

	svc := NewService(sales, entries, products)

	summary, err := svc.Dashboard(context.Background(), now)

	require.NoError(t, err)

	// Headline figures cover the whole sale log, not just today.
	assert.Equal(t, 4, summary.SaleCount)
	assert.True(t, summary.Total.Equal(types.MustMoney("28.50")), "total %s", summary.Total)
	assert.True(t, summary.PaidTotal.Equal(types.MustMoney("11.50")))
	assert.True(t, summary.CreditTotal.Equal(types.MustMoney("17.00")))

	assert.Equal(t, 2, summary.TodaySaleCount)
	assert.True(t, summary.TodayTotal.Equal(types.MustMoney("13.50")), "today total %s", summary.TodayTotal)
	assert.True(t, summary.TodayPaid.Equal(types.MustMoney("5.50")))
	assert.True(t, summary.TodayCredit.Equal(types.MustMoney("8.00")))

	assert.Equal(t, 2, summary.DebtorCount)
	assert.True(t, summary.OpenDebtTotal.Equal(types.MustMoney("38.00")))
	require.Len(t, summary.TopDebtors, 2)
	assert.Equal(t, "Ana Souza", summary.TopDebtors[0].CustomerName)

	require.Len(t, summary.LowStock, 1)
	assert.Equal(t, "Suco", summary.LowStock[0].Name)
}

func TestDashboard_CountsWholeSaleLog(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 30, 0, 0, time.Local)
	sales := &fakeSales{sales: []*ledger.Sale{
		saleAt(now.AddDate(0, 0, -3), ledger.SettlementPaid, "Coxinha", 1, "5.50"),
		saleAt(now.AddDate(0, 0, -1), ledger.SettlementPaid, "Pastel", 1, "6.00"),
	}}
	svc := NewService(sales, &fakeEntries{}, &fakeProducts{})

	summary, err := svc.Dashboard(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, 2, summary.SaleCount)
	assert.True(t, summary.Total.Equal(types.MustMoney("11.50")))
	assert.Equal(t, 0, summary.TodaySaleCount)
	assert.True(t, summary.TodayTotal.IsZero())
}

func TestWritePeriodCSV(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)
	sales := &fakeSales{sales: []*ledger.Sale{
		saleAt(day.Add(9*time.Hour), ledger.SettlementPaid, "Coxinha", 2, "5.50"),
	}}
	svc := NewService(sales, &fakeEntries{}, &fakeProducts{})

	var buf bytes.Buffer
	err := svc.WritePeriodCSV(context.Background(), &buf, day, day.Add(24*time.Hour))

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3) // header, one line, totals
	assert.Contains(t, lines[0], "sale_id")
	assert.Contains(t, lines[1], "Coxinha")
	assert.Contains(t, lines[2], "11.00")
}

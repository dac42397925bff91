package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cantina/internal/core/apperror"
	"cantina/internal/core/id"
	"cantina/internal/core/types"
	"cantina/internal/domain/catalogs/customer"
	"cantina/internal/domain/catalogs/product"
)

func seedProduct(f *fixture, name string, price string, stock int) *product.Product {
	p := product.New(name, product.CategorySnack, types.MustMoney(price))
	p.StockQuantity = stock
	return f.products.add(p)
}

func seedCustomer(f *fixture, name string) *customer.Customer {
	return f.customers.add(customer.New(name))
}

func TestFinalizeSale_EmptyCart(t *testing.T) {
	f := newFixture()

	_, err := f.engine.FinalizeSale(context.Background(), FinalizeSaleRequest{
		Settlement: SettlementPaid,
	})

	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeEmptyCart, appErr.Code)
	assert.Empty(t, f.sales.sales)
}

func TestFinalizeSale_PaidSale(t *testing.T) {
	f := newFixture()
	coxinha := seedProduct(f, "Coxinha", "5.50", 10)
	juice := seedProduct(f, "Suco de Laranja", "4.00", 8)

	sale, err := f.engine.FinalizeSale(context.Background(), FinalizeSaleRequest{
		Cart: []CartItem{
			{ProductID: coxinha.ID, Quantity: 2},
			{ProductID: juice.ID, Quantity: 1},
		},
		Settlement: SettlementPaid,
	})

	require.NoError(t, err)
	require.Len(t, sale.Lines, 2)
	assert.True(t, sale.Total.Equal(types.MustMoney("15.00")), "total %s", sale.Total)
	assert.Equal(t, SettlementPaid, sale.SettlementType)
	assert.Nil(t, sale.CustomerID)

	// stock decremented, sale persisted, ledger untouched
	assert.Equal(t, 8, f.products.products[coxinha.ID].StockQuantity)
	assert.Equal(t, 7, f.products.products[juice.ID].StockQuantity)
	assert.Contains(t, f.sales.sales, sale.ID)
	assert.Empty(t, f.entries.entries)
}

func TestFinalizeSale_SnapshotsSurviveCatalogEdits(t *testing.T) {
	f := newFixture()
	p := seedProduct(f, "Brigadeiro", "2.50", 5)
	c := seedCustomer(f, "Ana Souza")

	cid := c.ID
	sale, err := f.engine.FinalizeSale(context.Background(), FinalizeSaleRequest{
		Cart:       []CartItem{{ProductID: p.ID, Quantity: 2}},
		CustomerID: &cid,
		Settlement: SettlementCredit,
	})
	require.NoError(t, err)

	// rename and reprice after the fact
	p.Name = "Brigadeiro Gourmet"
	p.UnitPrice = types.MustMoney("4.00")
	c.Name = "Ana S. Lima"

	stored := f.sales.sales[sale.ID]
	assert.Equal(t, "Brigadeiro", stored.Lines[0].ProductName)
	assert.True(t, stored.Lines[0].UnitPrice.Equal(types.MustMoney("2.50")))
	require.NotNil(t, stored.CustomerName)
	assert.Equal(t, "Ana Souza", *stored.CustomerName)
}

func TestFinalizeSale_LineRounding(t *testing.T) {
	f := newFixture()
	p := seedProduct(f, "Bala", "0.33", 100)
	p.UnitPrice = types.MustMoney("0.335")

	sale, err := f.engine.FinalizeSale(context.Background(), FinalizeSaleRequest{
		Cart:       []CartItem{{ProductID: p.ID, Quantity: 3}},
		Settlement: SettlementPaid,
	})

	require.NoError(t, err)
	// 3 * 0.335 = 1.005, rounded half up per line
	assert.True(t, sale.Lines[0].LineTotal.Equal(types.MustMoney("1.01")), "line total %s", sale.Lines[0].LineTotal)
	assert.True(t, sale.Total.Equal(types.MustMoney("1.01")))
}

func TestFinalizeSale_InsufficientStock(t *testing.T) {
	f := newFixture()
	p := seedProduct(f, "Pastel", "6.00", 1)

	_, err := f.engine.FinalizeSale(context.Background(), FinalizeSaleRequest{
		Cart:       []CartItem{{ProductID: p.ID, Quantity: 2}},
		Settlement: SettlementPaid,
	})

	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)
	assert.Equal(t, 2, appErr.Details["requested"])
	assert.Equal(t, 1, appErr.Details["available"])

	// nothing written
	assert.Empty(t, f.sales.sales)
	assert.Equal(t, 1, f.products.products[p.ID].StockQuantity)
}

func TestFinalizeSale_DuplicateLinesCheckedAgainstCombinedDemand(t *testing.T) {
	f := newFixture()
	p := seedProduct(f, "Esfiha", "6.00", 3)

	_, err := f.engine.FinalizeSale(context.Background(), FinalizeSaleRequest{
		Cart: []CartItem{
			{ProductID: p.ID, Quantity: 2},
			{ProductID: p.ID, Quantity: 2},
		},
		Settlement: SettlementPaid,
	})

	// Each line alone fits, but together they ask for 4 of 3.
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)
	assert.Equal(t, 4, appErr.Details["requested"])
	assert.Equal(t, 3, appErr.Details["available"])

	assert.Empty(t, f.sales.sales)
	assert.Equal(t, 3, f.products.products[p.ID].StockQuantity)
}

func TestFinalizeSale_DuplicateLinesWithinStock(t *testing.T) {
	f := newFixture()
	p := seedProduct(f, "Esfiha", "6.00", 5)

	sale, err := f.engine.FinalizeSale(context.Background(), FinalizeSaleRequest{
		Cart: []CartItem{
			{ProductID: p.ID, Quantity: 2},
			{ProductID: p.ID, Quantity: 2},
		},
		Settlement: SettlementPaid,
	})

	require.NoError(t, err)
	require.Len(t, sale.Lines, 2)
	assert.True(t, sale.Total.Equal(types.MustMoney("24.00")))
	assert.Equal(t, 1, f.products.products[p.ID].StockQuantity)
}

func TestFinalizeSale_CreditRequiresCustomer(t *testing.T) {
	f := newFixture()
	p := seedProduct(f, "Pipoca", "3.00", 5)

	_, err := f.engine.FinalizeSale(context.Background(), FinalizeSaleRequest{
		Cart:       []CartItem{{ProductID: p.ID, Quantity: 1}},
		Settlement: SettlementCredit,
	})

	require.Error(t, err)
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, apperror.CodeCustomerRequired, appErr.Code)
}

func TestFinalizeSale_CreditBlockedCustomer(t *testing.T) {
	f := newFixture()
	p := seedProduct(f, "Pipoca", "3.00", 5)
	c := seedCustomer(f, "Pedro Alves")
	c.CreditBlocked = true

	cid := c.ID
	_, err := f.engine.FinalizeSale(context.Background(), FinalizeSaleRequest{
		Cart:       []CartItem{{ProductID: p.ID, Quantity: 1}},
		CustomerID: &cid,
		Settlement: SettlementCredit,
	})

	require.Error(t, err)
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, apperror.CodeCreditBlocked, appErr.Code)
	assert.Empty(t, f.sales.sales)
}

func TestFinalizeSale_UnknownCustomer(t *testing.T) {
	f := newFixture()
	p := seedProduct(f, "Pipoca", "3.00", 5)

	cid := id.New()
	_, err := f.engine.FinalizeSale(context.Background(), FinalizeSaleRequest{
		Cart:       []CartItem{{ProductID: p.ID, Quantity: 1}},
		CustomerID: &cid,
		Settlement: SettlementCredit,
	})

	assert.True(t, apperror.IsNotFound(err))
}

func TestFinalizeSale_CreditCreatesEntry(t *testing.T) {
	f := newFixture()
	p := seedProduct(f, "Esfiha", "7.00", 10)
	c := seedCustomer(f, "Ana Souza")

	cid := c.ID
	sale, err := f.engine.FinalizeSale(context.Background(), FinalizeSaleRequest{
		Cart:       []CartItem{{ProductID: p.ID, Quantity: 2}},
		CustomerID: &cid,
		Settlement: SettlementCredit,
	})
	require.NoError(t, err)

	entry := f.entries.entries[c.ID]
	require.NotNil(t, entry)
	assert.True(t, entry.Balance.Equal(types.MustMoney("14.00")), "balance %s", entry.Balance)
	assert.Equal(t, []string{sale.ID.String()}, entry.SaleIDs)
	assert.Equal(t, "Ana Souza", entry.CustomerName)
}

func TestFinalizeSale_CreditAccumulates(t *testing.T) {
	f := newFixture()
	p := seedProduct(f, "Esfiha", "7.00", 10)
	c := seedCustomer(f, "Ana Souza")
	cid := c.ID

	first, err := f.engine.FinalizeSale(context.Background(), FinalizeSaleRequest{
		Cart:       []CartItem{{ProductID: p.ID, Quantity: 1}},
		CustomerID: &cid,
		Settlement: SettlementCredit,
	})
	require.NoError(t, err)

	second, err := f.engine.FinalizeSale(context.Background(), FinalizeSaleRequest{
		Cart:       []CartItem{{ProductID: p.ID, Quantity: 3}},
		CustomerID: &cid,
		Settlement: SettlementCredit,
	})
	require.NoError(t, err)

	entry := f.entries.entries[c.ID]
	assert.True(t, entry.Balance.Equal(types.MustMoney("28.00")), "balance %s", entry.Balance)
	assert.Equal(t, []string{first.ID.String(), second.ID.String()}, entry.SaleIDs)
}

func TestFinalizeSale_StockFailureLeavesSaleBehind(t *testing.T) {
	f := newFixture()
	ok := seedProduct(f, "Agua", "2.00", 10)
	broken := seedProduct(f, "Refrigerante", "5.00", 10)
	f.products.adjustErrOn[broken.ID] = errors.New("connection reset")

	c := seedCustomer(f, "Ana Souza")
	cid := c.ID
	sale, err := f.engine.FinalizeSale(context.Background(), FinalizeSaleRequest{
		Cart: []CartItem{
			{ProductID: ok.ID, Quantity: 1},
			{ProductID: broken.ID, Quantity: 1},
		},
		CustomerID: &cid,
		Settlement: SettlementCredit,
	})

	require.Error(t, err)
	require.NotNil(t, sale)

	// the sale document is committed and the first decrement applied,
	// while the failed product and the ledger are untouched
	assert.Contains(t, f.sales.sales, sale.ID)
	assert.Equal(t, 9, f.products.products[ok.ID].StockQuantity)
	assert.Equal(t, 10, f.products.products[broken.ID].StockQuantity)
	assert.Empty(t, f.entries.entries)
}

func TestFinalizeSale_LedgerFailureLeavesSaleAndStock(t *testing.T) {
	f := newFixture()
	p := seedProduct(f, "Agua", "2.00", 10)
	c := seedCustomer(f, "Ana Souza")
	f.entries.createErr = errors.New("connection reset")

	cid := c.ID
	sale, err := f.engine.FinalizeSale(context.Background(), FinalizeSaleRequest{
		Cart:       []CartItem{{ProductID: p.ID, Quantity: 2}},
		CustomerID: &cid,
		Settlement: SettlementCredit,
	})

	require.Error(t, err)
	require.NotNil(t, sale)
	assert.Contains(t, f.sales.sales, sale.ID)
	assert.Equal(t, 8, f.products.products[p.ID].StockQuantity)
	assert.Empty(t, f.entries.entries)
}

func TestRecordPayment(t *testing.T) {
	f := newFixture()
	c := seedCustomer(f, "Ana Souza")
	entry := NewEntry(c.ID, c.Name)
	entry.Balance = types.MustMoney("20.00")
	entry.SaleIDs = []string{id.New().String()}
	f.entries.entries[c.ID] = entry

	got, err := f.engine.RecordPayment(context.Background(), c.ID, types.MustMoney("7.50"))

	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(types.MustMoney("12.50")), "balance %s", got.Balance)
}

func TestRecordPayment_FullSettlementKeepsEntry(t *testing.T) {
	f := newFixture()
	c := seedCustomer(f, "Ana Souza")
	saleRef := id.New().String()
	entry := NewEntry(c.ID, c.Name)
	entry.Balance = types.MustMoney("20.00")
	entry.SaleIDs = []string{saleRef}
	f.entries.entries[c.ID] = entry

	got, err := f.engine.RecordPayment(context.Background(), c.ID, types.MustMoney("20.00"))

	require.NoError(t, err)
	assert.True(t, got.Balance.IsZero())
	assert.False(t, got.IsOpen())

	// the entry and its purchase history stay in the ledger
	stored := f.entries.entries[c.ID]
	require.NotNil(t, stored)
	assert.Equal(t, []string{saleRef}, stored.SaleIDs)
}

func TestRecordPayment_Rejections(t *testing.T) {
	f := newFixture()
	c := seedCustomer(f, "Ana Souza")
	entry := NewEntry(c.ID, c.Name)
	entry.Balance = types.MustMoney("10.00")
	f.entries.entries[c.ID] = entry

	tests := []struct {
		name       string
		customerID id.ID
		amount     types.Money
		wantCode   string
	}{
		{"zero amount", c.ID, types.Zero(), apperror.CodeInvalidAmount},
		{"negative amount", c.ID, types.MustMoney("-5"), apperror.CodeInvalidAmount},
		{"exceeds balance", c.ID, types.MustMoney("10.01"), apperror.CodeInvalidAmount},
		{"no entry", id.New(), types.MustMoney("5"), apperror.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.RecordPayment(context.Background(), tt.customerID, tt.amount)
			require.Error(t, err)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, appErr.Code)
		})
	}

	// balance untouched by the rejected attempts
	assert.True(t, f.entries.entries[c.ID].Balance.Equal(types.MustMoney("10.00")))
}

func TestAdjustStock(t *testing.T) {
	f := newFixture()
	p := seedProduct(f, "Agua", "2.00", 5)

	require.NoError(t, f.engine.AdjustStock(context.Background(), p.ID, 12))
	assert.Equal(t, 17, f.products.products[p.ID].StockQuantity)

	// clamped at zero on over-decrement
	require.NoError(t, f.engine.AdjustStock(context.Background(), p.ID, -100))
	assert.Equal(t, 0, f.products.products[p.ID].StockQuantity)

	err := f.engine.AdjustStock(context.Background(), id.New(), 1)
	assert.True(t, apperror.IsNotFound(err))
}

package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cantina/internal/core/apperror"
	"cantina/internal/core/entity"
	"cantina/internal/core/id"
	"cantina/internal/core/types"
	"cantina/internal/domain"
	"cantina/internal/domain/catalogs/customer"
	"cantina/internal/domain/catalogs/product"
	"cantina/internal/domain/ledger"
)

type fakeCatalog[T entity.Validatable] struct {
	items      []T
	replaceErr error
}

func (f *fakeCatalog[T]) Create(_ context.Context, item T) error {
	f.items = append(f.items, item)
	return nil
}

func (f *fakeCatalog[T]) GetByID(_ context.Context, _ id.ID) (T, error) {
	var zero T
	return zero, apperror.NewNotFound("item", "")
}

func (f *fakeCatalog[T]) Update(_ context.Context, _ T) error { return nil }

func (f *fakeCatalog[T]) Delete(_ context.Context, _ id.ID) error { return nil }

func (f *fakeCatalog[T]) List(_ context.Context, _ domain.ListFilter) (domain.ListResult[T], error) {
	return domain.ListResult[T]{Items: f.items, TotalCount: int64(len(f.items))}, nil
}

func (f *fakeCatalog[T]) All(_ context.Context) ([]T, error) { return f.items, nil }

func (f *fakeCatalog[T]) ReplaceAll(_ context.Context, items []T) error {
	if f.replaceErr != nil {
		f.items = nil // cleared before the failing repopulate
		return f.replaceErr
	}
	f.items = items
	return nil
}

type fakeSales struct {
	sales      []*ledger.Sale
	replaceErr error
}

func (f *fakeSales) Create(_ context.Context, s *ledger.Sale) error {
	f.sales = append(f.sales, s)
	return nil
}

func (f *fakeSales) GetByID(_ context.Context, saleID id.ID) (*ledger.Sale, error) {
	return nil, apperror.NewNotFound("sale", saleID.String())
}

func (f *fakeSales) List(_ context.Context, _ ledger.SaleFilter) ([]*ledger.Sale, error) {
	return f.sales, nil
}

func (f *fakeSales) All(_ context.Context) ([]*ledger.Sale, error) { return f.sales, nil }

func (f *fakeSales) ReplaceAll(_ context.Context, sales []*ledger.Sale) error {
	if f.replaceErr != nil {
		f.sales = nil
		return f.replaceErr
	}
	f.sales = sales
	return nil
}

type fakeEntries struct {
	entries []*ledger.Entry
}

func (f *fakeEntries) Get(_ context.Context, customerID id.ID) (*ledger.Entry, error) {
	return nil, apperror.NewNotFound("ledger entry", customerID.String())
}

func (f *fakeEntries) Create(_ context.Context, e *ledger.Entry) error {
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeEntries) Update(_ context.Context, _ *ledger.Entry) error { return nil }

func (f *fakeEntries) ListOpen(_ context.Context) ([]*ledger.Entry, error) { return f.entries, nil }

func (f *fakeEntries) All(_ context.Context) ([]*ledger.Entry, error) { return f.entries, nil }

func (f *fakeEntries) ReplaceAll(_ context.Context, entries []*ledger.Entry) error {
	f.entries = entries
	return nil
}

type fixture struct {
	customers *fakeCatalog[*customer.Customer]
	products  *fakeCatalog[*product.Product]
	sales     *fakeSales
	entries   *fakeEntries
	svc       *Service
}

func newFixture() *fixture {
	f := &fixture{
		customers: &fakeCatalog[*customer.Customer]{},
		products:  &fakeCatalog[*product.Product]{},
		sales:     &fakeSales{},
		entries:   &fakeEntries{},
	}
	f.svc = NewService(f.customers, f.products, f.sales, f.entries)
	return f
}

func (f *fixture) seed(t *testing.T) {
	t.Helper()

	c := customer.New("Ana Souza")
	f.customers.items = append(f.customers.items, c)

	p := product.New("Coxinha", product.CategorySavory, types.MustMoney("5.50"))
	p.StockQuantity = 10
	f.products.items = append(f.products.items, p)

	sale := ledger.NewSale(ledger.SettlementCredit, "")
	sale.SetCustomer(c.ID, c.Name)
	sale.AddLine(p.ID, p.Name, 2, p.UnitPrice)
	f.sales.sales = append(f.sales.sales, sale)

	entry := ledger.NewEntry(c.ID, c.Name)
	entry.ApplySale(sale)
	f.entries.entries = append(f.entries.entries, entry)
}

func TestExportImportRoundTrip(t *testing.T) {
	src := newFixture()
	src.seed(t)

	var buf bytes.Buffer
	require.NoError(t, src.svc.Export(context.Background(), &buf))

	// compressed output carries the zstd frame magic
	assert.Equal(t, zstdMagic, buf.Bytes()[:4])

	dst := newFixture()
	require.NoError(t, dst.svc.Import(context.Background(), bytes.NewReader(buf.Bytes())))

	require.Len(t, dst.customers.items, 1)
	assert.Equal(t, "Ana Souza", dst.customers.items[0].Name)
	require.Len(t, dst.products.items, 1)
	assert.Equal(t, 10, dst.products.items[0].StockQuantity)
	require.Len(t, dst.sales.sales, 1)
	assert.True(t, dst.sales.sales[0].Total.Equal(types.MustMoney("11.00")))
	require.Len(t, dst.entries.entries, 1)
	assert.True(t, dst.entries.entries[0].Balance.Equal(types.MustMoney("11.00")))
}

func TestImport_PlainJSONAccepted(t *testing.T) {
	src := newFixture()
	src.seed(t)

	env := Envelope{
		Version:   envelopeVersion,
		Customers: src.customers.items,
		Products:  src.products.items,
		Sales:     src.sales.sales,
		Entries:   src.entries.entries,
	}
	raw, err := json.Marshal(env)
	require.NoError(t, err)

	dst := newFixture()
	require.NoError(t, dst.svc.Import(context.Background(), bytes.NewReader(raw)))
	assert.Len(t, dst.customers.items, 1)
}

func TestImport_RejectsGarbage(t *testing.T) {
	dst := newFixture()
	dst.seed(t)

	err := dst.svc.Import(context.Background(), bytes.NewReader([]byte("not a snapshot")))

	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	// rejected before anything was cleared
	assert.Len(t, dst.customers.items, 1)
}

func TestImport_RejectsInvalidData(t *testing.T) {
	bad := customer.New("")
	env := Envelope{Version: envelopeVersion, Customers: []*customer.Customer{bad}}
	raw, err := json.Marshal(env)
	require.NoError(t, err)

	dst := newFixture()
	dst.seed(t)

	err = dst.svc.Import(context.Background(), bytes.NewReader(raw))

	require.Error(t, err)
	assert.Len(t, dst.customers.items, 1)
}

func TestImport_PartialFailureIsSurfaced(t *testing.T) {
	src := newFixture()
	src.seed(t)
	var buf bytes.Buffer
	require.NoError(t, src.svc.Export(context.Background(), &buf))

	dst := newFixture()
	dst.seed(t)
	dst.sales.replaceErr = errors.New("connection reset")

	err := dst.svc.Import(context.Background(), bytes.NewReader(buf.Bytes()))

	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeRestoreFailed, appErr.Code)

	// catalogs restored, sale log cleared, ledger untouched: partial state
	assert.Len(t, dst.customers.items, 1)
	assert.Empty(t, dst.sales.sales)
	require.Len(t, dst.entries.entries, 1)
}

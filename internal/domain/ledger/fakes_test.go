package ledger

import (
	"context"
	"sort"

	"cantina/internal/core/apperror"
	"cantina/internal/core/id"
	"cantina/internal/domain/catalogs/customer"
	"cantina/internal/domain/catalogs/product"
)

type fakeCustomerReader struct {
	customers map[id.ID]*customer.Customer
}

func newFakeCustomerReader() *fakeCustomerReader {
	return &fakeCustomerReader{customers: make(map[id.ID]*customer.Customer)}
}

func (f *fakeCustomerReader) add(c *customer.Customer) *customer.Customer {
	f.customers[c.ID] = c
	return c
}

func (f *fakeCustomerReader) GetByID(_ context.Context, customerID id.ID) (*customer.Customer, error) {
	c, ok := f.customers[customerID]
	if !ok {
		return nil, apperror.NewNotFound("customer", customerID.String())
	}
	return c, nil
}

type fakeProductStore struct {
	products    map[id.ID]*product.Product
	adjustErrOn map[id.ID]error
	adjusts     []id.ID
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{
		products:    make(map[id.ID]*product.Product),
		adjustErrOn: make(map[id.ID]error),
	}
}

func (f *fakeProductStore) add(p *product.Product) *product.Product {
	f.products[p.ID] = p
	return p
}

func (f *fakeProductStore) GetByID(_ context.Context, productID id.ID) (*product.Product, error) {
	p, ok := f.products[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID.String())
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductStore) AdjustStock(_ context.Context, productID id.ID, delta int) error {
	if err := f.adjustErrOn[productID]; err != nil {
		return err
	}
	p, ok := f.products[productID]
	if !ok {
		return apperror.NewNotFound("product", productID.String())
	}
	p.StockQuantity += delta
	if p.StockQuantity < 0 {
		p.StockQuantity = 0
	}
	f.adjusts = append(f.adjusts, productID)
	return nil
}

func (f *fakeProductStore) All(_ context.Context) ([]*product.Product, error) {
	out := make([]*product.Product, 0, len(f.products))
	for _, p := range f.products {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeSaleRepo struct {
	sales     map[id.ID]*Sale
	order     []id.ID
	createErr error
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{sales: make(map[id.ID]*Sale)}
}

func (f *fakeSaleRepo) Create(_ context.Context, sale *Sale) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.sales[sale.ID] = sale
	f.order = append(f.order, sale.ID)
	return nil
}

func (f *fakeSaleRepo) GetByID(_ context.Context, saleID id.ID) (*Sale, error) {
	s, ok := f.sales[saleID]
	if !ok {
		return nil, apperror.NewNotFound("sale", saleID.String())
	}
	return s, nil
}

func (f *fakeSaleRepo) List(_ context.Context, filter SaleFilter) ([]*Sale, error) {
	out := make([]*Sale, 0, len(f.order))
	for i := len(f.order) - 1; i >= 0; i-- {
		s := f.sales[f.order[i]]
		if filter.From != nil && s.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && s.CreatedAt.After(*filter.To) {
			continue
		}
		if filter.SettlementType != nil && s.SettlementType != *filter.SettlementType {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSaleRepo) All(_ context.Context) ([]*Sale, error) {
	out := make([]*Sale, 0, len(f.order))
	for _, sid := range f.order {
		out = append(out, f.sales[sid])
	}
	return out, nil
}

func (f *fakeSaleRepo) ReplaceAll(_ context.Context, sales []*Sale) error {
	f.sales = make(map[id.ID]*Sale)
	f.order = nil
	for _, s := range sales {
		f.sales[s.ID] = s
		f.order = append(f.order, s.ID)
	}
	return nil
}

type fakeEntryRepo struct {
	entries   map[id.ID]*Entry
	createErr error
	updateErr error
}

func newFakeEntryRepo() *fakeEntryRepo {
	return &fakeEntryRepo{entries: make(map[id.ID]*Entry)}
}

func (f *fakeEntryRepo) Get(_ context.Context, customerID id.ID) (*Entry, error) {
	e, ok := f.entries[customerID]
	if !ok {
		return nil, apperror.NewNotFound("ledger entry", customerID.String())
	}
	cp := *e
	cp.SaleIDs = append([]string(nil), e.SaleIDs...)
	return &cp, nil
}

func (f *fakeEntryRepo) Create(_ context.Context, entry *Entry) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.entries[entry.CustomerID] = entry
	return nil
}

func (f *fakeEntryRepo) Update(_ context.Context, entry *Entry) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.entries[entry.CustomerID] = entry
	return nil
}

func (f *fakeEntryRepo) ListOpen(_ context.Context) ([]*Entry, error) {
	out := make([]*Entry, 0, len(f.entries))
	for _, e := range f.entries {
		if e.IsOpen() {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEntryRepo) All(_ context.Context) ([]*Entry, error) {
	out := make([]*Entry, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEntryRepo) ReplaceAll(_ context.Context, entries []*Entry) error {
	f.entries = make(map[id.ID]*Entry)
	for _, e := range entries {
		f.entries[e.CustomerID] = e
	}
	return nil
}

type fixture struct {
	customers *fakeCustomerReader
	products  *fakeProductStore
	sales     *fakeSaleRepo
	entries   *fakeEntryRepo
	engine    *Engine
}

func newFixture() *fixture {
	f := &fixture{
		customers: newFakeCustomerReader(),
		products:  newFakeProductStore(),
		sales:     newFakeSaleRepo(),
		entries:   newFakeEntryRepo(),
	}
	f.engine = NewEngine(f.customers, f.products, f.sales, f.entries)
	return f
}

package ledger

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"cantina/internal/core/apperror"
	"cantina/internal/core/id"
	"cantina/internal/core/types"
	"cantina/internal/domain/catalogs/customer"
	"cantina/internal/domain/catalogs/product"
	"cantina/pkg/logger"
)

var tracer = otel.Tracer("cantina/ledger")

// Engine settles sales and payments. Each write it performs is an
// independent statement: a failure after the sale document is stored leaves
// the stock and ledger behind it unchanged, and Reconcile is the tool that
// finds and repairs the resulting drift.
type Engine struct {
	customers CustomerReader
	products  ProductStore
	sales     SaleRepository
	entries   EntryRepository
}

func NewEngine(
	customers CustomerReader,
	products ProductStore,
	sales SaleRepository,
	entries EntryRepository,
) *Engine {
	return &Engine{
		customers: customers,
		products:  products,
		sales:     sales,
		entries:   entries,
	}
}

// FinalizeSaleRequest is the input to FinalizeSale.
type FinalizeSaleRequest struct {
	Cart       []CartItem
	CustomerID *id.ID
	Settlement SettlementType
	Note       string
}

// FinalizeSale turns a cart into a stored sale. Stock is checked against a
// live read of each product immediately before anything is written. The
// writes run in order: sale document, stock decrements, ledger application
// for credit sales.
func (e *Engine) FinalizeSale(ctx context.Context, req FinalizeSaleRequest) (*Sale, error) {
	ctx, span := tracer.Start(ctx, "ledger.FinalizeSale",
		trace.WithAttributes(
			attribute.Int("cart.size", len(req.Cart)),
			attribute.String("settlement", string(req.Settlement)),
		))
	defer span.End()

	if len(req.Cart) == 0 {
		return nil, apperror.NewEmptyCart()
	}
	if req.Settlement != SettlementPaid && req.Settlement != SettlementCredit {
		return nil, apperror.NewValidation("invalid settlement type").
			WithDetail("value", string(req.Settlement))
	}
	for i, item := range req.Cart {
		if item.Quantity <= 0 {
			return nil, apperror.NewValidation("quantity must be positive").
				WithDetail("lineNo", i+1)
		}
	}

	cust, err := e.resolveCustomer(ctx, req)
	if err != nil {
		return nil, err
	}

	sale := NewSale(req.Settlement, req.Note)
	if cust != nil {
		sale.SetCustomer(cust.ID, cust.Name)
	}

	// Live stock check, right before the writes start. Demand is summed per
	// product first: a cart naming the same product on several lines must be
	// covered by the stock as a whole, not line by line.
	required := make(map[id.ID]int, len(req.Cart))
	for _, item := range req.Cart {
		required[item.ProductID] += item.Quantity
	}
	loaded := make(map[id.ID]*product.Product, len(required))
	for _, item := range req.Cart {
		p, ok := loaded[item.ProductID]
		if !ok {
			var err error
			p, err = e.products.GetByID(ctx, item.ProductID)
			if err != nil {
				if apperror.IsNotFound(err) {
					return nil, err
				}
				return nil, apperror.NewStorage(fmt.Errorf("load product: %w", err))
			}
			if required[p.ID] > p.StockQuantity {
				return nil, apperror.NewInsufficientStock(p.ID.String(), required[p.ID], p.StockQuantity)
			}
			loaded[item.ProductID] = p
		}
		sale.AddLine(p.ID, p.Name, item.Quantity, p.UnitPrice)
	}

	if err := sale.Validate(ctx); err != nil {
		return nil, err
	}

	if err := e.sales.Create(ctx, sale); err != nil {
		return nil, apperror.NewStorage(fmt.Errorf("store sale: %w", err))
	}
	span.SetAttributes(attribute.String("sale.id", sale.ID.String()))

	for _, line := range sale.Lines {
		if err := e.products.AdjustStock(ctx, line.ProductID, -line.Quantity); err != nil {
			// The sale is already committed. Stop here and leave the
			// remaining decrements to Reconcile's report.
			logger.Error(ctx, "stock decrement failed after sale commit",
				"sale_id", sale.ID, "product_id", line.ProductID, "error", err)
			return sale, apperror.NewStorage(fmt.Errorf("decrement stock: %w", err)).
				WithDetail("saleId", sale.ID.String()).
				WithDetail("productId", line.ProductID.String())
		}
	}

	if sale.SettlementType == SettlementCredit {
		if err := e.applyToLedger(ctx, sale); err != nil {
			logger.Error(ctx, "ledger application failed after sale commit",
				"sale_id", sale.ID, "customer_id", *sale.CustomerID, "error", err)
			return sale, err
		}
	}

	logger.Info(ctx, "sale finalized",
		"sale_id", sale.ID,
		"settlement", sale.SettlementType,
		"total", sale.Total,
		"lines", len(sale.Lines))

	return sale, nil
}

func (e *Engine) resolveCustomer(ctx context.Context, req FinalizeSaleRequest) (*customer.Customer, error) {
	if req.CustomerID == nil {
		if req.Settlement == SettlementCredit {
			return nil, apperror.NewCustomerRequired()
		}
		return nil, nil
	}

	cust, err := e.customers.GetByID(ctx, *req.CustomerID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, apperror.NewStorage(fmt.Errorf("load customer: %w", err))
	}

	if req.Settlement == SettlementCredit && cust.CreditBlocked {
		return nil, apperror.NewCreditBlocked(cust.ID.String())
	}

	return cust, nil
}

// applyToLedger rolls a credit sale into the customer's entry, creating the
// entry on first credit. Idempotent by sale id.
func (e *Engine) applyToLedger(ctx context.Context, sale *Sale) error {
	entry, err := e.entries.Get(ctx, *sale.CustomerID)
	if err != nil {
		if !apperror.IsNotFound(err) {
			return apperror.NewStorage(fmt.Errorf("load ledger entry: %w", err))
		}
		name := ""
		if sale.CustomerName != nil {
			name = *sale.CustomerName
		}
		entry = NewEntry(*sale.CustomerID, name)
		entry.ApplySale(sale)
		if err := e.entries.Create(ctx, entry); err != nil {
			return apperror.NewStorage(fmt.Errorf("create ledger entry: %w", err))
		}
		return nil
	}

	if entry.HasSale(sale.ID) {
		return nil
	}
	entry.ApplySale(sale)
	if err := e.entries.Update(ctx, entry); err != nil {
		return apperror.NewStorage(fmt.Errorf("update ledger entry: %w", err))
	}
	return nil
}

// RecordPayment reduces a customer's open balance. The entry stays in the
// ledger even when the balance reaches zero.
func (e *Engine) RecordPayment(ctx context.Context, customerID id.ID, amount types.Money) (*Entry, error) {
	ctx, span := tracer.Start(ctx, "ledger.RecordPayment",
		trace.WithAttributes(attribute.String("customer.id", customerID.String())))
	defer span.End()

	if !amount.IsPositive() {
		return nil, apperror.NewInvalidAmount("payment amount must be positive").
			WithDetail("amount", amount.String())
	}
	amount = types.Round2(amount)

	entry, err := e.entries.Get(ctx, customerID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, apperror.NewStorage(fmt.Errorf("load ledger entry: %w", err))
	}

	if amount.GreaterThan(entry.Balance) {
		return nil, apperror.NewInvalidAmount("payment exceeds open balance").
			WithDetail("amount", amount.String()).
			WithDetail("balance", entry.Balance.String())
	}

	entry.Balance = types.Round2(entry.Balance.Sub(amount))
	if err := e.entries.Update(ctx, entry); err != nil {
		return nil, apperror.NewStorage(fmt.Errorf("update ledger entry: %w", err))
	}

	logger.Info(ctx, "payment recorded",
		"customer_id", customerID,
		"amount", amount,
		"balance", entry.Balance)

	return entry, nil
}

// AdjustStock applies a manual stock correction. Deltas may be negative;
// the resulting quantity is clamped at zero by the store.
func (e *Engine) AdjustStock(ctx context.Context, productID id.ID, delta int) error {
	if delta == 0 {
		return nil
	}
	if _, err := e.products.GetByID(ctx, productID); err != nil {
		if apperror.IsNotFound(err) {
			return err
		}
		return apperror.NewStorage(fmt.Errorf("load product: %w", err))
	}
	if err := e.products.AdjustStock(ctx, productID, delta); err != nil {
		return apperror.NewStorage(fmt.Errorf("adjust stock: %w", err))
	}
	logger.Info(ctx, "stock adjusted", "product_id", productID, "delta", delta)
	return nil
}

// GetEntry returns a customer's ledger entry.
func (e *Engine) GetEntry(ctx context.Context, customerID id.ID) (*Entry, error) {
	entry, err := e.entries.Get(ctx, customerID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, apperror.NewStorage(fmt.Errorf("load ledger entry: %w", err))
	}
	return entry, nil
}

// ListEntries returns ledger entries, open ones only when openOnly is set.
func (e *Engine) ListEntries(ctx context.Context, openOnly bool) ([]*Entry, error) {
	var (
		entries []*Entry
		err     error
	)
	if openOnly {
		entries, err = e.entries.ListOpen(ctx)
	} else {
		entries, err = e.entries.All(ctx)
	}
	if err != nil {
		return nil, apperror.NewStorage(fmt.Errorf("list ledger entries: %w", err))
	}
	return entries, nil
}

// GetSale returns a sale by id.
func (e *Engine) GetSale(ctx context.Context, saleID id.ID) (*Sale, error) {
	sale, err := e.sales.GetByID(ctx, saleID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, apperror.NewStorage(fmt.Errorf("load sale: %w", err))
	}
	return sale, nil
}

// ListSales returns sales matching the filter, newest first.
func (e *Engine) ListSales(ctx context.Context, filter SaleFilter) ([]*Sale, error) {
	sales, err := e.sales.List(ctx, filter)
	if err != nil {
		return nil, apperror.NewStorage(fmt.Errorf("list sales: %w", err))
	}
	return sales, nil
}

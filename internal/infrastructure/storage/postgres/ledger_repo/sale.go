// Package ledger_repo provides PostgreSQL implementations for the sale log
// and the credit ledger.
package ledger_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"cantina/internal/core/apperror"
	"cantina/internal/core/id"
	"cantina/internal/domain/ledger"
	"cantina/internal/infrastructure/storage/postgres"
)

var saleCols = postgres.ExtractDBColumns[ledger.Sale]()

var lineCols = []string{
	"line_id", "line_no", "product_id", "product_name",
	"quantity", "unit_price", "line_total",
}

// SaleRepo implements ledger.SaleRepository on PostgreSQL. The sale header
// and its lines are written as separate statements; the header insert is the
// commit point, a line insert failure leaves a header without that line.
type SaleRepo struct {
	pool *postgres.Pool
}

func NewSaleRepo(pool *postgres.Pool) *SaleRepo {
	return &SaleRepo{pool: pool}
}

var _ ledger.SaleRepository = (*SaleRepo)(nil)

func (r *SaleRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts the sale header and then each line.
func (r *SaleRepo) Create(ctx context.Context, sale *ledger.Sale) error {
	data := postgres.StructToMap(sale)
	headerData := make(map[string]any, len(saleCols))
	for _, col := range saleCols {
		if val, ok := data[col]; ok {
			headerData[col] = val
		}
	}

	sql, args, err := r.builder().
		Insert("doc_sales").
		SetMap(headerData).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.pool.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert doc_sales: %w", err)
	}

	for _, line := range sale.Lines {
		if err := r.insertLine(ctx, sale.ID, line); err != nil {
			return err
		}
	}

	return nil
}

func (r *SaleRepo) insertLine(ctx context.Context, saleID id.ID, line ledger.SaleLine) error {
	sql, args, err := r.builder().
		Insert("doc_sale_lines").
		SetMap(map[string]any{
			"line_id":      line.LineID,
			"sale_id":      saleID,
			"line_no":      line.LineNo,
			"product_id":   line.ProductID,
			"product_name": line.ProductName,
			"quantity":     line.Quantity,
			"unit_price":   line.UnitPrice,
			"line_total":   line.LineTotal,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build line insert: %w", err)
	}

	if _, err := r.pool.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert doc_sale_lines: %w", err)
	}
	return nil
}

// GetByID retrieves a sale with its lines.
func (r *SaleRepo) GetByID(ctx context.Context, saleID id.ID) (*ledger.Sale, error) {
	sql, args, err := r.builder().
		Select(saleCols...).
		From("doc_sales").
		Where(squirrel.Eq{"id": saleID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	sale := &ledger.Sale{}
	if err := pgxscan.Get(ctx, r.pool, sale, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("sale", saleID.String())
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}

	if err := r.loadLines(ctx, []*ledger.Sale{sale}); err != nil {
		return nil, err
	}

	return sale, nil
}

// List retrieves sales matching the filter, newest first, with lines.
func (r *SaleRepo) List(ctx context.Context, filter ledger.SaleFilter) ([]*ledger.Sale, error) {
	q := r.builder().
		Select(saleCols...).
		From("doc_sales")

	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *filter.To})
	}
	if filter.SettlementType != nil {
		q = q.Where(squirrel.Eq{"settlement_type": string(*filter.SettlementType)})
	}

	q = q.OrderBy("created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var sales []*ledger.Sale
	if err := pgxscan.Select(ctx, r.pool, &sales, sql, args...); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}

	if err := r.loadLines(ctx, sales); err != nil {
		return nil, err
	}

	return sales, nil
}

// All retrieves every sale in creation order, with lines.
func (r *SaleRepo) All(ctx context.Context) ([]*ledger.Sale, error) {
	sql, args, err := r.builder().
		Select(saleCols...).
		From("doc_sales").
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var sales []*ledger.Sale
	if err := pgxscan.Select(ctx, r.pool, &sales, sql, args...); err != nil {
		return nil, fmt.Errorf("select all sales: %w", err)
	}

	if err := r.loadLines(ctx, sales); err != nil {
		return nil, err
	}

	return sales, nil
}

// ReplaceAll clears the sale log and reinserts the given sales one by one.
// Line rows go with their headers via the cascade.
func (r *SaleRepo) ReplaceAll(ctx context.Context, sales []*ledger.Sale) error {
	if _, err := r.pool.Exec(ctx, "DELETE FROM doc_sales"); err != nil {
		return fmt.Errorf("clear doc_sales: %w", err)
	}

	for i, sale := range sales {
		if err := r.Create(ctx, sale); err != nil {
			return fmt.Errorf("repopulate doc_sales at %d: %w", i, err)
		}
	}

	return nil
}

// lineRow carries the owning sale id next to the line columns.
type lineRow struct {
	SaleID id.ID `db:"sale_id"`
	ledger.SaleLine
}

func (r *SaleRepo) loadLines(ctx context.Context, sales []*ledger.Sale) error {
	if len(sales) == 0 {
		return nil
	}

	saleIDs := make([]id.ID, 0, len(sales))
	byID := make(map[id.ID]*ledger.Sale, len(sales))
	for _, sale := range sales {
		sale.Lines = make([]ledger.SaleLine, 0)
		saleIDs = append(saleIDs, sale.ID)
		byID[sale.ID] = sale
	}

	cols := append([]string{"sale_id"}, lineCols...)
	sql, args, err := r.builder().
		Select(cols...).
		From("doc_sale_lines").
		Where(squirrel.Eq{"sale_id": saleIDs}).
		OrderBy("sale_id", "line_no").
		ToSql()
	if err != nil {
		return fmt.Errorf("build lines query: %w", err)
	}

	var rows []lineRow
	if err := pgxscan.Select(ctx, r.pool, &rows, sql, args...); err != nil {
		return fmt.Errorf("load sale lines: %w", err)
	}

	for _, row := range rows {
		if sale, ok := byID[row.SaleID]; ok {
			sale.Lines = append(sale.Lines, row.SaleLine)
		}
	}

	return nil
}

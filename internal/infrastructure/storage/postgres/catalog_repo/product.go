package catalog_repo

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"cantina/internal/core/apperror"
	"cantina/internal/core/id"
	"cantina/internal/domain/catalogs/product"
	"cantina/internal/infrastructure/storage/postgres"
)

// ProductRepo implements product.Repository on PostgreSQL.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]
	pool *postgres.Pool
}

func NewProductRepo(pool *postgres.Pool) *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			pool,
			"cat_products",
			"product",
			postgres.ExtractDBColumns[product.Product](),
			func() *product.Product { return &product.Product{} },
		),
		pool: pool,
	}
}

var _ product.Repository = (*ProductRepo)(nil)

// AdjustStock applies a delta to the stored quantity in a single statement,
// clamping the result at zero.
func (r *ProductRepo) AdjustStock(ctx context.Context, productID id.ID, delta int) error {
	const sql = `UPDATE cat_products
		SET stock_quantity = GREATEST(0, stock_quantity + $1)
		WHERE id = $2`

	result, err := r.pool.Exec(ctx, sql, delta, productID)
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("product", productID.String())
	}
	return nil
}

// FindLowStock returns products at or below their reorder threshold.
func (r *ProductRepo) FindLowStock(ctx context.Context) ([]*product.Product, error) {
	q := r.baseSelect().
		Where("stock_quantity <= low_stock_threshold").
		OrderBy("stock_quantity ASC", "name ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*product.Product
	if err := pgxscan.Select(ctx, r.pool, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("find low stock: %w", err)
	}

	return items, nil
}

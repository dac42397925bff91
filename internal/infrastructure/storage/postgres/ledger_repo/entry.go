package ledger_repo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"cantina/internal/core/apperror"
	"cantina/internal/core/id"
	"cantina/internal/domain/ledger"
	"cantina/internal/infrastructure/storage/postgres"
)

var entryCols = []string{"customer_id", "customer_name", "balance", "sale_ids"}

// EntryRepo implements ledger.EntryRepository on PostgreSQL. One row per
// customer; the sale references live in a jsonb array.
type EntryRepo struct {
	pool *postgres.Pool
}

func NewEntryRepo(pool *postgres.Pool) *EntryRepo {
	return &EntryRepo{pool: pool}
}

var _ ledger.EntryRepository = (*EntryRepo)(nil)

func (r *EntryRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *EntryRepo) entryData(entry *ledger.Entry) (map[string]any, error) {
	saleIDs, err := json.Marshal(entry.SaleIDs)
	if err != nil {
		return nil, fmt.Errorf("marshal sale ids: %w", err)
	}
	return map[string]any{
		"customer_id":   entry.CustomerID,
		"customer_name": entry.CustomerName,
		"balance":       entry.Balance,
		"sale_ids":      string(saleIDs),
	}, nil
}

// Get returns the entry for a customer.
func (r *EntryRepo) Get(ctx context.Context, customerID id.ID) (*ledger.Entry, error) {
	sql, args, err := r.builder().
		Select(entryCols...).
		From("reg_debts").
		Where(squirrel.Eq{"customer_id": customerID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	entry := &ledger.Entry{}
	if err := pgxscan.Get(ctx, r.pool, entry, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("ledger entry", customerID.String())
		}
		return nil, fmt.Errorf("get ledger entry: %w", err)
	}

	return entry, nil
}

func (r *EntryRepo) Create(ctx context.Context, entry *ledger.Entry) error {
	data, err := r.entryData(entry)
	if err != nil {
		return err
	}

	sql, args, err := r.builder().
		Insert("reg_debts").
		SetMap(data).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.pool.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert reg_debts: %w", err)
	}

	return nil
}

func (r *EntryRepo) Update(ctx context.Context, entry *ledger.Entry) error {
	data, err := r.entryData(entry)
	if err != nil {
		return err
	}
	delete(data, "customer_id")

	sql, args, err := r.builder().
		Update("reg_debts").
		SetMap(data).
		Where(squirrel.Eq{"customer_id": entry.CustomerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update reg_debts: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("ledger entry", entry.CustomerID.String())
	}

	return nil
}

// ListOpen returns entries with a positive balance, largest first.
func (r *EntryRepo) ListOpen(ctx context.Context) ([]*ledger.Entry, error) {
	sql, args, err := r.builder().
		Select(entryCols...).
		From("reg_debts").
		Where(squirrel.Gt{"balance": 0}).
		OrderBy("balance DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []*ledger.Entry
	if err := pgxscan.Select(ctx, r.pool, &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("list open entries: %w", err)
	}

	return entries, nil
}

// All returns every entry, settled ones included.
func (r *EntryRepo) All(ctx context.Context) ([]*ledger.Entry, error) {
	sql, args, err := r.builder().
		Select(entryCols...).
		From("reg_debts").
		OrderBy("customer_name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []*ledger.Entry
	if err := pgxscan.Select(ctx, r.pool, &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("select all entries: %w", err)
	}

	return entries, nil
}

// ReplaceAll clears the ledger and reinserts the given entries one by one.
func (r *EntryRepo) ReplaceAll(ctx context.Context, entries []*ledger.Entry) error {
	if _, err := r.pool.Exec(ctx, "DELETE FROM reg_debts"); err != nil {
		return fmt.Errorf("clear reg_debts: %w", err)
	}

	for i, entry := range entries {
		if err := r.Create(ctx, entry); err != nil {
			return fmt.Errorf("repopulate reg_debts at %d: %w", i, err)
		}
	}

	return nil
}

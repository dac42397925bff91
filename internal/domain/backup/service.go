// Package backup exports and restores the full dataset as a single
// compressed JSON snapshot.
package backup

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zstd"

	"cantina/internal/core/apperror"
	"cantina/internal/domain"
	"cantina/internal/domain/catalogs/customer"
	"cantina/internal/domain/catalogs/product"
	"cantina/internal/domain/ledger"
	"cantina/pkg/logger"
)

const envelopeVersion = 1

// Envelope is the on-disk snapshot format, one array per collection.
type Envelope struct {
	Version    int       `json:"version"`
	ExportedAt time.Time `json:"exportedAt"`

	Customers []*customer.Customer `json:"children"`
	Products  []*product.Product   `json:"products"`
	Sales     []*ledger.Sale       `json:"sales"`
	Entries   []*ledger.Entry      `json:"debts"`
}

// zstd frame magic, used to tell compressed snapshots from plain JSON.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Service snapshots every collection and restores them wholesale.
type Service struct {
	customers domain.CatalogRepository[*customer.Customer]
	products  domain.CatalogRepository[*product.Product]
	sales     ledger.SaleRepository
	entries   ledger.EntryRepository
}

func NewService(
	customers domain.CatalogRepository[*customer.Customer],
	products domain.CatalogRepository[*product.Product],
	sales ledger.SaleRepository,
	entries ledger.EntryRepository,
) *Service {
	return &Service{
		customers: customers,
		products:  products,
		sales:     sales,
		entries:   entries,
	}
}

// Export writes a zstd-compressed JSON snapshot of all collections.
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	env := Envelope{
		Version:    envelopeVersion,
		ExportedAt: time.Now().UTC(),
	}

	var err error
	if env.Customers, err = s.customers.All(ctx); err != nil {
		return apperror.NewStorage(fmt.Errorf("export customers: %w", err))
	}
	if env.Products, err = s.products.All(ctx); err != nil {
		return apperror.NewStorage(fmt.Errorf("export products: %w", err))
	}
	if env.Sales, err = s.sales.All(ctx); err != nil {
		return apperror.NewStorage(fmt.Errorf("export sales: %w", err))
	}
	if env.Entries, err = s.entries.All(ctx); err != nil {
		return apperror.NewStorage(fmt.Errorf("export ledger entries: %w", err))
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("open zstd writer: %w", err)
	}

	if err := json.NewEncoder(zw).Encode(env); err != nil {
		zw.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close zstd writer: %w", err)
	}

	logger.Info(ctx, "snapshot exported",
		"customers", len(env.Customers),
		"products", len(env.Products),
		"sales", len(env.Sales),
		"entries", len(env.Entries))

	return nil
}

// Import restores a snapshot. The file is fully decoded and validated
// before any collection is touched; once the clear-and-repopulate loop
// starts, a failure leaves the collections partially restored and the
// error says so.
func (s *Service) Import(ctx context.Context, r io.Reader) error {
	env, err := decodeEnvelope(r)
	if err != nil {
		return apperror.NewValidation("snapshot file is not readable").WithCause(err)
	}

	if err := validateEnvelope(ctx, env); err != nil {
		return err
	}

	if err := s.customers.ReplaceAll(ctx, env.Customers); err != nil {
		return apperror.NewRestoreFailed(fmt.Errorf("restore customers: %w", err))
	}
	if err := s.products.ReplaceAll(ctx, env.Products); err != nil {
		return apperror.NewRestoreFailed(fmt.Errorf("restore products: %w", err))
	}
	if err := s.sales.ReplaceAll(ctx, env.Sales); err != nil {
		return apperror.NewRestoreFailed(fmt.Errorf("restore sales: %w", err))
	}
	if err := s.entries.ReplaceAll(ctx, env.Entries); err != nil {
		return apperror.NewRestoreFailed(fmt.Errorf("restore ledger entries: %w", err))
	}

	logger.Info(ctx, "snapshot restored",
		"customers", len(env.Customers),
		"products", len(env.Products),
		"sales", len(env.Sales),
		"entries", len(env.Entries))

	return nil
}

// decodeEnvelope reads a snapshot, accepting both compressed and plain
// JSON files.
func decodeEnvelope(r io.Reader) (*Envelope, error) {
	br := bufio.NewReader(r)

	head, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read snapshot header: %w", err)
	}

	var src io.Reader = br
	if bytes.Equal(head, zstdMagic) {
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("open zstd reader: %w", err)
		}
		defer zr.Close()
		src = zr
	}

	var env Envelope
	dec := json.NewDecoder(src)
	if err := dec.Decode(&env); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &env, nil
}

func validateEnvelope(ctx context.Context, env *Envelope) error {
	if env.Version > envelopeVersion {
		return apperror.NewValidation("snapshot version is newer than this build supports").
			WithDetail("version", env.Version)
	}

	for i, c := range env.Customers {
		if c == nil {
			return apperror.NewValidation("snapshot contains a null customer").WithDetail("index", i)
		}
		if err := c.Validate(ctx); err != nil {
			return apperror.NewValidation("snapshot customer is invalid").
				WithDetail("index", i).WithCause(err)
		}
	}
	for i, p := range env.Products {
		if p == nil {
			return apperror.NewValidation("snapshot contains a null product").WithDetail("index", i)
		}
		if err := p.Validate(ctx); err != nil {
			return apperror.NewValidation("snapshot product is invalid").
				WithDetail("index", i).WithCause(err)
		}
	}
	for i, sale := range env.Sales {
		if sale == nil {
			return apperror.NewValidation("snapshot contains a null sale").WithDetail("index", i)
		}
		if err := sale.Validate(ctx); err != nil {
			return apperror.NewValidation("snapshot sale is invalid").
				WithDetail("index", i).WithCause(err)
		}
	}
	for i, entry := range env.Entries {
		if entry == nil {
			return apperror.NewValidation("snapshot contains a null ledger entry").WithDetail("index", i)
		}
		if entry.Balance.IsNegative() {
			return apperror.NewValidation("snapshot ledger entry has a negative balance").
				WithDetail("index", i).
				WithDetail("customerId", entry.CustomerID.String())
		}
	}

	return nil
}

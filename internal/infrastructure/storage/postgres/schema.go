package postgres

import (
	"context"
	"fmt"

	"cantina/pkg/logger"
)

// schemaDDL creates all tables. Statements are idempotent so the schema can
// be applied on every start.
//
// doc_sales and reg_debts deliberately carry no foreign key to cat_children:
// deleting a customer leaves their sales and ledger entry in place, with the
// denormalized name snapshots keeping the history readable.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS cat_children (
    id              UUID PRIMARY KEY,
    name            TEXT NOT NULL,
    class_group     TEXT NOT NULL DEFAULT '',
    contact         TEXT NOT NULL DEFAULT '',
    photo           TEXT,
    father_name     TEXT,
    father_contact  TEXT,
    mother_name     TEXT,
    mother_contact  TEXT,
    notes           TEXT NOT NULL DEFAULT '',
    credit_blocked  BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS cat_products (
    id                  UUID PRIMARY KEY,
    name                TEXT NOT NULL,
    category            TEXT NOT NULL,
    unit_price          NUMERIC(12,2) NOT NULL CHECK (unit_price >= 0),
    stock_quantity      INTEGER NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
    low_stock_threshold INTEGER NOT NULL DEFAULT 5,
    image               TEXT
);

CREATE TABLE IF NOT EXISTS doc_sales (
    id              UUID PRIMARY KEY,
    created_at      TIMESTAMPTZ NOT NULL,
    customer_id     UUID,
    customer_name   TEXT,
    total           NUMERIC(12,2) NOT NULL CHECK (total >= 0),
    settlement_type TEXT NOT NULL CHECK (settlement_type IN ('PAID', 'CREDIT')),
    note            TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_doc_sales_created_at ON doc_sales (created_at);

CREATE TABLE IF NOT EXISTS doc_sale_lines (
    line_id      UUID PRIMARY KEY,
    sale_id      UUID NOT NULL REFERENCES doc_sales (id) ON DELETE CASCADE,
    line_no      INTEGER NOT NULL,
    product_id   UUID NOT NULL,
    product_name TEXT NOT NULL,
    quantity     INTEGER NOT NULL CHECK (quantity > 0),
    unit_price   NUMERIC(12,2) NOT NULL,
    line_total   NUMERIC(12,2) NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_doc_sale_lines_sale_id ON doc_sale_lines (sale_id);

CREATE TABLE IF NOT EXISTS reg_debts (
    customer_id   UUID PRIMARY KEY,
    customer_name TEXT NOT NULL DEFAULT '',
    balance       NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (balance >= 0),
    sale_ids      JSONB NOT NULL DEFAULT '[]'
);
`

// Migrate applies the schema.
func Migrate(ctx context.Context, pool *Pool) error {
	if _, err := pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	logger.Info(ctx, "database schema applied")
	return nil
}

package postgres

import (
	"context"
	"fmt"
)

// schemaStatements DDL idempotente. Cantidades NUMERIC(14,3), costos NUMERIC(14,2).
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS branches (
		id         BIGSERIAL PRIMARY KEY,
		name       TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		branch_id     BIGINT NOT NULL REFERENCES branches(id),
		email         TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		name          TEXT NOT NULL,
		role          TEXT NOT NULL CHECK (role IN ('admin', 'bodeguero', 'cajero')),
		active        BOOLEAN NOT NULL DEFAULT true,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (lower(email))`,
	`CREATE TABLE IF NOT EXISTS products (
		id         BIGSERIAL PRIMARY KEY,
		branch_id  BIGINT NOT NULL REFERENCES branches(id),
		name       TEXT NOT NULL,
		unit       TEXT NOT NULL DEFAULT 'und',
		stock      NUMERIC(14,3) NOT NULL DEFAULT 0,
		price      NUMERIC(14,2) NOT NULL DEFAULT 0,
		status     TEXT NOT NULL DEFAULT 'Active',
		active     BOOLEAN NOT NULL DEFAULT true,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_by BIGINT
	)`,
	`CREATE TABLE IF NOT EXISTS materials (
		id         BIGSERIAL PRIMARY KEY,
		branch_id  BIGINT NOT NULL REFERENCES branches(id),
		name       TEXT NOT NULL,
		unit       TEXT NOT NULL DEFAULT 'kg',
		stock      NUMERIC(14,3) NOT NULL DEFAULT 0,
		unit_cost  NUMERIC(14,2) NOT NULL DEFAULT 0,
		status     TEXT NOT NULL DEFAULT 'Active',
		active     BOOLEAN NOT NULL DEFAULT true,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_by BIGINT
	)`,
	`CREATE TABLE IF NOT EXISTS stock_in_records (
		id             BIGSERIAL PRIMARY KEY,
		branch_id      BIGINT NOT NULL REFERENCES branches(id),
		resource_type  TEXT NOT NULL CHECK (resource_type IN ('product', 'material')),
		resource_id    BIGINT NOT NULL,
		qty_added      NUMERIC(14,3) NOT NULL CHECK (qty_added > 0),
		prev_stock     NUMERIC(14,3) NOT NULL,
		new_stock      NUMERIC(14,3) NOT NULL,
		unit_cost      NUMERIC(14,2) NOT NULL CHECK (unit_cost >= 0),
		prev_unit_cost NUMERIC(14,2) NOT NULL,
		new_unit_cost  NUMERIC(14,2) NOT NULL,
		total_cost     NUMERIC(14,2) NOT NULL,
		supplier_name  TEXT NOT NULL DEFAULT '',
		reference_no   TEXT NOT NULL DEFAULT '',
		note           TEXT NOT NULL DEFAULT '',
		stock_in_date  DATE NOT NULL,
		active         BOOLEAN NOT NULL DEFAULT true,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		created_by     BIGINT NOT NULL,
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_by     BIGINT
	)`,
	`CREATE INDEX IF NOT EXISTS stock_in_records_branch_idx ON stock_in_records (branch_id, created_at DESC, id DESC)`,
	`CREATE INDEX IF NOT EXISTS stock_in_records_resource_idx ON stock_in_records (resource_type, resource_id)`,
	`CREATE TABLE IF NOT EXISTS menus (
		id        BIGSERIAL PRIMARY KEY,
		branch_id BIGINT NOT NULL REFERENCES branches(id),
		name      TEXT NOT NULL,
		active    BOOLEAN NOT NULL DEFAULT true
	)`,
	`CREATE TABLE IF NOT EXISTS menu_ingredients (
		menu_id           BIGINT NOT NULL REFERENCES menus(id) ON DELETE CASCADE,
		resource_type     TEXT NOT NULL CHECK (resource_type IN ('product', 'material')),
		resource_id       BIGINT NOT NULL,
		quantity_per_unit NUMERIC(14,3) NOT NULL,
		PRIMARY KEY (menu_id, resource_type, resource_id)
	)`,
	`CREATE TABLE IF NOT EXISTS stock_movements (
		id            BIGSERIAL PRIMARY KEY,
		order_id      BIGINT NOT NULL,
		menu_id       BIGINT NOT NULL,
		resource_type TEXT NOT NULL CHECK (resource_type IN ('product', 'material')),
		resource_id   BIGINT NOT NULL,
		qty_deducted  NUMERIC(14,3) NOT NULL,
		stock_before  NUMERIC(14,3) NOT NULL,
		stock_after   NUMERIC(14,3) NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS stock_movements_resource_idx ON stock_movements (resource_type, resource_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS expenses (
		id           BIGSERIAL PRIMARY KEY,
		branch_id    BIGINT NOT NULL REFERENCES branches(id),
		source_type  TEXT NOT NULL,
		source_id    BIGINT NOT NULL,
		amount       NUMERIC(14,2) NOT NULL,
		description  TEXT NOT NULL,
		expense_date DATE NOT NULL,
		active       BOOLEAN NOT NULL DEFAULT true,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_by   BIGINT,
		UNIQUE (source_type, source_id)
	)`,
}

// EnsureSchema crea las tablas si no existen. Se llama una sola vez al arrancar, nunca por request.
func EnsureSchema(ctx context.Context, q Querier) error {
	for i, stmt := range schemaStatements {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema (sentencia %d): %w", i+1, err)
		}
	}
	return nil
}

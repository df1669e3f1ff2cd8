package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/inventory"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
	"github.com/jhoicas/Restaurante-api/pkg/textsearch"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// AuditRepo lecturas del historial de inventario. No toma bloqueos.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador.
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

type auditStockInRow struct {
	ID           int64           `db:"id"`
	BranchID     int64           `db:"branch_id"`
	ResourceType string          `db:"resource_type"`
	ResourceID   int64           `db:"resource_id"`
	ResourceName string          `db:"resource_name"`
	ResourceUnit string          `db:"resource_unit"`
	QtyAdded     decimal.Decimal `db:"qty_added"`
	PrevStock    decimal.Decimal `db:"prev_stock"`
	NewStock     decimal.Decimal `db:"new_stock"`
	UnitCost     decimal.Decimal `db:"unit_cost"`
	PrevUnitCost decimal.Decimal `db:"prev_unit_cost"`
	NewUnitCost  decimal.Decimal `db:"new_unit_cost"`
	TotalCost    decimal.Decimal `db:"total_cost"`
	SupplierName string          `db:"supplier_name"`
	ReferenceNo  string          `db:"reference_no"`
	Note         string          `db:"note"`
	StockInDate  time.Time       `db:"stock_in_date"`
	Active       bool            `db:"active"`
	CreatedAt    time.Time       `db:"created_at"`
	CreatedBy    int64           `db:"created_by"`
}

type auditMovementRow struct {
	ID           int64           `db:"id"`
	OrderID      int64           `db:"order_id"`
	MenuID       int64           `db:"menu_id"`
	ResourceType string          `db:"resource_type"`
	ResourceID   int64           `db:"resource_id"`
	QtyDeducted  decimal.Decimal `db:"qty_deducted"`
	StockBefore  decimal.Decimal `db:"stock_before"`
	StockAfter   decimal.Decimal `db:"stock_after"`
	CreatedAt    time.Time       `db:"created_at"`
	BranchID     int64           `db:"branch_id"`
	ResourceName string          `db:"resource_name"`
	ResourceUnit string          `db:"resource_unit"`
}

// ListStockIns entradas (activas y retractadas) que cumplen el filtro.
func (r *AuditRepo) ListStockIns(ctx context.Context, f inventory.AuditFilter, limit int) ([]entity.StockInRecord, error) {
	query, args, err := auditStockInQuery(f, limit).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build audit stock_in: %w", err)
	}
	var rows []auditStockInRow
	if err := pgxscan.Select(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("audit stock_in: %w", err)
	}

	out := make([]entity.StockInRecord, 0, len(rows))
	for _, row := range rows {
		kind, err := entity.ParseResourceKind(row.ResourceType)
		if err != nil {
			return nil, fmt.Errorf("audit stock_in %d: %w", row.ID, err)
		}
		out = append(out, entity.StockInRecord{
			ID: row.ID, BranchID: row.BranchID, ResourceType: kind, ResourceID: row.ResourceID,
			ResourceName: row.ResourceName, ResourceUnit: row.ResourceUnit,
			QtyAdded: row.QtyAdded, PrevStock: row.PrevStock, NewStock: row.NewStock,
			UnitCost: row.UnitCost, PrevUnitCost: row.PrevUnitCost, NewUnitCost: row.NewUnitCost, TotalCost: row.TotalCost,
			SupplierName: row.SupplierName, ReferenceNo: row.ReferenceNo, Note: row.Note,
			StockInDate: row.StockInDate, Active: row.Active, CreatedAt: row.CreatedAt, CreatedBy: row.CreatedBy,
		})
	}
	return out, nil
}

// ListMovements salidas por pedido que cumplen el filtro, con sucursal y nombre del recurso.
func (r *AuditRepo) ListMovements(ctx context.Context, f inventory.AuditFilter, limit int) ([]inventory.MovementEntry, error) {
	query, args, err := auditMovementQuery(f, limit).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build audit movements: %w", err)
	}
	var rows []auditMovementRow
	if err := pgxscan.Select(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("audit movements: %w", err)
	}

	out := make([]inventory.MovementEntry, 0, len(rows))
	for _, row := range rows {
		kind, err := entity.ParseResourceKind(row.ResourceType)
		if err != nil {
			return nil, fmt.Errorf("audit movement %d: %w", row.ID, err)
		}
		out = append(out, inventory.MovementEntry{
			Movement: entity.StockMovement{
				ID: row.ID, OrderID: row.OrderID, MenuID: row.MenuID,
				ResourceType: kind, ResourceID: row.ResourceID,
				QtyDeducted: row.QtyDeducted, StockBefore: row.StockBefore, StockAfter: row.StockAfter,
				CreatedAt: row.CreatedAt,
			},
			BranchID:     row.BranchID,
			ResourceName: row.ResourceName,
			ResourceUnit: row.ResourceUnit,
		})
	}
	return out, nil
}

func auditStockInQuery(f inventory.AuditFilter, limit int) sq.SelectBuilder {
	b := psql.Select(
		"s.id", "s.branch_id", "s.resource_type", "s.resource_id",
		"COALESCE(p.name, m.name, '') AS resource_name", "COALESCE(p.unit, m.unit, '') AS resource_unit",
		"s.qty_added", "s.prev_stock", "s.new_stock", "s.unit_cost", "s.prev_unit_cost", "s.new_unit_cost", "s.total_cost",
		"s.supplier_name", "s.reference_no", "s.note", "s.stock_in_date", "s.active", "s.created_at", "s.created_by",
	).From("stock_in_records s" + resourceJoin)

	if f.BranchID != nil {
		b = b.Where(sq.Eq{"s.branch_id": *f.BranchID})
	}
	b = applyResourceFilter(b, "s", f)
	if pattern, ok := searchPattern(f.Search); ok {
		b = b.Where(sq.Or{
			sq.Like{foldSQL("COALESCE(p.name, m.name, '')"): pattern},
			sq.Like{foldSQL("s.supplier_name"): pattern},
			sq.Like{foldSQL("s.reference_no"): pattern},
		})
	}
	return b.OrderBy("s.created_at DESC", "s.id DESC").Limit(uint64(limit))
}

func auditMovementQuery(f inventory.AuditFilter, limit int) sq.SelectBuilder {
	b := psql.Select(
		"sm.id", "sm.order_id", "sm.menu_id", "sm.resource_type", "sm.resource_id",
		"sm.qty_deducted", "sm.stock_before", "sm.stock_after", "sm.created_at",
		"COALESCE(p.branch_id, m.branch_id, 0) AS branch_id",
		"COALESCE(p.name, m.name, '') AS resource_name", "COALESCE(p.unit, m.unit, '') AS resource_unit",
	).From(`stock_movements sm
	LEFT JOIN products p ON sm.resource_type = 'product' AND p.id = sm.resource_id
	LEFT JOIN materials m ON sm.resource_type = 'material' AND m.id = sm.resource_id`)

	if f.BranchID != nil {
		b = b.Where(sq.Eq{"COALESCE(p.branch_id, m.branch_id)": *f.BranchID})
	}
	b = applyResourceFilter(b, "sm", f)
	if pattern, ok := searchPattern(f.Search); ok {
		b = b.Where(sq.Like{foldSQL("COALESCE(p.name, m.name, '')"): pattern})
	}
	return b.OrderBy("sm.created_at DESC", "sm.id DESC").Limit(uint64(limit))
}

func applyResourceFilter(b sq.SelectBuilder, alias string, f inventory.AuditFilter) sq.SelectBuilder {
	if f.ResourceType != nil {
		b = b.Where(sq.Eq{alias + ".resource_type": f.ResourceType.String()})
	}
	if f.ResourceID != nil {
		b = b.Where(sq.Eq{alias + ".resource_id": *f.ResourceID})
	}
	return b
}

// foldSQL aproxima textsearch.Fold en SQL (minúsculas y sin tildes) para prefiltrar en la base;
// el filtro exacto se vuelve a aplicar en memoria.
func foldSQL(col string) string {
	return "translate(lower(" + col + "), 'áàäâãéèëêíìïîóòöôõúùüûñç', 'aaaaaeeeeiiiiooooouuuunc')"
}

func searchPattern(search string) (string, bool) {
	folded := textsearch.Fold(search)
	if folded == "" {
		return "", false
	}
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(folded)
	return "%" + escaped + "%", true
}

package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
)

var _ repository.StockInRepository = (*StockInRepo)(nil)

// StockInRepo implementación de StockInRepository sobre stock_in_records.
type StockInRepo struct {
	q Querier
}

// NewStockInRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockInRepository(q Querier) *StockInRepo {
	return &StockInRepo{q: q}
}

const stockInColumns = `s.id, s.branch_id, s.resource_type, s.resource_id,
	s.qty_added, s.prev_stock, s.new_stock, s.unit_cost, s.prev_unit_cost, s.new_unit_cost, s.total_cost,
	s.supplier_name, s.reference_no, s.note, s.stock_in_date,
	s.active, s.created_at, s.created_by, s.updated_at, s.updated_by`

// resourceJoin resuelve nombre y unidad del recurso según resource_type.
const resourceJoin = `
	LEFT JOIN products p ON s.resource_type = 'product' AND p.id = s.resource_id
	LEFT JOIN materials m ON s.resource_type = 'material' AND m.id = s.resource_id`

const resourceNameCols = `COALESCE(p.name, m.name, ''), COALESCE(p.unit, m.unit, '')`

func scanStockIn(row pgx.Row, withResource bool) (*entity.StockInRecord, error) {
	var (
		rec  entity.StockInRecord
		kind string
	)
	dest := []any{
		&rec.ID, &rec.BranchID, &kind, &rec.ResourceID,
		&rec.QtyAdded, &rec.PrevStock, &rec.NewStock, &rec.UnitCost, &rec.PrevUnitCost, &rec.NewUnitCost, &rec.TotalCost,
		&rec.SupplierName, &rec.ReferenceNo, &rec.Note, &rec.StockInDate,
		&rec.Active, &rec.CreatedAt, &rec.CreatedBy, &rec.UpdatedAt, &rec.UpdatedBy,
	}
	if withResource {
		dest = append(dest, &rec.ResourceName, &rec.ResourceUnit)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	k, err := entity.ParseResourceKind(kind)
	if err != nil {
		return nil, fmt.Errorf("stock_in %d: %w", rec.ID, err)
	}
	rec.ResourceType = k
	return &rec, nil
}

// GetForUpdate bloquea la fila de la entrada (sin joins: FOR UPDATE no aplica al lado nullable de un LEFT JOIN).
func (r *StockInRepo) GetForUpdate(ctx context.Context, id int64) (*entity.StockInRecord, error) {
	query := `SELECT ` + stockInColumns + ` FROM stock_in_records s WHERE s.id = $1 FOR UPDATE`
	rec, err := scanStockIn(r.q.QueryRow(ctx, query, id), false)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock_in for update: %w", err)
	}
	return rec, nil
}

// GetByID obtiene la entrada con nombre y unidad del recurso.
func (r *StockInRepo) GetByID(ctx context.Context, id int64) (*entity.StockInRecord, error) {
	query := `SELECT ` + stockInColumns + `, ` + resourceNameCols + `
		FROM stock_in_records s` + resourceJoin + `
		WHERE s.id = $1`
	rec, err := scanStockIn(r.q.QueryRow(ctx, query, id), true)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock_in: %w", err)
	}
	return rec, nil
}

// Create inserta la entrada y asigna record.ID.
func (r *StockInRepo) Create(ctx context.Context, rec *entity.StockInRecord) error {
	query := `
		INSERT INTO stock_in_records (
			branch_id, resource_type, resource_id,
			qty_added, prev_stock, new_stock, unit_cost, prev_unit_cost, new_unit_cost, total_cost,
			supplier_name, reference_no, note, stock_in_date,
			active, created_at, created_by, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		rec.BranchID, rec.ResourceType.String(), rec.ResourceID,
		rec.QtyAdded, rec.PrevStock, rec.NewStock, rec.UnitCost, rec.PrevUnitCost, rec.NewUnitCost, rec.TotalCost,
		rec.SupplierName, rec.ReferenceNo, rec.Note, rec.StockInDate,
		rec.Active, rec.CreatedAt, rec.CreatedBy, rec.UpdatedAt,
	).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("insert stock_in: %w", err)
	}
	return nil
}

// Update reescribe la fila en sitio.
func (r *StockInRepo) Update(ctx context.Context, rec *entity.StockInRecord) error {
	query := `
		UPDATE stock_in_records SET
			resource_type = $2, resource_id = $3,
			qty_added = $4, prev_stock = $5, new_stock = $6,
			unit_cost = $7, prev_unit_cost = $8, new_unit_cost = $9, total_cost = $10,
			supplier_name = $11, reference_no = $12, note = $13, stock_in_date = $14,
			updated_at = $15, updated_by = $16
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, rec.ID,
		rec.ResourceType.String(), rec.ResourceID,
		rec.QtyAdded, rec.PrevStock, rec.NewStock,
		rec.UnitCost, rec.PrevUnitCost, rec.NewUnitCost, rec.TotalCost,
		rec.SupplierName, rec.ReferenceNo, rec.Note, rec.StockInDate,
		rec.UpdatedAt, rec.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("update stock_in: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update stock_in %d: fila no encontrada", rec.ID)
	}
	return nil
}

// SoftDelete marca la entrada como retractada.
func (r *StockInRepo) SoftDelete(ctx context.Context, id, editorID int64, at time.Time) error {
	_, err := r.q.Exec(ctx,
		`UPDATE stock_in_records SET active = false, updated_at = $2, updated_by = $3 WHERE id = $1`,
		id, at, editorID)
	if err != nil {
		return fmt.Errorf("soft delete stock_in: %w", err)
	}
	return nil
}

// List lista entradas de la sucursal, más recientes primero.
func (r *StockInRepo) List(ctx context.Context, f repository.StockInFilter) ([]*entity.StockInRecord, error) {
	query, args, err := stockInListQuery(f).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list stock_in: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock_in: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockInRecord
	for rows.Next() {
		rec, err := scanStockIn(rows, true)
		if err != nil {
			return nil, fmt.Errorf("scan stock_in: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func stockInListQuery(f repository.StockInFilter) sq.SelectBuilder {
	b := psql.Select(stockInColumns, resourceNameCols).
		From("stock_in_records s" + resourceJoin).
		Where(sq.Eq{"s.branch_id": f.BranchID})
	if !f.IncludeInactive {
		b = b.Where(sq.Eq{"s.active": true})
	}
	if f.ResourceType != nil {
		b = b.Where(sq.Eq{"s.resource_type": f.ResourceType.String()})
	}
	if f.ResourceID != nil {
		b = b.Where(sq.Eq{"s.resource_id": *f.ResourceID})
	}
	if f.From != nil {
		b = b.Where(sq.GtOrEq{"s.stock_in_date": *f.From})
	}
	if f.To != nil {
		b = b.Where(sq.LtOrEq{"s.stock_in_date": *f.To})
	}
	b = b.OrderBy("s.stock_in_date DESC", "s.id DESC")
	if f.Limit > 0 {
		b = b.Limit(uint64(f.Limit)).Offset(uint64(f.Offset))
	}
	return b
}

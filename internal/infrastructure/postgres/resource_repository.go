package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
)

var _ repository.ResourceRepository = (*ResourceRepo)(nil)

// ResourceRepo implementación de ResourceRepository sobre las tablas products y materials.
type ResourceRepo struct {
	q Querier
}

// NewResourceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewResourceRepository(q Querier) *ResourceRepo {
	return &ResourceRepo{q: q}
}

// resourceTable tabla y columna de costo de cada tipo. En products el costo vive en price.
func resourceTable(kind entity.ResourceKind) (table, costCol string, err error) {
	switch kind {
	case entity.ResourceProduct:
		return "products", "price", nil
	case entity.ResourceMaterial:
		return "materials", "unit_cost", nil
	}
	return "", "", fmt.Errorf("tipo de recurso sin tabla: %s", kind)
}

// GetForUpdate obtiene el recurso y bloquea la fila (SELECT FOR UPDATE).
func (r *ResourceRepo) GetForUpdate(ctx context.Context, ref entity.ResourceRef) (*entity.Resource, error) {
	table, costCol, err := resourceTable(ref.Kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT id, branch_id, name, unit, stock, %s, status, active, updated_at, updated_by
		FROM %s WHERE id = $1
		FOR UPDATE`, costCol, table)

	res := entity.Resource{Kind: ref.Kind}
	err = r.q.QueryRow(ctx, query, ref.ID).Scan(
		&res.ID, &res.BranchID, &res.Name, &res.Unit, &res.Stock, &res.UnitCost,
		&res.Status, &res.Active, &res.UpdatedAt, &res.UpdatedBy,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock %s: %w", ref, err)
	}
	return &res, nil
}

// UpdateStockAndCost persiste stock (3 decimales) y costo (2 decimales).
func (r *ResourceRepo) UpdateStockAndCost(ctx context.Context, ref entity.ResourceRef, stock, unitCost decimal.Decimal, editorID int64, at time.Time) error {
	table, costCol, err := resourceTable(ref.Kind)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`
		UPDATE %s SET stock = $2, %s = $3, updated_at = $4, updated_by = $5
		WHERE id = $1`, table, costCol)
	tag, err := r.q.Exec(ctx, query, ref.ID, stock.Round(3), unitCost.Round(2), at, editorID)
	if err != nil {
		return fmt.Errorf("update stock %s: %w", ref, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update stock %s: fila no encontrada", ref)
	}
	return nil
}

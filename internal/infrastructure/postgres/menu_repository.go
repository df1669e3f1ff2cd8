package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
)

var _ repository.MenuRepository = (*MenuRepo)(nil)

// MenuRepo lectura de menús y recetas. No toma bloqueos.
type MenuRepo struct {
	q Querier
}

// NewMenuRepository construye el adaptador.
func NewMenuRepository(q Querier) *MenuRepo {
	return &MenuRepo{q: q}
}

// ListActiveByBranch menús activos de la sucursal ordenados por nombre.
func (r *MenuRepo) ListActiveByBranch(ctx context.Context, branchID int64) ([]entity.Menu, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, branch_id, name, active FROM menus
		WHERE branch_id = $1 AND active
		ORDER BY name, id`, branchID)
	if err != nil {
		return nil, fmt.Errorf("list menus: %w", err)
	}
	defer rows.Close()

	var out []entity.Menu
	for rows.Next() {
		var m entity.Menu
		if err := rows.Scan(&m.ID, &m.BranchID, &m.Name, &m.Active); err != nil {
			return nil, fmt.Errorf("scan menu: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListIngredientsByBranch mapeos menú→recurso con el estado actual del recurso.
// Un recurso borrado deja las columnas del join en NULL y Resource queda nil.
func (r *MenuRepo) ListIngredientsByBranch(ctx context.Context, branchID int64) ([]entity.MenuIngredient, error) {
	rows, err := r.q.Query(ctx, `
		SELECT mi.menu_id, mi.resource_type, mi.resource_id, mi.quantity_per_unit,
			COALESCE(p.id, m.id), COALESCE(p.branch_id, m.branch_id),
			COALESCE(p.name, m.name), COALESCE(p.unit, m.unit),
			COALESCE(p.stock, m.stock), COALESCE(p.price, m.unit_cost),
			COALESCE(p.status, m.status), COALESCE(p.active, m.active)
		FROM menu_ingredients mi
		JOIN menus mn ON mn.id = mi.menu_id
		LEFT JOIN products p ON mi.resource_type = 'product' AND p.id = mi.resource_id
		LEFT JOIN materials m ON mi.resource_type = 'material' AND m.id = mi.resource_id
		WHERE mn.branch_id = $1 AND mn.active`, branchID)
	if err != nil {
		return nil, fmt.Errorf("list menu ingredients: %w", err)
	}
	defer rows.Close()

	var out []entity.MenuIngredient
	for rows.Next() {
		var (
			ing  entity.MenuIngredient
			kind string
			res  nullableResource
		)
		if err := rows.Scan(&ing.MenuID, &kind, &ing.ResourceID, &ing.QuantityPerUnit,
			&res.ID, &res.BranchID, &res.Name, &res.Unit, &res.Stock, &res.UnitCost, &res.Status, &res.Active,
		); err != nil {
			return nil, fmt.Errorf("scan menu ingredient: %w", err)
		}
		k, err := entity.ParseResourceKind(kind)
		if err != nil {
			return nil, fmt.Errorf("menu %d: %w", ing.MenuID, err)
		}
		ing.ResourceType = k
		ing.Resource = res.toResource(k)
		out = append(out, ing)
	}
	return out, rows.Err()
}

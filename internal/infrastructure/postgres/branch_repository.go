package postgres

import (
	"context"
	"fmt"
)

// BranchRepo alta de sucursales (solo lo usa el seed).
type BranchRepo struct {
	q Querier
}

// NewBranchRepository construye el repositorio de sucursales.
func NewBranchRepository(q Querier) *BranchRepo {
	return &BranchRepo{q: q}
}

// FindOrCreate devuelve el id de la sucursal con ese nombre, creándola si no existe.
func (r *BranchRepo) FindOrCreate(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.q.QueryRow(ctx, `SELECT id FROM branches WHERE name = $1 ORDER BY id LIMIT 1`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !isNoRows(err) {
		return 0, fmt.Errorf("buscar sucursal: %w", err)
	}
	if err := r.q.QueryRow(ctx, `INSERT INTO branches (name) VALUES ($1) RETURNING id`, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert branch: %w", err)
	}
	return id, nil
}

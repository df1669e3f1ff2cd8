package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
)

var _ repository.ExpenseRepository = (*ExpenseRepo)(nil)

// ExpenseRepo gastos automáticos (tabla expenses, única por source_type + source_id).
type ExpenseRepo struct {
	q Querier
}

// NewExpenseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewExpenseRepository(q Querier) *ExpenseRepo {
	return &ExpenseRepo{q: q}
}

// UpsertAuto crea el gasto o reemplaza monto, descripción y fecha del existente, reactivándolo.
func (r *ExpenseRepo) UpsertAuto(ctx context.Context, e *entity.Expense) error {
	query := `
		INSERT INTO expenses (branch_id, source_type, source_id, amount, description, expense_date, active, created_at, updated_at, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, true, $7, $7, $8)
		ON CONFLICT (source_type, source_id)
		DO UPDATE SET amount = EXCLUDED.amount, description = EXCLUDED.description,
			expense_date = EXCLUDED.expense_date, branch_id = EXCLUDED.branch_id,
			active = true, updated_at = EXCLUDED.updated_at, updated_by = EXCLUDED.updated_by
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		e.BranchID, e.SourceType, e.SourceID, e.Amount, e.Description, e.ExpenseDate, e.UpdatedAt, e.UpdatedBy,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("upsert expense %s/%d: %w", e.SourceType, e.SourceID, err)
	}
	e.Active = true
	return nil
}

// DisableAuto desactiva el gasto de la clave; sin fila no es error.
func (r *ExpenseRepo) DisableAuto(ctx context.Context, sourceType string, sourceID, editorID int64, at time.Time) error {
	_, err := r.q.Exec(ctx, `
		UPDATE expenses SET active = false, updated_at = $3, updated_by = $4
		WHERE source_type = $1 AND source_id = $2 AND active`,
		sourceType, sourceID, at, editorID)
	if err != nil {
		return fmt.Errorf("disable expense %s/%d: %w", sourceType, sourceID, err)
	}
	return nil
}

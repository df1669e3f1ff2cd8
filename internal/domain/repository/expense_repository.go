package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
)

// ExpenseRepository persistencia de gastos automáticos, identificados por (source_type, source_id).
type ExpenseRepository interface {
	// UpsertAuto crea o reemplaza (y reactiva) el gasto automático de la clave del expense.
	UpsertAuto(ctx context.Context, expense *entity.Expense) error
	// DisableAuto desactiva el gasto de la clave; no falla si no existe.
	DisableAuto(ctx context.Context, sourceType string, sourceID, editorID int64, at time.Time) error
}

package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
)

// ResourceRepository puerto de acceso a Product/Material para el motor de inventario.
// Se usa dentro de transacciones: GetForUpdate toma un bloqueo exclusivo de fila (SELECT ... FOR UPDATE)
// que se mantiene hasta Commit/Rollback.
type ResourceRepository interface {
	// GetForUpdate devuelve (nil, nil) si el recurso no existe.
	GetForUpdate(ctx context.Context, ref entity.ResourceRef) (*entity.Resource, error)
	// UpdateStockAndCost persiste stock y costo junto con la marca de edición.
	UpdateStockAndCost(ctx context.Context, ref entity.ResourceRef, stock, unitCost decimal.Decimal, editorID int64, at time.Time) error
}

package repository

import (
	"context"

	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/inventory"
)

// AuditRepository lee las dos fuentes del historial de inventario ya prefiltradas.
// Cada fuente se limita a limit filas ordenadas por fecha de creación descendente.
type AuditRepository interface {
	ListStockIns(ctx context.Context, f inventory.AuditFilter, limit int) ([]entity.StockInRecord, error)
	ListMovements(ctx context.Context, f inventory.AuditFilter, limit int) ([]inventory.MovementEntry, error)
}

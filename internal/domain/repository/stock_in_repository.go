package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
)

// StockInFilter filtros del listado de entradas de una sucursal.
type StockInFilter struct {
	BranchID        int64
	ResourceType    *entity.ResourceKind
	ResourceID      *int64
	From, To        *time.Time
	IncludeInactive bool
	Limit, Offset   int
}

// StockInRepository puerto de persistencia del libro de entradas de stock.
type StockInRepository interface {
	// GetForUpdate bloquea la fila de la entrada; (nil, nil) si no existe.
	GetForUpdate(ctx context.Context, id int64) (*entity.StockInRecord, error)
	// GetByID incluye nombre y unidad del recurso; (nil, nil) si no existe.
	GetByID(ctx context.Context, id int64) (*entity.StockInRecord, error)
	// Create inserta la entrada y asigna record.ID.
	Create(ctx context.Context, record *entity.StockInRecord) error
	// Update reescribe la fila en sitio (el id nunca cambia).
	Update(ctx context.Context, record *entity.StockInRecord) error
	SoftDelete(ctx context.Context, id, editorID int64, at time.Time) error
	List(ctx context.Context, f StockInFilter) ([]*entity.StockInRecord, error)
}

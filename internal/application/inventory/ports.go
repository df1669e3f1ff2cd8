package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el libro de entradas: si fn devuelve error se hace Rollback completo.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		resourceRepo repository.ResourceRepository,
		stockInRepo repository.StockInRepository,
		expenses ExpenseSink,
	) error) error
}

// AutoExpense datos de una entrada que el módulo de gastos registra (o reemplaza) como gasto
// automático con clave (source_type, stock_in_id).
type AutoExpense struct {
	StockInID    int64
	BranchID     int64
	ResourceType entity.ResourceKind
	ResourceID   int64
	ResourceName string
	QtyAdded     decimal.Decimal
	UnitCost     decimal.Decimal
	TotalCost    decimal.Decimal
	StockInDate  time.Time
	EditorID     int64
}

// DisableSignal pide desactivar el gasto automático ligado a (source_type del recurso, stock_in_id).
type DisableSignal struct {
	StockInID    int64
	ResourceType entity.ResourceKind
	EditorID     int64
}

// ExpenseSink colaborador de ingesta de gastos. Se invoca dentro de la misma transacción del libro.
type ExpenseSink interface {
	Record(ctx context.Context, e AutoExpense) error
	Disable(ctx context.Context, s DisableSignal) error
}

// AvailabilityCache caché opcional de la disponibilidad de menús por sucursal.
// Invalidate avanza la generación de la sucursal; Get solo acierta con una entrada guardada
// bajo la generación pedida, así un Set tardío con una generación vieja nunca se sirve.
type AvailabilityCache interface {
	Generation(ctx context.Context, branchID int64) (int64, error)
	Get(ctx context.Context, branchID, generation int64) ([]entity.MenuAvailability, bool, error)
	Set(ctx context.Context, branchID, generation int64, items []entity.MenuAvailability) error
	Invalidate(ctx context.Context, branchID int64) error
}

// ReceiptGenerator genera el comprobante (PDF) de una entrada de stock.
type ReceiptGenerator interface {
	GenerateStockInReceipt(ctx context.Context, record *entity.StockInRecord) ([]byte, error)
}

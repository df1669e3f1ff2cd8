package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Origen de gastos automáticos generados por entradas de stock.
const (
	ExpenseSourceStockInProduct  = "stock_in_product"
	ExpenseSourceStockInMaterial = "stock_in_material"
)

// ExpenseSourceFor devuelve el source_type del gasto automático según el tipo de recurso.
func ExpenseSourceFor(kind ResourceKind) string {
	switch kind {
	case ResourceProduct:
		return ExpenseSourceStockInProduct
	case ResourceMaterial:
		return ExpenseSourceStockInMaterial
	}
	return ""
}

// Expense gasto de una sucursal. Los gastos automáticos se identifican por (SourceType, SourceID).
type Expense struct {
	ID          int64
	BranchID    int64
	SourceType  string
	SourceID    int64
	Amount      decimal.Decimal
	Description string
	ExpenseDate time.Time
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	UpdatedBy   *int64
}

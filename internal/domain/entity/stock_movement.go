package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockMovement es una salida de stock producida por el despacho de pedidos (deducción por menú).
// Es append-only y de solo lectura para este servicio.
type StockMovement struct {
	ID           int64
	OrderID      int64
	MenuID       int64
	ResourceType ResourceKind
	ResourceID   int64
	QtyDeducted  decimal.Decimal // positivo: cantidad consumida por la venta
	StockBefore  decimal.Decimal
	StockAfter   decimal.Decimal
	CreatedAt    time.Time
}

// Resource devuelve la referencia al recurso afectado.
func (m *StockMovement) Resource() ResourceRef {
	return ResourceRef{Kind: m.ResourceType, ID: m.ResourceID}
}

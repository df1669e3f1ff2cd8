package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de evento del historial de inventario.
const (
	AuditEventStockIn  = "stock_in"
	AuditEventStockOut = "stock_out"
)

// AuditEvent forma normalizada de una entrada (stock-in) o una salida (movimiento de pedido).
// CostBefore/CostAfter son nil para salidas.
type AuditEvent struct {
	EventID        int64            `json:"event_id"`
	EventType      string           `json:"event_type"`
	BranchID       int64            `json:"branch_id"`
	ResourceType   ResourceKind     `json:"resource_type"`
	ResourceID     int64            `json:"resource_id"`
	ResourceName   string           `json:"resource_name"`
	ResourceUnit   string           `json:"resource_unit"`
	EventDate      string           `json:"event_date"` // YYYY-MM-DD
	EventTimestamp time.Time        `json:"event_timestamp"`
	QtyChange      decimal.Decimal  `json:"qty_change"`
	StockBefore    decimal.Decimal  `json:"stock_before"`
	StockAfter     decimal.Decimal  `json:"stock_after"`
	CostBefore     *decimal.Decimal `json:"cost_before"`
	CostAfter      *decimal.Decimal `json:"cost_after"`
	SupplierName   string           `json:"supplier_name"`
	ReferenceNo    string           `json:"reference_no"`
	Note           string           `json:"note"`
	OrderID        *int64           `json:"order_id,omitempty"`
	MenuID         *int64           `json:"menu_id,omitempty"`
	Active         bool             `json:"active"`
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockInRecord representa una entrada de stock (compra/recepción) sobre un Product o Material.
// Guarda el estado anterior y posterior del recurso para poder revertir la entrada.
// Nunca se borra físicamente: al retractarse se marca Active=false.
type StockInRecord struct {
	ID           int64
	BranchID     int64
	ResourceType ResourceKind
	ResourceID   int64
	ResourceName string // solo lectura (join), no se persiste en la fila
	ResourceUnit string

	QtyAdded     decimal.Decimal
	PrevStock    decimal.Decimal
	NewStock     decimal.Decimal
	UnitCost     decimal.Decimal // costo unitario de este lote
	PrevUnitCost decimal.Decimal
	NewUnitCost  decimal.Decimal // costo promedio ponderado del recurso tras la entrada
	TotalCost    decimal.Decimal // round(QtyAdded * UnitCost, 2)

	SupplierName string
	ReferenceNo  string
	Note         string
	StockInDate  time.Time // fecha calendario local de la sucursal (sin hora)

	Active    bool
	CreatedAt time.Time
	CreatedBy int64
	UpdatedAt time.Time
	UpdatedBy *int64
}

// Resource devuelve la referencia al recurso afectado.
func (s *StockInRecord) Resource() ResourceRef {
	return ResourceRef{Kind: s.ResourceType, ID: s.ResourceID}
}

// StockInTotal calcula el costo total de un lote: round(qty * unitCost, 2).
func StockInTotal(qty, unitCost decimal.Decimal) decimal.Decimal {
	return qty.Mul(unitCost).Round(2)
}

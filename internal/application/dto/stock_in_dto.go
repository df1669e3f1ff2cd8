package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockInRequest body para POST /api/stock-ins y PUT /api/stock-ins/:id.
// Cantidad y costo se validan en el caso de uso (redondeo a 3 decimales, > 0 / >= 0).
type StockInRequest struct {
	ResourceType string          `json:"resource_type" validate:"required,oneof=product material"`
	ResourceID   int64           `json:"resource_id" validate:"required,gt=0"`
	QtyAdded     decimal.Decimal `json:"qty_added"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	SupplierName string          `json:"supplier_name" validate:"omitempty,max=200"`
	ReferenceNo  string          `json:"reference_no" validate:"omitempty,max=100"`
	Note         string          `json:"note" validate:"omitempty,max=500"`
	StockInDate  string          `json:"stock_in_date" validate:"omitempty,datetime=2006-01-02"`
}

// StockInResponse salida de una entrada de stock.
type StockInResponse struct {
	ID           int64           `json:"id"`
	BranchID     int64           `json:"branch_id"`
	ResourceType string          `json:"resource_type"`
	ResourceID   int64           `json:"resource_id"`
	ResourceName string          `json:"resource_name"`
	ResourceUnit string          `json:"resource_unit"`
	QtyAdded     decimal.Decimal `json:"qty_added"`
	PrevStock    decimal.Decimal `json:"prev_stock"`
	NewStock     decimal.Decimal `json:"new_stock"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	PrevUnitCost decimal.Decimal `json:"prev_unit_cost"`
	NewUnitCost  decimal.Decimal `json:"new_unit_cost"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	SupplierName string          `json:"supplier_name"`
	ReferenceNo  string          `json:"reference_no"`
	Note         string          `json:"note"`
	StockInDate  string          `json:"stock_in_date"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
	CreatedBy    int64           `json:"created_by"`
	UpdatedAt    time.Time       `json:"updated_at"`
	UpdatedBy    *int64          `json:"updated_by,omitempty"`
}

// StockInListQuery parámetros de GET /api/stock-ins.
type StockInListQuery struct {
	ResourceType    string `query:"resource_type" validate:"omitempty,oneof=product material"`
	ResourceID      int64  `query:"resource_id" validate:"omitempty,gt=0"`
	From            string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To              string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	IncludeInactive bool   `query:"include_inactive"`
	PageRequest
}

// AuditTrailQuery parámetros de GET /api/inventory/audit-trail.
type AuditTrailQuery struct {
	ResourceType string `query:"resource_type" validate:"omitempty,oneof=product material"`
	ResourceID   int64  `query:"resource_id" validate:"omitempty,gt=0"`
	Search       string `query:"search" validate:"omitempty,max=100"`
}

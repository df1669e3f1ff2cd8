package entity

import "github.com/shopspring/decimal"

// Menu es un ítem vendible de la carta de una sucursal.
type Menu struct {
	ID       int64
	BranchID int64
	Name     string
	Active   bool
}

// MenuIngredient mapea un menú a un recurso con la cantidad consumida por unidad vendida.
// Resource es nil cuando el recurso referenciado ya no existe.
type MenuIngredient struct {
	MenuID          int64
	ResourceType    ResourceKind
	ResourceID      int64
	QuantityPerUnit decimal.Decimal
	Resource        *Resource
}

// MenuAvailability disponibilidad derivada de un menú según el stock de sus ingredientes.
type MenuAvailability struct {
	MenuID           int64            `json:"menu_id"`
	MenuName         string           `json:"menu_name"`
	Tracked          bool             `json:"tracked"`
	Available        bool             `json:"available"`
	Stock            *decimal.Decimal `json:"stock"`
	LimitingResource *ResourceRef     `json:"limiting_resource,omitempty"`
}

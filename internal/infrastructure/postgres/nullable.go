package postgres

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
)

// nullableResource columnas de un recurso traídas por LEFT JOIN.
type nullableResource struct {
	ID       *int64
	BranchID *int64
	Name     *string
	Unit     *string
	Stock    decimal.NullDecimal
	UnitCost decimal.NullDecimal
	Status   *string
	Active   *bool
}

func (n nullableResource) toResource(kind entity.ResourceKind) *entity.Resource {
	if n.ID == nil {
		return nil
	}
	res := &entity.Resource{Kind: kind, ID: *n.ID}
	if n.BranchID != nil {
		res.BranchID = *n.BranchID
	}
	if n.Name != nil {
		res.Name = *n.Name
	}
	if n.Unit != nil {
		res.Unit = *n.Unit
	}
	if n.Stock.Valid {
		res.Stock = n.Stock.Decimal
	}
	if n.UnitCost.Valid {
		res.UnitCost = n.UnitCost.Decimal
	}
	if n.Status != nil {
		res.Status = *n.Status
	}
	if n.Active != nil {
		res.Active = *n.Active
	}
	return res
}

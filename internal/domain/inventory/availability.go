package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
)

// ComputeMenuAvailability deriva la disponibilidad de cada menú a partir de sus ingredientes.
//   - Menú sin ingredientes: no controlado, siempre disponible (Stock nil).
//   - Algún ingrediente inexistente, inactivo o con cantidad por unidad <= 0: no disponible, Stock 0.
//   - En otro caso Stock = min(stock del recurso / cantidad por unidad) redondeado a 3 decimales.
//     Available se decide sobre el mínimo sin redondear: 0.9997 porciones no alcanzan para un plato.
func ComputeMenuAvailability(menus []entity.Menu, mappings []entity.MenuIngredient) []entity.MenuAvailability {
	byMenu := make(map[int64][]entity.MenuIngredient, len(menus))
	for _, m := range mappings {
		byMenu[m.MenuID] = append(byMenu[m.MenuID], m)
	}

	out := make([]entity.MenuAvailability, 0, len(menus))
	for _, menu := range menus {
		out = append(out, menuAvailability(menu, byMenu[menu.ID]))
	}
	return out
}

func menuAvailability(menu entity.Menu, deps []entity.MenuIngredient) entity.MenuAvailability {
	res := entity.MenuAvailability{MenuID: menu.ID, MenuName: menu.Name}
	if len(deps) == 0 {
		res.Available = true
		return res
	}
	res.Tracked = true

	var (
		minPortions decimal.Decimal
		limiting    entity.ResourceRef
	)
	for i, dep := range deps {
		if !dep.Resource.Usable() || !dep.QuantityPerUnit.IsPositive() {
			zero := decimal.Zero
			res.Stock = &zero
			res.LimitingResource = &entity.ResourceRef{Kind: dep.ResourceType, ID: dep.ResourceID}
			return res
		}
		portions := dep.Resource.Stock.Div(dep.QuantityPerUnit)
		if i == 0 || portions.LessThan(minPortions) {
			minPortions = portions
			limiting = entity.ResourceRef{Kind: dep.ResourceType, ID: dep.ResourceID}
		}
	}

	stock := minPortions.Round(QtyScale)
	res.Stock = &stock
	res.LimitingResource = &limiting
	res.Available = minPortions.GreaterThanOrEqual(decimal.NewFromInt(1))
	return res
}

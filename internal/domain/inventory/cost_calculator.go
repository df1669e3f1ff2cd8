package inventory

import "github.com/shopspring/decimal"

const (
	// CostScale decimales del costo unitario promedio.
	CostScale int32 = 2
	// QtyScale decimales de cantidades de stock.
	QtyScale int32 = 3
)

// reversalTolerance margen con el que el costo actual del recurso se considera igual al
// NewUnitCost guardado en la entrada (nadie más lo ha movido desde entonces).
var reversalTolerance = decimal.RequireFromString("0.011")

// WeightedAverageOnAdd implementa el costo promedio ponderado al ingresar stock (servicio de dominio).
// NuevoCosto = round((StockActual*CostoActual + CantEntrada*CostoEntrada) / (StockActual + CantEntrada), 2)
func WeightedAverageOnAdd(stockNow, costNow, qtyIn, costIn decimal.Decimal) decimal.Decimal {
	next := stockNow.Add(qtyIn)
	if next.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stockNow.Mul(costNow).Add(qtyIn.Mul(costIn))
	return num.Div(next).Round(CostScale)
}

// WeightedAverageOnRemove recalcula el costo promedio al retirar una cantidad valorada a costOut
// (reverso de una entrada). El valor remanente nunca baja de cero.
func WeightedAverageOnRemove(stockNow, costNow, qtyOut, costOut decimal.Decimal) decimal.Decimal {
	next := stockNow.Sub(qtyOut)
	if next.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	value := stockNow.Mul(costNow).Sub(qtyOut.Mul(costOut))
	if value.IsNegative() {
		value = decimal.Zero
	}
	return value.Div(next).Round(CostScale)
}

// ReversalCost costo del recurso tras retractar una entrada.
// Si el costo actual coincide (±0.011) con el NewUnitCost de la entrada, ninguna otra transacción
// ha movido el costo y se restaura PrevUnitCost tal cual; si no, se recalcula desde el estado actual.
func ReversalCost(stockNow, costNow, qty, entryUnitCost, entryPrevCost, entryNewCost decimal.Decimal) decimal.Decimal {
	if costNow.Sub(entryNewCost).Abs().LessThanOrEqual(reversalTolerance) {
		return entryPrevCost
	}
	return WeightedAverageOnRemove(stockNow, costNow, qty, entryUnitCost)
}

// Package expense registra como gasto de la sucursal cada compra asentada en el libro de entradas.
package expense

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Restaurante-api/internal/application/inventory"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
)

var _ inventory.ExpenseSink = (*Ingestion)(nil)

// Ingestion adapta las señales del libro de entradas a gastos automáticos idempotentes.
// Corre con el repositorio atado a la misma transacción del libro.
type Ingestion struct {
	repo repository.ExpenseRepository
	now  func() time.Time
}

// NewIngestion construye el colaborador.
func NewIngestion(repo repository.ExpenseRepository) *Ingestion {
	return &Ingestion{repo: repo, now: time.Now}
}

// Record crea o reemplaza el gasto de la entrada (clave: source_type del recurso + stock_in_id).
func (g *Ingestion) Record(ctx context.Context, e inventory.AutoExpense) error {
	source := entity.ExpenseSourceFor(e.ResourceType)
	if source == "" {
		return fmt.Errorf("gasto automático: tipo de recurso inválido %s", e.ResourceType)
	}
	editor := e.EditorID
	now := g.now()
	return g.repo.UpsertAuto(ctx, &entity.Expense{
		BranchID:    e.BranchID,
		SourceType:  source,
		SourceID:    e.StockInID,
		Amount:      e.TotalCost,
		Description: Description(e.ResourceName, e.QtyAdded.String()),
		ExpenseDate: e.StockInDate,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
		UpdatedBy:   &editor,
	})
}

// Disable desactiva el gasto ligado a la entrada para el tipo de recurso indicado.
func (g *Ingestion) Disable(ctx context.Context, s inventory.DisableSignal) error {
	source := entity.ExpenseSourceFor(s.ResourceType)
	if source == "" {
		return fmt.Errorf("gasto automático: tipo de recurso inválido %s", s.ResourceType)
	}
	return g.repo.DisableAuto(ctx, source, s.StockInID, s.EditorID, g.now())
}

// Description texto del gasto: "Compra de <recurso> (<cantidad>)".
func Description(resourceName, qty string) string {
	if resourceName == "" {
		resourceName = "recurso"
	}
	return fmt.Sprintf("Compra de %s (%s)", resourceName, qty)
}

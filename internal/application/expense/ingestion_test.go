package expense

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Restaurante-api/internal/application/inventory"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
)

type disableCall struct {
	source   string
	sourceID int64
	editorID int64
}

type fakeExpenses struct {
	upserts  []entity.Expense
	disables []disableCall
}

func (f *fakeExpenses) UpsertAuto(_ context.Context, e *entity.Expense) error {
	e.ID = int64(len(f.upserts) + 1)
	f.upserts = append(f.upserts, *e)
	return nil
}

func (f *fakeExpenses) DisableAuto(_ context.Context, sourceType string, sourceID, editorID int64, _ time.Time) error {
	f.disables = append(f.disables, disableCall{sourceType, sourceID, editorID})
	return nil
}

func TestRecord_ClavePorTipoDeRecurso(t *testing.T) {
	repo := &fakeExpenses{}
	g := NewIngestion(repo)
	date := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

	err := g.Record(context.Background(), inventory.AutoExpense{
		StockInID: 15, BranchID: 2, ResourceType: entity.ResourceMaterial, ResourceID: 4,
		ResourceName: "Harina", QtyAdded: decimal.RequireFromString("12.5"),
		TotalCost: decimal.RequireFromString("62.50"), StockInDate: date, EditorID: 8,
	})
	require.NoError(t, err)
	require.Len(t, repo.upserts, 1)

	e := repo.upserts[0]
	assert.Equal(t, entity.ExpenseSourceStockInMaterial, e.SourceType)
	assert.Equal(t, int64(15), e.SourceID)
	assert.Equal(t, "Compra de Harina (12.5)", e.Description)
	assert.True(t, e.Amount.Equal(decimal.RequireFromString("62.5")))
	assert.Equal(t, date, e.ExpenseDate)
	require.NotNil(t, e.UpdatedBy)
	assert.Equal(t, int64(8), *e.UpdatedBy)
}

func TestDisable(t *testing.T) {
	repo := &fakeExpenses{}
	g := NewIngestion(repo)

	require.NoError(t, g.Disable(context.Background(), inventory.DisableSignal{StockInID: 15, ResourceType: entity.ResourceProduct, EditorID: 8}))
	assert.Equal(t, []disableCall{{entity.ExpenseSourceStockInProduct, 15, 8}}, repo.disables)
}

func TestRecord_TipoInvalido(t *testing.T) {
	g := NewIngestion(&fakeExpenses{})
	assert.Error(t, g.Record(context.Background(), inventory.AutoExpense{ResourceType: entity.ResourceKind(0)}))
	assert.Error(t, g.Disable(context.Background(), inventory.DisableSignal{ResourceType: entity.ResourceKind(5)}))
}

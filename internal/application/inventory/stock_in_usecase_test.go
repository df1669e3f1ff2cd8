package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Restaurante-api/internal/domain"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ── fakes en memoria ──────────────────────────────────────────────────────────

type expenseKey struct {
	source string
	id     int64
}

type memState struct {
	resources map[entity.ResourceRef]entity.Resource
	stockIns  map[int64]entity.StockInRecord
	expenses  map[expenseKey]AutoExpense
	disabled  map[expenseKey]bool
	nextID    int64
}

func (s memState) clone() memState {
	c := memState{
		resources: make(map[entity.ResourceRef]entity.Resource, len(s.resources)),
		stockIns:  make(map[int64]entity.StockInRecord, len(s.stockIns)),
		expenses:  make(map[expenseKey]AutoExpense, len(s.expenses)),
		disabled:  make(map[expenseKey]bool, len(s.disabled)),
		nextID:    s.nextID,
	}
	for k, v := range s.resources {
		c.resources[k] = v
	}
	for k, v := range s.stockIns {
		c.stockIns[k] = v
	}
	for k, v := range s.expenses {
		c.expenses[k] = v
	}
	for k, v := range s.disabled {
		c.disabled[k] = v
	}
	return c
}

type memStore struct {
	state   memState
	locks   []entity.ResourceRef
	sinkLog []string
}

func newMemStore(resources ...entity.Resource) *memStore {
	st := &memStore{state: memState{
		resources: map[entity.ResourceRef]entity.Resource{},
		stockIns:  map[int64]entity.StockInRecord{},
		expenses:  map[expenseKey]AutoExpense{},
		disabled:  map[expenseKey]bool{},
	}}
	for _, r := range resources {
		st.state.resources[r.Ref()] = r
	}
	return st
}

func (m *memStore) resource(kind entity.ResourceKind, id int64) entity.Resource {
	return m.state.resources[entity.ResourceRef{Kind: kind, ID: id}]
}

// Run emula una transacción: si fn falla, restaura el estado previo completo.
func (m *memStore) Run(ctx context.Context, fn func(repository.ResourceRepository, repository.StockInRepository, ExpenseSink) error) error {
	snapshot := m.state.clone()
	if err := fn(memResources{m}, memStockIns{m}, memSink{m}); err != nil {
		m.state = snapshot
		return err
	}
	return nil
}

type memResources struct{ m *memStore }

func (r memResources) GetForUpdate(_ context.Context, ref entity.ResourceRef) (*entity.Resource, error) {
	r.m.locks = append(r.m.locks, ref)
	res, ok := r.m.state.resources[ref]
	if !ok {
		return nil, nil
	}
	return &res, nil
}

func (r memResources) UpdateStockAndCost(_ context.Context, ref entity.ResourceRef, stock, unitCost decimal.Decimal, editorID int64, at time.Time) error {
	res, ok := r.m.state.resources[ref]
	if !ok {
		return fmt.Errorf("update %s: sin fila", ref)
	}
	res.Stock, res.UnitCost, res.UpdatedAt, res.UpdatedBy = stock, unitCost, at, &editorID
	r.m.state.resources[ref] = res
	return nil
}

type memStockIns struct{ m *memStore }

func (s memStockIns) GetForUpdate(ctx context.Context, id int64) (*entity.StockInRecord, error) {
	return s.GetByID(ctx, id)
}

func (s memStockIns) GetByID(_ context.Context, id int64) (*entity.StockInRecord, error) {
	rec, ok := s.m.state.stockIns[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s memStockIns) Create(_ context.Context, rec *entity.StockInRecord) error {
	s.m.state.nextID++
	rec.ID = s.m.state.nextID
	s.m.state.stockIns[rec.ID] = *rec
	return nil
}

func (s memStockIns) Update(_ context.Context, rec *entity.StockInRecord) error {
	s.m.state.stockIns[rec.ID] = *rec
	return nil
}

func (s memStockIns) SoftDelete(_ context.Context, id, editorID int64, at time.Time) error {
	rec := s.m.state.stockIns[id]
	rec.Active, rec.UpdatedAt, rec.UpdatedBy = false, at, &editorID
	s.m.state.stockIns[id] = rec
	return nil
}

func (s memStockIns) List(_ context.Context, f repository.StockInFilter) ([]*entity.StockInRecord, error) {
	var out []*entity.StockInRecord
	for _, rec := range s.m.state.stockIns {
		if rec.BranchID != f.BranchID || (!f.IncludeInactive && !rec.Active) {
			continue
		}
		rec := rec
		out = append(out, &rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

type memSink struct{ m *memStore }

func (s memSink) Record(_ context.Context, e AutoExpense) error {
	key := expenseKey{entity.ExpenseSourceFor(e.ResourceType), e.StockInID}
	s.m.state.expenses[key] = e
	delete(s.m.state.disabled, key)
	s.m.sinkLog = append(s.m.sinkLog, fmt.Sprintf("record %s:%d", key.source, key.id))
	return nil
}

func (s memSink) Disable(_ context.Context, sig DisableSignal) error {
	key := expenseKey{entity.ExpenseSourceFor(sig.ResourceType), sig.StockInID}
	s.m.state.disabled[key] = true
	s.m.sinkLog = append(s.m.sinkLog, fmt.Sprintf("disable %s:%d", key.source, key.id))
	return nil
}

type countingCache struct{ invalidations int }

func (c *countingCache) Generation(context.Context, int64) (int64, error) { return 0, nil }
func (c *countingCache) Get(context.Context, int64, int64) ([]entity.MenuAvailability, bool, error) {
	return nil, false, nil
}
func (c *countingCache) Set(context.Context, int64, int64, []entity.MenuAvailability) error { return nil }
func (c *countingCache) Invalidate(context.Context, int64) error {
	c.invalidations++
	return nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

var (
	testNow = time.Date(2024, 3, 10, 4, 30, 0, 0, time.UTC) // 2024-03-09 23:30 en Bogotá
	bogota  = time.FixedZone("COT", -5*3600)
	rcMain  = RequestContext{BranchID: 1, UserID: 42, Location: bogota}
)

func material(id int64, stock, cost string) entity.Resource {
	return entity.Resource{
		Kind: entity.ResourceMaterial, ID: id, BranchID: 1, Name: fmt.Sprintf("Material %d", id), Unit: "kg",
		Stock: d(stock), UnitCost: d(cost), Status: entity.ResourceStatusActive, Active: true,
	}
}

func product(id int64, stock, price string) entity.Resource {
	r := material(id, stock, price)
	r.Kind, r.Name, r.Unit = entity.ResourceProduct, fmt.Sprintf("Producto %d", id), "und"
	return r
}

func newTestUseCase(store *memStore) (*StockInUseCase, *countingCache) {
	cache := &countingCache{}
	uc := NewStockInUseCase(store, memStockIns{store}, cache, zerolog.Nop())
	uc.now = func() time.Time { return testNow }
	return uc, cache
}

func input(kind entity.ResourceKind, id int64, qty, cost string) StockInInput {
	return StockInInput{ResourceType: kind, ResourceID: id, QtyAdded: d(qty), UnitCost: d(cost)}
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, got.Equal(d(want)), "%s: se esperaba %s, se obtuvo %s", msg, want, got)
}

// ── tests ─────────────────────────────────────────────────────────────────────

func TestStockIn_CrearCrearRetractar(t *testing.T) {
	store := newMemStore(material(7, "0", "0"))
	uc, cache := newTestUseCase(store)
	ctx := context.Background()

	first, err := uc.Create(ctx, rcMain, input(entity.ResourceMaterial, 7, "10", "5"))
	require.NoError(t, err)
	assertDec(t, "10", store.resource(entity.ResourceMaterial, 7).Stock, "stock tras primera")
	assertDec(t, "5", store.resource(entity.ResourceMaterial, 7).UnitCost, "costo tras primera")
	assertDec(t, "50.00", first.TotalCost, "total primera")

	second, err := uc.Create(ctx, rcMain, input(entity.ResourceMaterial, 7, "10", "7"))
	require.NoError(t, err)
	assertDec(t, "20", second.NewStock, "new_stock")
	assertDec(t, "6.00", second.NewUnitCost, "new_unit_cost")
	assertDec(t, "5", second.PrevUnitCost, "prev_unit_cost")

	require.NoError(t, uc.Delete(ctx, rcMain, second.ID))
	res := store.resource(entity.ResourceMaterial, 7)
	assertDec(t, "10", res.Stock, "stock tras retractar")
	assertDec(t, "5.00", res.UnitCost, "costo tras retractar")

	assert.False(t, store.state.stockIns[second.ID].Active)
	assert.True(t, store.state.stockIns[first.ID].Active)
	assert.True(t, store.state.disabled[expenseKey{entity.ExpenseSourceStockInMaterial, second.ID}])
	assert.Equal(t, 3, cache.invalidations)
}

func TestStockIn_CreateUsaFechaLocalDeLaSucursal(t *testing.T) {
	store := newMemStore(material(7, "0", "0"))
	uc, _ := newTestUseCase(store)

	rec, err := uc.Create(context.Background(), rcMain, input(entity.ResourceMaterial, 7, "1", "1"))
	require.NoError(t, err)
	assert.Equal(t, "2024-03-09", rec.StockInDate.Format(time.DateOnly))
	exp := store.state.expenses[expenseKey{entity.ExpenseSourceStockInMaterial, rec.ID}]
	assertDec(t, "1.00", exp.TotalCost, "monto del gasto")
	assert.Equal(t, "Material 7", exp.ResourceName)
}

func TestStockIn_RetractarRestauraEstadoPrevio(t *testing.T) {
	cases := []struct{ stock, cost, qty, unit string }{
		{"3.5", "2.10", "1.25", "4.40"},
		{"0", "0", "2", "9.99"},
		{"100", "1.00", "0.001", "0"},
	}
	for _, c := range cases {
		store := newMemStore(material(1, c.stock, c.cost))
		uc, _ := newTestUseCase(store)
		ctx := context.Background()

		rec, err := uc.Create(ctx, rcMain, input(entity.ResourceMaterial, 1, c.qty, c.unit))
		require.NoError(t, err)
		require.NoError(t, uc.Delete(ctx, rcMain, rec.ID))

		res := store.resource(entity.ResourceMaterial, 1)
		assertDec(t, c.stock, res.Stock, "stock "+c.stock)
		assertDec(t, c.cost, res.UnitCost, "costo "+c.cost)
	}
}

func TestStockIn_RetractarEntradaConsumidaEsConflicto(t *testing.T) {
	store := newMemStore(material(7, "0", "0"))
	uc, _ := newTestUseCase(store)
	ctx := context.Background()

	rec, err := uc.Create(ctx, rcMain, input(entity.ResourceMaterial, 7, "10", "5"))
	require.NoError(t, err)

	// un pedido consume 6 unidades fuera del libro de entradas
	res := store.state.resources[rec.Resource()]
	res.Stock = d("4")
	store.state.resources[rec.Resource()] = res

	err = uc.Delete(ctx, rcMain, rec.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))

	assertDec(t, "4", store.resource(entity.ResourceMaterial, 7).Stock, "stock sin cambios")
	assert.True(t, store.state.stockIns[rec.ID].Active)
	assert.False(t, store.state.disabled[expenseKey{entity.ExpenseSourceStockInMaterial, rec.ID}])
}

func TestStockIn_EditarMismoRecurso(t *testing.T) {
	store := newMemStore(material(7, "0", "0"))
	uc, _ := newTestUseCase(store)
	ctx := context.Background()

	rec, err := uc.Create(ctx, rcMain, input(entity.ResourceMaterial, 7, "10", "5"))
	require.NoError(t, err)

	in := input(entity.ResourceMaterial, 7, "4", "8")
	in.SupplierName = "  Distribuidora Andina "
	updated, err := uc.Update(ctx, rcMain, rec.ID, in)
	require.NoError(t, err)

	assert.Equal(t, rec.ID, updated.ID)
	assertDec(t, "0", updated.PrevStock, "prev_stock intermedio")
	assertDec(t, "4", updated.NewStock, "new_stock")
	assertDec(t, "8", updated.NewUnitCost, "new_unit_cost")
	assertDec(t, "32.00", updated.TotalCost, "total")
	assert.Equal(t, "Distribuidora Andina", updated.SupplierName)
	assert.Equal(t, rec.StockInDate, updated.StockInDate, "sin fecha se conserva la guardada")
	require.NotNil(t, updated.UpdatedBy)
	assert.Equal(t, int64(42), *updated.UpdatedBy)

	res := store.resource(entity.ResourceMaterial, 7)
	assertDec(t, "4", res.Stock, "stock")
	assertDec(t, "8", res.UnitCost, "costo")
	assertDec(t, "32.00", store.state.expenses[expenseKey{entity.ExpenseSourceStockInMaterial, rec.ID}].TotalCost, "gasto reemplazado")
}

func TestStockIn_EditarCambiandoRecurso(t *testing.T) {
	store := newMemStore(material(7, "5", "2.00"), product(1, "0", "0"))
	uc, _ := newTestUseCase(store)
	ctx := context.Background()

	rec, err := uc.Create(ctx, rcMain, input(entity.ResourceMaterial, 7, "5", "4"))
	require.NoError(t, err)
	store.locks, store.sinkLog = nil, nil

	updated, err := uc.Update(ctx, rcMain, rec.ID, input(entity.ResourceProduct, 1, "3", "4"))
	require.NoError(t, err)

	// recurso anterior: vuelve exactamente a su estado previo
	mat := store.resource(entity.ResourceMaterial, 7)
	assertDec(t, "5", mat.Stock, "stock material")
	assertDec(t, "2.00", mat.UnitCost, "costo material")

	// recurso nuevo: recibe la entrada como alta
	prod := store.resource(entity.ResourceProduct, 1)
	assertDec(t, "3", prod.Stock, "stock producto")
	assertDec(t, "4", prod.UnitCost, "costo producto")

	assert.Equal(t, entity.ResourceProduct, updated.ResourceType)
	assert.Equal(t, "Producto 1", updated.ResourceName)
	assertDec(t, "0", updated.PrevStock, "prev_stock")

	assert.Equal(t, []entity.ResourceRef{
		{Kind: entity.ResourceProduct, ID: 1},
		{Kind: entity.ResourceMaterial, ID: 7},
	}, store.locks, "orden de bloqueo (tipo, id)")
	assert.Equal(t, []string{
		fmt.Sprintf("disable stock_in_material:%d", rec.ID),
		fmt.Sprintf("record stock_in_product:%d", rec.ID),
	}, store.sinkLog)
}

func TestStockIn_EditarCambioConsumidoEsConflicto(t *testing.T) {
	store := newMemStore(material(7, "0", "0"), product(1, "0", "0"))
	uc, _ := newTestUseCase(store)
	ctx := context.Background()

	rec, err := uc.Create(ctx, rcMain, input(entity.ResourceMaterial, 7, "5", "2"))
	require.NoError(t, err)
	res := store.state.resources[rec.Resource()]
	res.Stock = d("1")
	store.state.resources[rec.Resource()] = res

	_, err = uc.Update(ctx, rcMain, rec.ID, input(entity.ResourceProduct, 1, "3", "4"))
	assert.True(t, errors.Is(err, domain.ErrConflict))
	assertDec(t, "0", store.resource(entity.ResourceProduct, 1).Stock, "producto intacto")
	assert.Equal(t, entity.ResourceMaterial, store.state.stockIns[rec.ID].ResourceType)
}

func TestStockIn_OtraSucursal(t *testing.T) {
	store := newMemStore(material(7, "0", "0"))
	uc, _ := newTestUseCase(store)
	ctx := context.Background()

	rec, err := uc.Create(ctx, rcMain, input(entity.ResourceMaterial, 7, "10", "5"))
	require.NoError(t, err)

	other := RequestContext{BranchID: 2, UserID: 9}
	_, err = uc.Update(ctx, other, rec.ID, input(entity.ResourceMaterial, 7, "1", "1"))
	assert.True(t, errors.Is(err, domain.ErrBranchMismatch))
	assert.True(t, errors.Is(uc.Delete(ctx, other, rec.ID), domain.ErrBranchMismatch))
	_, err = uc.Create(ctx, other, input(entity.ResourceMaterial, 7, "1", "1"))
	assert.True(t, errors.Is(err, domain.ErrBranchMismatch))
	_, err = uc.Get(ctx, other, rec.ID)
	assert.True(t, errors.Is(err, domain.ErrBranchMismatch))

	assertDec(t, "10", store.resource(entity.ResourceMaterial, 7).Stock, "stock sin cambios")
}

func TestStockIn_Validacion(t *testing.T) {
	store := newMemStore(material(7, "0", "0"))
	uc, _ := newTestUseCase(store)
	ctx := context.Background()

	invalid := []StockInInput{
		input(entity.ResourceMaterial, 7, "0", "5"),
		input(entity.ResourceMaterial, 7, "0.0004", "5"), // se redondea a cero
		input(entity.ResourceMaterial, 7, "-1", "5"),
		input(entity.ResourceMaterial, 7, "1", "-0.01"),
		input(entity.ResourceMaterial, 0, "1", "1"),
		input(entity.ResourceKind(9), 7, "1", "1"),
	}
	for _, in := range invalid {
		_, err := uc.Create(ctx, rcMain, in)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "entrada %+v", in)
	}
	assert.Empty(t, store.state.stockIns)
	assertDec(t, "0", store.resource(entity.ResourceMaterial, 7).Stock, "stock sin cambios")
}

func TestStockIn_NoEncontrado(t *testing.T) {
	inactive := material(8, "0", "0")
	inactive.Active = false
	store := newMemStore(material(7, "0", "0"), inactive)
	uc, _ := newTestUseCase(store)
	ctx := context.Background()

	assert.True(t, errors.Is(uc.Delete(ctx, rcMain, 999), domain.ErrNotFound))
	_, err := uc.Create(ctx, rcMain, input(entity.ResourceMaterial, 8, "1", "1"))
	assert.True(t, errors.Is(err, domain.ErrNotFound), "recurso inactivo")
	_, err = uc.Create(ctx, rcMain, input(entity.ResourceProduct, 7, "1", "1"))
	assert.True(t, errors.Is(err, domain.ErrNotFound), "recurso inexistente")

	rec, err := uc.Create(ctx, rcMain, input(entity.ResourceMaterial, 7, "1", "1"))
	require.NoError(t, err)
	require.NoError(t, uc.Delete(ctx, rcMain, rec.ID))
	assert.True(t, errors.Is(uc.Delete(ctx, rcMain, rec.ID), domain.ErrNotFound), "ya retractada")
	_, err = uc.Update(ctx, rcMain, rec.ID, input(entity.ResourceMaterial, 7, "1", "1"))
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestStockIn_EstadoInactivoNoRecibeStock(t *testing.T) {
	marked := material(8, "3", "2")
	marked.Status = entity.ResourceStatusInactive
	store := newMemStore(marked)
	uc, cache := newTestUseCase(store)

	_, err := uc.Create(context.Background(), rcMain, input(entity.ResourceMaterial, 8, "1", "1"))
	assert.True(t, errors.Is(err, domain.ErrNotFound), "estado Inactive aunque active=true")
	assertDec(t, "3", store.resource(entity.ResourceMaterial, 8).Stock, "stock sin cambios")
	assert.Empty(t, store.state.stockIns)
	assert.Zero(t, cache.invalidations)
}

func TestStockIn_CostoUnitarioSeRedondeaADosDecimales(t *testing.T) {
	store := newMemStore(material(7, "0", "0"))
	uc, _ := newTestUseCase(store)

	rec, err := uc.Create(context.Background(), rcMain, input(entity.ResourceMaterial, 7, "10", "5.005"))
	require.NoError(t, err)
	assertDec(t, "5.01", rec.UnitCost, "costo unitario del registro")
	assertDec(t, "50.10", rec.TotalCost, "total del registro")
	assertDec(t, "5.01", store.resource(entity.ResourceMaterial, 7).UnitCost, "costo promedio")
	exp := store.state.expenses[expenseKey{entity.ExpenseSourceStockInMaterial, rec.ID}]
	assertDec(t, "5.01", exp.UnitCost, "costo unitario del gasto")
	assertDec(t, "50.10", exp.TotalCost, "monto del gasto")
}

func TestStockIn_ListForzaSucursal(t *testing.T) {
	store := newMemStore(material(7, "0", "0"))
	uc, _ := newTestUseCase(store)
	ctx := context.Background()

	_, err := uc.Create(ctx, rcMain, input(entity.ResourceMaterial, 7, "1", "1"))
	require.NoError(t, err)

	got, err := uc.List(ctx, rcMain, repository.StockInFilter{BranchID: 99})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

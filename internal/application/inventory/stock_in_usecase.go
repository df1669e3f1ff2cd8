package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Restaurante-api/internal/domain"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/inventory"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
)

// StockInUseCase administra el libro de entradas de stock: crea, edita y retracta entradas
// manteniendo stock y costo promedio ponderado del recurso. Cada operación corre en una sola
// transacción con bloqueo de fila (SELECT FOR UPDATE) sobre la entrada y los recursos tocados.
type StockInUseCase struct {
	txRunner    TxRunner
	stockInRepo repository.StockInRepository
	cache       AvailabilityCache
	log         zerolog.Logger
	now         func() time.Time
}

// NewStockInUseCase construye el caso de uso. cache puede ser nil.
func NewStockInUseCase(
	txRunner TxRunner,
	stockInRepo repository.StockInRepository,
	cache AvailabilityCache,
	log zerolog.Logger,
) *StockInUseCase {
	return &StockInUseCase{
		txRunner:    txRunner,
		stockInRepo: stockInRepo,
		cache:       cache,
		log:         log.With().Str("component", "stock_in").Logger(),
		now:         time.Now,
	}
}

// StockInInput datos de una entrada (alta o edición).
// En edición, StockInDate nil conserva la fecha guardada; en alta, toma la fecha local de hoy.
type StockInInput struct {
	ResourceType entity.ResourceKind
	ResourceID   int64
	QtyAdded     decimal.Decimal
	UnitCost     decimal.Decimal
	SupplierName string
	ReferenceNo  string
	Note         string
	StockInDate  *time.Time
}

func (in *StockInInput) normalize() error {
	if !in.ResourceType.Valid() {
		return fmt.Errorf("%w: resource_type debe ser product o material", domain.ErrInvalidInput)
	}
	if in.ResourceID <= 0 {
		return fmt.Errorf("%w: resource_id debe ser un entero positivo", domain.ErrInvalidInput)
	}
	in.QtyAdded = in.QtyAdded.Round(inventory.QtyScale)
	if !in.QtyAdded.IsPositive() {
		return fmt.Errorf("%w: qty_added debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if in.UnitCost.IsNegative() {
		return fmt.Errorf("%w: unit_cost no puede ser negativo", domain.ErrInvalidInput)
	}
	in.UnitCost = in.UnitCost.Round(inventory.CostScale)
	in.SupplierName = strings.TrimSpace(in.SupplierName)
	in.ReferenceNo = strings.TrimSpace(in.ReferenceNo)
	in.Note = strings.TrimSpace(in.Note)
	return nil
}

func (in *StockInInput) ref() entity.ResourceRef {
	return entity.ResourceRef{Kind: in.ResourceType, ID: in.ResourceID}
}

// Create registra una entrada: bloquea el recurso, suma la cantidad, recalcula el costo promedio,
// inserta la fila del libro y emite el gasto automático.
func (uc *StockInUseCase) Create(ctx context.Context, rc RequestContext, in StockInInput) (*entity.StockInRecord, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	now := uc.now()
	date := rc.Today(now)
	if in.StockInDate != nil {
		date = dateOnly(*in.StockInDate)
	}

	var record *entity.StockInRecord
	err := uc.txRunner.Run(ctx, func(
		resourceRepo repository.ResourceRepository,
		stockInRepo repository.StockInRepository,
		expenses ExpenseSink,
	) error {
		res, err := lockResource(ctx, resourceRepo, in.ref(), true)
		if err != nil {
			return err
		}
		if err := requireBranch(res, rc.BranchID); err != nil {
			return err
		}

		newStock := res.Stock.Add(in.QtyAdded)
		newCost := inventory.WeightedAverageOnAdd(res.Stock, res.UnitCost, in.QtyAdded, in.UnitCost)
		if err := resourceRepo.UpdateStockAndCost(ctx, res.Ref(), newStock, newCost, rc.UserID, now); err != nil {
			return err
		}

		record = &entity.StockInRecord{
			BranchID:     rc.BranchID,
			ResourceType: in.ResourceType,
			ResourceID:   in.ResourceID,
			ResourceName: res.Name,
			ResourceUnit: res.Unit,
			QtyAdded:     in.QtyAdded,
			PrevStock:    res.Stock,
			NewStock:     newStock,
			UnitCost:     in.UnitCost,
			PrevUnitCost: res.UnitCost,
			NewUnitCost:  newCost,
			TotalCost:    entity.StockInTotal(in.QtyAdded, in.UnitCost),
			SupplierName: in.SupplierName,
			ReferenceNo:  in.ReferenceNo,
			Note:         in.Note,
			StockInDate:  date,
			Active:       true,
			CreatedAt:    now,
			CreatedBy:    rc.UserID,
			UpdatedAt:    now,
		}
		if err := stockInRepo.Create(ctx, record); err != nil {
			return err
		}
		return expenses.Record(ctx, autoExpense(record, rc.UserID))
	})
	if err != nil {
		uc.logRejected(err, "create", 0, rc)
		return nil, err
	}

	uc.logCommitted("create", record)
	uc.invalidate(ctx, rc.BranchID)
	return record, nil
}

// Update edita una entrada en sitio. Si cambia el recurso, revierte por completo el aporte sobre
// el recurso anterior antes de aplicarlo al nuevo; los dos recursos se bloquean en orden (tipo, id).
func (uc *StockInUseCase) Update(ctx context.Context, rc RequestContext, stockInID int64, in StockInInput) (*entity.StockInRecord, error) {
	now := uc.now()

	var record *entity.StockInRecord
	err := uc.txRunner.Run(ctx, func(
		resourceRepo repository.ResourceRepository,
		stockInRepo repository.StockInRepository,
		expenses ExpenseSink,
	) error {
		rec, err := lockStockIn(ctx, stockInRepo, stockInID, rc.BranchID)
		if err != nil {
			return err
		}
		if err := in.normalize(); err != nil {
			return err
		}

		oldRef, newRef := rec.Resource(), in.ref()
		if oldRef == newRef {
			err = uc.applySameResource(ctx, resourceRepo, rc, rec, in, now)
		} else {
			err = uc.applyResourceSwitch(ctx, resourceRepo, expenses, rc, rec, in, now)
		}
		if err != nil {
			return err
		}

		rec.QtyAdded = in.QtyAdded
		rec.UnitCost = in.UnitCost
		rec.TotalCost = entity.StockInTotal(in.QtyAdded, in.UnitCost)
		rec.SupplierName = in.SupplierName
		rec.ReferenceNo = in.ReferenceNo
		rec.Note = in.Note
		if in.StockInDate != nil {
			rec.StockInDate = dateOnly(*in.StockInDate)
		}
		editor := rc.UserID
		rec.UpdatedAt = now
		rec.UpdatedBy = &editor

		if err := stockInRepo.Update(ctx, rec); err != nil {
			return err
		}
		record = rec
		return expenses.Record(ctx, autoExpense(rec, rc.UserID))
	})
	if err != nil {
		uc.logRejected(err, "update", stockInID, rc)
		return nil, err
	}

	uc.logCommitted("update", record)
	uc.invalidate(ctx, rc.BranchID)
	return record, nil
}

// applySameResource quita el aporte anterior y aplica el nuevo sobre el mismo recurso.
// PrevStock/PrevUnitCost quedan como el estado intermedio tras quitar el aporte anterior.
func (uc *StockInUseCase) applySameResource(
	ctx context.Context,
	resourceRepo repository.ResourceRepository,
	rc RequestContext,
	rec *entity.StockInRecord,
	in StockInInput,
	now time.Time,
) error {
	res, err := lockResource(ctx, resourceRepo, rec.Resource(), true)
	if err != nil {
		return err
	}
	if err := requireBranch(res, rec.BranchID); err != nil {
		return err
	}

	baseStock, baseCost, err := removeContribution(res, rec)
	if err != nil {
		return err
	}
	finalStock := baseStock.Add(in.QtyAdded)
	finalCost := inventory.WeightedAverageOnAdd(baseStock, baseCost, in.QtyAdded, in.UnitCost)
	if err := resourceRepo.UpdateStockAndCost(ctx, res.Ref(), finalStock, finalCost, rc.UserID, now); err != nil {
		return err
	}

	rec.PrevStock, rec.PrevUnitCost = baseStock, baseCost
	rec.NewStock, rec.NewUnitCost = finalStock, finalCost
	rec.ResourceName, rec.ResourceUnit = res.Name, res.Unit
	return nil
}

// applyResourceSwitch revierte el aporte sobre el recurso anterior y lo aplica como alta nueva
// sobre el recurso destino. Antes de emitir el gasto nuevo, desactiva el del recurso anterior.
func (uc *StockInUseCase) applyResourceSwitch(
	ctx context.Context,
	resourceRepo repository.ResourceRepository,
	expenses ExpenseSink,
	rc RequestContext,
	rec *entity.StockInRecord,
	in StockInInput,
	now time.Time,
) error {
	oldRef, newRef := rec.Resource(), in.ref()
	locked, err := lockInOrder(ctx, resourceRepo, map[entity.ResourceRef]bool{
		oldRef: false, // el recurso anterior puede estar inactivo: igual hay que revertirlo
		newRef: true,
	})
	if err != nil {
		return err
	}
	oldRes, newRes := locked[oldRef], locked[newRef]
	if err := requireBranch(oldRes, rec.BranchID); err != nil {
		return err
	}
	if err := requireBranch(newRes, rec.BranchID); err != nil {
		return err
	}

	oldStock, oldCost, err := removeContribution(oldRes, rec)
	if err != nil {
		return err
	}
	if err := resourceRepo.UpdateStockAndCost(ctx, oldRef, oldStock, oldCost, rc.UserID, now); err != nil {
		return err
	}

	newStock := newRes.Stock.Add(in.QtyAdded)
	newCost := inventory.WeightedAverageOnAdd(newRes.Stock, newRes.UnitCost, in.QtyAdded, in.UnitCost)
	if err := resourceRepo.UpdateStockAndCost(ctx, newRef, newStock, newCost, rc.UserID, now); err != nil {
		return err
	}

	if err := expenses.Disable(ctx, DisableSignal{StockInID: rec.ID, ResourceType: rec.ResourceType, EditorID: rc.UserID}); err != nil {
		return err
	}

	rec.ResourceType, rec.ResourceID = in.ResourceType, in.ResourceID
	rec.ResourceName, rec.ResourceUnit = newRes.Name, newRes.Unit
	rec.PrevStock, rec.PrevUnitCost = newRes.Stock, newRes.UnitCost
	rec.NewStock, rec.NewUnitCost = newStock, newCost
	return nil
}

// Delete retracta una entrada: resta su cantidad del recurso, restaura el costo y la marca inactiva.
func (uc *StockInUseCase) Delete(ctx context.Context, rc RequestContext, stockInID int64) error {
	now := uc.now()

	var record *entity.StockInRecord
	err := uc.txRunner.Run(ctx, func(
		resourceRepo repository.ResourceRepository,
		stockInRepo repository.StockInRepository,
		expenses ExpenseSink,
	) error {
		rec, err := lockStockIn(ctx, stockInRepo, stockInID, rc.BranchID)
		if err != nil {
			return err
		}
		res, err := lockResource(ctx, resourceRepo, rec.Resource(), false)
		if err != nil {
			return err
		}
		if err := requireBranch(res, rec.BranchID); err != nil {
			return err
		}

		reversedStock := res.Stock.Sub(rec.QtyAdded)
		if reversedStock.IsNegative() {
			return consumedConflict(res, rec)
		}
		reversedCost := inventory.ReversalCost(res.Stock, res.UnitCost, rec.QtyAdded, rec.UnitCost, rec.PrevUnitCost, rec.NewUnitCost)
		if err := resourceRepo.UpdateStockAndCost(ctx, res.Ref(), reversedStock, reversedCost, rc.UserID, now); err != nil {
			return err
		}
		if err := stockInRepo.SoftDelete(ctx, rec.ID, rc.UserID, now); err != nil {
			return err
		}
		rec.Active = false
		record = rec
		return expenses.Disable(ctx, DisableSignal{StockInID: rec.ID, ResourceType: rec.ResourceType, EditorID: rc.UserID})
	})
	if err != nil {
		uc.logRejected(err, "delete", stockInID, rc)
		return err
	}

	uc.logCommitted("delete", record)
	uc.invalidate(ctx, rc.BranchID)
	return nil
}

// Get devuelve una entrada de la sucursal (activa o retractada).
func (uc *StockInUseCase) Get(ctx context.Context, rc RequestContext, stockInID int64) (*entity.StockInRecord, error) {
	rec, err := uc.stockInRepo.GetByID(ctx, stockInID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: entrada %d", domain.ErrNotFound, stockInID)
	}
	if rec.BranchID != rc.BranchID {
		return nil, fmt.Errorf("%w: entrada %d", domain.ErrBranchMismatch, stockInID)
	}
	return rec, nil
}

// List lista las entradas de la sucursal del solicitante.
func (uc *StockInUseCase) List(ctx context.Context, rc RequestContext, f repository.StockInFilter) ([]*entity.StockInRecord, error) {
	f.BranchID = rc.BranchID
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return uc.stockInRepo.List(ctx, f)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func lockStockIn(ctx context.Context, repo repository.StockInRepository, id, branchID int64) (*entity.StockInRecord, error) {
	rec, err := repo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil || !rec.Active {
		return nil, fmt.Errorf("%w: entrada %d", domain.ErrNotFound, id)
	}
	if rec.BranchID != branchID {
		return nil, fmt.Errorf("%w: entrada %d", domain.ErrBranchMismatch, id)
	}
	return rec, nil
}

// lockResource bloquea el recurso. requireActive exige que sea utilizable: activo y con estado
// distinto de Inactive (rutas que suman stock).
func lockResource(ctx context.Context, repo repository.ResourceRepository, ref entity.ResourceRef, requireActive bool) (*entity.Resource, error) {
	res, err := repo.GetForUpdate(ctx, ref)
	if err != nil {
		return nil, err
	}
	if res == nil || (requireActive && !res.Usable()) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, ref)
	}
	return res, nil
}

// lockInOrder bloquea varios recursos en orden ascendente (tipo, id) para evitar interbloqueos
// entre dos ediciones concurrentes que se cruzan de recurso.
func lockInOrder(ctx context.Context, repo repository.ResourceRepository, refs map[entity.ResourceRef]bool) (map[entity.ResourceRef]*entity.Resource, error) {
	ordered := make([]entity.ResourceRef, 0, len(refs))
	for ref := range refs {
		ordered = append(ordered, ref)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Less(ordered[j]) })

	out := make(map[entity.ResourceRef]*entity.Resource, len(ordered))
	for _, ref := range ordered {
		res, err := lockResource(ctx, repo, ref, refs[ref])
		if err != nil {
			return nil, err
		}
		out[ref] = res
	}
	return out, nil
}

func requireBranch(res *entity.Resource, branchID int64) error {
	if res.BranchID != branchID {
		return fmt.Errorf("%w: %s", domain.ErrBranchMismatch, res.Ref())
	}
	return nil
}

// removeContribution calcula stock y costo del recurso sin el aporte vigente de rec.
func removeContribution(res *entity.Resource, rec *entity.StockInRecord) (decimal.Decimal, decimal.Decimal, error) {
	stock := res.Stock.Sub(rec.QtyAdded)
	if stock.IsNegative() {
		return decimal.Zero, decimal.Zero, consumedConflict(res, rec)
	}
	cost := inventory.WeightedAverageOnRemove(res.Stock, res.UnitCost, rec.QtyAdded, rec.UnitCost)
	return stock, cost, nil
}

func consumedConflict(res *entity.Resource, rec *entity.StockInRecord) error {
	return fmt.Errorf("%w: la entrada %d ya fue consumida (stock actual %s, cantidad %s)",
		domain.ErrConflict, rec.ID, res.Stock.String(), rec.QtyAdded.String())
}

func autoExpense(rec *entity.StockInRecord, editorID int64) AutoExpense {
	return AutoExpense{
		StockInID:    rec.ID,
		BranchID:     rec.BranchID,
		ResourceType: rec.ResourceType,
		ResourceID:   rec.ResourceID,
		ResourceName: rec.ResourceName,
		QtyAdded:     rec.QtyAdded,
		UnitCost:     rec.UnitCost,
		TotalCost:    rec.TotalCost,
		StockInDate:  rec.StockInDate,
		EditorID:     editorID,
	}
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (uc *StockInUseCase) invalidate(ctx context.Context, branchID int64) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx, branchID); err != nil {
		uc.log.Warn().Err(err).Int64("branch_id", branchID).Msg("invalidar caché de disponibilidad")
	}
}

func (uc *StockInUseCase) logCommitted(op string, rec *entity.StockInRecord) {
	uc.log.Info().
		Str("op", op).
		Int64("stock_in_id", rec.ID).
		Int64("branch_id", rec.BranchID).
		Stringer("resource", rec.Resource()).
		Str("qty", rec.QtyAdded.String()).
		Str("new_stock", rec.NewStock.String()).
		Str("new_cost", rec.NewUnitCost.String()).
		Msg("entrada de stock confirmada")
}

func (uc *StockInUseCase) logRejected(err error, op string, stockInID int64, rc RequestContext) {
	ev := uc.log.Error()
	if isBusinessError(err) {
		ev = uc.log.Warn()
	}
	ev.Err(err).
		Str("op", op).
		Int64("stock_in_id", stockInID).
		Int64("branch_id", rc.BranchID).
		Int64("user_id", rc.UserID).
		Msg("entrada de stock rechazada")
}

package inventory

import (
	"sort"
	"time"

	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/pkg/textsearch"
)

// AuditTrailLimit máximo de eventos devueltos por el historial.
const AuditTrailLimit = 1000

// AuditFilter filtros opcionales del historial; todos se combinan con AND.
type AuditFilter struct {
	BranchID     *int64
	ResourceType *entity.ResourceKind
	ResourceID   *int64
	Search       string // nombre del recurso, proveedor o referencia
}

// MovementEntry salida de stock con los datos del recurso resueltos (sucursal, nombre, unidad).
type MovementEntry struct {
	Movement     entity.StockMovement
	BranchID     int64
	ResourceName string
	ResourceUnit string
}

// ReconcileAuditTrail une entradas y salidas en un solo historial normalizado, aplica los filtros,
// ordena por timestamp descendente (desempate: id descendente, stock_in antes que stock_out)
// y corta en AuditTrailLimit. No modifica nada.
func ReconcileAuditTrail(stockIns []entity.StockInRecord, movements []MovementEntry, f AuditFilter, loc *time.Location) []entity.AuditEvent {
	if loc == nil {
		loc = time.UTC
	}
	search := textsearch.NewMatcher(f.Search)

	events := make([]entity.AuditEvent, 0, len(stockIns)+len(movements))
	for i := range stockIns {
		s := &stockIns[i]
		if !f.matches(s.BranchID, s.ResourceType, s.ResourceID) {
			continue
		}
		if !search.Match(s.ResourceName, s.SupplierName, s.ReferenceNo) {
			continue
		}
		events = append(events, stockInEvent(s))
	}
	for i := range movements {
		m := &movements[i]
		if !f.matches(m.BranchID, m.Movement.ResourceType, m.Movement.ResourceID) {
			continue
		}
		// las salidas no tienen proveedor ni referencia: solo compiten por nombre de recurso
		if !search.Match(m.ResourceName) {
			continue
		}
		events = append(events, stockOutEvent(m, loc))
	}

	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !a.EventTimestamp.Equal(b.EventTimestamp) {
			return a.EventTimestamp.After(b.EventTimestamp)
		}
		if a.EventID != b.EventID {
			return a.EventID > b.EventID
		}
		return a.EventType < b.EventType
	})

	if len(events) > AuditTrailLimit {
		events = events[:AuditTrailLimit]
	}
	return events
}

func (f AuditFilter) matches(branchID int64, kind entity.ResourceKind, resourceID int64) bool {
	if f.BranchID != nil && *f.BranchID != branchID {
		return false
	}
	if f.ResourceType != nil && *f.ResourceType != kind {
		return false
	}
	if f.ResourceID != nil && *f.ResourceID != resourceID {
		return false
	}
	return true
}

func stockInEvent(s *entity.StockInRecord) entity.AuditEvent {
	costBefore, costAfter := s.PrevUnitCost, s.NewUnitCost
	return entity.AuditEvent{
		EventID:        s.ID,
		EventType:      entity.AuditEventStockIn,
		BranchID:       s.BranchID,
		ResourceType:   s.ResourceType,
		ResourceID:     s.ResourceID,
		ResourceName:   s.ResourceName,
		ResourceUnit:   s.ResourceUnit,
		EventDate:      s.StockInDate.Format(time.DateOnly),
		EventTimestamp: s.CreatedAt,
		QtyChange:      s.QtyAdded,
		StockBefore:    s.PrevStock,
		StockAfter:     s.NewStock,
		CostBefore:     &costBefore,
		CostAfter:      &costAfter,
		SupplierName:   s.SupplierName,
		ReferenceNo:    s.ReferenceNo,
		Note:           s.Note,
		Active:         s.Active,
	}
}

func stockOutEvent(m *MovementEntry, loc *time.Location) entity.AuditEvent {
	mv := m.Movement
	orderID, menuID := mv.OrderID, mv.MenuID
	return entity.AuditEvent{
		EventID:        mv.ID,
		EventType:      entity.AuditEventStockOut,
		BranchID:       m.BranchID,
		ResourceType:   mv.ResourceType,
		ResourceID:     mv.ResourceID,
		ResourceName:   m.ResourceName,
		ResourceUnit:   m.ResourceUnit,
		EventDate:      mv.CreatedAt.In(loc).Format(time.DateOnly),
		EventTimestamp: mv.CreatedAt,
		QtyChange:      mv.QtyDeducted.Neg(),
		StockBefore:    mv.StockBefore,
		StockAfter:     mv.StockAfter,
		OrderID:        &orderID,
		MenuID:         &menuID,
		Active:         true,
	}
}

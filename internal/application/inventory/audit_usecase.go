package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/inventory"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
)

// AuditTrailUseCase historial unificado de entradas y salidas de una sucursal (solo lectura).
type AuditTrailUseCase struct {
	repo repository.AuditRepository
}

// NewAuditTrailUseCase construye el caso de uso.
func NewAuditTrailUseCase(repo repository.AuditRepository) *AuditTrailUseCase {
	return &AuditTrailUseCase{repo: repo}
}

// AuditTrailQuery filtros opcionales pedidos por el cliente. La sucursal siempre es la del solicitante.
type AuditTrailQuery struct {
	ResourceType *entity.ResourceKind
	ResourceID   *int64
	Search       string
}

// List devuelve como máximo inventory.AuditTrailLimit eventos, los más recientes primero.
func (uc *AuditTrailUseCase) List(ctx context.Context, rc RequestContext, q AuditTrailQuery) ([]entity.AuditEvent, error) {
	branchID := rc.BranchID
	f := inventory.AuditFilter{
		BranchID:     &branchID,
		ResourceType: q.ResourceType,
		ResourceID:   q.ResourceID,
		Search:       q.Search,
	}

	stockIns, err := uc.repo.ListStockIns(ctx, f, inventory.AuditTrailLimit)
	if err != nil {
		return nil, fmt.Errorf("list stock ins: %w", err)
	}
	movements, err := uc.repo.ListMovements(ctx, f, inventory.AuditTrailLimit)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return inventory.ReconcileAuditTrail(stockIns, movements, f, rc.Location), nil
}

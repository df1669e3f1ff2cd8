package inventory

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/inventory"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
)

// MenuAvailabilityUseCase calcula cuántas porciones de cada menú se pueden preparar con el stock actual.
type MenuAvailabilityUseCase struct {
	menuRepo repository.MenuRepository
	cache    AvailabilityCache
	log      zerolog.Logger
}

// NewMenuAvailabilityUseCase construye el caso de uso. cache puede ser nil.
func NewMenuAvailabilityUseCase(menuRepo repository.MenuRepository, cache AvailabilityCache, log zerolog.Logger) *MenuAvailabilityUseCase {
	return &MenuAvailabilityUseCase{
		menuRepo: menuRepo,
		cache:    cache,
		log:      log.With().Str("component", "menu_availability").Logger(),
	}
}

// List devuelve la disponibilidad de los menús activos de la sucursal del solicitante.
// Un fallo de la caché nunca falla la consulta: se registra y se calcula desde la base.
// La generación se lee antes de consultar la base: si un commit la avanza mientras se calcula,
// la entrada queda guardada bajo la generación vieja y la siguiente lectura recalcula.
func (uc *MenuAvailabilityUseCase) List(ctx context.Context, rc RequestContext) ([]entity.MenuAvailability, error) {
	gen, cached := uc.generation(ctx, rc.BranchID)
	if cached {
		items, ok, err := uc.cache.Get(ctx, rc.BranchID, gen)
		if err != nil {
			uc.log.Warn().Err(err).Int64("branch_id", rc.BranchID).Msg("leer caché de disponibilidad")
		} else if ok {
			return items, nil
		}
	}

	menus, err := uc.menuRepo.ListActiveByBranch(ctx, rc.BranchID)
	if err != nil {
		return nil, fmt.Errorf("list menus: %w", err)
	}
	mappings, err := uc.menuRepo.ListIngredientsByBranch(ctx, rc.BranchID)
	if err != nil {
		return nil, fmt.Errorf("list menu ingredients: %w", err)
	}
	items := inventory.ComputeMenuAvailability(menus, mappings)

	if cached {
		if err := uc.cache.Set(ctx, rc.BranchID, gen, items); err != nil {
			uc.log.Warn().Err(err).Int64("branch_id", rc.BranchID).Msg("guardar caché de disponibilidad")
		}
	}
	return items, nil
}

// generation devuelve false si no hay caché o no se pudo leer su generación.
func (uc *MenuAvailabilityUseCase) generation(ctx context.Context, branchID int64) (int64, bool) {
	if uc.cache == nil {
		return 0, false
	}
	gen, err := uc.cache.Generation(ctx, branchID)
	if err != nil {
		uc.log.Warn().Err(err).Int64("branch_id", branchID).Msg("leer generación de disponibilidad")
		return 0, false
	}
	return gen, true
}

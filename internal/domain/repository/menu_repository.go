package repository

import (
	"context"

	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
)

// MenuRepository lectura de menús y de su receta (ingredientes con el estado actual del recurso).
type MenuRepository interface {
	ListActiveByBranch(ctx context.Context, branchID int64) ([]entity.Menu, error)
	// ListIngredientsByBranch devuelve los mapeos de los menús de la sucursal; Resource es nil
	// cuando el recurso referenciado no existe.
	ListIngredientsByBranch(ctx context.Context, branchID int64) ([]entity.MenuIngredient, error)
}

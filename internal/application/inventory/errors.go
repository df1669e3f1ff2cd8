package inventory

import (
	"errors"

	"github.com/jhoicas/Restaurante-api/internal/domain"
)

// isBusinessError distingue rechazos esperados (validación, conflicto, permisos) de fallas de infraestructura.
func isBusinessError(err error) bool {
	return errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrBranchMismatch) ||
		errors.Is(err, domain.ErrConflict)
}

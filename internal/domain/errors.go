package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// El motor de inventario solo produce ErrInvalidInput, ErrNotFound, ErrBranchMismatch y ErrConflict;
// los llamadores los envuelven con fmt.Errorf("%w: ...") y los handlers los comparan con errors.Is.
var (
	ErrNotFound       = errors.New("recurso no encontrado")
	ErrUserNotFound   = errors.New("usuario no encontrado")
	ErrInvalidInput   = errors.New("entrada inválida")
	ErrDuplicate      = errors.New("recurso duplicado")
	ErrUnauthorized   = errors.New("no autorizado")
	ErrForbidden      = errors.New("acceso denegado")
	ErrBranchMismatch = errors.New("el recurso pertenece a otra sucursal")
	ErrConflict       = errors.New("conflicto con el estado actual")
)

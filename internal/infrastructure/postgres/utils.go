package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Códigos SQLSTATE que el motor de inventario traduce a errores de dominio.
const (
	sqlStateUniqueViolation  = "23505"
	sqlStateLockNotAvailable = "55P03"
	sqlStateDeadlockDetected = "40P01"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == sqlStateUniqueViolation
}

// isLockContention indica que la tx no obtuvo el bloqueo a tiempo (lock_timeout) o fue víctima de un deadlock.
func isLockContention(err error) bool {
	code := pgCode(err)
	return code == sqlStateLockNotAvailable || code == sqlStateDeadlockDetected
}

// lockContentionError marca una tx abortada por contención de bloqueos. No es un error de negocio:
// el llamador puede reintentar la operación completa.
type lockContentionError struct{ err error }

func (e *lockContentionError) Error() string { return "lock contention: " + e.err.Error() }
func (e *lockContentionError) Unwrap() error { return e.err }
func (e *lockContentionError) Temporary() bool { return true }

// translateTxError envuelve la contención de bloqueos; el resto pasa sin cambios.
func translateTxError(err error) error {
	if isLockContention(err) {
		return &lockContentionError{err: err}
	}
	return err
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

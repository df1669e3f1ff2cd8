package inventory

import "time"

// RequestContext datos del solicitante resueltos una sola vez en el borde HTTP (token JWT + config)
// y pasados por valor a cada operación.
type RequestContext struct {
	BranchID int64
	UserID   int64
	Location *time.Location // calendario local de la sucursal
}

// Today devuelve la fecha calendario actual de la sucursal (medianoche en UTC para persistir como DATE).
func (rc RequestContext) Today(now time.Time) time.Time {
	loc := rc.Location
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

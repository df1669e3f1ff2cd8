package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
	RoleCajero    = "cajero"
)

// User representa un usuario del back-office (pertenece a una sucursal).
type User struct {
	ID           int64
	BranchID     int64
	Email        string
	PasswordHash string // bcrypt hash
	Name         string
	Role         string // admin, bodeguero, cajero
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

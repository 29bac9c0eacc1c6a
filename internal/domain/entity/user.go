package entity

import (
	"strings"
	"time"
)

// Role es el rol de un usuario. Conjunto cerrado: solo los valores declarados abajo son válidos.
type Role string

// Roles válidos para User.
const (
	RoleAdmin          Role = "admin"
	RoleWarehouseOwner Role = "warehouse_owner"
	RoleUser           Role = "user"
)

// ParseRole convierte un string (token, DB, request) en Role. Acepta mayúsculas por compatibilidad
// con registros antiguos ("ADMIN", "WAREHOUSE_OWNER").
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleWarehouseOwner:
		return RoleWarehouseOwner, true
	case RoleUser:
		return RoleUser, true
	}
	return "", false
}

// Valid indica si r es uno de los roles declarados.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleWarehouseOwner, RoleUser:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// User representa un usuario del sistema.
// Location se compara contra Warehouse.Location para decidir la visibilidad de bodegas del rol user.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         Role
	Location     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

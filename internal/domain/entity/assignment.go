package entity

import "time"

// UserWarehouseAssignment da visibilidad explícita de una bodega a un usuario (rol user).
type UserWarehouseAssignment struct {
	ID          string
	UserID      string
	WarehouseID string
	CreatedAt   time.Time
}

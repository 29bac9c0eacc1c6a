package entity

import "time"

// Warehouse representa una bodega. OwnerID vacío = bodega sin propietario (compartida);
// las solicitudes de movimiento hacia ella no tienen quién las apruebe.
type Warehouse struct {
	ID          string
	OwnerID     string
	Name        string
	Location    string
	IsAvailable bool
	Latitude    *float64
	Longitude   *float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasOwner indica si la bodega tiene propietario asignado.
func (w *Warehouse) HasOwner() bool { return w.OwnerID != "" }

// IsOwnedBy indica si userID es el propietario de la bodega.
func (w *Warehouse) IsOwnedBy(userID string) bool {
	return w.OwnerID != "" && w.OwnerID == userID
}

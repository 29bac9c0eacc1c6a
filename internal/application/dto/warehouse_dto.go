package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CreateWarehouseRequest entrada para crear una bodega. El propietario es quien la crea.
type CreateWarehouseRequest struct {
	Name        string   `json:"name"`
	Location    string   `json:"location"`
	IsAvailable *bool    `json:"is_available,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

func (r CreateWarehouseRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Location, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Latitude, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&r.Longitude, validation.Min(-180.0), validation.Max(180.0)),
	)
}

// SetAvailabilityRequest body para PATCH /api/warehouses/:id/availability.
type SetAvailabilityRequest struct {
	IsAvailable *bool `json:"is_available"`
}

func (r SetAvailabilityRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.IsAvailable, validation.NotNil),
	)
}

// WarehouseResponse salida de una bodega.
type WarehouseResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id,omitempty"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	IsAvailable bool      `json:"is_available"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// WarehouseListResponse lista paginada de bodegas.
type WarehouseListResponse struct {
	Items []WarehouseResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// CreateAssignmentRequest asigna un usuario a una bodega.
type CreateAssignmentRequest struct {
	UserID      string `json:"user_id"`
	WarehouseID string `json:"warehouse_id"`
}

func (r CreateAssignmentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserID, validation.Required, is.UUID),
		validation.Field(&r.WarehouseID, validation.Required, is.UUID),
	)
}

// AssignmentResponse salida de una asignación usuario-bodega.
type AssignmentResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	WarehouseID string    `json:"warehouse_id"`
	CreatedAt   time.Time `json:"created_at"`
}

package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// CreateStockRequest body para POST /api/stock-requests.
// in/out usan warehouse_id; transfer usa from_warehouse_id y to_warehouse_id.
type CreateStockRequest struct {
	ProductID       string `json:"product_id"`
	MovementType    string `json:"movement_type"`
	WarehouseID     string `json:"warehouse_id,omitempty"`
	FromWarehouseID string `json:"from_warehouse_id,omitempty"`
	ToWarehouseID   string `json:"to_warehouse_id,omitempty"`
	Quantity        int64  `json:"quantity"`
	Notes           string `json:"notes,omitempty"`
}

func (r CreateStockRequest) Validate() error {
	transfer := r.MovementType == "transfer"
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProductID, validation.Required, is.UUID),
		validation.Field(&r.MovementType,
			validation.Required,
			validation.In("in", "out", "transfer").Error("debe ser in, out o transfer"),
		),
		validation.Field(&r.WarehouseID, validation.When(!transfer, validation.Required, is.UUID)),
		validation.Field(&r.FromWarehouseID, validation.When(transfer, validation.Required, is.UUID)),
		validation.Field(&r.ToWarehouseID, validation.When(transfer, validation.Required, is.UUID)),
		validation.Field(&r.Quantity, validation.Required, validation.Min(int64(1))),
		validation.Field(&r.Notes, validation.Length(0, 500)),
	)
}

// RejectStockRequest body para POST /api/stock-requests/:id/reject.
type RejectStockRequest struct {
	Reason string `json:"reason"`
}

func (r RejectStockRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Reason, validation.Length(0, 500)),
	)
}

// StockRequestResponse salida de una solicitud de movimiento.
type StockRequestResponse struct {
	ID              string     `json:"id"`
	ProductID       string     `json:"product_id"`
	MovementType    string     `json:"movement_type"`
	WarehouseID     string     `json:"warehouse_id,omitempty"`
	FromWarehouseID string     `json:"from_warehouse_id,omitempty"`
	ToWarehouseID   string     `json:"to_warehouse_id,omitempty"`
	Quantity        int64      `json:"quantity"`
	Notes           string     `json:"notes,omitempty"`
	Status          string     `json:"status"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	UserID          string     `json:"user_id"`
	ApprovedBy      string     `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	ReferenceID     string     `json:"reference_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// StockRequestListResponse lista paginada de solicitudes.
type StockRequestListResponse struct {
	Items []StockRequestResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}

// ApproveStockRequestResponse respuesta de una aprobación.
type ApproveStockRequestResponse struct {
	Status      string               `json:"status"`
	Request     StockRequestResponse `json:"request"`
	MovementIDs []string             `json:"movement_ids"`
}

// ClearPendingResponse respuesta de DELETE /api/stock-requests/pending.
type ClearPendingResponse struct {
	Deleted int64 `json:"deleted"`
}

// MessageResponse respuesta simple con un mensaje.
type MessageResponse struct {
	Message string `json:"message"`
}

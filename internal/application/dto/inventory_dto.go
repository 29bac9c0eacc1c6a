package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// CreateMovementRequest body para POST /api/stock-movements.
// quantity es la magnitud; el signo lo decide movement_type.
type CreateMovementRequest struct {
	ProductID    string `json:"product_id"`
	WarehouseID  string `json:"warehouse_id"`
	MovementType string `json:"movement_type"`
	Quantity     int64  `json:"quantity"`
	Notes        string `json:"notes,omitempty"`
}

func (r CreateMovementRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProductID, validation.Required, is.UUID),
		validation.Field(&r.WarehouseID, validation.Required, is.UUID),
		validation.Field(&r.MovementType,
			validation.Required,
			validation.In("in", "out").Error("debe ser in u out"),
		),
		validation.Field(&r.Quantity, validation.Required, validation.Min(int64(1))),
		validation.Field(&r.Notes, validation.Length(0, 500)),
	)
}

// TransferRequest body para POST /api/stock-movements/transfers.
type TransferRequest struct {
	ProductID       string `json:"product_id"`
	FromWarehouseID string `json:"from_warehouse_id"`
	ToWarehouseID   string `json:"to_warehouse_id"`
	Quantity        int64  `json:"quantity"`
	Notes           string `json:"notes,omitempty"`
}

func (r TransferRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProductID, validation.Required, is.UUID),
		validation.Field(&r.FromWarehouseID, validation.Required, is.UUID),
		validation.Field(&r.ToWarehouseID, validation.Required, is.UUID),
		validation.Field(&r.Quantity, validation.Required, validation.Min(int64(1))),
		validation.Field(&r.Notes, validation.Length(0, 500)),
	)
}

// MovementResponse salida de un asiento del ledger.
type MovementResponse struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"product_id"`
	WarehouseID  string    `json:"warehouse_id"`
	MovementType string    `json:"movement_type"`
	Quantity     int64     `json:"quantity"`
	ReferenceID  string    `json:"reference_id,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	UserID       string    `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// MovementCreatedResponse respuesta de POST /api/stock-movements.
type MovementCreatedResponse struct {
	Message    string           `json:"message"`
	MovementID string           `json:"movement_id"`
	Movement   MovementResponse `json:"movement"`
}

// TransferResponse respuesta de un traslado: reference_id y los ids de ambas patas.
type TransferResponse struct {
	Message     string `json:"message"`
	ReferenceID string `json:"reference_id"`
	FromID      string `json:"from_id"`
	ToID        string `json:"to_id"`
}

// MovementListResponse historial paginado.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// WarehouseStockResponse stock de un producto en una bodega.
type WarehouseStockResponse struct {
	WarehouseID   string `json:"warehouse_id"`
	WarehouseName string `json:"warehouse_name"`
	Stock         int64  `json:"stock"`
}

// StockDistributionResponse respuesta de GET /api/stock-movements/stock/:product_id.
type StockDistributionResponse struct {
	ProductID  string                   `json:"product_id"`
	Warehouses []WarehouseStockResponse `json:"warehouses"`
	TotalStock int64                    `json:"total_stock"`
}

// InsufficientStockResponse cuerpo de error con el detalle de stock.
type InsufficientStockResponse struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	CurrentStock int64  `json:"current_stock"`
	Requested    int64  `json:"requested"`
}

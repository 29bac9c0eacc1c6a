package entity

import "time"

// RequestType tipo de una solicitud de movimiento.
type RequestType string

const (
	RequestTypeIn       RequestType = "in"
	RequestTypeOut      RequestType = "out"
	RequestTypeTransfer RequestType = "transfer"
)

// RequestStatus estado de una solicitud de movimiento.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// MovementRequest es una solicitud de movimiento pendiente de aprobación.
// No escribe en el ledger hasta que un aprobador la acepta.
// Para in/out se usa WarehouseID; para transfer, FromWarehouseID y ToWarehouseID.
type MovementRequest struct {
	ID              string
	ProductID       string
	Type            RequestType
	WarehouseID     string
	FromWarehouseID string
	ToWarehouseID   string
	Quantity        int64
	Notes           string
	Status          RequestStatus
	RejectionReason string
	UserID          string
	ApprovedBy      string
	ApprovedAt      *time.Time
	ReferenceID     string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ResponsibleWarehouseID devuelve la bodega cuyo propietario decide la solicitud:
// la bodega única en in/out, la de destino en traslados.
func (r *MovementRequest) ResponsibleWarehouseID() string {
	if r.Type == RequestTypeTransfer {
		return r.ToWarehouseID
	}
	return r.WarehouseID
}

// IsPending indica si la solicitud sigue pendiente.
func (r *MovementRequest) IsPending() bool { return r.Status == RequestStatusPending }

// Cancellable indica si el solicitante todavía puede eliminarla.
func (r *MovementRequest) Cancellable() bool {
	return r.Status == RequestStatusPending || r.Status == RequestStatusRejected
}

package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// RequestFilter filtro de solicitudes. ResponsibleOwnerID restringe a solicitudes cuya bodega
// responsable (destino en traslados) pertenece a ese propietario.
type RequestFilter struct {
	Status             entity.RequestStatus
	UserID             string
	ResponsibleOwnerID string
	Limit              int
	Offset             int
}

// MovementRequestRepository define el puerto de persistencia para solicitudes de movimiento.
type MovementRequestRepository interface {
	Create(ctx context.Context, req *entity.MovementRequest) error
	GetByID(ctx context.Context, id string) (*entity.MovementRequest, error)
	// GetForUpdate bloquea la fila de la solicitud hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.MovementRequest, error)
	// UpdateDecision persiste status, rejection_reason, approved_by, approved_at y reference_id.
	UpdateDecision(ctx context.Context, req *entity.MovementRequest) error
	Delete(ctx context.Context, id string) error
	DeleteByStatus(ctx context.Context, status entity.RequestStatus) (int64, error)
	List(ctx context.Context, filter RequestFilter) ([]*entity.MovementRequest, error)
}

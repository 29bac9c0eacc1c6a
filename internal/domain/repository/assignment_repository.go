package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// AssignmentRepository persiste las asignaciones usuario-bodega. (user_id, warehouse_id) es único.
type AssignmentRepository interface {
	Create(ctx context.Context, a *entity.UserWarehouseAssignment) error
	GetByID(ctx context.Context, id string) (*entity.UserWarehouseAssignment, error)
	Exists(ctx context.Context, userID, warehouseID string) (bool, error)
	ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.UserWarehouseAssignment, error)
	Delete(ctx context.Context, id string) error
}

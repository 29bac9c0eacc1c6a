package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/access"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// AssignmentUseCase asigna usuarios a bodegas para la regla de visibilidad.
type AssignmentUseCase struct {
	assignments repository.AssignmentRepository
	warehouses  repository.WarehouseRepository
	users       repository.UserRepository
}

// NewAssignmentUseCase construye el caso de uso.
func NewAssignmentUseCase(assignments repository.AssignmentRepository, warehouses repository.WarehouseRepository, users repository.UserRepository) *AssignmentUseCase {
	return &AssignmentUseCase{assignments: assignments, warehouses: warehouses, users: users}
}

// Assign asigna un usuario a una bodega. Solo admin o el propietario de la bodega.
func (uc *AssignmentUseCase) Assign(ctx context.Context, actor access.Actor, in dto.CreateAssignmentRequest) (*dto.AssignmentResponse, error) {
	if _, err := uc.managedWarehouse(ctx, actor, in.WarehouseID); err != nil {
		return nil, err
	}
	user, err := uc.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	exists, err := uc.assignments.Exists(ctx, in.UserID, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicate
	}
	a := &entity.UserWarehouseAssignment{
		ID:          uuid.New().String(),
		UserID:      in.UserID,
		WarehouseID: in.WarehouseID,
		CreatedAt:   time.Now(),
	}
	if err := uc.assignments.Create(ctx, a); err != nil {
		return nil, err
	}
	return toAssignmentResponse(a), nil
}

// ListByWarehouse lista las asignaciones de una bodega.
func (uc *AssignmentUseCase) ListByWarehouse(ctx context.Context, actor access.Actor, warehouseID string) ([]dto.AssignmentResponse, error) {
	if _, err := uc.managedWarehouse(ctx, actor, warehouseID); err != nil {
		return nil, err
	}
	list, err := uc.assignments.ListByWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AssignmentResponse, 0, len(list))
	for _, a := range list {
		items = append(items, *toAssignmentResponse(a))
	}
	return items, nil
}

// Remove elimina una asignación.
func (uc *AssignmentUseCase) Remove(ctx context.Context, actor access.Actor, id string) error {
	a, err := uc.assignments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a == nil {
		return domain.ErrNotFound
	}
	if _, err := uc.managedWarehouse(ctx, actor, a.WarehouseID); err != nil {
		return err
	}
	return uc.assignments.Delete(ctx, id)
}

func (uc *AssignmentUseCase) managedWarehouse(ctx context.Context, actor access.Actor, warehouseID string) (*entity.Warehouse, error) {
	w, err := uc.warehouses.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, domain.ErrNotFound
	}
	if !access.CanManageWarehouse(actor, w) {
		return nil, domain.ErrForbidden
	}
	return w, nil
}

func toAssignmentResponse(a *entity.UserWarehouseAssignment) *dto.AssignmentResponse {
	return &dto.AssignmentResponse{
		ID:          a.ID,
		UserID:      a.UserID,
		WarehouseID: a.WarehouseID,
		CreatedAt:   a.CreatedAt,
	}
}

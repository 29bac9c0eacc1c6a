package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/access"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// WarehouseUseCase casos de uso de bodegas. No hay borrado: el ledger las referencia.
type WarehouseUseCase struct {
	repo        repository.WarehouseRepository
	assignments repository.AssignmentRepository
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(repo repository.WarehouseRepository, assignments repository.AssignmentRepository) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo, assignments: assignments}
}

// Create crea una bodega cuyo propietario es el actor (admin o warehouse_owner).
func (uc *WarehouseUseCase) Create(ctx context.Context, actor access.Actor, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	if !access.CanCreateWarehouse(actor) {
		return nil, domain.ErrForbidden
	}
	existing, err := uc.repo.GetByName(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("bodega %q: %w", in.Name, domain.ErrDuplicate)
	}
	available := true
	if in.IsAvailable != nil {
		available = *in.IsAvailable
	}
	now := time.Now()
	warehouse := &entity.Warehouse{
		ID:          uuid.New().String(),
		OwnerID:     actor.UserID,
		Name:        in.Name,
		Location:    in.Location,
		IsAvailable: available,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, warehouse); err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// GetByID obtiene una bodega si el actor puede verla.
func (uc *WarehouseUseCase) GetByID(ctx context.Context, actor access.Actor, id string) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrNotFound
	}
	assigned := false
	if actor.Role == entity.RoleUser {
		if assigned, err = uc.assignments.Exists(ctx, actor.UserID, warehouse.ID); err != nil {
			return nil, err
		}
	}
	if !access.CanViewWarehouse(actor, warehouse, assigned) {
		return nil, domain.ErrForbidden
	}
	return toWarehouseResponse(warehouse), nil
}

// List lista las bodegas visibles para el actor con paginación.
func (uc *WarehouseUseCase) List(ctx context.Context, actor access.Actor, limit, offset int) (*dto.WarehouseListResponse, error) {
	filter, ok := inventory.VisibleWarehouseFilter(actor)
	if !ok {
		return nil, domain.ErrForbidden
	}
	filter.Limit = limit
	filter.Offset = offset
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, *toWarehouseResponse(w))
	}
	return &dto.WarehouseListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// SetAvailability abre o cierra la bodega a entradas y traslados.
func (uc *WarehouseUseCase) SetAvailability(ctx context.Context, actor access.Actor, id string, available bool) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrNotFound
	}
	if !access.CanManageWarehouse(actor, warehouse) {
		return nil, domain.ErrForbidden
	}
	warehouse.IsAvailable = available
	warehouse.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, warehouse); err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	if w == nil {
		return nil
	}
	return &dto.WarehouseResponse{
		ID:          w.ID,
		OwnerID:     w.OwnerID,
		Name:        w.Name,
		Location:    w.Location,
		IsAvailable: w.IsAvailable,
		Latitude:    w.Latitude,
		Longitude:   w.Longitude,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

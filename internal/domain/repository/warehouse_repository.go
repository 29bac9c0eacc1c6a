package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// WarehouseFilter filtro para listar bodegas. Campos vacíos no filtran.
// VisibleToUserID + VisibleLocation aplican la regla del rol user:
// bodega en la misma ubicación O asignada explícitamente al usuario.
type WarehouseFilter struct {
	OwnerID         string
	VisibleToUserID string
	VisibleLocation string
	Limit           int
	Offset          int
}

// WarehouseRepository define el puerto de persistencia para Warehouse (DIP).
type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *entity.Warehouse) error
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	GetByName(ctx context.Context, name string) (*entity.Warehouse, error)
	Update(ctx context.Context, warehouse *entity.Warehouse) error
	List(ctx context.Context, filter WarehouseFilter) ([]*entity.Warehouse, error)
}

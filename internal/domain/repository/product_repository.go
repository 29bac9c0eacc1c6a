package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ProductFilter filtro para listar productos.
type ProductFilter struct {
	OwnerID    string
	ActiveOnly bool
	Limit      int
	Offset     int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// Create devuelve domain.ErrDuplicate si (sku, owner) o (name, owner) ya existen.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	SetActive(ctx context.Context, id string, active bool) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
}

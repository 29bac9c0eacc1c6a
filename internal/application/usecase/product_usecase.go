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

// ProductUseCase casos de uso del catálogo de productos.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un producto activo cuyo propietario es el actor.
// SKU o nombre repetidos para el mismo propietario devuelven ErrDuplicate desde el repositorio.
func (uc *ProductUseCase) Create(ctx context.Context, actor access.Actor, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		OwnerID:     actor.UserID,
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto del actor (o cualquiera si es admin).
func (uc *ProductUseCase) GetByID(ctx context.Context, actor access.Actor, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if !access.CanAccessProduct(actor, product) {
		return nil, domain.ErrForbidden
	}
	return toProductResponse(product), nil
}

// List lista los productos activos: todos para admin, los propios para el resto.
func (uc *ProductUseCase) List(ctx context.Context, actor access.Actor, limit, offset int) (*dto.ProductListResponse, error) {
	filter := repository.ProductFilter{ActiveOnly: true, Limit: limit, Offset: offset}
	switch access.ProductScope(actor) {
	case access.ScopeAll:
	case access.ScopeOwn:
		filter.OwnerID = actor.UserID
	default:
		return nil, domain.ErrForbidden
	}
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Deactivate desactiva el producto (borrado lógico); sus movimientos se conservan.
func (uc *ProductUseCase) Deactivate(ctx context.Context, actor access.Actor, id string) error {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if !access.CanAccessProduct(actor, product) {
		return domain.ErrForbidden
	}
	return uc.repo.SetActive(ctx, id, false)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

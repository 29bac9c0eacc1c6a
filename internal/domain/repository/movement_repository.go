package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// MovementFilter filtro del historial de movimientos. Campos vacíos no filtran.
// WarehouseOwnerID restringe a movimientos de bodegas de ese propietario.
type MovementFilter struct {
	ProductID        string
	WarehouseID      string
	Type             entity.MovementType
	UserID           string
	WarehouseOwnerID string
	Limit            int
	Offset           int
}

// MovementRepository es el ledger: colección append-only de movimientos.
// No expone Update ni Delete.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	// CurrentStock devuelve SUM(quantity) para (producto, bodega); 0 si no hay movimientos.
	CurrentStock(ctx context.Context, productID, warehouseID string) (int64, error)
	// StockByWarehouse devuelve el stock del producto agrupado por bodega.
	StockByWarehouse(ctx context.Context, productID string) (map[string]int64, error)
	// LockPair serializa escrituras concurrentes sobre (producto, bodega) hasta el fin de la transacción.
	// Solo tiene efecto dentro de una transacción.
	LockPair(ctx context.Context, productID, warehouseID string) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
	ListByReference(ctx context.Context, referenceID string) ([]*entity.Movement, error)
}

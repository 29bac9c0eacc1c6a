package inventory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// Repositories agrupa los repositorios atados a una misma transacción.
type Repositories struct {
	Movements  repository.MovementRepository
	Requests   repository.MovementRequestRepository
	Products   repository.ProductRepository
	Warehouses repository.WarehouseRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Commit si fn devuelve nil; Rollback en cualquier otro caso (error o panic).
// Garantiza atomicidad para el motor de inventario.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repositories) error) error
}

// StockCache cachea sumas del ledger solo para lecturas. Las validaciones de escritura
// nunca lo consultan; los casos de uso invalidan los pares tocados tras cada commit.
//
// Cada par (producto, bodega) lleva una versión que Invalidate incrementa. Get la devuelve
// también en un miss, y Set solo guarda si la versión sigue siendo esa: una suma leída
// antes de una escritura confirmada nunca vuelve a quedar en cache.
type StockCache interface {
	Get(ctx context.Context, productID, warehouseID string) (qty, version int64, ok bool)
	Set(ctx context.Context, productID, warehouseID string, qty, version int64)
	Invalidate(ctx context.Context, productID string, warehouseIDs ...string)
}

// NopStockCache cache deshabilitada.
type NopStockCache struct{}

func (NopStockCache) Get(context.Context, string, string) (int64, int64, bool) { return 0, 0, false }
func (NopStockCache) Set(context.Context, string, string, int64, int64)        {}
func (NopStockCache) Invalidate(context.Context, string, ...string)            {}

package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/access"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/stretchr/testify/require"
)

// fixture: bodegas norte/sur del owner X, oeste del owner Y, cerrada del owner X y una compartida sin dueño.
// Producto pX pertenece al owner X; pU al usuario (ubicado en Bogotá, como la bodega norte).
type fixture struct {
	store    *memory.Store
	cache    *mapCache
	ledger   *inventory.LedgerUseCase
	workflow *inventory.RequestWorkflowUseCase

	admin, ownerX, ownerY, user, otherUser access.Actor

	pX, pU, pInactive                      *entity.Product
	norte, sur, oeste, cerrada, compartida *entity.Warehouse
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	f := &fixture{store: s, cache: newMapCache()}
	f.ledger = inventory.NewLedgerUseCase(s.TxRunner(), s.Movements(), s.Products(), s.Warehouses(), s.Assignments(), f.cache)
	f.workflow = inventory.NewRequestWorkflowUseCase(s.TxRunner(), f.ledger, s.Requests())

	users := []*entity.User{
		{ID: "admin", Username: "admin", Email: "admin@x.com", Role: entity.RoleAdmin},
		{ID: "owner-x", Username: "owner-x", Email: "x@x.com", Role: entity.RoleWarehouseOwner, Location: "Cali"},
		{ID: "owner-y", Username: "owner-y", Email: "y@x.com", Role: entity.RoleWarehouseOwner},
		{ID: "user-1", Username: "user-1", Email: "u1@x.com", Role: entity.RoleUser, Location: "Bogotá"},
		{ID: "user-2", Username: "user-2", Email: "u2@x.com", Role: entity.RoleUser, Location: "Bogotá"},
	}
	for _, u := range users {
		require.NoError(t, s.Users().Create(ctx, u))
	}
	f.admin = access.ActorFromUser(users[0])
	f.ownerX = access.ActorFromUser(users[1])
	f.ownerY = access.ActorFromUser(users[2])
	f.user = access.ActorFromUser(users[3])
	f.otherUser = access.ActorFromUser(users[4])

	now := time.Now()
	f.norte = &entity.Warehouse{ID: "w-norte", OwnerID: "owner-x", Name: "Norte", Location: "Bogotá", IsAvailable: true, CreatedAt: now}
	f.sur = &entity.Warehouse{ID: "w-sur", OwnerID: "owner-x", Name: "Sur", Location: "Cali", IsAvailable: true, CreatedAt: now}
	f.oeste = &entity.Warehouse{ID: "w-oeste", OwnerID: "owner-y", Name: "Oeste", Location: "Medellín", IsAvailable: true, CreatedAt: now}
	f.cerrada = &entity.Warehouse{ID: "w-cerrada", OwnerID: "owner-x", Name: "Cerrada", Location: "Cali", IsAvailable: false, CreatedAt: now}
	f.compartida = &entity.Warehouse{ID: "w-compartida", Name: "Compartida", Location: "Pasto", IsAvailable: true, CreatedAt: now}
	for _, w := range []*entity.Warehouse{f.norte, f.sur, f.oeste, f.cerrada, f.compartida} {
		require.NoError(t, s.Warehouses().Create(ctx, w))
	}

	f.pX = &entity.Product{ID: "p-x", OwnerID: "owner-x", SKU: "X-1", Name: "Tornillo", IsActive: true, CreatedAt: now}
	f.pU = &entity.Product{ID: "p-u", OwnerID: "user-1", SKU: "U-1", Name: "Tuerca", IsActive: true, CreatedAt: now}
	f.pInactive = &entity.Product{ID: "p-off", OwnerID: "owner-x", SKU: "X-2", Name: "Descontinuado", IsActive: false, CreatedAt: now}
	for _, p := range []*entity.Product{f.pX, f.pU, f.pInactive} {
		require.NoError(t, s.Products().Create(ctx, p))
	}
	return f
}

// stockIn registra una entrada directa como admin (siempre autorizado).
func (f *fixture) stockIn(t *testing.T, productID, warehouseID string, qty int64) {
	t.Helper()
	_, err := f.ledger.RecordMovement(context.Background(), f.admin, inventory.MovementInput{
		ProductID: productID, WarehouseID: warehouseID, Type: entity.MovementTypeIn, Quantity: qty,
	})
	require.NoError(t, err)
}

func (f *fixture) stock(t *testing.T, productID, warehouseID string) int64 {
	t.Helper()
	qty, err := f.ledger.CurrentStock(context.Background(), productID, warehouseID)
	require.NoError(t, err)
	return qty
}

// mapCache StockCache en memoria con versiones por par; registra las invalidaciones
// y el error de contexto con el que llegó cada una.
type mapCache struct {
	mu            sync.Mutex
	data          map[string]int64
	versions      map[string]int64
	invalidated   []string
	invalidateErr []error
}

func newMapCache() *mapCache {
	return &mapCache{data: map[string]int64{}, versions: map[string]int64{}}
}

func (c *mapCache) Get(_ context.Context, productID, warehouseID string) (int64, int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := productID + "/" + warehouseID
	qty, ok := c.data[key]
	return qty, c.versions[key], ok
}

func (c *mapCache) Set(_ context.Context, productID, warehouseID string, qty, version int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := productID + "/" + warehouseID
	if c.versions[key] != version {
		return
	}
	c.data[key] = qty
}

func (c *mapCache) Invalidate(ctx context.Context, productID string, warehouseIDs ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, w := range warehouseIDs {
		key := productID + "/" + w
		c.versions[key]++
		delete(c.data, key)
		c.invalidated = append(c.invalidated, key)
		c.invalidateErr = append(c.invalidateErr, ctx.Err())
	}
}

// writeDuringSet escribe en el ledger justo antes del primer Set, simulando una
// escritura que confirma e invalida entre la suma y el guardado en cache.
type writeDuringSet struct {
	*mapCache
	write func()
	once  sync.Once
}

func (c *writeDuringSet) Set(ctx context.Context, productID, warehouseID string, qty, version int64) {
	c.once.Do(c.write)
	c.mapCache.Set(ctx, productID, warehouseID, qty, version)
}

// cancelAfterCommit cancela el contexto del request apenas la transacción confirma.
type cancelAfterCommit struct {
	inventory.TxRunner
	cancel context.CancelFunc
}

func (r cancelAfterCommit) Run(ctx context.Context, fn func(repos inventory.Repositories) error) error {
	err := r.TxRunner.Run(ctx, fn)
	r.cancel()
	return err
}

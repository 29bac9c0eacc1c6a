package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/access"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// LedgerUseCase es el motor del ledger de stock: registra entradas, salidas y traslados
// de forma transaccional y calcula el stock como suma de movimientos (nunca un contador guardado).
type LedgerUseCase struct {
	txRunner    TxRunner
	movements   repository.MovementRepository
	products    repository.ProductRepository
	warehouses  repository.WarehouseRepository
	assignments repository.AssignmentRepository
	cache       StockCache
	now         func() time.Time
}

// NewLedgerUseCase construye el caso de uso. cache puede ser nil (sin cache).
func NewLedgerUseCase(
	txRunner TxRunner,
	movements repository.MovementRepository,
	products repository.ProductRepository,
	warehouses repository.WarehouseRepository,
	assignments repository.AssignmentRepository,
	cache StockCache,
) *LedgerUseCase {
	if cache == nil {
		cache = NopStockCache{}
	}
	return &LedgerUseCase{
		txRunner:    txRunner,
		movements:   movements,
		products:    products,
		warehouses:  warehouses,
		assignments: assignments,
		cache:       cache,
		now:         time.Now,
	}
}

// MovementInput entrada para una entrada (in) o salida (out) directa.
// Quantity es la magnitud (> 0); el signo lo decide Type.
type MovementInput struct {
	ProductID   string
	WarehouseID string
	Type        entity.MovementType
	Quantity    int64
	Notes       string
}

// TransferInput entrada para un traslado entre bodegas.
type TransferInput struct {
	ProductID       string
	FromWarehouseID string
	ToWarehouseID   string
	Quantity        int64
	Notes           string
}

// TransferResult las dos patas de un traslado, enlazadas por ReferenceID.
type TransferResult struct {
	ReferenceID string
	Out         *entity.Movement
	In          *entity.Movement
}

// WarehouseStock stock de un producto en una bodega.
type WarehouseStock struct {
	WarehouseID string
	Name        string
	Stock       int64
}

// StockDistribution reparto del stock de un producto entre las bodegas visibles para el actor.
type StockDistribution struct {
	ProductID  string
	Warehouses []WarehouseStock
	Total      int64
}

// MovementQuery filtros opcionales del historial.
type MovementQuery struct {
	ProductID   string
	WarehouseID string
	Type        entity.MovementType
	Limit       int
	Offset      int
}

// CurrentStock devuelve la suma de cantidades para (producto, bodega). 0 si no hay movimientos.
func (uc *LedgerUseCase) CurrentStock(ctx context.Context, productID, warehouseID string) (int64, error) {
	if productID == "" || warehouseID == "" {
		return 0, domain.ErrInvalidInput
	}
	return uc.movements.CurrentStock(ctx, productID, warehouseID)
}

// RecordMovement registra una entrada o salida directa dentro de una transacción:
// bloquea el par (producto, bodega), relee el stock, valida y agrega un asiento.
func (uc *LedgerUseCase) RecordMovement(ctx context.Context, actor access.Actor, input MovementInput) (*entity.Movement, error) {
	if input.ProductID == "" || input.WarehouseID == "" || input.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if input.Type != entity.MovementTypeIn && input.Type != entity.MovementTypeOut {
		return nil, domain.ErrInvalidInput
	}

	var mov *entity.Movement
	err := uc.txRunner.Run(ctx, func(repos Repositories) error {
		product, err := loadProduct(ctx, repos.Products, input.ProductID)
		if err != nil {
			return err
		}
		wh, err := loadWarehouse(ctx, repos.Warehouses, input.WarehouseID)
		if err != nil {
			return err
		}
		if !access.CanRecordDirect(actor, product, wh) {
			return domain.ErrForbidden
		}
		mov, err = uc.appendMovement(ctx, repos, product, wh, input.Type, input.Quantity, actor.UserID, input.Notes)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx, input.ProductID, input.WarehouseID)
	return mov, nil
}

// RecordTransfer registra un traslado: una salida (transfer_out) en origen y una entrada
// (transfer_in) en destino con el mismo reference_id, ambas en la misma transacción.
func (uc *LedgerUseCase) RecordTransfer(ctx context.Context, actor access.Actor, input TransferInput) (*TransferResult, error) {
	if input.ProductID == "" || input.FromWarehouseID == "" || input.ToWarehouseID == "" || input.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if input.FromWarehouseID == input.ToWarehouseID {
		return nil, fmt.Errorf("origen y destino iguales: %w", domain.ErrInvalidState)
	}

	var res *TransferResult
	err := uc.txRunner.Run(ctx, func(repos Repositories) error {
		product, err := loadProduct(ctx, repos.Products, input.ProductID)
		if err != nil {
			return err
		}
		from, err := loadWarehouse(ctx, repos.Warehouses, input.FromWarehouseID)
		if err != nil {
			return err
		}
		to, err := loadWarehouse(ctx, repos.Warehouses, input.ToWarehouseID)
		if err != nil {
			return err
		}
		if !access.CanRecordDirect(actor, product, from, to) {
			return domain.ErrForbidden
		}
		res, err = uc.appendTransfer(ctx, repos, product, from, to, input.Quantity, actor.UserID, input.Notes)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx, input.ProductID, input.FromWarehouseID, input.ToWarehouseID)
	return res, nil
}

// StockDistribution devuelve el stock (> 0) del producto en cada bodega visible para el actor.
func (uc *LedgerUseCase) StockDistribution(ctx context.Context, actor access.Actor, productID string) (*StockDistribution, error) {
	product, err := loadProduct(ctx, uc.products, productID)
	if err != nil {
		return nil, err
	}
	if !access.CanAccessProduct(actor, product) {
		return nil, domain.ErrForbidden
	}
	filter, ok := VisibleWarehouseFilter(actor)
	if !ok {
		return nil, domain.ErrForbidden
	}
	warehouses, err := uc.warehouses.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	stock := make(map[string]int64, len(warehouses))
	// versión vista en cada miss, leída antes de sumar el ledger
	misses := make(map[string]int64)
	for _, w := range warehouses {
		qty, version, hit := uc.cache.Get(ctx, productID, w.ID)
		if hit {
			stock[w.ID] = qty
			continue
		}
		misses[w.ID] = version
	}
	if len(misses) > 0 {
		sums, err := uc.movements.StockByWarehouse(ctx, productID)
		if err != nil {
			return nil, err
		}
		for warehouseID, version := range misses {
			stock[warehouseID] = sums[warehouseID]
			uc.cache.Set(ctx, productID, warehouseID, sums[warehouseID], version)
		}
	}

	out := &StockDistribution{ProductID: productID, Warehouses: []WarehouseStock{}}
	for _, w := range warehouses {
		qty := stock[w.ID]
		if qty <= 0 {
			continue
		}
		out.Warehouses = append(out.Warehouses, WarehouseStock{WarehouseID: w.ID, Name: w.Name, Stock: qty})
		out.Total += qty
	}
	sort.Slice(out.Warehouses, func(i, j int) bool { return out.Warehouses[i].Name < out.Warehouses[j].Name })
	return out, nil
}

// ListMovements lista el historial según el alcance del rol:
// admin todo, warehouse_owner sus bodegas, user sus propios movimientos.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, actor access.Actor, q MovementQuery) ([]*entity.Movement, error) {
	if q.Type != "" && !q.Type.Valid() {
		return nil, domain.ErrInvalidInput
	}
	filter := repository.MovementFilter{
		ProductID:   q.ProductID,
		WarehouseID: q.WarehouseID,
		Type:        q.Type,
		Limit:       q.Limit,
		Offset:      q.Offset,
	}
	switch access.MovementScope(actor) {
	case access.ScopeAll:
	case access.ScopeOwned:
		filter.WarehouseOwnerID = actor.UserID
	case access.ScopeOwn:
		filter.UserID = actor.UserID
	default:
		return nil, domain.ErrForbidden
	}
	return uc.movements.List(ctx, filter)
}

// invalidate corre tras el commit y no hereda la cancelación del request.
func (uc *LedgerUseCase) invalidate(ctx context.Context, productID string, warehouseIDs ...string) {
	uc.cache.Invalidate(context.WithoutCancel(ctx), productID, warehouseIDs...)
}

// VisibleWarehouseFilter traduce el alcance de bodegas del actor a un filtro de repositorio.
func VisibleWarehouseFilter(actor access.Actor) (repository.WarehouseFilter, bool) {
	switch access.WarehouseScope(actor) {
	case access.ScopeAll:
		return repository.WarehouseFilter{}, true
	case access.ScopeOwned:
		return repository.WarehouseFilter{OwnerID: actor.UserID}, true
	case access.ScopeAssigned:
		return repository.WarehouseFilter{VisibleToUserID: actor.UserID, VisibleLocation: actor.Location}, true
	}
	return repository.WarehouseFilter{}, false
}

// appendMovement aplica una entrada/salida con los repos de la transacción en curso.
// También lo usa la aprobación de solicitudes (userID = solicitante).
func (uc *LedgerUseCase) appendMovement(
	ctx context.Context,
	repos Repositories,
	product *entity.Product,
	wh *entity.Warehouse,
	typ entity.MovementType,
	quantity int64,
	userID, notes string,
) (*entity.Movement, error) {
	if typ == entity.MovementTypeIn && !wh.IsAvailable {
		return nil, fmt.Errorf("entrada a bodega %s: %w", wh.ID, domain.ErrUnavailable)
	}
	signed := quantity
	if typ == entity.MovementTypeOut {
		signed = -quantity
	}

	// Serializa escrituras sobre (producto, bodega) hasta el commit
	if err := repos.Movements.LockPair(ctx, product.ID, wh.ID); err != nil {
		return nil, err
	}
	if signed < 0 {
		if err := checkStock(ctx, repos.Movements, product.ID, wh.ID, quantity); err != nil {
			return nil, err
		}
	}

	mov := &entity.Movement{
		ID:          uuid.New().String(),
		ProductID:   product.ID,
		WarehouseID: wh.ID,
		Type:        typ,
		Quantity:    signed,
		Notes:       notes,
		UserID:      userID,
		CreatedAt:   uc.now(),
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// appendTransfer escribe las dos patas de un traslado con los repos de la transacción en curso.
func (uc *LedgerUseCase) appendTransfer(
	ctx context.Context,
	repos Repositories,
	product *entity.Product,
	from, to *entity.Warehouse,
	quantity int64,
	userID, notes string,
) (*TransferResult, error) {
	if from.ID == to.ID {
		return nil, fmt.Errorf("origen y destino iguales: %w", domain.ErrInvalidState)
	}
	if !from.IsAvailable {
		return nil, fmt.Errorf("traslado desde bodega %s: %w", from.ID, domain.ErrUnavailable)
	}
	if !to.IsAvailable {
		return nil, fmt.Errorf("traslado hacia bodega %s: %w", to.ID, domain.ErrUnavailable)
	}

	// Orden fijo de bloqueo: dos traslados opuestos no pueden bloquearse mutuamente
	first, second := from.ID, to.ID
	if second < first {
		first, second = second, first
	}
	if err := repos.Movements.LockPair(ctx, product.ID, first); err != nil {
		return nil, err
	}
	if err := repos.Movements.LockPair(ctx, product.ID, second); err != nil {
		return nil, err
	}
	if err := checkStock(ctx, repos.Movements, product.ID, from.ID, quantity); err != nil {
		return nil, err
	}

	now := uc.now()
	ref := uuid.New().String()
	out := &entity.Movement{
		ID:          uuid.New().String(),
		ProductID:   product.ID,
		WarehouseID: from.ID,
		Type:        entity.MovementTypeTransferOut,
		Quantity:    -quantity,
		ReferenceID: ref,
		Notes:       notes,
		UserID:      userID,
		CreatedAt:   now,
	}
	in := &entity.Movement{
		ID:          uuid.New().String(),
		ProductID:   product.ID,
		WarehouseID: to.ID,
		Type:        entity.MovementTypeTransferIn,
		Quantity:    quantity,
		ReferenceID: ref,
		Notes:       notes,
		UserID:      userID,
		CreatedAt:   now,
	}
	if err := repos.Movements.Create(ctx, out); err != nil {
		return nil, err
	}
	if err := repos.Movements.Create(ctx, in); err != nil {
		return nil, err
	}
	return &TransferResult{ReferenceID: ref, Out: out, In: in}, nil
}

// checkStock falla con InsufficientStockError si el stock actual no cubre quantity.
func checkStock(ctx context.Context, movements repository.MovementRepository, productID, warehouseID string, quantity int64) error {
	current, err := movements.CurrentStock(ctx, productID, warehouseID)
	if err != nil {
		return err
	}
	if current < quantity {
		return &domain.InsufficientStockError{
			ProductID:   productID,
			WarehouseID: warehouseID,
			Current:     current,
			Requested:   quantity,
		}
	}
	return nil
}

func loadProduct(ctx context.Context, products repository.ProductRepository, id string) (*entity.Product, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	p, err := products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
	}
	if !p.IsActive {
		return nil, fmt.Errorf("producto %s: %w", id, domain.ErrInactiveProduct)
	}
	return p, nil
}

func loadWarehouse(ctx context.Context, warehouses repository.WarehouseRepository, id string) (*entity.Warehouse, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	w, err := warehouses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, fmt.Errorf("bodega %s: %w", id, domain.ErrNotFound)
	}
	return w, nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `m.id, m.product_id, m.warehouse_id, m.movement_type, m.quantity, m.reference_id, m.notes, m.user_id, m.created_at`

// MovementRepo ledger append-only de movimientos sobre PostgreSQL (usable con pool o tx).
// No expone Update ni Delete; la tabla además lo impide con un trigger.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create agrega un asiento al ledger.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, warehouse_id, movement_type, quantity, reference_id, notes, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, m.WarehouseID, string(m.Type), m.Quantity, nullable(m.ReferenceID), m.Notes,
		m.UserID, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// CurrentStock SUM(quantity) para (producto, bodega); 0 si no hay filas.
func (r *MovementRepo) CurrentStock(ctx context.Context, productID, warehouseID string) (int64, error) {
	var qty int64
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0)::BIGINT
		FROM stock_movements WHERE product_id = $1 AND warehouse_id = $2`,
		productID, warehouseID,
	).Scan(&qty)
	if err != nil {
		return 0, fmt.Errorf("sum stock: %w", err)
	}
	return qty, nil
}

// StockByWarehouse stock del producto agrupado por bodega.
func (r *MovementRepo) StockByWarehouse(ctx context.Context, productID string) (map[string]int64, error) {
	rows, err := r.q.Query(ctx, `
		SELECT warehouse_id, COALESCE(SUM(quantity), 0)::BIGINT
		FROM stock_movements WHERE product_id = $1 GROUP BY warehouse_id`, productID)
	if err != nil {
		return nil, fmt.Errorf("stock by warehouse: %w", err)
	}
	defer rows.Close()
	out := map[string]int64{}
	for rows.Next() {
		var (
			warehouseID string
			qty         int64
		)
		if err := rows.Scan(&warehouseID, &qty); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		out[warehouseID] = qty
	}
	return out, rows.Err()
}

// LockPair toma un advisory lock de transacción sobre (producto, bodega). Se libera en Commit/Rollback.
// Fuera de una transacción se libera al terminar la sentencia y no protege nada.
func (r *MovementRepo) LockPair(ctx context.Context, productID, warehouseID string) error {
	_, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1::text), hashtext($2::text))`, productID, warehouseID)
	if err != nil {
		return fmt.Errorf("lock stock pair: %w", err)
	}
	return nil
}

// List historial filtrado, más recientes primero.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	var c conds
	from := ` FROM stock_movements m`
	if f.WarehouseOwnerID != "" {
		from += ` JOIN warehouses w ON w.id = m.warehouse_id`
		c.add("w.owner_id = ?", f.WarehouseOwnerID)
	}
	if f.ProductID != "" {
		c.add("m.product_id = ?", f.ProductID)
	}
	if f.WarehouseID != "" {
		c.add("m.warehouse_id = ?", f.WarehouseID)
	}
	if f.Type != "" {
		c.add("m.movement_type = ?", string(f.Type))
	}
	if f.UserID != "" {
		c.add("m.user_id = ?", f.UserID)
	}
	query := `SELECT ` + movementColumns + from + c.where() + ` ORDER BY m.created_at DESC, m.id` + c.page(f.Limit, f.Offset)
	return r.query(ctx, query, c.args...)
}

// ListByReference devuelve las patas de un traslado.
func (r *MovementRepo) ListByReference(ctx context.Context, referenceID string) ([]*entity.Movement, error) {
	return r.query(ctx, `SELECT `+movementColumns+` FROM stock_movements m WHERE m.reference_id = $1 ORDER BY m.quantity`, referenceID)
}

func (r *MovementRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Movement, 0)
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var (
		m     entity.Movement
		typ   string
		refID *string
	)
	if err := row.Scan(
		&m.ID, &m.ProductID, &m.WarehouseID, &typ, &m.Quantity, &refID, &m.Notes, &m.UserID, &m.CreatedAt,
	); err != nil {
		return nil, err
	}
	m.Type = entity.MovementType(typ)
	m.ReferenceID = deref(refID)
	return &m, nil
}

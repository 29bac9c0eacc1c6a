package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

const warehouseColumns = `w.id, w.owner_id, w.name, w.location, w.is_available, w.latitude, w.longitude, w.created_at, w.updated_at`

// WarehouseRepo implementación del puerto WarehouseRepository sobre PostgreSQL (usable con pool o tx).
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador de persistencia para bodegas.
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

// Create persiste una nueva bodega.
func (r *WarehouseRepo) Create(ctx context.Context, w *entity.Warehouse) error {
	query := `
		INSERT INTO warehouses (id, owner_id, name, location, is_available, latitude, longitude, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		w.ID, nullable(w.OwnerID), w.Name, w.Location, w.IsAvailable, w.Latitude, w.Longitude,
		w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert warehouse: %w", err)
	}
	return nil
}

// GetByID obtiene una bodega por ID.
func (r *WarehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	return r.findOne(ctx, `SELECT `+warehouseColumns+` FROM warehouses w WHERE w.id = $1`, id)
}

// GetByName obtiene una bodega por nombre (único).
func (r *WarehouseRepo) GetByName(ctx context.Context, name string) (*entity.Warehouse, error) {
	return r.findOne(ctx, `SELECT `+warehouseColumns+` FROM warehouses w WHERE w.name = $1`, name)
}

// Update actualiza nombre, ubicación, disponibilidad y coordenadas.
func (r *WarehouseRepo) Update(ctx context.Context, w *entity.Warehouse) error {
	query := `
		UPDATE warehouses
		SET name = $2, location = $3, is_available = $4, latitude = $5, longitude = $6, updated_at = $7
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		w.ID, w.Name, w.Location, w.IsAvailable, w.Latitude, w.Longitude, w.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update warehouse: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista bodegas ordenadas por nombre. VisibleToUserID filtra por ubicación o asignación.
func (r *WarehouseRepo) List(ctx context.Context, f repository.WarehouseFilter) ([]*entity.Warehouse, error) {
	var c conds
	if f.OwnerID != "" {
		c.add("w.owner_id = ?", f.OwnerID)
	}
	if f.VisibleToUserID != "" {
		c.add(`(w.location = ? OR EXISTS (
			SELECT 1 FROM user_warehouse_assignments a WHERE a.warehouse_id = w.id AND a.user_id = ?))`,
			f.VisibleLocation, f.VisibleToUserID)
	}
	query := `SELECT ` + warehouseColumns + ` FROM warehouses w` + c.where() + ` ORDER BY w.name` + c.page(f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, c.args...)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Warehouse, 0)
	for rows.Next() {
		w, err := scanWarehouse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		list = append(list, w)
	}
	return list, rows.Err()
}

func (r *WarehouseRepo) findOne(ctx context.Context, query string, arg any) (*entity.Warehouse, error) {
	w, err := scanWarehouse(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return w, nil
}

func scanWarehouse(row pgx.Row) (*entity.Warehouse, error) {
	var (
		w       entity.Warehouse
		ownerID *string
	)
	if err := row.Scan(
		&w.ID, &ownerID, &w.Name, &w.Location, &w.IsAvailable, &w.Latitude, &w.Longitude,
		&w.CreatedAt, &w.UpdatedAt,
	); err != nil {
		return nil, err
	}
	w.OwnerID = deref(ownerID)
	return &w, nil
}

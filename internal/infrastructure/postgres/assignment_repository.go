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

var _ repository.AssignmentRepository = (*AssignmentRepo)(nil)

// AssignmentRepo asignaciones usuario-bodega sobre PostgreSQL.
type AssignmentRepo struct {
	q Querier
}

func NewAssignmentRepository(q Querier) *AssignmentRepo {
	return &AssignmentRepo{q: q}
}

func (r *AssignmentRepo) Create(ctx context.Context, a *entity.UserWarehouseAssignment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO user_warehouse_assignments (id, user_id, warehouse_id, created_at)
		VALUES ($1, $2, $3, $4)`,
		a.ID, a.UserID, a.WarehouseID, a.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert assignment: %w", err)
	}
	return nil
}

func (r *AssignmentRepo) GetByID(ctx context.Context, id string) (*entity.UserWarehouseAssignment, error) {
	var a entity.UserWarehouseAssignment
	err := r.q.QueryRow(ctx,
		`SELECT id, user_id, warehouse_id, created_at FROM user_warehouse_assignments WHERE id = $1`, id,
	).Scan(&a.ID, &a.UserID, &a.WarehouseID, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	return &a, nil
}

func (r *AssignmentRepo) Exists(ctx context.Context, userID, warehouseID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM user_warehouse_assignments WHERE user_id = $1 AND warehouse_id = $2)`,
		userID, warehouseID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists assignment: %w", err)
	}
	return exists, nil
}

func (r *AssignmentRepo) ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.UserWarehouseAssignment, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, user_id, warehouse_id, created_at
		FROM user_warehouse_assignments WHERE warehouse_id = $1 ORDER BY created_at`, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.UserWarehouseAssignment, 0)
	for rows.Next() {
		var a entity.UserWarehouseAssignment
		if err := rows.Scan(&a.ID, &a.UserID, &a.WarehouseID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

func (r *AssignmentRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM user_warehouse_assignments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

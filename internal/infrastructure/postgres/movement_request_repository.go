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

var _ repository.MovementRequestRepository = (*MovementRequestRepo)(nil)

const requestColumns = `r.id, r.product_id, r.movement_type, r.warehouse_id, r.from_warehouse_id, r.to_warehouse_id,
	r.quantity, r.notes, r.status, r.rejection_reason, r.user_id, r.approved_by, r.approved_at, r.reference_id,
	r.created_at, r.updated_at`

// MovementRequestRepo solicitudes de movimiento sobre PostgreSQL (usable con pool o tx).
type MovementRequestRepo struct {
	q Querier
}

// NewMovementRequestRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRequestRepository(q Querier) *MovementRequestRepo {
	return &MovementRequestRepo{q: q}
}

func (r *MovementRequestRepo) Create(ctx context.Context, req *entity.MovementRequest) error {
	query := `
		INSERT INTO movement_requests (id, product_id, movement_type, warehouse_id, from_warehouse_id, to_warehouse_id,
			quantity, notes, status, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		req.ID, req.ProductID, string(req.Type), nullable(req.WarehouseID), nullable(req.FromWarehouseID),
		nullable(req.ToWarehouseID), req.Quantity, req.Notes, string(req.Status), req.UserID,
		req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert movement request: %w", err)
	}
	return nil
}

func (r *MovementRequestRepo) GetByID(ctx context.Context, id string) (*entity.MovementRequest, error) {
	return r.findOne(ctx, `SELECT `+requestColumns+` FROM movement_requests r WHERE r.id = $1`, id)
}

// GetForUpdate bloquea la fila hasta el fin de la transacción: dos aprobaciones concurrentes
// de la misma solicitud se serializan y la segunda ve el estado ya decidido.
func (r *MovementRequestRepo) GetForUpdate(ctx context.Context, id string) (*entity.MovementRequest, error) {
	return r.findOne(ctx, `SELECT `+requestColumns+` FROM movement_requests r WHERE r.id = $1 FOR UPDATE`, id)
}

func (r *MovementRequestRepo) UpdateDecision(ctx context.Context, req *entity.MovementRequest) error {
	query := `
		UPDATE movement_requests
		SET status = $2, rejection_reason = $3, approved_by = $4, approved_at = $5, reference_id = $6, updated_at = $7
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		req.ID, string(req.Status), req.RejectionReason, nullable(req.ApprovedBy), req.ApprovedAt,
		nullable(req.ReferenceID), req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update movement request: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MovementRequestRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM movement_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete movement request: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MovementRequestRepo) DeleteByStatus(ctx context.Context, status entity.RequestStatus) (int64, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM movement_requests WHERE status = $1`, string(status))
	if err != nil {
		return 0, fmt.Errorf("delete movement requests: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// List solicitudes filtradas, más recientes primero. ResponsibleOwnerID filtra por el dueño
// de la bodega que decide (destino en traslados).
func (r *MovementRequestRepo) List(ctx context.Context, f repository.RequestFilter) ([]*entity.MovementRequest, error) {
	var c conds
	from := ` FROM movement_requests r`
	if f.ResponsibleOwnerID != "" {
		from += ` JOIN warehouses w ON w.id = CASE WHEN r.movement_type = 'transfer' THEN r.to_warehouse_id ELSE r.warehouse_id END`
		c.add("w.owner_id = ?", f.ResponsibleOwnerID)
	}
	if f.Status != "" {
		c.add("r.status = ?", string(f.Status))
	}
	if f.UserID != "" {
		c.add("r.user_id = ?", f.UserID)
	}
	query := `SELECT ` + requestColumns + from + c.where() + ` ORDER BY r.created_at DESC, r.id` + c.page(f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, c.args...)
	if err != nil {
		return nil, fmt.Errorf("list movement requests: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.MovementRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement request: %w", err)
		}
		list = append(list, req)
	}
	return list, rows.Err()
}

func (r *MovementRequestRepo) findOne(ctx context.Context, query string, id string) (*entity.MovementRequest, error) {
	req, err := scanRequest(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement request: %w", err)
	}
	return req, nil
}

func scanRequest(row pgx.Row) (*entity.MovementRequest, error) {
	var (
		req                       entity.MovementRequest
		typ, status               string
		warehouseID, fromID, toID *string
		approvedBy, referenceID   *string
	)
	if err := row.Scan(
		&req.ID, &req.ProductID, &typ, &warehouseID, &fromID, &toID,
		&req.Quantity, &req.Notes, &status, &req.RejectionReason, &req.UserID, &approvedBy, &req.ApprovedAt, &referenceID,
		&req.CreatedAt, &req.UpdatedAt,
	); err != nil {
		return nil, err
	}
	req.Type = entity.RequestType(typ)
	req.Status = entity.RequestStatus(status)
	req.WarehouseID = deref(warehouseID)
	req.FromWarehouseID = deref(fromID)
	req.ToWarehouseID = deref(toID)
	req.ApprovedBy = deref(approvedBy)
	req.ReferenceID = deref(referenceID)
	return &req, nil
}

package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

type assignmentRepo struct {
	s    *Store
	inTx bool
}

func (r *assignmentRepo) Create(_ context.Context, a *entity.UserWarehouseAssignment) error {
	defer r.s.lock(r.inTx)()
	if r.s.st.assigned(a.UserID, a.WarehouseID) {
		return domain.ErrDuplicate
	}
	r.s.st.assignments[a.ID] = *a
	return nil
}

func (r *assignmentRepo) GetByID(_ context.Context, id string) (*entity.UserWarehouseAssignment, error) {
	defer r.s.lock(r.inTx)()
	a, ok := r.s.st.assignments[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *assignmentRepo) Exists(_ context.Context, userID, warehouseID string) (bool, error) {
	defer r.s.lock(r.inTx)()
	return r.s.st.assigned(userID, warehouseID), nil
}

func (r *assignmentRepo) ListByWarehouse(_ context.Context, warehouseID string) ([]*entity.UserWarehouseAssignment, error) {
	defer r.s.lock(r.inTx)()
	out := make([]*entity.UserWarehouseAssignment, 0)
	for _, a := range r.s.st.assignments {
		if a.WarehouseID == warehouseID {
			out = append(out, &a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *assignmentRepo) Delete(_ context.Context, id string) error {
	defer r.s.lock(r.inTx)()
	if _, ok := r.s.st.assignments[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.st.assignments, id)
	return nil
}

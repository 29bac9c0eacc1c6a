package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

type warehouseRepo struct {
	s    *Store
	inTx bool
}

func (r *warehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	defer r.s.lock(r.inTx)()
	for _, existing := range r.s.st.warehouses {
		if existing.Name == w.Name {
			return domain.ErrDuplicate
		}
	}
	r.s.st.warehouses[w.ID] = *w
	return nil
}

func (r *warehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	defer r.s.lock(r.inTx)()
	w, ok := r.s.st.warehouses[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *warehouseRepo) GetByName(_ context.Context, name string) (*entity.Warehouse, error) {
	defer r.s.lock(r.inTx)()
	for _, w := range r.s.st.warehouses {
		if w.Name == name {
			return &w, nil
		}
	}
	return nil, nil
}

func (r *warehouseRepo) Update(_ context.Context, w *entity.Warehouse) error {
	defer r.s.lock(r.inTx)()
	if _, ok := r.s.st.warehouses[w.ID]; !ok {
		return domain.ErrNotFound
	}
	for _, existing := range r.s.st.warehouses {
		if existing.ID != w.ID && existing.Name == w.Name {
			return domain.ErrDuplicate
		}
	}
	r.s.st.warehouses[w.ID] = *w
	return nil
}

func (r *warehouseRepo) List(_ context.Context, f repository.WarehouseFilter) ([]*entity.Warehouse, error) {
	defer r.s.lock(r.inTx)()
	out := make([]*entity.Warehouse, 0)
	for _, w := range r.s.st.warehouses {
		if f.OwnerID != "" && w.OwnerID != f.OwnerID {
			continue
		}
		if f.VisibleToUserID != "" && w.Location != f.VisibleLocation && !r.s.st.assigned(f.VisibleToUserID, w.ID) {
			continue
		}
		out = append(out, &w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	from, to := page(len(out), f.Limit, f.Offset)
	return out[from:to], nil
}

func (s *state) assigned(userID, warehouseID string) bool {
	for _, a := range s.assignments {
		if a.UserID == userID && a.WarehouseID == warehouseID {
			return true
		}
	}
	return false
}

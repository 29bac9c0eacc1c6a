package memory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

type movementRepo struct {
	s    *Store
	inTx bool
}

func (r *movementRepo) Create(_ context.Context, m *entity.Movement) error {
	defer r.s.lock(r.inTx)()
	r.s.st.movements = append(r.s.st.movements, *m)
	return nil
}

func (r *movementRepo) CurrentStock(_ context.Context, productID, warehouseID string) (int64, error) {
	defer r.s.lock(r.inTx)()
	var sum int64
	for _, m := range r.s.st.movements {
		if m.ProductID == productID && m.WarehouseID == warehouseID {
			sum += m.Quantity
		}
	}
	return sum, nil
}

func (r *movementRepo) StockByWarehouse(_ context.Context, productID string) (map[string]int64, error) {
	defer r.s.lock(r.inTx)()
	out := map[string]int64{}
	for _, m := range r.s.st.movements {
		if m.ProductID == productID {
			out[m.WarehouseID] += m.Quantity
		}
	}
	return out, nil
}

// LockPair no hace nada: la transacción ya tiene el store entero bloqueado.
func (r *movementRepo) LockPair(context.Context, string, string) error { return nil }

// List devuelve los movimientos más recientes primero.
func (r *movementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	defer r.s.lock(r.inTx)()
	out := make([]*entity.Movement, 0)
	for i := len(r.s.st.movements) - 1; i >= 0; i-- {
		m := r.s.st.movements[i]
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		if f.WarehouseID != "" && m.WarehouseID != f.WarehouseID {
			continue
		}
		if f.Type != "" && m.Type != f.Type {
			continue
		}
		if f.UserID != "" && m.UserID != f.UserID {
			continue
		}
		if f.WarehouseOwnerID != "" && r.s.st.warehouses[m.WarehouseID].OwnerID != f.WarehouseOwnerID {
			continue
		}
		out = append(out, &m)
	}
	from, to := page(len(out), f.Limit, f.Offset)
	return out[from:to], nil
}

func (r *movementRepo) ListByReference(_ context.Context, referenceID string) ([]*entity.Movement, error) {
	defer r.s.lock(r.inTx)()
	out := make([]*entity.Movement, 0, 2)
	for _, m := range r.s.st.movements {
		if referenceID != "" && m.ReferenceID == referenceID {
			out = append(out, &m)
		}
	}
	return out, nil
}

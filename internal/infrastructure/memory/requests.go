package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

type requestRepo struct {
	s    *Store
	inTx bool
}

func (r *requestRepo) Create(_ context.Context, req *entity.MovementRequest) error {
	defer r.s.lock(r.inTx)()
	if _, ok := r.s.st.requests[req.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.st.seq++
	r.s.st.requests[req.ID] = *req
	r.s.st.requestSeq[req.ID] = r.s.st.seq
	return nil
}

func (r *requestRepo) GetByID(_ context.Context, id string) (*entity.MovementRequest, error) {
	defer r.s.lock(r.inTx)()
	req, ok := r.s.st.requests[id]
	if !ok {
		return nil, nil
	}
	return &req, nil
}

// GetForUpdate equivale a GetByID: dentro de la transacción el store ya está bloqueado.
func (r *requestRepo) GetForUpdate(ctx context.Context, id string) (*entity.MovementRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *requestRepo) UpdateDecision(_ context.Context, req *entity.MovementRequest) error {
	defer r.s.lock(r.inTx)()
	current, ok := r.s.st.requests[req.ID]
	if !ok {
		return domain.ErrNotFound
	}
	current.Status = req.Status
	current.RejectionReason = req.RejectionReason
	current.ApprovedBy = req.ApprovedBy
	current.ApprovedAt = req.ApprovedAt
	current.ReferenceID = req.ReferenceID
	current.UpdatedAt = req.UpdatedAt
	r.s.st.requests[req.ID] = current
	return nil
}

func (r *requestRepo) Delete(_ context.Context, id string) error {
	defer r.s.lock(r.inTx)()
	if _, ok := r.s.st.requests[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.st.requests, id)
	delete(r.s.st.requestSeq, id)
	return nil
}

func (r *requestRepo) DeleteByStatus(_ context.Context, status entity.RequestStatus) (int64, error) {
	defer r.s.lock(r.inTx)()
	var n int64
	for id, req := range r.s.st.requests {
		if req.Status == status {
			delete(r.s.st.requests, id)
			delete(r.s.st.requestSeq, id)
			n++
		}
	}
	return n, nil
}

// List devuelve las solicitudes más recientes primero.
func (r *requestRepo) List(_ context.Context, f repository.RequestFilter) ([]*entity.MovementRequest, error) {
	defer r.s.lock(r.inTx)()
	out := make([]*entity.MovementRequest, 0)
	for _, req := range r.s.st.requests {
		if f.Status != "" && req.Status != f.Status {
			continue
		}
		if f.UserID != "" && req.UserID != f.UserID {
			continue
		}
		if f.ResponsibleOwnerID != "" && r.s.st.warehouses[req.ResponsibleWarehouseID()].OwnerID != f.ResponsibleOwnerID {
			continue
		}
		out = append(out, &req)
	}
	seq := r.s.st.requestSeq
	sort.Slice(out, func(i, j int) bool { return seq[out[i].ID] > seq[out[j].ID] })
	from, to := page(len(out), f.Limit, f.Offset)
	return out[from:to], nil
}

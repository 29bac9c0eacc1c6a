package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

type productRepo struct {
	s    *Store
	inTx bool
}

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	defer r.s.lock(r.inTx)()
	for _, existing := range r.s.st.products {
		if existing.OwnerID == p.OwnerID && (existing.SKU == p.SKU || existing.Name == p.Name) {
			return domain.ErrDuplicate
		}
	}
	r.s.st.products[p.ID] = *p
	return nil
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	defer r.s.lock(r.inTx)()
	p, ok := r.s.st.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *productRepo) SetActive(_ context.Context, id string, active bool) error {
	defer r.s.lock(r.inTx)()
	p, ok := r.s.st.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.IsActive = active
	r.s.st.products[id] = p
	return nil
}

func (r *productRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	defer r.s.lock(r.inTx)()
	out := make([]*entity.Product, 0)
	for _, p := range r.s.st.products {
		if f.OwnerID != "" && p.OwnerID != f.OwnerID {
			continue
		}
		if f.ActiveOnly && !p.IsActive {
			continue
		}
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	from, to := page(len(out), f.Limit, f.Offset)
	return out[from:to], nil
}

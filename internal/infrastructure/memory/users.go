package memory

import (
	"context"
	"strings"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

type userRepo struct {
	s    *Store
	inTx bool
}

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	defer r.s.lock(r.inTx)()
	for _, existing := range r.s.st.users {
		if existing.Username == u.Username {
			return domain.ErrDuplicate
		}
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.st.users[u.ID] = *u
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	defer r.s.lock(r.inTx)()
	u, ok := r.s.st.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	defer r.s.lock(r.inTx)()
	for _, u := range r.s.st.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	defer r.s.lock(r.inTx)()
	for _, u := range r.s.st.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *userRepo) UpdateRole(_ context.Context, id string, role entity.Role) error {
	defer r.s.lock(r.inTx)()
	u, ok := r.s.st.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Role = role
	r.s.st.users[id] = u
	return nil
}

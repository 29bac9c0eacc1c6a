package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"golang.org/x/crypto/bcrypt"
)

// UserUseCase aplica reglas de negocio para usuarios fuera del flujo de registro.
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// EnsureAdmin crea la cuenta admin o promueve a admin la existente con ese username.
// Devuelve created=true si la cuenta no existía.
func (uc *UserUseCase) EnsureAdmin(ctx context.Context, username, email, password string) (user *dto.UserResponse, created bool, err error) {
	existing, err := uc.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		if existing.Role != entity.RoleAdmin {
			if err := uc.repo.UpdateRole(ctx, existing.ID, entity.RoleAdmin); err != nil {
				return nil, false, fmt.Errorf("promover %s: %w", username, err)
			}
			existing.Role = entity.RoleAdmin
		}
		return entityToUserResponse(existing), false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, err
	}
	now := time.Now()
	u := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         entity.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, u); err != nil {
		return nil, false, err
	}
	return entityToUserResponse(u), true, nil
}

func entityToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role.String(),
		Location:  u.Location,
		CreatedAt: u.CreatedAt,
	}
}

package repository

import (
	"context"

	"github.com/smartstore/backend/internal/domain/entity"
)

// UserRepository puerto de persistencia de usuarios (colaborador de auth).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}

package repository

import (
	"context"

	"github.com/pharmaser/estado-medicamentos/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los usuarios se crean y consultan; nunca se actualizan ni eliminan.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	// FindByUsername busca por usuario normalizado (minúsculas). (nil, nil) si no existe.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	Count(ctx context.Context) (int, error)
}

package ports

import (
	"context"

	"github.com/vollmed/api/internal/core/domain"
)

// UserService manages user account creation and updates.
type UserService interface {
	Create(ctx context.Context, login, senha string) (*domain.User, error)
	Update(ctx context.Context, id int64, login, senha string) (*domain.User, error)
}

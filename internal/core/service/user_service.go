package service

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/vollmed/api/internal/core/domain"
	"github.com/vollmed/api/internal/core/ports"
)

// UserService implements user account creation and updates. Passwords are
// bcrypt-hashed before they ever reach the repository.
type UserService struct {
	repo ports.UserRepository
}

func NewUserService(repo ports.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Create(ctx context.Context, login, senha string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, &domain.User{
		Login:        login,
		PasswordHash: string(hash),
	})
}

// Update re-hashes the password and overwrites login and hash for an existing
// user. A missing id returns domain.ErrUserNotFound and writes nothing.
func (s *UserService) Update(ctx context.Context, id int64, login, senha string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user.Login = login
	user.PasswordHash = string(hash)

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

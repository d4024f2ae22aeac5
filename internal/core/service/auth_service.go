package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/vollmed/api/internal/core/domain"
	"github.com/vollmed/api/internal/core/ports"
)

// AuthService implements login: credential check plus token issuance.
type AuthService struct {
	repo   ports.UserRepository
	tokens *TokenService
}

func NewAuthService(repo ports.UserRepository, tokens *TokenService) *AuthService {
	return &AuthService{repo: repo, tokens: tokens}
}

// Login verifies the credentials and issues a token with the user's login as
// subject. Unknown logins and wrong passwords both return
// domain.ErrInvalidCredentials so callers cannot distinguish which factor
// failed.
func (s *AuthService) Login(ctx context.Context, login, senha string) (string, error) {
	if login == "" || senha == "" {
		return "", domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(senha)) != nil {
		return "", domain.ErrInvalidCredentials
	}

	return s.tokens.Issue(user.Login)
}

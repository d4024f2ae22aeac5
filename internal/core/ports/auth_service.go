package ports

import "context"

// AuthService is the single entry point combining credential verification
// and token issuance.
type AuthService interface {
	Login(ctx context.Context, login, senha string) (string, error)
}

// TokenVerifier decodes a bearer token back to its subject login.
type TokenVerifier interface {
	Verify(token string) (subject string, err error)
}

// LoginLimiter throttles repeated authentication attempts for a login.
// Allow reports whether another attempt may proceed; Reset clears the
// attempt counter after a successful authentication.
type LoginLimiter interface {
	Allow(ctx context.Context, login string) bool
	Reset(ctx context.Context, login string)
}

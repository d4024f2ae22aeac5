package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vollmed/api/internal/core/domain"
)

const tokenIssuer = "API voll.med"
const defaultTokenTTL = 2 * time.Hour

// TokenService issues and verifies HS256-signed bearer tokens. The signing
// secret is injected at construction time; nothing here reads the environment.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{
		secret: []byte(secret),
		issuer: tokenIssuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// claimsBuilder assembles the registered claim set one field at a time.
// Sign is the only place a token is signed, so a change to the claim shape
// touches exactly one site.
type claimsBuilder struct {
	issuer  string
	subject string
	expires time.Time
}

func newClaimsBuilder() *claimsBuilder { return &claimsBuilder{} }

func (b *claimsBuilder) Issuer(iss string) *claimsBuilder {
	b.issuer = iss
	return b
}

func (b *claimsBuilder) Subject(sub string) *claimsBuilder {
	b.subject = sub
	return b
}

func (b *claimsBuilder) ExpiresAt(t time.Time) *claimsBuilder {
	b.expires = t
	return b
}

func (b *claimsBuilder) Sign(secret []byte) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    b.issuer,
		Subject:   b.subject,
		ExpiresAt: jwt.NewNumericDate(b.expires),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Issue signs a token for the given subject login, expiring ttl from now.
func (s *TokenService) Issue(subject string) (string, error) {
	return newClaimsBuilder().
		Issuer(s.issuer).
		Subject(subject).
		ExpiresAt(s.now().Add(s.ttl)).
		Sign(s.secret)
}

// Verify decodes a token and returns its subject. A malformed token, a bad
// signature, a non-HS256 algorithm, an elapsed expiry, or an empty subject
// all surface as domain.ErrInvalidToken.
func (s *TokenService) Verify(token string) (string, error) {
	claims := jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil || !parsed.Valid {
		return "", domain.ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", domain.ErrInvalidToken
	}
	return claims.Subject, nil
}

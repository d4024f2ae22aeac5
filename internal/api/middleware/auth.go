package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vollmed/api/internal/api/metrics"
	"github.com/vollmed/api/internal/core/domain"
	"github.com/vollmed/api/internal/core/ports"
)

// IdentityKey is the echo context key holding the authenticated *domain.User.
const IdentityKey = "identity"

// Auth extracts an optional bearer token, verifies it, resolves the subject
// to a stored user, and attaches the identity to the request context.
//
// Policy: a request without an Authorization header passes through
// unauthenticated (sign-up and login are public routes). A header that is
// present but malformed, invalid, or expired is rejected with 401
// immediately, even on public routes. A token whose subject no longer
// resolves to a user is treated as invalid.
func Auth(tokens ports.TokenVerifier, users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			subject, err := tokens.Verify(parts[1])
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
				return domain.ErrInvalidToken
			}

			user, err := users.FindByLogin(c.Request().Context(), subject)
			if err != nil {
				// Only a missing subject invalidates the token; a store
				// failure is not the client's fault and surfaces as such.
				if errors.Is(err, domain.ErrUserNotFound) {
					metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
					return domain.ErrInvalidToken
				}
				return err
			}

			metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()
			c.Set(IdentityKey, user)
			return next(c)
		}
	}
}

// RequireAuth gates routes that need an authenticated identity.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := c.Get(IdentityKey).(*domain.User); !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			return next(c)
		}
	}
}

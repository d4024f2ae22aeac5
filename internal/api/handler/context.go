package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vollmed/api/internal/api/middleware"
	"github.com/vollmed/api/internal/core/domain"
)

// currentUser extracts the identity injected by the Auth middleware.
// Presence proves the middleware ran and the token resolved to a user.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := c.Get(middleware.IdentityKey).(*domain.User)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication identity")
	}
	return user, nil
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vollmed/api/internal/api/metrics"
	"github.com/vollmed/api/internal/core/domain"
	"github.com/vollmed/api/internal/core/ports"
)

// AuthHandler handles POST /login.
type AuthHandler struct {
	auth    ports.AuthService
	limiter ports.LoginLimiter
}

func NewAuthHandler(auth ports.AuthService, limiter ports.LoginLimiter) *AuthHandler {
	return &AuthHandler{auth: auth, limiter: limiter}
}

type loginRequest struct {
	Login string `json:"login" validate:"required"`
	Senha string `json:"senha" validate:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Login authenticates the credentials and returns a bearer token. The 401
// answer carries no hint of which factor was wrong.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()

	if !h.limiter.Allow(ctx, req.Login) {
		metrics.LoginsTotal.WithLabelValues("limited").Inc()
		return domain.ErrTooManyAttempts
	}

	token, err := h.auth.Login(ctx, req.Login, req.Senha)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	h.limiter.Reset(ctx, req.Login)
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusOK, tokenResponse{Token: token})
}

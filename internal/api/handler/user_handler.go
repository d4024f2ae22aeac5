package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/vollmed/api/internal/api/metrics"
	"github.com/vollmed/api/internal/core/ports"
)

// UserHandler handles HTTP requests for user account operations.
type UserHandler struct {
	users ports.UserService
	log   zerolog.Logger
}

func NewUserHandler(users ports.UserService, log zerolog.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

// --- Request / Response types ---

type createUserRequest struct {
	Login string `json:"login" validate:"required"`
	Senha string `json:"senha" validate:"required"`
}

type updateUserRequest struct {
	ID    int64  `json:"id"    validate:"required"`
	Login string `json:"login" validate:"required"`
	Senha string `json:"senha" validate:"required,min=6"`
}

// userResponse is the public view of a user: the password hash never leaves
// the server.
type userResponse struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
}

// Create handles POST /usuarios: validates, hashes the password, persists,
// and answers 201 with a Location reference to the new resource.
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.users.Create(c.Request().Context(), req.Login, req.Senha)
	if err != nil {
		return err
	}

	metrics.UsersCreatedTotal.Inc()
	h.log.Info().Int64("id", user.ID).Msg("user created")

	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/usuarios/%d", user.ID))
	return c.JSON(http.StatusCreated, userResponse{ID: user.ID, Login: user.Login})
}

// Update handles PUT /usuarios: looks the user up by id, re-hashes the
// password, and persists the new login and hash. The route requires a bearer
// token, so an authenticated identity is always present here.
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	actor, err := currentUser(c)
	if err != nil {
		return err
	}

	user, err := h.users.Update(c.Request().Context(), req.ID, req.Login, req.Senha)
	if err != nil {
		return err
	}

	metrics.UsersUpdatedTotal.Inc()
	h.log.Info().
		Int64("id", user.ID).
		Str("actor", actor.Login).
		Msg("user updated")

	return c.JSON(http.StatusOK, userResponse{ID: user.ID, Login: user.Login})
}

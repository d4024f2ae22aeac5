package api

import (
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/vollmed/api/internal/api/handler"
	"github.com/vollmed/api/internal/api/middleware"
	"github.com/vollmed/api/internal/core/service"
	redisdb "github.com/vollmed/api/internal/infrastructure/db/redis"
	"github.com/vollmed/api/internal/infrastructure/db/sqlite"
	"github.com/vollmed/api/internal/pkg/config"
)

// NewRouter builds the Echo instance with all collaborators wired through
// explicit constructors. This is the single assembly point of the API.
func NewRouter(db *sqlx.DB, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("vollmed"))

	// --- Dependencies ---
	userRepo := sqlite.NewUserRepository(db)
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(userRepo, tokens)
	userService := service.NewUserService(userRepo)
	limiter := redisdb.NewLoginLimiter(rdb, cfg.Login.MaxAttempts, cfg.Login.Window, log)

	userHandler := handler.NewUserHandler(userService, log)
	authHandler := handler.NewAuthHandler(authService, limiter)

	e.Use(middleware.Auth(tokens, userRepo))

	// --- User & auth routes ---
	e.POST("/usuarios", userHandler.Create)
	e.PUT("/usuarios", userHandler.Update, middleware.RequireAuth())
	e.POST("/login", authHandler.Login)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}

package app

import (
	"context"
	"log/slog"

	"github.com/14kear/pollboard/internal/config"
	"github.com/14kear/pollboard/internal/devapi/handlers"
	"github.com/14kear/pollboard/internal/devapi/middleware"
	"github.com/14kear/pollboard/internal/devapi/services/auth"
	"github.com/14kear/pollboard/internal/devapi/services/polling"
	"github.com/14kear/pollboard/internal/devapi/storage/memory"
	"github.com/14kear/pollboard/utils"
)

// App is the development backend: the poll board API over in-memory
// storage.
type App struct {
	HTTPServer *HTTPApp
	Auth       *auth.Auth
	Polling    *polling.Polling
}

func NewApp(log *slog.Logger, env string, cfg config.DevAPIConfig) *App {
	storage := memory.New()

	authService := auth.NewAuth(log, storage, storage, storage, cfg.Secret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	pollingService := polling.New(log, storage, storage, storage, storage)

	authMiddleware := middleware.NewAuthMiddleware(authService, pollingService)

	secure := env == utils.EnvProd
	httpApp := NewHTTPApp(
		log,
		cfg.Port,
		cfg.AllowedOrigins,
		handlers.NewAuthHandler(log, authService, secure),
		handlers.NewPollingHandler(log, pollingService, secure),
		authMiddleware.Optional(),
		authMiddleware.Required(),
	)

	return &App{
		HTTPServer: httpApp,
		Auth:       authService,
		Polling:    pollingService,
	}
}

func (a *App) Stop(ctx context.Context) error {
	return a.HTTPServer.Stop(ctx)
}

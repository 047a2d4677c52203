package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/14kear/pollboard/internal/devapi/handlers"
	"github.com/14kear/pollboard/internal/devapi/routes"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const (
	APIPrefix = "/api/v1"

	// DefaultOrigin is allowed when no origins are configured.
	DefaultOrigin = "http://localhost:3000"
)

type HTTPApp struct {
	log    *slog.Logger
	engine *gin.Engine
	server *http.Server
	port   int
}

// NewHTTPApp builds the gin engine with CORS for the web client origins
// and mounts the API under APIPrefix.
func NewHTTPApp(
	log *slog.Logger,
	port int,
	allowedOrigins []string,
	authHandler *handlers.AuthHandler,
	pollingHandler *handlers.PollingHandler,
	optionalAuth gin.HandlerFunc,
	requiredAuth gin.HandlerFunc,
) *HTTPApp {
	r := gin.New()
	r.Use(gin.Recovery())

	if len(allowedOrigins) == 0 {
		log.Warn("no allowed origins configured, using default", slog.String("origin", DefaultOrigin))
		allowedOrigins = []string{DefaultOrigin}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Authorization"},
		AllowCredentials: true,
	}))

	api := r.Group(APIPrefix)
	{
		routes.RegisterAuthRoutes(api, authHandler)

		public := api.Group("", optionalAuth)
		routes.RegisterPublicRoutes(public, pollingHandler)

		private := api.Group("", requiredAuth)
		routes.RegisterPrivateRoutes(private, pollingHandler)
	}

	// Healthcheck
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	return &HTTPApp{
		log:    log,
		engine: r,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		},
		port: port,
	}
}

func (a *HTTPApp) Run() error {
	a.log.Info("HTTP server is running", slog.String("addr", a.server.Addr))
	return a.server.ListenAndServe()
}

func (a *HTTPApp) Stop(ctx context.Context) error {
	a.log.Info("HTTP server is stopping")
	return a.server.Shutdown(ctx)
}

func (a *HTTPApp) Engine() *gin.Engine {
	return a.engine
}

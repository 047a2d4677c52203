package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	devapp "github.com/14kear/pollboard/internal/devapi/app"
	"github.com/14kear/pollboard/internal/config"
	"github.com/14kear/pollboard/utils"
	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine; the config file and real env still apply.
	_ = godotenv.Load()

	path, err := config.FetchPath(flag.CommandLine, os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if path == "" {
		path = "config/local.yaml"
	}
	cfg := config.Load(path)

	log := utils.New(cfg.Env)

	if cfg.Env == utils.EnvProd {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.Env == utils.EnvLocal || cfg.Env == utils.EnvDev {
		log.Info("starting dev api", slog.Any("config", cfg.DevAPI))
	} else {
		log.Info("starting dev api")
	}

	application := devapp.NewApp(log, cfg.Env, cfg.DevAPI)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.DevAPI.Seed > 0 {
		emails, err := application.Seed(ctx, log, cfg.DevAPI.Seed)
		if err != nil {
			log.Error("failed to seed", sl.Err(err))
			os.Exit(1)
		}
		log.Info("seeded accounts",
			slog.String("emails", strings.Join(emails, ", ")),
			slog.String("password", devapp.SeedPassword),
		)
	}

	go func() {
		if err := application.HTTPServer.Run(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				log.Info("HTTP server closed gracefully")
			} else {
				log.Error("failed to run HTTP server", sl.Err(err))
				stop()
			}
		}
	}()

	<-ctx.Done()

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := application.Stop(shutdownCtx); err != nil {
		log.Error("failed to stop application", sl.Err(err))
		os.Exit(1)
	}
}

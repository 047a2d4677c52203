package testsuite

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/14kear/pollboard/internal/app"
	"github.com/14kear/pollboard/internal/config"
	devapp "github.com/14kear/pollboard/internal/devapi/app"
	"github.com/14kear/pollboard/internal/domain/models"
	"github.com/14kear/pollboard/utils"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/gin-gonic/gin"
)

// Suite is a development backend on a local test server plus a client
// app wired against it.
type Suite struct {
	Cfg     *config.Config
	Backend *devapp.App
	Server  *httptest.Server
	App     *app.App
}

func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	cfg, err := config.Read(configPath())
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	cfg.Voting.SuccessDisplay = 50 * time.Millisecond

	gin.SetMode(gin.TestMode)
	log := utils.Discard()

	backend := devapp.NewApp(log, cfg.Env, cfg.DevAPI)
	srv := httptest.NewServer(backend.HTTPServer.Engine())

	cfg.API.BaseURL = srv.URL + devapp.APIPrefix
	client, err := app.New(log, cfg)
	if err != nil {
		srv.Close()
		t.Fatalf("build client app: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)

	t.Cleanup(func() {
		client.Close()
		srv.Close()
		cancel()
	})

	return ctx, &Suite{
		Cfg:     cfg,
		Backend: backend,
		Server:  srv,
		App:     client,
	}
}

// Register signs a fresh fake user up directly on the backend and returns
// the credentials.
func (s *Suite) Register(ctx context.Context) (models.User, string, error) {
	password := gofakeit.Password(true, true, true, false, false, 12)
	user, _, err := s.Backend.Auth.Register(ctx, models.RegisterRequest{
		Email:     gofakeit.Email(),
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Password:  password,
	})
	return user, password, err
}

func configPath() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "config", "local.yaml")
}

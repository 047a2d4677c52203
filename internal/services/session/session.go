package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/14kear/pollboard/internal/api"
	"github.com/14kear/pollboard/internal/domain/models"
	"github.com/14kear/pollboard/internal/lib/failure"
	"github.com/14kear/pollboard/internal/lib/jwt"
	"github.com/14kear/pollboard/internal/state"
	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
)

const (
	MsgSignInFailed = "Failed to sign in"
	MsgSignUpFailed = "An error occurred. Please try again."
)

type Authenticator interface {
	Refresh(ctx context.Context) (string, error)
	Login(ctx context.Context, req models.LoginRequest) (string, error)
	Register(ctx context.Context, req models.RegisterRequest) (string, error)
	Logout(ctx context.Context) error
	OAuthLoginURL(provider api.Provider) string
}

type Session struct {
	log   *slog.Logger
	auth  Authenticator
	state *state.State
}

func New(log *slog.Logger, auth Authenticator, st *state.State) *Session {
	return &Session{
		log:   log,
		auth:  auth,
		state: st,
	}
}

// Load establishes the signed-in identity. When the state already holds a
// user it is returned without a request. Otherwise the refresh endpoint is
// called and the access token from its Authorization header is decoded.
// A missing or malformed header yields jwt.ErrNoToken, a token without
// three segments jwt.ErrInvalidToken, a non-2xx response *api.StatusError.
func (s *Session) Load(ctx context.Context) (models.User, error) {
	const op = "session.Load"

	if u, ok := s.state.User(); ok {
		return u, nil
	}

	log := s.log.With(slog.String("op", op))

	header, err := s.auth.Refresh(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	user, err := jwt.UserFromHeader(header)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	s.state.SetUser(user)
	log.Debug("session loaded", slog.String("user_id", user.ID))

	return user, nil
}

// Bootstrap runs Load once at startup. Having no token means the visitor
// is anonymous, which is not an error.
func (s *Session) Bootstrap(ctx context.Context) error {
	const op = "session.Bootstrap"

	log := s.log.With(slog.String("op", op))

	_, err := s.Load(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, jwt.ErrNoToken):
		log.Debug("no session, continuing anonymously")
		return nil
	case api.StatusCode(err) == http.StatusUnauthorized:
		log.Debug("refresh rejected, continuing anonymously", sl.Err(err))
		return nil
	default:
		log.Error("failed to load session", sl.Err(err))
		return err
	}
}

func (s *Session) Login(ctx context.Context, email, password string) (models.User, error) {
	const op = "session.Login"

	log := s.log.With(slog.String("op", op))

	header, err := s.auth.Login(ctx, models.LoginRequest{Email: email, Password: password})
	if err != nil {
		log.Warn("login failed", sl.Err(err))
		return models.User{}, failure.New(messageOr(err, MsgSignInFailed), fmt.Errorf("%s: %w", op, err))
	}

	return s.adopt(op, header)
}

func (s *Session) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	const op = "session.Register"

	log := s.log.With(slog.String("op", op))

	header, err := s.auth.Register(ctx, req)
	if err != nil {
		log.Warn("registration failed", sl.Err(err))
		return models.User{}, failure.New(messageOr(err, MsgSignUpFailed), fmt.Errorf("%s: %w", op, err))
	}

	return s.adopt(op, header)
}

// Logout ends the session on the backend, then tears down local state
// even when the backend call failed.
func (s *Session) Logout(ctx context.Context) error {
	const op = "session.Logout"

	log := s.log.With(slog.String("op", op))

	err := s.auth.Logout(ctx)
	s.state.Close()

	if err != nil {
		log.Warn("backend logout failed", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("signed out")
	return nil
}

func (s *Session) OAuthURL(provider api.Provider) string {
	return s.auth.OAuthLoginURL(provider)
}

func (s *Session) User() (models.User, bool) {
	return s.state.User()
}

func (s *Session) adopt(op, header string) (models.User, error) {
	user, err := jwt.UserFromHeader(header)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	s.state.SetUser(user)
	s.log.Info("signed in", slog.String("op", op), slog.String("user_id", user.ID))

	return user, nil
}

func messageOr(err error, fallback string) string {
	if msg := api.ServerMessage(err); msg != "" {
		return msg
	}
	return fallback
}

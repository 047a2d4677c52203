package profile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/14kear/pollboard/internal/api"
	"github.com/14kear/pollboard/internal/domain/models"
	"github.com/14kear/pollboard/internal/lib/failure"
	"github.com/14kear/pollboard/internal/state"
	"github.com/14kear/pollboard/internal/validation"
	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
)

// MaxAvatarSize is the largest avatar image accepted for upload.
const MaxAvatarSize = 5 << 20

const (
	MsgUpdateFailed   = "Failed to update profile"
	MsgAvatarFailed   = "Failed to upload avatar"
	MsgNotAnImage     = "Please select an image file (JPEG, PNG, etc.)"
	MsgAvatarTooLarge = "File size must be less than 5MB"
	MsgUsernameTaken  = "This username is already taken. Please choose another one."
	MsgUsernameFailed = "Failed to update username. Please try again."
	MsgStatsFailed    = "Failed to fetch stats"
	MsgDeleteFailed   = "Failed to delete account"
)

var (
	ErrNotAnImage     = errors.New("file is not an image")
	ErrAvatarTooLarge = errors.New("avatar exceeds size limit")
)

const profilePath = "/user-profile"

type AccountStore interface {
	UpdateProfile(ctx context.Context, update models.ProfileUpdate) error
	UploadAvatar(ctx context.Context, filename string, image io.Reader) (string, error)
	SetUsername(ctx context.Context, username string) error
	Stats(ctx context.Context) (models.UserStats, error)
	DeleteAccount(ctx context.Context) error
}

type Service struct {
	log            *slog.Logger
	store          AccountStore
	state          *state.State
	successDisplay time.Duration

	mu      sync.Mutex
	success bool
	timer   *time.Timer
}

func New(log *slog.Logger, store AccountStore, st *state.State, successDisplay time.Duration) *Service {
	if successDisplay <= 0 {
		successDisplay = 3 * time.Second
	}
	return &Service{
		log:            log,
		store:          store,
		state:          st,
		successDisplay: successDisplay,
	}
}

func (s *Service) UpdateProfile(ctx context.Context, form validation.Profile) error {
	const op = "profile.UpdateProfile"

	log := s.log.With(slog.String("op", op))

	if _, ok := s.state.User(); !ok {
		return fmt.Errorf("%s: %w", op, failure.SignIn(profilePath))
	}

	if err := form.Validate(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	update := form.Update()
	if err := s.store.UpdateProfile(ctx, update); err != nil {
		log.Error("failed to update profile", sl.Err(err))
		return failure.New(serverMessageOr(err, MsgUpdateFailed), fmt.Errorf("%s: %w", op, err))
	}

	s.state.UpdateUser(func(u models.User) models.User {
		u.FirstName = update.FirstName
		u.LastName = update.LastName
		u.Email = update.Email
		username := update.Username
		u.Username = &username
		return u
	})
	s.showSuccess()

	log.Info("profile updated")
	return nil
}

// UploadAvatar checks the image locally, uploads it and stores the
// returned picture URL on the signed-in user.
func (s *Service) UploadAvatar(ctx context.Context, filename string, image io.Reader) (string, error) {
	const op = "profile.UploadAvatar"

	log := s.log.With(slog.String("op", op), slog.String("filename", filename))

	if _, ok := s.state.User(); !ok {
		return "", fmt.Errorf("%s: %w", op, failure.SignIn(profilePath))
	}

	data, err := io.ReadAll(io.LimitReader(image, MaxAvatarSize+1))
	if err != nil {
		return "", failure.New(MsgAvatarFailed, fmt.Errorf("%s: %w", op, err))
	}
	if len(data) > MaxAvatarSize {
		return "", failure.New(MsgAvatarTooLarge, fmt.Errorf("%s: %w", op, ErrAvatarTooLarge))
	}
	if !strings.HasPrefix(http.DetectContentType(data), "image/") {
		return "", failure.New(MsgNotAnImage, fmt.Errorf("%s: %w", op, ErrNotAnImage))
	}

	url, err := s.store.UploadAvatar(ctx, filename, bytes.NewReader(data))
	if err != nil {
		log.Error("failed to upload avatar", sl.Err(err))
		return "", failure.New(serverMessageOr(err, MsgAvatarFailed), fmt.Errorf("%s: %w", op, err))
	}

	s.state.UpdateUser(func(u models.User) models.User {
		u.Picture = &url
		return u
	})

	log.Info("avatar uploaded", slog.Int("bytes", len(data)))
	return url, nil
}

func (s *Service) SetUsername(ctx context.Context, username string) error {
	const op = "profile.SetUsername"

	log := s.log.With(slog.String("op", op))

	if err := (validation.Username{Username: username}).Validate(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.store.SetUsername(ctx, username); err != nil {
		if api.IsConflict(err) {
			log.Info("username taken", slog.String("username", username))
			return failure.New(MsgUsernameTaken, fmt.Errorf("%s: %w", op, err))
		}
		log.Error("failed to set username", sl.Err(err))
		return failure.New(serverMessageOr(err, MsgUsernameFailed), fmt.Errorf("%s: %w", op, err))
	}

	s.state.UpdateUser(func(u models.User) models.User {
		u.Username = &username
		return u
	})
	return nil
}

func (s *Service) Stats(ctx context.Context) (models.UserStats, error) {
	const op = "profile.Stats"

	stats, err := s.store.Stats(ctx)
	if err != nil {
		s.log.Error("failed to fetch stats", slog.String("op", op), sl.Err(err))
		return models.UserStats{}, failure.New(MsgStatsFailed, fmt.Errorf("%s: %w", op, err))
	}
	return stats, nil
}

// DeleteAccount removes the account and ends the session.
func (s *Service) DeleteAccount(ctx context.Context) error {
	const op = "profile.DeleteAccount"

	log := s.log.With(slog.String("op", op))

	if _, ok := s.state.User(); !ok {
		return fmt.Errorf("%s: %w", op, failure.SignIn(profilePath))
	}

	if err := s.store.DeleteAccount(ctx); err != nil {
		log.Error("failed to delete account", sl.Err(err))
		return failure.New(MsgDeleteFailed, fmt.Errorf("%s: %w", op, err))
	}

	s.state.Close()

	log.Info("account deleted")
	return nil
}

// Success reports whether the last profile update is still being shown
// as saved.
func (s *Service) Success() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.success
}

func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Service) showSuccess() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.success = true
	if s.timer != nil {
		s.timer.Stop()
	}

	var t *time.Timer
	t = time.AfterFunc(s.successDisplay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.timer == t {
			s.success = false
			s.timer = nil
		}
	})
	s.timer = t
}

func serverMessageOr(err error, fallback string) string {
	if msg := api.ServerMessage(err); msg != "" {
		return msg
	}
	return fallback
}

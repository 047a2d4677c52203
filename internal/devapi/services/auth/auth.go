package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/14kear/pollboard/internal/devapi/storage"
	"github.com/14kear/pollboard/internal/domain/models"
	"github.com/14kear/pollboard/internal/lib/jwt"
	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
	"golang.org/x/crypto/bcrypt"
)

type Auth struct {
	log             *slog.Logger
	userSaver       UserSaver
	userProvider    UserProvider
	tokenStorage    TokenStorage
	secret          string
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

type UserSaver interface {
	SaveUser(ctx context.Context, acc storage.Account) (string, error)
}

type UserProvider interface {
	User(ctx context.Context, email string) (storage.Account, error)
	UserByID(ctx context.Context, id string) (storage.Account, error)
}

type TokenStorage interface {
	SaveToken(ctx context.Context, userID, token string, expiresAt time.Time) error
	IsRefreshTokenValid(ctx context.Context, userID, token string, now time.Time) (bool, error)
	DeleteRefreshToken(ctx context.Context, token string) error
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidToken       = errors.New("invalid refresh token")
)

// NewAuth returns a new instance of the Auth service
func NewAuth(
	log *slog.Logger,
	userSaver UserSaver,
	userProvider UserProvider,
	tokenStorage TokenStorage,
	secret string,
	accessTokenTTL time.Duration,
	refreshTokenTTL time.Duration,
) *Auth {
	return &Auth{
		log:             log,
		userSaver:       userSaver,
		userProvider:    userProvider,
		tokenStorage:    tokenStorage,
		secret:          secret,
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
	}
}

// Register creates the account and signs the new user in.
func (a *Auth) Register(ctx context.Context, req models.RegisterRequest) (models.User, *jwt.TokenPair, error) {
	const op = "auth.Register"

	log := a.log.With(slog.String("op", op))

	passHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))
		return models.User{}, nil, fmt.Errorf("%s: %w", op, err)
	}

	acc := storage.Account{
		User: models.User{
			Email:     strings.TrimSpace(req.Email),
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Role:      models.RoleUser,
		},
		PassHash: passHash,
	}

	id, err := a.userSaver.SaveUser(ctx, acc)
	if err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			log.Warn("user already exists", sl.Err(err))
			return models.User{}, nil, fmt.Errorf("%s: %w", op, ErrUserExists)
		}
		log.Error("failed to save user", sl.Err(err))
		return models.User{}, nil, fmt.Errorf("%s: %w", op, err)
	}
	acc.ID = id

	pair, err := a.Issue(ctx, acc.User)
	if err != nil {
		return models.User{}, nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user registered", slog.String("user_id", id))
	return acc.User, pair, nil
}

// Login checks the credentials and issues a token pair.
func (a *Auth) Login(ctx context.Context, email, password string) (models.User, *jwt.TokenPair, error) {
	const op = "auth.Login"

	log := a.log.With(slog.String("op", op))

	acc, err := a.userProvider.User(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Info("user not found", sl.Err(err))
			return models.User{}, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		log.Error("failed to get user", sl.Err(err))
		return models.User{}, nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(acc.PassHash, []byte(password)); err != nil {
		log.Info("invalid credentials", sl.Err(err))
		return models.User{}, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	pair, err := a.Issue(ctx, acc.User)
	if err != nil {
		return models.User{}, nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user logged in", slog.String("user_id", acc.ID))
	return acc.User, pair, nil
}

// Refresh rotates a refresh token. The new access token carries the
// user's current profile.
func (a *Auth) Refresh(ctx context.Context, refreshToken string) (models.User, *jwt.TokenPair, error) {
	const op = "auth.Refresh"

	log := a.log.With(slog.String("op", op))

	claims, err := jwt.ParseVerified(refreshToken, a.secret, jwt.TypeRefresh)
	if err != nil {
		return models.User{}, nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidToken, err)
	}

	valid, err := a.tokenStorage.IsRefreshTokenValid(ctx, claims.Subject, refreshToken, time.Now())
	if err != nil {
		return models.User{}, nil, fmt.Errorf("%s: %w", op, err)
	}
	if !valid {
		log.Info("refresh token revoked or unknown", slog.String("user_id", claims.Subject))
		return models.User{}, nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	acc, err := a.userProvider.UserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return models.User{}, nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}
		return models.User{}, nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := a.tokenStorage.DeleteRefreshToken(ctx, refreshToken); err != nil {
		return models.User{}, nil, fmt.Errorf("%s: %w", op, err)
	}

	pair, err := a.Issue(ctx, acc.User)
	if err != nil {
		return models.User{}, nil, fmt.Errorf("%s: %w", op, err)
	}

	return acc.User, pair, nil
}

func (a *Auth) Logout(ctx context.Context, refreshToken string) error {
	const op = "auth.Logout"

	if refreshToken == "" {
		return nil
	}
	if err := a.tokenStorage.DeleteRefreshToken(ctx, refreshToken); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Issue signs a fresh token pair for user and remembers the refresh token.
func (a *Auth) Issue(ctx context.Context, user models.User) (*jwt.TokenPair, error) {
	const op = "auth.Issue"

	pair, err := jwt.NewTokenPair(user, a.secret, a.accessTokenTTL, a.refreshTokenTTL)
	if err != nil {
		a.log.Error("failed to generate tokens", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := a.tokenStorage.SaveToken(ctx, user.ID, pair.RefreshToken, time.Now().Add(a.refreshTokenTTL)); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return pair, nil
}

// Verify checks an access token and returns the user it was issued to.
func (a *Auth) Verify(accessToken string) (models.User, error) {
	claims, err := jwt.ParseVerified(accessToken, a.secret, jwt.TypeAccess)
	if err != nil {
		return models.User{}, err
	}
	return claims.User(), nil
}

func (a *Auth) AccessTokenTTL() time.Duration  { return a.accessTokenTTL }
func (a *Auth) RefreshTokenTTL() time.Duration { return a.refreshTokenTTL }

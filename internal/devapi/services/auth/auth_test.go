package auth

import (
	"context"
	"testing"
	"time"

	"github.com/14kear/pollboard/internal/devapi/storage/memory"
	"github.com/14kear/pollboard/internal/domain/models"
	"github.com/14kear/pollboard/internal/lib/jwt"
	"github.com/14kear/pollboard/utils"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestAuth() *Auth {
	store := memory.New()
	return NewAuth(utils.Discard(), store, store, store, testSecret, time.Minute, time.Hour)
}

func fakeRegistration() models.RegisterRequest {
	return models.RegisterRequest{
		Email:     gofakeit.Email(),
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Password:  gofakeit.Password(true, true, true, false, false, 12),
	}
}

func TestAuth_RegisterLogin_HappyPath(t *testing.T) {
	a := newTestAuth()
	ctx := context.Background()
	req := fakeRegistration()

	user, pair, err := a.Register(ctx, req)
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, models.RoleUser, user.Role)
	require.NotNil(t, pair)

	claims, err := jwt.ParseVerified(pair.AccessToken, testSecret, jwt.TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.Subject)
	assert.Equal(t, req.Email, claims.Email)
	assert.Equal(t, req.FirstName, claims.FirstName)

	loggedIn, pair, err := a.Login(ctx, req.Email, req.Password)
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	verified, err := a.Verify(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, verified.ID)
}

func TestAuth_Register_Duplicate(t *testing.T) {
	a := newTestAuth()
	req := fakeRegistration()

	_, _, err := a.Register(context.Background(), req)
	require.NoError(t, err)

	_, _, err = a.Register(context.Background(), req)
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestAuth_Login_InvalidCredentials(t *testing.T) {
	a := newTestAuth()
	req := fakeRegistration()
	_, _, err := a.Register(context.Background(), req)
	require.NoError(t, err)

	_, _, err = a.Login(context.Background(), req.Email, "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = a.Login(context.Background(), gofakeit.Email(), req.Password)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuth_Refresh_RotatesToken(t *testing.T) {
	a := newTestAuth()
	ctx := context.Background()

	user, pair, err := a.Register(ctx, fakeRegistration())
	require.NoError(t, err)

	refreshed, next, err := a.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, refreshed.ID)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	_, _, err = a.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken, "old refresh token must be revoked")

	_, _, err = a.Refresh(ctx, next.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken, "access token is not a refresh token")
}

func TestAuth_Logout_RevokesRefreshToken(t *testing.T) {
	a := newTestAuth()
	ctx := context.Background()

	_, pair, err := a.Register(ctx, fakeRegistration())
	require.NoError(t, err)

	require.NoError(t, a.Logout(ctx, pair.RefreshToken))
	require.NoError(t, a.Logout(ctx, ""))

	_, _, err = a.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

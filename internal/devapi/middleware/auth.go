package middleware

import (
	"context"
	"net/http"

	"github.com/14kear/pollboard/internal/domain/models"
	"github.com/14kear/pollboard/internal/lib/jwt"
	"github.com/gin-gonic/gin"
)

const (
	AccessCookie  = "accessToken"
	RefreshCookie = "refreshToken"

	userKey = "user"
)

type TokenVerifier interface {
	Verify(accessToken string) (models.User, error)
}

// UserLoader reloads the account behind a token so that profile changes
// and deletions made after issue are seen.
type UserLoader interface {
	User(ctx context.Context, id string) (models.User, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
	users    UserLoader
}

func NewAuthMiddleware(verifier TokenVerifier, users UserLoader) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, users: users}
}

// Required rejects requests without a valid access token.
func (m *AuthMiddleware) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := m.authenticate(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// Optional identifies the caller when it can and lets anonymous requests
// through.
func (m *AuthMiddleware) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, ok := m.authenticate(c); ok {
			c.Set(userKey, user)
		}
		c.Next()
	}
}

func (m *AuthMiddleware) authenticate(c *gin.Context) (models.User, bool) {
	token := extractToken(c)
	if token == "" {
		return models.User{}, false
	}

	claimed, err := m.verifier.Verify(token)
	if err != nil {
		return models.User{}, false
	}

	user, err := m.users.User(c.Request.Context(), claimed.ID)
	if err != nil {
		return models.User{}, false
	}
	return user, true
}

// extractToken prefers the Authorization header over the access cookie.
func extractToken(c *gin.Context) string {
	if token, err := jwt.ExtractBearer(c.GetHeader("Authorization")); err == nil {
		return token
	}
	if cookie, err := c.Cookie(AccessCookie); err == nil {
		return cookie
	}
	return ""
}

// CurrentUser returns the user set by Required or Optional.
func CurrentUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}

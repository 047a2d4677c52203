package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/14kear/pollboard/internal/devapi/middleware"
	"github.com/14kear/pollboard/internal/devapi/services/auth"
	"github.com/14kear/pollboard/internal/domain/models"
	"github.com/14kear/pollboard/internal/lib/jwt"
	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	log    *slog.Logger
	auth   *auth.Auth
	secure bool
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Password  string `json:"password" binding:"required,min=6"`
}

// NewAuthHandler serves the auth endpoints. secure marks the session
// cookies Secure, which browsers require outside localhost.
func NewAuthHandler(log *slog.Logger, auth *auth.Auth, secure bool) *AuthHandler {
	return &AuthHandler{log: log, auth: auth, secure: secure}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	user, pair, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		h.internalError(c, "login", err)
		return
	}

	h.setSession(c, pair)
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	user, pair, err := h.auth.Register(c.Request.Context(), models.RegisterRequest{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "user already exists"})
			return
		}
		h.internalError(c, "register", err)
		return
	}

	h.setSession(c, pair)
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// Refresh rotates the refresh cookie and answers with a new access token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	token, err := c.Cookie(middleware.RefreshCookie)
	if err != nil || token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing refresh token"})
		return
	}

	user, pair, err := h.auth.Refresh(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			h.clearSession(c)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
			return
		}
		h.internalError(c, "refresh", err)
		return
	}

	h.setSession(c, pair)
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	token, _ := c.Cookie(middleware.RefreshCookie)
	if err := h.auth.Logout(c.Request.Context(), token); err != nil {
		h.internalError(c, "logout", err)
		return
	}

	h.clearSession(c)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// OAuthLogin answers provider logins. The development backend has no
// provider credentials, so known providers report 501.
func (h *AuthHandler) OAuthLogin(c *gin.Context) {
	switch provider := c.Param("provider"); provider {
	case "github", "google":
		c.JSON(http.StatusNotImplemented, gin.H{"error": provider + " sign-in is not configured"})
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown provider"})
	}
}

func (h *AuthHandler) setSession(c *gin.Context, pair *jwt.TokenPair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessCookie, pair.AccessToken, int(h.auth.AccessTokenTTL().Seconds()), "/", "", h.secure, true)
	c.SetCookie(middleware.RefreshCookie, pair.RefreshToken, int(h.auth.RefreshTokenTTL().Seconds()), "/", "", h.secure, true)
	c.Header("Authorization", "Bearer "+pair.AccessToken)
}

func (h *AuthHandler) clearSession(c *gin.Context) {
	clearSession(c, h.secure)
}

func clearSession(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessCookie, "", -1, "/", "", secure, true)
	c.SetCookie(middleware.RefreshCookie, "", -1, "/", "", secure, true)
}

func (h *AuthHandler) internalError(c *gin.Context, action string, err error) {
	h.log.Error(action+" failed", sl.Err(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

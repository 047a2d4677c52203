package jwt

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/14kear/pollboard/internal/domain/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrNoToken      = errors.New("no token found")
	ErrInvalidToken = errors.New("invalid token")
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Claims is the payload the backend puts in access and refresh tokens.
type Claims struct {
	Email      string  `json:"email"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Username   *string `json:"username,omitempty"`
	PictureURL *string `json:"picture_url"`
	Role       string  `json:"role"`
	Type       string  `json:"typ,omitempty"`
	jwt.RegisteredClaims
}

func (c Claims) User() models.User {
	return models.User{
		ID:        c.Subject,
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Username:  c.Username,
		Picture:   c.PictureURL,
		Role:      c.Role,
	}
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// ExtractBearer returns the token of an "Authorization: Bearer <token>" value.
func ExtractBearer(header string) (string, error) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrNoToken
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// ParseUser decodes the payload segment of token into a user. The
// signature is not checked: the client trusts the backend that issued it.
func ParseUser(token string) (models.User, error) {
	claims, err := ParseClaims(token)
	if err != nil {
		return models.User{}, err
	}
	return claims.User(), nil
}

func ParseClaims(token string) (Claims, error) {
	const op = "jwt.ParseClaims"

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return Claims{}, fmt.Errorf("%s: %d segments: %w", op, len(parts), ErrInvalidToken)
	}

	// Accept the standard base64 alphabet as well as base64url.
	segment := strings.NewReplacer("+", "-", "/", "_").Replace(parts[1])

	parser := jwt.NewParser(jwt.WithPaddingAllowed())
	payload, err := parser.DecodeSegment(segment)
	if err != nil {
		return Claims{}, fmt.Errorf("%s: decode payload: %w: %w", op, ErrInvalidToken, err)
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return Claims{}, fmt.Errorf("%s: unmarshal payload: %w: %w", op, ErrInvalidToken, err)
	}

	return claims, nil
}

// UserFromHeader decodes the user out of an Authorization header value.
func UserFromHeader(header string) (models.User, error) {
	token, err := ExtractBearer(header)
	if err != nil {
		return models.User{}, err
	}
	return ParseUser(token)
}

func NewTokenPair(user models.User, secret string, accessTTL, refreshTTL time.Duration) (*TokenPair, error) {
	accessToken, err := newToken(user, secret, TypeAccess, accessTTL)
	if err != nil {
		return nil, err
	}

	refreshToken, err := newToken(user, secret, TypeRefresh, refreshTTL)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func newToken(user models.User, secret, typ string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Username:   user.Username,
		PictureURL: user.Picture,
		Role:       user.Role,
		Type:       typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseVerified checks the HMAC signature, expiry and token type.
func ParseVerified(token, secret, typ string) (Claims, error) {
	const op = "jwt.ParseVerified"

	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("%s: %w: %w", op, ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return Claims{}, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}
	if claims.Type != typ {
		return Claims{}, fmt.Errorf("%s: expected %s token, got %q: %w", op, typ, claims.Type, ErrInvalidToken)
	}

	return claims, nil
}

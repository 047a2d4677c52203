package api

import (
	"context"
	"net/http"

	"github.com/14kear/pollboard/internal/domain/models"
)

type Provider string

const (
	ProviderGitHub Provider = "github"
	ProviderGoogle Provider = "google"
)

// Login posts the credentials and returns the Authorization response
// header, which carries the access token.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	header, err := c.doJSON(ctx, http.MethodPost, "auth/login", nil, req, nil)
	if err != nil {
		return "", err
	}
	return header.Get("Authorization"), nil
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (string, error) {
	header, err := c.doJSON(ctx, http.MethodPost, "auth/register", nil, req, nil)
	if err != nil {
		return "", err
	}
	return header.Get("Authorization"), nil
}

// Refresh exchanges the refresh cookie for a new access token and returns
// the Authorization response header.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	header, err := c.doJSON(ctx, http.MethodPost, "auth/refresh", nil, nil, nil)
	if err != nil {
		return "", err
	}
	return header.Get("Authorization"), nil
}

func (c *Client) Logout(ctx context.Context) error {
	_, err := c.doJSON(ctx, http.MethodPost, "auth/logout", nil, nil, nil)
	return err
}

// OAuthLoginURL is where the user agent is sent to start a provider login.
func (c *Client) OAuthLoginURL(provider Provider) string {
	return c.endpoint("auth/"+string(provider)+"/login", nil)
}

package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/14kear/pollboard/internal/domain/models"
)

const AvatarField = "avatar"

func (c *Client) UpdateProfile(ctx context.Context, update models.ProfileUpdate) error {
	_, err := c.doJSON(ctx, http.MethodPut, "users/profile", nil, update, nil)
	return err
}

// UploadAvatar sends the image as multipart form data and returns the
// picture URL the backend stored.
func (c *Client) UploadAvatar(ctx context.Context, filename string, image io.Reader) (string, error) {
	const path = "users/avatar"

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile(AvatarField, filename)
	if err != nil {
		return "", fmt.Errorf("POST %s: %w", path, err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return "", fmt.Errorf("POST %s: read image: %w", path, err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("POST %s: %w", path, err)
	}

	var resp struct {
		PictureURL string `json:"pictureUrl"`
	}
	if _, err := c.do(ctx, http.MethodPost, path, nil, &buf, form.FormDataContentType(), &resp); err != nil {
		return "", err
	}
	return resp.PictureURL, nil
}

// SetUsername posts the username as a bare JSON string.
func (c *Client) SetUsername(ctx context.Context, username string) error {
	_, err := c.doJSON(ctx, http.MethodPost, "users/username", nil, username, nil)
	return err
}

func (c *Client) Stats(ctx context.Context) (models.UserStats, error) {
	var stats models.UserStats
	if _, err := c.doJSON(ctx, http.MethodGet, "users/stats", nil, nil, &stats); err != nil {
		return models.UserStats{}, err
	}
	return stats, nil
}

func (c *Client) DeleteAccount(ctx context.Context) error {
	_, err := c.doJSON(ctx, http.MethodDelete, "users", nil, nil, nil)
	return err
}

package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/14kear/pollboard/internal/domain/models"
)

func commentsPath(pollID string) string {
	return pollPath(pollID) + "/comments"
}

func (c *Client) Comments(ctx context.Context, pollID string) ([]models.Comment, error) {
	var comments []models.Comment
	if _, err := c.doJSON(ctx, http.MethodGet, commentsPath(pollID), nil, nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (c *Client) PostComment(ctx context.Context, pollID string, comment models.NewComment) (models.Comment, error) {
	var created models.Comment
	if _, err := c.doJSON(ctx, http.MethodPost, commentsPath(pollID), nil, comment, &created); err != nil {
		return models.Comment{}, err
	}
	return created, nil
}

func (c *Client) DeleteComment(ctx context.Context, pollID, commentID string) error {
	_, err := c.doJSON(ctx, http.MethodDelete, commentsPath(pollID)+"/"+url.PathEscape(commentID), nil, nil, nil)
	return err
}

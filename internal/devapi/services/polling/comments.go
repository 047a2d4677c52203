package polling

import (
	"context"
	"fmt"
	"strings"

	"github.com/14kear/pollboard/internal/domain/models"
)

func (v *Polling) Comments(ctx context.Context, pollID string) ([]models.Comment, error) {
	const op = "polling.Comments"

	comments, err := v.comments.Comments(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return comments, nil
}

// AddComment posts on behalf of user. The display name and picture come
// from the request when given, else from the stored profile.
func (v *Polling) AddComment(ctx context.Context, user models.User, pollID string, req models.NewComment) (models.Comment, error) {
	const op = "polling.AddComment"

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return models.Comment{}, fmt.Errorf("%s: %w: content is required", op, ErrValidation)
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		username = user.DisplayName()
	}
	picture := req.UserPicture
	if picture == nil {
		picture = user.Picture
	}

	c, err := v.comments.SaveComment(ctx, models.Comment{
		PollID:      pollID,
		UserID:      user.ID,
		Username:    username,
		UserPicture: picture,
		Content:     content,
		CreatedAt:   v.now().UTC(),
	})
	if err != nil {
		return models.Comment{}, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// DeleteComment removes a comment. Only its author or an admin may do so.
func (v *Polling) DeleteComment(ctx context.Context, user models.User, pollID, commentID string) error {
	const op = "polling.DeleteComment"

	c, err := v.comments.Comment(ctx, pollID, commentID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if c.UserID != user.ID && !user.IsAdmin() {
		return fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	if err := v.comments.DeleteComment(ctx, pollID, commentID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

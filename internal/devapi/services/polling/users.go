package polling

import (
	"context"
	"fmt"
	"strings"

	"github.com/14kear/pollboard/internal/domain/models"
)

func (v *Polling) User(ctx context.Context, id string) (models.User, error) {
	const op = "polling.User"

	acc, err := v.users.UserByID(ctx, id)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return acc.User, nil
}

func (v *Polling) UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) (models.User, error) {
	const op = "polling.UpdateProfile"

	update.FirstName = strings.TrimSpace(update.FirstName)
	update.LastName = strings.TrimSpace(update.LastName)
	update.Email = strings.TrimSpace(update.Email)
	update.Username = strings.TrimSpace(update.Username)

	switch {
	case update.FirstName == "":
		return models.User{}, fmt.Errorf("%w: first name is required", ErrValidation)
	case update.LastName == "":
		return models.User{}, fmt.Errorf("%w: last name is required", ErrValidation)
	case update.Email == "":
		return models.User{}, fmt.Errorf("%w: email is required", ErrValidation)
	}

	user, err := v.users.UpdateUser(ctx, userID, update)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

func (v *Polling) SetUsername(ctx context.Context, userID, username string) (models.User, error) {
	const op = "polling.SetUsername"

	username = strings.TrimSpace(username)
	if len(username) < 3 {
		return models.User{}, fmt.Errorf("%w: username must be at least 3 characters long", ErrValidation)
	}

	user, err := v.users.SetUsername(ctx, userID, username)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

func (v *Polling) SetPicture(ctx context.Context, userID, picture string) (models.User, error) {
	const op = "polling.SetPicture"

	user, err := v.users.SetPicture(ctx, userID, picture)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

func (v *Polling) Stats(ctx context.Context, userID string) (models.UserStats, error) {
	const op = "polling.Stats"

	stats, err := v.users.Stats(ctx, userID)
	if err != nil {
		return models.UserStats{}, fmt.Errorf("%s: %w", op, err)
	}
	return stats, nil
}

func (v *Polling) DeleteAccount(ctx context.Context, userID string) error {
	const op = "polling.DeleteAccount"

	if err := v.users.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

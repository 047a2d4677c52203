package app

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/14kear/pollboard/internal/domain/models"
	"github.com/brianvoe/gofakeit/v7"
)

// SeedPassword is the password of every seeded account.
const SeedPassword = "password123"

// Seed fills the backend with n polls spread over a handful of fake users
// who vote and comment on each other's polls. It returns the seeded
// accounts' emails.
func (a *App) Seed(ctx context.Context, log *slog.Logger, n int) ([]string, error) {
	const op = "app.Seed"

	if n <= 0 {
		return nil, nil
	}

	users := make([]models.User, 0, 5)
	for range cap(users) {
		user, _, err := a.Auth.Register(ctx, models.RegisterRequest{
			Email:     gofakeit.Email(),
			FirstName: gofakeit.FirstName(),
			LastName:  gofakeit.LastName(),
			Password:  SeedPassword,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		users = append(users, user)
	}

	for range n {
		creator := users[gofakeit.IntRange(0, len(users)-1)]

		req := models.NewPoll{
			Title:       gofakeit.Question(),
			Description: gofakeit.Sentence(10),
			Category:    models.Categories[gofakeit.IntRange(0, len(models.Categories)-1)],
			ExpiresAt:   strconv.Itoa(gofakeit.IntRange(1, 14)),
		}
		for i := range gofakeit.IntRange(2, 5) {
			req.Options = append(req.Options, models.NewPollOption{ID: i + 1, Name: gofakeit.Word()})
		}

		poll, err := a.Polling.CreatePoll(ctx, creator.ID, req)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		for _, voter := range users {
			if !gofakeit.Bool() {
				continue
			}
			option := poll.Options[gofakeit.IntRange(0, len(poll.Options)-1)]
			if _, err := a.Polling.Vote(ctx, voter.ID, poll.ID, option.ID); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			if gofakeit.Bool() {
				if _, err := a.Polling.AddComment(ctx, voter, poll.ID, models.NewComment{Content: gofakeit.Sentence(8)}); err != nil {
					return nil, fmt.Errorf("%s: %w", op, err)
				}
			}
		}
	}

	emails := make([]string, 0, len(users))
	for _, u := range users {
		emails = append(emails, u.Email)
	}

	log.Info("seeded backend", slog.Int("polls", n), slog.Int("users", len(users)))
	return emails, nil
}

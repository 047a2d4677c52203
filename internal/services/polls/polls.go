package polls

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/14kear/pollboard/internal/api"
	"github.com/14kear/pollboard/internal/domain/models"
	"github.com/14kear/pollboard/internal/lib/failure"
	"github.com/14kear/pollboard/internal/state"
	"github.com/14kear/pollboard/internal/validation"
	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
)

const (
	MsgFetchFailed  = "Failed to fetch poll data"
	MsgRecentFailed = "Failed to fetch polls"
	MsgCreateFailed = "Failed to create poll. Please try again."
	MsgDeleteFailed = "Failed to delete poll"
)

type PageLister interface {
	ListPolls(ctx context.Context, path string, q api.PageQuery) ([]models.Poll, error)
}

type PollStore interface {
	Poll(ctx context.Context, id string) (models.Poll, error)
	RecentPolls(ctx context.Context) ([]models.Poll, error)
	CreatePoll(ctx context.Context, poll models.NewPoll) error
	DeletePoll(ctx context.Context, id string) error
}

// Service opens, creates and deletes single polls.
type Service struct {
	log   *slog.Logger
	store PollStore
	state *state.State
}

func NewService(log *slog.Logger, store PollStore, st *state.State) *Service {
	return &Service{
		log:   log,
		store: store,
		state: st,
	}
}

// Get fetches a poll and makes it the current poll.
func (s *Service) Get(ctx context.Context, id string) (models.Poll, error) {
	const op = "polls.Get"

	log := s.log.With(slog.String("op", op), slog.String("poll_id", id))

	poll, err := s.store.Poll(ctx, id)
	if err != nil {
		log.Error("failed to fetch poll", sl.Err(err))
		msg := MsgFetchFailed
		if server := api.ServerMessage(err); server != "" {
			msg = server
		}
		return models.Poll{}, failure.New(msg, fmt.Errorf("%s: %w", op, err))
	}

	s.state.UpdatePoll(func(*models.Poll) *models.Poll {
		return &poll
	})

	return poll, nil
}

func (s *Service) Recent(ctx context.Context) ([]models.Poll, error) {
	const op = "polls.Recent"

	polls, err := s.store.RecentPolls(ctx)
	if err != nil {
		s.log.Error("failed to fetch recent polls", slog.String("op", op), sl.Err(err))
		return nil, failure.New(MsgRecentFailed, fmt.Errorf("%s: %w", op, err))
	}
	return polls, nil
}

// Create validates the form and submits it on behalf of the signed-in
// user. Validation failures come back as validation.FieldErrors and no
// request is made.
func (s *Service) Create(ctx context.Context, form validation.CreatePoll) error {
	const op = "polls.Create"

	log := s.log.With(slog.String("op", op))

	user, ok := s.state.User()
	if !ok {
		return fmt.Errorf("%s: %w", op, failure.SignIn("/dashboard/create-poll"))
	}

	if err := form.Validate(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	poll := models.NewPoll{
		Title:       strings.TrimSpace(form.Title),
		Category:    form.Category,
		ExpiresAt:   strconv.Itoa(form.Days),
		Description: strings.TrimSpace(form.Description),
		UserID:      user.ID,
		Options:     make([]models.NewPollOption, 0, len(form.Options)),
	}
	for i, name := range form.Options {
		poll.Options = append(poll.Options, models.NewPollOption{ID: i + 1, Name: strings.TrimSpace(name)})
	}

	if err := s.store.CreatePoll(ctx, poll); err != nil {
		log.Error("failed to create poll", sl.Err(err))
		return failure.New(MsgCreateFailed, fmt.Errorf("%s: %w", op, err))
	}

	log.Info("poll created", slog.String("title", poll.Title))
	return nil
}

// Delete removes a poll and drops it from the current poll and the
// cached pages.
func (s *Service) Delete(ctx context.Context, id string) error {
	const op = "polls.Delete"

	log := s.log.With(slog.String("op", op), slog.String("poll_id", id))

	if _, ok := s.state.User(); !ok {
		return fmt.Errorf("%s: %w", op, failure.SignIn("/polls/"+id))
	}

	if err := s.store.DeletePoll(ctx, id); err != nil {
		log.Error("failed to delete poll", sl.Err(err))
		return failure.New(MsgDeleteFailed, fmt.Errorf("%s: %w", op, err))
	}

	s.state.UpdatePoll(func(prev *models.Poll) *models.Poll {
		if prev != nil && prev.ID == id {
			return nil
		}
		return prev
	})
	s.state.UpdatePages(func(pages map[int][]models.Poll) map[int][]models.Poll {
		for n, page := range pages {
			pages[n] = slices.DeleteFunc(page, func(p models.Poll) bool { return p.ID == id })
		}
		return pages
	})

	log.Info("poll deleted")
	return nil
}

package polling

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/14kear/pollboard/internal/devapi/storage"
	"github.com/14kear/pollboard/internal/domain/models"
	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
	RecentCount  = 5
)

var (
	ErrValidation = errors.New("validation error")
	ErrForbidden  = errors.New("forbidden")
	ErrPollClosed = errors.New("poll is closed")
)

type PollStorage interface {
	SavePoll(ctx context.Context, rec storage.PollRecord) (string, error)
	Poll(ctx context.Context, id string) (storage.PollRecord, error)
	Polls(ctx context.Context, f storage.PollFilter) ([]storage.PollRecord, error)
	DeletePoll(ctx context.Context, id string) error
}

type VoteStorage interface {
	SaveVote(ctx context.Context, pollID, userID, optionID string) (models.Vote, error)
	UserVote(ctx context.Context, pollID, userID string) (*models.Vote, error)
}

type CommentStorage interface {
	SaveComment(ctx context.Context, c models.Comment) (models.Comment, error)
	Comments(ctx context.Context, pollID string) ([]models.Comment, error)
	Comment(ctx context.Context, pollID, id string) (models.Comment, error)
	DeleteComment(ctx context.Context, pollID, id string) error
	CommentCount(ctx context.Context, pollID string) (int, error)
}

type UserStorage interface {
	UserByID(ctx context.Context, id string) (storage.Account, error)
	UpdateUser(ctx context.Context, id string, update models.ProfileUpdate) (models.User, error)
	SetUsername(ctx context.Context, id, username string) (models.User, error)
	SetPicture(ctx context.Context, id, picture string) (models.User, error)
	DeleteUser(ctx context.Context, id string) error
	Stats(ctx context.Context, userID string) (models.UserStats, error)
}

// Polling is the backend's poll board: polls with their derived lifecycle,
// votes, comments and the profile endpoints.
type Polling struct {
	log      *slog.Logger
	polls    PollStorage
	votes    VoteStorage
	comments CommentStorage
	users    UserStorage
	now      func() time.Time
}

func New(
	log *slog.Logger,
	polls PollStorage,
	votes VoteStorage,
	comments CommentStorage,
	users UserStorage,
) *Polling {
	return &Polling{
		log:      log,
		polls:    polls,
		votes:    votes,
		comments: comments,
		users:    users,
		now:      time.Now,
	}
}

// Page is a window into a poll collection.
type Page struct {
	Limit    int
	Offset   int
	Category models.Category
}

func (p Page) normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

func (v *Polling) Active(ctx context.Context, viewerID string, page Page) ([]models.Poll, error) {
	const op = "polling.Active"

	page = page.normalize()
	return v.list(ctx, op, viewerID, page, storage.PollFilter{Category: page.Category, ActiveAt: v.now()})
}

func (v *Polling) Finished(ctx context.Context, viewerID string, page Page) ([]models.Poll, error) {
	const op = "polling.Finished"

	page = page.normalize()
	return v.list(ctx, op, viewerID, page, storage.PollFilter{Category: page.Category, FinishedAt: v.now()})
}

func (v *Polling) ByUser(ctx context.Context, viewerID, creatorID string, page Page) ([]models.Poll, error) {
	const op = "polling.ByUser"

	page = page.normalize()
	return v.list(ctx, op, viewerID, page, storage.PollFilter{Category: page.Category, CreatorID: creatorID})
}

// Recent lists the viewer's latest polls, or everyone's for anonymous
// viewers.
func (v *Polling) Recent(ctx context.Context, viewerID string) ([]models.Poll, error) {
	const op = "polling.Recent"

	return v.list(ctx, op, viewerID, Page{Limit: RecentCount}, storage.PollFilter{CreatorID: viewerID})
}

func (v *Polling) list(ctx context.Context, op, viewerID string, page Page, f storage.PollFilter) ([]models.Poll, error) {
	recs, err := v.polls.Polls(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if page.Offset >= len(recs) {
		return []models.Poll{}, nil
	}
	recs = recs[page.Offset:min(len(recs), page.Offset+page.Limit)]

	now := v.now()
	out := make([]models.Poll, 0, len(recs))
	for _, rec := range recs {
		p, err := v.present(ctx, rec, viewerID, now)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func (v *Polling) Poll(ctx context.Context, viewerID, id string) (models.Poll, error) {
	const op = "polling.Poll"

	rec, err := v.polls.Poll(ctx, id)
	if err != nil {
		return models.Poll{}, fmt.Errorf("%s: %w", op, err)
	}
	return v.present(ctx, rec, viewerID, v.now())
}

// CreatePoll stores a poll open for the number of days in req.ExpiresAt.
func (v *Polling) CreatePoll(ctx context.Context, creatorID string, req models.NewPoll) (models.Poll, error) {
	const op = "polling.CreatePoll"

	log := v.log.With(slog.String("op", op), slog.String("creator_id", creatorID))

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return models.Poll{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if !req.Category.Valid() {
		return models.Poll{}, fmt.Errorf("%w: unknown category %q", ErrValidation, req.Category)
	}
	days, err := strconv.Atoi(strings.TrimSpace(req.ExpiresAt))
	if err != nil || days < 1 {
		return models.Poll{}, fmt.Errorf("%w: duration must be at least 1 day", ErrValidation)
	}
	if len(req.Options) < 2 {
		return models.Poll{}, fmt.Errorf("%w: a poll needs at least 2 options", ErrValidation)
	}

	now := v.now()
	rec := storage.PollRecord{
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Category:    req.Category,
		CreatorID:   creatorID,
		CreatedAt:   now,
		ExpiresAt:   now.Add(time.Duration(days) * 24 * time.Hour),
	}
	for _, o := range req.Options {
		name := strings.TrimSpace(o.Name)
		if name == "" {
			return models.Poll{}, fmt.Errorf("%w: options must have text", ErrValidation)
		}
		rec.Options = append(rec.Options, models.PollOption{Name: name})
	}

	id, err := v.polls.SavePoll(ctx, rec)
	if err != nil {
		log.Error("failed to save poll", sl.Err(err))
		return models.Poll{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("poll created", slog.String("poll_id", id))
	return v.Poll(ctx, creatorID, id)
}

// DeletePoll removes a poll. Only its creator or an admin may do so.
func (v *Polling) DeletePoll(ctx context.Context, user models.User, id string) error {
	const op = "polling.DeletePoll"

	rec, err := v.polls.Poll(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rec.CreatorID != user.ID && !user.IsAdmin() {
		return fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	if err := v.polls.DeletePoll(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Vote records the user's choice on an open poll and returns the poll with
// updated counts.
func (v *Polling) Vote(ctx context.Context, userID, pollID, optionID string) (models.Poll, error) {
	const op = "polling.Vote"

	rec, err := v.polls.Poll(ctx, pollID)
	if err != nil {
		return models.Poll{}, fmt.Errorf("%s: %w", op, err)
	}
	if !v.now().Before(rec.ExpiresAt) {
		return models.Poll{}, fmt.Errorf("%s: %w", op, ErrPollClosed)
	}

	if _, err := v.votes.SaveVote(ctx, pollID, userID, optionID); err != nil {
		return models.Poll{}, fmt.Errorf("%s: %w", op, err)
	}

	return v.Poll(ctx, userID, pollID)
}

func (v *Polling) present(ctx context.Context, rec storage.PollRecord, viewerID string, now time.Time) (models.Poll, error) {
	p := models.Poll{
		ID:          rec.ID,
		Title:       rec.Title,
		Creator:     rec.CreatorID,
		Description: rec.Description,
		Category:    rec.Category,
		Options:     rec.Options,
		ExpiresAt:   rec.ExpiresAt,
	}
	for _, o := range rec.Options {
		p.Votes += o.Count
	}

	count, err := v.comments.CommentCount(ctx, rec.ID)
	if err != nil {
		return models.Poll{}, err
	}
	p.Comments = count

	if viewerID != "" {
		vote, err := v.votes.UserVote(ctx, rec.ID, viewerID)
		if err != nil {
			return models.Poll{}, err
		}
		p.UserVote = vote
	}

	p.State = Lifecycle(rec, now)
	return p, nil
}

// Lifecycle derives a poll's state at now: open polls report whole days
// left rounded up, closed ones their winner.
func Lifecycle(rec storage.PollRecord, now time.Time) models.Lifecycle {
	if now.Before(rec.ExpiresAt) {
		left := rec.ExpiresAt.Sub(now)
		days := int(left / (24 * time.Hour))
		if left%(24*time.Hour) != 0 {
			days++
		}
		return models.Active{DaysLeft: days}
	}
	return models.Finished{EndedAt: rec.ExpiresAt, Winner: Winner(rec.Options)}
}

// Winner is the option with the most votes, or a draw when the top count
// is shared or there are no options.
func Winner(options []models.PollOption) models.Winner {
	best, tied := -1, false
	var id string
	for _, o := range options {
		switch {
		case o.Count > best:
			best, id, tied = o.Count, o.ID, false
		case o.Count == best:
			tied = true
		}
	}
	if id == "" || tied {
		return models.DrawWinner
	}
	return models.Winner(id)
}

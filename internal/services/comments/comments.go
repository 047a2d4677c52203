package comments

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/14kear/pollboard/internal/domain/models"
	"github.com/14kear/pollboard/internal/lib/failure"
	"github.com/14kear/pollboard/internal/state"
	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
	"github.com/dustin/go-humanize"
)

const (
	MsgLoadFailed   = "Failed to load comments. Please try again."
	MsgSubmitFailed = "Failed to submit comment. Please try again."
	MsgDeleteFailed = "Failed to delete comment. Please try again."
)

type CommentStore interface {
	Comments(ctx context.Context, pollID string) ([]models.Comment, error)
	PostComment(ctx context.Context, pollID string, comment models.NewComment) (models.Comment, error)
	DeleteComment(ctx context.Context, pollID, commentID string) error
}

type Status struct {
	Loading    bool
	Submitting bool
	Error      string
}

// Thread is the discussion under one poll, newest comment first.
type Thread struct {
	log    *slog.Logger
	store  CommentStore
	state  *state.State
	pollID string

	mu       sync.Mutex
	comments []models.Comment
	status   Status
	fetching bool
}

func NewThread(log *slog.Logger, store CommentStore, st *state.State, pollID string) *Thread {
	return &Thread{
		log:    log.With(slog.String("poll_id", pollID)),
		store:  store,
		state:  st,
		pollID: pollID,
	}
}

// Load fetches the thread. It is a no-op while another fetch, manual or
// from Watch, is still in flight.
func (t *Thread) Load(ctx context.Context) error {
	if !t.begin() {
		t.log.Debug("fetch in flight, skipping load", slog.String("op", "comments.Load"))
		return nil
	}

	return t.load(ctx)
}

// begin marks a fetch as started unless one already is.
func (t *Thread) begin() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.fetching {
		return false
	}
	t.status.Loading = true
	t.fetching = true
	return true
}

func (t *Thread) load(ctx context.Context) error {
	const op = "comments.Load"

	comments, err := t.store.Comments(ctx, t.pollID)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.status.Loading = false
	t.fetching = false

	if err != nil {
		t.log.Error("failed to fetch comments", slog.String("op", op), sl.Err(err))
		t.status.Error = MsgLoadFailed
		return failure.New(MsgLoadFailed, fmt.Errorf("%s: %w", op, err))
	}

	t.comments = comments
	t.status.Error = ""
	return nil
}

// Submit posts content as the signed-in user and puts the new comment at
// the top of the thread. Blank content is ignored.
func (t *Thread) Submit(ctx context.Context, content string) error {
	const op = "comments.Submit"

	user, ok := t.state.User()
	if !ok {
		return fmt.Errorf("%s: %w", op, failure.SignIn("/polls/"+t.pollID))
	}

	if strings.TrimSpace(content) == "" {
		return nil
	}

	t.mu.Lock()
	t.status.Submitting = true
	t.mu.Unlock()

	created, err := t.store.PostComment(ctx, t.pollID, models.NewComment{
		Username:    user.DisplayName(),
		Content:     content,
		UserPicture: user.Picture,
	})

	t.mu.Lock()
	defer t.mu.Unlock()

	t.status.Submitting = false

	if err != nil {
		t.log.Error("failed to submit comment", slog.String("op", op), sl.Err(err))
		t.status.Error = MsgSubmitFailed
		return failure.New(MsgSubmitFailed, fmt.Errorf("%s: %w", op, err))
	}

	t.comments = append([]models.Comment{created}, t.comments...)
	return nil
}

func (t *Thread) Delete(ctx context.Context, commentID string) error {
	const op = "comments.Delete"

	if _, ok := t.state.User(); !ok {
		return fmt.Errorf("%s: %w", op, failure.SignIn("/polls/"+t.pollID))
	}

	if err := t.store.DeleteComment(ctx, t.pollID, commentID); err != nil {
		t.log.Error("failed to delete comment", slog.String("op", op), slog.String("comment_id", commentID), sl.Err(err))

		t.mu.Lock()
		t.status.Error = MsgDeleteFailed
		t.mu.Unlock()

		return failure.New(MsgDeleteFailed, fmt.Errorf("%s: %w", op, err))
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.comments = slices.DeleteFunc(t.comments, func(c models.Comment) bool {
		return c.ID == commentID
	})
	return nil
}

// Watch re-fetches the thread every interval until ctx is done. A tick that
// lands while a fetch is still running is skipped.
func (t *Thread) Watch(ctx context.Context, interval time.Duration) {
	const op = "comments.Watch"

	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !t.begin() {
				t.log.Debug("fetch in flight, skipping tick", slog.String("op", op))
				continue
			}

			go func() {
				_ = t.load(ctx)
			}()
		}
	}
}

func (t *Thread) Comments() []models.Comment {
	t.mu.Lock()
	defer t.mu.Unlock()

	return slices.Clone(t.comments)
}

func (t *Thread) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.status
}

// Age renders when c was posted relative to now, e.g. "3 minutes ago".
func Age(c models.Comment, now time.Time) string {
	if c.CreatedAt.IsZero() {
		return "some time ago"
	}
	return humanize.RelTime(c.CreatedAt, now, "ago", "from now")
}

package voting

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/14kear/pollboard/internal/api"
	"github.com/14kear/pollboard/internal/domain/models"
	"github.com/14kear/pollboard/internal/lib/failure"
	"github.com/14kear/pollboard/internal/state"
	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
)

const MsgVoteFailed = "Failed to submit vote. Please try again."

// DefaultSuccessDisplay is how long the success flag stays set.
const DefaultSuccessDisplay = 3 * time.Second

type Voter interface {
	Vote(ctx context.Context, pollID string, req models.VoteRequest) (api.VoteResult, error)
}

type Request struct {
	Poll     models.Poll
	OptionID string
	// Page is the page of the users' poll list the vote came from, or 0.
	Page int
}

type Status struct {
	Voting  bool
	Success bool
	Error   string
}

type Service struct {
	log            *slog.Logger
	voter          Voter
	state          *state.State
	successDisplay time.Duration

	mu     sync.Mutex
	status Status
	timer  *time.Timer
}

func New(log *slog.Logger, voter Voter, st *state.State, successDisplay time.Duration) *Service {
	if successDisplay <= 0 {
		successDisplay = DefaultSuccessDisplay
	}
	return &Service{
		log:            log,
		voter:          voter,
		state:          st,
		successDisplay: successDisplay,
	}
}

// Submit casts the signed-in user's vote. Anonymous callers get a sign-in
// redirect back to the poll; an empty or unknown option is ignored. On
// success only the vote count of the held polls is patched.
func (s *Service) Submit(ctx context.Context, req Request) error {
	const op = "voting.Submit"

	log := s.log.With(
		slog.String("op", op),
		slog.String("poll_id", req.Poll.ID),
		slog.String("option_id", req.OptionID),
	)

	user, ok := s.state.User()
	if !ok {
		return fmt.Errorf("%s: %w", op, failure.SignIn("/polls/"+req.Poll.ID))
	}

	if req.OptionID == "" {
		return nil
	}
	if _, ok := req.Poll.Option(req.OptionID); !ok {
		log.Debug("option not in poll, ignoring")
		return nil
	}

	s.update(func(st *Status) {
		st.Voting = true
		st.Error = ""
	})
	defer s.update(func(st *Status) { st.Voting = false })

	poll := req.Poll
	result, err := s.voter.Vote(ctx, poll.ID, models.VoteRequest{
		OptionID: req.OptionID,
		UserID:   user.ID,
		PollID:   poll.ID,
		Poll:     &poll,
	})
	if err != nil {
		log.Error("failed to submit vote", sl.Err(err))
		s.update(func(st *Status) { st.Error = MsgVoteFailed })
		return failure.New(MsgVoteFailed, fmt.Errorf("%s: %w", op, err))
	}

	s.state.UpdatePoll(func(prev *models.Poll) *models.Poll {
		if prev == nil {
			return result.Poll
		}
		if prev.ID != poll.ID {
			return prev
		}
		next := prev.WithVotes(result.Votes)
		return &next
	})

	if req.Page != 0 {
		s.state.UpdatePages(func(pages map[int][]models.Poll) map[int][]models.Poll {
			for i, p := range pages[req.Page] {
				if p.ID == poll.ID {
					pages[req.Page][i] = p.WithVotes(result.Votes)
				}
			}
			return pages
		})
	}

	s.showSuccess()

	log.Info("vote submitted", slog.Int("votes", result.Votes))
	return nil
}

func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status
}

// Close stops a pending success reset.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Service) showSuccess() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status.Success = true
	if s.timer != nil {
		s.timer.Stop()
	}

	var t *time.Timer
	t = time.AfterFunc(s.successDisplay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.timer == t {
			s.status.Success = false
			s.timer = nil
		}
	})
	s.timer = t
}

func (s *Service) update(fn func(*Status)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.status)
}

package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/14kear/pollboard/internal/api"
	"github.com/14kear/pollboard/internal/config"
	"github.com/14kear/pollboard/internal/services/comments"
	"github.com/14kear/pollboard/internal/services/polls"
	"github.com/14kear/pollboard/internal/services/profile"
	"github.com/14kear/pollboard/internal/services/session"
	"github.com/14kear/pollboard/internal/services/voting"
	"github.com/14kear/pollboard/internal/state"
)

// App is the wired client: one backend connection, one state container
// and the services sharing it.
type App struct {
	log *slog.Logger
	cfg *config.Config

	Client  *api.Client
	State   *state.State
	Session *session.Session
	Fetcher *polls.Fetcher
	Polls   *polls.Service
	Voting  *voting.Service
	Profile *profile.Service
}

func New(log *slog.Logger, cfg *config.Config, opts ...api.Option) (*App, error) {
	const op = "app.New"

	opts = append([]api.Option{api.WithTimeout(cfg.API.Timeout), api.WithLogger(log)}, opts...)
	client, err := api.New(cfg.API.BaseURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	st := state.New()

	a := &App{
		log:     log,
		cfg:     cfg,
		Client:  client,
		State:   st,
		Session: session.New(log, client, st),
		Fetcher: polls.NewFetcher(log, client, cfg.Polls.PageSize),
		Polls:   polls.NewService(log, client, st),
		Voting:  voting.New(log, client, st, cfg.Voting.SuccessDisplay),
		Profile: profile.New(log, client, st, cfg.Voting.SuccessDisplay),
	}

	st.OnClose(a.Voting.Close)
	st.OnClose(a.Profile.Close)

	return a, nil
}

// List opens a paginated view of the collection at path. The users' list
// shares its pages with the state so votes can patch them.
func (a *App) List(path string) *polls.List {
	var opts []polls.ListOption
	if user, ok := a.State.User(); ok && path == api.PathUserPolls(user.ID) {
		opts = append(opts, polls.WithPageCache(a.State))
	}
	return polls.NewList(a.Fetcher, path, opts...)
}

func (a *App) Comments(pollID string) *comments.Thread {
	return comments.NewThread(a.log, a.Client, a.State, pollID)
}

// CommentsRefresh is the configured comment re-fetch interval; zero means
// no periodic refresh.
func (a *App) CommentsRefresh() time.Duration {
	return a.cfg.Comments.RefreshInterval
}

// Close tears down the session state and stops pending timers.
func (a *App) Close() {
	a.State.Close()
}

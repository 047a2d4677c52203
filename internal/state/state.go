// Package state holds the client-side application state shared by the
// services: the signed-in user, the poll currently open, and the cached
// pages of the users' poll list.
package state

import (
	"maps"
	"slices"
	"sync"

	"github.com/14kear/pollboard/internal/domain/models"
)

type State struct {
	mu     sync.RWMutex
	user   *models.User
	poll   *models.Poll
	pages  map[int][]models.Poll
	hooks  []func()
	closed bool
}

func New() *State {
	return &State{pages: make(map[int][]models.Poll)}
}

// OnClose registers fn to run when the session is torn down.
func (s *State) OnClose(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hooks = append(s.hooks, fn)
}

// Close clears identity, the current poll and the page cache, then runs
// the teardown hooks in reverse registration order. Hooks stay registered,
// so the next session's Close runs them again.
func (s *State) Close() {
	s.mu.Lock()
	hooks := slices.Clone(s.hooks)
	s.user = nil
	s.poll = nil
	s.pages = make(map[int][]models.Poll)
	s.closed = true
	s.mu.Unlock()

	for i := len(hooks) - 1; i >= 0; i-- {
		hooks[i]()
	}
}

// Closed reports whether Close has run since the last sign-in.
func (s *State) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.closed
}

func (s *State) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return models.User{}, false
	}
	return cloneUser(*s.user), true
}

func (s *State) SetUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u = cloneUser(u)
	s.user = &u
	s.closed = false
}

func (s *State) ClearUser() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
}

// UpdateUser applies fn to the signed-in user. It reports false and does
// nothing when nobody is signed in.
func (s *State) UpdateUser(fn func(models.User) models.User) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return false
	}
	u := cloneUser(fn(cloneUser(*s.user)))
	s.user = &u
	return true
}

// Poll returns a copy of the poll currently open, or nil.
func (s *State) Poll() *models.Poll {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.poll == nil {
		return nil
	}
	p := clonePoll(*s.poll)
	return &p
}

// UpdatePoll replaces the current poll with fn's result. fn receives a
// copy of the previous value, or nil.
func (s *State) UpdatePoll(fn func(prev *models.Poll) *models.Poll) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var prev *models.Poll
	if s.poll != nil {
		p := clonePoll(*s.poll)
		prev = &p
	}

	next := fn(prev)
	if next == nil {
		s.poll = nil
		return
	}
	p := clonePoll(*next)
	s.poll = &p
}

// Page returns a copy of a cached page of the users' poll list.
func (s *State) Page(n int) ([]models.Poll, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	page, ok := s.pages[n]
	if !ok {
		return nil, false
	}
	return clonePolls(page), true
}

func (s *State) SetPage(n int, polls []models.Poll) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pages[n] = clonePolls(polls)
}

// UpdatePages replaces the whole page cache with fn's result.
func (s *State) UpdatePages(fn func(map[int][]models.Poll) map[int][]models.Poll) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := make(map[int][]models.Poll, len(s.pages))
	for n, page := range s.pages {
		prev[n] = clonePolls(page)
	}

	next := fn(prev)
	s.pages = make(map[int][]models.Poll, len(next))
	for n, page := range next {
		s.pages[n] = clonePolls(page)
	}
}

// Pages lists the cached page numbers in ascending order.
func (s *State) Pages() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Sorted(maps.Keys(s.pages))
}

func cloneUser(u models.User) models.User {
	if u.Username != nil {
		name := *u.Username
		u.Username = &name
	}
	if u.Picture != nil {
		pic := *u.Picture
		u.Picture = &pic
	}
	return u
}

func clonePoll(p models.Poll) models.Poll {
	p.Options = slices.Clone(p.Options)
	if p.UserVote != nil {
		v := *p.UserVote
		p.UserVote = &v
	}
	return p
}

func clonePolls(polls []models.Poll) []models.Poll {
	if polls == nil {
		return nil
	}
	out := make([]models.Poll, len(polls))
	for i, p := range polls {
		out[i] = clonePoll(p)
	}
	return out
}

// Package memory is the in-process store behind the development backend.
package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/14kear/pollboard/internal/devapi/storage"
	"github.com/14kear/pollboard/internal/domain/models"
	"github.com/google/uuid"
)

type Storage struct {
	mu sync.RWMutex

	users     map[string]storage.Account
	emails    map[string]string
	usernames map[string]string
	tokens    map[string]refreshToken

	polls    map[string]storage.PollRecord
	order    []string
	votes    map[string]map[string]models.Vote
	comments map[string][]models.Comment
}

type refreshToken struct {
	userID    string
	expiresAt time.Time
}

func New() *Storage {
	return &Storage{
		users:     make(map[string]storage.Account),
		emails:    make(map[string]string),
		usernames: make(map[string]string),
		tokens:    make(map[string]refreshToken),
		polls:     make(map[string]storage.PollRecord),
		votes:     make(map[string]map[string]models.Vote),
		comments:  make(map[string][]models.Comment),
	}
}

func key(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (s *Storage) SaveUser(_ context.Context, acc storage.Account) (string, error) {
	const op = "storage.memory.SaveUser"

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.emails[key(acc.Email)]; ok {
		return "", fmt.Errorf("%s: %w", op, storage.ErrUserAlreadyExists)
	}
	if acc.Username != nil {
		if _, ok := s.usernames[key(*acc.Username)]; ok {
			return "", fmt.Errorf("%s: %w", op, storage.ErrUsernameTaken)
		}
	}

	acc.ID = uuid.NewString()
	if acc.Role == "" {
		acc.Role = models.RoleUser
	}

	s.users[acc.ID] = acc
	s.emails[key(acc.Email)] = acc.ID
	if acc.Username != nil {
		s.usernames[key(*acc.Username)] = acc.ID
	}

	return acc.ID, nil
}

func (s *Storage) User(_ context.Context, email string) (storage.Account, error) {
	const op = "storage.memory.User"

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[key(email)]
	if !ok {
		return storage.Account{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	return s.users[id], nil
}

func (s *Storage) UserByID(_ context.Context, id string) (storage.Account, error) {
	const op = "storage.memory.UserByID"

	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.users[id]
	if !ok {
		return storage.Account{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	return acc, nil
}

func (s *Storage) UpdateUser(_ context.Context, id string, update models.ProfileUpdate) (models.User, error) {
	const op = "storage.memory.UpdateUser"

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.users[id]
	if !ok {
		return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	if owner, ok := s.emails[key(update.Email)]; ok && owner != id {
		return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserAlreadyExists)
	}
	if update.Username != "" {
		if owner, ok := s.usernames[key(update.Username)]; ok && owner != id {
			return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUsernameTaken)
		}
	}

	delete(s.emails, key(acc.Email))
	acc.Email = update.Email
	acc.FirstName = update.FirstName
	acc.LastName = update.LastName
	s.emails[key(acc.Email)] = id

	if update.Username != "" {
		s.setUsernameLocked(&acc, update.Username)
	}

	s.users[id] = acc
	return acc.User, nil
}

func (s *Storage) SetUsername(_ context.Context, id, username string) (models.User, error) {
	const op = "storage.memory.SetUsername"

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.users[id]
	if !ok {
		return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	if owner, ok := s.usernames[key(username)]; ok && owner != id {
		return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUsernameTaken)
	}

	s.setUsernameLocked(&acc, username)
	s.users[id] = acc
	return acc.User, nil
}

func (s *Storage) setUsernameLocked(acc *storage.Account, username string) {
	if acc.Username != nil {
		delete(s.usernames, key(*acc.Username))
	}
	name := username
	acc.Username = &name
	s.usernames[key(name)] = acc.ID
}

func (s *Storage) SetPicture(_ context.Context, id, picture string) (models.User, error) {
	const op = "storage.memory.SetPicture"

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.users[id]
	if !ok {
		return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	acc.Picture = &picture
	s.users[id] = acc
	return acc.User, nil
}

// DeleteUser removes the user with everything they own: polls, votes,
// comments and refresh tokens.
func (s *Storage) DeleteUser(_ context.Context, id string) error {
	const op = "storage.memory.DeleteUser"

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.users[id]
	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}

	delete(s.users, id)
	delete(s.emails, key(acc.Email))
	if acc.Username != nil {
		delete(s.usernames, key(*acc.Username))
	}
	for token, rt := range s.tokens {
		if rt.userID == id {
			delete(s.tokens, token)
		}
	}
	for pollID, rec := range s.polls {
		if rec.CreatorID == id {
			s.deletePollLocked(pollID)
		}
	}
	for _, byUser := range s.votes {
		delete(byUser, id)
	}
	for pollID, cs := range s.comments {
		s.comments[pollID] = slices.DeleteFunc(cs, func(c models.Comment) bool { return c.UserID == id })
	}

	return nil
}

func (s *Storage) SaveToken(_ context.Context, userID, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[token] = refreshToken{userID: userID, expiresAt: expiresAt}
	return nil
}

func (s *Storage) IsRefreshTokenValid(_ context.Context, userID, token string, now time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rt, ok := s.tokens[token]
	return ok && rt.userID == userID && now.Before(rt.expiresAt), nil
}

func (s *Storage) DeleteRefreshToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tokens, token)
	return nil
}

// Stats counts what a user has created and cast.
func (s *Storage) Stats(_ context.Context, userID string) (models.UserStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats models.UserStats
	for _, rec := range s.polls {
		if rec.CreatorID == userID {
			stats.TotalPolls++
		}
	}
	for _, byUser := range s.votes {
		if _, ok := byUser[userID]; ok {
			stats.TotalVotes++
		}
	}
	for _, cs := range s.comments {
		for _, c := range cs {
			if c.UserID == userID {
				stats.TotalComments++
			}
		}
	}
	return stats, nil
}

package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/14kear/pollboard/internal/devapi/storage"
	"github.com/14kear/pollboard/internal/domain/models"
	"github.com/google/uuid"
)

// SavePoll stores rec, assigning ids to the poll and its options.
func (s *Storage) SavePoll(_ context.Context, rec storage.PollRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.ID = uuid.NewString()
	rec.Options = slices.Clone(rec.Options)
	for i := range rec.Options {
		rec.Options[i].ID = uuid.NewString()
		rec.Options[i].PollID = rec.ID
		rec.Options[i].CreatedAt = rec.CreatedAt
		rec.Options[i].UpdatedAt = rec.CreatedAt
		rec.Options[i].Count = 0
	}

	s.polls[rec.ID] = rec
	s.order = append(s.order, rec.ID)
	s.votes[rec.ID] = make(map[string]models.Vote)

	return rec.ID, nil
}

func (s *Storage) Poll(_ context.Context, id string) (storage.PollRecord, error) {
	const op = "storage.memory.Poll"

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.polls[id]
	if !ok {
		return storage.PollRecord{}, fmt.Errorf("%s: %w", op, storage.ErrPollNotFound)
	}
	return s.withCountsLocked(rec), nil
}

// Polls returns the polls matching f, most recently created first.
func (s *Storage) Polls(_ context.Context, f storage.PollFilter) ([]storage.PollRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]storage.PollRecord, 0)
	for i := len(s.order) - 1; i >= 0; i-- {
		rec := s.polls[s.order[i]]
		if f.CreatorID != "" && rec.CreatorID != f.CreatorID {
			continue
		}
		if f.Category != "" && f.Category != models.AllCategories && rec.Category != f.Category {
			continue
		}
		if !f.ActiveAt.IsZero() && !f.ActiveAt.Before(rec.ExpiresAt) {
			continue
		}
		if !f.FinishedAt.IsZero() && f.FinishedAt.Before(rec.ExpiresAt) {
			continue
		}
		out = append(out, s.withCountsLocked(rec))
	}
	return out, nil
}

func (s *Storage) DeletePoll(_ context.Context, id string) error {
	const op = "storage.memory.DeletePoll"

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.polls[id]; !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrPollNotFound)
	}
	s.deletePollLocked(id)
	return nil
}

func (s *Storage) deletePollLocked(id string) {
	delete(s.polls, id)
	delete(s.votes, id)
	delete(s.comments, id)
	s.order = slices.DeleteFunc(s.order, func(p string) bool { return p == id })
}

// SaveVote records userID's choice, replacing an earlier vote on the same
// poll.
func (s *Storage) SaveVote(_ context.Context, pollID, userID, optionID string) (models.Vote, error) {
	const op = "storage.memory.SaveVote"

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.polls[pollID]
	if !ok {
		return models.Vote{}, fmt.Errorf("%s: %w", op, storage.ErrPollNotFound)
	}
	if !slices.ContainsFunc(rec.Options, func(o models.PollOption) bool { return o.ID == optionID }) {
		return models.Vote{}, fmt.Errorf("%s: %w", op, storage.ErrOptionNotFound)
	}

	vote, ok := s.votes[pollID][userID]
	if !ok {
		vote = models.Vote{ID: uuid.NewString(), UserID: userID, PollID: pollID}
	}
	vote.OptionID = optionID
	s.votes[pollID][userID] = vote

	return vote, nil
}

func (s *Storage) UserVote(_ context.Context, pollID, userID string) (*models.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vote, ok := s.votes[pollID][userID]
	if !ok {
		return nil, nil
	}
	return &vote, nil
}

func (s *Storage) SaveComment(_ context.Context, c models.Comment) (models.Comment, error) {
	const op = "storage.memory.SaveComment"

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.polls[c.PollID]; !ok {
		return models.Comment{}, fmt.Errorf("%s: %w", op, storage.ErrPollNotFound)
	}

	c.ID = uuid.NewString()
	s.comments[c.PollID] = append(s.comments[c.PollID], c)
	return c, nil
}

// Comments lists a poll's comments, newest first.
func (s *Storage) Comments(_ context.Context, pollID string) ([]models.Comment, error) {
	const op = "storage.memory.Comments"

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.polls[pollID]; !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrPollNotFound)
	}

	out := slices.Clone(s.comments[pollID])
	slices.Reverse(out)
	if out == nil {
		out = []models.Comment{}
	}
	return out, nil
}

func (s *Storage) Comment(_ context.Context, pollID, id string) (models.Comment, error) {
	const op = "storage.memory.Comment"

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.comments[pollID] {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Comment{}, fmt.Errorf("%s: %w", op, storage.ErrCommentNotFound)
}

func (s *Storage) DeleteComment(_ context.Context, pollID, id string) error {
	const op = "storage.memory.DeleteComment"

	s.mu.Lock()
	defer s.mu.Unlock()

	cs := s.comments[pollID]
	idx := slices.IndexFunc(cs, func(c models.Comment) bool { return c.ID == id })
	if idx < 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrCommentNotFound)
	}
	s.comments[pollID] = slices.Delete(cs, idx, idx+1)
	return nil
}

// CommentCount is the number of comments under a poll.
func (s *Storage) CommentCount(_ context.Context, pollID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.comments[pollID]), nil
}

func (s *Storage) withCountsLocked(rec storage.PollRecord) storage.PollRecord {
	rec.Options = slices.Clone(rec.Options)
	for _, v := range s.votes[rec.ID] {
		for i := range rec.Options {
			if rec.Options[i].ID == v.OptionID {
				rec.Options[i].Count++
			}
		}
	}
	return rec
}

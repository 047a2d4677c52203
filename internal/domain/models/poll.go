package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type PollStatus string

const (
	PollStatusActive   PollStatus = "Active"
	PollStatusArchived PollStatus = "Archived"
)

var (
	ErrUnknownStatus    = errors.New("unknown poll status")
	ErrInconsistentPoll = errors.New("poll fields do not match its status")
)

// DrawWinner is the winner value of a finished poll that ended in a tie.
const DrawWinner = "draw"

type Poll struct {
	ID          string
	Title       string
	Creator     string
	Description string
	Category    Category
	Options     []PollOption
	Votes       int
	Comments    int
	ExpiresAt   time.Time
	UserVote    *Vote
	State       Lifecycle
}

// Lifecycle is either Active or Finished.
type Lifecycle interface {
	status() PollStatus
}

type Active struct {
	DaysLeft int
}

type Finished struct {
	EndedAt time.Time
	Winner  Winner
}

func (Active) status() PollStatus   { return PollStatusActive }
func (Finished) status() PollStatus { return PollStatusArchived }

// Winner holds the winning option id, or DrawWinner.
type Winner string

func (w Winner) IsDraw() bool { return w == DrawWinner }

type PollOption struct {
	ID        string    `json:"ID"`
	Name      string    `json:"Name"`
	CreatedAt time.Time `json:"CreatedAt"`
	UpdatedAt time.Time `json:"UpdatedAt"`
	PollID    string    `json:"PollID"`
	Count     int       `json:"Count"`
}

type Vote struct {
	ID       string `json:"ID"`
	UserID   string `json:"UserID"`
	PollID   string `json:"PollID"`
	OptionID string `json:"OptionID"`
}

func (p Poll) Status() PollStatus {
	if p.State == nil {
		return ""
	}
	return p.State.status()
}

// EffectiveDate is the end date of a finished poll, else its expiry.
func (p Poll) EffectiveDate() time.Time {
	if f, ok := p.State.(Finished); ok {
		return f.EndedAt
	}
	return p.ExpiresAt
}

// WithVotes returns a copy of p with only the aggregate vote count replaced.
func (p Poll) WithVotes(votes int) Poll {
	p.Votes = votes
	return p
}

func (p Poll) Option(id string) (PollOption, bool) {
	for _, o := range p.Options {
		if o.ID == id {
			return o, true
		}
	}
	return PollOption{}, false
}

type pollWire struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Creator     string          `json:"creator"`
	Description string          `json:"description"`
	Category    Category        `json:"category"`
	Status      PollStatus      `json:"status"`
	Options     []PollOption    `json:"options"`
	Votes       int             `json:"votes"`
	Comments    int             `json:"comments"`
	ExpiresAt   time.Time       `json:"expiresAt"`
	UserVote    *Vote           `json:"userVote"`
	DaysLeft    *int            `json:"daysLeft,omitempty"`
	EndedAt     *time.Time      `json:"endedAt,omitempty"`
	Winner      json.RawMessage `json:"winner,omitempty"`
}

func (p Poll) MarshalJSON() ([]byte, error) {
	w := pollWire{
		ID:          p.ID,
		Title:       p.Title,
		Creator:     p.Creator,
		Description: p.Description,
		Category:    p.Category,
		Status:      p.Status(),
		Options:     p.Options,
		Votes:       p.Votes,
		Comments:    p.Comments,
		ExpiresAt:   p.ExpiresAt,
		UserVote:    p.UserVote,
	}
	if w.Options == nil {
		w.Options = []PollOption{}
	}

	switch s := p.State.(type) {
	case Active:
		days := s.DaysLeft
		w.DaysLeft = &days
		w.Winner = json.RawMessage("false")
	case Finished:
		ended := s.EndedAt
		w.EndedAt = &ended
		winner, err := json.Marshal(string(s.Winner))
		if err != nil {
			return nil, err
		}
		w.Winner = winner
	default:
		return nil, fmt.Errorf("poll %s: %w", p.ID, ErrUnknownStatus)
	}

	return json.Marshal(w)
}

func (p *Poll) UnmarshalJSON(data []byte) error {
	var w pollWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*p = Poll{
		ID:          w.ID,
		Title:       w.Title,
		Creator:     w.Creator,
		Description: w.Description,
		Category:    w.Category,
		Options:     w.Options,
		Votes:       w.Votes,
		Comments:    w.Comments,
		ExpiresAt:   w.ExpiresAt,
		UserVote:    w.UserVote,
	}

	switch w.Status {
	case PollStatusActive:
		if w.DaysLeft == nil {
			return fmt.Errorf("poll %s: active without daysLeft: %w", w.ID, ErrInconsistentPoll)
		}
		p.State = Active{DaysLeft: *w.DaysLeft}
	case PollStatusArchived:
		var winner string
		if w.EndedAt == nil || len(w.Winner) == 0 || json.Unmarshal(w.Winner, &winner) != nil || winner == "" {
			return fmt.Errorf("poll %s: archived without endedAt and winner: %w", w.ID, ErrInconsistentPoll)
		}
		p.State = Finished{EndedAt: *w.EndedAt, Winner: Winner(winner)}
	default:
		return fmt.Errorf("poll %s: %q: %w", w.ID, w.Status, ErrUnknownStatus)
	}

	return nil
}

// NewPoll is the create-poll payload. ExpiresAt carries the duration in
// days as a string, matching the backend contract.
type NewPoll struct {
	Title       string          `json:"title"`
	Category    Category        `json:"category"`
	ExpiresAt   string          `json:"expiresAt"`
	Options     []NewPollOption `json:"options"`
	Description string          `json:"description"`
	UserID      string          `json:"userID"`
}

type NewPollOption struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type VoteRequest struct {
	OptionID string `json:"optionId"`
	UserID   string `json:"userId"`
	PollID   string `json:"pollId"`
	Poll     *Poll  `json:"poll"`
}

package storage

import (
	"errors"
	"time"

	"github.com/14kear/pollboard/internal/domain/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUsernameTaken     = errors.New("username already taken")
	ErrPollNotFound      = errors.New("poll not found")
	ErrOptionNotFound    = errors.New("option not found")
	ErrCommentNotFound   = errors.New("comment not found")
)

// Account is a stored user together with the password hash.
type Account struct {
	models.User
	PassHash []byte
}

// PollRecord is a stored poll. Counts and lifecycle are derived by the
// service at read time.
type PollRecord struct {
	ID          string
	Title       string
	Description string
	Category    models.Category
	CreatorID   string
	Options     []models.PollOption
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// PollFilter selects polls. Zero fields match everything.
type PollFilter struct {
	CreatorID string
	Category  models.Category
	// ActiveAt keeps polls still open at that instant; FinishedAt keeps
	// polls already closed at that instant.
	ActiveAt   time.Time
	FinishedAt time.Time
}

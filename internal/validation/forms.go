package validation

import (
	"strings"

	"github.com/14kear/pollboard/internal/domain/models"
)

type SignIn struct {
	Email    string `json:"email" validate:"notblank"`
	Password string `json:"password" validate:"required"`
}

var signInMessages = messages{
	"email.notblank":    "Email is required",
	"password.required": "Password is required",
}

func (f SignIn) Validate() error {
	return check(f, signInMessages)
}

type SignUp struct {
	FirstName       string `json:"firstName" validate:"notblank"`
	LastName        string `json:"lastName" validate:"notblank"`
	Email           string `json:"email" validate:"notblank,looseemail"`
	Password        string `json:"password" validate:"required,min=8,max=20"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

var signUpMessages = messages{
	"firstName.notblank":       "First name is required",
	"lastName.notblank":        "Last name is required",
	"email.notblank":           "Email is required",
	"email.looseemail":         "Email is invalid",
	"password.required":        "Password is required",
	"password.min":             "Password must be at least 8 characters long",
	"password.max":             "Password must be less than 20 characters long",
	"confirmPassword.required": "Confirm password is required",
	"confirmPassword.eqfield":  "Passwords do not match",
}

func (f SignUp) Validate() error {
	return check(f, signUpMessages)
}

func (f SignUp) Request() models.RegisterRequest {
	return models.RegisterRequest{
		Email:     strings.TrimSpace(f.Email),
		FirstName: strings.TrimSpace(f.FirstName),
		LastName:  strings.TrimSpace(f.LastName),
		Password:  f.Password,
	}
}

// CreatePoll is the poll authoring form. Days is the poll duration.
type CreatePoll struct {
	Title       string          `json:"title" validate:"notblank"`
	Description string          `json:"description"`
	Category    models.Category `json:"category" validate:"required,category"`
	Days        int             `json:"expiresAt" validate:"min=1"`
	Options     []string        `json:"options" validate:"min=2,dive,notblank"`
}

var createPollMessages = messages{
	"title.notblank":    "Poll question is required",
	"category.required": "Category is required",
	"category.category": "Category is required",
	"expiresAt.min":     "Duration must be at least 1 day",
	"options.min":       "A poll must have at least 2 options",
	"options.notblank":  "All options must have text",
}

func (f CreatePoll) Validate() error {
	return check(f, createPollMessages)
}

type Profile struct {
	FirstName string `json:"firstName" validate:"notblank"`
	LastName  string `json:"lastName" validate:"notblank"`
	Username  string `json:"username" validate:"notblank,username"`
	Email     string `json:"email" validate:"notblank,looseemail"`
}

var profileMessages = messages{
	"firstName.notblank": "First name is required",
	"lastName.notblank":  "Last name is required",
	"username.notblank":  "Username is required",
	"username.username":  "Username can only contain letters, numbers, underscores and hyphens",
	"email.notblank":     "Email is required",
	"email.looseemail":   "Email is invalid",
}

func (f Profile) Validate() error {
	return check(f, profileMessages)
}

func (f Profile) Update() models.ProfileUpdate {
	return models.ProfileUpdate{
		FirstName: strings.TrimSpace(f.FirstName),
		LastName:  strings.TrimSpace(f.LastName),
		Username:  strings.TrimSpace(f.Username),
		Email:     strings.TrimSpace(f.Email),
	}
}

type Username struct {
	Username string `json:"username" validate:"notblank,min=3,username"`
}

var usernameMessages = messages{
	"username.notblank": "Username is required",
	"username.min":      "Username must be at least 3 characters long",
	"username.username": "Username can only contain letters, numbers, underscores and hyphens",
}

func (f Username) Validate() error {
	return check(f, usernameMessages)
}

package models

import "strings"

type User struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Username  *string `json:"username,omitempty"`
	Picture   *string `json:"picture"`
	Role      string  `json:"role"`
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// DisplayName prefers the chosen username over the full name.
func (u User) DisplayName() string {
	if u.Username != nil && *u.Username != "" {
		return *u.Username
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type UserStats struct {
	TotalComments int `json:"TotalComments"`
	TotalVotes    int `json:"TotalVotes"`
	TotalPolls    int `json:"TotalPolls"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

type ProfileUpdate struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"user_name"`
	Email     string `json:"email"`
}

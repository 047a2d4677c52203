package models

import "time"

type Comment struct {
	ID          string    `json:"id"`
	PollID      string    `json:"pollId,omitempty"`
	UserID      string    `json:"userId"`
	Username    string    `json:"username"`
	UserPicture *string   `json:"userPicture"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
}

type NewComment struct {
	Username    string  `json:"username"`
	Content     string  `json:"content"`
	UserPicture *string `json:"userPicture"`
}

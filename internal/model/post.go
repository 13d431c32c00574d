package model

import "time"

type Post struct {
	ID        int64       `json:"id"`
	Title     string      `json:"title"`
	Content   *string     `json:"content"`
	Published bool        `json:"published"`
	Author    UserSummary `json:"author"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

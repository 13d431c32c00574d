package model

import "time"

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserWithPassword is the join of a user row and its password row.
// Only the login path sees it; it is never serialized.
type UserWithPassword struct {
	User
	PasswordHash string `json:"-"`
}

// UserSummary is the non-sensitive projection returned by auth endpoints.
type UserSummary struct {
	ID    string  `json:"id"`
	Email string  `json:"email"`
	Name  *string `json:"name"`
}

func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Email: u.Email, Name: u.Name}
}

type AuthClaims struct {
	UserID  string `json:"sub"`
	Type    string `json:"typ"`
	TokenID string `json:"jti"`
}

type LoginResult struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int64       `json:"expires_in"`
	User        UserSummary `json:"user"`

	// RefreshToken travels only in the HttpOnly cookie, never in the body.
	RefreshToken string `json:"-"`
}

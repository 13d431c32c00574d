package model

import "errors"

var (
	// User related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token related errors. Expired and malformed are distinct so logs can
	// tell them apart; clients see the same 401 for both.
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenRevoked   = errors.New("token revoked")

	// Post related errors
	ErrPostNotFound = errors.New("post not found")

	// Access related errors
	ErrUnauthorized = errors.New("unauthorized")
)

package model

import "time"

// UserID uniquely identifies a registered user across the system
type UserID string

// User is a registered user's durable credential record
type User struct {
	ID           UserID
	Email        string // unique, stored as submitted
	PasswordHash string // bcrypt hash, never the plaintext
	CreatedAt    time.Time
}

// Session binds a client-held opaque token to a user.
// The user is re-fetched by ID on every resolve rather than cached here.
type Session struct {
	Token     string
	UserID    UserID
	CreatedAt time.Time
	ExpiresAt time.Time
}

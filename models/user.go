package models

import (
	"strings"
	"time"
)

// User represents an account entity used for authentication and authorization.
// It contains identity attributes and credential-related data.
// Sensitive fields must never be exposed outside trusted boundaries.
type User struct {
	// ID is the opaque unique identifier of the user, assigned at creation.
	ID string `json:"id"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// Email is the unique, lower-cased login key.
	Email string `json:"email"`

	// PasswordHash stores the bcrypt output of the user's password.
	// It is never serialized.
	PasswordHash string `json:"-"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// Profile returns the public part of the user record.
func (u User) Profile() UserProfile {
	return UserProfile{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// UserProfile is the externally visible representation of a [User].
type UserProfile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// NormalizeEmail trims surrounding whitespace and lower-cases the address so
// that lookups and the unique index are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

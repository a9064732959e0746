package models

import "strings"

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,bcrypt"`
}

// Normalize trims the name and normalizes the email in place.
// The password is left untouched.
func (r *RegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = NormalizeEmail(r.Email)
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Normalize normalizes the email in place.
func (r *LoginRequest) Normalize() {
	r.Email = NormalizeEmail(r.Email)
}

// AuthResponse is returned by successful registration and login.
type AuthResponse struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

// UserResponse is returned by GET /auth/me.
type UserResponse struct {
	User UserProfile `json:"user"`
}

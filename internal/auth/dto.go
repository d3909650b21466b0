package auth

import (
	"github.com/procifarmed/storefront-api/internal/profiles"
	"github.com/procifarmed/storefront-api/internal/users"
)

// SignupRequest carries the signup form; full name and phone become the
// initial profile.
type SignupRequest struct {
	Email    string  `json:"email" validate:"required,email,max=254"`
	Password string  `json:"password" validate:"required,min=6,max=128"`
	FullName string  `json:"full_name" validate:"required,max=140"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=40"`
}

// LoginRequest captures the user credentials sent to the login endpoint.
// From is the page the user was bounced from by a guard.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	From     string `json:"from,omitempty"`
}

// RefreshRequest carries the possibly expired access token and its refresh token.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// TokenPair is the credential bundle handed to clients.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// SessionState is the resolved auth state for a request: who the user is
// and their profile. Profile is nil when it could not be loaded.
type SessionState struct {
	User    *users.UserDTO       `json:"user"`
	Profile *profiles.ProfileDTO `json:"profile"`
	IsAdmin bool                 `json:"is_admin"`
	Loading bool                 `json:"loading"`
}

// Authenticated reports whether a user is present.
func (s SessionState) Authenticated() bool {
	return s.User != nil
}

// Result is returned by signup, login and refresh.
type Result struct {
	Tokens   TokenPair    `json:"tokens"`
	Session  SessionState `json:"session"`
	Redirect string       `json:"redirect,omitempty"`
}

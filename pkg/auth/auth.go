package auth

import (
	"errors"
	"time"
)

var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid session")
	ErrSessionExpired     = errors.New("session expired")
	ErrSessionNotFound    = errors.New("session not found")
)

// SafeUser is the projection handed to clients. It never carries the
// password hash or salt.
type SafeUser struct {
	ID        int64  `json:"id"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

type LoginResult struct {
	User           SafeUser  `json:"user"`
	Token          string    `json:"token"`
	Session        string    `json:"session"`
	SessionExpires time.Time `json:"sessionExpires"`
}

type VerifyResult struct {
	UserID    int64     `json:"userId"`
	User      SafeUser  `json:"user"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type TokenResult struct {
	UserID    int64     `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type ServiceInterface interface {
	Login(email, password string) (*LoginResult, error)
	VerifySession(envelope string) (*VerifyResult, error)
	Logout(envelope string) error
	VerifyToken(tokenString string) (*TokenResult, error)
}

package session

import "time"

const Lifetime = 7 * 24 * time.Hour

type Session struct {
	ID        int64
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Envelope is the client-held session reference. It is sealed with the
// server secret before leaving the process and never trusted unsealed.
type Envelope struct {
	SessionID int64     `json:"sessionId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Repository interface {
	Create(userID int64, expiresAt time.Time) (*Session, error)
	FindByID(id int64) (*Session, error)
	IsValid(id int64) (bool, error)
	DeleteByID(id int64) (int64, error)
	DeleteByUserID(userID int64) (int64, error)
	DeleteExpired() (int64, error)
}

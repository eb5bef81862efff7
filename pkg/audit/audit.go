package audit

import "time"

const (
	ActionLogin  = "login"
	ActionLogout = "logout"
)

// Event is one authentication attempt, stored for operational review.
type Event struct {
	UserID  int64     `bson:"user_id" json:"userId"`
	Action  string    `bson:"action" json:"action"`
	Success bool      `bson:"success" json:"success"`
	At      time.Time `bson:"at" json:"at"`
}

type Recorder interface {
	Record(event Event) error
}

type Reader interface {
	RecentByUser(userID int64, limit int64) ([]Event, error)
}

package session

import (
	"database/sql"
	"errors"
	"time"
)

type MySQLSessionRepo struct {
	DB *sql.DB
}

func NewMySQLSessionRepo(db *sql.DB) *MySQLSessionRepo {
	return &MySQLSessionRepo{DB: db}
}

func (r *MySQLSessionRepo) Create(userID int64, expiresAt time.Time) (*Session, error) {
	now := time.Now().UTC()
	res, err := r.DB.Exec(`
		INSERT INTO sessions (user_id, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, userID, expiresAt.UTC(), now, now)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &Session{
		ID:        id,
		UserID:    userID,
		ExpiresAt: expiresAt.UTC(),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (r *MySQLSessionRepo) FindByID(id int64) (*Session, error) {
	var s Session
	err := r.DB.QueryRow(`
		SELECT id, user_id, expires_at, created_at, updated_at
		FROM sessions WHERE id = ?
	`, id).Scan(&s.ID, &s.UserID, &s.ExpiresAt, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &s, nil
}

func (r *MySQLSessionRepo) IsValid(id int64) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM sessions
			WHERE id = ? AND expires_at > ?
		)
	`, id, time.Now().UTC()).Scan(&exists)
	return exists, err
}

func (r *MySQLSessionRepo) DeleteByID(id int64) (int64, error) {
	res, err := r.DB.Exec(`
		DELETE FROM sessions WHERE id = ?
	`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *MySQLSessionRepo) DeleteByUserID(userID int64) (int64, error) {
	res, err := r.DB.Exec(`
		DELETE FROM sessions WHERE user_id = ?
	`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *MySQLSessionRepo) DeleteExpired() (int64, error) {
	res, err := r.DB.Exec(`
		DELETE FROM sessions WHERE expires_at <= ?
	`, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

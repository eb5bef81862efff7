package user

import (
	"database/sql"
	"errors"
)

type MySQLRepo struct {
	DB *sql.DB
}

func NewMySQLRepo(db *sql.DB) *MySQLRepo {
	return &MySQLRepo{DB: db}
}

func (r *MySQLRepo) Create(user *User) error {
	res, err := r.DB.Exec(
		"INSERT INTO users (email, first_name, last_name, password_hash, salt) VALUES (?, ?, ?, ?, ?)",
		user.Email, user.FirstName, user.LastName, user.PasswordHash, user.Salt,
	)
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = id
	return nil
}

func (r *MySQLRepo) FindByEmail(email string) (*User, error) {
	return r.findOne("SELECT id, email, first_name, last_name, password_hash, salt FROM users WHERE email = ?", email)
}

func (r *MySQLRepo) FindByID(id int64) (*User, error) {
	return r.findOne("SELECT id, email, first_name, last_name, password_hash, salt FROM users WHERE id = ?", id)
}

func (r *MySQLRepo) findOne(query string, arg any) (*User, error) {
	var u User
	err := r.DB.QueryRow(query, arg).
		Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &u.Salt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &u, nil
}

func (r *MySQLRepo) Update(user *User) error {
	_, err := r.DB.Exec(
		"UPDATE users SET email = ?, first_name = ?, last_name = ?, password_hash = ?, salt = ? WHERE id = ?",
		user.Email, user.FirstName, user.LastName, user.PasswordHash, user.Salt, user.ID,
	)
	return err
}

func (r *MySQLRepo) Delete(id int64) (int64, error) {
	res, err := r.DB.Exec("DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *MySQLRepo) GetAll() ([]*User, error) {
	rows, err := r.DB.Query("SELECT id, email, first_name, last_name, password_hash, salt FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &u.Salt); err != nil {
			return nil, err
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

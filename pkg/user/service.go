package user

import (
	"errors"
	"fmt"

	"accountsvc/pkg/password"
	"accountsvc/pkg/session"
)

var (
	ErrAlreadyExists = errors.New("user already exists")
	ErrNotFound      = errors.New("user not found")
)

type ServiceInterface interface {
	Register(email, pass, firstName, lastName string) (*User, error)
	Get(id int64) (*User, error)
	List() ([]*User, error)
	Update(id int64, firstName, lastName string) (*User, error)
	ChangePassword(id int64, newPassword string) error
	Delete(id int64) error
}

type Service struct {
	Repo     Repository
	Sessions session.Repository
}

func NewService(repo Repository, sessions session.Repository) *Service {
	return &Service{Repo: repo, Sessions: sessions}
}

func (s *Service) Register(email, pass, firstName, lastName string) (*User, error) {
	exist, err := s.Repo.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrAlreadyExists
	}

	hash, salt, err := password.Hash(pass)
	if err != nil {
		return nil, fmt.Errorf("hashing password error: %w", err)
	}

	user := &User{
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: hash,
		Salt:         salt,
	}

	if err := s.Repo.Create(user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) Get(id int64) (*User, error) {
	user, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *Service) List() ([]*User, error) {
	return s.Repo.GetAll()
}

func (s *Service) Update(id int64, firstName, lastName string) (*User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	user.FirstName = firstName
	user.LastName = lastName

	if err := s.Repo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword re-derives the credential with a fresh salt.
func (s *Service) ChangePassword(id int64, newPassword string) error {
	user, err := s.Get(id)
	if err != nil {
		return err
	}

	hash, salt, err := password.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hashing password error: %w", err)
	}

	user.PasswordHash = hash
	user.Salt = salt

	return s.Repo.Update(user)
}

// Delete removes the user row and every session the user still holds.
func (s *Service) Delete(id int64) error {
	count, err := s.Repo.Delete(id)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}

	if _, err := s.Sessions.DeleteByUserID(id); err != nil {
		return fmt.Errorf("failed to drop sessions: %w", err)
	}
	return nil
}

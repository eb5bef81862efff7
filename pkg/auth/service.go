package auth

import (
	"fmt"
	"log/slog"
	"time"

	"accountsvc/pkg/audit"
	"accountsvc/pkg/password"
	"accountsvc/pkg/session"
	"accountsvc/pkg/token"
	"accountsvc/pkg/user"
)

// Service composes password verification, the session store, the envelope
// cipher and the token issuer into the login/verify/logout flows.
type Service struct {
	Users    user.Repository
	Sessions session.Repository
	Cipher   *session.Cipher
	Tokens   *token.Issuer
	Audit    audit.Recorder
	Logger   *slog.Logger
}

func NewService(users user.Repository, sessions session.Repository, cipher *session.Cipher,
	tokens *token.Issuer, recorder audit.Recorder, logger *slog.Logger) *Service {
	return &Service{
		Users:    users,
		Sessions: sessions,
		Cipher:   cipher,
		Tokens:   tokens,
		Audit:    recorder,
		Logger:   logger,
	}
}

func (s *Service) Login(email, pass string) (*LoginResult, error) {
	if email == "" || pass == "" {
		return nil, ErrMissingFields
	}

	u, err := s.Users.FindByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("user lookup error: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	if !password.Verify(pass, u.PasswordHash, u.Salt) {
		s.record(audit.Event{UserID: u.ID, Action: audit.ActionLogin, Success: false})
		return nil, ErrInvalidCredentials
	}

	expiresAt := time.Now().UTC().Add(session.Lifetime)
	sess, err := s.Sessions.Create(u.ID, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	envelope, err := s.Cipher.Seal(session.Envelope{
		SessionID: sess.ID,
		ExpiresAt: sess.ExpiresAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to seal session: %w", err)
	}

	signed, err := s.Tokens.Issue(u.ID)
	if err != nil {
		return nil, fmt.Errorf("token signing error: %w", err)
	}

	s.record(audit.Event{UserID: u.ID, Action: audit.ActionLogin, Success: true})

	return &LoginResult{
		User:           SafeUser{ID: u.ID},
		Token:          signed,
		Session:        envelope,
		SessionExpires: sess.ExpiresAt,
	}, nil
}

func (s *Service) VerifySession(envelope string) (*VerifyResult, error) {
	env, err := s.Cipher.Open(envelope)
	if err != nil {
		return nil, ErrInvalidSession
	}

	// the embedded expiry spares a storage round trip for stale envelopes
	if !env.ExpiresAt.After(time.Now().UTC()) {
		return nil, ErrSessionExpired
	}

	sess, err := s.Sessions.FindByID(env.SessionID)
	if err != nil {
		return nil, fmt.Errorf("session lookup error: %w", err)
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}

	if !sess.ExpiresAt.After(time.Now().UTC()) {
		// cleanup-on-read; the sweep would catch it later anyway
		if _, err := s.Sessions.DeleteByID(sess.ID); err != nil {
			s.Logger.Error("expired session cleanup failed", "session", sess.ID, "error", err)
		}
		return nil, ErrSessionExpired
	}

	u, err := s.Users.FindByID(sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("user lookup error: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	return &VerifyResult{
		UserID: u.ID,
		User: SafeUser{
			ID:        u.ID,
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
		},
		ExpiresAt: sess.ExpiresAt,
	}, nil
}

// Logout is fail-open: an envelope that cannot be opened already means the
// client holds no usable session, so it reports success.
func (s *Service) Logout(envelope string) error {
	env, err := s.Cipher.Open(envelope)
	if err != nil {
		return nil
	}

	sess, err := s.Sessions.FindByID(env.SessionID)
	if err != nil {
		return fmt.Errorf("session lookup error: %w", err)
	}

	if _, err := s.Sessions.DeleteByID(env.SessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	if sess != nil {
		s.record(audit.Event{UserID: sess.UserID, Action: audit.ActionLogout, Success: true})
	}
	return nil
}

func (s *Service) VerifyToken(tokenString string) (*TokenResult, error) {
	c, err := s.Tokens.Verify(tokenString)
	if err != nil {
		return nil, token.ErrInvalidToken
	}

	return &TokenResult{
		UserID:    c.UserID,
		ExpiresAt: time.Unix(c.ExpiresAt, 0).UTC(),
	}, nil
}

func (s *Service) record(event audit.Event) {
	if s.Audit == nil {
		return
	}
	event.At = time.Now().UTC()
	if err := s.Audit.Record(event); err != nil {
		s.Logger.Error("audit record failed", "action", event.Action, "error", err)
	}
}

package auth_test

import (
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"accountsvc/pkg/audit"
	"accountsvc/pkg/auth"
	"accountsvc/pkg/password"
	"accountsvc/pkg/session"
	"accountsvc/pkg/token"
	"accountsvc/pkg/user"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(u *user.User) error {
	return m.Called(u).Error(0)
}

func (m *mockUserRepo) FindByEmail(email string) (*user.User, error) {
	args := m.Called(email)
	if u := args.Get(0); u != nil {
		return u.(*user.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) FindByID(id int64) (*user.User, error) {
	args := m.Called(id)
	if u := args.Get(0); u != nil {
		return u.(*user.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) Update(u *user.User) error {
	return m.Called(u).Error(0)
}

func (m *mockUserRepo) Delete(id int64) (int64, error) {
	args := m.Called(id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUserRepo) GetAll() ([]*user.User, error) {
	args := m.Called()
	if u := args.Get(0); u != nil {
		return u.([]*user.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSessionRepo struct {
	mock.Mock
}

func (m *mockSessionRepo) Create(userID int64, expiresAt time.Time) (*session.Session, error) {
	args := m.Called(userID, expiresAt)
	if s := args.Get(0); s != nil {
		return s.(*session.Session), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSessionRepo) FindByID(id int64) (*session.Session, error) {
	args := m.Called(id)
	if s := args.Get(0); s != nil {
		return s.(*session.Session), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSessionRepo) IsValid(id int64) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *mockSessionRepo) DeleteByID(id int64) (int64, error) {
	args := m.Called(id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSessionRepo) DeleteByUserID(userID int64) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSessionRepo) DeleteExpired() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) Record(event audit.Event) error {
	return m.Called(event).Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{}))
}

func testUser(t *testing.T, pass string) *user.User {
	hash, salt, err := password.Hash(pass)
	assert.NoError(t, err)
	return &user.User{
		ID:           42,
		Email:        "u1@example.com",
		FirstName:    "First",
		LastName:     "Last",
		PasswordHash: hash,
		Salt:         salt,
	}
}

func TestLogin(t *testing.T) {
	cipher := session.NewCipher("session-secret")
	issuer := token.NewIssuer("jwt-secret")
	u := testUser(t, "pw123")

	t.Run("missing fields", func(t *testing.T) {
		svc := auth.NewService(new(mockUserRepo), new(mockSessionRepo), cipher, issuer, nil, testLogger())

		res, err := svc.Login("", "pw123")
		assert.ErrorIs(t, err, auth.ErrMissingFields)
		assert.Nil(t, res)

		res, err = svc.Login("u1@example.com", "")
		assert.ErrorIs(t, err, auth.ErrMissingFields)
		assert.Nil(t, res)
	})

	t.Run("unknown email", func(t *testing.T) {
		users := new(mockUserRepo)
		users.On("FindByEmail", "ghost@example.com").Return(nil, nil)
		svc := auth.NewService(users, new(mockSessionRepo), cipher, issuer, nil, testLogger())

		res, err := svc.Login("ghost@example.com", "pw123")
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
		assert.Nil(t, res)
	})

	t.Run("wrong password", func(t *testing.T) {
		users := new(mockUserRepo)
		users.On("FindByEmail", u.Email).Return(u, nil)
		recorder := new(mockRecorder)
		recorder.On("Record", mock.MatchedBy(func(e audit.Event) bool {
			return e.UserID == u.ID && e.Action == audit.ActionLogin && !e.Success
		})).Return(nil)
		svc := auth.NewService(users, new(mockSessionRepo), cipher, issuer, recorder, testLogger())

		res, err := svc.Login(u.Email, "wrong")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
		assert.Nil(t, res)
		recorder.AssertExpectations(t)
	})

	t.Run("success", func(t *testing.T) {
		users := new(mockUserRepo)
		users.On("FindByEmail", u.Email).Return(u, nil)

		sessions := new(mockSessionRepo)
		expires := time.Now().UTC().Add(session.Lifetime).Truncate(time.Second)
		sessions.On("Create", u.ID, mock.AnythingOfType("time.Time")).Return(&session.Session{
			ID:        7,
			UserID:    u.ID,
			ExpiresAt: expires,
		}, nil)

		recorder := new(mockRecorder)
		recorder.On("Record", mock.MatchedBy(func(e audit.Event) bool {
			return e.UserID == u.ID && e.Action == audit.ActionLogin && e.Success
		})).Return(nil)

		svc := auth.NewService(users, sessions, cipher, issuer, recorder, testLogger())

		res, err := svc.Login(u.Email, "pw123")
		assert.NoError(t, err)
		assert.Equal(t, u.ID, res.User.ID)
		assert.True(t, expires.Equal(res.SessionExpires))

		// the envelope opens back to the created session
		env, err := cipher.Open(res.Session)
		assert.NoError(t, err)
		assert.Equal(t, int64(7), env.SessionID)

		// the token is a valid bearer for the user
		tokenRes, err := svc.VerifyToken(res.Token)
		assert.NoError(t, err)
		assert.Equal(t, u.ID, tokenRes.UserID)

		recorder.AssertExpectations(t)
	})
}

func TestLogin_ProjectionExcludesCredential(t *testing.T) {
	cipher := session.NewCipher("session-secret")
	issuer := token.NewIssuer("jwt-secret")
	u := testUser(t, "pw123")

	users := new(mockUserRepo)
	users.On("FindByEmail", u.Email).Return(u, nil)
	sessions := new(mockSessionRepo)
	sessions.On("Create", u.ID, mock.AnythingOfType("time.Time")).Return(&session.Session{
		ID:        1,
		UserID:    u.ID,
		ExpiresAt: time.Now().UTC().Add(session.Lifetime),
	}, nil)

	svc := auth.NewService(users, sessions, cipher, issuer, nil, testLogger())

	res, err := svc.Login(u.Email, "pw123")
	assert.NoError(t, err)

	body, err := json.Marshal(res)
	assert.NoError(t, err)
	assert.NotContains(t, string(body), u.PasswordHash)
	assert.NotContains(t, string(body), u.Salt)
	assert.NotContains(t, string(body), "password")
}

func TestVerifySession(t *testing.T) {
	cipher := session.NewCipher("session-secret")
	issuer := token.NewIssuer("jwt-secret")
	u := testUser(t, "pw123")

	seal := func(id int64, expires time.Time) string {
		s, err := cipher.Seal(session.Envelope{SessionID: id, ExpiresAt: expires})
		assert.NoError(t, err)
		return s
	}

	t.Run("undecodable envelope", func(t *testing.T) {
		svc := auth.NewService(new(mockUserRepo), new(mockSessionRepo), cipher, issuer, nil, testLogger())

		res, err := svc.VerifySession("deadbeef:deadbeef")
		assert.ErrorIs(t, err, auth.ErrInvalidSession)
		assert.Nil(t, res)
	})

	t.Run("embedded expiry skips storage", func(t *testing.T) {
		sessions := new(mockSessionRepo)
		svc := auth.NewService(new(mockUserRepo), sessions, cipher, issuer, nil, testLogger())

		res, err := svc.VerifySession(seal(7, time.Now().UTC().Add(-time.Minute)))
		assert.ErrorIs(t, err, auth.ErrSessionExpired)
		assert.Nil(t, res)
		sessions.AssertNotCalled(t, "FindByID", mock.Anything)
	})

	t.Run("row missing", func(t *testing.T) {
		sessions := new(mockSessionRepo)
		sessions.On("FindByID", int64(7)).Return(nil, nil)
		svc := auth.NewService(new(mockUserRepo), sessions, cipher, issuer, nil, testLogger())

		res, err := svc.VerifySession(seal(7, time.Now().UTC().Add(time.Hour)))
		assert.ErrorIs(t, err, auth.ErrSessionNotFound)
		assert.Nil(t, res)
	})

	t.Run("row expired is removed", func(t *testing.T) {
		sessions := new(mockSessionRepo)
		sessions.On("FindByID", int64(7)).Return(&session.Session{
			ID:        7,
			UserID:    u.ID,
			ExpiresAt: time.Now().UTC().Add(-time.Minute),
		}, nil)
		sessions.On("DeleteByID", int64(7)).Return(int64(1), nil)
		svc := auth.NewService(new(mockUserRepo), sessions, cipher, issuer, nil, testLogger())

		// envelope still looks live; the row is the authority
		res, err := svc.VerifySession(seal(7, time.Now().UTC().Add(time.Hour)))
		assert.ErrorIs(t, err, auth.ErrSessionExpired)
		assert.Nil(t, res)
		sessions.AssertExpectations(t)
	})

	t.Run("user gone", func(t *testing.T) {
		sessions := new(mockSessionRepo)
		sessions.On("FindByID", int64(7)).Return(&session.Session{
			ID:        7,
			UserID:    u.ID,
			ExpiresAt: time.Now().UTC().Add(time.Hour),
		}, nil)
		users := new(mockUserRepo)
		users.On("FindByID", u.ID).Return(nil, nil)
		svc := auth.NewService(users, sessions, cipher, issuer, nil, testLogger())

		res, err := svc.VerifySession(seal(7, time.Now().UTC().Add(time.Hour)))
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
		assert.Nil(t, res)
	})

	t.Run("success", func(t *testing.T) {
		expires := time.Now().UTC().Add(time.Hour).Truncate(time.Second)
		sessions := new(mockSessionRepo)
		sessions.On("FindByID", int64(7)).Return(&session.Session{
			ID:        7,
			UserID:    u.ID,
			ExpiresAt: expires,
		}, nil)
		users := new(mockUserRepo)
		users.On("FindByID", u.ID).Return(u, nil)
		svc := auth.NewService(users, sessions, cipher, issuer, nil, testLogger())

		res, err := svc.VerifySession(seal(7, time.Now().UTC().Add(time.Hour)))
		assert.NoError(t, err)
		assert.Equal(t, u.ID, res.UserID)
		assert.Equal(t, u.Email, res.User.Email)
		assert.Equal(t, u.FirstName, res.User.FirstName)
		assert.True(t, expires.Equal(res.ExpiresAt))
	})
}

func TestLogout(t *testing.T) {
	cipher := session.NewCipher("session-secret")
	issuer := token.NewIssuer("jwt-secret")

	t.Run("undecodable envelope is already logged out", func(t *testing.T) {
		sessions := new(mockSessionRepo)
		svc := auth.NewService(new(mockUserRepo), sessions, cipher, issuer, nil, testLogger())

		assert.NoError(t, svc.Logout("garbage"))
		sessions.AssertNotCalled(t, "DeleteByID", mock.Anything)
	})

	t.Run("deletes the referenced session", func(t *testing.T) {
		sessions := new(mockSessionRepo)
		sessions.On("FindByID", int64(7)).Return(&session.Session{ID: 7, UserID: 42}, nil)
		sessions.On("DeleteByID", int64(7)).Return(int64(1), nil)
		recorder := new(mockRecorder)
		recorder.On("Record", mock.MatchedBy(func(e audit.Event) bool {
			return e.UserID == 42 && e.Action == audit.ActionLogout
		})).Return(nil)
		svc := auth.NewService(new(mockUserRepo), sessions, cipher, issuer, recorder, testLogger())

		envelope, err := cipher.Seal(session.Envelope{SessionID: 7, ExpiresAt: time.Now().UTC().Add(time.Hour)})
		assert.NoError(t, err)

		assert.NoError(t, svc.Logout(envelope))
		sessions.AssertExpectations(t)
		recorder.AssertExpectations(t)
	})

	t.Run("no row is still success", func(t *testing.T) {
		sessions := new(mockSessionRepo)
		sessions.On("FindByID", int64(7)).Return(nil, nil)
		sessions.On("DeleteByID", int64(7)).Return(int64(0), nil)
		svc := auth.NewService(new(mockUserRepo), sessions, cipher, issuer, nil, testLogger())

		envelope, err := cipher.Seal(session.Envelope{SessionID: 7, ExpiresAt: time.Now().UTC().Add(time.Hour)})
		assert.NoError(t, err)

		assert.NoError(t, svc.Logout(envelope))
	})
}

func TestVerifyToken(t *testing.T) {
	cipher := session.NewCipher("session-secret")
	issuer := token.NewIssuer("jwt-secret")
	svc := auth.NewService(new(mockUserRepo), new(mockSessionRepo), cipher, issuer, nil, testLogger())

	signed, err := issuer.Issue(42)
	assert.NoError(t, err)

	res, err := svc.VerifyToken(signed)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), res.UserID)
	assert.True(t, res.ExpiresAt.After(time.Now()))

	res, err = svc.VerifyToken("garbage")
	assert.ErrorIs(t, err, token.ErrInvalidToken)
	assert.Nil(t, res)
}

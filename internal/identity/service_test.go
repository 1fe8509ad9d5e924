package identity

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"diary/internal/logging"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard, TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

type trackedSessions struct {
	live    map[string]bool
	dropped []string
}

func (s *trackedSessions) Open(id string) { s.live[id] = true }

func (s *trackedSessions) Drop(id string) {
	delete(s.live, id)
	s.dropped = append(s.dropped, id)
}

func newService(t *testing.T, verify bool) (*Service, *trackedSessions) {
	t.Helper()
	tracked := &trackedSessions{live: map[string]bool{}}
	return &Service{
		Provider:       NewGormProvider(newTestDB(t)),
		Sessions:       tracked,
		Log:            logging.Discard(),
		VerifyPassword: verify,
		BcryptCost:     bcrypt.MinCost,
	}, tracked
}

func authMsg(t *testing.T, err error) string {
	t.Helper()
	var ae *AuthError
	require.ErrorAs(t, err, &ae)
	return ae.Msg
}

func TestSignupThenLogin(t *testing.T) {
	s, _ := newService(t, false)
	ctx := context.Background()

	sess, err := s.Signup(ctx, "  Jane.Doe@Example.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "jane.doe@example.com", sess.Email)
	assert.Equal(t, "jane_doe_example_com", sess.UserKey)
	assert.NotEmpty(t, sess.ID)

	again, err := s.Login(ctx, "jane.doe@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, sess.UserKey, again.UserKey)
	assert.NotEqual(t, sess.ID, again.ID, "each login is its own session")
}

func TestLogin_WithoutVerificationIgnoresPassword(t *testing.T) {
	s, _ := newService(t, false)
	ctx := context.Background()
	_, err := s.Signup(ctx, "a@b.com", "secret1")
	require.NoError(t, err)

	_, err = s.Login(ctx, "a@b.com", "wrong")
	assert.NoError(t, err)
}

func TestLogin_WithVerification(t *testing.T) {
	s, _ := newService(t, true)
	ctx := context.Background()
	_, err := s.Signup(ctx, "a@b.com", "secret1")
	require.NoError(t, err)

	_, err = s.Login(ctx, "a@b.com", "wrong")
	assert.Equal(t, "login failed, please check your credentials", authMsg(t, err))

	_, err = s.Login(ctx, "a@b.com", "secret1")
	assert.NoError(t, err)
}

func TestLogin_UnknownUser(t *testing.T) {
	s, _ := newService(t, false)

	_, err := s.Login(context.Background(), "ghost@example.com", "x")
	assert.Equal(t, "login failed, please check your credentials", authMsg(t, err))
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSignup_Failures(t *testing.T) {
	s, _ := newService(t, false)
	ctx := context.Background()
	_, err := s.Signup(ctx, "dup@example.com", "secret1")
	require.NoError(t, err)

	tests := []struct {
		name, email, password, msg string
	}{
		{"duplicate", "DUP@example.com", "secret1", "email already used"},
		{"short password", "new@example.com", "12345", "password must be at least 6 characters"},
		{"bad email", "not-an-email", "secret1", "invalid email"},
		{"empty email", "   ", "secret1", "invalid email"},
		{"display name", "Jane <j@example.com>", "secret1", "invalid email"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Signup(ctx, tc.email, tc.password)
			assert.Equal(t, tc.msg, authMsg(t, err))
		})
	}
}

type brokenProvider struct{ err error }

func (b brokenProvider) LookupByEmail(context.Context, string) (*User, error) { return nil, b.err }
func (b brokenProvider) CreateUser(context.Context, string, string) (*User, error) {
	return nil, b.err
}

func TestProviderErrorsAreNotSurfaced(t *testing.T) {
	raw := errors.New("dial tcp 10.0.0.1:5432: connection refused")
	s := &Service{Provider: brokenProvider{err: raw}, Log: logging.Discard(), BcryptCost: bcrypt.MinCost}
	ctx := context.Background()

	_, err := s.Login(ctx, "a@b.com", "x")
	assert.NotContains(t, authMsg(t, err), "connection refused")
	assert.ErrorIs(t, err, raw)

	_, err = s.Signup(ctx, "a@b.com", "secret1")
	assert.Equal(t, "signup failed", authMsg(t, err))
}

func TestSessionsOpenOnAuthAndCloseOnLogout(t *testing.T) {
	s, tracked := newService(t, false)
	ctx := context.Background()

	signed, err := s.Signup(ctx, "a@b.com", "secret1")
	require.NoError(t, err)
	logged, err := s.Login(ctx, "a@b.com", "")
	require.NoError(t, err)
	assert.True(t, tracked.live[signed.ID])
	assert.True(t, tracked.live[logged.ID])

	s.Logout(ctx, signed)
	assert.False(t, tracked.live[signed.ID])
	assert.True(t, tracked.live[logged.ID], "other sessions of the same user stay open")
	assert.Equal(t, []string{signed.ID}, tracked.dropped)

	_, err = s.Login(ctx, "ghost@example.com", "")
	require.Error(t, err)
	assert.Len(t, tracked.live, 1, "failed login opens nothing")

	s.Sessions = nil
	s.Logout(ctx, logged)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	p := NewGormProvider(newTestDB(t))
	ctx := context.Background()

	_, err := p.CreateUser(ctx, "a@b.com", "h1")
	require.NoError(t, err)
	_, err = p.CreateUser(ctx, "a@b.com", "h2")
	assert.ErrorIs(t, err, ErrEmailTaken)

	u, err := p.LookupByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "h1", u.PasswordHash)
}

// Package identity manages diary accounts: signup, login and logout.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"diary/internal/entry"
	"diary/internal/logging"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLen is the password policy applied on signup.
const MinPasswordLen = 6

// AuthError is a login/signup failure. Msg is safe to show to the user; Err
// is the underlying cause and is only logged.
type AuthError struct {
	Op  string
	Msg string
	Err error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return e.Op + ": " + e.Msg + ": " + e.Err.Error()
	}
	return e.Op + ": " + e.Msg
}

func (e *AuthError) Unwrap() error { return e.Err }

// Session identifies one logged-in browser/client.
type Session struct {
	ID      string
	Email   string
	UserKey string
}

func NewSession(email string) Session {
	return Session{
		ID:      uuid.NewString(),
		Email:   email,
		UserKey: entry.UserKey(email),
	}
}

// SessionTracker holds the server-side record of live sessions. A session is
// usable only between Open and Drop.
type SessionTracker interface {
	Open(sessionID string)
	Drop(sessionID string)
}

type Service struct {
	Provider Provider
	Sessions SessionTracker
	Log      logging.Logger

	// VerifyPassword enables the password check on login. When false, login
	// only requires the account to exist.
	VerifyPassword bool
	BcryptCost     int
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", errors.New("email required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", errors.New("invalid email")
	}
	return email, nil
}

func (s *Service) Login(ctx context.Context, rawEmail, password string) (Session, error) {
	email, err := normalizeEmail(rawEmail)
	if err != nil {
		return Session{}, &AuthError{Op: "login", Msg: "invalid email", Err: err}
	}

	u, err := s.Provider.LookupByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			s.Log.Error(ctx, "user lookup failed", "err", err)
		}
		return Session{}, &AuthError{Op: "login", Msg: "login failed, please check your credentials", Err: err}
	}

	if s.VerifyPassword {
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
			return Session{}, &AuthError{Op: "login", Msg: "login failed, please check your credentials"}
		}
	}

	sess := s.open(u.Email)
	s.Log.Info(ctx, "user logged in", "user_key", sess.UserKey, "session_id", sess.ID)
	return sess, nil
}

func (s *Service) Signup(ctx context.Context, rawEmail, password string) (Session, error) {
	email, err := normalizeEmail(rawEmail)
	if err != nil {
		return Session{}, &AuthError{Op: "signup", Msg: "invalid email", Err: err}
	}
	if len(password) < MinPasswordLen {
		return Session{}, &AuthError{Op: "signup", Msg: fmt.Sprintf("password must be at least %d characters", MinPasswordLen)}
	}

	cost := s.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return Session{}, &AuthError{Op: "signup", Msg: "password not accepted", Err: err}
	}

	u, err := s.Provider.CreateUser(ctx, email, string(hash))
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return Session{}, &AuthError{Op: "signup", Msg: "email already used", Err: err}
		}
		s.Log.Error(ctx, "user create failed", "err", err)
		return Session{}, &AuthError{Op: "signup", Msg: "signup failed", Err: err}
	}

	sess := s.open(u.Email)
	s.Log.Info(ctx, "user signed up", "user_key", sess.UserKey, "session_id", sess.ID)
	return sess, nil
}

func (s *Service) open(email string) Session {
	sess := NewSession(email)
	if s.Sessions != nil {
		s.Sessions.Open(sess.ID)
	}
	return sess
}

// Logout ends the session: its state is dropped and its token stops being
// accepted. It always succeeds.
func (s *Service) Logout(ctx context.Context, sess Session) {
	if s.Sessions != nil {
		s.Sessions.Drop(sess.ID)
	}
	s.Log.Info(ctx, "user logged out", "user_key", sess.UserKey, "session_id", sess.ID)
}

package auth

import (
	"errors"
	"time"

	"diary/internal/entry"
	"diary/internal/identity"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type JWT struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWT(secret string, ttl time.Duration) *JWT {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &JWT{secret: []byte(secret), ttl: ttl, now: time.Now}
}

type claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

func (j *JWT) Sign(sess identity.Session) (string, error) {
	now := j.now()
	c := claims{
		SessionID: sess.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return t.SignedString(j.secret)
}

func (j *JWT) Verify(tokenStr string) (identity.Session, error) {
	var c claims
	t, err := jwt.ParseWithClaims(tokenStr, &c, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return j.secret, nil
	}, jwt.WithTimeFunc(j.now))
	if err != nil || !t.Valid {
		return identity.Session{}, ErrInvalidToken
	}
	if c.Subject == "" || c.SessionID == "" {
		return identity.Session{}, ErrInvalidToken
	}

	return identity.Session{
		ID:      c.SessionID,
		Email:   c.Subject,
		UserKey: entry.UserKey(c.Subject),
	}, nil
}

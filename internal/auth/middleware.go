package auth

import (
	"context"
	"net/http"
	"strings"

	"diary/internal/identity"
)

type ctxKey string

const sessionKey ctxKey = "session"

func SessionFromContext(ctx context.Context) (identity.Session, bool) {
	v := ctx.Value(sessionKey)
	s, ok := v.(identity.Session)
	return s, ok
}

func WithSession(ctx context.Context, s identity.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// SessionChecker reports whether a session is still open server-side.
type SessionChecker interface {
	Active(sessionID string) bool
}

// RequireAuth accepts a request only when its bearer token verifies and the
// session it names has not been logged out or expired.
func RequireAuth(jwtSvc *JWT, sessions SessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if h == "" || !strings.HasPrefix(h, "Bearer ") {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			token := strings.TrimPrefix(h, "Bearer ")

			sess, err := jwtSvc.Verify(token)
			if err != nil || !sessions.Active(sess.ID) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}

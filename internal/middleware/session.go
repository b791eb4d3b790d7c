package middleware

import (
	"context"
	"net/http"

	"github.com/crucial707/chatboard/internal/session"
)

type key string

const (
	UserIDKey    key = "user_id"
	SessionIDKey key = "session_id"
)

// WithUserID returns ctx carrying an authenticated user id.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// GetUserID returns the authenticated user id, if the request has a session.
func GetUserID(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(UserIDKey).(int)
	return id, ok
}

// GetSessionID returns the id of the request's session, if any.
func GetSessionID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(SessionIDKey).(string)
	return id, ok
}

// Session resolves the session cookie and stores the session's user id in the
// request context. Requests without a valid session pass through unchanged.
func Session(m *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := m.Load(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			ctx := WithUserID(r.Context(), sess.UserID)
			ctx = context.WithValue(ctx, SessionIDKey, sess.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

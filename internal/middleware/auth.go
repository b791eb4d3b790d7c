package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/crucial707/chatboard/internal/models"
	"github.com/crucial707/chatboard/internal/repo"
)

// UserGetter loads a user by id.
type UserGetter interface {
	GetUser(ctx context.Context, id int) (models.User, error)
}

// RequireAuth rejects requests without a session with 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUserID(r.Context()); !ok {
			writeMessage(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests without a session (401) and requests whose
// user is missing or not an admin (403).
func RequireAdmin(users UserGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := GetUserID(r.Context())
			if !ok {
				writeMessage(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			user, err := users.GetUser(r.Context(), userID)
			if err != nil && !errors.Is(err, repo.ErrNotFound) {
				slog.ErrorContext(r.Context(), "require admin: load user failed",
					"user_id", userID,
					"error", err)
				writeMessage(w, http.StatusInternalServerError, "An unexpected error occurred")
				return
			}
			if err != nil || !user.IsAdmin {
				writeMessage(w, http.StatusForbidden, "Forbidden: Admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Recoverer turns a handler panic into the generic 500 body and logs the
// stack with the request and session it happened in.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			// net/http uses this panic to abort a response; let it through.
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			attrs := []any{
				"request_id", chimw.GetReqID(r.Context()),
				"route", r.Method + " " + r.URL.Path,
				"panic", rec,
				"stack", string(debug.Stack()),
			}
			if userID, ok := GetUserID(r.Context()); ok {
				attrs = append(attrs, "user_id", userID)
			}
			slog.ErrorContext(r.Context(), "panic recovered", attrs...)

			writeMessage(w, http.StatusInternalServerError, "An unexpected error occurred")
		}()
		next.ServeHTTP(w, r)
	})
}

package handlers

import (
	"errors"
	"html"
	"log/slog"
	"net/http"
	"strings"

	"github.com/crucial707/chatboard/internal/metrics"
	"github.com/crucial707/chatboard/internal/middleware"
	"github.com/crucial707/chatboard/internal/models"
	"github.com/crucial707/chatboard/internal/repo"
)

type sanitizer interface {
	Sanitize(s string) string
}

// MessageHandler serves the public message board.
type MessageHandler struct {
	Store     repo.Store
	Sanitizer sanitizer
}

// ListMessages returns every message joined with its author, oldest first.
func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	msgs, err := h.Store.GetMessages(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "list messages failed", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if msgs == nil {
		msgs = []models.MessageWithUser{}
	}

	writeJSON(w, http.StatusOK, msgs)
}

// CreateMessage posts a message as the session's user.
func (h *MessageHandler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := middleware.GetUserID(ctx)

	var input struct {
		Content *string `json:"content"`
	}
	if err := decodeJSON(r, &input); err != nil {
		JSONError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if input.Content == nil {
		fields := map[string]string{"content": "is required"}
		JSONValidationError(w, validationMessage(fields), fields, http.StatusBadRequest)
		return
	}

	content := h.clean(*input.Content)
	if strings.TrimSpace(content) == "" {
		fields := map[string]string{"content": "must not be empty"}
		JSONValidationError(w, validationMessage(fields), fields, http.StatusBadRequest)
		return
	}

	msg, err := h.Store.CreateMessage(ctx, models.NewMessage{UserID: userID, Content: content})
	if err != nil {
		slog.ErrorContext(ctx, "create message failed", "user_id", userID, "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	metrics.IncMessagesPosted()

	user, err := h.Store.GetUser(ctx, userID)
	if err != nil {
		// The author vanished between auth and insert; answer without a username.
		if !errors.Is(err, repo.ErrNotFound) {
			slog.ErrorContext(ctx, "create message: author lookup failed", "user_id", userID, "error", err)
		}
		writeJSON(w, http.StatusCreated, msg)
		return
	}

	writeJSON(w, http.StatusCreated, models.MessageWithUser{Message: msg, Username: user.Username})
}

// clean strips markup. The sanitizer HTML-escapes text, which is undone here
// because clients receive plain text inside JSON and escape on render.
func (h *MessageHandler) clean(s string) string {
	if h.Sanitizer == nil {
		return s
	}
	return html.UnescapeString(h.Sanitizer.Sanitize(s))
}

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/crucial707/chatboard/internal/auth"
	"github.com/crucial707/chatboard/internal/metrics"
	"github.com/crucial707/chatboard/internal/middleware"
	"github.com/crucial707/chatboard/internal/models"
	"github.com/crucial707/chatboard/internal/repo"
	"github.com/crucial707/chatboard/internal/session"
	"github.com/go-playground/validator/v10"
)

// ErrMessageInvalidCredentials is shared by unknown-user and wrong-password
// login failures so the response does not reveal which one happened.
const ErrMessageInvalidCredentials = "Invalid username or password"

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Store    repo.Store
	Sessions *session.Manager
	Hasher   *auth.Hasher
	Validate *validator.Validate
}

type credentials struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required"`
	IsAdmin  bool   `json:"isAdmin"`
}

// ==========================
// Register
// ==========================
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input credentials
	if err := decodeJSON(r, &input); err != nil {
		JSONError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if err := h.Validate.Struct(input); err != nil {
		fields := validationFields(err)
		JSONValidationError(w, validationMessage(fields), fields, http.StatusBadRequest)
		return
	}
	// bcrypt counts bytes, not characters.
	if limit := h.Hasher.MaxPasswordBytes(); limit > 0 && len(input.Password) > limit {
		fields := map[string]string{"password": fmt.Sprintf("must be at most %d bytes", limit)}
		JSONValidationError(w, validationMessage(fields), fields, http.StatusBadRequest)
		return
	}

	// Check-then-insert; only a backend with a UNIQUE constraint closes the race.
	_, err := h.Store.GetUserByUsername(ctx, input.Username)
	switch {
	case err == nil:
		JSONError(w, "Username already taken", http.StatusConflict)
		return
	case !errors.Is(err, repo.ErrNotFound):
		slog.ErrorContext(ctx, "register: lookup failed", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	hash, err := h.Hasher.Hash(input.Password)
	if err != nil {
		slog.ErrorContext(ctx, "register: hash failed", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	user, err := h.Store.CreateUser(ctx, models.NewUser{
		Username: input.Username,
		Password: hash,
		IsAdmin:  input.IsAdmin,
	})
	if errors.Is(err, repo.ErrUsernameTaken) {
		JSONError(w, "Username already taken", http.StatusConflict)
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "register: create user failed", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	metrics.IncUserEvent("registered")
	slog.InfoContext(ctx, "user registered",
		slog.Int("user_id", user.ID),
		slog.String("username", user.Username))

	writeJSON(w, http.StatusCreated, user.Public())
}

// ==========================
// Login
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &input); err != nil {
		JSONError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	user, err := h.Store.GetUserByUsername(ctx, input.Username)
	if errors.Is(err, repo.ErrNotFound) {
		metrics.IncUserEvent("login_failed")
		JSONError(w, ErrMessageInvalidCredentials, http.StatusUnauthorized)
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "login: lookup failed", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	ok, err := h.Hasher.Verify(input.Password, user.Password)
	if err != nil {
		slog.ErrorContext(ctx, "login: cannot verify password, hash may be corrupted",
			"user_id", user.ID,
			"error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if !ok {
		metrics.IncUserEvent("login_failed")
		JSONError(w, ErrMessageInvalidCredentials, http.StatusUnauthorized)
		return
	}

	// Drop any session the client already carried before issuing a new one.
	if sid, ok := middleware.GetSessionID(ctx); ok {
		if err := h.Sessions.Backend().Destroy(sid); err != nil {
			slog.WarnContext(ctx, "login: destroy previous session failed",
				"session_id", sid,
				"error", err)
		}
	}

	if _, err := h.Sessions.Start(w, user.ID); err != nil {
		slog.ErrorContext(ctx, "login: start session failed", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	metrics.IncUserEvent("login")
	metrics.SetActiveSessions(h.Sessions.Backend().Len())
	slog.InfoContext(ctx, "user logged in",
		slog.Int("user_id", user.ID),
		slog.String("username", user.Username))

	writeJSON(w, http.StatusOK, user.Public())
}

// ==========================
// Logout
// ==========================
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.Sessions.Destroy(w, r); err != nil {
		slog.ErrorContext(ctx, "logout: destroy session failed", "error", err)
		JSONError(w, "Failed to logout", http.StatusInternalServerError)
		return
	}

	metrics.SetActiveSessions(h.Sessions.Backend().Len())
	if userID, ok := middleware.GetUserID(ctx); ok {
		slog.InfoContext(ctx, "user logged out", slog.Int("user_id", userID))
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

// ==========================
// Me
// ==========================
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := middleware.GetUserID(ctx)

	user, err := h.Store.GetUser(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		JSONError(w, "User not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "me: lookup failed", "user_id", userID, "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, user.Public())
}

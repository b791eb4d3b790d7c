package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"sort"

	"github.com/crucial707/chatboard/internal/metrics"
	"github.com/crucial707/chatboard/internal/middleware"
	"github.com/crucial707/chatboard/internal/models"
	"github.com/crucial707/chatboard/internal/repo"
	"github.com/crucial707/chatboard/internal/session"
)

// ==========================
// AdminHandler
// ==========================
type AdminHandler struct {
	Store    repo.Store
	Sessions session.Backend
}

// PromotedUser is the make-first-admin response body.
type PromotedUser struct {
	models.PublicUser
	Message string `json:"message"`
}

// ==========================
// Make First Admin
// ==========================
// MakeFirstAdmin promotes the caller. Any authenticated user may call it and
// repeated calls leave the caller an admin.
func (h *AdminHandler) MakeFirstAdmin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := middleware.GetUserID(ctx)

	if _, err := h.Store.GetUser(ctx, userID); err != nil {
		h.lookupFailed(w, r, userID, err)
		return
	}

	updated, err := h.Store.MakeUserAdmin(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "make first admin failed", "user_id", userID, "error", err)
		JSONError(w, "Failed to update user", http.StatusInternalServerError)
		return
	}

	metrics.IncUserEvent("promoted")
	slog.InfoContext(ctx, "user promoted to admin",
		"user_id", userID,
		"by", userID)

	writeJSON(w, http.StatusOK, PromotedUser{
		PublicUser: updated.Public(),
		Message:    "You are now an admin!",
	})
}

// ==========================
// List Users
// ==========================
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.Store.GetAllUsers(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "list users failed", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	out := models.PublicUsers(users)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	writeJSON(w, http.StatusOK, out)
}

// ==========================
// Delete User
// ==========================
// DeleteUser removes a user's messages, then the user, then the user's sessions.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID, _ := middleware.GetUserID(ctx)

	id, ok := userIDParam(r)
	if !ok {
		JSONError(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	if _, err := h.Store.GetUser(ctx, id); err != nil {
		h.lookupFailed(w, r, id, err)
		return
	}

	if id == callerID {
		JSONError(w, "Cannot delete your own account", http.StatusBadRequest)
		return
	}

	if err := h.Store.DeleteUserMessages(ctx, id); err != nil {
		slog.ErrorContext(ctx, "delete user messages failed", "user_id", id, "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	deleted, err := h.Store.DeleteUser(ctx, id)
	if err != nil || !deleted {
		slog.ErrorContext(ctx, "delete user failed", "user_id", id, "deleted", deleted, "error", err)
		JSONError(w, "Failed to delete user", http.StatusInternalServerError)
		return
	}

	revoked := 0
	if h.Sessions != nil {
		revoked = h.Sessions.DestroyUser(id)
		metrics.SetActiveSessions(h.Sessions.Len())
	}

	metrics.IncUserEvent("deleted")
	slog.InfoContext(ctx, "user deleted",
		"user_id", id,
		"by", callerID,
		"sessions_revoked", revoked)

	writeJSON(w, http.StatusOK, MessageResponse{Message: "User deleted successfully"})
}

// ==========================
// Promote User
// ==========================
func (h *AdminHandler) PromoteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID, _ := middleware.GetUserID(ctx)

	id, ok := userIDParam(r)
	if !ok {
		JSONError(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	user, err := h.Store.GetUser(ctx, id)
	if err != nil {
		h.lookupFailed(w, r, id, err)
		return
	}

	if user.IsAdmin {
		JSONError(w, "User is already an admin", http.StatusBadRequest)
		return
	}

	updated, err := h.Store.MakeUserAdmin(ctx, id)
	if err != nil {
		slog.ErrorContext(ctx, "promote user failed", "user_id", id, "error", err)
		JSONError(w, "Failed to update user", http.StatusInternalServerError)
		return
	}

	metrics.IncUserEvent("promoted")
	slog.InfoContext(ctx, "user promoted to admin",
		"user_id", id,
		"by", callerID)

	writeJSON(w, http.StatusOK, updated.Public())
}

// lookupFailed answers a failed GetUser: 404 when absent, 500 otherwise.
func (h *AdminHandler) lookupFailed(w http.ResponseWriter, r *http.Request, id int, err error) {
	if errors.Is(err, repo.ErrNotFound) {
		JSONError(w, "User not found", http.StatusNotFound)
		return
	}
	slog.ErrorContext(r.Context(), "user lookup failed", "user_id", id, "error", err)
	JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
}

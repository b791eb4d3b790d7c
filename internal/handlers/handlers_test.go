package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/crucial707/chatboard/internal/auth"
	"github.com/crucial707/chatboard/internal/middleware"
	"github.com/crucial707/chatboard/internal/models"
	"github.com/crucial707/chatboard/internal/repo"
	"github.com/crucial707/chatboard/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"
)

type testEnv struct {
	store    *repo.MemoryStore
	sessions *session.Manager
	hasher   *auth.Hasher
	auth     *AuthHandler
	messages *MessageHandler
	admin    *AdminHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := repo.NewMemoryStore()
	sessions := session.NewManager(session.NewMemoryStore(time.Hour), session.Options{
		Secret: "test-secret",
		MaxAge: time.Hour,
	})
	hasher, err := auth.NewHasher("bcrypt")
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}

	return &testEnv{
		store:    store,
		sessions: sessions,
		hasher:   hasher,
		auth:     &AuthHandler{Store: store, Sessions: sessions, Hasher: hasher, Validate: NewValidator()},
		messages: &MessageHandler{Store: store, Sanitizer: bluemonday.StrictPolicy()},
		admin:    &AdminHandler{Store: store, Sessions: sessions.Backend()},
	}
}

func (e *testEnv) createUser(t *testing.T, username, password string, admin bool) models.User {
	t.Helper()
	hash, err := e.hasher.Hash(password)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	u, err := e.store.CreateUser(context.Background(), models.NewUser{Username: username, Password: hash, IsAdmin: admin})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u
}

func jsonRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// asUser attaches an authenticated user id to req.
func asUser(req *http.Request, userID int) *http.Request {
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

// withID sets the chi {id} route parameter on req.
func withID(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body.Message
}

func itoa(n int) string { return strconv.Itoa(n) }

// failingBackend is a session backend whose Destroy always fails.
type failingBackend struct {
	*session.MemoryStore
}

func (b *failingBackend) Destroy(string) error {
	return errors.New("session backend unavailable")
}

// undeletableStore reports that DeleteUser removed nothing.
type undeletableStore struct {
	*repo.MemoryStore
}

func (s *undeletableStore) DeleteUser(context.Context, int) (bool, error) {
	return false, nil
}

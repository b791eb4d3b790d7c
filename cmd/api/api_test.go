package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/chatboard/internal/config"
	"github.com/crucial707/chatboard/internal/repo"
	"github.com/crucial707/chatboard/internal/session"
)

func testConfig() config.Config {
	return config.Config{
		SessionSecret: "test-secret-for-integration",
		SessionMaxAge: time.Hour,
		PasswordHash:  config.HashBcrypt,
		MaxBodyBytes:  1 << 20,
	}
}

func newTestServer(t *testing.T, store repo.Store) *httptest.Server {
	t.Helper()
	cfg := testConfig()
	sessions := session.NewManager(session.NewMemoryStore(cfg.SessionMaxAge), session.Options{
		Secret: cfg.SessionSecret,
		MaxAge: cfg.SessionMaxAge,
	})
	r, err := newRouter(store, sessions, cfg)
	if err != nil {
		t.Fatalf("newRouter: %v", err)
	}
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

// apiClient is one browser: it keeps its own session cookie.
type apiClient struct {
	t    *testing.T
	base string
	http *http.Client
}

func newClient(t *testing.T, srv *httptest.Server) *apiClient {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New: %v", err)
	}
	return &apiClient{t: t, base: srv.URL, http: &http.Client{Jar: jar}}
}

// do sends a JSON request and decodes the response into out when out is non-nil.
func (c *apiClient) do(method, path string, body, out any) int {
	c.t.Helper()
	var rdr io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.base+path, rdr)
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			c.t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

type userOut struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

type messageOut struct {
	ID       int    `json:"id"`
	UserID   int    `json:"userId"`
	Content  string `json:"content"`
	Username string `json:"username"`
}

func (c *apiClient) registerAndLogin(username, password string) userOut {
	c.t.Helper()
	var u userOut
	if code := c.do("POST", "/api/register", map[string]string{"username": username, "password": password}, &u); code != http.StatusCreated {
		c.t.Fatalf("register %s: got %d, want 201", username, code)
	}
	if code := c.do("POST", "/api/login", map[string]string{"username": username, "password": password}, nil); code != http.StatusOK {
		c.t.Fatalf("login %s: got %d, want 200", username, code)
	}
	return u
}

func TestAPI_RegisterTwiceConflicts(t *testing.T) {
	srv := newTestServer(t, repo.NewMemoryStore())
	c := newClient(t, srv)

	body := map[string]string{"username": "alice", "password": "pw1"}
	if code := c.do("POST", "/api/register", body, nil); code != http.StatusCreated {
		t.Fatalf("first register: got %d, want 201", code)
	}
	var errOut struct {
		Message string `json:"message"`
	}
	if code := c.do("POST", "/api/register", body, &errOut); code != http.StatusConflict {
		t.Fatalf("second register: got %d, want 409", code)
	}
	if errOut.Message != "Username already taken" {
		t.Errorf("message: got %q", errOut.Message)
	}
}

func TestAPI_LoginThenMe(t *testing.T) {
	srv := newTestServer(t, repo.NewMemoryStore())
	c := newClient(t, srv)
	alice := c.registerAndLogin("alice", "pw1")

	var raw map[string]any
	if code := c.do("GET", "/api/me", nil, &raw); code != http.StatusOK {
		t.Fatalf("GET /api/me: got %d, want 200", code)
	}
	if _, ok := raw["password"]; ok {
		t.Error("GET /api/me leaks password")
	}
	if raw["username"] != "alice" || int(raw["id"].(float64)) != alice.ID {
		t.Errorf("unexpected user: %v", raw)
	}

	// Logging out ends the session.
	if code := c.do("POST", "/api/logout", nil, nil); code != http.StatusOK {
		t.Fatalf("logout: got %d, want 200", code)
	}
	if code := c.do("GET", "/api/me", nil, nil); code != http.StatusUnauthorized {
		t.Errorf("GET /api/me after logout: got %d, want 401", code)
	}
}

func TestAPI_LoginFailuresIndistinguishable(t *testing.T) {
	srv := newTestServer(t, repo.NewMemoryStore())
	c := newClient(t, srv)
	c.do("POST", "/api/register", map[string]string{"username": "alice", "password": "pw1"}, nil)

	var wrongPw, unknown struct {
		Message string `json:"message"`
	}
	codeA := c.do("POST", "/api/login", map[string]string{"username": "alice", "password": "bad"}, &wrongPw)
	codeB := c.do("POST", "/api/login", map[string]string{"username": "nobody", "password": "pw1"}, &unknown)

	if codeA != http.StatusUnauthorized || codeB != http.StatusUnauthorized {
		t.Fatalf("statuses: got %d and %d, want 401", codeA, codeB)
	}
	if wrongPw.Message != unknown.Message {
		t.Errorf("messages differ: %q vs %q", wrongPw.Message, unknown.Message)
	}
}

func TestAPI_PostMessageRequiresAuth(t *testing.T) {
	store := repo.NewMemoryStore()
	srv := newTestServer(t, store)
	c := newClient(t, srv)

	if code := c.do("POST", "/api/messages", map[string]string{"content": "hi"}, nil); code != http.StatusUnauthorized {
		t.Fatalf("POST /api/messages: got %d, want 401", code)
	}
	if code := c.do("GET", "/api/messages", nil, nil); code != http.StatusUnauthorized {
		t.Errorf("GET /api/messages: got %d, want 401", code)
	}

	msgs, _ := store.GetMessages(t.Context())
	if len(msgs) != 0 {
		t.Errorf("messages created without auth: %+v", msgs)
	}
}

func TestAPI_MessagesOrderedWithUsernames(t *testing.T) {
	srv := newTestServer(t, repo.NewMemoryStore())

	names := []string{"ann", "ben", "cat"}
	contents := []string{"a", "b", "c"}
	clients := make([]*apiClient, len(names))
	for i, name := range names {
		clients[i] = newClient(t, srv)
		clients[i].registerAndLogin(name, "pw-"+name)
	}
	for i, c := range clients {
		var m messageOut
		if code := c.do("POST", "/api/messages", map[string]string{"content": contents[i]}, &m); code != http.StatusCreated {
			t.Fatalf("post %q: got %d, want 201", contents[i], code)
		}
		if m.Username != names[i] {
			t.Errorf("post %q: username %q, want %q", contents[i], m.Username, names[i])
		}
	}

	var msgs []messageOut
	if code := clients[0].do("GET", "/api/messages", nil, &msgs); code != http.StatusOK {
		t.Fatalf("GET /api/messages: got %d, want 200", code)
	}
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3", len(msgs))
	}
	for i := range msgs {
		if msgs[i].Content != contents[i] || msgs[i].Username != names[i] {
			t.Errorf("message %d: got %q by %q, want %q by %q", i, msgs[i].Content, msgs[i].Username, contents[i], names[i])
		}
	}
}

func TestAPI_AdminFlow(t *testing.T) {
	srv := newTestServer(t, repo.NewMemoryStore())

	admin := newClient(t, srv)
	adminUser := admin.registerAndLogin("admin", "pw")
	bob := newClient(t, srv)
	bobUser := bob.registerAndLogin("bob", "pw2")

	// Non-admin is forbidden, anonymous is unauthorized.
	if code := bob.do("GET", "/api/admin/users", nil, nil); code != http.StatusForbidden {
		t.Errorf("non-admin list users: got %d, want 403", code)
	}
	if code := newClient(t, srv).do("GET", "/api/admin/users", nil, nil); code != http.StatusUnauthorized {
		t.Errorf("anonymous list users: got %d, want 401", code)
	}

	// make-first-admin is idempotent.
	for i := 0; i < 2; i++ {
		var out struct {
			userOut
			Message string `json:"message"`
		}
		if code := admin.do("POST", "/api/make-first-admin", nil, &out); code != http.StatusOK {
			t.Fatalf("make-first-admin #%d: got %d, want 200", i+1, code)
		}
		if !out.IsAdmin || out.Message == "" {
			t.Errorf("make-first-admin #%d: unexpected body %+v", i+1, out)
		}
	}

	bob.do("POST", "/api/messages", map[string]string{"content": "bob was here"}, nil)
	admin.do("POST", "/api/messages", map[string]string{"content": "admin here"}, nil)

	var users []map[string]any
	if code := admin.do("GET", "/api/admin/users", nil, &users); code != http.StatusOK {
		t.Fatalf("list users: got %d, want 200", code)
	}
	for _, u := range users {
		if _, ok := u["password"]; ok {
			t.Errorf("list users leaks password for %v", u["username"])
		}
	}

	selfPath := "/api/admin/users/" + strconv.Itoa(adminUser.ID)
	if code := admin.do("DELETE", selfPath, nil, nil); code != http.StatusBadRequest {
		t.Errorf("self delete: got %d, want 400", code)
	}
	if code := admin.do("PATCH", selfPath+"/make-admin", nil, nil); code != http.StatusBadRequest {
		t.Errorf("promote existing admin: got %d, want 400", code)
	}
	if code := admin.do("DELETE", "/api/admin/users/abc", nil, nil); code != http.StatusBadRequest {
		t.Errorf("malformed id: got %d, want 400", code)
	}
	if code := admin.do("DELETE", "/api/admin/users/999", nil, nil); code != http.StatusNotFound {
		t.Errorf("missing user: got %d, want 404", code)
	}

	bobPath := "/api/admin/users/" + strconv.Itoa(bobUser.ID)
	if code := admin.do("DELETE", bobPath, nil, nil); code != http.StatusOK {
		t.Fatalf("delete bob: got %d, want 200", code)
	}

	var msgs []messageOut
	admin.do("GET", "/api/messages", nil, &msgs)
	for _, m := range msgs {
		if m.UserID == bobUser.ID {
			t.Errorf("message %d from deleted user survived", m.ID)
		}
	}
	if len(msgs) != 1 {
		t.Errorf("got %d messages, want 1", len(msgs))
	}

	// Bob's session died with his account.
	if code := bob.do("GET", "/api/me", nil, nil); code != http.StatusUnauthorized {
		t.Errorf("deleted user's session: got %d, want 401", code)
	}
}

func TestAPI_Health(t *testing.T) {
	srv := newTestServer(t, repo.NewMemoryStore())

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("health request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /health status: got %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing")
	}
}

// TestAPI_Ready checks that /ready pings the store.
func TestAPI_Ready(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectPing()
	mock.ExpectPing().WillReturnError(io.ErrUnexpectedEOF)

	srv := newTestServer(t, repo.NewPostgresStore(db))

	for _, want := range []int{http.StatusOK, http.StatusServiceUnavailable} {
		resp, err := http.Get(srv.URL + "/ready")
		if err != nil {
			t.Fatalf("ready request: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != want {
			t.Errorf("GET /ready status: got %d, want %d", resp.StatusCode, want)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAPI_Metrics(t *testing.T) {
	srv := newTestServer(t, repo.NewMemoryStore())
	c := newClient(t, srv)
	c.do("GET", "/health", nil, nil)

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics request: %v", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(b), "http_requests_total") {
		t.Error("request counter not exported")
	}
}

package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultCookieName is the session cookie name.
const DefaultCookieName = "chat.sid"

// Options configures the session cookie.
type Options struct {
	Secret     string
	Secure     bool
	MaxAge     time.Duration
	CookieName string
}

// Manager issues, reads and clears session cookies. The cookie value is an
// HS256 token whose jti is the session id, so a forged or altered cookie never
// reaches the backend.
type Manager struct {
	backend Backend
	secret  []byte
	opts    Options
}

// NewManager returns a Manager over backend.
func NewManager(backend Backend, opts Options) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = DefaultCookieName
	}
	return &Manager{backend: backend, secret: []byte(opts.Secret), opts: opts}
}

// Backend exposes the underlying session store.
func (m *Manager) Backend() Backend {
	return m.backend
}

// CookieName is the name of the session cookie.
func (m *Manager) CookieName() string {
	return m.opts.CookieName
}

// Start creates a session for userID and sets the cookie on w.
func (m *Manager) Start(w http.ResponseWriter, userID int) (Session, error) {
	sess, err := m.backend.Create(userID)
	if err != nil {
		return Session{}, fmt.Errorf("session: create: %w", err)
	}

	token, err := m.sign(sess)
	if err != nil {
		_ = m.backend.Destroy(sess.ID)
		return Session{}, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.opts.MaxAge.Seconds()),
		Secure:   m.opts.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return sess, nil
}

// Load returns the live session referenced by the request cookie, if any.
func (m *Manager) Load(r *http.Request) (Session, bool) {
	c, err := r.Cookie(m.opts.CookieName)
	if err != nil || c.Value == "" {
		return Session{}, false
	}

	id, err := m.parse(c.Value)
	if err != nil {
		return Session{}, false
	}

	return m.backend.Get(id)
}

// Destroy invalidates the request's session (if any) and clears the cookie.
// The cookie is left in place when the backend fails.
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request) error {
	if sess, ok := m.Load(r); ok {
		if err := m.backend.Destroy(sess.ID); err != nil {
			return fmt.Errorf("session: destroy: %w", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   m.opts.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (m *Manager) sign(sess Session) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        sess.ID,
		IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
		ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("session: sign cookie: %w", err)
	}
	return signed, nil
}

func (m *Manager) parse(value string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(
		value,
		claims,
		func(t *jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("session: parse cookie: %w", err)
	}
	if !token.Valid || claims.ID == "" {
		return "", errors.New("session: invalid cookie")
	}
	return claims.ID, nil
}

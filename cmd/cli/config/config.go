package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultAPIURL   = "http://localhost:8080"
	sessionFileName = ".chatboard_session"
)

// APIURL returns the base URL for the chat board API.
// It can be overridden with the CHATBOARD_API_URL environment variable.
func APIURL() string {
	if v := os.Getenv("CHATBOARD_API_URL"); v != "" {
		return strings.TrimRight(v, "/")
	}
	return defaultAPIURL
}

// SessionPath is where the session cookie is kept between invocations.
// CHATBOARD_SESSION_FILE overrides the default ~/.chatboard_session.
func SessionPath() string {
	if v := os.Getenv("CHATBOARD_SESSION_FILE"); v != "" {
		return v
	}
	dir, _ := os.UserHomeDir()
	return filepath.Join(dir, sessionFileName)
}

// ==========================
// Session Storage Helpers
// ==========================
func SaveSession(cookie string) error {
	return os.WriteFile(SessionPath(), []byte(cookie), 0600)
}

// LoadSession returns the saved cookie value, or "" when not logged in.
func LoadSession() (string, error) {
	data, err := os.ReadFile(SessionPath())
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// ClearSession removes the saved cookie. It reports whether one existed.
func ClearSession() (bool, error) {
	err := os.Remove(SessionPath())
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

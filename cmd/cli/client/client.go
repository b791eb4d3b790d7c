// Package client is the CLI's HTTP client for the chat board API.
package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/crucial707/chatboard/cmd/cli/config"
)

// CookieName must match the server's session cookie.
const CookieName = "chat.sid"

// ErrNotLoggedIn is returned by calls that need a saved session when none exists.
var ErrNotLoggedIn = errors.New("not logged in; run `chatboard login` first")

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API error: status %d", e.Status)
	}
	return fmt.Sprintf("API error (%d): %s", e.Status, e.Message)
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New returns a Client for config.APIURL().
func New() *Client {
	return &Client{
		BaseURL: config.APIURL(),
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Call sends payload as JSON and decodes a 2xx body into out. A session cookie
// in the response replaces the saved one.
func (c *Client) Call(method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	sid, err := config.LoadSession()
	if err != nil {
		return fmt.Errorf("read session: %w", err)
	}
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: CookieName, Value: sid})
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := storeCookie(resp); err != nil {
		return err
	}

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &APIError{Status: resp.StatusCode}
		var e struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &e) == nil {
			apiErr.Message = e.Message
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// CallAuthed is Call for endpoints that need a session.
func (c *Client) CallAuthed(method, path string, payload, out any) error {
	sid, err := config.LoadSession()
	if err != nil {
		return err
	}
	if sid == "" {
		return ErrNotLoggedIn
	}
	return c.Call(method, path, payload, out)
}

func storeCookie(resp *http.Response) error {
	for _, ck := range resp.Cookies() {
		if ck.Name != CookieName {
			continue
		}
		if ck.Value == "" || ck.MaxAge < 0 {
			_, err := config.ClearSession()
			return err
		}
		return config.SaveSession(ck.Value)
	}
	return nil
}

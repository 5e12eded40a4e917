// Package api is the HTTP client for the terminal server's JSON API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/porthole-sh/porthole/internal/errors"
)

// Client talks to a single terminal server. Safe for concurrent use;
// the token may be swapped at any time by login/logout.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// BaseURL returns the server base URL the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetToken sets the bearer token used on subsequent requests.
// Pass empty string to clear it on logout.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// newRequest builds a request with auth and tracing headers applied.
func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	return req, nil
}

// errorBody is the server's JSON error envelope.
type errorBody struct {
	Error string `json:"error"`
}

// do executes the request and decodes a JSON response into out (when
// out is non-nil). Non-2xx statuses are mapped to kinded errors.
func (c *Client) do(op errors.Op, req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.E(op, errors.KindNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return errors.Unauthorized(op)
	}
	if resp.StatusCode == http.StatusNotFound {
		return errors.E(op, errors.KindNotFound, serverMessage(resp.Body))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.E(op, errors.KindNetwork,
			fmt.Sprintf("server returned %d: %s", resp.StatusCode, serverMessage(resp.Body)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.E(op, errors.KindInvalid, "failed to decode response", err)
	}
	return nil
}

// serverMessage extracts the error field from a JSON error body,
// falling back to the raw body.
func serverMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return "no response body"
	}
	var body errorBody
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		return body.Error
	}
	return strings.TrimSpace(string(data))
}

// ListSessions fetches the full session directory.
func (c *Client) ListSessions(ctx context.Context) ([]Session, error) {
	const op = errors.Op("api.ListSessions")
	req, err := c.newRequest(ctx, http.MethodGet, "/api/sessions", nil)
	if err != nil {
		return nil, errors.E(op, errors.KindInvalid, err)
	}

	var sessions []Session
	if err := c.do(op, req, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// GetSession fetches a single session by ID.
func (c *Client) GetSession(ctx context.Context, id string) (*Session, error) {
	const op = errors.Op("api.GetSession")
	req, err := c.newRequest(ctx, http.MethodGet, "/api/sessions/"+id, nil)
	if err != nil {
		return nil, errors.E(op, errors.KindInvalid, err)
	}

	var sess Session
	if err := c.do(op, req, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// CreateSession asks the server to spawn a new terminal session and
// returns the provisional session record.
func (c *Client) CreateSession(ctx context.Context, create CreateSessionRequest) (*Session, error) {
	const op = errors.Op("api.CreateSession")
	req, err := c.newRequest(ctx, http.MethodPost, "/api/sessions", create)
	if err != nil {
		return nil, errors.E(op, errors.KindInvalid, err)
	}

	var sess Session
	if err := c.do(op, req, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// KillSession terminates a session.
func (c *Client) KillSession(ctx context.Context, id string) error {
	const op = errors.Op("api.KillSession")
	req, err := c.newRequest(ctx, http.MethodDelete, "/api/sessions/"+id, nil)
	if err != nil {
		return errors.E(op, errors.KindInvalid, err)
	}
	return c.do(op, req, nil)
}

// CleanupExited removes all exited sessions and returns how many were
// cleaned up.
func (c *Client) CleanupExited(ctx context.Context) (int, error) {
	const op = errors.Op("api.CleanupExited")
	req, err := c.newRequest(ctx, http.MethodPost, "/api/cleanup-exited", nil)
	if err != nil {
		return 0, errors.E(op, errors.KindInvalid, err)
	}

	var resp CleanupResponse
	if err := c.do(op, req, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// Login exchanges credentials for a bearer token. On success the token
// is installed on the client for subsequent requests.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	const op = errors.Op("api.Login")
	body := map[string]string{"password": password}
	if username != "" {
		body["username"] = username
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/api/auth/login", body)
	if err != nil {
		return nil, errors.E(op, errors.KindInvalid, err)
	}

	var resp LoginResponse
	if err := c.do(op, req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success || resp.Token == "" {
		return nil, errors.E(op, errors.KindUnauthorized, "login rejected")
	}

	c.SetToken(resp.Token)
	return &resp, nil
}

// CurrentUser probes the server for the authenticated user. An
// unauthorized error here means the stored token is stale.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	const op = errors.Op("api.CurrentUser")
	req, err := c.newRequest(ctx, http.MethodGet, "/api/auth/current-user", nil)
	if err != nil {
		return nil, errors.E(op, errors.KindInvalid, err)
	}

	var user User
	if err := c.do(op, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout revokes the current token server-side and clears it locally.
// The local token is cleared even when revocation fails.
func (c *Client) Logout(ctx context.Context) error {
	const op = errors.Op("api.Logout")
	req, err := c.newRequest(ctx, http.MethodPost, "/api/auth/logout", nil)
	if err != nil {
		c.SetToken("")
		return errors.E(op, errors.KindInvalid, err)
	}

	err = c.do(op, req, nil)
	c.SetToken("")
	return err
}

// StreamURL returns the SSE endpoint for a session's output stream.
func (c *Client) StreamURL(id string) string {
	return c.baseURL + "/api/sessions/" + id + "/stream"
}

// NewStreamRequest builds an authenticated request for a session's SSE
// stream. The caller owns the response lifecycle.
func (c *Client) NewStreamRequest(ctx context.Context, id string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.StreamURL(id), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	return req, nil
}

// StreamClient returns an http.Client without the list-call timeout,
// suitable for long-lived SSE connections.
func (c *Client) StreamClient() *http.Client {
	return &http.Client{Transport: c.http.Transport}
}

// Package client wraps the atelier identity API and holds the session
// state for a caller: who the current user is, whether the session is
// still being probed, and the login/logout operations that move between
// those states.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"

	"codeberg.org/atelier/server/atelier/users"
)

const requestTimeout = 15 * time.Second

// Client is a stateful API client; the zero state is Unknown until
// Refresh (or any auth operation) settles it.
type Client struct {
	endpoint   string
	httpClient *http.Client

	mu       sync.Mutex
	state    State
	user     *users.User
	inFlight bool
}

// creates a client for the given server endpoint; the cookie jar holds
// the first-party session cookie
func New(endpoint string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: requestTimeout,
		},
		state: StateUnknown,
	}, nil
}

// returns the current session state
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// reports whether the client is still resolving the session: either the
// initial probe hasn't settled or an auth operation is in flight
func (c *Client) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateUnknown || c.inFlight
}

// returns the cached user, if authenticated
func (c *Client) CurrentUser() (*users.User, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateAuthenticated {
		return nil, false
	}

	return c.user, true
}

// probes /api/auth/me to settle the session state; an existing cookie
// may already carry a valid session. Rejected with ErrLoginInFlight
// while an auth operation is running.
func (c *Client) Refresh(ctx context.Context) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	var resp userResponse

	err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &resp)
	if err != nil {
		if apiErr, ok := err.(*APIError); ok && apiErr.Status == http.StatusUnauthorized {
			c.setUnauthenticated()
			return nil
		}

		return err
	}

	c.setAuthenticated(resp.User)

	return nil
}

// authenticates with username and password
func (c *Client) Login(ctx context.Context, username, password string) (*users.User, error) {
	return c.authenticate(ctx, "/api/auth/login", loginRequest{
		Username: username,
		Password: password,
	})
}

// authenticates with an external provider token; provider is the
// provider name the server knows ("firebase", "supabase")
func (c *Client) LoginWithProvider(ctx context.Context, provider, token string) (*users.User, error) {
	return c.authenticate(ctx, fmt.Sprintf("/api/auth/%s-auth", provider), tokenRequest{Token: token})
}

// registers a new account and signs in
func (c *Client) Register(ctx context.Context, params RegisterParams) (*users.User, error) {
	return c.authenticate(ctx, "/api/auth/register", params)
}

// ends the session; safe to call when already signed out. Rejected
// with ErrLoginInFlight while a sign-in is running, so a late login
// success can never overwrite the signed-out state.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)

	// the local principal is cleared regardless: a failed logout call
	// must not leave a stale user in the cache
	c.setUnauthenticated()

	return err
}

// claims the single-flight slot shared by every state-mutating call
func (c *Client) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight {
		return ErrLoginInFlight
	}
	c.inFlight = true

	return nil
}

func (c *Client) end() {
	c.mu.Lock()
	c.inFlight = false
	c.mu.Unlock()
}

// runs one auth operation under the single-flight guard
func (c *Client) authenticate(ctx context.Context, path string, payload any) (*users.User, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	defer c.end()

	var resp userResponse
	if err := c.do(ctx, http.MethodPost, path, payload, &resp); err != nil {
		return nil, err
	}

	// a new principal may see different data, so the previous cached
	// user is replaced wholesale
	c.setAuthenticated(resp.User)

	return resp.User, nil
}

func (c *Client) setAuthenticated(user *users.User) {
	c.mu.Lock()
	c.state = StateAuthenticated
	c.user = user
	c.mu.Unlock()
}

func (c *Client) setUnauthenticated() {
	c.mu.Lock()
	c.state = StateUnauthenticated
	c.user = nil
	c.mu.Unlock()
}

// performs one JSON request against the API
func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck // response body close

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.Unmarshal(data, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}

		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

package client

import (
	"context"
	"fmt"
	"net/http"

	"codeberg.org/atelier/server/atelier/users"
)

// admin operations; the server enforces the admin role

// lists canonical users
func (c *Client) ListUsers(ctx context.Context, limit, offset int) ([]*users.User, error) {
	if _, ok := c.CurrentUser(); !ok {
		return nil, ErrUnauthenticated
	}

	var resp listResponse

	path := fmt.Sprintf("/api/users?limit=%d&offset=%d", limit, offset)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	return resp.Users, nil
}

// changes a user's role
func (c *Client) UpdateUserRole(ctx context.Context, userID, role string) (*users.User, error) {
	if _, ok := c.CurrentUser(); !ok {
		return nil, ErrUnauthenticated
	}

	var resp userResponse

	path := fmt.Sprintf("/api/users/%s/role", userID)
	payload := map[string]string{"role": role}

	if err := c.do(ctx, http.MethodPut, path, payload, &resp); err != nil {
		return nil, err
	}

	return resp.User, nil
}

// revokes every active session for a user
func (c *Client) RevokeUserSessions(ctx context.Context, userID string) error {
	if _, ok := c.CurrentUser(); !ok {
		return ErrUnauthenticated
	}

	path := fmt.Sprintf("/api/users/%s/sessions", userID)

	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

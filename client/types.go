package client

import (
	"errors"
	"fmt"

	"codeberg.org/atelier/server/atelier/users"
)

// State of the cached principal. Unknown is transient: it holds only
// until the initial session probe settles.
type State int

const (
	StateUnknown State = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// returned when a login/register call starts while another is in
// flight; concurrent attempts are rejected, never interleaved
var ErrLoginInFlight = errors.New("another sign-in attempt is in flight")

// returned by calls that require an authenticated session
var ErrUnauthenticated = errors.New("not authenticated")

// APIError is a non-2xx response from the server
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"error"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
}

// RegisterParams for first-party registration
type RegisterParams struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	Password    string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenRequest struct {
	Token string `json:"token"`
}

type userResponse struct {
	User *users.User `json:"user"`
}

type listResponse struct {
	Users []*users.User `json:"users"`
}

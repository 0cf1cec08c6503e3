package tui

import (
	"codeberg.org/atelier/server/atelier/users"
	"codeberg.org/atelier/server/client"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
)

// UI states
const (
	StateLogin = iota
	StateUsers
)

// Model is the admin console root model
type Model struct {
	state int
	api   *client.Client

	// login form
	username   textinput.Model
	password   textinput.Model
	focusIndex int

	// user listing
	table table.Model
	users []*users.User

	status string
	err    error

	width  int
	height int
}

// LoginResultMsg carries the outcome of a sign-in attempt
type LoginResultMsg struct {
	User *users.User
	Err  error
}

// UsersLoadedMsg carries a refreshed user listing
type UsersLoadedMsg struct {
	Users []*users.User
	Err   error
}

// SessionsRevokedMsg reports a session revocation outcome
type SessionsRevokedMsg struct {
	Username string
	Err      error
}

// RoleUpdatedMsg reports a role change outcome
type RoleUpdatedMsg struct {
	User *users.User
	Err  error
}

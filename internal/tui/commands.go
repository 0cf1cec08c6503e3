package tui

import (
	"context"
	"time"

	"codeberg.org/atelier/server/atelier/users"
	"codeberg.org/atelier/server/client"
	tea "github.com/charmbracelet/bubbletea"
)

const commandTimeout = 15 * time.Second

const userPageSize = 100

// role promotion cycle used by the console
var roleCycle = map[string]string{
	users.RoleClient:   users.RoleDesigner,
	users.RoleDesigner: users.RoleAdmin,
	users.RoleAdmin:    users.RoleClient,
}

// signs in with the given credentials
func loginCmd(api *client.Client, username, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		user, err := api.Login(ctx, username, password)

		return LoginResultMsg{User: user, Err: err}
	}
}

// fetches the user listing
func loadUsersCmd(api *client.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		list, err := api.ListUsers(ctx, userPageSize, 0)

		return UsersLoadedMsg{Users: list, Err: err}
	}
}

// revokes every session of the selected user
func revokeSessionsCmd(api *client.Client, user *users.User) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		err := api.RevokeUserSessions(ctx, user.ID)

		return SessionsRevokedMsg{Username: user.Username, Err: err}
	}
}

// moves the selected user to the next role in the cycle
func cycleRoleCmd(api *client.Client, user *users.User) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		updated, err := api.UpdateUserRole(ctx, user.ID, roleCycle[user.Role])

		return RoleUpdatedMsg{User: updated, Err: err}
	}
}

package tui

import (
	"fmt"
	"strings"

	"codeberg.org/atelier/server/atelier/users"
	"codeberg.org/atelier/server/client"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// creates the admin console model
func NewApp(api *client.Client) *Model {
	username := textinput.New()
	username.Placeholder = "username"
	username.Focus()
	username.CharLimit = 100

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 200

	columns := []table.Column{
		{Title: "Username", Width: 20},
		{Title: "Name", Width: 24},
		{Title: "Email", Width: 30},
		{Title: "Role", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	return &Model{
		state:    StateLogin,
		api:      api,
		username: username,
		password: password,
		table:    t,
	}
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case LoginResultMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}

		m.err = nil
		m.status = fmt.Sprintf("signed in as %s", msg.User.Username)
		m.state = StateUsers

		return m, loadUsersCmd(m.api)

	case UsersLoadedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}

		m.err = nil
		m.users = msg.Users
		m.table.SetRows(userRows(msg.Users))

		return m, nil

	case SessionsRevokedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}

		m.err = nil
		m.status = fmt.Sprintf("sessions revoked for %s", msg.Username)

		return m, nil

	case RoleUpdatedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}

		m.err = nil
		m.status = fmt.Sprintf("%s is now %s", msg.User.Username, msg.User.Role)

		return m, loadUsersCmd(m.api)
	}

	switch m.state {
	case StateLogin:
		return m.updateLogin(msg)
	case StateUsers:
		return m.updateUsers(msg)
	default:
		return m, nil
	}
}

func (m *Model) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "shift+tab", "up", "down":
			m.focusIndex = (m.focusIndex + 1) % 2

			if m.focusIndex == 0 {
				m.password.Blur()
				return m, m.username.Focus()
			}

			m.username.Blur()
			return m, m.password.Focus()

		case "enter":
			return m, loginCmd(m.api, m.username.Value(), m.password.Value())
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.username, cmd = m.username.Update(msg)
	cmds = append(cmds, cmd)

	m.password, cmd = m.password.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) updateUsers(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q":
			return m, tea.Quit

		case "ctrl+r":
			return m, loadUsersCmd(m.api)

		case "r":
			if user := m.selectedUser(); user != nil {
				return m, revokeSessionsCmd(m.api, user)
			}

		case "p":
			if user := m.selectedUser(); user != nil {
				return m, cycleRoleCmd(m.api, user)
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m *Model) selectedUser() *users.User {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.users) {
		return nil
	}

	return m.users[idx]
}

// builds table rows from the listing
func userRows(list []*users.User) []table.Row {
	rows := make([]table.Row, 0, len(list))

	for _, u := range list {
		rows = append(rows, table.Row{u.Username, u.DisplayName, u.Email, u.Role})
	}

	return rows
}

func (m *Model) View() string {
	switch m.state {
	case StateLogin:
		return m.loginView()
	case StateUsers:
		return m.usersView()
	default:
		return ""
	}
}

func (m *Model) loginView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("atelier admin console"))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Username") + "\n")
	b.WriteString(m.username.View() + "\n\n")
	b.WriteString(labelStyle.Render("Password") + "\n")
	b.WriteString(m.password.View() + "\n")

	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(m.err.Error()) + "\n")
	}

	b.WriteString(helpStyle.Render("enter sign in • tab switch field • ctrl+c quit"))

	return b.String()
}

func (m *Model) usersView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("users"))
	b.WriteString("\n")
	b.WriteString(tableBorderStyle.Render(m.table.View()))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()) + "\n")
	} else if m.status != "" {
		b.WriteString(statusStyle.Render(m.status) + "\n")
	}

	b.WriteString(helpStyle.Render("r revoke sessions • p promote role • ctrl+r reload • q quit"))

	return b.String()
}

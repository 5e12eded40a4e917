package app

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/porthole-sh/porthole/internal/api"
	"github.com/porthole-sh/porthole/internal/errors"
	"github.com/porthole-sh/porthole/internal/logger"
	"github.com/porthole-sh/porthole/internal/route"
)

// AuthCheckMsg carries the startup token validation result
type AuthCheckMsg struct {
	User *api.User
	Err  error
}

// LoginResultMsg carries a login attempt result
type LoginResultMsg struct {
	Err error
}

// LogoutMsg is sent when the server-side logout call completes
type LogoutMsg struct {
	Err error
}

// checkAuth validates the saved token against the server. With no saved
// token the login view is shown without a round trip.
func (m *Model) checkAuth() tea.Cmd {
	if m.config.GetToken() == "" {
		return nil
	}
	client := m.client
	return func() tea.Msg {
		user, err := client.CurrentUser(context.Background())
		return AuthCheckMsg{User: user, Err: err}
	}
}

// handleAuthCheck processes the startup token validation
func (m *Model) handleAuthCheck(msg AuthCheckMsg) (tea.Model, tea.Cmd) {
	if msg.Err == nil {
		logger.WithComponent("auth").Info("Token valid", "username", msg.User.Username)
		return m, m.enterAuthenticated()
	}

	if errors.GetKind(msg.Err) == errors.KindUnauthorized {
		logger.WithComponent("auth").Info("Saved token rejected")
		m.config.SetToken("")
		m.config.Save()
		m.client.SetToken("")
		return m, nil
	}

	logger.WithComponent("auth").Warn("Auth check failed", "error", msg.Err)
	m.login.SetError("Cannot reach " + m.config.GetServerURL())
	return m, nil
}

// submitLogin sends the entered credentials
func (m *Model) submitLogin() tea.Cmd {
	username, password := m.login.Credentials()
	if password == "" {
		m.login.SetError("Password is required")
		return nil
	}
	m.login.ClearError()
	m.login.SetBusy(true)

	client := m.client
	return func() tea.Msg {
		_, err := client.Login(context.Background(), username, password)
		return LoginResultMsg{Err: err}
	}
}

// handleLoginResult processes a login attempt
func (m *Model) handleLoginResult(msg LoginResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		logger.WithComponent("auth").Info("Login rejected", "error", msg.Err)
		if errors.GetKind(msg.Err) == errors.KindUnauthorized {
			m.login.SetError("Invalid credentials")
		} else {
			m.login.SetError("Cannot reach " + m.config.GetServerURL())
		}
		return m, nil
	}

	m.config.SetToken(m.client.Token())
	if err := m.config.Save(); err != nil {
		logger.WithComponent("auth").Warn("Could not persist token", "error", err)
	}
	return m, m.enterAuthenticated()
}

// enterAuthenticated starts the authenticated session: fresh history,
// the poll tick chain, and any deferred deep link.
func (m *Model) enterAuthenticated() tea.Cmd {
	m.pollGen++
	m.firstPollDone = false
	m.login.SetBusy(false)
	m.login.ClearError()

	m.location = route.Directory
	m.history = route.NewHistory(route.Directory)
	m.setView(ViewDirectory)
	m.focus = FocusSidebar
	m.sidebar.SetFocused(true)

	cmds := []tea.Cmd{m.fetchSessions(), PollTick()}

	if m.pendingDeepLink != "" {
		id := m.pendingDeepLink
		m.pendingDeepLink = ""
		cmds = append(cmds, m.navigateTo(route.Session(id), true))
	}

	return tea.Batch(cmds...)
}

// logout tears the server-side session down. The local token is cleared
// even when the server call fails.
func (m *Model) logout() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		err := client.Logout(context.Background())
		return LogoutMsg{Err: err}
	}
}

// handleLogout returns to the login view after a logout call
func (m *Model) handleLogout(msg LogoutMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		logger.WithComponent("auth").Warn("Server logout failed", "error", msg.Err)
	}
	return m.forceLogin("Signed out")
}

// forceLogin drops all authenticated state and shows the login view.
// Used for logout and whenever the server starts rejecting the token.
func (m *Model) forceLogin(reason string) (tea.Model, tea.Cmd) {
	logger.WithComponent("auth").Info("Forcing re-authentication", "reason", reason)

	// Invalidate in-flight polls and stop the viewed stream
	m.pollGen++
	m.firstPollDone = false
	m.creationWaitID = ""
	m.reconcile = ReconcileIdle
	m.streams.CloseCurrent()
	m.terminal.ClearSession()
	m.modal.Hide()

	m.config.SetToken("")
	m.config.Save()
	m.client.SetToken("")

	m.location = route.Directory
	m.history = route.NewHistory(route.Directory)
	m.header.SetSessionTitle("")

	m.login.Reset()
	if reason != "" {
		m.login.SetError(reason)
	}
	m.setView(ViewLogin)

	return m, nil
}

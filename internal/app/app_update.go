package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/porthole-sh/porthole/internal/api"
	"github.com/porthole-sh/porthole/internal/keys"
	"github.com/porthole-sh/porthole/internal/route"
	"github.com/porthole-sh/porthole/internal/transition"
	"github.com/porthole-sh/porthole/internal/ui"
)

// Update handles messages. This is the core Bubble Tea update function
// that routes all messages to appropriate handlers.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)

	case tea.KeyPressMsg:
		if result, cmd := m.handleKeyPress(msg); result != nil {
			return result, cmd
		}
		// Key not handled, let it fall through to the focused panel

	case AuthCheckMsg:
		return m.handleAuthCheck(msg)

	case LoginResultMsg:
		return m.handleLoginResult(msg)

	case LogoutMsg:
		return m.handleLogout(msg)

	case PollTickMsg:
		return m.handlePollTick()

	case SessionsMsg:
		return m.handleSessionsMsg(msg)

	case CreationWaitMsg:
		return m.handleCreationWait(msg)

	case SessionCreatedMsg:
		return m.handleSessionCreated(msg)

	case KillResultMsg:
		return m.handleKillResult(msg)

	case CleanupResultMsg:
		return m.handleCleanupResult(msg)

	case StreamOpenedMsg:
		return m.handleStreamOpened(msg)

	case StreamEventMsg:
		return m.handleStreamEvent(msg)

	case StreamClosedMsg:
		return m.handleStreamClosed(msg)

	case transition.FrameMsg:
		return m.handleTransitionFrame()

	case ui.FlashTickMsg:
		return m.handleFlashTick()

	case ui.TerminalTickMsg:
		terminal, cmd := m.terminal.Update(msg)
		m.terminal = terminal
		return m, cmd
	}

	// Update modal
	if m.modal.IsVisible() {
		modal, cmd := m.modal.Update(msg)
		m.modal = modal
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}

	// Update the active view for other messages
	switch m.view {
	case ViewLogin:
		login, cmd := m.login.Update(msg)
		m.login = login
		cmds = append(cmds, cmd)
	case ViewSession:
		terminal, cmd := m.terminal.Update(msg)
		m.terminal = terminal
		cmds = append(cmds, cmd)
	default:
		sidebar, cmd := m.sidebar.Update(msg)
		m.sidebar = sidebar
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKeyPress routes a key press. Returns a nil model when the key
// was not handled so Update lets it fall through to the focused panel.
func (m *Model) handleKeyPress(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == keys.CtrlC {
		return m, tea.Quit
	}

	if m.view == ViewLogin {
		return m.handleLoginKey(msg)
	}

	if m.modal.IsVisible() {
		return m.handleModalKey(msg)
	}

	switch key {
	case "q":
		return m, tea.Quit

	case keys.AltLeft:
		return m, m.goBack()

	case keys.AltRight:
		return m, m.goForward()

	case keys.CtrlL:
		return m, m.logout()

	case "n":
		m.modal.Show(ui.NewNewSessionState(""))
		return m, nil

	case "s":
		m.modal.Show(ui.NewSettingsState(
			m.config.GetTheme(),
			m.config.GetNotificationsEnabled(),
			m.config.GetAnimationsDisabled(),
			m.config.GetHideExited(),
		))
		return m, nil

	case "e":
		m.toggleHideExited()
		return m, nil

	case "x":
		if m.footer.HasFlash() {
			m.footer.ClearFlash()
			return m, nil
		}

	case "c":
		if m.view == ViewDirectory {
			m.modal.Show(ui.NewConfirmCleanupState(m.exitedCount()))
			return m, nil
		}

	case "d":
		if sess := m.killTarget(); sess != nil {
			m.modal.Show(ui.NewConfirmKillState(sess.ID, sess.DisplayTitle()))
		}
		return m, nil

	case "<":
		m.resizeSidebar(-ui.SidebarResizeStep)
		return m, nil

	case ">":
		m.resizeSidebar(ui.SidebarResizeStep)
		return m, nil
	}

	if m.view == ViewSession {
		return m.handleSessionKey(msg)
	}
	return m.handleDirectoryKey(msg)
}

// handleLoginKey handles keys on the login view
func (m *Model) handleLoginKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if msg.String() == keys.Enter {
		return m, m.submitLogin()
	}
	login, cmd := m.login.Update(msg)
	m.login = login
	return m, cmd
}

// handleModalKey handles keys while a modal is open
func (m *Model) handleModalKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keys.Escape:
		m.modal.Hide()
		return m, nil

	case keys.Enter:
		return m.confirmModal()
	}

	modal, cmd := m.modal.Update(msg)
	m.modal = modal
	return m, cmd
}

// confirmModal executes the open modal's action
func (m *Model) confirmModal() (tea.Model, tea.Cmd) {
	switch state := m.modal.State.(type) {
	case *ui.NewSessionState:
		command, title, cwd := state.GetValues()
		m.modal.Hide()
		return m, m.createSession(command, title, cwd)

	case *ui.ConfirmKillState:
		m.modal.Hide()
		return m, m.killSession(state.SessionID)

	case *ui.ConfirmCleanupState:
		m.modal.Hide()
		return m, m.cleanupExited()

	case *ui.SettingsState:
		m.applySettings(state)
		m.modal.Hide()
		return m, nil
	}

	m.modal.Hide()
	return m, nil
}

// handleDirectoryKey handles keys on the directory view
func (m *Model) handleDirectoryKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if msg.String() == keys.Enter {
		return m, m.openSelectedSession()
	}

	// Everything else (navigation included) goes to the sidebar
	return nil, nil
}

// handleSessionKey handles keys on the session view
func (m *Model) handleSessionKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keys.Escape:
		// A showing flash is dismissed first; a second escape leaves
		if m.footer.HasFlash() {
			m.footer.ClearFlash()
			return m, nil
		}
		return m, m.leaveSession()

	case "y":
		return m, m.copySessionLink()

	case keys.CtrlB:
		collapsed := !m.sidebarCollapsed
		m.narrowCollapsed = false
		return m, m.setSidebarCollapsed(collapsed, true)

	case keys.Up, keys.Down:
		// Arrow keys switch between sessions without leaving the view
		m.sidebar.SetFocused(true)
		sidebar, _ := m.sidebar.Update(msg)
		m.sidebar = sidebar
		m.sidebar.SetFocused(false)

		if sess := m.sidebar.SelectedSession(); sess != nil && sess.ID != m.location.SessionID {
			return m, m.navigateTo(route.Session(sess.ID), true)
		}
		return m, nil
	}

	// Scrolling and anything else goes to the terminal panel
	return nil, nil
}

// killTarget returns the session a kill should apply to
func (m *Model) killTarget() *api.Session {
	if m.view == ViewSession {
		for _, sess := range m.sidebar.Sessions() {
			if sess.ID == m.location.SessionID {
				return &sess
			}
		}
		return nil
	}
	return m.sidebar.SelectedSession()
}

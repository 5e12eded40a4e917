package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/porthole-sh/porthole/internal/logger"
	"github.com/porthole-sh/porthole/internal/route"
	"github.com/porthole-sh/porthole/internal/ui"
)

// navigateTo moves the app to a location. When push is true the location
// is recorded in history (duplicate pushes are no-ops, so re-navigating
// to the current location never churns state).
func (m *Model) navigateTo(loc route.Location, push bool) tea.Cmd {
	if push {
		m.history.Push(loc)
	}
	return m.applyLocation(loc)
}

// applyLocation makes the UI match a location. This is the single place
// view, focus, stream subscription, and terminal state change together,
// whether the location came from a keypress, history traversal, or a
// deep link.
func (m *Model) applyLocation(loc route.Location) tea.Cmd {
	prev := m.location
	m.location = loc
	logger.WithComponent("app").Debug("Applying location",
		"from", prev.String(), "to", loc.String())

	if loc.IsSession() {
		return m.enterSessionView(loc.SessionID)
	}
	return m.enterDirectoryView()
}

// enterSessionView switches to the live view for a session
func (m *Model) enterSessionView(sessionID string) tea.Cmd {
	m.setView(ViewSession)
	m.focus = FocusTerminal
	m.sidebar.SetFocused(false)
	m.terminal.SetFocused(true)
	m.reconcile = ReconcileIdle

	m.sidebar.SelectSession(sessionID)
	title := sessionID
	if sess := m.sidebar.SelectedSession(); sess != nil && sess.ID == sessionID {
		title = sess.DisplayTitle()
	}
	m.header.SetSessionTitle(title)

	// Reset the panel only when actually switching sessions; re-applying
	// the current location keeps the scrollback
	if m.streamingSessionID() != sessionID {
		m.terminal.SetSession(title)
	}

	cmds := []tea.Cmd{m.openStream(sessionID), ui.TerminalTick()}

	// The sidebar collapses in narrow terminals so the output gets the
	// full width; the collapse is transient and reverts on leave
	if ui.GetViewContext().Breakpoint() == ui.BreakpointNarrow && !m.sidebarCollapsed {
		m.narrowCollapsed = true
		cmds = append(cmds, m.setSidebarCollapsed(true, false))
	}

	return tea.Batch(cmds...)
}

// enterDirectoryView switches back to the session directory
func (m *Model) enterDirectoryView() tea.Cmd {
	m.setView(ViewDirectory)
	m.focus = FocusSidebar
	m.sidebar.SetFocused(true)
	m.terminal.SetFocused(false)
	m.reconcile = ReconcileIdle

	m.streams.CloseCurrent()
	m.terminal.ClearSession()
	m.header.SetSessionTitle("")

	var cmds []tea.Cmd

	// Revert a breakpoint-forced collapse, but never override an
	// explicit user preference
	if m.narrowCollapsed {
		m.narrowCollapsed = false
		if !m.config.GetSidebarCollapsed() {
			cmds = append(cmds, m.setSidebarCollapsed(false, false))
		}
	}

	if !m.firstPollDone {
		cmds = append(cmds, m.fetchSessions())
	}

	return tea.Batch(cmds...)
}

// goBack traverses history backward, like a browser's back button
func (m *Model) goBack() tea.Cmd {
	loc, ok := m.history.Back()
	if !ok {
		return nil
	}
	return m.applyLocation(loc)
}

// goForward traverses history forward
func (m *Model) goForward() tea.Cmd {
	loc, ok := m.history.Forward()
	if !ok {
		return nil
	}
	return m.applyLocation(loc)
}

// openSelectedSession navigates to the sidebar's selected session
func (m *Model) openSelectedSession() tea.Cmd {
	sess := m.sidebar.SelectedSession()
	if sess == nil {
		return nil
	}
	return m.navigateTo(route.Session(sess.ID), true)
}

// leaveSession returns to the directory, recording the move in history
func (m *Model) leaveSession() tea.Cmd {
	if !m.location.IsSession() {
		return nil
	}
	return m.navigateTo(route.Directory, true)
}

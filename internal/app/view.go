package app

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/porthole-sh/porthole/internal/ui"
)

// effectiveSidebarWidth returns the sidebar width for the current frame.
// Collapse only applies in the session view; the directory IS the list.
func (m *Model) effectiveSidebarWidth() int {
	if m.view != ViewSession {
		return m.config.GetSidebarWidth()
	}
	if m.sidebarAnim.Active() {
		return int(m.sidebarAnim.Value())
	}
	if m.sidebarCollapsed {
		return 0
	}
	return m.config.GetSidebarWidth()
}

// updateSizes recalculates and applies dimensions to all UI components
func (m *Model) updateSizes() {
	ctx := ui.GetViewContext()
	ctx.UpdateTerminalSize(m.width, m.height, m.effectiveSidebarWidth())

	m.header.SetWidth(ctx.TerminalWidth)
	m.footer.SetWidth(ctx.TerminalWidth)
	m.sidebar.SetSize(ctx.SidebarWidth, ctx.ContentHeight)
	m.terminal.SetSize(ctx.ContentWidth, ctx.ContentHeight)
	m.login.SetSize(ctx.TerminalWidth, ctx.TerminalHeight-ui.FooterHeight)
}

// applySidebarWidth moves the split without a terminal resize, used as
// the collapse transition animates
func (m *Model) applySidebarWidth(width int) {
	ctx := ui.GetViewContext()
	ctx.SetSidebarWidth(width)
	m.sidebar.SetSize(width, ctx.ContentHeight)
	m.terminal.SetSize(ctx.ContentWidth, ctx.ContentHeight)
}

// handleWindowSize processes a resize and its breakpoint side effects.
// Side effects are suppressed for the very first size message so a
// deep-linked narrow startup doesn't immediately fight the user.
func (m *Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	ctx := ui.GetViewContext()
	sizeWasKnown := ctx.SizeKnown
	prevBreakpoint := ctx.Breakpoint()

	m.width = msg.Width
	m.height = msg.Height
	m.updateSizes()

	if !sizeWasKnown {
		return m, nil
	}

	newBreakpoint := ctx.Breakpoint()
	if newBreakpoint == prevBreakpoint {
		return m, nil
	}

	// Crossing into narrow while viewing a session collapses the sidebar
	// so the output keeps a usable width; crossing back restores it. A
	// user who collapsed the sidebar themselves is left alone.
	if newBreakpoint == ui.BreakpointNarrow {
		if m.view == ViewSession && !m.sidebarCollapsed {
			m.narrowCollapsed = true
			return m, m.setSidebarCollapsed(true, false)
		}
	} else if m.narrowCollapsed {
		m.narrowCollapsed = false
		if !m.config.GetSidebarCollapsed() {
			return m, m.setSidebarCollapsed(false, false)
		}
	}

	return m, nil
}

// View renders the app
func (m *Model) View() tea.View {
	var v tea.View
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion

	if m.width == 0 || m.height == 0 {
		v.SetContent("Loading...")
		return v
	}

	if m.view == ViewLogin {
		m.footer.SetContext(false, false, false, false, true, false)
		content := lipgloss.JoinVertical(
			lipgloss.Left,
			m.login.View(),
			m.footer.View(),
		)
		v.SetContent(content)
		return v
	}

	// Update footer context for conditional bindings
	hasSessions := len(m.sidebar.VisibleSessions()) > 0
	inSession := m.view == ViewSession
	sessionRunning := false
	if inSession {
		if sess := m.sidebar.SelectedSession(); sess != nil && sess.ID == m.location.SessionID {
			sessionRunning = sess.IsRunning()
		}
	}
	m.footer.SetContext(hasSessions, inSession, sessionRunning,
		m.modal.IsVisible(), false, m.sidebarCollapsed)

	m.header.SetServerHost(serverHost(m.config.GetServerURL()))

	header := m.header.View()
	footer := m.footer.View()

	sidebarWidth := m.effectiveSidebarWidth()

	var panels string
	if sidebarWidth <= 0 {
		panels = m.terminal.View()
	} else {
		panels = lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.sidebar.View(),
			m.terminal.View(),
		)
	}

	view := lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		panels,
		footer,
	)

	// Overlay modal if visible
	if m.modal.IsVisible() {
		v.SetContent(m.modal.View(m.width, m.height))
		return v
	}

	v.SetContent(view)
	return v
}

// serverHost strips the scheme from a server URL for compact display
func serverHost(url string) string {
	for _, prefix := range []string{"https://", "http://"} {
		if rest, ok := strings.CutPrefix(url, prefix); ok {
			return rest
		}
	}
	return url
}

package app

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/porthole-sh/porthole/internal/api"
	"github.com/porthole-sh/porthole/internal/clipboard"
	"github.com/porthole-sh/porthole/internal/config"
	"github.com/porthole-sh/porthole/internal/errors"
	"github.com/porthole-sh/porthole/internal/logger"
	"github.com/porthole-sh/porthole/internal/transition"
	"github.com/porthole-sh/porthole/internal/ui"
)

// SessionCreatedMsg carries the result of a create call
type SessionCreatedMsg struct {
	Session *api.Session
	Err     error
}

// KillResultMsg carries the result of a kill call
type KillResultMsg struct {
	SessionID string
	Err       error
}

// CleanupResultMsg carries the result of a cleanup-exited call
type CleanupResultMsg struct {
	Count int
	Err   error
}

// createSession asks the server for a new session
func (m *Model) createSession(command, title, cwd string) tea.Cmd {
	req := api.CreateSessionRequest{
		Title: title,
		Cwd:   cwd,
	}
	if command != "" {
		req.Command = strings.Fields(command)
	}

	client := m.client
	return func() tea.Msg {
		sess, err := client.CreateSession(context.Background(), req)
		return SessionCreatedMsg{Session: sess, Err: err}
	}
}

// handleSessionCreated starts the creation wait: the new session is not
// navigated to until the server actually lists it
func (m *Model) handleSessionCreated(msg SessionCreatedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		if errors.GetKind(msg.Err) == errors.KindUnauthorized {
			return m.forceLogin("Session expired, sign in again")
		}
		logger.WithComponent("app").Warn("Create failed", "error", msg.Err)
		return m, m.ShowFlashError("Could not create session")
	}

	m.creationWaitID = msg.Session.ID
	return m, m.waitForSession(msg.Session.ID, 1)
}

// killSession terminates a session's process
func (m *Model) killSession(sessionID string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		err := client.KillSession(context.Background(), sessionID)
		return KillResultMsg{SessionID: sessionID, Err: err}
	}
}

// handleKillResult refreshes the directory after a kill
func (m *Model) handleKillResult(msg KillResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		if errors.GetKind(msg.Err) == errors.KindUnauthorized {
			return m.forceLogin("Session expired, sign in again")
		}
		logger.WithComponent("app").Warn("Kill failed",
			"sessionID", msg.SessionID, "error", msg.Err)
		return m, m.ShowFlashError("Could not kill session")
	}
	return m, tea.Batch(m.fetchSessions(), m.ShowFlashSuccess("Session killed"))
}

// cleanupExited removes all exited sessions server-side
func (m *Model) cleanupExited() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		count, err := client.CleanupExited(context.Background())
		return CleanupResultMsg{Count: count, Err: err}
	}
}

// handleCleanupResult refreshes the directory after a cleanup
func (m *Model) handleCleanupResult(msg CleanupResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		if errors.GetKind(msg.Err) == errors.KindUnauthorized {
			return m.forceLogin("Session expired, sign in again")
		}
		logger.WithComponent("app").Warn("Cleanup failed", "error", msg.Err)
		return m, m.ShowFlashError("Could not clean up sessions")
	}

	text := fmt.Sprintf("Removed %d exited sessions", msg.Count)
	if msg.Count == 1 {
		text = "Removed 1 exited session"
	}
	return m, tea.Batch(m.fetchSessions(), m.ShowFlashSuccess(text))
}

// copySessionLink puts a shareable link for the viewed session on the
// clipboard
func (m *Model) copySessionLink() tea.Cmd {
	if !m.location.IsSession() {
		return nil
	}

	link := m.client.BaseURL() + m.location.String()
	if err := clipboard.WriteText(link); err != nil {
		logger.WithComponent("app").Warn("Clipboard write failed", "error", err)
		return m.ShowFlashError("Could not copy link")
	}
	return m.ShowFlashInfo("Link copied")
}

// exitedCount counts exited sessions in the unfiltered list
func (m *Model) exitedCount() int {
	count := 0
	for _, sess := range m.sidebar.Sessions() {
		if !sess.IsRunning() {
			count++
		}
	}
	return count
}

// toggleHideExited flips the exited filter and persists it
func (m *Model) toggleHideExited() {
	hide := !m.config.GetHideExited()
	m.config.SetHideExited(hide)
	m.config.Save()
	m.sidebar.SetHideExited(hide)
}

// setSidebarCollapsed starts a collapse or expand transition. The target
// state is recorded before the first frame renders; only the width
// interpolates afterward.
func (m *Model) setSidebarCollapsed(collapsed, persist bool) tea.Cmd {
	m.sidebarCollapsed = collapsed
	if persist {
		m.config.SetSidebarCollapsed(collapsed)
		m.config.Save()
	}

	from := float64(ui.GetViewContext().SidebarWidth)
	target := 0.0
	if !collapsed {
		target = float64(m.config.GetSidebarWidth())
	}

	cmd := m.sidebarAnim.Start(from, target)
	if !m.sidebarAnim.Active() {
		// Immediate strategy, or nothing to do
		m.applySidebarWidth(int(m.sidebarAnim.Value()))
	}
	return cmd
}

// handleTransitionFrame advances the sidebar animation one frame
func (m *Model) handleTransitionFrame() (tea.Model, tea.Cmd) {
	cmd := m.sidebarAnim.Step()
	m.applySidebarWidth(int(m.sidebarAnim.Value()))
	return m, cmd
}

// resizeSidebar nudges the split and persists the preference
func (m *Model) resizeSidebar(delta int) {
	if m.sidebarCollapsed {
		return
	}
	width := m.config.GetSidebarWidth() + delta
	if width < config.SidebarWidthMin {
		width = config.SidebarWidthMin
	}
	if width > config.SidebarWidthMax {
		width = config.SidebarWidthMax
	}
	m.config.SetSidebarWidth(width)
	m.config.Save()
	m.applySidebarWidth(width)
}

// applySettings persists the preferences chosen in the settings modal
func (m *Model) applySettings(state *ui.SettingsState) {
	theme, notifications, animationsDisabled, hideExited := state.GetValues()

	m.config.SetTheme(theme)
	m.config.SetNotificationsEnabled(notifications)
	m.config.SetAnimationsDisabled(animationsDisabled)
	m.config.SetHideExited(hideExited)
	m.config.Save()

	ui.SetThemeByName(theme)
	m.sidebar.SetHideExited(hideExited)
	m.sidebarAnim = transition.Select(animationsDisabled)
}

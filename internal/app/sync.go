package app

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/porthole-sh/porthole/internal/api"
	"github.com/porthole-sh/porthole/internal/errors"
	"github.com/porthole-sh/porthole/internal/logger"
	"github.com/porthole-sh/porthole/internal/notification"
	"github.com/porthole-sh/porthole/internal/route"
)

// PollTickMsg drives the periodic directory refresh
type PollTickMsg time.Time

// SessionsMsg carries a directory fetch result. Gen ties the response to
// the poll generation that requested it so stale responses are dropped.
type SessionsMsg struct {
	Gen      int
	Sessions []api.Session
	Err      error
}

// PollTick returns a command that fires the next directory refresh
func PollTick() tea.Cmd {
	return tea.Tick(PollInterval, func(t time.Time) tea.Msg {
		return PollTickMsg(t)
	})
}

// fetchSessions fetches the directory, stamped with the current generation
func (m *Model) fetchSessions() tea.Cmd {
	gen := m.pollGen
	client := m.client
	return func() tea.Msg {
		sessions, err := client.ListSessions(context.Background())
		return SessionsMsg{Gen: gen, Sessions: sessions, Err: err}
	}
}

// handlePollTick requests a fresh directory and schedules the next tick.
// The tick chain only runs while authenticated.
func (m *Model) handlePollTick() (tea.Model, tea.Cmd) {
	if m.view == ViewLogin {
		return m, nil
	}
	return m, tea.Batch(m.fetchSessions(), PollTick())
}

// handleSessionsMsg reconciles a directory fetch result with the UI
func (m *Model) handleSessionsMsg(msg SessionsMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != m.pollGen {
		logger.WithComponent("sync").Debug("Dropping stale poll response",
			"gen", msg.Gen, "current", m.pollGen)
		return m, nil
	}

	if msg.Err != nil {
		if errors.GetKind(msg.Err) == errors.KindUnauthorized {
			return m.forceLogin("Session expired, sign in again")
		}
		logger.WithComponent("sync").Warn("Directory fetch failed", "error", msg.Err)
		// Keep showing the last known list; the next tick retries
		return m, nil
	}

	m.firstPollDone = true
	m.sidebar.SetSessions(msg.Sessions)

	if m.location.IsSession() {
		return m.reconcileViewedSession(msg.Sessions)
	}
	return m, nil
}

// reconcileViewedSession checks the viewed session against the fresh
// directory. The one-poll grace period exists only for a session that
// has never been seen yet (just navigated to, possibly still being
// created); a session that was confirmed present and then vanishes is
// gone on that same poll.
func (m *Model) reconcileViewedSession(sessions []api.Session) (tea.Model, tea.Cmd) {
	id := m.location.SessionID

	for _, sess := range sessions {
		if sess.ID == id {
			m.reconcile = ReconcileConfirmed
			m.header.SetSessionTitle(sess.DisplayTitle())
			if !sess.IsRunning() {
				m.terminal.SetExited()
			}
			return m, nil
		}
	}

	switch m.reconcile {
	case ReconcileConfirmed:
		// Externally terminated or cleaned up
		logger.WithComponent("sync").Info("Viewed session disappeared", "sessionID", id)

		title := id
		if sess := m.sidebar.SelectedSession(); sess != nil && sess.ID == id {
			title = sess.DisplayTitle()
		}
		if m.config.GetNotificationsEnabled() {
			notification.SessionDisappeared(title)
		}

		m.streams.CloseCurrent()
		cmd := m.navigateTo(route.Directory, true)
		return m, tea.Batch(cmd, m.ShowFlashError(title+" has ended"))

	case ReconcilePending:
		// Second consecutive miss since navigation: it never existed
		logger.WithComponent("sync").Info("Viewed session never appeared", "sessionID", id)
		m.streams.CloseCurrent()
		cmd := m.navigateTo(route.Directory, true)
		return m, tea.Batch(cmd, m.ShowFlashError("Session not found"))
	}

	// First check after navigating: wait one more poll before concluding
	// anything, the session may not be listable yet
	logger.WithComponent("sync").Debug("Viewed session missing from poll, grace period",
		"sessionID", id)
	m.reconcile = ReconcilePending
	return m, nil
}

// CreationWaitMsg carries one probe result of the creation wait protocol
type CreationWaitMsg struct {
	SessionID string
	Attempt   int
	Session   *api.Session
	Err       error
}

// waitForSession probes the directory for a newly created session after
// a short delay. Session creation is asynchronous on the server; the
// session may not be listed immediately after the create call returns.
func (m *Model) waitForSession(sessionID string, attempt int) tea.Cmd {
	client := m.client
	return tea.Tick(CreationWaitInterval, func(time.Time) tea.Msg {
		sessions, err := client.ListSessions(context.Background())
		if err != nil {
			return CreationWaitMsg{SessionID: sessionID, Attempt: attempt, Err: err}
		}
		for _, sess := range sessions {
			if sess.ID == sessionID {
				found := sess
				return CreationWaitMsg{SessionID: sessionID, Attempt: attempt, Session: &found}
			}
		}
		return CreationWaitMsg{SessionID: sessionID, Attempt: attempt}
	})
}

// handleCreationWait advances the creation wait protocol
func (m *Model) handleCreationWait(msg CreationWaitMsg) (tea.Model, tea.Cmd) {
	if msg.SessionID != m.creationWaitID {
		return m, nil
	}

	if msg.Err == nil && msg.Session != nil {
		m.creationWaitID = ""
		return m, tea.Batch(
			m.fetchSessions(),
			m.navigateTo(route.Session(msg.SessionID), true),
		)
	}

	if msg.Err != nil && errors.GetKind(msg.Err) == errors.KindUnauthorized {
		m.creationWaitID = ""
		return m.forceLogin("Session expired, sign in again")
	}

	if msg.Attempt >= CreationWaitAttempts {
		m.creationWaitID = ""
		err := errors.CreationWaitTimeout(msg.SessionID)
		logger.WithComponent("sync").Warn("Created session never appeared",
			"sessionID", msg.SessionID, "error", err)
		return m, m.ShowFlashError("Session was created but never appeared")
	}

	return m, m.waitForSession(msg.SessionID, msg.Attempt+1)
}

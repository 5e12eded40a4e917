package app

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/porthole-sh/porthole/internal/errors"
	"github.com/porthole-sh/porthole/internal/logger"
	"github.com/porthole-sh/porthole/internal/stream"
)

// StreamOpenedMsg is sent when a stream subscription attempt completes
type StreamOpenedMsg struct {
	SessionID string
	Handle    *stream.Handle
	Err       error
}

// StreamEventMsg carries one chunk of session output
type StreamEventMsg struct {
	SessionID string
	Data      string
}

// StreamClosedMsg is sent when the stream ends for any reason
type StreamClosedMsg struct {
	SessionID string
}

// openStream subscribes to a session's output. The manager closes any
// previous subscription to completion first, so at most one is ever open.
func (m *Model) openStream(sessionID string) tea.Cmd {
	mgr := m.streams
	return func() tea.Msg {
		handle, err := mgr.EnsureOpen(context.Background(), sessionID)
		return StreamOpenedMsg{SessionID: sessionID, Handle: handle, Err: err}
	}
}

// listenForStreamEvent waits for the next output chunk. The command
// re-arms itself from the message handler, one event per Update cycle.
func listenForStreamEvent(handle *stream.Handle) tea.Cmd {
	if handle == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-handle.Events()
		if !ok {
			return StreamClosedMsg{SessionID: handle.SessionID()}
		}
		return StreamEventMsg{SessionID: handle.SessionID(), Data: ev.Data}
	}
}

// handleStreamOpened wires up the event listener, or degrades the
// terminal panel when the subscription failed
func (m *Model) handleStreamOpened(msg StreamOpenedMsg) (tea.Model, tea.Cmd) {
	// The user may have navigated away while the subscription was
	// opening. Open commands run concurrently, so a stale result may
	// even have installed its handle after the current location's one;
	// converge the manager on the current location instead of just
	// dropping the message.
	if !m.location.IsSession() || m.location.SessionID != msg.SessionID {
		if !m.location.IsSession() {
			m.streams.CloseCurrent()
			return m, nil
		}
		if m.streams.CurrentSessionID() != m.location.SessionID {
			logger.WithComponent("app").Debug("Reopening stream after stale open",
				"stale", msg.SessionID, "current", m.location.SessionID)
			return m, m.openStream(m.location.SessionID)
		}
		return m, nil
	}

	if msg.Err != nil {
		if errors.GetKind(msg.Err) == errors.KindUnauthorized {
			return m.forceLogin("Session expired, sign in again")
		}
		logger.WithComponent("app").Warn("Stream open failed",
			"sessionID", msg.SessionID, "error", msg.Err)
		m.terminal.SetDegraded("The session list still updates.")
		return m, nil
	}

	return m, listenForStreamEvent(msg.Handle)
}

// handleStreamEvent appends output and re-arms the listener
func (m *Model) handleStreamEvent(msg StreamEventMsg) (tea.Model, tea.Cmd) {
	if !m.location.IsSession() || m.location.SessionID != msg.SessionID {
		return m, nil
	}

	m.terminal.AppendOutput(msg.Data)
	return m, listenForStreamEvent(m.streams.Current())
}

// handleStreamClosed marks the viewed session's output as finished
func (m *Model) handleStreamClosed(msg StreamClosedMsg) (tea.Model, tea.Cmd) {
	if !m.location.IsSession() || m.location.SessionID != msg.SessionID {
		return m, nil
	}

	logger.WithComponent("app").Debug("Stream ended", "sessionID", msg.SessionID)
	m.terminal.SetExited()
	return m, nil
}

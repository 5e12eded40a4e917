package stream

import (
	"context"
	"sync"

	"github.com/porthole-sh/porthole/internal/logger"
)

// Manager owns the process's single live stream subscription. Opening a
// stream for a new session always closes the previous one to completion
// first, so two subscriptions can never overlap.
type Manager struct {
	mu      sync.Mutex
	open    OpenFunc
	current *Handle
}

// NewManager creates a Manager that opens subscriptions with open.
func NewManager(open OpenFunc) *Manager {
	return &Manager{open: open}
}

// EnsureOpen returns a live handle for sessionID. When the current
// handle already targets that session it is returned unchanged; any
// other open handle is closed before the new one is opened. On open
// failure no handle is live.
func (m *Manager) EnsureOpen(ctx context.Context, sessionID string) (*Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil && m.current.sessionID == sessionID {
		return m.current, nil
	}

	if m.current != nil {
		logger.Debug("Stream manager: closing %s before opening %s", m.current.sessionID, sessionID)
		m.current.Close()
		m.current = nil
	}

	h, err := m.open(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	m.current = h
	return h, nil
}

// CloseCurrent closes any open handle. Used on navigation away from the
// session view and on app teardown.
func (m *Manager) CloseCurrent() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		m.current.Close()
		m.current = nil
	}
}

// Current returns the open handle, or nil when none is open.
func (m *Manager) Current() *Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// CurrentSessionID returns the session the open handle targets, or
// empty string when no handle is open.
func (m *Manager) CurrentSessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return ""
	}
	return m.current.sessionID
}

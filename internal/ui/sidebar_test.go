package ui

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/porthole-sh/porthole/internal/api"
)

func makeSession(id, title, status string) api.Session {
	return api.Session{
		ID:        id,
		Title:     title,
		Command:   "zsh",
		Status:    status,
		Active:    status == api.StatusRunning,
		CreatedAt: time.Now().Add(-5 * time.Minute),
	}
}

func TestSidebar_SetSessions(t *testing.T) {
	sidebar := NewSidebar()

	sessions := []api.Session{
		makeSession("s1", "first", api.StatusRunning),
		makeSession("s2", "second", api.StatusExited),
	}
	sidebar.SetSessions(sessions)

	if len(sidebar.Sessions()) != 2 {
		t.Errorf("Expected 2 sessions, got %d", len(sidebar.Sessions()))
	}
	if len(sidebar.VisibleSessions()) != 2 {
		t.Errorf("Expected 2 visible sessions, got %d", len(sidebar.VisibleSessions()))
	}
}

func TestSidebar_SetSessions_UnchangedListSkipsRebuild(t *testing.T) {
	sidebar := NewSidebar()

	sessions := []api.Session{makeSession("s1", "first", api.StatusRunning)}
	sidebar.SetSessions(sessions)
	firstHash := sidebar.lastHash

	sidebar.SetSessions([]api.Session{makeSession("s1", "first", api.StatusRunning)})
	if sidebar.lastHash != firstHash {
		t.Error("Identical session list should not change the hash")
	}
}

func TestSidebar_SetSessions_DetectsStatusChange(t *testing.T) {
	sidebar := NewSidebar()

	sidebar.SetSessions([]api.Session{makeSession("s1", "first", api.StatusRunning)})
	firstHash := sidebar.lastHash

	sidebar.SetSessions([]api.Session{makeSession("s1", "first", api.StatusExited)})
	if sidebar.lastHash == firstHash {
		t.Error("Status change should change the hash")
	}
}

func TestSidebar_HideExited(t *testing.T) {
	sidebar := NewSidebar()
	sidebar.SetSessions([]api.Session{
		makeSession("s1", "first", api.StatusRunning),
		makeSession("s2", "second", api.StatusExited),
		makeSession("s3", "third", api.StatusRunning),
	})

	sidebar.SetHideExited(true)

	visible := sidebar.VisibleSessions()
	if len(visible) != 2 {
		t.Fatalf("Expected 2 visible sessions with hide-exited, got %d", len(visible))
	}
	for _, sess := range visible {
		if !sess.IsRunning() {
			t.Errorf("Exited session %s should be hidden", sess.ID)
		}
	}

	sidebar.SetHideExited(false)
	if len(sidebar.VisibleSessions()) != 3 {
		t.Errorf("Expected all 3 sessions visible after unhiding")
	}
}

func TestSidebar_HideExited_PinsSelection(t *testing.T) {
	sidebar := NewSidebar()
	sidebar.SetSessions([]api.Session{
		makeSession("s1", "first", api.StatusExited),
		makeSession("s2", "second", api.StatusRunning),
		makeSession("s3", "third", api.StatusRunning),
	})

	// Select s3 (index 2), then filter. s3 moves to index 1 but should
	// stay selected.
	sidebar.SelectSession("s3")
	sidebar.SetHideExited(true)

	selected := sidebar.SelectedSession()
	if selected == nil || selected.ID != "s3" {
		t.Errorf("Selection should stay pinned to s3 across refiltering")
	}
}

func TestSidebar_HideExited_ClampsWhenSelectionHidden(t *testing.T) {
	sidebar := NewSidebar()
	sidebar.SetSessions([]api.Session{
		makeSession("s1", "first", api.StatusRunning),
		makeSession("s2", "second", api.StatusExited),
	})

	sidebar.SelectSession("s2")
	sidebar.SetHideExited(true)

	selected := sidebar.SelectedSession()
	if selected == nil {
		t.Fatal("Expected a selection after the selected session was filtered out")
	}
	if selected.ID != "s1" {
		t.Errorf("Selection should clamp to a visible session, got %s", selected.ID)
	}
}

func TestSidebar_SelectedSession_Empty(t *testing.T) {
	sidebar := NewSidebar()

	if sidebar.SelectedSession() != nil {
		t.Error("Empty sidebar should have no selection")
	}
}

func TestSidebar_SelectionClampedOnShrink(t *testing.T) {
	sidebar := NewSidebar()
	sidebar.SetSessions([]api.Session{
		makeSession("s1", "first", api.StatusRunning),
		makeSession("s2", "second", api.StatusRunning),
		makeSession("s3", "third", api.StatusRunning),
	})
	sidebar.SelectSession("s3")

	sidebar.SetSessions([]api.Session{
		makeSession("s1", "first", api.StatusRunning),
	})

	selected := sidebar.SelectedSession()
	if selected == nil || selected.ID != "s1" {
		t.Error("Selection should clamp into bounds when the list shrinks")
	}
}

func TestSidebar_Navigation(t *testing.T) {
	sidebar := NewSidebar()
	sidebar.SetFocused(true)
	sidebar.SetSessions([]api.Session{
		makeSession("s1", "first", api.StatusRunning),
		makeSession("s2", "second", api.StatusRunning),
		makeSession("s3", "third", api.StatusRunning),
	})

	down := tea.KeyPressMsg{Code: tea.KeyDown}
	up := tea.KeyPressMsg{Code: tea.KeyUp}

	sidebar.Update(down)
	if sel := sidebar.SelectedSession(); sel == nil || sel.ID != "s2" {
		t.Error("Down should move selection to s2")
	}

	sidebar.Update(down)
	sidebar.Update(down) // at the end, should not move past s3
	if sel := sidebar.SelectedSession(); sel == nil || sel.ID != "s3" {
		t.Error("Selection should stop at the last session")
	}

	sidebar.Update(up)
	if sel := sidebar.SelectedSession(); sel == nil || sel.ID != "s2" {
		t.Error("Up should move selection back to s2")
	}
}

func TestSidebar_Navigation_IgnoredWhenUnfocused(t *testing.T) {
	sidebar := NewSidebar()
	sidebar.SetFocused(false)
	sidebar.SetSessions([]api.Session{
		makeSession("s1", "first", api.StatusRunning),
		makeSession("s2", "second", api.StatusRunning),
	})

	sidebar.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if sel := sidebar.SelectedSession(); sel == nil || sel.ID != "s1" {
		t.Error("Unfocused sidebar should ignore navigation keys")
	}
}

func TestSidebar_HasSession(t *testing.T) {
	sidebar := NewSidebar()
	sidebar.SetSessions([]api.Session{makeSession("s1", "first", api.StatusRunning)})

	if !sidebar.HasSession("s1") {
		t.Error("HasSession should find s1")
	}
	if sidebar.HasSession("missing") {
		t.Error("HasSession should not find missing IDs")
	}
}

func TestSidebar_View_Empty(t *testing.T) {
	ResetViewContext()
	defer ResetViewContext()
	GetViewContext().UpdateTerminalSize(120, 40, 28)

	sidebar := NewSidebar()
	sidebar.SetSize(28, 38)

	view := stripANSI(sidebar.View())
	if !strings.Contains(view, "No sessions.") {
		t.Errorf("Empty sidebar should show placeholder, got: %q", view)
	}
}

func TestSidebar_View_AllExitedHidden(t *testing.T) {
	ResetViewContext()
	defer ResetViewContext()
	GetViewContext().UpdateTerminalSize(120, 40, 28)

	sidebar := NewSidebar()
	sidebar.SetSize(28, 38)
	sidebar.SetSessions([]api.Session{makeSession("s1", "first", api.StatusExited)})
	sidebar.SetHideExited(true)

	view := stripANSI(sidebar.View())
	if !strings.Contains(view, "No running sessions.") {
		t.Errorf("Fully filtered sidebar should say so, got: %q", view)
	}
}

func TestSidebar_View_ShowsTitles(t *testing.T) {
	ResetViewContext()
	defer ResetViewContext()
	GetViewContext().UpdateTerminalSize(120, 40, 28)

	sidebar := NewSidebar()
	sidebar.SetSize(28, 38)
	sidebar.SetSessions([]api.Session{
		makeSession("s1", "builder", api.StatusRunning),
		makeSession("s2", "watcher", api.StatusExited),
	})

	view := stripANSI(sidebar.View())
	if !strings.Contains(view, "builder") {
		t.Error("Sidebar should render session titles")
	}
	if !strings.Contains(view, "watcher") {
		t.Error("Sidebar should render exited sessions when not filtered")
	}
}

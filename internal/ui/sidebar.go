package ui

import (
	"hash/fnv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/porthole-sh/porthole/internal/api"
	"github.com/porthole-sh/porthole/internal/keys"
	"github.com/porthole-sh/porthole/internal/logger"
)

// Sidebar represents the left panel with the session list
type Sidebar struct {
	sessions     []api.Session // full list from the last sync
	visible      []api.Session // after the hide-exited filter
	hideExited   bool
	selectedIdx  int
	width        int
	height       int
	focused      bool
	scrollOffset int

	// Cache for incremental updates
	lastHash uint64 // Hash of last session list for change detection
}

// NewSidebar creates a new sidebar
func NewSidebar() *Sidebar {
	return &Sidebar{}
}

// SetSize sets the sidebar dimensions
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Width returns the sidebar width
func (s *Sidebar) Width() int {
	return s.width
}

// SetFocused sets the focus state
func (s *Sidebar) SetFocused(focused bool) {
	s.focused = focused
}

// IsFocused returns the focus state
func (s *Sidebar) IsFocused() bool {
	return s.focused
}

// hashSessions computes a fast hash of the session list to detect changes
func hashSessions(sessions []api.Session) uint64 {
	h := fnv.New64a()
	for _, sess := range sessions {
		h.Write([]byte(sess.ID))
		h.Write([]byte{0})
		h.Write([]byte(sess.Title))
		h.Write([]byte{0})
		h.Write([]byte(sess.Command))
		h.Write([]byte{0})
		h.Write([]byte(sess.Status))
		h.Write([]byte{0})
		if sess.Active {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
		h.Write([]byte{byte(sess.Clients)})
	}
	return h.Sum64()
}

// SetSessions updates the session list
func (s *Sidebar) SetSessions(sessions []api.Session) {
	// Fast path: skip the rebuild when nothing changed
	newHash := hashSessions(sessions)
	if newHash == s.lastHash && len(sessions) == len(s.sessions) {
		return
	}
	s.lastHash = newHash
	s.sessions = sessions

	s.rebuildVisible()
	logger.WithComponent("sidebar").Debug("Sessions updated",
		"total", len(s.sessions), "visible", len(s.visible))
}

// SetHideExited toggles the exited-session filter, keeping the current
// selection pinned to the same session where possible.
func (s *Sidebar) SetHideExited(hide bool) {
	if s.hideExited == hide {
		return
	}
	s.hideExited = hide
	s.rebuildVisible()
}

// HideExited returns whether exited sessions are filtered out
func (s *Sidebar) HideExited() bool {
	return s.hideExited
}

// rebuildVisible applies the hide-exited filter and re-pins the selection.
// If the previously selected session is no longer visible the cursor is
// clamped to the nearest valid index rather than reset to the top.
func (s *Sidebar) rebuildVisible() {
	var selectedID string
	if sess := s.SelectedSession(); sess != nil {
		selectedID = sess.ID
	}

	if s.hideExited {
		s.visible = make([]api.Session, 0, len(s.sessions))
		for _, sess := range s.sessions {
			if sess.IsRunning() {
				s.visible = append(s.visible, sess)
			}
		}
	} else {
		s.visible = s.sessions
	}

	if selectedID != "" {
		for i, sess := range s.visible {
			if sess.ID == selectedID {
				s.selectedIdx = i
				return
			}
		}
	}
	if s.selectedIdx >= len(s.visible) {
		s.selectedIdx = len(s.visible) - 1
	}
	if s.selectedIdx < 0 {
		s.selectedIdx = 0
	}
}

// Sessions returns the unfiltered session list
func (s *Sidebar) Sessions() []api.Session {
	return s.sessions
}

// VisibleSessions returns the sessions after filtering
func (s *Sidebar) VisibleSessions() []api.Session {
	return s.visible
}

// SelectedSession returns the currently selected session, or nil when the
// list is empty.
func (s *Sidebar) SelectedSession() *api.Session {
	if s.selectedIdx < 0 || s.selectedIdx >= len(s.visible) {
		return nil
	}
	return &s.visible[s.selectedIdx]
}

// SelectSession selects a session by ID
func (s *Sidebar) SelectSession(id string) {
	for i, sess := range s.visible {
		if sess.ID == id {
			s.selectedIdx = i
			return
		}
	}
}

// HasSession reports whether a session with the given ID is in the
// unfiltered list.
func (s *Sidebar) HasSession(id string) bool {
	for _, sess := range s.sessions {
		if sess.ID == id {
			return true
		}
	}
	return false
}

// Update handles messages
func (s *Sidebar) Update(msg tea.Msg) (*Sidebar, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		if !s.focused {
			return s, nil
		}
		switch keyMsg.String() {
		case keys.Up, "k":
			if s.selectedIdx > 0 {
				s.selectedIdx--
			}
		case keys.Down, "j":
			if s.selectedIdx < len(s.visible)-1 {
				s.selectedIdx++
			}
		case keys.Home:
			s.selectedIdx = 0
		case keys.End:
			if len(s.visible) > 0 {
				s.selectedIdx = len(s.visible) - 1
			}
		}
	}
	return s, nil
}

// View renders the sidebar
func (s *Sidebar) View() string {
	ctx := GetViewContext()

	style := PanelStyle
	if s.focused {
		style = PanelFocusedStyle
	}

	innerHeight := ctx.InnerHeight(s.height)
	innerWidth := ctx.InnerWidth(s.width)

	var content string
	if len(s.visible) == 0 {
		var emptyMsg string
		if s.hideExited && len(s.sessions) > 0 {
			emptyMsg = "No running sessions."
		} else {
			emptyMsg = "No sessions."
		}
		content = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true).
			Render(emptyMsg)
	} else {
		// Render cards into actual lines so scrolling can use accurate
		// line counts after wrapping
		var allLines []string
		selectedStartLine := 0

		for idx, sess := range s.visible {
			isSelected := idx == s.selectedIdx
			card := s.renderSessionCard(sess, isSelected, innerWidth)

			itemStyle := SidebarItemStyle.Width(innerWidth)
			if isSelected {
				itemStyle = SidebarSelectedStyle.Width(innerWidth)
				selectedStartLine = len(allLines)
			}
			rendered := itemStyle.Render(card)
			allLines = append(allLines, strings.Split(rendered, "\n")...)
		}

		// Adjust scroll to keep the selected session visible
		visibleHeight := innerHeight
		if selectedStartLine < s.scrollOffset {
			s.scrollOffset = selectedStartLine
		} else if selectedStartLine >= s.scrollOffset+visibleHeight {
			s.scrollOffset = selectedStartLine - visibleHeight + 1
		}

		if s.scrollOffset < 0 {
			s.scrollOffset = 0
		}
		maxScroll := len(allLines) - visibleHeight
		if maxScroll < 0 {
			maxScroll = 0
		}
		if s.scrollOffset > maxScroll {
			s.scrollOffset = maxScroll
		}

		if s.scrollOffset > 0 && s.scrollOffset < len(allLines) {
			allLines = allLines[s.scrollOffset:]
		}
		if len(allLines) > visibleHeight {
			allLines = allLines[:visibleHeight]
		}
		content = strings.Join(allLines, "\n")
	}

	// In lipgloss v2, Width/Height include borders, so pass full panel size
	return style.Width(s.width).Height(s.height).Render(content)
}

// renderSessionCard builds the two-line display for a session: the status
// dot and title, then a muted meta line with the command and age.
func (s *Sidebar) renderSessionCard(sess api.Session, isSelected bool, innerWidth int) string {
	dot := "●"
	dotStyle := StatusRunningStyle
	if !sess.IsRunning() {
		dot = "○"
		dotStyle = StatusExitedStyle
	}

	title := sess.DisplayTitle()
	if maxTitle := innerWidth - 4; maxTitle > 0 {
		title = runewidth.Truncate(title, maxTitle, "…")
	}

	var firstLine string
	if isSelected {
		// Selected - let parent style handle colors
		firstLine = "> " + dot + " " + title
	} else {
		firstLine = "  " + dotStyle.Render(dot) + " " + title
	}

	meta := humanize.Time(sess.CreatedAt)
	if sess.Command != "" && sess.Command != title {
		meta = sess.Command + " · " + meta
	}
	if sess.Clients > 0 {
		meta += " · " + humanize.Comma(int64(sess.Clients)) + " watching"
	}
	if maxMeta := innerWidth - 4; maxMeta > 0 {
		meta = runewidth.Truncate(meta, maxMeta, "…")
	}

	var metaLine string
	if isSelected {
		metaLine = "    " + meta
	} else {
		metaLine = "    " + SidebarMetaStyle.Render(meta)
	}

	return firstLine + "\n" + metaLine
}

package ui

import (
	"strings"
	"time"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/porthole-sh/porthole/internal/logger"
)

// TerminalTickMsg advances the waiting spinner
type TerminalTickMsg time.Time

// TerminalTick returns a command that sends a tick message after a delay
func TerminalTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return TerminalTickMsg(t)
	})
}

// Terminal is the right panel showing live session output.
type Terminal struct {
	viewport     viewport.Model
	width        int
	height       int
	focused      bool
	lines        []string
	title        string
	hasSession   bool
	waiting      bool   // No output received yet
	exited       bool   // Session process has ended
	degraded     bool   // Stream could not be opened
	degradedMsg  string // Why the stream is unavailable
	spinnerFrame int
}

// NewTerminal creates a new terminal panel
func NewTerminal() *Terminal {
	vp := viewport.New()
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	return &Terminal{viewport: vp}
}

// SetSize sets the terminal panel dimensions
func (t *Terminal) SetSize(width, height int) {
	t.width = width
	t.height = height

	ctx := GetViewContext()
	innerWidth := ctx.InnerWidth(width)
	innerHeight := ctx.InnerHeight(height)
	if innerHeight < 1 {
		innerHeight = 1
	}

	t.viewport.SetWidth(innerWidth)
	t.viewport.SetHeight(innerHeight)
	t.updateContent()
}

// SetFocused sets the focus state
func (t *Terminal) SetFocused(focused bool) {
	t.focused = focused
}

// IsFocused returns the focus state
func (t *Terminal) IsFocused() bool {
	return t.focused
}

// SetSession resets the panel for a new session's output
func (t *Terminal) SetSession(title string) {
	t.title = title
	t.hasSession = true
	t.lines = nil
	t.waiting = true
	t.exited = false
	t.degraded = false
	t.degradedMsg = ""
	t.viewport.SetContent("")
	logger.WithComponent("terminal").Debug("Panel reset for session", "title", title)
}

// ClearSession returns the panel to the no-session placeholder
func (t *Terminal) ClearSession() {
	t.title = ""
	t.hasSession = false
	t.lines = nil
	t.waiting = false
	t.exited = false
	t.degraded = false
	t.viewport.SetContent("")
}

// HasSession reports whether the panel is bound to a session
func (t *Terminal) HasSession() bool {
	return t.hasSession
}

// IsWaiting reports whether the panel is still waiting for first output
func (t *Terminal) IsWaiting() bool {
	return t.waiting
}

// AppendOutput adds stream data to the scrollback. The payload may span
// multiple lines. Escape sequences are stripped so the remote terminal
// cannot corrupt ours.
func (t *Terminal) AppendOutput(data string) {
	t.waiting = false

	clean := ansi.Strip(data)
	clean = strings.ReplaceAll(clean, "\r\n", "\n")
	clean = strings.ReplaceAll(clean, "\r", "\n")

	followBottom := t.viewport.AtBottom()

	t.lines = append(t.lines, strings.Split(clean, "\n")...)
	if len(t.lines) > MaxTerminalLines {
		t.lines = t.lines[len(t.lines)-MaxTerminalLines:]
	}

	t.updateContent()
	if followBottom {
		t.viewport.GotoBottom()
	}
}

// LineCount returns the number of scrollback lines held
func (t *Terminal) LineCount() int {
	return len(t.lines)
}

// SetExited marks the session's process as ended
func (t *Terminal) SetExited() {
	t.exited = true
	t.waiting = false
	t.updateContent()
}

// SetDegraded puts the panel into the stream-unavailable state
func (t *Terminal) SetDegraded(reason string) {
	t.degraded = true
	t.waiting = false
	t.degradedMsg = reason
	t.updateContent()
}

// IsDegraded reports whether the stream is unavailable
func (t *Terminal) IsDegraded() bool {
	return t.degraded
}

// updateContent rebuilds the viewport content from the scrollback
func (t *Terminal) updateContent() {
	var sb strings.Builder
	sb.WriteString(strings.Join(t.lines, "\n"))

	if t.exited {
		if len(t.lines) > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(StatusExitedStyle.Render("── session ended ──"))
	}

	t.viewport.SetContent(sb.String())
}

// Update handles messages
func (t *Terminal) Update(msg tea.Msg) (*Terminal, tea.Cmd) {
	switch msg := msg.(type) {
	case TerminalTickMsg:
		if t.waiting {
			t.spinnerFrame = (t.spinnerFrame + 1) % len(SpinnerFrames)
			return t, TerminalTick()
		}
		return t, nil

	case tea.KeyPressMsg:
		if !t.focused {
			return t, nil
		}
		var cmd tea.Cmd
		t.viewport, cmd = t.viewport.Update(msg)
		return t, cmd
	}

	var cmd tea.Cmd
	t.viewport, cmd = t.viewport.Update(msg)
	return t, cmd
}

// View renders the terminal panel
func (t *Terminal) View() string {
	panelStyle := PanelStyle
	if t.focused {
		panelStyle = PanelFocusedStyle
	}

	var content string
	switch {
	case !t.hasSession:
		content = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true).
			Render("Select a session to view its output.")
	case t.degraded:
		msg := "Live output unavailable."
		if t.degradedMsg != "" {
			msg += " " + t.degradedMsg
		}
		content = StatusErrorStyle.Render(msg)
	case t.waiting:
		frame := SpinnerFrames[t.spinnerFrame]
		content = StatusLoadingStyle.Render(frame + " Connecting to " + t.title + "...")
	default:
		content = t.viewport.View()
	}

	return panelStyle.Width(t.width).Height(t.height).Render(content)
}

package ui

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key  string
	Desc string
}

// FlashType categorizes flash messages for styling
type FlashType int

const (
	FlashInfo FlashType = iota
	FlashSuccess
	FlashWarning
	FlashError
)

// icon returns the symbol shown before the flash text
func (t FlashType) icon() string {
	switch t {
	case FlashSuccess:
		return "✓"
	case FlashWarning:
		return "⚠"
	case FlashError:
		return "✕"
	default:
		return "ℹ"
	}
}

// style returns the lipgloss style for the flash text
func (t FlashType) style() lipgloss.Style {
	switch t {
	case FlashSuccess:
		return lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	case FlashWarning:
		return lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	case FlashError:
		return lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(ColorInfo)
	}
}

// FlashMessage is a transient banner shown in the footer in place of
// the keybinding hints.
type FlashMessage struct {
	Text      string
	Type      FlashType
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired reports whether the message has outlived its duration
func (m *FlashMessage) IsExpired() bool {
	return time.Since(m.CreatedAt) >= m.Duration
}

// FlashTickMsg drives periodic expiry checks of the active flash
type FlashTickMsg struct{}

// FlashTick returns a command that emits FlashTickMsg after the tick interval
func FlashTick() tea.Cmd {
	return tea.Tick(FlashTickInterval, func(time.Time) tea.Msg {
		return FlashTickMsg{}
	})
}

// Footer represents the bottom footer bar with keybindings
type Footer struct {
	width            int
	hasSessions      bool // Whether the directory has any sessions
	inSession        bool // Whether a session view is active
	sessionRunning   bool // Whether the viewed session is still running
	modalOpen        bool // Whether a modal has focus
	loginView        bool // Whether the login form is showing
	sidebarCollapsed bool // Whether the sidebar is hidden
	flashMessage     *FlashMessage
}

// NewFooter creates a new footer
func NewFooter() *Footer {
	return &Footer{}
}

// SetContext updates the footer's context for conditional bindings
func (f *Footer) SetContext(hasSessions, inSession, sessionRunning, modalOpen, loginView, sidebarCollapsed bool) {
	f.hasSessions = hasSessions
	f.inSession = inSession
	f.sessionRunning = sessionRunning
	f.modalOpen = modalOpen
	f.loginView = loginView
	f.sidebarCollapsed = sidebarCollapsed
}

// SetWidth sets the footer width
func (f *Footer) SetWidth(width int) {
	f.width = width
}

// SetFlash shows a flash message with the default duration
func (f *Footer) SetFlash(text string, flashType FlashType) {
	f.SetFlashWithDuration(text, flashType, DefaultFlashDuration)
}

// SetFlashWithDuration shows a flash message with a custom duration
func (f *Footer) SetFlashWithDuration(text string, flashType FlashType, duration time.Duration) {
	f.flashMessage = &FlashMessage{
		Text:      text,
		Type:      flashType,
		CreatedAt: time.Now(),
		Duration:  duration,
	}
}

// ClearFlash removes the current flash message
func (f *Footer) ClearFlash() {
	f.flashMessage = nil
}

// ClearIfExpired clears the flash if it has expired, reporting whether
// it did so
func (f *Footer) ClearIfExpired() bool {
	if f.flashMessage != nil && f.flashMessage.IsExpired() {
		f.flashMessage = nil
		return true
	}
	return false
}

// HasFlash reports whether a flash message is currently set
func (f *Footer) HasFlash() bool {
	return f.flashMessage != nil
}

// bindings returns the keybinding set for the current context
func (f *Footer) bindings() []KeyBinding {
	if f.loginView {
		return []KeyBinding{
			{Key: "enter", Desc: "connect"},
			{Key: "tab", Desc: "next field"},
			{Key: "ctrl+c", Desc: "quit"},
		}
	}

	if f.modalOpen {
		return []KeyBinding{
			{Key: "enter", Desc: "confirm"},
			{Key: "esc", Desc: "cancel"},
		}
	}

	if f.inSession {
		b := []KeyBinding{
			{Key: "esc", Desc: "back"},
			{Key: "↑/↓", Desc: "sessions"},
			{Key: "pgup/dn", Desc: "scroll"},
		}
		if f.sessionRunning {
			b = append(b, KeyBinding{Key: "d", Desc: "kill"})
		}
		b = append(b,
			KeyBinding{Key: "y", Desc: "copy link"},
			KeyBinding{Key: "ctrl+b", Desc: "sidebar"},
			KeyBinding{Key: "q", Desc: "quit"},
		)
		return b
	}

	b := []KeyBinding{
		{Key: "n", Desc: "new session"},
	}
	if f.hasSessions {
		b = append(b,
			KeyBinding{Key: "↑/↓", Desc: "navigate"},
			KeyBinding{Key: "enter", Desc: "open"},
			KeyBinding{Key: "d", Desc: "kill"},
		)
	}
	b = append(b,
		KeyBinding{Key: "e", Desc: "hide exited"},
		KeyBinding{Key: "c", Desc: "cleanup"},
		KeyBinding{Key: "s", Desc: "settings"},
		KeyBinding{Key: "ctrl+l", Desc: "logout"},
		KeyBinding{Key: "q", Desc: "quit"},
	)
	return b
}

// View renders the footer
func (f *Footer) View() string {
	// Flash messages take priority over keybinding hints
	if f.flashMessage != nil && !f.flashMessage.IsExpired() {
		style := f.flashMessage.Type.style()
		content := style.Render(f.flashMessage.Type.icon() + " " + f.flashMessage.Text)
		return FooterStyle.Width(f.width).Render(content)
	}

	var parts []string
	for _, b := range f.bindings() {
		key := FooterKeyStyle.Render(b.Key)
		desc := FooterDescStyle.Render(": " + b.Desc)
		parts = append(parts, key+desc)
	}

	sep := "  " + lipgloss.NewStyle().Foreground(ColorBorder).Render("|") + "  "
	content := strings.Join(parts, sep)
	return FooterStyle.Width(f.width).Render(content)
}

package ui

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"
)

// ModalState is a discriminated union interface for modal-specific state.
// Each modal type implements this interface with its own state struct,
// ensuring type-safe access to modal-specific fields.
type ModalState interface {
	modalState() // marker method to restrict implementations
	Title() string
	Help() string
	Render() string
	Update(msg tea.Msg) (ModalState, tea.Cmd)
}

// Modal represents a popup dialog with type-safe state management.
// The State field is nil when no modal is visible.
type Modal struct {
	State ModalState
	error string
}

// NewModal creates a new modal
func NewModal() *Modal {
	return &Modal{}
}

// Show displays a modal with the given state
func (m *Modal) Show(state ModalState) {
	m.State = state
	m.error = ""
}

// Hide hides the modal
func (m *Modal) Hide() {
	m.State = nil
	m.error = ""
}

// IsVisible returns whether the modal is visible
func (m *Modal) IsVisible() bool {
	return m.State != nil
}

// SetError sets an error message
func (m *Modal) SetError(err string) {
	m.error = err
}

// GetError returns the current error message
func (m *Modal) GetError() string {
	return m.error
}

// Update handles messages by delegating to the current state
func (m *Modal) Update(msg tea.Msg) (*Modal, tea.Cmd) {
	if m.State == nil {
		return m, nil
	}
	var cmd tea.Cmd
	m.State, cmd = m.State.Update(msg)
	return m, cmd
}

// View renders the modal centered over the screen
func (m *Modal) View(screenWidth, screenHeight int) string {
	if m.State == nil {
		return ""
	}

	content := m.State.Render()

	if m.error != "" {
		content += "\n" + StatusErrorStyle.Render(m.error)
	}

	modal := ModalStyle.Render(content)

	return lipgloss.Place(
		screenWidth, screenHeight,
		lipgloss.Center, lipgloss.Center,
		modal,
	)
}

// =============================================================================
// NewSessionState - State for the New Session modal
// =============================================================================

type NewSessionState struct {
	// Bound form values
	command string
	title   string
	cwd     string

	form *huh.Form
}

func (*NewSessionState) modalState() {}

func (s *NewSessionState) Title() string { return "New Session" }

func (s *NewSessionState) Help() string {
	return "Tab: next  Enter: create  Esc: cancel"
}

func (s *NewSessionState) Render() string {
	title := ModalTitleStyle.Render(s.Title())
	help := ModalHelpStyle.Render(s.Help())
	return lipgloss.JoinVertical(lipgloss.Left, title, s.form.View(), help)
}

func (s *NewSessionState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	var cmd tea.Cmd
	s.form, cmd = huhFormUpdate(s.form, msg)
	return s, cmd
}

// GetValues returns the session creation values
func (s *NewSessionState) GetValues() (command, title, cwd string) {
	return s.command, s.title, s.cwd
}

// NewNewSessionState creates a new NewSessionState
func NewNewSessionState(defaultCommand string) *NewSessionState {
	s := &NewSessionState{command: defaultCommand}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Command").
				Placeholder("zsh").
				CharLimit(ModalInputCharLimit).
				Value(&s.command),
			huh.NewInput().
				Title("Title").
				Placeholder("optional").
				CharLimit(ModalInputCharLimit).
				Value(&s.title),
			huh.NewInput().
				Title("Working directory").
				Placeholder("~").
				CharLimit(ModalInputCharLimit).
				Value(&s.cwd),
		),
	).WithTheme(FormTheme()).
		WithShowHelp(false).
		WithWidth(ModalInputWidth).
		WithLayout(huh.LayoutStack)

	initHuhForm(s.form)
	return s
}

// =============================================================================
// ConfirmKillState - State for the kill session confirmation
// =============================================================================

type ConfirmKillState struct {
	SessionID    string
	SessionTitle string
}

func (*ConfirmKillState) modalState() {}

func (s *ConfirmKillState) Title() string { return "Kill Session" }

func (s *ConfirmKillState) Help() string {
	return "Enter: kill  Esc: cancel"
}

func (s *ConfirmKillState) Render() string {
	title := ModalTitleStyle.Render(s.Title())
	body := "Kill " + s.SessionTitle + "? The process will be terminated."
	help := ModalHelpStyle.Render(s.Help())
	return lipgloss.JoinVertical(lipgloss.Left, title, body, help)
}

func (s *ConfirmKillState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	return s, nil
}

// NewConfirmKillState creates a new ConfirmKillState
func NewConfirmKillState(sessionID, sessionTitle string) *ConfirmKillState {
	return &ConfirmKillState{SessionID: sessionID, SessionTitle: sessionTitle}
}

// =============================================================================
// ConfirmCleanupState - State for the cleanup-exited confirmation
// =============================================================================

type ConfirmCleanupState struct {
	ExitedCount int
}

func (*ConfirmCleanupState) modalState() {}

func (s *ConfirmCleanupState) Title() string { return "Clean Up Sessions" }

func (s *ConfirmCleanupState) Help() string {
	return "Enter: clean up  Esc: cancel"
}

func (s *ConfirmCleanupState) Render() string {
	title := ModalTitleStyle.Render(s.Title())
	body := "Remove all exited sessions from the server?"
	if s.ExitedCount > 0 {
		body = RenderCleanupBody(s.ExitedCount)
	}
	help := ModalHelpStyle.Render(s.Help())
	return lipgloss.JoinVertical(lipgloss.Left, title, body, help)
}

func (s *ConfirmCleanupState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	return s, nil
}

// NewConfirmCleanupState creates a new ConfirmCleanupState
func NewConfirmCleanupState(exitedCount int) *ConfirmCleanupState {
	return &ConfirmCleanupState{ExitedCount: exitedCount}
}

// =============================================================================
// SettingsState - State for the preferences modal
// =============================================================================

type SettingsState struct {
	// Bound form values
	theme   string
	toggles []string

	form *huh.Form
}

// Toggle option keys for the settings multi-select
const (
	optionNotifications = "notifications"
	optionAnimations    = "animations"
	optionHideExited    = "hide-exited"
)

func (*SettingsState) modalState() {}

func (s *SettingsState) Title() string { return "Settings" }

func (s *SettingsState) Help() string {
	return "Tab: next  Space: toggle  Enter: save  Esc: cancel"
}

func (s *SettingsState) Render() string {
	title := ModalTitleStyle.Render(s.Title())
	help := ModalHelpStyle.Render(s.Help())
	return lipgloss.JoinVertical(lipgloss.Left, title, s.form.View(), help)
}

func (s *SettingsState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	var cmd tea.Cmd
	s.form, cmd = huhFormUpdate(s.form, msg)
	return s, cmd
}

// GetValues returns the chosen preferences
func (s *SettingsState) GetValues() (theme string, notifications, animationsDisabled, hideExited bool) {
	theme = s.theme
	animationsDisabled = true
	for _, opt := range s.toggles {
		switch opt {
		case optionNotifications:
			notifications = true
		case optionAnimations:
			animationsDisabled = false
		case optionHideExited:
			hideExited = true
		}
	}
	return
}

// NewSettingsState creates a new SettingsState pre-populated with the
// current preferences
func NewSettingsState(theme string, notifications, animationsDisabled, hideExited bool) *SettingsState {
	s := &SettingsState{theme: theme}
	if notifications {
		s.toggles = append(s.toggles, optionNotifications)
	}
	if !animationsDisabled {
		s.toggles = append(s.toggles, optionAnimations)
	}
	if hideExited {
		s.toggles = append(s.toggles, optionHideExited)
	}

	themes := ThemeNames()
	themeOptions := make([]huh.Option[string], len(themes))
	for i, name := range themes {
		themeOptions[i] = huh.NewOption(BuiltinThemes[name].Name, string(name))
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Theme").
				Options(themeOptions...).
				Value(&s.theme),
			huh.NewMultiSelect[string]().
				Title("Options").
				Options(
					huh.NewOption("Desktop notifications", optionNotifications),
					huh.NewOption("Animated transitions", optionAnimations),
					huh.NewOption("Hide exited sessions", optionHideExited),
				).
				Value(&s.toggles),
		),
	).WithTheme(FormTheme()).
		WithShowHelp(false).
		WithWidth(ModalInputWidth).
		WithLayout(huh.LayoutStack)

	initHuhForm(s.form)
	return s
}

// RenderCleanupBody formats the cleanup confirmation message
func RenderCleanupBody(count int) string {
	if count == 1 {
		return "Remove 1 exited session from the server?"
	}
	return fmt.Sprintf("Remove %d exited sessions from the server?", count)
}

package ui

import (
	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"
)

// Login is the full-screen authentication view shown when the server
// requires a password.
type Login struct {
	// Bound form values
	username string
	password string

	form      *huh.Form
	width     int
	height    int
	serverURL string
	errMsg    string
	busy      bool // A login request is in flight
}

// NewLogin creates the login view for the given server
func NewLogin(serverURL string) *Login {
	l := &Login{serverURL: serverURL}
	l.buildForm()
	return l
}

func (l *Login) buildForm() {
	l.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Placeholder("optional").
				CharLimit(ModalInputCharLimit).
				Value(&l.username),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				CharLimit(ModalInputCharLimit).
				Value(&l.password),
		),
	).WithTheme(FormTheme()).
		WithShowHelp(false).
		WithWidth(ModalInputWidth).
		WithLayout(huh.LayoutStack)

	initHuhForm(l.form)
}

// SetSize sets the view dimensions
func (l *Login) SetSize(width, height int) {
	l.width = width
	l.height = height
}

// Credentials returns the entered username and password
func (l *Login) Credentials() (username, password string) {
	return l.username, l.password
}

// SetError shows an authentication failure message under the form
func (l *Login) SetError(msg string) {
	l.errMsg = msg
	l.busy = false
}

// ClearError removes the failure message
func (l *Login) ClearError() {
	l.errMsg = ""
}

// SetBusy marks a login request as in flight
func (l *Login) SetBusy(busy bool) {
	l.busy = busy
}

// IsBusy reports whether a login request is in flight
func (l *Login) IsBusy() bool {
	return l.busy
}

// Reset clears the password and any error, keeping the username. Used
// after logout so stale credentials never linger.
func (l *Login) Reset() {
	l.password = ""
	l.errMsg = ""
	l.busy = false
	l.buildForm()
}

// Update handles messages
func (l *Login) Update(msg tea.Msg) (*Login, tea.Cmd) {
	if l.busy {
		return l, nil
	}
	var cmd tea.Cmd
	l.form, cmd = huhFormUpdate(l.form, msg)
	return l, cmd
}

// View renders the centered login card
func (l *Login) View() string {
	title := ModalTitleStyle.Render("Connect to " + l.serverURL)

	var status string
	if l.busy {
		status = StatusLoadingStyle.Render("Signing in...")
	} else if l.errMsg != "" {
		status = StatusErrorStyle.Render(l.errMsg)
	}

	help := ModalHelpStyle.Render("Enter: connect  Ctrl+C: quit")

	parts := []string{title, l.form.View()}
	if status != "" {
		parts = append(parts, status)
	}
	parts = append(parts, help)

	card := ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))

	return lipgloss.Place(
		l.width, l.height,
		lipgloss.Center, lipgloss.Center,
		card,
	)
}

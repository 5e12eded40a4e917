package app

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/porthole-sh/porthole/internal/api"
	"github.com/porthole-sh/porthole/internal/config"
	"github.com/porthole-sh/porthole/internal/logger"
	"github.com/porthole-sh/porthole/internal/route"
	"github.com/porthole-sh/porthole/internal/stream"
	"github.com/porthole-sh/porthole/internal/transition"
	"github.com/porthole-sh/porthole/internal/ui"
)

// Focus represents which panel is focused
type Focus int

const (
	FocusSidebar Focus = iota
	FocusTerminal
)

// View represents the top-level screen being shown.
// Using an explicit state machine prevents invalid state combinations
// and makes transitions clear and traceable.
type View int

const (
	ViewLogin     View = iota // Authentication form
	ViewDirectory             // Session list
	ViewSession               // Live session output
)

// String returns a human-readable name for the view
func (v View) String() string {
	switch v {
	case ViewLogin:
		return "Login"
	case ViewDirectory:
		return "Directory"
	case ViewSession:
		return "Session"
	default:
		return "Unknown"
	}
}

// ReconcileState tracks how the viewed session relates to the last poll.
// A session missing from one poll gets a grace period before the app
// concludes it is gone; transient list inconsistencies on the server
// must not kick the user out of a live view.
type ReconcileState int

const (
	ReconcileIdle      ReconcileState = iota // Not viewing a session
	ReconcilePending                         // Missing from the last poll, grace period
	ReconcileConfirmed                       // Present in the last poll
)

// Poll timing
const (
	// PollInterval is how often the directory is refreshed
	PollInterval = 3 * time.Second

	// CreationWaitInterval is the delay between creation-wait probes
	CreationWaitInterval = 500 * time.Millisecond

	// CreationWaitAttempts bounds how long a newly created session may
	// take to appear in the directory
	CreationWaitAttempts = 10
)

// Model is the main Bubble Tea model
type Model struct {
	config  *config.Config
	client  *api.Client
	streams *stream.Manager
	version string // App version (injected at build time)

	header   *ui.Header
	footer   *ui.Footer
	sidebar  *ui.Sidebar
	terminal *ui.Terminal
	login    *ui.Login
	modal    *ui.Modal

	width  int
	height int
	view   View
	focus  Focus

	// Location and history (the TUI analog of the URL bar)
	location route.Location
	history  *route.History

	// Directory sync state
	pollGen       int  // Invalidates in-flight poll responses
	firstPollDone bool // The directory has been fetched at least once
	reconcile     ReconcileState

	// Creation wait: ID of a session created but not yet listed
	creationWaitID string

	// Sidebar collapse transition
	sidebarAnim      transition.Strategy
	sidebarCollapsed bool // Target state, mutated before the first frame
	narrowCollapsed  bool // Collapse was forced by the narrow breakpoint

	// Deep link requested via --session before auth completed
	pendingDeepLink string
}

// New creates a new app model
func New(cfg *config.Config, client *api.Client, version string) *Model {
	// Load saved theme from config, or use default
	if savedTheme := cfg.GetTheme(); savedTheme != "" {
		ui.SetThemeByName(savedTheme)
	}

	m := &Model{
		config:           cfg,
		client:           client,
		streams:          stream.NewManager(stream.NewHTTPOpener(client)),
		version:          version,
		header:           ui.NewHeader(),
		footer:           ui.NewFooter(),
		sidebar:          ui.NewSidebar(),
		terminal:         ui.NewTerminal(),
		login:            ui.NewLogin(cfg.GetServerURL()),
		modal:            ui.NewModal(),
		view:             ViewLogin,
		focus:            FocusSidebar,
		location:         route.Directory,
		history:          route.NewHistory(route.Directory),
		sidebarAnim:      transition.Select(cfg.GetAnimationsDisabled()),
		sidebarCollapsed: cfg.GetSidebarCollapsed(),
	}

	m.client.SetToken(cfg.GetToken())
	m.sidebar.SetFocused(true)
	m.sidebar.SetHideExited(cfg.GetHideExited())

	return m
}

// SetDeepLink requests navigation to a session once authenticated
func (m *Model) SetDeepLink(sessionID string) {
	m.pendingDeepLink = sessionID
}

// setView transitions to a new view with logging
func (m *Model) setView(v View) {
	if m.view != v {
		logger.WithComponent("app").Debug("View transition",
			"from", m.view.String(), "to", v.String())
		m.view = v
	}
}

// Init initializes the model. The app starts auth-first: the saved token
// is validated before anything else is shown.
func (m *Model) Init() tea.Cmd {
	return m.checkAuth()
}

// streamingSessionID returns the session the stream manager is bound to
func (m *Model) streamingSessionID() string {
	return m.streams.CurrentSessionID()
}

// Close releases the app's resources on teardown
func (m *Model) Close() {
	m.streams.CloseCurrent()
}

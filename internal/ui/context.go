package ui

import (
	"sync"

	"github.com/porthole-sh/porthole/internal/logger"
)

// Breakpoint classifies the terminal width.
type Breakpoint int

const (
	// BreakpointWide is the normal two-panel layout
	BreakpointWide Breakpoint = iota
	// BreakpointNarrow collapses the sidebar in session view
	BreakpointNarrow
)

func (b Breakpoint) String() string {
	if b == BreakpointNarrow {
		return "narrow"
	}
	return "wide"
}

// ViewContext holds centralized layout calculations and provides debug logging.
// All size calculations should go through this to avoid duplication.
type ViewContext struct {
	// Terminal dimensions
	TerminalWidth  int
	TerminalHeight int

	// Calculated dimensions
	HeaderHeight  int
	FooterHeight  int
	ContentHeight int
	SidebarWidth  int
	ContentWidth  int

	// SizeKnown is false until the first terminal size has been
	// processed; breakpoint side effects are suppressed before that.
	SizeKnown bool

	breakpoint Breakpoint

	mu sync.Mutex
}

// Global view context instance
var ctx *ViewContext
var ctxOnce sync.Once

// GetViewContext returns the singleton ViewContext instance
func GetViewContext() *ViewContext {
	ctxOnce.Do(func() {
		ctx = &ViewContext{
			HeaderHeight: HeaderHeight,
			FooterHeight: FooterHeight,
		}
		logger.WithComponent("ui").Debug("ViewContext initialized")
	})
	return ctx
}

// ResetViewContext discards the singleton. For tests.
func ResetViewContext() {
	ctx = nil
	ctxOnce = sync.Once{}
}

// UpdateTerminalSize recalculates all dimensions when terminal size changes.
// Returns the new breakpoint classification. This method is thread-safe and
// should be called from the main event loop on resize.
func (v *ViewContext) UpdateTerminalSize(width, height, sidebarWidth int) Breakpoint {
	v.mu.Lock()
	defer v.mu.Unlock()

	// Validate dimensions to prevent negative layout values
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}
	if height < MinTerminalHeight {
		height = MinTerminalHeight
	}

	v.TerminalWidth = width
	v.TerminalHeight = height

	// Header and footer each take exactly 1 line of content
	v.HeaderHeight = HeaderHeight
	v.FooterHeight = FooterHeight

	// Content area is everything between header and footer
	v.ContentHeight = height - v.HeaderHeight - v.FooterHeight

	v.SidebarWidth = sidebarWidth
	v.ContentWidth = width - sidebarWidth

	if width < NarrowBreakpoint {
		v.breakpoint = BreakpointNarrow
	} else {
		v.breakpoint = BreakpointWide
	}
	v.SizeKnown = true

	log := logger.WithComponent("ui")
	log.Debug("Terminal size updated",
		"width", width,
		"height", height,
		"contentHeight", v.ContentHeight,
		"sidebarWidth", v.SidebarWidth,
		"contentWidth", v.ContentWidth,
		"breakpoint", v.breakpoint.String(),
	)
	return v.breakpoint
}

// SetSidebarWidth updates the split without a terminal resize, e.g. as
// a transition animates the sidebar.
func (v *ViewContext) SetSidebarWidth(sidebarWidth int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.SidebarWidth = sidebarWidth
	v.ContentWidth = v.TerminalWidth - sidebarWidth
}

// Breakpoint returns the current width classification.
func (v *ViewContext) Breakpoint() Breakpoint {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.breakpoint
}

// InnerWidth returns the usable width inside a panel with borders
func (v *ViewContext) InnerWidth(panelWidth int) int {
	return panelWidth - BorderSize
}

// InnerHeight returns the usable height inside a panel with borders
func (v *ViewContext) InnerHeight(panelHeight int) int {
	return panelHeight - BorderSize
}

// Package ui provides constants for layout calculations and configuration.
package ui

import "time"

// Layout constants for panel sizing
const (
	// HeaderHeight is the height of the header in lines
	HeaderHeight = 1

	// FooterHeight is the height of the footer in lines
	FooterHeight = 1

	// BorderSize is the total border width (1 on each side)
	BorderSize = 2

	// TitleHeight is the height of panel titles
	TitleHeight = 1

	// MinTerminalWidth is the smallest width layout math will accept
	MinTerminalWidth = 40

	// MinTerminalHeight is the smallest height layout math will accept
	MinTerminalHeight = 10

	// NarrowBreakpoint is the terminal width below which the layout is
	// classified narrow and the sidebar auto-collapses in session view
	NarrowBreakpoint = 100

	// SidebarResizeStep is how many columns < and > move the split
	SidebarResizeStep = 2

	// MaxTerminalLines is the maximum number of output lines kept in the
	// terminal panel's scrollback
	MaxTerminalLines = 10000
)

// Flash timing
const (
	// DefaultFlashDuration is how long a flash message stays visible
	DefaultFlashDuration = 5 * time.Second

	// FlashTickInterval is how often expiry is checked
	FlashTickInterval = 500 * time.Millisecond
)

// Modal dimensions
const (
	// ModalWidth is the default width of modals
	ModalWidth = 60

	// ModalInputWidth is the width of text inputs inside modals
	ModalInputWidth = 52

	// ModalInputCharLimit is the character limit for modal text inputs
	ModalInputCharLimit = 256
)

// SpinnerFrames animate the terminal panel while waiting for the first
// stream event.
var SpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Package ui provides the user interface components for the Porthole TUI.
//
// # Overview
//
// The ui package implements the visual components of Porthole using the
// Bubble Tea framework and Lipgloss styling library. It follows the
// Model-Update-View pattern established by Bubble Tea.
//
// # Layout System
//
// The layout is organized as follows:
//
//	┌─────────────────────────────────────────────────────┐
//	│ Header (1 line)                                     │
//	├─────────────────┬───────────────────────────────────┤
//	│                 │                                   │
//	│   Sidebar       │         Terminal Panel            │
//	│   (session      │         (live output)             │
//	│    list)        │                                   │
//	├─────────────────┴───────────────────────────────────┤
//	│ Footer (1 line)                                     │
//	└─────────────────────────────────────────────────────┘
//
// # Components
//
// ViewContext: Singleton that manages centralized layout calculations
// and classifies the terminal width into wide/narrow breakpoints. All
// size calculations should go through ViewContext to ensure consistency.
//
// Header: Displays the application title, the current session title, and
// the connected server host. Uses a gradient background with the primary
// color.
//
// Footer: Shows context-aware keyboard shortcuts, replaced by a flash
// banner when one is active. The displayed shortcuts change based on the
// active view and modal state.
//
// Sidebar: Lists sessions with a status dot, title, and meta line.
// Supports keyboard navigation (j/k or arrow keys) and an exited-session
// filter that keeps the selection pinned across refiltering.
//
// Terminal: The main output panel tailing the selected session's stream.
// Shows a spinner until the first event arrives and a placeholder when
// the stream is unavailable.
//
// Login: Full-screen authentication form shown when the server requires
// a password.
//
// Modal: Popup dialogs for session creation, kill and cleanup
// confirmation, and preferences.
//
// # Themes
//
// Built-in themes are defined in theme.go. SetTheme regenerates every
// style variable so theme switches take effect without restarting.
package ui

package ui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
)

// Header represents the top header bar
type Header struct {
	width        int
	sessionTitle string
	serverHost   string
}

// NewHeader creates a new header
func NewHeader() *Header {
	return &Header{}
}

// SetWidth sets the header width
func (h *Header) SetWidth(width int) {
	h.width = width
}

// SetSessionTitle sets the current session title to display
func (h *Header) SetSessionTitle(title string) {
	h.sessionTitle = title
}

// SetServerHost sets the connected server host to display
func (h *Header) SetServerHost(host string) {
	h.serverHost = host
}

// View renders the header
func (h *Header) View() string {
	// Build the content string (without styling)
	titleText := " porthole"
	var rightText string
	if h.sessionTitle != "" {
		rightText = h.sessionTitle
	}
	if h.serverHost != "" {
		if rightText != "" {
			rightText += " "
		}
		rightText += "(" + h.serverHost + ")"
	}
	if rightText != "" {
		rightText += " "
	}

	// Calculate padding
	paddingLen := h.width - len(titleText) - len(rightText)
	if paddingLen < 0 {
		paddingLen = 0
	}

	fullContent := titleText + strings.Repeat(" ", paddingLen) + rightText

	// Render with gradient background
	return h.renderGradient(fullContent, h.serverHost)
}

// parseHexColor parses a hex color string (e.g., "#7C3AED") into RGB components
func parseHexColor(hex string) (r, g, b int) {
	if len(hex) == 7 && hex[0] == '#' {
		fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b)
	}
	return
}

// renderGradient renders the content with a theme-aware gradient background.
// serverHost is used to identify and mute the host portion of the text.
func (h *Header) renderGradient(content string, serverHost string) string {
	if len(content) == 0 {
		return ""
	}

	// Get colors from current theme
	theme := CurrentTheme()
	startR, startG, startB := parseHexColor(theme.Primary)
	// End color: fade to the main background
	endR, endG, endB := parseHexColor(theme.Bg)

	// Text color from theme
	textColor := lipgloss.Color(theme.Text)
	mutedColor := lipgloss.Color(theme.TextMuted)

	// Find where the host portion starts (if present)
	hostStart := -1
	if serverHost != "" {
		hostMarker := "(" + serverHost + ")"
		hostStart = strings.Index(content, hostMarker)
	}

	runes := []rune(content)
	width := len(runes)
	var result strings.Builder

	for i, r := range runes {
		// Calculate interpolation factor (0.0 to 1.0)
		t := float64(i) / float64(width)

		// Interpolate between start and end colors
		cr := int(float64(startR) + t*float64(endR-startR))
		cg := int(float64(startG) + t*float64(endG-startG))
		cb := int(float64(startB) + t*float64(endB-startB))

		bgColor := lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", cr, cg, cb))

		// Mute the host portion, keep the app name bold
		fg := textColor
		if hostStart >= 0 && i >= hostStart {
			fg = mutedColor
		}

		style := lipgloss.NewStyle().
			Background(bgColor).
			Foreground(fg).
			Bold(i < 9) // " porthole" prefix

		result.WriteString(style.Render(string(r)))
	}

	return result.String()
}

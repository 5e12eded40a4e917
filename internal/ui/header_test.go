package ui

import (
	"regexp"
	"strings"
	"testing"
)

// stripANSI removes ANSI escape codes from a string for testing
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

func TestNewHeader(t *testing.T) {
	header := NewHeader()

	if header == nil {
		t.Fatal("NewHeader() returned nil")
	}

	if header.sessionTitle != "" {
		t.Error("Expected empty session title initially")
	}

	if header.serverHost != "" {
		t.Error("Expected empty server host initially")
	}
}

func TestHeader_SetWidth(t *testing.T) {
	header := NewHeader()

	header.SetWidth(120)

	if header.width != 120 {
		t.Errorf("Expected width 120, got %d", header.width)
	}
}

func TestHeader_View_NoSession(t *testing.T) {
	header := NewHeader()
	header.SetWidth(80)

	view := stripANSI(header.View())

	if !strings.Contains(view, "porthole") {
		t.Errorf("Header should contain 'porthole' title, got: %q", view)
	}
}

func TestHeader_View_WithSession(t *testing.T) {
	header := NewHeader()
	header.SetWidth(120)
	header.SetSessionTitle("build-watcher")
	header.SetServerHost("localhost:4020")

	view := stripANSI(header.View())

	if !strings.Contains(view, "build-watcher") {
		t.Errorf("Header should contain session title, got: %q", view)
	}
	if !strings.Contains(view, "(localhost:4020)") {
		t.Errorf("Header should contain server host, got: %q", view)
	}
}

func TestHeader_View_HostOnly(t *testing.T) {
	header := NewHeader()
	header.SetWidth(80)
	header.SetServerHost("tunnel.example.com")

	view := stripANSI(header.View())

	if !strings.Contains(view, "(tunnel.example.com)") {
		t.Errorf("Header should contain server host, got: %q", view)
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		hex     string
		r, g, b int
	}{
		{"#7C3AED", 0x7C, 0x3A, 0xED},
		{"#000000", 0, 0, 0},
		{"#FFFFFF", 0xFF, 0xFF, 0xFF},
		{"bogus", 0, 0, 0},
	}

	for _, tt := range tests {
		r, g, b := parseHexColor(tt.hex)
		if r != tt.r || g != tt.g || b != tt.b {
			t.Errorf("parseHexColor(%q) = (%d,%d,%d), want (%d,%d,%d)",
				tt.hex, r, g, b, tt.r, tt.g, tt.b)
		}
	}
}

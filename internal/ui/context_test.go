package ui

import (
	"sync"
	"testing"
)

func TestGetViewContext_Singleton(t *testing.T) {
	ResetViewContext()
	defer ResetViewContext()

	ctx1 := GetViewContext()
	ctx2 := GetViewContext()

	if ctx1 != ctx2 {
		t.Error("GetViewContext should return the same instance")
	}
}

func TestViewContext_UpdateTerminalSize(t *testing.T) {
	ResetViewContext()
	defer ResetViewContext()
	ctx := GetViewContext()

	if ctx.SizeKnown {
		t.Error("SizeKnown should be false before the first resize")
	}

	bp := ctx.UpdateTerminalSize(120, 40, 28)

	if !ctx.SizeKnown {
		t.Error("SizeKnown should be true after a resize")
	}

	if bp != BreakpointWide {
		t.Errorf("Expected wide breakpoint at 120 cols, got %v", bp)
	}

	if ctx.TerminalWidth != 120 {
		t.Errorf("Expected TerminalWidth 120, got %d", ctx.TerminalWidth)
	}

	if ctx.TerminalHeight != 40 {
		t.Errorf("Expected TerminalHeight 40, got %d", ctx.TerminalHeight)
	}

	expectedContent := 40 - HeaderHeight - FooterHeight
	if ctx.ContentHeight != expectedContent {
		t.Errorf("Expected ContentHeight %d, got %d", expectedContent, ctx.ContentHeight)
	}

	if ctx.SidebarWidth != 28 {
		t.Errorf("Expected SidebarWidth 28, got %d", ctx.SidebarWidth)
	}

	if ctx.ContentWidth != 120-28 {
		t.Errorf("Expected ContentWidth %d, got %d", 120-28, ctx.ContentWidth)
	}
}

func TestViewContext_Breakpoint(t *testing.T) {
	ResetViewContext()
	defer ResetViewContext()
	ctx := GetViewContext()

	tests := []struct {
		name  string
		width int
		want  Breakpoint
	}{
		{"Wide", 120, BreakpointWide},
		{"At the boundary", NarrowBreakpoint, BreakpointWide},
		{"Just under", NarrowBreakpoint - 1, BreakpointNarrow},
		{"Very narrow", 50, BreakpointNarrow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ctx.UpdateTerminalSize(tt.width, 40, 28)
			if got != tt.want {
				t.Errorf("UpdateTerminalSize(%d) breakpoint = %v, want %v", tt.width, got, tt.want)
			}
			if ctx.Breakpoint() != tt.want {
				t.Errorf("Breakpoint() = %v, want %v", ctx.Breakpoint(), tt.want)
			}
		})
	}
}

func TestViewContext_ClampsTinyTerminals(t *testing.T) {
	ResetViewContext()
	defer ResetViewContext()
	ctx := GetViewContext()

	ctx.UpdateTerminalSize(5, 3, 28)

	if ctx.TerminalWidth != MinTerminalWidth {
		t.Errorf("Width should clamp to %d, got %d", MinTerminalWidth, ctx.TerminalWidth)
	}
	if ctx.TerminalHeight != MinTerminalHeight {
		t.Errorf("Height should clamp to %d, got %d", MinTerminalHeight, ctx.TerminalHeight)
	}
}

func TestViewContext_SetSidebarWidth(t *testing.T) {
	ResetViewContext()
	defer ResetViewContext()
	ctx := GetViewContext()

	ctx.UpdateTerminalSize(120, 40, 28)
	ctx.SetSidebarWidth(34)

	if ctx.SidebarWidth != 34 {
		t.Errorf("Expected SidebarWidth 34, got %d", ctx.SidebarWidth)
	}
	if ctx.ContentWidth != 120-34 {
		t.Errorf("Expected ContentWidth %d, got %d", 120-34, ctx.ContentWidth)
	}
}

func TestViewContext_InnerWidth(t *testing.T) {
	ResetViewContext()
	defer ResetViewContext()
	ctx := GetViewContext()

	tests := []struct {
		panelWidth int
		expected   int
	}{
		{40, 40 - BorderSize},
		{80, 80 - BorderSize},
		{10, 10 - BorderSize},
		{BorderSize, 0},
	}

	for _, tt := range tests {
		result := ctx.InnerWidth(tt.panelWidth)
		if result != tt.expected {
			t.Errorf("InnerWidth(%d) = %d, want %d", tt.panelWidth, result, tt.expected)
		}
	}
}

func TestViewContext_InnerHeight(t *testing.T) {
	ResetViewContext()
	defer ResetViewContext()
	ctx := GetViewContext()

	tests := []struct {
		panelHeight int
		expected    int
	}{
		{24, 24 - BorderSize},
		{40, 40 - BorderSize},
		{10, 10 - BorderSize},
		{BorderSize, 0},
	}

	for _, tt := range tests {
		result := ctx.InnerHeight(tt.panelHeight)
		if result != tt.expected {
			t.Errorf("InnerHeight(%d) = %d, want %d", tt.panelHeight, result, tt.expected)
		}
	}
}

func TestViewContext_ConcurrentAccess(t *testing.T) {
	ResetViewContext()
	defer ResetViewContext()
	ctx := GetViewContext()

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ctx.UpdateTerminalSize(80+n, 24+n, 28)
			ctx.SetSidebarWidth(20 + n%10)
			_ = ctx.Breakpoint()
			_ = ctx.InnerWidth(40)
			_ = ctx.InnerHeight(20)
		}(i)
	}
	wg.Wait()

	// Should not panic or deadlock
}

func TestLayoutConstants(t *testing.T) {
	// Verify constants are reasonable
	if HeaderHeight < 1 {
		t.Errorf("HeaderHeight should be at least 1, got %d", HeaderHeight)
	}

	if FooterHeight < 1 {
		t.Errorf("FooterHeight should be at least 1, got %d", FooterHeight)
	}

	if BorderSize < 0 {
		t.Errorf("BorderSize should be non-negative, got %d", BorderSize)
	}

	if NarrowBreakpoint <= MinTerminalWidth {
		t.Errorf("NarrowBreakpoint should exceed MinTerminalWidth, got %d", NarrowBreakpoint)
	}
}

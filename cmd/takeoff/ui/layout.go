// Package ui layout constants for consistent spacing and dimensions
package ui

// Layout constants for viewport and panel sizing
const (
	ViewportHorizontalPadding = 4
	ViewportVerticalPadding   = 6

	SidebarWidth = 26

	HeaderHeight = 2
	FooterHeight = 2

	MinimumTerminalWidth = 80
	CompactModeWidth     = 100

	DetailWrapWidth = 72
)

// LayoutConfig provides computed layout dimensions based on terminal size
type LayoutConfig struct {
	TerminalWidth  int
	TerminalHeight int
	IsCompact      bool
}

// NewLayoutConfig creates a layout configuration for the given terminal size
func NewLayoutConfig(width, height int) LayoutConfig {
	return LayoutConfig{
		TerminalWidth:  width,
		TerminalHeight: height,
		IsCompact:      width < CompactModeWidth,
	}
}

// ContentWidth returns the usable width right of the sidebar. The sidebar
// is hidden in compact mode.
func (l LayoutConfig) ContentWidth() int {
	w := l.TerminalWidth - ViewportHorizontalPadding
	if !l.IsCompact {
		w -= SidebarWidth
	}
	if w < 20 {
		w = 20
	}
	return w
}

// ContentHeight returns the usable content height between header and footer
func (l LayoutConfig) ContentHeight() int {
	h := l.TerminalHeight - HeaderHeight - FooterHeight - ViewportVerticalPadding
	if h < 5 {
		h = 5
	}
	return h
}

package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestDetectTheme(t *testing.T) {
	t.Setenv("COLORFGBG", "")
	t.Setenv("TAKEOFF_DARK_MODE", "1")
	dark := DetectTheme()
	if !dark.IsDark {
		t.Fatalf("expected dark theme when TAKEOFF_DARK_MODE=1")
	}

	t.Setenv("TAKEOFF_DARK_MODE", "")
	light := DetectTheme()
	if light.IsDark {
		t.Fatalf("expected light theme when TAKEOFF_DARK_MODE is unset")
	}

	t.Setenv("COLORFGBG", "15;0")
	if !DetectTheme().IsDark {
		t.Fatalf("expected dark theme for a black terminal background")
	}
}

func TestThemeFor(t *testing.T) {
	t.Setenv("COLORFGBG", "")
	t.Setenv("TAKEOFF_DARK_MODE", "")

	if !ThemeFor(true).IsDark {
		t.Fatalf("dark_mode config should force the dark theme")
	}
	if ThemeFor(false).IsDark {
		t.Fatalf("expected detected light theme")
	}
}

func TestRenderDivider(t *testing.T) {
	s := NewStyles(LightTheme())
	if w := lipgloss.Width(s.RenderDivider(12)); w != 12 {
		t.Fatalf("divider width = %d, want 12", w)
	}
	if !strings.Contains(s.RenderDivider(0), "─") {
		t.Fatalf("divider should never be empty")
	}
}

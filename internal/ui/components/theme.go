package components

import "github.com/charmbracelet/lipgloss"

// --- Palette ---

// Adaptive colors pick the light or dark variant from the terminal background.
var (
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#5b3a8c", Dark: "#9a7fd1"} // violet
	ColorTeal    = lipgloss.AdaptiveColor{Light: "#2f5561", Dark: "#5f95a4"}
	ColorAccent  = lipgloss.AdaptiveColor{Light: "#8a5a33", Dark: "#d19a66"}
	ColorText    = lipgloss.AdaptiveColor{Light: "#1d1f24", Dark: "#d7d9da"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "#5f6278", Dark: "#9ba0bf"}
	ColorBorder  = lipgloss.AdaptiveColor{Light: "#b9c2cc", Dark: "#273540"}
	ColorRowBg   = lipgloss.AdaptiveColor{Light: "#e6e1f0", Dark: "#1f2530"}
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#2c6e55", Dark: "#5fb58f"}
	ColorError   = lipgloss.AdaptiveColor{Light: "#a1303d", Dark: "#e06c75"}
	ColorErrBody = lipgloss.AdaptiveColor{Light: "#6d2a33", Dark: "#d6b5b5"}
	ColorCapBg   = lipgloss.AdaptiveColor{Light: "#c8cadb", Dark: "#888ba4"}
	ColorCapFg   = lipgloss.AdaptiveColor{Light: "#16161d", Dark: "#16161d"}
)

// ApplyTheme forces the light or dark palette. "system" keeps the terminal's
// own background detection.
func ApplyTheme(theme string) {
	switch theme {
	case "light":
		lipgloss.SetHasDarkBackground(false)
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	}
}

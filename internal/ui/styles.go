package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/cocoon/internal/ui/components"
)

// --- Reusable Styles ---

var (
	BannerStyle = lipgloss.NewStyle().
			Foreground(components.ColorPrimary).
			Bold(true)

	BannerAccentStyle = lipgloss.NewStyle().
				Foreground(components.ColorTeal)

	PromptStyle = lipgloss.NewStyle().
			Foreground(components.ColorPrimary).
			Bold(true)

	NormalStyle = lipgloss.NewStyle().
			Foreground(components.ColorText)

	MutedStyle = lipgloss.NewStyle().
			Foreground(components.ColorMuted)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(components.ColorSuccess)

	AccentStyle = lipgloss.NewStyle().
			Foreground(components.ColorAccent)

	OwnerBadgeStyle = lipgloss.NewStyle().
			Foreground(components.ColorCapFg).
			Background(components.ColorCapBg).
			Bold(true).
			Padding(0, 1)

	TemporaryStyle = lipgloss.NewStyle().
			Foreground(components.ColorAccent).
			Italic(true)

	LinkStyle = lipgloss.NewStyle().
			Foreground(components.ColorTeal).
			Underline(true)

	FormLabelStyle = lipgloss.NewStyle().
			Foreground(components.ColorTeal).
			Bold(true)

	FormLabelActiveStyle = lipgloss.NewStyle().
				Foreground(components.ColorPrimary).
				Bold(true)
)

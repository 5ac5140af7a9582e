package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/cocoon/internal/ui/components"
)

const bannerArt = `
 ┏━╸┏━┓┏━╸┏━┓┏━┓┏┓╻
 ┃  ┃ ┃┃  ┃ ┃┃ ┃┃┗┫
 ┗━╸┗━┛┗━╸┗━┛┗━┛╹ ╹`

const bannerSubtitle = "documents at your fingertips"

// RenderBanner returns the wordmark with its subtitle and underline. Short
// terminals get the one-line form.
func RenderBanner(height int) string {
	if height > 0 && height < 24 {
		return BannerStyle.Render("cocoon") + MutedStyle.Render("  "+bannerSubtitle)
	}

	lines := strings.Split(strings.TrimPrefix(bannerArt, "\n"), "\n")
	maxWidth := lipgloss.Width(bannerSubtitle)
	for _, line := range lines {
		if w := lipgloss.Width(line); w > maxWidth {
			maxWidth = w
		}
	}

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(BannerStyle.Width(maxWidth).Align(lipgloss.Center).Render(strings.TrimRight(line, " ")))
		b.WriteString("\n")
	}
	b.WriteString(MutedStyle.Width(maxWidth).Align(lipgloss.Center).Render(bannerSubtitle))
	b.WriteString("\n")
	underline := lipgloss.NewStyle().
		Foreground(components.ColorBorder).
		Width(maxWidth).
		Align(lipgloss.Center).
		Render(strings.Repeat("─", lipgloss.Width(bannerSubtitle)))
	b.WriteString(underline)
	return b.String()
}

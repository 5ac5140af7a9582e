package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var dialogHintStyle = lipgloss.NewStyle().
	Foreground(ColorMuted)

// ConfirmDialog renders a yes/no question in a titled panel.
func ConfirmDialog(title, message string, width int) string {
	body := lipgloss.NewStyle().Foreground(ColorText).Render(SanitizeText(message))
	return ActiveTitledBox(title, body+"\n\n"+dialogHintStyle.Render("y: confirm | n: cancel"), width)
}

// ConfirmSummaryDialog renders a yes/no question above a summary table.
func ConfirmSummaryDialog(title, question string, summary []TableRow, width int) string {
	sections := make([]string, 0, 3)
	sections = append(sections, lipgloss.NewStyle().Foreground(ColorText).Render(SanitizeOneLine(question)))
	if len(summary) > 0 {
		sections = append(sections, TableBody(summary, BoxContentWidth(width)))
	}
	sections = append(sections, dialogHintStyle.Render("y: confirm | n: cancel"))
	return ActiveTitledBox(title, strings.Join(sections, "\n\n"), width)
}

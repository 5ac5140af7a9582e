package components

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

var (
	boxBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	boxBorderActive = boxBorder.BorderForeground(ColorPrimary)

	boxHeaderStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	boxValueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	boxLabelStyle = lipgloss.NewStyle().
			Foreground(ColorTeal).
			Bold(true)

	boxMarkStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	errorBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorError).
			Padding(0, 1)

	errorHeaderStyle = lipgloss.NewStyle().
				Foreground(ColorError).
				Bold(true)

	errorBodyStyle = lipgloss.NewStyle().
			Foreground(ColorErrBody)
)

// BoxWidth is the outer width of a launcher panel: most of the terminal,
// between 40 and 72 columns.
func BoxWidth(width int) int {
	if width <= 0 {
		return 0
	}
	w := width * 80 / 100
	if w < 40 {
		w = 40
	}
	if w > 72 {
		w = 72
	}
	if w > width {
		w = width
	}
	return w
}

// frameWidth is the width handed to lipgloss, which draws the border outside it.
func frameWidth(width int) int {
	if w := BoxWidth(width) - 2; w > 0 {
		return w
	}
	return 0
}

// BoxContentWidth returns the inner width excluding border and padding.
func BoxContentWidth(width int) int {
	w := BoxWidth(width)
	if w <= 0 {
		return 0
	}
	// Border adds 2, padding adds 2.
	if inner := w - 4; inner > 0 {
		return inner
	}
	return 0
}

// ClampTextWidth sanitizes text to one line and truncates it to width.
func ClampTextWidth(text string, width int) string {
	cleaned := SanitizeOneLine(text)
	if width <= 0 || lipgloss.Width(cleaned) <= width {
		return cleaned
	}
	if width == 1 {
		return "…"
	}
	return truncateRunes(cleaned, width-1) + "…"
}

// Box renders content inside a bordered panel.
func Box(content string, width int) string {
	return boxBorder.Width(frameWidth(width)).Render(content)
}

// ActiveBox renders content inside a highlighted panel.
func ActiveBox(content string, width int) string {
	return boxBorderActive.Width(frameWidth(width)).Render(content)
}

// ErrorBox renders a red panel. Any key dismisses it in the app.
func ErrorBox(title, message string, width int) string {
	header := ""
	if title != "" {
		header = errorHeaderStyle.Render(title) + "\n"
	}
	return errorBorder.Width(frameWidth(width)).Render(header + errorBodyStyle.Render(SanitizeText(message)))
}

// TitledBox renders a panel with its title set into the top border.
func TitledBox(title, content string, width int) string {
	return titled(title, boxBorder.Width(frameWidth(width)).Render(content), ColorBorder)
}

// ActiveTitledBox is TitledBox with the highlighted border.
func ActiveTitledBox(title, content string, width int) string {
	return titled(title, boxBorderActive.Width(frameWidth(width)).Render(content), ColorPrimary)
}

func titled(title, boxed string, borderColor lipgloss.TerminalColor) string {
	if title == "" {
		return boxed
	}
	lines := strings.Split(boxed, "\n")
	lineWidth := lipgloss.Width(lines[0])
	if lineWidth < 6 {
		return boxed
	}

	border := lipgloss.RoundedBorder()
	middle := lineWidth - 2
	label := fmt.Sprintf(" %s ", SanitizeOneLine(title))
	if lipgloss.Width(label) > middle-1 {
		label = truncateRunes(label, middle-1)
	}
	rest := middle - 1 - lipgloss.Width(label)

	edge := lipgloss.NewStyle().Foreground(borderColor)
	lines[0] = edge.Render(border.TopLeft+border.Top) +
		boxHeaderStyle.Render(label) +
		edge.Render(strings.Repeat(border.Top, rest)+border.TopRight)
	return strings.Join(lines, "\n")
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// TableRow is one label/value line of a detail table. Marked rows get a star
// in front of the label.
type TableRow struct {
	Label  string
	Value  string
	Marked bool
}

// Table renders aligned label/value rows inside a titled panel.
func Table(title string, rows []TableRow, width int) string {
	if len(rows) == 0 {
		return ""
	}
	return TitledBox(title, TableBody(rows, BoxContentWidth(width)), width)
}

// TableBody renders the rows without the surrounding panel.
func TableBody(rows []TableRow, contentWidth int) string {
	labelWidth := 0
	for _, r := range rows {
		if w := lipgloss.Width(SanitizeOneLine(r.Label)) + 2; w > labelWidth {
			labelWidth = w
		}
	}
	if labelWidth > 22 {
		labelWidth = 22
	}
	if contentWidth <= 0 {
		contentWidth = labelWidth + 40
	}
	valueWidth := contentWidth - labelWidth - 2
	if valueWidth < 4 {
		valueWidth = 4
	}

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		mark := "  "
		if r.Marked {
			mark = boxMarkStyle.Render("★ ")
		}
		label := ClampTextWidth(r.Label, labelWidth-2)
		lines = append(lines, mark+boxLabelStyle.Render(padRight(label, labelWidth-2))+"  "+
			boxValueStyle.Render(ClampTextWidth(r.Value, valueWidth)))
	}
	return strings.Join(lines, "\n")
}

// Indent adds left padding to every line of a multi-line string.
func Indent(s string, spaces int) string {
	pad := strings.Repeat(" ", spaces)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = pad + l
	}
	return strings.Join(lines, "\n")
}

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Column is one column of a Grid. The last column absorbs spare width.
type Column struct {
	Header string
	Width  int
	Align  lipgloss.Position
}

var (
	gridRuleStyle = lipgloss.NewStyle().
			Foreground(ColorBorder)

	gridHeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTeal).
			Bold(true)

	gridRowStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	gridActiveStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Background(ColorRowBg).
			Bold(true)
)

const gridSep = "  "

// Grid renders a header, a rule and rows at exactly width columns. Row active
// is highlighted; pass -1 for none.
func Grid(columns []Column, rows [][]string, width, active int) string {
	if width <= 0 || len(columns) == 0 {
		return ""
	}
	cols := fitColumns(columns, width)

	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.Header
	}
	out := []string{
		gridHeaderStyle.Render(gridLine(cols, headers)),
		gridRuleStyle.Render(strings.Repeat("─", width)),
	}
	for i, row := range rows {
		style := gridRowStyle
		prefix := "  "
		if i == active {
			style = gridActiveStyle
			prefix = "› "
		}
		line := gridLine(cols, row)
		out = append(out, style.Render(prefix+line[2:]))
	}
	return strings.Join(out, "\n")
}

func fitColumns(columns []Column, width int) []Column {
	fitted := make([]Column, len(columns))
	copy(fitted, columns)

	used := 2 + len(gridSep)*(len(fitted)-1)
	for i := range fitted {
		if fitted[i].Width < 1 {
			fitted[i].Width = 1
		}
		used += fitted[i].Width
	}
	last := &fitted[len(fitted)-1]
	last.Width += width - used
	if last.Width < 1 {
		last.Width = 1
	}
	return fitted
}

func gridLine(cols []Column, cells []string) string {
	var b strings.Builder
	b.WriteString("  ")
	for i, col := range cols {
		if i > 0 {
			b.WriteString(gridSep)
		}
		text := ""
		if i < len(cells) {
			text = cells[i]
		}
		b.WriteString(alignCell(text, col.Width, col.Align))
	}
	return b.String()
}

func alignCell(text string, width int, align lipgloss.Position) string {
	clamped := ClampTextWidth(text, width)
	pad := width - lipgloss.Width(clamped)
	if pad <= 0 {
		return clamped
	}
	switch align {
	case lipgloss.Right:
		return strings.Repeat(" ", pad) + clamped
	case lipgloss.Center:
		left := pad / 2
		return strings.Repeat(" ", left) + clamped + strings.Repeat(" ", pad-left)
	default:
		return clamped + strings.Repeat(" ", pad)
	}
}

package components

import "github.com/charmbracelet/lipgloss"

var (
	hintDescStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)
	keyCapStyle = lipgloss.NewStyle().
			Foreground(ColorCapFg).
			Background(ColorCapBg).
			Bold(true).
			Padding(0, 1)
	hintGap = "   "
)

// Hint is one key binding shown in the status bar.
type Hint struct {
	Key  string
	Desc string
}

// Render formats the hint as "Desc [key]".
func (h Hint) Render() string {
	return hintDescStyle.Render(h.Desc+" ") + keyCapStyle.Render(h.Key)
}

// StatusBar lays hints out in centered rows no wider than width.
func StatusBar(hints []Hint, width int) string {
	segments := make([]string, 0, len(hints))
	for _, h := range hints {
		segments = append(segments, h.Render())
	}
	rows := wrapSegments(segments, width)
	if width <= 0 {
		return lipgloss.JoinVertical(lipgloss.Left, rows...)
	}
	centered := make([]string, len(rows))
	for i, row := range rows {
		centered[i] = lipgloss.PlaceHorizontal(width, lipgloss.Center, row)
	}
	return lipgloss.JoinVertical(lipgloss.Left, centered...)
}

func wrapSegments(segments []string, width int) []string {
	var rows []string
	current := ""
	for _, seg := range segments {
		if current == "" {
			current = seg
			continue
		}
		joined := current + hintGap + seg
		if width > 0 && lipgloss.Width(joined) > width {
			rows = append(rows, current)
			current = seg
			continue
		}
		current = joined
	}
	if current != "" {
		rows = append(rows, current)
	}
	return rows
}

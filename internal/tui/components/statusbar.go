package components

import (
	"strings"

	"github.com/theirongolddev/outfit/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders help on the left and the info segments, joined by
// " · ", on the right. When space runs short the right side keeps its tail,
// so a long database path shows its file name.
func RenderStatusBar(width int, help string, info ...string) string {
	left := " " + help

	var parts []string
	for _, s := range info {
		if s != "" {
			parts = append(parts, s)
		}
	}
	right := strings.Join(parts, " · ")
	if right != "" {
		right += " "
	}

	if room := width - lipgloss.Width(left) - 1; lipgloss.Width(right) > room {
		right = trimLeft(right, room)
	}
	gap := max(0, width-lipgloss.Width(left)-lipgloss.Width(right))

	return lipgloss.NewStyle().
		Foreground(theme.Active.TextMuted).
		Width(width).
		Render(left + strings.Repeat(" ", gap) + right)
}

// trimLeft keeps the last w cells of s, marking the cut with an ellipsis.
func trimLeft(s string, w int) string {
	if w <= 1 {
		return ""
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r)) > w-1 {
		r = r[1:]
	}
	return "…" + string(r)
}

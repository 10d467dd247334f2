// Package components provides reusable widgets for outfit's dashboard and
// plots.
package components

import (
	"github.com/theirongolddev/outfit/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Metric is one label/value pair shown in a metric card. Highlight draws the
// value in the accent color, used for the current best score.
type Metric struct {
	Label     string
	Value     string
	Hint      string
	Highlight bool
}

// LayoutRow splits totalWidth into n widths that sum to exactly totalWidth.
// Leading items take the remainder.
func LayoutRow(totalWidth, n int) []int {
	if n <= 0 {
		return nil
	}
	widths := make([]int, n)
	for i := range widths {
		widths[i] = totalWidth / n
		if i < totalWidth%n {
			widths[i]++
		}
	}
	return widths
}

// card is the rounded frame shared by every card. outerWidth includes the
// border.
func card(outerWidth int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Active.Border).
		Width(max(10, outerWidth-2)).
		Padding(0, 1)
}

// MetricCard renders a label over a bold value, with an optional dim hint.
func MetricCard(m Metric, outerWidth int) string {
	t := theme.Active

	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true)
	if m.Highlight {
		value = value.Foreground(t.Accent)
	}

	lines := []string{
		lipgloss.NewStyle().Foreground(t.TextMuted).Render(m.Label),
		value.Render(m.Value),
	}
	if m.Hint != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.TextDim).Render(m.Hint))
	}
	return card(outerWidth).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// MetricCardRow lays metric cards out side by side across totalWidth.
func MetricCardRow(metrics []Metric, totalWidth int) string {
	widths := LayoutRow(totalWidth, len(metrics))
	cards := make([]string, len(metrics))
	for i, m := range metrics {
		cards[i] = MetricCard(m, widths[i])
	}
	return CardRow(cards)
}

// ContentCard renders body in a card, under title when one is given.
func ContentCard(title, body string, outerWidth int) string {
	if title != "" {
		heading := lipgloss.NewStyle().Foreground(theme.Active.TextMuted).Bold(true).Render(title)
		body = heading + "\n" + body
	}
	return card(outerWidth).Render(body)
}

// CardRow joins rendered cards horizontally, top aligned.
func CardRow(cards []string) string {
	if len(cards) == 0 {
		return ""
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

// CardInnerWidth is the text width left inside a card of outerWidth.
func CardInnerWidth(outerWidth int) int {
	return max(10, outerWidth-4)
}

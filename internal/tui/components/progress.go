package components

import (
	"fmt"

	"github.com/theirongolddev/outfit/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ColorForRank returns green for the top of a ranking fading to red.
func ColorForRank(pct float64) string {
	t := theme.Active
	switch {
	case pct >= 0.9:
		return string(t.Green)
	case pct >= 0.6:
		return string(t.Yellow)
	case pct >= 0.3:
		return string(t.Orange)
	default:
		return string(t.Red)
	}
}

// ScoreBar renders a labelled bar placing value between worst and best.
// best may be smaller than worst for scores where lower is better.
func ScoreBar(label string, value, worst, best float64, labelW, barWidth int) string {
	t := theme.Active

	pct := 1.0
	if best != worst {
		pct = (value - worst) / (best - worst)
	}
	pct = max(0, min(pct, 1))

	bar := progress.New(
		progress.WithSolidFill(ColorForRank(pct)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorForRank(pct))).Bold(true)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) + " " +
		bar.ViewAs(pct) + " " +
		valueStyle.Render(fmt.Sprintf("%.4g", value))
}

package components

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/theirongolddev/outfit/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Minimum plot area; below it charts degrade to a sparkline.
const (
	minChartWidth  = 15
	minChartHeight = 3
)

// Sparkline renders a unicode sparkline from values.
func Sparkline(r *lipgloss.Renderer, values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	lo, hi := valueRange(values)

	var buf strings.Builder
	buf.Grow(len(values) * 4) // UTF-8 block chars are up to 3 bytes
	for _, v := range values {
		idx := int((v - lo) / (hi - lo) * float64(len(blocks)-1))
		idx = max(0, min(idx, len(blocks)-1))
		buf.WriteRune(blocks[idx])
	}

	return r.NewStyle().Foreground(color).Render(buf.String())
}

// axis is the shared vertical scale of a chart.
type axis struct {
	lo, hi float64 // rounded to whole ticks
	tick   float64
	rows   int
	labelW int
}

func newAxis(values []float64, height int) axis {
	lo, hi := valueRange(values)
	if lo > 0 {
		lo = 0
	}
	if hi < 0 {
		hi = 0
	}
	if hi == lo {
		hi = lo + 1
	}

	tick := chartTickStep(hi - lo)
	maxIntervals := max(2, height/2)
	for int(math.Ceil(hi/tick)-math.Floor(lo/tick)) > maxIntervals {
		tick *= 2
	}
	a := axis{
		lo:   math.Floor(lo/tick) * tick,
		hi:   math.Ceil(hi/tick) * tick,
		tick: tick,
		rows: height,
	}
	a.labelW = max(4, len(formatChartLabel(a.hi))+1, len(formatChartLabel(a.lo))+1)
	return a
}

// bounds returns the value range covered by row (1 is the bottom row).
func (a axis) bounds(row int) (bottom, top float64) {
	span := a.hi - a.lo
	return a.lo + span*float64(row-1)/float64(a.rows), a.lo + span*float64(row)/float64(a.rows)
}

// label returns the tick crossing row, or "".
func (a axis) label(row int) string {
	bottom, top := a.bounds(row)
	t := math.Floor(top/a.tick+1e-9) * a.tick
	if t > bottom+1e-9 {
		return formatChartLabel(t)
	}
	return ""
}

// BarChart renders one vertical bar per value, numbered along the x axis,
// with a legend mapping numbers to labels. Negative values hang below zero.
func BarChart(r *lipgloss.Renderer, values []float64, labels []string, color lipgloss.Color, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	if width < minChartWidth || height < minChartHeight {
		return Sparkline(r, values, color)
	}

	t := theme.Active
	ax := newAxis(values, height)
	n := len(values)

	chartW := max(5, width-ax.labelW-1)
	gap := 1
	if n <= 1 {
		gap = 0
	}
	barW := (chartW - (n-1)*gap) / n
	if barW < 1 {
		barW, gap = 1, 0
	}
	barW = min(barW, 8)

	blocks := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	axisStyle := r.NewStyle().Foreground(t.TextDim)

	var b strings.Builder
	for row := ax.rows; row >= 1; row-- {
		bottom, top := ax.bounds(row)
		rowPct := float64(row) / float64(ax.rows)

		barColor := t.Accent
		switch {
		case rowPct > 0.8:
			barColor = t.AccentBright
		case rowPct > 0.5:
			barColor = color
		}
		barStyle := r.NewStyle().Foreground(barColor)

		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", ax.labelW, ax.label(row))))
		b.WriteString(axisStyle.Render("│"))

		for i, v := range values {
			if i > 0 && gap > 0 {
				b.WriteString(strings.Repeat(" ", gap))
			}
			cell := ' '
			switch {
			case v >= 0 && bottom >= 0 && v >= top:
				cell = '█'
			case v >= 0 && bottom >= 0 && v > bottom:
				frac := (v - bottom) / (top - bottom)
				cell = blocks[max(1, min(int(frac*8), 8))]
			case v < 0 && top <= 0 && v < top:
				cell = '█'
			}
			b.WriteString(barStyle.Render(strings.Repeat(string(cell), barW)))
		}
		b.WriteString("\n")
	}

	positions := make([]int, n)
	for i := range positions {
		positions[i] = i * (barW + gap)
	}
	axisLen := n*barW + (n-1)*gap
	writeXAxis(&b, r, ax, positions, axisLen)
	writeLegend(&b, r, values, labels)
	return b.String()
}

// LineChart renders values as points joined by a dotted line.
func LineChart(r *lipgloss.Renderer, values []float64, labels []string, color lipgloss.Color, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	if width < minChartWidth || height < minChartHeight {
		return Sparkline(r, values, color)
	}

	t := theme.Active
	ax := newAxis(values, height)
	n := len(values)

	chartW := max(5, width-ax.labelW-1)
	spacing := 1
	if n > 1 {
		spacing = max(1, min((chartW-1)/(n-1), 10))
	}
	axisLen := (n-1)*spacing + 1

	// grid[0] is the bottom row.
	grid := make([][]rune, ax.rows)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", axisLen))
	}
	rowOf := func(v float64) float64 {
		return (v - ax.lo) / (ax.hi - ax.lo) * float64(ax.rows-1)
	}

	positions := make([]int, n)
	for i, v := range values {
		positions[i] = i * spacing
		if i == 0 {
			continue
		}
		// Interpolate between the previous point and this one.
		y0, y1 := rowOf(values[i-1]), rowOf(v)
		for x := 1; x < spacing; x++ {
			y := int(math.Round(y0 + (y1-y0)*float64(x)/float64(spacing)))
			grid[max(0, min(y, ax.rows-1))][positions[i-1]+x] = '·'
		}
	}
	for i, v := range values {
		y := int(math.Round(rowOf(v)))
		grid[max(0, min(y, ax.rows-1))][positions[i]] = '●'
	}

	axisStyle := r.NewStyle().Foreground(t.TextDim)
	lineStyle := r.NewStyle().Foreground(color)
	pointStyle := r.NewStyle().Foreground(t.AccentBright).Bold(true)

	var b strings.Builder
	for row := ax.rows; row >= 1; row-- {
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", ax.labelW, ax.label(row))))
		b.WriteString(axisStyle.Render("│"))
		for _, c := range grid[row-1] {
			switch c {
			case '●':
				b.WriteString(pointStyle.Render(string(c)))
			case '·':
				b.WriteString(lineStyle.Render(string(c)))
			default:
				b.WriteRune(c)
			}
		}
		b.WriteString("\n")
	}

	writeXAxis(&b, r, ax, positions, axisLen)
	writeLegend(&b, r, values, labels)
	return b.String()
}

// writeXAxis draws the axis line and the 1-based point numbers under it.
func writeXAxis(b *strings.Builder, r *lipgloss.Renderer, ax axis, positions []int, axisLen int) {
	axisStyle := r.NewStyle().Foreground(theme.Active.TextDim)
	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", ax.labelW, formatChartLabel(ax.lo))))
	b.WriteString(axisStyle.Render("└"))
	b.WriteString(axisStyle.Render(strings.Repeat("─", axisLen)))
	b.WriteString("\n")

	buf := []byte(strings.Repeat(" ", axisLen+4))
	lastEnd := -1
	for i, pos := range positions {
		num := strconv.Itoa(i + 1)
		if pos <= lastEnd {
			continue
		}
		copy(buf[pos:], num)
		lastEnd = pos + len(num)
	}
	b.WriteString(strings.Repeat(" ", ax.labelW+1))
	b.WriteString(axisStyle.Render(strings.TrimRight(string(buf), " ")))
	b.WriteString("\n")
}

// writeLegend lists each point number with its label and value.
func writeLegend(b *strings.Builder, r *lipgloss.Renderer, values []float64, labels []string) {
	if len(labels) != len(values) {
		return
	}
	t := theme.Active
	numStyle := r.NewStyle().Foreground(t.Accent)
	labelStyle := r.NewStyle().Foreground(t.TextMuted)
	valueStyle := r.NewStyle().Foreground(t.TextPrimary)

	labelW := 0
	for _, l := range labels {
		labelW = max(labelW, len(l))
	}
	numW := len(strconv.Itoa(len(labels)))

	b.WriteString("\n")
	for i, l := range labels {
		b.WriteString("  ")
		b.WriteString(numStyle.Render(fmt.Sprintf("%*d", numW, i+1)))
		b.WriteString("  ")
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", labelW, l)))
		b.WriteString("  ")
		b.WriteString(valueStyle.Render(strconv.FormatFloat(values[i], 'g', 6, 64)))
		b.WriteString("\n")
	}
}

func valueRange(values []float64) (lo, hi float64) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}
	return lo, hi
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(span float64) float64 {
	if span <= 0 {
		return 1
	}
	rough := span / 5
	exp := math.Floor(math.Log10(rough))
	base := math.Pow(10, exp)
	frac := rough / base

	switch {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func formatChartLabel(v float64) string {
	if v < 0 {
		return "-" + formatChartLabel(-v)
	}
	switch {
	case v >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case v >= 1e3:
		if v == math.Trunc(v/1e3)*1e3 {
			return fmt.Sprintf("%.0fk", v/1e3)
		}
		return fmt.Sprintf("%.1fk", v/1e3)
	case v >= 10 || v == 0:
		return fmt.Sprintf("%.0f", v)
	case v >= 1:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return strconv.FormatFloat(v, 'g', 2, 64)
	}
}

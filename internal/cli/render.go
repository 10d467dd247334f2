package cli

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/outfit/internal/model"
	"github.com/theirongolddev/outfit/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Styles are rebuilt from the active theme on each render so that
// theme.SetActive takes effect for CLI output too.
type styles struct {
	title  lipgloss.Style
	header lipgloss.Style
	value  lipgloss.Style
	muted  lipgloss.Style
	dim    lipgloss.Style
	border lipgloss.Color
}

func currentStyles() styles {
	t := theme.Active
	return styles{
		title:  lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary).Align(lipgloss.Center),
		header: lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		value:  lipgloss.NewStyle().Foreground(t.TextPrimary),
		muted:  lipgloss.NewStyle().Foreground(t.TextMuted),
		dim:    lipgloss.NewStyle().Foreground(t.TextDim),
		border: t.Border,
	}
}

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	st := currentStyles()
	width := 55
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(st.border).
		Width(width).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(st.title.Render(title))
}

// RenderTable renders a bordered table with headers and rows.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}
	st := currentStyles()

	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}

	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
	} else {
		for i, h := range t.Headers {
			widths[i] = max(widths[i], lipgloss.Width(h))
		}
		for _, row := range t.Rows {
			for i, cell := range row {
				if i < numCols {
					widths[i] = max(widths[i], lipgloss.Width(cell))
				}
			}
		}
	}

	var b strings.Builder
	writeRule := func(left, mid, right string) {
		b.WriteString(st.dim.Render(left))
		for i, w := range widths {
			b.WriteString(st.dim.Render(strings.Repeat("─", w+2)))
			if i < numCols-1 {
				b.WriteString(st.dim.Render(mid))
			}
		}
		b.WriteString(st.dim.Render(right))
		b.WriteString("\n")
	}

	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(st.header.Render(t.Title))
		b.WriteString("\n")
	}

	writeRule("╭", "┬", "╮")

	if len(t.Headers) > 0 {
		b.WriteString(st.dim.Render("│"))
		for i, h := range t.Headers {
			b.WriteString(st.header.Render(" " + pad(h, widths[i], false) + " "))
			if i < numCols-1 {
				b.WriteString(st.dim.Render("│"))
			}
		}
		b.WriteString(st.dim.Render("│"))
		b.WriteString("\n")
		writeRule("├", "┼", "┤")
	}

	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == "---" {
			writeRule("├", "┼", "┤")
			continue
		}

		b.WriteString(st.dim.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			// Right-align every column except the first.
			b.WriteString(st.value.Render(" " + pad(cell, widths[i], i > 0) + " "))
			if i < numCols-1 {
				b.WriteString(st.dim.Render("│"))
			}
		}
		b.WriteString(st.dim.Render("│"))
		b.WriteString("\n")
	}

	writeRule("╰", "┴", "╯")
	return b.String()
}

func pad(s string, w int, right bool) string {
	gap := w - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}

// RenderRecord renders one ranked experiment: a header box followed by a
// table per entity kind.
func RenderRecord(rank int, rec model.Record) string {
	st := currentStyles()
	var b strings.Builder

	header := fmt.Sprintf("#%d  %s", rank, rec.Experiment.Name)
	if rank <= 0 {
		header = rec.Experiment.Name
	}
	b.WriteString(RenderTitle(header))
	b.WriteString("\n")
	if rank > 0 {
		b.WriteString("  ")
		b.WriteString(st.muted.Render("ranked value " + FormatScore(rec.Value)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(RenderTable(Table{
		Title:   "Experiment",
		Headers: []string{"ID", "Name", "Comment", "Date"},
		Rows: [][]string{{
			fmt.Sprintf("%d", rec.Experiment.ID),
			rec.Experiment.Name,
			orDash(rec.Experiment.Comment),
			FormatDate(rec.Experiment.Date),
		}},
	}))

	if len(rec.Parameters) > 0 {
		rows := make([][]string, 0, len(rec.Parameters))
		for _, p := range rec.Parameters {
			rows = append(rows, []string{p.Name, p.Value})
		}
		b.WriteString("\n")
		b.WriteString(RenderTable(Table{Title: "Parameters", Headers: []string{"Name", "Value"}, Rows: rows}))
	}

	if len(rec.Outputs) > 0 {
		rows := make([][]string, 0, len(rec.Outputs))
		for _, o := range rec.Outputs {
			rows = append(rows, []string{o.Type, o.Path})
		}
		b.WriteString("\n")
		b.WriteString(RenderTable(Table{Title: "Outputs", Headers: []string{"Type", "Path"}, Rows: rows}))
	}

	if len(rec.Scores) > 0 {
		rows := make([][]string, 0, len(rec.Scores))
		for _, s := range rec.Scores {
			rows = append(rows, []string{s.Type, FormatScore(s.Value)})
		}
		b.WriteString("\n")
		b.WriteString(RenderTable(Table{Title: "Scores", Headers: []string{"Type", "Value"}, Rows: rows}))
	}

	return b.String()
}

// RenderExperiments renders a listing of experiments, one per row.
func RenderExperiments(exps []model.Experiment) string {
	rows := make([][]string, 0, len(exps))
	for _, e := range exps {
		rows = append(rows, []string{
			fmt.Sprintf("%d", e.ID),
			e.Name,
			FormatDate(e.Date),
			orDash(e.Comment),
		})
	}
	return RenderTable(Table{
		Title:   fmt.Sprintf("%d experiments", len(exps)),
		Headers: []string{"ID", "Name", "Date", "Comment"},
		Rows:    rows,
	})
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

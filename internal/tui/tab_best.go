package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/outfit/internal/cli"
	"github.com/theirongolddev/outfit/internal/model"
	"github.com/theirongolddev/outfit/internal/tracker"
	"github.com/theirongolddev/outfit/internal/tui/components"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// bestState holds the ranking tab state.
type bestState struct {
	scoreIdx int
	order    tracker.Order
	records  []model.Record
	err      error
	table    table.Model
}

func newBestState(order tracker.Order) bestState {
	return bestState{
		order: order,
		table: newTable([]table.Column{
			{Title: "#", Width: 4},
			{Title: "Name", Width: 24},
			{Title: "Score", Width: 12},
		}),
	}
}

func (b *bestState) clamp(n int) {
	if b.scoreIdx >= n {
		b.scoreIdx = 0
	}
}

func (b *bestState) setRecords(recs []model.Record, err error) {
	b.records = recs
	b.err = err
	rows := make([]table.Row, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", r.Rank),
			r.Experiment.Name,
			cli.FormatScore(r.Value),
		})
	}
	b.table.SetRows(rows)
	b.table.SetCursor(0)
}

func (b bestState) selected() (model.Record, bool) {
	i := b.table.Cursor()
	if i < 0 || i >= len(b.records) {
		return model.Record{}, false
	}
	return b.records[i], true
}

func (a App) updateBest(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Score):
		if len(a.scoreTypes) == 0 {
			return a, nil
		}
		a.best.scoreIdx = (a.best.scoreIdx + 1) % len(a.scoreTypes)
		a.best.setRecords(nil, nil)
		return a, a.rankCmd()
	case key.Matches(msg, a.keys.Mode):
		if a.best.order == tracker.Descending {
			a.best.order = tracker.Ascending
		} else {
			a.best.order = tracker.Descending
		}
		a.best.setRecords(nil, nil)
		return a, a.rankCmd()
	}

	var cmd tea.Cmd
	a.best.table, cmd = a.best.table.Update(msg)
	return a, cmd
}

func (a App) renderBestTab(cw int) string {
	score := a.currentScore(a.best.scoreIdx)
	if score == "" {
		return components.ContentCard("Best", mutedText("No scores recorded yet. Use `outfit record --score NAME=VALUE`."), cw)
	}

	var b strings.Builder

	metrics := []components.Metric{
		{Label: "Score", Value: score, Hint: "s to cycle"},
		{Label: "Ranking", Value: a.best.order.String(), Hint: "m to flip"},
		{Label: "Experiments", Value: cli.FormatNumber(int64(len(a.experiments)))},
	}
	if n := len(a.best.records); n > 0 {
		metrics = append(metrics, components.Metric{
			Label:     "Best",
			Value:     cli.FormatScore(a.best.records[0].Value),
			Hint:      a.best.records[0].Experiment.Name,
			Highlight: true,
		})
	}
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	if a.best.err != nil {
		b.WriteString(components.ContentCard("Error", a.best.err.Error(), cw))
		return b.String()
	}
	if len(a.best.records) == 0 {
		b.WriteString(components.ContentCard("Ranking", mutedText("No experiments have this score."), cw))
		return b.String()
	}

	leftW := min(46, cw/2)
	rightW := cw - leftW
	left := components.ContentCard("Ranking", a.best.table.View(), leftW)
	right := components.ContentCard("Detail", a.renderBestDetail(components.CardInnerWidth(rightW)), rightW)
	b.WriteString(components.CardRow([]string{left, right}))

	return b.String()
}

func (a App) renderBestDetail(w int) string {
	rec, ok := a.best.selected()
	if !ok {
		return ""
	}
	first := a.best.records[0].Value
	last := a.best.records[len(a.best.records)-1].Value

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("#%d %s", rec.Rank, rec.Experiment.Name)))
	b.WriteString("\n")
	b.WriteString(mutedText(fmt.Sprintf("id %d · %s", rec.Experiment.ID, cli.FormatDate(rec.Experiment.Date))))
	if rec.Experiment.Comment != "" {
		b.WriteString("\n")
		b.WriteString(mutedText(truncStr(rec.Experiment.Comment, w)))
	}
	b.WriteString("\n\n")

	barW := max(10, w-24)
	b.WriteString(components.ScoreBar(a.currentScore(a.best.scoreIdx), rec.Value, last, first, 10, barW))
	b.WriteString("\n\n")

	for _, p := range rec.Parameters {
		b.WriteString(mutedText(fmt.Sprintf("%-14s", truncStr(p.Name, 14))))
		b.WriteString(truncStr(p.Value, w-15))
		b.WriteString("\n")
	}
	if len(rec.Scores) > 0 {
		b.WriteString("\n")
		for _, s := range rec.Scores {
			b.WriteString(mutedText(fmt.Sprintf("%-14s", truncStr(s.Type, 14))))
			b.WriteString(cli.FormatScore(s.Value))
			b.WriteString("\n")
		}
	}
	for _, o := range rec.Outputs {
		b.WriteString(mutedText(fmt.Sprintf("%-14s", truncStr(o.Type, 14))))
		b.WriteString(truncStr(o.Path, w-15))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/outfit/internal/plot"
	"github.com/theirongolddev/outfit/internal/tracker"
	"github.com/theirongolddev/outfit/internal/tui/components"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// compareState holds the cohort tab state. One cohort is shown at a time.
type compareState struct {
	scoreIdx  int
	varyIdx   int
	kind      plot.Kind
	numeric   bool
	summaries []tracker.Summary
	err       error
	page      int
}

func (c *compareState) clamp(scores, params int) {
	if c.scoreIdx >= scores {
		c.scoreIdx = 0
	}
	if c.varyIdx >= params {
		c.varyIdx = 0
	}
}

func (c *compareState) setSummaries(s []tracker.Summary, err error) {
	c.summaries = s
	c.err = err
	c.page = 0
}

func (a App) updateCompare(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := &a.compare
	switch {
	case key.Matches(msg, a.keys.Score):
		if len(a.scoreTypes) == 0 {
			return a, nil
		}
		c.scoreIdx = (c.scoreIdx + 1) % len(a.scoreTypes)
	case key.Matches(msg, a.keys.Vary):
		if len(a.paramNames) == 0 {
			return a, nil
		}
		c.varyIdx = (c.varyIdx + 1) % len(a.paramNames)
	case key.Matches(msg, a.keys.Numeric):
		c.numeric = !c.numeric
	case key.Matches(msg, a.keys.Kind):
		if c.kind == plot.Bar {
			c.kind = plot.Line
		} else {
			c.kind = plot.Bar
		}
		return a, nil
	case key.Matches(msg, a.keys.Down):
		if c.page < len(c.summaries)-1 {
			c.page++
		}
		return a, nil
	case key.Matches(msg, a.keys.Up):
		if c.page > 0 {
			c.page--
		}
		return a, nil
	default:
		return a, nil
	}

	c.setSummaries(nil, nil)
	return a, a.cohortsCmd()
}

func (a App) renderCompareTab(cw, h int) string {
	score := a.currentScore(a.compare.scoreIdx)
	vary := a.currentParam(a.compare.varyIdx)
	if score == "" || vary == "" {
		return components.ContentCard("Compare", mutedText("Record experiments with parameters and scores to compare them."), cw)
	}

	var b strings.Builder
	sort := "text"
	if a.compare.numeric {
		sort = "numeric"
	}
	cohort := "-"
	if n := len(a.compare.summaries); n > 0 {
		cohort = fmt.Sprintf("%d / %d", a.compare.page+1, n)
	}
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Score", Value: score, Hint: "s to cycle"},
		{Label: "Varying", Value: vary, Hint: "v to cycle"},
		{Label: "Cohort", Value: cohort, Hint: "j/k to page"},
		{Label: "Chart", Value: string(a.compare.kind), Hint: sort + " order"},
	}, cw))
	b.WriteString("\n")

	switch {
	case a.compare.err != nil:
		b.WriteString(components.ContentCard("Error", a.compare.err.Error(), cw))
		return b.String()
	case len(a.compare.summaries) == 0:
		b.WriteString(components.ContentCard("Compare",
			mutedText(fmt.Sprintf("No cohort has two or more values of %q with a %q score.", vary, score)), cw))
		return b.String()
	}

	s := a.compare.summaries[a.compare.page]
	inner := components.CardInnerWidth(cw)
	// metric cards, card borders, title, axis caption, x axis, legend
	chartH := max(4, h-lipgloss.Height(b.String())-6-len(s.Series.Points)-strings.Count(s.Title, "\n"))

	p, err := plot.NewTerminal(plot.Options{
		Kind:     a.compare.kind,
		Mode:     plot.Show,
		Width:    inner,
		Height:   chartH,
		Renderer: lipgloss.DefaultRenderer(),
	})
	if err != nil {
		b.WriteString(components.ContentCard("Error", err.Error(), cw))
		return b.String()
	}
	b.WriteString(components.ContentCard("", p.Render(s.Series, s.Title), cw))
	return b.String()
}

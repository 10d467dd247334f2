package tui

import (
	"fmt"

	"github.com/theirongolddev/outfit/internal/cli"
	"github.com/theirongolddev/outfit/internal/model"
	"github.com/theirongolddev/outfit/internal/tui/components"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

// experimentsState holds the experiment list tab state.
type experimentsState struct {
	list      []model.Experiment
	table     table.Model
	detail    model.Record
	detailErr error
	hasDetail bool
}

func newExperimentsState() experimentsState {
	return experimentsState{
		table: newTable([]table.Column{
			{Title: "ID", Width: 6},
			{Title: "Name", Width: 24},
			{Title: "Date", Width: 10},
			{Title: "Comment", Width: 30},
		}),
	}
}

func (e *experimentsState) setExperiments(exps []model.Experiment) {
	e.list = exps
	rows := make([]table.Row, 0, len(exps))
	for _, x := range exps {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", x.ID),
			x.Name,
			cli.FormatDate(x.Date),
			x.Comment,
		})
	}
	e.table.SetRows(rows)
	if e.table.Cursor() >= len(rows) {
		e.table.SetCursor(0)
	}
	e.hasDetail = false
}

func (a App) updateExperiments(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, a.keys.Select) {
		i := a.exps.table.Cursor()
		if i < 0 || i >= len(a.exps.list) {
			return a, nil
		}
		return a, recordCmd(a.src, a.exps.list[i].ID)
	}

	var cmd tea.Cmd
	a.exps.table, cmd = a.exps.table.Update(msg)
	return a, cmd
}

func (a App) renderExperimentsTab(cw, h int) string {
	if len(a.exps.list) == 0 {
		return components.ContentCard("Experiments", mutedText("No experiments recorded yet."), cw)
	}

	title := fmt.Sprintf("Experiments (%s)", cli.FormatNumber(int64(len(a.exps.list))))
	if !a.exps.hasDetail && a.exps.detailErr == nil {
		return components.ContentCard(title, a.exps.table.View()+"\n\n"+mutedText("enter to open"), cw)
	}

	leftW := min(80, cw/2)
	rightW := cw - leftW
	left := components.ContentCard(title, a.exps.table.View(), leftW)

	var body string
	if a.exps.detailErr != nil {
		body = a.exps.detailErr.Error()
	} else {
		body = truncateHeight(cli.RenderRecord(0, a.exps.detail), max(1, h-2))
	}
	right := components.ContentCard("Record", body, rightW)
	return components.CardRow([]string{left, right})
}

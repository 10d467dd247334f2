// Package tui provides the interactive Bubble Tea dashboard for outfit.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/outfit/internal/cli"
	"github.com/theirongolddev/outfit/internal/config"
	"github.com/theirongolddev/outfit/internal/model"
	"github.com/theirongolddev/outfit/internal/plot"
	"github.com/theirongolddev/outfit/internal/tracker"
	"github.com/theirongolddev/outfit/internal/tui/components"
	"github.com/theirongolddev/outfit/internal/tui/theme"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Source is the read side of the store the dashboard needs.
type Source interface {
	tracker.RecordReader
	tracker.CohortReader
	Experiments(ctx context.Context) ([]model.Experiment, error)
	ScoreTypes(ctx context.Context) ([]string, error)
}

// Options configures the dashboard.
type Options struct {
	DBPath string
	Config config.Config
	// FirstRun shows the setup wizard before the dashboard.
	FirstRun bool
}

// DataLoadedMsg is sent when the experiment catalog has been read.
type DataLoadedMsg struct {
	Experiments []model.Experiment
	ScoreTypes  []string
	ParamNames  []string
	LoadTime    time.Duration
	Err         error
}

// RankingMsg carries the ranked records for one score and order.
type RankingMsg struct {
	Score   string
	Order   tracker.Order
	Records []model.Record
	Err     error
}

// CohortsMsg carries the summarized cohorts for one varying/score pair.
type CohortsMsg struct {
	Vary      string
	Score     string
	Numeric   bool
	Summaries []tracker.Summary
	Err       error
}

// RecordMsg carries one experiment opened from the experiments tab.
type RecordMsg struct {
	Record model.Record
	Err    error
}

// App is the root Bubble Tea model.
type App struct {
	src  Source
	opts Options

	// Catalog
	experiments []model.Experiment
	scoreTypes  []string
	paramNames  []string
	loaded      bool
	loadErr     error
	loadTime    time.Duration

	// Per-tab state
	best    bestState
	compare compareState
	exps    experimentsState

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	keys      keyMap
	help      help.Model
	spinner   spinner.Model

	// Setup wizard (huh form)
	setupForm *huh.Form
	setupVals SetupValues
	needSetup bool
	setupErr  error
}

const (
	minTerminalWidth = 60
	maxContentWidth  = 160
	minContentHeight = 5
)

// NewApp creates a new TUI app model reading from src.
func NewApp(src Source, opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	order, err := tracker.ParseOrder(opts.Config.Ranking.Mode)
	if err != nil {
		order = tracker.Descending
	}
	kind, err := plot.ParseKind(opts.Config.Compare.Chart)
	if err != nil {
		kind = plot.Bar
	}

	return App{
		src:       src,
		opts:      opts,
		keys:      defaultKeyMap(),
		help:      help.New(),
		spinner:   sp,
		needSetup: opts.FirstRun,
		setupVals: SetupValuesFrom(opts.Config),
		best:      newBestState(order),
		compare:   compareState{kind: kind, numeric: opts.Config.Compare.NumericSort},
		exps:      newExperimentsState(),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.src),
		a.spinner.Tick,
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.resizeTables()
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.setupForm != nil {
			return a, nil
		}
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if !a.loaded {
			return a, nil
		}
		if a.setupForm != nil {
			return a.updateSetupForm(msg)
		}
		return a.updateKeys(msg)

	case DataLoadedMsg:
		a.loaded = true
		a.loadErr = msg.Err
		a.loadTime = msg.LoadTime
		if msg.Err != nil {
			return a, nil
		}
		a.experiments = msg.Experiments
		a.scoreTypes = msg.ScoreTypes
		a.paramNames = msg.ParamNames
		a.exps.setExperiments(msg.Experiments)
		a.best.clamp(len(a.scoreTypes))
		a.compare.clamp(len(a.scoreTypes), len(a.paramNames))

		cmds := []tea.Cmd{a.rankCmd(), a.cohortsCmd()}
		if a.needSetup {
			a.needSetup = false
			a.setupForm = NewSetupForm(&a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			cmds = append(cmds, a.setupForm.Init())
		}
		return a, tea.Batch(cmds...)

	case RankingMsg:
		if msg.Score != a.currentScore(a.best.scoreIdx) || msg.Order != a.best.order {
			return a, nil // stale
		}
		a.best.setRecords(msg.Records, msg.Err)
		return a, nil

	case CohortsMsg:
		if msg.Score != a.currentScore(a.compare.scoreIdx) || msg.Vary != a.currentParam(a.compare.varyIdx) ||
			msg.Numeric != a.compare.numeric {
			return a, nil
		}
		a.compare.setSummaries(msg.Summaries, msg.Err)
		return a, nil

	case RecordMsg:
		a.exps.detail = msg.Record
		a.exps.detailErr = msg.Err
		a.exps.hasDetail = msg.Err == nil
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	return a, nil
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Help):
		a.showHelp = true
		return a, nil
	case key.Matches(msg, a.keys.Refresh):
		a.loaded = false
		return a, tea.Batch(loadDataCmd(a.src), a.spinner.Tick)
	case key.Matches(msg, a.keys.NextTab):
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	case key.Matches(msg, a.keys.PrevTab):
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	}

	if runes := msg.Runes; len(runes) == 1 {
		if idx := components.TabIdxByKey(runes[0]); idx >= 0 {
			a.activeTab = idx
			return a, nil
		}
	}

	switch a.activeTab {
	case tabBest:
		return a.updateBest(msg)
	case tabCompare:
		return a.updateCompare(msg)
	default:
		return a.updateExperiments(msg)
	}
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		cfg := a.opts.Config
		a.setupVals.Apply(&cfg)
		a.setupErr = config.Save(cfg)
		a.opts.Config = cfg
		theme.SetActive(cfg.Appearance.Theme)
		a.setupForm = nil
		return a, nil
	case huh.StateAborted:
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

const (
	tabBest = iota
	tabCompare
	tabExperiments
)

func (a App) currentScore(idx int) string {
	if idx < 0 || idx >= len(a.scoreTypes) {
		return ""
	}
	return a.scoreTypes[idx]
}

func (a App) currentParam(idx int) string {
	if idx < 0 || idx >= len(a.paramNames) {
		return ""
	}
	return a.paramNames[idx]
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) contentHeight() int {
	// tab bar, blank line, status bar
	return max(minContentHeight, a.height-3)
}

func (a *App) resizeTables() {
	h := max(minContentHeight, a.contentHeight()-6)
	a.best.table.SetHeight(h)
	a.exps.table.SetHeight(h)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  outfit needs at least %d columns.\n",
			a.width, minTerminalWidth)
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewLoading() string {
	t := theme.Active
	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Accent).
		Padding(1, 3)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	body := logoStyle.Render("◈ outfit") + subtitleStyle.Render(" · experiment tracker") + "\n\n" +
		a.spinner.View() + subtitleStyle.Render(" Reading experiments...")

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(body))
}

func (a App) viewHelp() string {
	t := theme.Active
	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Accent).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	h := a.help
	h.ShowAll = true
	body := titleStyle.Render("◈ Keyboard Shortcuts") + "\n\n" +
		h.View(a.keys) + "\n\n" +
		dimStyle.Render("b c e jump to tab · press any key to close")

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(body))
}

func (a App) viewMain() string {
	cw := a.contentWidth()
	contentH := a.contentHeight()

	header := components.RenderTabBar(a.activeTab)

	helpLine := a.help.View(a.keys)
	if a.setupErr != nil {
		helpLine = "config not saved: " + a.setupErr.Error()
	}
	count := ""
	if a.loaded {
		count = cli.FormatNumber(int64(len(a.experiments))) + " experiments"
	}
	statusBar := components.RenderStatusBar(a.width, helpLine, count, a.opts.DBPath)

	var content string
	switch {
	case a.loadErr != nil:
		content = components.ContentCard("Error", a.loadErr.Error(), cw)
	case a.activeTab == tabBest:
		content = a.renderBestTab(cw)
	case a.activeTab == tabCompare:
		content = a.renderCompareTab(cw, contentH)
	default:
		content = a.renderExperimentsTab(cw, contentH)
	}
	content = padHeight(truncateHeight(content, contentH), contentH)

	return lipgloss.JoinVertical(lipgloss.Left, header, "", content, statusBar)
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow the same widths RenderTabBar uses.
func (a App) tabAtX(x int) int {
	pos := components.TabLeadingWidth
	for i, tab := range components.Tabs {
		w := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + components.TabSeparatorWidth
	}
	return -1
}

// ─── Commands ───────────────────────────────────────────────────

// loadDataCmd reads the experiment catalog.
func loadDataCmd(src Source) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		start := time.Now()

		exps, err := src.Experiments(ctx)
		if err != nil {
			return DataLoadedMsg{Err: err, LoadTime: time.Since(start)}
		}
		scores, err := src.ScoreTypes(ctx)
		if err != nil {
			return DataLoadedMsg{Err: err, LoadTime: time.Since(start)}
		}
		names, err := src.ParameterNames(ctx)
		if err != nil {
			return DataLoadedMsg{Err: err, LoadTime: time.Since(start)}
		}
		params := make([]string, 0, len(names))
		for _, n := range names {
			if n != model.ReservedParameter {
				params = append(params, n)
			}
		}
		return DataLoadedMsg{
			Experiments: exps,
			ScoreTypes:  scores,
			ParamNames:  params,
			LoadTime:    time.Since(start),
		}
	}
}

func (a App) rankCmd() tea.Cmd {
	score := a.currentScore(a.best.scoreIdx)
	if score == "" {
		return nil
	}
	return rankCmd(a.src, score, a.best.order, a.opts.Config.Ranking.Limit)
}

// rankCmd ranks experiments by score and collects their records.
func rankCmd(src Source, score string, order tracker.Order, limit int) tea.Cmd {
	return func() tea.Msg {
		msg := RankingMsg{Score: score, Order: order}
		seq, err := tracker.NewRanker(src).BestScores(context.Background(), order, score, limit, nil)
		if err != nil {
			msg.Err = err
			return msg
		}
		for rec, err := range seq {
			if err != nil {
				msg.Err = err
				return msg
			}
			msg.Records = append(msg.Records, rec)
		}
		return msg
	}
}

func (a App) cohortsCmd() tea.Cmd {
	score := a.currentScore(a.compare.scoreIdx)
	vary := a.currentParam(a.compare.varyIdx)
	if score == "" || vary == "" {
		return nil
	}
	return cohortsCmd(a.src, vary, score, tracker.SummaryOptions{NumericSort: a.compare.numeric})
}

// collector is a plotter that keeps every summary instead of drawing it.
type collector []tracker.Summary

func (c *collector) Plot(s model.Series, title string) error {
	*c = append(*c, tracker.Summary{Title: title, Series: s})
	return nil
}

// cohortsCmd builds and summarizes every cohort of vary/score.
func cohortsCmd(src Source, vary, score string, opts tracker.SummaryOptions) tea.Cmd {
	return func() tea.Msg {
		var c collector
		_, err := tracker.Compare(context.Background(), tracker.NewCohortBuilder(src), vary, score, opts, &c)
		return CohortsMsg{Vary: vary, Score: score, Numeric: opts.NumericSort, Summaries: c, Err: err}
	}
}

// recordCmd loads one experiment with its children.
func recordCmd(src Source, id int64) tea.Cmd {
	return func() tea.Msg {
		rec, err := tracker.NewRanker(src).Record(context.Background(), id)
		return RecordMsg{Record: rec, Err: err}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

func newTable(cols []table.Column) table.Model {
	t := theme.Active
	tbl := table.New(table.WithColumns(cols), table.WithFocused(true), table.WithHeight(10))

	st := table.DefaultStyles()
	st.Header = st.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		BorderBottom(true).
		Foreground(t.Accent).
		Bold(true)
	st.Selected = st.Selected.
		Foreground(t.TextPrimary).
		Background(t.Surface).
		Bold(true)
	tbl.SetStyles(st)
	return tbl
}

func mutedText(s string) string {
	return lipgloss.NewStyle().Foreground(theme.Active.TextMuted).Render(s)
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

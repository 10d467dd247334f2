package tracker

import (
	"context"
	"math"
	"testing"

	"github.com/theirongolddev/outfit/internal/model"
)

func cohortOf(varying string, fixed []model.Attr, rows ...model.CohortRow) model.Cohort {
	return model.Cohort{Varying: varying, Score: "acc", Fixed: fixed, Rows: rows}
}

func row(v string, s float64) model.CohortRow {
	return model.CohortRow{VaryingValue: v, Score: s}
}

func TestSummarizeAveragesRepeatedRuns(t *testing.T) {
	c := cohortOf("lr", []model.Attr{{Name: "depth", Value: "3"}},
		row("0.1", 0.80), row("0.1", 0.90), row("0.2", 0.70))

	sum, ok := Summarize(c, SummaryOptions{})
	if !ok {
		t.Fatal("Summarize returned false")
	}
	pts := sum.Series.Points
	if len(pts) != 2 {
		t.Fatalf("points = %+v, want 2", pts)
	}
	if pts[0].Label != "lr_0.1" || math.Abs(pts[0].Value-0.85) > 1e-9 {
		t.Fatalf("first point = %+v, want lr_0.1 at 0.85", pts[0])
	}
	if pts[1].Label != "lr_0.2" || pts[1].Value != 0.70 {
		t.Fatalf("second point = %+v, want lr_0.2 at 0.70", pts[1])
	}
	if sum.Title != "depth=3" {
		t.Fatalf("title = %q, want depth=3", sum.Title)
	}
	if sum.Series.XLabel != "lr" || sum.Series.YLabel != "acc" {
		t.Fatalf("axes = %q/%q, want lr/acc", sum.Series.XLabel, sum.Series.YLabel)
	}
}

func TestSummarizeNeedsTwoRows(t *testing.T) {
	if _, ok := Summarize(cohortOf("lr", nil), SummaryOptions{}); ok {
		t.Fatal("empty cohort summarized")
	}
	if _, ok := Summarize(cohortOf("lr", nil, row("0.1", 1)), SummaryOptions{}); ok {
		t.Fatal("single-row cohort summarized")
	}
	// Two runs of the same value still form a (single point) series.
	if _, ok := Summarize(cohortOf("lr", nil, row("0.1", 1), row("0.1", 0)), SummaryOptions{}); !ok {
		t.Fatal("two-row cohort not summarized")
	}
}

func TestSummarizeSortOrder(t *testing.T) {
	c := cohortOf("epochs", nil, row("2", 0.5), row("10", 0.9), row("1", 0.1))

	lex, _ := Summarize(c, SummaryOptions{})
	want := []string{"epochs_1", "epochs_10", "epochs_2"}
	for i, l := range lex.Series.Labels() {
		if l != want[i] {
			t.Fatalf("lexical labels = %v, want %v", lex.Series.Labels(), want)
		}
	}

	num, _ := Summarize(c, SummaryOptions{NumericSort: true})
	want = []string{"epochs_1", "epochs_2", "epochs_10"}
	for i, l := range num.Series.Labels() {
		if l != want[i] {
			t.Fatalf("numeric labels = %v, want %v", num.Series.Labels(), want)
		}
	}

	mixed := cohortOf("opt", nil, row("sgd", 0.5), row("10", 0.9), row("adam", 0.1))
	m, _ := Summarize(mixed, SummaryOptions{NumericSort: true})
	want = []string{"opt_10", "opt_adam", "opt_sgd"}
	for i, l := range m.Series.Labels() {
		if l != want[i] {
			t.Fatalf("mixed labels = %v, want lexical %v", m.Series.Labels(), want)
		}
	}
}

func TestTitleWrapsEveryThreeAttributes(t *testing.T) {
	fixed := []model.Attr{
		{Name: "a", Value: "1"}, {Name: "b", Value: "2"}, {Name: "c", Value: "3"},
		{Name: "d", Value: "4"}, {Name: "e", Value: "5"}, {Name: "f", Value: "6"},
		{Name: "g", Value: "7"},
	}
	want := "a=1, b=2, c=3\nd=4, e=5, f=6\ng=7"
	if got := Title(fixed); got != want {
		t.Fatalf("Title = %q, want %q", got, want)
	}
	if got := Title(nil); got != "" {
		t.Fatalf("Title(nil) = %q, want empty", got)
	}
}

type recordingPlotter struct {
	titles []string
	series []model.Series
}

func (p *recordingPlotter) Plot(s model.Series, title string) error {
	p.series = append(p.series, s)
	p.titles = append(p.titles, title)
	return nil
}

func TestCompareDropsSingletonCohorts(t *testing.T) {
	s := openTestStore(t)
	record(t, s, "a", map[string]any{"lr": 0.1, "depth": 3}, score("acc", 0.80))
	record(t, s, "a2", map[string]any{"lr": 0.1, "depth": 3}, score("acc", 0.90))
	record(t, s, "b", map[string]any{"lr": 0.2, "depth": 3}, score("acc", 0.70))
	record(t, s, "c", map[string]any{"lr": 0.1, "depth": 4}, score("acc", 0.60))

	p := &recordingPlotter{}
	n, err := Compare(context.Background(), NewCohortBuilder(s), "lr", "acc", SummaryOptions{}, p)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if n != 1 || len(p.titles) != 1 {
		t.Fatalf("plotted %d (%v), want 1", n, p.titles)
	}
	if p.titles[0] != "depth=3" {
		t.Fatalf("title = %q, want depth=3", p.titles[0])
	}
	pts := p.series[0].Points
	if len(pts) != 2 || pts[0].Label != "lr_0.1" || math.Abs(pts[0].Value-0.85) > 1e-9 {
		t.Fatalf("points = %+v, want lr_0.1 at 0.85 first", pts)
	}
}

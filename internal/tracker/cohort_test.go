package tracker

import (
	"context"
	"errors"
	"testing"

	"github.com/theirongolddev/outfit/internal/model"
)

func collectCohorts(t *testing.T, b *CohortBuilder, varying, scoreName string) []model.Cohort {
	t.Helper()
	seq, err := b.Cohorts(context.Background(), varying, scoreName)
	if err != nil {
		t.Fatalf("Cohorts: %v", err)
	}
	var out []model.Cohort
	for c, err := range seq {
		if err != nil {
			t.Fatalf("iteration: %v", err)
		}
		out = append(out, c)
	}
	return out
}

func TestCohortsPartition(t *testing.T) {
	s := openTestStore(t)
	a := record(t, s, "a", map[string]any{"lr": 0.1, "depth": 3}, score("acc", 0.8))
	b := record(t, s, "b", map[string]any{"lr": 0.2, "depth": 3}, score("acc", 0.7))
	c := record(t, s, "c", map[string]any{"lr": 0.1, "depth": 4}, score("acc", 0.6))

	cohorts := collectCohorts(t, NewCohortBuilder(s), "lr", "acc")
	if len(cohorts) != 2 {
		t.Fatalf("cohorts = %d, want 2", len(cohorts))
	}

	first := cohorts[0]
	if len(first.Fixed) != 1 || first.Fixed[0] != (model.Attr{Name: "depth", Value: "3"}) {
		t.Fatalf("first fixed = %+v, want depth=3", first.Fixed)
	}
	if len(first.Rows) != 2 {
		t.Fatalf("first rows = %d, want 2", len(first.Rows))
	}
	if first.Rows[0].ExperimentID != a || first.Rows[0].VaryingValue != "0.1" || first.Rows[0].Score != 0.8 {
		t.Fatalf("first row = %+v", first.Rows[0])
	}
	if first.Rows[1].ExperimentID != b || first.Rows[1].VaryingValue != "0.2" || first.Rows[1].ExperimentName != "b" {
		t.Fatalf("second row = %+v", first.Rows[1])
	}

	second := cohorts[1]
	if second.Fixed[0].Value != "4" || len(second.Rows) != 1 || second.Rows[0].ExperimentID != c {
		t.Fatalf("second cohort = %+v, want depth=4 with experiment %d", second, c)
	}
	if _, ok := Summarize(second, SummaryOptions{}); ok {
		t.Fatal("single-row cohort was summarized")
	}
}

func TestCohortsSkipEmptyCombinations(t *testing.T) {
	s := openTestStore(t)
	record(t, s, "a", map[string]any{"lr": 0.1, "depth": 3, "opt": "sgd"}, score("acc", 0.8))
	record(t, s, "b", map[string]any{"lr": 0.2, "depth": 4, "opt": "adam"}, score("acc", 0.7))

	// depth x opt has four combinations, only two are populated.
	cohorts := collectCohorts(t, NewCohortBuilder(s), "lr", "acc")
	if len(cohorts) != 2 {
		t.Fatalf("cohorts = %d, want 2", len(cohorts))
	}
	for _, c := range cohorts {
		if len(c.Fixed) != 2 || c.Fixed[0].Name != "depth" || c.Fixed[1].Name != "opt" {
			t.Fatalf("fixed = %+v, want [depth opt]", c.Fixed)
		}
	}
}

func TestCohortsIgnoreOtherScoresAndReservedName(t *testing.T) {
	s := openTestStore(t)
	record(t, s, "a", map[string]any{"lr": 0.1, "exp_name": "a"}, score("acc", 0.8), score("loss", 0.3))
	record(t, s, "b", map[string]any{"lr": 0.2, "exp_name": "b"}, score("acc", 0.9))
	record(t, s, "c", map[string]any{"lr": 0.3, "exp_name": "c"}, score("loss", 0.1))

	cohorts := collectCohorts(t, NewCohortBuilder(s), "lr", "acc")
	if len(cohorts) != 1 {
		t.Fatalf("cohorts = %d, want 1", len(cohorts))
	}
	if len(cohorts[0].Fixed) != 0 {
		t.Fatalf("fixed = %+v, want none", cohorts[0].Fixed)
	}
	if len(cohorts[0].Rows) != 2 {
		t.Fatalf("rows = %d, want 2 (acc only)", len(cohorts[0].Rows))
	}
}

func TestCohortsRepeatedScoresBecomeRows(t *testing.T) {
	s := openTestStore(t)
	record(t, s, "a", map[string]any{"lr": 0.1}, score("acc", 0.8), score("acc", 0.6))
	record(t, s, "b", map[string]any{"lr": 0.2}, score("acc", 0.9))

	cohorts := collectCohorts(t, NewCohortBuilder(s), "lr", "acc")
	if len(cohorts) != 1 || len(cohorts[0].Rows) != 3 {
		t.Fatalf("cohorts = %+v, want one cohort of 3 rows", cohorts)
	}
	sum, ok := Summarize(cohorts[0], SummaryOptions{})
	if !ok {
		t.Fatal("Summarize returned false")
	}
	if got := sum.Series.Points[0].Value; got < 0.6999999 || got > 0.7000001 {
		t.Fatalf("lr_0.1 mean = %v, want 0.7", got)
	}
}

func TestCohortsUnknownVaryingParameter(t *testing.T) {
	s := openTestStore(t)
	record(t, s, "a", map[string]any{"lr": 0.1}, score("acc", 0.8))

	_, err := NewCohortBuilder(s).Cohorts(context.Background(), "momentum", "acc")
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("Cohorts err = %v, want ErrInvalidArgument", err)
	}
}

func TestCohortsMissingVaryingValueIsNotFound(t *testing.T) {
	s := openTestStore(t)
	record(t, s, "a", map[string]any{"lr": 0.1, "depth": 3}, score("acc", 0.8))
	record(t, s, "b", map[string]any{"depth": 3}, score("acc", 0.7))

	seq, err := NewCohortBuilder(s).Cohorts(context.Background(), "lr", "acc")
	if err != nil {
		t.Fatalf("Cohorts: %v", err)
	}
	var iterErr error
	for _, err := range seq {
		if err != nil {
			iterErr = err
			break
		}
	}
	if !errors.Is(iterErr, ErrNotFound) {
		t.Fatalf("iteration err = %v, want ErrNotFound", iterErr)
	}
}

func TestCombinationsCrossProduct(t *testing.T) {
	s := openTestStore(t)
	record(t, s, "a", map[string]any{"x": 1, "y": "a", "z": true})
	record(t, s, "b", map[string]any{"x": 2, "y": "b", "z": true})
	record(t, s, "c", map[string]any{"x": 3, "y": "b", "z": false})

	b := NewCohortBuilder(s)
	ctx := context.Background()
	fixed, err := b.Plan(ctx, "z")
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(fixed) != 2 || fixed[0] != "x" || fixed[1] != "y" {
		t.Fatalf("fixed = %v, want [x y]", fixed)
	}

	combos, err := b.Combinations(ctx, fixed)
	if err != nil {
		t.Fatalf("Combinations: %v", err)
	}
	var got []string
	for c := range combos {
		got = append(got, Title(c))
	}
	want := []string{
		"x=1, y=a", "x=1, y=b",
		"x=2, y=a", "x=2, y=b",
		"x=3, y=a", "x=3, y=b",
	}
	if len(got) != len(want) {
		t.Fatalf("combinations = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("combinations = %v, want %v", got, want)
		}
	}

	none, err := b.Combinations(ctx, nil)
	if err != nil {
		t.Fatalf("Combinations(nil): %v", err)
	}
	n := 0
	for c := range none {
		if len(c) != 0 {
			t.Fatalf("combination = %v, want empty", c)
		}
		n++
	}
	if n != 1 {
		t.Fatalf("empty fixed set yielded %d combinations, want 1", n)
	}
}

package tracker

import (
	"context"
	"log/slog"

	"github.com/theirongolddev/outfit/internal/model"
)

// Plotter renders a series under a title.
type Plotter interface {
	Plot(series model.Series, title string) error
}

// Compare builds every cohort for varying/score, summarizes it and hands the
// result to p. It returns how many cohorts were plotted.
func Compare(ctx context.Context, b *CohortBuilder, varying, score string, opts SummaryOptions, p Plotter) (int, error) {
	cohorts, err := b.Cohorts(ctx, varying, score)
	if err != nil {
		return 0, err
	}

	plotted := 0
	for c, err := range cohorts {
		if err != nil {
			return plotted, err
		}
		s, ok := Summarize(c, opts)
		if !ok {
			slog.Debug("cohort skipped", "fixed", Title(c.Fixed), "rows", len(c.Rows))
			continue
		}
		if err := p.Plot(s.Series, s.Title); err != nil {
			return plotted, err
		}
		plotted++
	}
	return plotted, nil
}

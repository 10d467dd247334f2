package tracker

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"strings"

	"github.com/theirongolddev/outfit/internal/model"
	"github.com/theirongolddev/outfit/internal/store"
)

// Order selects which end of a score is best.
type Order int

const (
	// Ascending ranks the smallest value first (losses, errors).
	Ascending Order = iota + 1
	// Descending ranks the largest value first (accuracy, F1).
	Descending
)

func (o Order) String() string {
	switch o {
	case Ascending:
		return "min"
	case Descending:
		return "max"
	default:
		return fmt.Sprintf("Order(%d)", int(o))
	}
}

// ParseOrder accepts min/asc/ascending and max/desc/descending.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "min", "asc", "ascending":
		return Ascending, nil
	case "max", "desc", "descending":
		return Descending, nil
	}
	return 0, fmt.Errorf("%w: order %q must be min or max", ErrInvalidArgument, s)
}

// RecordReader is the part of the store the Ranker reads.
type RecordReader interface {
	RankScores(ctx context.Context, scoreType string, descending bool, limit int) ([]store.RankedScore, error)
	Experiment(ctx context.Context, id int64) (model.Experiment, error)
	Parameters(ctx context.Context, expID int64) ([]model.Parameter, error)
	Outputs(ctx context.Context, expID int64) ([]model.Output, error)
	Scores(ctx context.Context, expID int64) ([]model.Score, error)
}

// Reporter receives each ranked record before it is yielded. A failing
// reporter is logged and does not stop the ranking.
type Reporter func(rec model.Record) error

// Ranker answers "which experiments are best by a score".
type Ranker struct {
	store RecordReader
}

// NewRanker returns a Ranker reading from the given store.
func NewRanker(r RecordReader) *Ranker {
	return &Ranker{store: r}
}

// BestScores ranks experiments by scoreName and yields their full records,
// best first. Nothing is queried until the sequence is pulled, and each
// record is assembled only when the consumer asks for it. A limit <= 0
// ranks every experiment having the score. report may be nil.
func (r *Ranker) BestScores(ctx context.Context, order Order, scoreName string, limit int, report Reporter) (iter.Seq2[model.Record, error], error) {
	if order != Ascending && order != Descending {
		return nil, fmt.Errorf("%w: unknown order %v", ErrInvalidArgument, order)
	}

	return func(yield func(model.Record, error) bool) {
		ranked, err := r.store.RankScores(ctx, scoreName, order == Descending, limit)
		if err != nil {
			yield(model.Record{}, fmt.Errorf("ranking by %q: %w", scoreName, err))
			return
		}

		for i, rs := range ranked {
			rec, err := r.Record(ctx, rs.ExperimentID)
			if err != nil {
				yield(model.Record{}, err)
				return
			}
			rec.Rank = i + 1
			rec.Value = rs.Value

			if report != nil {
				if err := report(rec); err != nil {
					slog.Warn("verbose report failed", "rank", rec.Rank, "experiment", rec.Experiment.ID, "err", err)
				}
			}
			if !yield(rec, nil) {
				return
			}
		}
	}, nil
}

// Record assembles one experiment with all of its child rows.
func (r *Ranker) Record(ctx context.Context, id int64) (model.Record, error) {
	var rec model.Record
	var err error

	if rec.Experiment, err = r.store.Experiment(ctx, id); err != nil {
		return rec, err
	}
	if rec.Parameters, err = r.store.Parameters(ctx, id); err != nil {
		return rec, fmt.Errorf("loading parameters of %d: %w", id, err)
	}
	if rec.Outputs, err = r.store.Outputs(ctx, id); err != nil {
		return rec, fmt.Errorf("loading outputs of %d: %w", id, err)
	}
	if rec.Scores, err = r.store.Scores(ctx, id); err != nil {
		return rec, fmt.Errorf("loading scores of %d: %w", id, err)
	}
	return rec, nil
}

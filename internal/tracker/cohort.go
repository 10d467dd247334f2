package tracker

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"slices"

	"github.com/theirongolddev/outfit/internal/model"
	"github.com/theirongolddev/outfit/internal/store"
)

// CohortReader is the part of the store the CohortBuilder reads.
type CohortReader interface {
	ParameterNames(ctx context.Context) ([]string, error)
	ParameterValues(ctx context.Context, name string) ([]string, error)
	ScoredParameters(ctx context.Context, scoreType string) ([]store.ScoredParameter, error)
	ParameterValue(ctx context.Context, expID int64, name string) (string, error)
}

// CohortBuilder groups experiments that differ only by one parameter.
type CohortBuilder struct {
	store CohortReader
}

// NewCohortBuilder returns a CohortBuilder reading from the given store.
func NewCohortBuilder(r CohortReader) *CohortBuilder {
	return &CohortBuilder{store: r}
}

// Plan returns the sorted names of the parameters held fixed when varying
// is the studied one. varying must have been recorded at least once.
func (b *CohortBuilder) Plan(ctx context.Context, varying string) ([]string, error) {
	names, err := b.store.ParameterNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing parameter names: %w", err)
	}
	if !slices.Contains(names, varying) {
		return nil, fmt.Errorf("%w: parameter %q was never recorded", ErrInvalidArgument, varying)
	}

	fixed := make([]string, 0, len(names))
	for _, n := range names {
		if n == varying || n == model.ReservedParameter {
			continue
		}
		fixed = append(fixed, n)
	}
	slices.Sort(fixed)
	return fixed, nil
}

// Combinations returns the cross product of the distinct values of every
// fixed parameter. The distinct values are read eagerly, the product is
// enumerated lazily. With no fixed parameter it yields one empty combination.
func (b *CohortBuilder) Combinations(ctx context.Context, fixed []string) (iter.Seq[[]model.Attr], error) {
	values := make([][]string, len(fixed))
	for i, name := range fixed {
		vs, err := b.store.ParameterValues(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("listing values of %q: %w", name, err)
		}
		values[i] = vs
	}

	return func(yield func([]model.Attr) bool) {
		for _, vs := range values {
			if len(vs) == 0 {
				return
			}
		}
		idx := make([]int, len(values))
		for {
			combo := make([]model.Attr, len(fixed))
			for i, name := range fixed {
				combo[i] = model.Attr{Name: name, Value: values[i][idx[i]]}
			}
			if !yield(combo) {
				return
			}

			// Advance the odometer, rightmost digit first.
			i := len(idx) - 1
			for ; i >= 0; i-- {
				idx[i]++
				if idx[i] < len(values[i]) {
					break
				}
				idx[i] = 0
			}
			if i < 0 {
				return
			}
		}
	}, nil
}

// Cohorts yields one cohort per fixed-value combination that matches at
// least one experiment scored with score. Empty combinations are skipped.
func (b *CohortBuilder) Cohorts(ctx context.Context, varying, score string) (iter.Seq2[model.Cohort, error], error) {
	fixed, err := b.Plan(ctx, varying)
	if err != nil {
		return nil, err
	}
	combos, err := b.Combinations(ctx, fixed)
	if err != nil {
		return nil, err
	}
	slog.Debug("cohort plan", "varying", varying, "score", score, "fixed", fixed)

	return func(yield func(model.Cohort, error) bool) {
		joined, err := b.store.ScoredParameters(ctx, score)
		if err != nil {
			yield(model.Cohort{}, fmt.Errorf("joining scores %q: %w", score, err))
			return
		}
		idx := indexScored(joined)

		for combo := range combos {
			ids := idx.match(combo)
			if len(ids) == 0 {
				continue
			}

			c := model.Cohort{Varying: varying, Score: score, Fixed: combo}
			for _, id := range ids {
				v, err := b.store.ParameterValue(ctx, id, varying)
				if err != nil {
					yield(model.Cohort{}, err)
					return
				}
				for _, sc := range idx.scores[id] {
					c.Rows = append(c.Rows, model.CohortRow{
						ExperimentID:   id,
						ExperimentName: idx.names[id],
						VaryingValue:   v,
						ScoreID:        sc.id,
						Score:          sc.value,
					})
				}
			}
			if !yield(c, nil) {
				return
			}
		}
	}, nil
}

type attrKey struct {
	name, value string
}

type scoreRow struct {
	id    int64
	value float64
}

// scoredIndex is the joined experiment/parameter/score table keyed for
// per-combination filtering.
type scoredIndex struct {
	ids     []int64 // every experiment with the score, ascending
	names   map[int64]string
	scores  map[int64][]scoreRow
	matches map[attrKey]map[int64]struct{}
}

func indexScored(rows []store.ScoredParameter) scoredIndex {
	idx := scoredIndex{
		names:   make(map[int64]string),
		scores:  make(map[int64][]scoreRow),
		matches: make(map[attrKey]map[int64]struct{}),
	}
	seenScore := make(map[int64]struct{})

	for _, r := range rows {
		if _, ok := idx.names[r.ExperimentID]; !ok {
			idx.names[r.ExperimentID] = r.ExperimentName
			idx.ids = append(idx.ids, r.ExperimentID)
		}
		if _, ok := seenScore[r.ScoreID]; !ok {
			seenScore[r.ScoreID] = struct{}{}
			idx.scores[r.ExperimentID] = append(idx.scores[r.ExperimentID], scoreRow{id: r.ScoreID, value: r.ScoreValue})
		}
		k := attrKey{r.ParamName, r.ParamValue}
		set, ok := idx.matches[k]
		if !ok {
			set = make(map[int64]struct{})
			idx.matches[k] = set
		}
		set[r.ExperimentID] = struct{}{}
	}
	slices.Sort(idx.ids)
	return idx
}

// match returns the ids of experiments having every attribute of combo,
// ascending. An empty combo matches every experiment.
func (idx scoredIndex) match(combo []model.Attr) []int64 {
	var out []int64
	for _, id := range idx.ids {
		ok := true
		for _, a := range combo {
			if _, hit := idx.matches[attrKey{a.Name, a.Value}][id]; !hit {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, id)
		}
	}
	return out
}

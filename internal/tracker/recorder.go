package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/outfit/internal/model"
)

// Committer persists a complete experiment in one step.
type Committer interface {
	CommitExperiment(ctx context.Context, d model.Draft) (int64, error)
}

// Recorder buffers one experiment in memory until Commit.
type Recorder struct {
	store Committer
	draft *model.Draft
}

// NewRecorder returns a Recorder writing to the given store.
func NewRecorder(c Committer) *Recorder {
	return &Recorder{store: c}
}

// Begin starts a new experiment. It fails if another one is still pending;
// call Discard first to drop it.
func (r *Recorder) Begin(name, comment string, date time.Time) error {
	if r.draft != nil {
		return fmt.Errorf("%w: %q", ErrExperimentInProgress, r.draft.Experiment.Name)
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: experiment name is required", ErrInvalidArgument)
	}
	r.draft = &model.Draft{Experiment: model.Experiment{Name: name, Comment: comment, Date: date}}
	return nil
}

// Active reports whether an experiment is in progress.
func (r *Recorder) Active() bool {
	return r.draft != nil
}

// Discard drops the in-progress experiment, if any.
func (r *Recorder) Discard() {
	if r.draft != nil {
		slog.Warn("discarding uncommitted experiment", "name", r.draft.Experiment.Name)
	}
	r.draft = nil
}

// AddParameter appends a parameter. The value is stored as text.
func (r *Recorder) AddParameter(name string, value any) error {
	if r.draft == nil {
		return ErrNoActiveExperiment
	}
	if name == "" {
		return fmt.Errorf("%w: parameter name is required", ErrInvalidArgument)
	}
	r.draft.Parameters = append(r.draft.Parameters, model.Parameter{Name: name, Value: FormatValue(value)})
	return nil
}

// AddOutput appends an output reference.
func (r *Recorder) AddOutput(typ, path string) error {
	if r.draft == nil {
		return ErrNoActiveExperiment
	}
	r.draft.Outputs = append(r.draft.Outputs, model.Output{Type: typ, Path: path})
	return nil
}

// AddScore appends a score.
func (r *Recorder) AddScore(typ string, value float64) error {
	if r.draft == nil {
		return ErrNoActiveExperiment
	}
	r.draft.Scores = append(r.draft.Scores, model.Score{Type: typ, Value: value})
	return nil
}

// AddParameters calls AddParameter for each entry, in order.
func (r *Recorder) AddParameters(kvs []model.KV[any]) error {
	for _, kv := range kvs {
		if err := r.AddParameter(kv.Key, kv.Value); err != nil {
			return err
		}
	}
	return nil
}

// AddOutputs calls AddOutput for each type/path entry, in order.
func (r *Recorder) AddOutputs(kvs []model.KV[string]) error {
	for _, kv := range kvs {
		if err := r.AddOutput(kv.Key, kv.Value); err != nil {
			return err
		}
	}
	return nil
}

// AddScores calls AddScore for each entry, in order.
func (r *Recorder) AddScores(kvs []model.KV[float64]) error {
	for _, kv := range kvs {
		if err := r.AddScore(kv.Key, kv.Value); err != nil {
			return err
		}
	}
	return nil
}

// Commit writes the experiment and its children atomically and clears the
// buffers. On store failure the draft is kept.
func (r *Recorder) Commit(ctx context.Context) (int64, error) {
	if r.draft == nil {
		return 0, ErrNoActiveExperiment
	}
	id, err := r.store.CommitExperiment(ctx, *r.draft)
	if err != nil {
		return 0, fmt.Errorf("committing %q: %w", r.draft.Experiment.Name, err)
	}
	slog.Debug("experiment committed",
		"id", id,
		"name", r.draft.Experiment.Name,
		"parameters", len(r.draft.Parameters),
		"outputs", len(r.draft.Outputs),
		"scores", len(r.draft.Scores),
	)
	r.draft = nil
	return id, nil
}

// FormatValue renders a parameter value as the text stored in the database.
// A json.Number keeps its text as written, so 1.0 stays "1.0".
func FormatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return string(x)
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}

package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/theirongolddev/outfit/internal/model"
)

type failingCommitter struct {
	calls int
}

func (f *failingCommitter) CommitExperiment(context.Context, model.Draft) (int64, error) {
	f.calls++
	return 0, errors.New("disk full")
}

func TestRecorderRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	r := NewRecorder(s)

	date := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	if err := r.Begin("mnist", "resnet", date); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := r.AddParameters([]model.KV[any]{{Key: "a", Value: 1}, {Key: "b", Value: 2}}); err != nil {
		t.Fatalf("AddParameters: %v", err)
	}
	if err := r.AddOutputs([]model.KV[string]{{Key: "model", Value: "/x"}}); err != nil {
		t.Fatalf("AddOutputs: %v", err)
	}
	if err := r.AddScore("acc", 0.9); err != nil {
		t.Fatalf("AddScore: %v", err)
	}

	id, err := r.Commit(ctx)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if r.Active() {
		t.Fatal("recorder still active after commit")
	}

	rec, err := NewRanker(s).Record(ctx, id)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if rec.Experiment.Name != "mnist" || rec.Experiment.Comment != "resnet" || !rec.Experiment.Date.Equal(date) {
		t.Fatalf("experiment = %+v", rec.Experiment)
	}
	if len(rec.Parameters) != 2 ||
		rec.Parameters[0].Name != "a" || rec.Parameters[0].Value != "1" ||
		rec.Parameters[1].Name != "b" || rec.Parameters[1].Value != "2" {
		t.Fatalf("parameters = %+v, want a=1 b=2", rec.Parameters)
	}
	if len(rec.Outputs) != 1 || rec.Outputs[0].Type != "model" || rec.Outputs[0].Path != "/x" {
		t.Fatalf("outputs = %+v", rec.Outputs)
	}
	if len(rec.Scores) != 1 || rec.Scores[0].Type != "acc" || rec.Scores[0].Value != 0.9 {
		t.Fatalf("scores = %+v", rec.Scores)
	}
}

func TestRecorderRequiresBegin(t *testing.T) {
	r := NewRecorder(&failingCommitter{})
	ctx := context.Background()

	if err := r.AddParameter("lr", 0.1); !errors.Is(err, ErrNoActiveExperiment) {
		t.Fatalf("AddParameter err = %v, want ErrNoActiveExperiment", err)
	}
	if err := r.AddOutput("model", "/x"); !errors.Is(err, ErrNoActiveExperiment) {
		t.Fatalf("AddOutput err = %v, want ErrNoActiveExperiment", err)
	}
	if err := r.AddScore("acc", 1); !errors.Is(err, ErrNoActiveExperiment) {
		t.Fatalf("AddScore err = %v, want ErrNoActiveExperiment", err)
	}
	if _, err := r.Commit(ctx); !errors.Is(err, ErrNoActiveExperiment) {
		t.Fatalf("Commit err = %v, want ErrNoActiveExperiment", err)
	}
}

func TestRecorderBeginTwiceFails(t *testing.T) {
	r := NewRecorder(&failingCommitter{})
	if err := r.Begin("first", "", time.Time{}); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := r.Begin("second", "", time.Time{}); !errors.Is(err, ErrExperimentInProgress) {
		t.Fatalf("second Begin err = %v, want ErrExperimentInProgress", err)
	}

	r.Discard()
	if r.Active() {
		t.Fatal("recorder active after Discard")
	}
	if err := r.Begin("second", "", time.Time{}); err != nil {
		t.Fatalf("Begin after Discard: %v", err)
	}
}

func TestRecorderRejectsEmptyNames(t *testing.T) {
	r := NewRecorder(&failingCommitter{})
	if err := r.Begin("  ", "", time.Time{}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("Begin(blank) err = %v, want ErrInvalidArgument", err)
	}
	if err := r.Begin("ok", "", time.Time{}); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := r.AddParameter("", 1); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("AddParameter(blank) err = %v, want ErrInvalidArgument", err)
	}
}

func TestRecorderKeepsDraftOnStoreFailure(t *testing.T) {
	fc := &failingCommitter{}
	r := NewRecorder(fc)
	if err := r.Begin("e", "", time.Time{}); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := r.Commit(context.Background()); err == nil {
		t.Fatal("Commit succeeded, want store error")
	}
	if !r.Active() {
		t.Fatal("draft dropped after failed commit")
	}
	if fc.calls != 1 {
		t.Fatalf("commit calls = %d, want 1", fc.calls)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{0.1, "0.1"},
		{float32(0.5), "0.5"},
		{3, "3"},
		{int64(42), "42"},
		{true, "true"},
		{"3x3", "3x3"},
		{nil, ""},
		{uint8(7), "7"},
		{json.Number("1.0"), "1.0"},
		{json.Number("12345678901234567890"), "12345678901234567890"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.in); got != tt.want {
			t.Errorf("FormatValue(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

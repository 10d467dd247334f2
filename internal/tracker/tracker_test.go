package tracker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/outfit/internal/model"
	"github.com/theirongolddev/outfit/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "outfit.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// record commits one experiment with the given parameters and scores.
func record(t *testing.T, s *store.Store, name string, params map[string]any, scores ...model.KV[float64]) int64 {
	t.Helper()
	r := NewRecorder(s)
	if err := r.Begin(name, "", time.Time{}); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := r.AddParameters(model.SortedKVs(params)); err != nil {
		t.Fatalf("AddParameters: %v", err)
	}
	if err := r.AddScores(scores); err != nil {
		t.Fatalf("AddScores: %v", err)
	}
	id, err := r.Commit(context.Background())
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return id
}

func score(typ string, v float64) model.KV[float64] {
	return model.KV[float64]{Key: typ, Value: v}
}

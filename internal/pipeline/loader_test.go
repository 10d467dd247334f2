package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

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

func writeLog(t *testing.T, path string, lines ...string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestImportRecordsEntriesInOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	dir := t.TempDir()
	writeLog(t, filepath.Join(dir, "a.jsonl"),
		`{"name":"a1","parameters":{"lr":0.1},"scores":{"acc":0.8}}`,
		`{"name":"a2","parameters":{"lr":0.2},"scores":{"acc":0.9}}`,
	)
	writeLog(t, filepath.Join(dir, "b.jsonl"),
		`{"name":"b1","outputs":{"model":"/m.pt"}}`,
		`garbage`,
	)

	var calls atomic.Int64
	res, err := Import(ctx, dir, s, s, Options{Progress: func(int, int) { calls.Add(1) }})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.TotalFiles != 2 || res.ParsedFiles != 2 || res.Imported != 3 || res.ParseErrors != 1 {
		t.Fatalf("result = %+v", res)
	}
	if calls.Load() != 2 {
		t.Errorf("progress calls = %d, want 2", calls.Load())
	}

	exps, err := s.Experiments(ctx)
	if err != nil {
		t.Fatalf("Experiments: %v", err)
	}
	var names []string
	for _, e := range exps {
		names = append(names, e.Name)
	}
	if got := strings.Join(names, ","); got != "a1,a2,b1" {
		t.Fatalf("names = %s, want a1,a2,b1", got)
	}

	params, err := s.Parameters(ctx, res.IDs[1])
	if err != nil {
		t.Fatalf("Parameters: %v", err)
	}
	if len(params) != 1 || params[0].Value != "0.2" {
		t.Fatalf("params = %+v, want lr=0.2", params)
	}
}

func TestImportSkipsUnchangedFiles(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "runs.jsonl")
	writeLog(t, path, `{"name":"first"}`)

	if _, err := Import(ctx, dir, s, s, Options{}); err != nil {
		t.Fatalf("Import: %v", err)
	}
	res, err := Import(ctx, dir, s, s, Options{})
	if err != nil {
		t.Fatalf("second Import: %v", err)
	}
	if res.Unchanged != 1 || res.Imported != 0 {
		t.Fatalf("second import = %+v, want 1 unchanged, 0 imported", res)
	}

	res, err = Import(ctx, dir, s, s, Options{Force: true})
	if err != nil {
		t.Fatalf("forced Import: %v", err)
	}
	if res.Imported != 1 {
		t.Fatalf("forced import = %+v, want 1 imported", res)
	}

	writeLog(t, path, `{"name":"first"}`, `{"name":"second"}`)
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}
	res, err = Import(ctx, dir, s, s, Options{})
	if err != nil {
		t.Fatalf("changed Import: %v", err)
	}
	if res.Imported != 1 || res.Unchanged != 0 {
		t.Fatalf("appended import = %+v, want only the new entry", res)
	}

	writeLog(t, path, `{"name":"rewritten"}`)
	if err := os.Chtimes(path, later.Add(time.Minute), later.Add(time.Minute)); err != nil {
		t.Fatal(err)
	}
	res, err = Import(ctx, dir, s, s, Options{})
	if err != nil {
		t.Fatalf("rewritten Import: %v", err)
	}
	if res.Imported != 1 {
		t.Fatalf("rewritten import = %+v, want whole file re-read", res)
	}
}

func TestImportWithoutLedger(t *testing.T) {
	s := openTestStore(t)
	dir := t.TempDir()
	writeLog(t, filepath.Join(dir, "runs.jsonl"), `{"name":"x"}`)

	for i := 0; i < 2; i++ {
		res, err := Import(context.Background(), dir, s, nil, Options{})
		if err != nil {
			t.Fatalf("Import: %v", err)
		}
		if res.Imported != 1 {
			t.Fatalf("run %d imported %d, want 1", i, res.Imported)
		}
	}
}

func TestImportMissingRoot(t *testing.T) {
	s := openTestStore(t)
	if _, err := Import(context.Background(), filepath.Join(t.TempDir(), "nope"), s, s, Options{}); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func importedNames(t *testing.T, s *store.Store) string {
	t.Helper()
	exps, err := s.Experiments(context.Background())
	if err != nil {
		t.Fatalf("Experiments: %v", err)
	}
	names := make([]string, 0, len(exps))
	for _, e := range exps {
		names = append(names, e.Name)
	}
	return strings.Join(names, ",")
}

func touch(t *testing.T, path string, at time.Time) {
	t.Helper()
	if err := os.Chtimes(path, at, at); err != nil {
		t.Fatal(err)
	}
}

func TestImportRereadsFileEditedBeforeAppend(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "runs.jsonl")

	writeLog(t, path, `bad`, `{"name":"A"}`)
	if _, err := Import(ctx, dir, s, s, Options{}); err != nil {
		t.Fatalf("Import: %v", err)
	}

	// The bad line is fixed in place and a new entry appended.
	writeLog(t, path, `{"name":"X"}`, `{"name":"A"}`, `{"name":"C"}`)
	touch(t, path, time.Now().Add(time.Minute))

	res, err := Import(ctx, dir, s, s, Options{})
	if err != nil {
		t.Fatalf("second Import: %v", err)
	}
	if res.Imported != 3 {
		t.Fatalf("second import = %+v, want the whole file re-read", res)
	}
	if got := importedNames(t, s); got != "A,X,A,C" {
		t.Fatalf("names = %s, want A,X,A,C", got)
	}
}

func TestImportResumesPastUnfixedBadLine(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "runs.jsonl")

	writeLog(t, path, `bad`, `{"name":"A"}`)
	if _, err := Import(ctx, dir, s, s, Options{}); err != nil {
		t.Fatalf("Import: %v", err)
	}

	writeLog(t, path, `bad`, `{"name":"A"}`, `{"name":"B"}`)
	touch(t, path, time.Now().Add(time.Minute))

	res, err := Import(ctx, dir, s, s, Options{})
	if err != nil {
		t.Fatalf("second Import: %v", err)
	}
	if res.Imported != 1 {
		t.Fatalf("second import = %+v, want only B", res)
	}
	if got := importedNames(t, s); got != "A,B" {
		t.Fatalf("names = %s, want A,B", got)
	}
}

func TestImportKeepsParameterText(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	dir := t.TempDir()
	writeLog(t, filepath.Join(dir, "runs.jsonl"),
		`{"name":"a","parameters":{"seed":12345678901234567890,"lr":1.0,"opt":"adam"}}`)

	res, err := Import(ctx, dir, s, s, Options{})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	params, err := s.Parameters(ctx, res.IDs[0])
	if err != nil {
		t.Fatalf("Parameters: %v", err)
	}

	var got []string
	for _, p := range params {
		got = append(got, p.Name+"="+p.Value)
	}
	want := "seed=12345678901234567890,lr=1.0,opt=adam"
	if strings.Join(got, ",") != want {
		t.Fatalf("params = %s, want %s", strings.Join(got, ","), want)
	}
}

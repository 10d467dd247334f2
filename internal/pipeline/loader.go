// Package pipeline imports JSONL experiment logs into the record store.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/outfit/internal/source"
	"github.com/theirongolddev/outfit/internal/store"
	"github.com/theirongolddev/outfit/internal/tracker"
)

// Ledger remembers which files were imported and in what state.
type Ledger interface {
	TrackedFiles(ctx context.Context) (map[string]store.FileInfo, error)
	TrackFile(ctx context.Context, path string, fi store.FileInfo) error
}

// ProgressFunc is called during parsing to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// Options tunes Import.
type Options struct {
	// Force re-imports files whose size and mtime are unchanged.
	Force    bool
	Progress ProgressFunc
}

// ImportResult holds the output of an import run.
type ImportResult struct {
	TotalFiles  int
	Unchanged   int
	ParsedFiles int
	FileErrors  int
	ParseErrors int
	Imported    int
	IDs         []int64
}

// Import discovers JSONL logs under root, parses new or changed files with a
// bounded worker pool, and records every new entry through a Recorder. Files
// are committed in path order and entries in line order, so ids follow the
// logs. ledger may be nil to disable change tracking.
func Import(ctx context.Context, root string, c tracker.Committer, ledger Ledger, opts Options) (*ImportResult, error) {
	files, err := source.ScanDir(root)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	result := &ImportResult{TotalFiles: len(files)}
	if len(files) == 0 {
		return result, nil
	}

	toParse := files
	// A file whose imported prefix is unchanged was only appended to and
	// resumes after the entries already taken from it. Anything else is
	// re-read whole.
	skip := make(map[string]int)
	if ledger != nil && !opts.Force {
		tracked, err := ledger.TrackedFiles(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading file tracker: %w", err)
		}
		toParse = toParse[:0:0]
		for _, f := range files {
			prev, ok := tracked[f.Path]
			if ok && prev.MtimeNs == f.MtimeNs && prev.SizeBytes == f.SizeBytes {
				result.Unchanged++
				continue
			}
			if ok && appendedTo(f, prev) {
				skip[f.Path] = prev.Experiments
			}
			toParse = append(toParse, f)
		}
	}

	results := parseAll(toParse, result.Unchanged, result.TotalFiles, opts.Progress)

	rec := tracker.NewRecorder(c)
	for _, pr := range results {
		if pr.Err != nil {
			result.FileErrors++
			slog.Warn("skipping unreadable log", "file", pr.File.Path, "err", pr.Err)
			continue
		}
		result.ParsedFiles++
		result.ParseErrors += pr.ParseErrors

		entries := pr.Entries
		if n := skip[pr.File.Path]; n > 0 {
			entries = entries[min(n, len(entries)):]
		}
		for _, e := range entries {
			id, err := record(ctx, rec, e)
			if err != nil {
				rec.Discard()
				return result, fmt.Errorf("%s:%d: %w", pr.File.Path, e.Line, err)
			}
			result.Imported++
			result.IDs = append(result.IDs, id)
		}

		if ledger != nil {
			fi := store.FileInfo{
				MtimeNs:     pr.File.MtimeNs,
				SizeBytes:   pr.File.SizeBytes,
				Experiments: len(pr.Entries),
				Digest:      pr.Digest,
				DigestBytes: pr.DigestBytes,
			}
			if err := ledger.TrackFile(ctx, pr.File.Path, fi); err != nil {
				return result, err
			}
		}
	}

	return result, nil
}

// appendedTo reports whether f still starts with the bytes imported last time.
func appendedTo(f source.DiscoveredFile, prev store.FileInfo) bool {
	if prev.Digest == "" || f.SizeBytes < prev.DigestBytes {
		return false
	}
	sum, err := source.PrefixDigest(f.Path, prev.DigestBytes)
	if err != nil {
		slog.Debug("cannot check imported prefix", "file", f.Path, "err", err)
		return false
	}
	if sum != prev.Digest {
		slog.Info("log rewritten, re-reading whole file", "file", f.Path)
		return false
	}
	return true
}

// parseAll parses files in parallel. Results keep the order of files.
func parseAll(files []source.DiscoveredFile, done, total int, progressFn ProgressFunc) []source.ParseResult {
	results := make([]source.ParseResult, len(files))
	if len(files) == 0 {
		return results
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range files {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = source.ParseFile(files[idx])
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n)+done, total)
				}
			}
		}()
	}

	wg.Wait()
	return results
}

func record(ctx context.Context, rec *tracker.Recorder, e source.Entry) (int64, error) {
	if err := rec.Begin(e.Name, e.Comment, e.Date); err != nil {
		return 0, err
	}
	if err := rec.AddParameters(e.Parameters); err != nil {
		return 0, err
	}
	if err := rec.AddOutputs(e.Outputs); err != nil {
		return 0, err
	}
	if err := rec.AddScores(e.Scores); err != nil {
		return 0, err
	}
	return rec.Commit(ctx)
}

// Package source discovers and parses JSONL experiment logs written by
// training scripts, one experiment per line.
package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// ParseResult holds the output of parsing a single JSONL file. Digest is the
// SHA-256 of the DigestBytes bytes that were read, so a later run can tell
// whether the file was only appended to.
type ParseResult struct {
	File        DiscoveredFile
	Entries     []Entry
	ParseErrors int
	Digest      string
	DigestBytes int64
	Err         error
}

// ParseFile reads a JSONL log. Blank lines are skipped. Lines that are not
// valid JSON or lack a name are counted in ParseErrors and skipped.
func ParseFile(df DiscoveredFile) ParseResult {
	f, err := os.Open(df.Path)
	if err != nil {
		return ParseResult{File: df, Err: err}
	}
	defer func() { _ = f.Close() }()

	res := ParseResult{File: df}
	d := newDigester()

	scanner := bufio.NewScanner(io.TeeReader(f, d))
	scanner.Buffer(make([]byte, 0, 256*1024), 2*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		e, err := ParseLine(line)
		if err != nil {
			res.ParseErrors++
			slog.Debug("skipping log line", "file", df.Path, "line", lineNo, "err", err)
			continue
		}
		e.Line = lineNo
		res.Entries = append(res.Entries, e)
	}

	if err := scanner.Err(); err != nil {
		return ParseResult{File: df, Err: err}
	}
	res.Digest = d.sum()
	res.DigestBytes = d.n
	return res
}

// ParseLine decodes and validates one log line.
func ParseLine(line []byte) (Entry, error) {
	var raw RawEntry
	if err := json.Unmarshal(line, &raw); err != nil {
		return Entry{}, err
	}
	if strings.TrimSpace(raw.Name) == "" {
		return Entry{}, fmt.Errorf("missing name")
	}

	e := Entry{
		Name:       raw.Name,
		Comment:    raw.Comment,
		Parameters: raw.Parameters,
		Outputs:    raw.Outputs,
		Scores:     raw.Scores,
	}
	if raw.Date != "" {
		d, err := parseDate(raw.Date)
		if err != nil {
			return Entry{}, err
		}
		e.Date = d
	}
	for _, p := range e.Parameters {
		if p.Key == "" {
			return Entry{}, fmt.Errorf("empty parameter name")
		}
	}
	return e, nil
}

// parseDate accepts a plain date or a full RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if d, err := time.Parse("2006-01-02", s); err == nil {
		return d, nil
	}
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return ts, nil
}

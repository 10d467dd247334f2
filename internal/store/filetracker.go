package store

import (
	"context"
	"fmt"
)

// FileInfo is what the importer remembers about a file it has read.
// Digest is the SHA-256 of the first DigestBytes bytes, which held the
// Experiments entries already imported.
type FileInfo struct {
	MtimeNs     int64
	SizeBytes   int64
	Experiments int
	Digest      string
	DigestBytes int64
}

// TrackedFiles returns a map of file_path -> FileInfo for all imported files.
func (s *Store) TrackedFiles(ctx context.Context) (map[string]FileInfo, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT file_path, mtime_ns, size_bytes, experiments, digest, digest_bytes FROM file_tracker")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]FileInfo)
	for rows.Next() {
		var path string
		var fi FileInfo
		if err := rows.Scan(&path, &fi.MtimeNs, &fi.SizeBytes, &fi.Experiments, &fi.Digest, &fi.DigestBytes); err != nil {
			return nil, err
		}
		result[path] = fi
	}
	return result, rows.Err()
}

// TrackFile records that path was imported in the given state.
func (s *Store) TrackFile(ctx context.Context, path string, fi FileInfo) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO file_tracker (file_path, mtime_ns, size_bytes, experiments, digest, digest_bytes)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		path, fi.MtimeNs, fi.SizeBytes, fi.Experiments, fi.Digest, fi.DigestBytes)
	if err != nil {
		return fmt.Errorf("tracking %s: %w", path, err)
	}
	return nil
}

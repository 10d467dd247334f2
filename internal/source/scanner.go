package source

import (
	"os"
	"path/filepath"
	"sort"
)

// ScanDir discovers JSONL experiment logs under root. root may also name a
// single file. Results are sorted by path.
func ScanDir(root string) ([]DiscoveredFile, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []DiscoveredFile{discovered(root, info)}, nil
	}

	var files []DiscoveredFile
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // intentionally skip unreadable entries
		}
		if d.IsDir() || filepath.Ext(path) != ".jsonl" {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return nil //nolint:nilerr // file vanished mid-walk
		}
		files = append(files, discovered(path, fi))
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, err
}

func discovered(path string, fi os.FileInfo) DiscoveredFile {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return DiscoveredFile{
		Path:      path,
		MtimeNs:   fi.ModTime().UnixNano(),
		SizeBytes: fi.Size(),
	}
}

package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScanDir walks dir and discovers every event file it recognizes by
// extension (.json, .jsonl, .ndjson, .csv). If dir is itself a file it is
// returned alone. A missing directory yields no files and no error.
func ScanDir(dir string) ([]DiscoveredFile, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		if df, ok := classify(dir); ok {
			return []DiscoveredFile{df}, nil
		}
		return nil, nil
	}

	var files []DiscoveredFile
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // intentionally skip unreadable entries
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if df, ok := classify(path); ok {
			files = append(files, df)
		}
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, err
}

func classify(path string) (DiscoveredFile, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return DiscoveredFile{Path: path, Format: FormatJSON}, true
	case ".jsonl", ".ndjson":
		return DiscoveredFile{Path: path, Format: FormatJSONL}, true
	case ".csv":
		return DiscoveredFile{Path: path, Format: FormatCSV}, true
	}
	return DiscoveredFile{}, false
}

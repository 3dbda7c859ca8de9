package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/theirongolddev/cashcal/internal/source"
	"github.com/theirongolddev/cashcal/internal/store"
)

// CachedLoadResult extends LoadResult with cache metadata.
type CachedLoadResult struct {
	LoadResult
	CacheHits int
	Reparsed  int
	Removed   int
}

// LoadWithCache discovers files, diffs them against the cache by mtime and
// size, parses only changed files, and returns the combined event set.
// Cache entries for files that no longer exist are dropped.
func LoadWithCache(dataDir string, cache *store.Cache, progressFn ProgressFunc) (*CachedLoadResult, error) {
	files, err := source.ScanDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dataDir, err)
	}

	tracked, err := cache.GetTrackedFiles()
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	result := &CachedLoadResult{
		LoadResult: LoadResult{TotalFiles: len(files)},
	}

	var toReparse []source.DiscoveredFile
	var reparseInfo []store.FileInfo
	unchanged := make(map[string]store.FileInfo)
	seen := make(map[string]struct{}, len(files))

	for _, f := range files {
		seen[f.Path] = struct{}{}
		info, err := os.Stat(f.Path)
		if err != nil {
			result.FileErrors++
			continue
		}

		fi := store.FileInfo{MtimeNs: info.ModTime().UnixNano(), SizeBytes: info.Size()}
		cached, ok := tracked[f.Path]
		if ok && cached.MtimeNs == fi.MtimeNs && cached.SizeBytes == fi.SizeBytes {
			unchanged[f.Path] = cached
		} else {
			toReparse = append(toReparse, f)
			reparseInfo = append(reparseInfo, fi)
		}
	}

	for path := range tracked {
		if _, ok := seen[path]; ok {
			continue
		}
		if err := cache.DeleteFile(path); err != nil {
			logrus.WithError(err).WithField("file", path).Warn("dropping stale cache entry")
			continue
		}
		result.Removed++
	}

	result.CacheHits = len(unchanged)
	result.Reparsed = len(toReparse)

	if len(unchanged) > 0 {
		cachedEvents, err := cache.LoadEvents()
		if err != nil {
			return nil, fmt.Errorf("loading cached events: %w", err)
		}
		// Walk files rather than the map so event order follows path order.
		for _, f := range files {
			fi, ok := unchanged[f.Path]
			if !ok {
				continue
			}
			result.ParsedFiles++
			result.ParseErrors += fi.ParseErrors
			result.Events = append(result.Events, cachedEvents[f.Path]...)
		}
	}

	if len(toReparse) > 0 {
		results := parseAll(toReparse, func(n int) {
			if progressFn != nil {
				progressFn(n+result.CacheHits, result.TotalFiles)
			}
		})

		for i, pr := range results {
			if pr.Err != nil {
				result.FileErrors++
				logrus.WithError(pr.Err).WithField("file", toReparse[i].Path).Debug("parse failed")
				continue
			}
			result.ParsedFiles++
			result.ParseErrors += pr.ParseErrors
			result.Events = append(result.Events, pr.Events...)

			fi := reparseInfo[i]
			fi.ParseErrors = pr.ParseErrors
			if err := cache.SaveFileEvents(toReparse[i].Path, pr.Events, fi); err != nil {
				logrus.WithError(err).WithField("file", toReparse[i].Path).Warn("caching parsed events")
			}
		}
	}

	return result, nil
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "cashcal")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "cashcal")
}

// CachePath returns the full path to the cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "cashcal.db")
}

package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/theirongolddev/powerlytics/internal/model"
	"github.com/theirongolddev/powerlytics/internal/source"
	"github.com/theirongolddev/powerlytics/internal/store"
)

// CachedLoadResult extends LoadResult with cache metadata.
type CachedLoadResult struct {
	LoadResult
	CacheHits int
	Reparsed  int
}

// OptionsKey fingerprints parse options so a cache built with different
// options is treated as stale.
func OptionsKey(o source.Options) string {
	return fmt.Sprintf("%d|%s|%s|%c", o.SkipRows, o.DateLayout, o.TimeLayout, o.Comma)
}

// LoadWithCache discovers files, diffs them against the cache, parses only
// the changed ones and returns the merged table.
func LoadWithCache(paths []string, opts source.Options, cache *store.Cache, progressFn ProgressFunc) (*CachedLoadResult, error) {
	files, err := source.ScanPaths(paths)
	if err != nil {
		return nil, fmt.Errorf("scanning paths: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no export files found", ErrNoReadings)
	}

	tracked, err := cache.GetTrackedFiles()
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	key := OptionsKey(opts)
	result := &CachedLoadResult{LoadResult: LoadResult{TotalFiles: len(files)}}

	// Per-file readings, kept in file order so the merged table is stable.
	perFile := make([][]model.Reading, len(files))
	stats := make([]os.FileInfo, len(files))
	var toReparse []int

	for i, f := range files {
		info, err := os.Stat(f.Path)
		if err != nil {
			result.FileErrors = append(result.FileErrors, fmt.Errorf("stat %s: %w", f.Path, err))
			continue
		}
		stats[i] = info

		cached, ok := tracked[f.Path]
		if ok && cached.MtimeNs == info.ModTime().UnixNano() && cached.SizeBytes == info.Size() && cached.OptionsKey == key {
			readings, err := cache.LoadReadings(f.Path)
			if err != nil {
				return nil, fmt.Errorf("loading cached readings: %w", err)
			}
			perFile[i] = readings
			result.CacheHits++
			result.ParsedFiles++
			result.DroppedRows += cached.Dropped
			continue
		}
		toReparse = append(toReparse, i)
	}

	result.Reparsed = len(toReparse)
	if len(toReparse) > 0 {
		batch := make([]source.DiscoveredFile, len(toReparse))
		for j, i := range toReparse {
			batch[j] = files[i]
		}
		parsed := parseAll(batch, opts, func(n int) {
			if progressFn != nil {
				progressFn(n+result.CacheHits, result.TotalFiles)
			}
		})

		for j, pr := range parsed {
			i := toReparse[j]
			if pr.Err != nil {
				result.FileErrors = append(result.FileErrors, pr.Err)
				continue
			}
			result.ParsedFiles++
			result.DroppedRows += pr.Dropped
			perFile[i] = pr.Readings

			info := store.FileInfo{
				MtimeNs:    stats[i].ModTime().UnixNano(),
				SizeBytes:  stats[i].Size(),
				OptionsKey: key,
				Dropped:    pr.Dropped,
			}
			_ = cache.SaveReadings(files[i].Path, info, pr.Readings)
		}
	}

	var readings []model.Reading
	for _, rs := range perFile {
		readings = append(readings, rs...)
	}
	if err := result.finish(readings); err != nil {
		return nil, err
	}
	return result, nil
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "powerlytics")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "powerlytics")
}

// CachePath returns the full path to the cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "readings.db")
}

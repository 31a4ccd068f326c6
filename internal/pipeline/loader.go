package pipeline

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/powerlytics/internal/model"
	"github.com/theirongolddev/powerlytics/internal/source"
)

// ErrNoReadings is returned when no file yields a single valid reading.
var ErrNoReadings = errors.New("no valid readings remaining after cleaning")

// LoadResult holds the output of the full data loading pipeline.
type LoadResult struct {
	Table       *model.ReadingTable
	TotalFiles  int
	ParsedFiles int
	DroppedRows int
	FileErrors  []error
}

// ProgressFunc is called during loading to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// Load discovers and parses every export under paths and merges the
// readings, in file order, into one table. It uses a bounded worker pool for
// parallel parsing. Unreadable files are reported in FileErrors; the load
// only fails if nothing valid remains.
func Load(paths []string, opts source.Options, progressFn ProgressFunc) (*LoadResult, error) {
	files, err := source.ScanPaths(paths)
	if err != nil {
		return nil, fmt.Errorf("scanning paths: %w", err)
	}

	result := &LoadResult{TotalFiles: len(files)}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no export files found", ErrNoReadings)
	}

	results := parseAll(files, opts, func(n int) {
		if progressFn != nil {
			progressFn(n, len(files))
		}
	})

	var readings []model.Reading
	for _, pr := range results {
		if pr.Err != nil {
			result.FileErrors = append(result.FileErrors, pr.Err)
			continue
		}
		result.ParsedFiles++
		result.DroppedRows += pr.Dropped
		readings = append(readings, pr.Readings...)
	}

	if err := result.finish(readings); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *LoadResult) finish(readings []model.Reading) error {
	if len(readings) == 0 {
		return fmt.Errorf("%w (%d files, %d rows dropped)", ErrNoReadings, r.TotalFiles, r.DroppedRows)
	}
	table, err := model.NewReadingTable(readings)
	if err != nil {
		return fmt.Errorf("building reading table: %w", err)
	}
	r.Table = table
	return nil
}

// parseAll parses files with a worker pool sized to GOMAXPROCS. Results are
// indexed like files. done receives the running count of finished files.
func parseAll(files []source.DiscoveredFile, opts source.Options, done func(int)) []source.ParseResult {
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
				results[idx] = source.ParseFile(files[idx], opts)
				n := processed.Add(1)
				if done != nil {
					done(int(n))
				}
			}
		}()
	}

	wg.Wait()
	return results
}

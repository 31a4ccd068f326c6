package tui

import (
	"fmt"
	"time"

	"github.com/theirongolddev/powerlytics/internal/config"
	"github.com/theirongolddev/powerlytics/internal/model"
	"github.com/theirongolddev/powerlytics/internal/pipeline"
	"github.com/theirongolddev/powerlytics/internal/source"
	"github.com/theirongolddev/powerlytics/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// Options configures what the dashboard loads and how it scopes views.
type Options struct {
	Paths   []string
	Parse   source.Options
	NoCache bool
	Range   model.DateRange
	Years   []int
	Tariff  config.TariffConfig
}

// Dataset is one loaded and validated set of readings.
type Dataset struct {
	Table       *model.ReadingTable
	Set         *model.AggregationSet
	TotalFiles  int
	ParsedFiles int
	DroppedRows int
	CacheHits   int
	FileErrors  []error
}

// DataLoadedMsg is sent when the initial load finishes.
type DataLoadedMsg struct {
	Data     *Dataset
	Err      error
	LoadTime time.Duration
}

// ProgressMsg reports file parsing progress.
type ProgressMsg struct {
	Current int
	Total   int
}

// RefreshDataMsg is sent when a reload triggered from the dashboard completes.
type RefreshDataMsg struct {
	Data     *Dataset
	Err      error
	LoadTime time.Duration
}

// LoadDataset loads readings, through the parse cache unless disabled, and
// builds the aggregation set.
func LoadDataset(opts Options, progressFn pipeline.ProgressFunc) (*Dataset, error) {
	ds, err := loadReadings(opts, progressFn)
	if err != nil {
		return nil, err
	}
	set, err := pipeline.Build(ds.Table)
	if err != nil {
		return nil, fmt.Errorf("building aggregations: %w", err)
	}
	ds.Set = set
	return ds, nil
}

func loadReadings(opts Options, progressFn pipeline.ProgressFunc) (*Dataset, error) {
	if !opts.NoCache {
		cache, err := store.Open(pipeline.CachePath())
		if err == nil {
			cr, loadErr := pipeline.LoadWithCache(opts.Paths, opts.Parse, cache, progressFn)
			_ = cache.Close()
			if loadErr == nil {
				ds := fromLoadResult(&cr.LoadResult)
				ds.CacheHits = cr.CacheHits
				return ds, nil
			}
		}
	}

	// Fallback: uncached load
	result, err := pipeline.Load(opts.Paths, opts.Parse, progressFn)
	if err != nil {
		return nil, err
	}
	return fromLoadResult(result), nil
}

func fromLoadResult(r *pipeline.LoadResult) *Dataset {
	return &Dataset{
		Table:       r.Table,
		TotalFiles:  r.TotalFiles,
		ParsedFiles: r.ParsedFiles,
		DroppedRows: r.DroppedRows,
		FileErrors:  r.FileErrors,
	}
}

// loadDataCmd starts the data loading pipeline in a background goroutine.
// It streams ProgressMsg updates and a final DataLoadedMsg through sub.
func loadDataCmd(opts Options, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			start := time.Now()

			// Non-blocking send so workers aren't stalled; the next
			// update catches up.
			progressFn := func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			}

			ds, err := LoadDataset(opts, progressFn)
			sub <- DataLoadedMsg{Data: ds, Err: err, LoadTime: time.Since(start)}
		}()

		// Block until the first message (either ProgressMsg or DataLoadedMsg)
		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

// refreshDataCmd reloads in the background without progress UI.
func refreshDataCmd(opts Options) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		ds, err := LoadDataset(opts, nil)
		return RefreshDataMsg{Data: ds, Err: err, LoadTime: time.Since(start)}
	}
}

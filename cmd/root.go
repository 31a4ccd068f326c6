// Package cmd implements the powerlytics CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/theirongolddev/powerlytics/internal/cli"
	"github.com/theirongolddev/powerlytics/internal/config"
	"github.com/theirongolddev/powerlytics/internal/logutil"
	"github.com/theirongolddev/powerlytics/internal/model"
	"github.com/theirongolddev/powerlytics/internal/pipeline"
	"github.com/theirongolddev/powerlytics/internal/source"
	"github.com/theirongolddev/powerlytics/internal/store"

	log "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	flagFiles    []string
	flagStart    string
	flagEnd      string
	flagYears    []int
	flagNoCache  bool
	flagQuiet    bool
	flagLogLevel string
)

// cfg is loaded once before any command runs.
var cfg = config.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:   "powerlytics",
	Short: "Smart-meter electricity usage analytics",
	Long: "Aggregate smart-meter CSV exports into hourly, daily, weekly, monthly,\n" +
		"seasonal and yearly rollups, plus hour-of-day and day-of-week profiles.",
	SilenceUsage:      true,
	PersistentPreRunE: bootstrap,
	RunE:              runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringSliceVarP(&flagFiles, "file", "f", nil, "Meter export file or directory (repeatable)")
	rootCmd.PersistentFlags().StringVar(&flagStart, "start", "", "First day to include (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVar(&flagEnd, "end", "", "Last day to include (YYYY-MM-DD)")
	rootCmd.PersistentFlags().IntSliceVar(&flagYears, "years", nil, "Restrict profiles to these years (e.g. 2023,2024)")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip SQLite cache, reparse everything")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// bootstrap loads config and configures logging. Flags override config values.
func bootstrap(_ *cobra.Command, _ []string) error {
	loaded, err := config.Load()
	if err != nil {
		// Keep going on defaults so `setup` can repair a broken file.
		fmt.Fprintf(os.Stderr, "  %v; using defaults\n", err)
		loaded = config.DefaultConfig()
	}
	cfg = loaded

	level := cfg.Logging.Level
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	if flagQuiet && flagLogLevel == "" {
		level = "warn"
	}
	return logutil.Configure(level)
}

// dataset is everything a command needs after loading.
type dataset struct {
	Load *pipeline.LoadResult
	Set  *model.AggregationSet
}

func dataPaths() []string {
	if len(flagFiles) > 0 {
		return flagFiles
	}
	return cfg.General.DataPaths
}

func parseOptions() source.Options {
	return source.Options{
		SkipRows:   cfg.Parsing.SkipRows,
		DateLayout: cfg.Parsing.DateLayout,
		TimeLayout: cfg.Parsing.TimeLayout,
		Comma:      cfg.Parsing.CommaRune(),
	}
}

// dateRange parses --start/--end once, at the boundary.
func dateRange() (model.DateRange, error) {
	r, err := model.ParseDateRange(flagStart, flagEnd)
	if err != nil {
		return model.DateRange{}, fmt.Errorf("--start/--end: %w", err)
	}
	return r, nil
}

// loadData is the shared data loading path used by all commands.
// Uses SQLite cache when available for fast subsequent runs, then builds
// and validates the aggregation set.
func loadData() (*dataset, error) {
	paths := dataPaths()
	if len(paths) == 0 {
		return nil, errors.New("no meter exports given: pass --file or run `powerlytics setup`")
	}

	result, err := loadReadings(paths, parseOptions())
	if err != nil {
		log.Error("loading readings failed", "err", err)
		return nil, err
	}
	for _, ferr := range result.FileErrors {
		log.Warn("skipped file", "err", ferr)
	}
	if result.DroppedRows > 0 {
		log.Info("dropped invalid rows", "rows", result.DroppedRows)
	}

	set, err := pipeline.Build(result.Table)
	if err != nil {
		if pipeline.IsValidationError(err) {
			log.Error("aggregation validation failed", "err", err)
		} else {
			log.Error("aggregation failed", "err", err)
		}
		return nil, err
	}
	log.Debug("aggregations built", "levels", set.Len(), "readings", result.Table.Len())

	return &dataset{Load: result, Set: set}, nil
}

func loadReadings(paths []string, opts source.Options) (*pipeline.LoadResult, error) {
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Scanning exports...\n")
	}

	progressFn := func(current, total int) {
		if flagQuiet {
			return
		}
		if current%10 == 0 || current == total {
			fmt.Fprintf(os.Stderr, "\r  Parsing [%d/%d]", current, total)
		}
	}

	// Try cached load unless --no-cache
	if !flagNoCache && !cfg.General.NoCache {
		cache, err := store.Open(pipeline.CachePath())
		if err != nil {
			log.Debug("cache unavailable, doing full parse", "err", err)
		} else {
			defer cache.Close()

			cr, err := pipeline.LoadWithCache(paths, opts, cache, progressFn)
			if err == nil {
				if !flagQuiet {
					if cr.Reparsed == 0 {
						fmt.Fprintf(os.Stderr, "\r  Loaded %s readings from cache (%d files)    \n",
							cli.FormatNumber(int64(cr.Table.Len())), cr.TotalFiles)
					} else {
						fmt.Fprintf(os.Stderr, "\r  %d cached + %d reparsed files, %s readings    \n",
							cr.CacheHits, cr.Reparsed, cli.FormatNumber(int64(cr.Table.Len())))
					}
				}
				return &cr.LoadResult, nil
			}
			if errors.Is(err, pipeline.ErrNoReadings) {
				return nil, err
			}
			log.Warn("cache error, falling back to full parse", "err", err)
		}
	}

	// Uncached path
	result, err := pipeline.Load(paths, opts, progressFn)
	if err != nil {
		return nil, err
	}
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "\r  Parsed %s readings from %d files    \n",
			cli.FormatNumber(int64(result.Table.Len())), result.ParsedFiles)
	}
	return result, nil
}

// scopedRollup returns the rollup for g filtered to --start/--end.
func scopedRollup(set *model.AggregationSet, g model.Granularity) (*model.RollupTable, error) {
	t, ok := set.Get(g)
	if !ok {
		return nil, fmt.Errorf("%w: %s", pipeline.ErrMissingDependency, g)
	}
	r, err := dateRange()
	if err != nil {
		return nil, err
	}
	if r.IsZero() {
		return t, nil
	}
	return pipeline.FilterRollup(t, r)
}

package pipeline

import (
	"fmt"

	"github.com/theirongolddev/powerlytics/internal/model"
)

// ProfileFilter restricts the rows a profile is averaged over. The date
// range is applied first, then the year list. Zero values keep everything.
type ProfileFilter struct {
	Range model.DateRange
	Years []int
}

func (f ProfileFilter) keep(row model.RollupRow) bool {
	if !f.Range.Contains(row.Key.Date) {
		return false
	}
	if len(f.Years) == 0 {
		return true
	}
	for _, y := range f.Years {
		if row.Key.Year == y {
			return true
		}
	}
	return false
}

// HourOfDayProfile averages the hourly rollup of set by hour of day.
// Only hours with data appear, ascending.
func HourOfDayProfile(set *model.AggregationSet, f ProfileFilter) (*model.Profile, error) {
	return buildProfile(set, model.HourOfDay, f, 24,
		func(r model.RollupRow) int { return r.Key.Hour },
		func(bucket int) model.ProfileRow { return model.ProfileRow{Hour: bucket} })
}

// DayOfWeekProfile averages the daily rollup of set by weekday, Monday first.
// Only weekdays with data appear.
func DayOfWeekProfile(set *model.AggregationSet, f ProfileFilter) (*model.Profile, error) {
	return buildProfile(set, model.DayOfWeekKind, f, 7,
		func(r model.RollupRow) int { return int(model.DayOfWeekOf(r.Key.Date.Weekday())) },
		func(bucket int) model.ProfileRow { return model.ProfileRow{Day: model.DayOfWeek(bucket)} })
}

// ComputeProfile dispatches on kind.
func ComputeProfile(set *model.AggregationSet, kind model.ProfileKind, f ProfileFilter) (*model.Profile, error) {
	switch kind {
	case model.HourOfDay:
		return HourOfDayProfile(set, f)
	case model.DayOfWeekKind:
		return DayOfWeekProfile(set, f)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedGranularity, string(kind))
}

func buildProfile(
	set *model.AggregationSet,
	kind model.ProfileKind,
	f ProfileFilter,
	buckets int,
	bucketOf func(model.RollupRow) int,
	rowFor func(bucket int) model.ProfileRow,
) (*model.Profile, error) {
	dep := kind.Dependency()
	src, ok := set.Get(dep)
	if !ok {
		return nil, fmt.Errorf("%w: %s profile needs the %s rollup", ErrMissingDependency, kind, dep)
	}

	sums := make([]float64, buckets)
	counts := make([]int, buckets)
	kept := 0
	for i := 0; i < src.Len(); i++ {
		row := src.Row(i)
		if !f.keep(row) {
			continue
		}
		b := bucketOf(row)
		sums[b] += row.EnergyKWh
		counts[b]++
		kept++
	}
	if kept == 0 {
		return nil, fmt.Errorf("%w: %s profile over %s", ErrEmptyResult, kind, f.Range)
	}

	rows := make([]model.ProfileRow, 0, buckets)
	for b := 0; b < buckets; b++ {
		if counts[b] == 0 {
			continue
		}
		row := rowFor(b)
		row.AvgEnergyKWh = round3(sums[b] / float64(counts[b]))
		row.Samples = counts[b]
		rows = append(rows, row)
	}
	return model.NewProfile(kind, rows), nil
}
